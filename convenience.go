// File: lixenwraith/cascade/convenience.go
package cascade

import (
	"fmt"

	"github.com/lixenwraith/cascade/internal/logger"
)

// Bootstrap runs the key/value cascade rooted at basePath with settings from
// CASCADE_* variables, mirroring the result into the process environment.
// It is meant for process start-up: it never returns an error and never
// panics. Invalid settings are logged and replaced by defaults.
func Bootstrap(basePath string) *DotEnvResult {
	b := NewBuilder().FromEnv()
	if b.err != nil {
		logger.Stderr("dotenv").Error().Err(b.err).Msg("invalid cascade settings, using defaults")
		b = NewBuilder()
	}

	loader, err := b.BuildDotEnv()
	if err != nil {
		logger.Stderr("dotenv").Error().Err(err).Msg("failed to build env loader")
		return &DotEnvResult{Values: make(Namespace), Err: err}
	}
	return loader.Load(basePath)
}

// LoadConfig runs the structured cascade in configDir with settings from
// CASCADE_* variables.
func LoadConfig(configDir string) (Document, error) {
	loader, err := NewBuilder().FromEnv().BuildConfig()
	if err != nil {
		return nil, err
	}
	return loader.Load(configDir)
}

// MustLoadConfig is like LoadConfig but panics on error
func MustLoadConfig(configDir string) Document {
	doc, err := LoadConfig(configDir)
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}
	return doc
}
