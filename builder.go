// File: lixenwraith/cascade/builder.go
package cascade

import (
	"fmt"
	"maps"
	"os"

	"github.com/lixenwraith/cascade/internal/logger"
)

// Builder provides a fluent interface for building the cascade loaders
// from one set of Settings.
type Builder struct {
	settings Settings
	explicit map[string]string
	sink     EnvSink
	log      *logger.Logger
	err      error
}

// NewBuilder creates a builder with DefaultSettings and the process
// environment as sink.
func NewBuilder() *Builder {
	return &Builder{
		settings: DefaultSettings(),
		sink:     NewProcessEnv(),
	}
}

// FromEnv replaces the builder's settings with those read from CASCADE_*
// variables. Errors surface from the Build methods.
func (b *Builder) FromEnv() *Builder {
	s, err := LoadSettings()
	if err != nil {
		b.err = err
		return b
	}
	b.settings = s
	return b
}

// WithSettings replaces the builder's settings; zero fields take defaults.
func (b *Builder) WithSettings(s Settings) *Builder {
	s, err := s.WithDefaults()
	if err != nil {
		b.err = err
		return b
	}
	b.settings = s
	return b
}

// WithBasePath sets the directory holding the .env files
func (b *Builder) WithBasePath(path string) *Builder {
	b.settings.BasePath = path
	return b
}

// WithConfigDir sets the directory holding the structured layers
func (b *Builder) WithConfigDir(dir string) *Builder {
	b.settings.ConfigDir = dir
	return b
}

// WithEnvVar sets the variable name holding the environment name
func (b *Builder) WithEnvVar(name string) *Builder {
	b.settings.EnvVar = name
	return b
}

// WithPolicy sets the unresolved-environment policy and its fallback name.
func (b *Builder) WithPolicy(policy EnvPolicy, defaultEnv string) *Builder {
	b.settings.Policy = policy
	if defaultEnv != "" {
		b.settings.DefaultEnv = defaultEnv
	}
	return b
}

// WithExplicit sets host-supplied process-scoped variables consulted before
// the inherited environment.
func (b *Builder) WithExplicit(vars map[string]string) *Builder {
	b.explicit = maps.Clone(vars)
	return b
}

// WithSink sets the environment table the key/value pipeline mirrors into.
func (b *Builder) WithSink(sink EnvSink) *Builder {
	b.sink = sink
	return b
}

// WithoutMirror disables mirroring into the sink.
func (b *Builder) WithoutMirror() *Builder {
	b.settings.NoMirror = true
	return b
}

// WithOverride lets loaded values replace pre-existing variables
func (b *Builder) WithOverride(override bool) *Builder {
	b.settings.Override = override
	return b
}

// WithProtection sets the write guard's mode and protected roles.
func (b *Builder) WithProtection(mode ProtectMode, roles ...Role) *Builder {
	b.settings.ProtectMode = mode
	b.settings.Protect = nil
	for _, r := range roles {
		b.settings.Protect = append(b.settings.Protect, string(r))
	}
	return b
}

// WithLogger sets the logger shared by everything the builder creates.
func (b *Builder) WithLogger(l *logger.Logger) *Builder {
	b.log = l
	return b
}

// Settings returns the builder's current settings.
func (b *Builder) Settings() Settings {
	return b.settings
}

func (b *Builder) logger(component string) *logger.Logger {
	if b.log != nil {
		return b.log.Child(component)
	}
	return logger.New(os.Stderr, logger.ParseLevel(b.settings.LogLevel), component)
}

// BuildDotEnv creates the key/value cascade loader.
func (b *Builder) BuildDotEnv() (*DotEnvLoader, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building loader: %w", b.err)
	}

	resolver := b.settings.Resolver()
	resolver.Explicit = b.explicit

	opts := DotEnvOptions{
		Resolver: resolver,
		Override: b.settings.Override,
		Logger:   b.logger("dotenv"),
	}
	if !b.settings.NoMirror {
		opts.Sink = b.sink
	}
	return NewDotEnvLoader(opts), nil
}

// BuildConfig creates the structured cascade loader.
func (b *Builder) BuildConfig() (*ConfigLoader, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building loader: %w", b.err)
	}

	opts := b.settings.ConfigOptions()
	opts.Logger = b.logger("config")
	return NewConfigLoader(opts), nil
}

// BuildGuard creates the write guard.
func (b *Builder) BuildGuard() (*WriteGuard, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building guard: %w", b.err)
	}

	roles, err := ParseRoles(b.settings.Protect)
	if err != nil {
		return nil, err
	}
	return NewWriteGuard(b.settings.ProtectMode, b.logger("guard"), roles...), nil
}
