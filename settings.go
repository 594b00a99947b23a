package cascade

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// Settings is the process-level configuration of the loaders themselves,
// read from CASCADE_* environment variables.
type Settings struct {
	// EnvVar names the variable holding the environment name.
	// Env: CASCADE_ENV_VAR
	EnvVar string `env:"CASCADE_ENV_VAR"`

	// Policy decides what happens when no environment name resolves.
	// Env: CASCADE_ENV_POLICY (skip|fallback)
	Policy EnvPolicy `env:"CASCADE_ENV_POLICY"`

	// DefaultEnv is the name PolicyFallback resolves to.
	// Env: CASCADE_DEFAULT_ENV
	DefaultEnv string `env:"CASCADE_DEFAULT_ENV"`

	// BasePath is the directory holding the .env files.
	// Env: CASCADE_BASE_PATH
	BasePath string `env:"CASCADE_BASE_PATH"`

	// ConfigDir is the directory holding the marker and structured layers.
	// Env: CASCADE_CONFIG_DIR
	ConfigDir string `env:"CASCADE_CONFIG_DIR"`

	// Marker is the marker file name inside ConfigDir.
	// Env: CASCADE_MARKER
	Marker string `env:"CASCADE_MARKER"`

	// Extensions are tried in order for each structured layer.
	// Env: CASCADE_EXTENSIONS (comma separated)
	Extensions []string `env:"CASCADE_EXTENSIONS" envSeparator:","`

	// Override lets dotenv values replace pre-existing process variables.
	// Env: CASCADE_OVERRIDE
	Override bool `env:"CASCADE_OVERRIDE"`

	// NoMirror keeps the key/value pipeline from writing to the process
	// environment.
	// Env: CASCADE_NO_MIRROR
	NoMirror bool `env:"CASCADE_NO_MIRROR"`

	// Protect lists the roles the write guard refuses to write.
	// Env: CASCADE_PROTECT (comma separated, e.g. "base,local")
	Protect []string `env:"CASCADE_PROTECT" envSeparator:","`

	// ProtectMode selects strict (error) or silent (drop and log) handling
	// of protected writes.
	// Env: CASCADE_PROTECT_MODE
	ProtectMode ProtectMode `env:"CASCADE_PROTECT_MODE"`

	// MaxFileSize caps structured document size in bytes.
	// Env: CASCADE_MAX_FILE_SIZE
	MaxFileSize int64 `env:"CASCADE_MAX_FILE_SIZE"`

	// StrictNames rejects environment names containing path separators.
	// Env: CASCADE_STRICT_NAMES
	StrictNames bool `env:"CASCADE_STRICT_NAMES"`

	// LogLevel for the loaders' logger.
	// Env: CASCADE_LOG_LEVEL
	LogLevel string `env:"CASCADE_LOG_LEVEL"`
}

// DefaultSettings returns the settings used for every unset field.
func DefaultSettings() Settings {
	return Settings{
		EnvVar:      DefaultEnvVar,
		Policy:      PolicySkip,
		DefaultEnv:  DefaultEnvironment,
		Marker:      DefaultMarker,
		Extensions:  append([]string(nil), DefaultExtensions...),
		ProtectMode: ProtectStrict,
		LogLevel:    "info",
	}
}

// LoadSettings reads settings from the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("error getting env settings: %w", err)
	}
	return s.WithDefaults()
}

// ParseSettings reads settings from the given variables instead of the
// process environment.
func ParseSettings(vars map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: vars}); err != nil {
		return Settings{}, fmt.Errorf("error getting env settings: %w", err)
	}
	return s.WithDefaults()
}

// WithDefaults fills zero fields from DefaultSettings.
func (s Settings) WithDefaults() (Settings, error) {
	if err := mergo.Merge(&s, DefaultSettings()); err != nil {
		return Settings{}, fmt.Errorf("error merging settings: %w", err)
	}
	if _, err := ParseRoles(s.Protect); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Resolver returns the process-variable resolver these settings describe.
func (s Settings) Resolver() Resolver {
	return Resolver{
		EnvVar:  s.EnvVar,
		Policy:  s.Policy,
		Default: s.DefaultEnv,
	}
}

// ConfigOptions returns the structured loader options these settings
// describe, without a logger.
func (s Settings) ConfigOptions() ConfigOptions {
	return ConfigOptions{
		Marker:     s.Marker,
		Extensions: s.Extensions,
		Security: Security{
			MaxFileSize:          s.MaxFileSize,
			PreventPathTraversal: s.StrictNames,
		},
	}
}
