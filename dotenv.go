// FILE: lixenwraith/cascade/dotenv.go
package cascade

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/joho/godotenv"

	"github.com/lixenwraith/cascade/internal/logger"
)

// Namespace is a flat key/value environment table.
type Namespace map[string]string

// DotEnvOptions configures a DotEnvLoader.
type DotEnvOptions struct {
	Resolver Resolver

	// Sink receives the merged namespace. Nil disables mirroring.
	//
	// ${VAR} references are expanded by godotenv against keys defined
	// earlier in the same file only. Neither Sink nor the process
	// environment is consulted.
	Sink EnvSink

	// Override lets loaded values replace variables that were already set
	// in the sink before this loader touched them.
	Override bool

	// Logger receives load failures. Defaults to stderr.
	Logger *logger.Logger
}

// DotEnvLoader runs the key/value cascade:
//
//	.env -> .env.local -> .env.<env> -> .env.<env>.local
//
// Load never returns an error and never panics; failures are logged and
// reported in DotEnvResult.Err.
type DotEnvLoader struct {
	resolver Resolver
	sink     EnvSink
	override bool
	log      *logger.Logger

	mu    sync.Mutex
	owned map[string]bool // keys this loader has written to the sink
}

// DotEnvResult describes one run of the key/value cascade.
type DotEnvResult struct {
	// Environment is the resolved name, empty when unset.
	Environment string
	// Files lists every candidate in load order with its existence flag.
	Files []Candidate
	// Loaded lists the paths actually applied.
	Loaded []string
	Values Namespace
	// Err is the failure that stopped the cascade, if any.
	Err error
}

// NewDotEnvLoader creates a loader. When no parent scope is configured the
// resolver reads from the sink, or from the process environment without one.
func NewDotEnvLoader(opts DotEnvOptions) *DotEnvLoader {
	l := &DotEnvLoader{
		resolver: opts.Resolver,
		sink:     opts.Sink,
		override: opts.Override,
		log:      opts.Logger,
		owned:    make(map[string]bool),
	}
	if l.log == nil {
		l.log = logger.Stderr("dotenv")
	}
	if l.resolver.Parent == nil && l.sink != nil {
		l.resolver.Parent = l.sink.LookupEnv
	}
	return l
}

// Load runs the cascade rooted at basePath. A missing basePath/.env means
// the feature is unused: the result is empty and nothing is logged as an
// error.
func (l *DotEnvLoader) Load(basePath string) (res *DotEnvResult) {
	res = &DotEnvResult{Values: make(Namespace)}

	defaultFile := filepath.Join(basePath, ".env")
	if !fileExists(defaultFile) {
		l.log.Debug().Str("path", defaultFile).Msg("no default env file, nothing to load")
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic while loading env files: %v", r)
			l.log.Error().
				Str("base", basePath).
				Interface("panic", r).
				Msg("failed to load .env files")
		}
	}()

	if file, err := l.load(basePath, res); err != nil {
		res.Err = err
		ev := l.log.Error().Err(err).Str("base", basePath)
		if file != "" {
			ev = ev.Str("file", file)
		}
		ev.Msg("failed to load .env files")
	}

	return res
}

// Candidates lists the files a Load of basePath would consider, for the
// environment resolved right now.
func (l *DotEnvLoader) Candidates(basePath string) []Candidate {
	env, err := l.resolver.Resolve(basePath)
	if err != nil {
		env = ""
	}
	return dotEnvCandidates(basePath, env)
}

// load fills res and returns the file being processed when an error occurs.
func (l *DotEnvLoader) load(basePath string, res *DotEnvResult) (string, error) {
	env, err := l.resolver.Resolve(basePath)
	switch {
	case err == nil:
		res.Environment = env
		l.log.Debug().
			Str("environment", env).
			Str("policy", l.resolver.Policy.String()).
			Msg("resolved environment")
	case errors.Is(err, ErrEnvironmentUnset):
		l.log.Debug().Str("policy", l.resolver.Policy.String()).Msg("environment unset, skipping environment layers")
	default:
		return "", err
	}

	res.Files = dotEnvCandidates(basePath, env)
	for _, c := range res.Files {
		if !c.Exists {
			continue
		}
		values, err := readDotEnv(c.Path)
		if err != nil {
			return c.Path, err
		}
		maps.Copy(res.Values, values)
		res.Loaded = append(res.Loaded, c.Path)
	}

	if l.sink != nil {
		if err := l.mirror(res.Values); err != nil {
			return "", err
		}
	}
	return "", nil
}

// mirror writes values to the sink. Variables present in the sink that this
// loader did not set are left alone unless override is on.
func (l *DotEnvLoader) mirror(values Namespace) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range slices.Sorted(maps.Keys(values)) {
		if _, exists := l.sink.LookupEnv(key); exists && !l.override && !l.owned[key] {
			l.log.Debug().Str("key", key).Msg("keeping existing environment variable")
			continue
		}
		if err := l.sink.Setenv(key, values[key]); err != nil {
			return fmt.Errorf("failed to set environment variable %s: %w", key, err)
		}
		l.owned[key] = true
	}
	return nil
}

// readDotEnv parses one dotenv file. References are expanded per file; values
// from earlier layers are not visible to later ones.
func readDotEnv(path string) (Namespace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open env file '%s': %w", path, err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrConfigParse, path, err)
	}
	return values, nil
}
