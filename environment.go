// FILE: lixenwraith/cascade/environment.go
package cascade

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const (
	// DefaultEnvVar is the process variable holding the environment name.
	DefaultEnvVar = "APP_ENV"
	// DefaultEnvironment is used by PolicyFallback when nothing else resolves.
	DefaultEnvironment = "dev"
	// DefaultMarker is the marker file read by the structured pipeline.
	DefaultMarker = ".environment"
)

// EnvPolicy selects what the process-variable strategy does when no
// environment name can be found.
type EnvPolicy string

const (
	// PolicySkip leaves the environment unset; environment-specific layers
	// are skipped.
	PolicySkip EnvPolicy = "skip"
	// PolicyFallback substitutes a fixed default name.
	PolicyFallback EnvPolicy = "fallback"
)

// UnmarshalText validates and sets the policy. An empty value selects
// PolicySkip.
func (p *EnvPolicy) UnmarshalText(text []byte) error {
	switch v := EnvPolicy(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case "", PolicySkip:
		*p = PolicySkip
	case PolicyFallback:
		*p = PolicyFallback
	default:
		return fmt.Errorf("unknown environment policy %q (want %q or %q)", string(text), PolicySkip, PolicyFallback)
	}
	return nil
}

func (p EnvPolicy) String() string {
	if p == "" {
		return string(PolicySkip)
	}
	return string(p)
}

// LookupFunc reads one variable from a scope, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Resolver determines the environment name for the key/value pipeline.
// The zero value reads APP_ENV from the process environment and skips
// environment layers when nothing is found.
type Resolver struct {
	// EnvVar is the variable name; defaults to DefaultEnvVar.
	EnvVar string

	// Explicit holds process-scoped variables supplied by the host.
	// Checked first.
	Explicit map[string]string

	// Parent is the inherited scope; defaults to os.LookupEnv.
	Parent LookupFunc

	Policy EnvPolicy

	// Default is the name PolicyFallback resolves to; defaults to
	// DefaultEnvironment.
	Default string
}

func (r *Resolver) envVar() string {
	if r.EnvVar == "" {
		return DefaultEnvVar
	}
	return r.EnvVar
}

// Resolve returns the environment name for basePath. Sources are checked in
// order: explicit scope, parent scope, the assignment in basePath/.env.local,
// then the policy. With PolicySkip and no match it returns ErrEnvironmentUnset.
// Nothing is cached.
func (r *Resolver) Resolve(basePath string) (string, error) {
	name := r.envVar()

	if v := strings.TrimSpace(r.Explicit[name]); v != "" {
		return r.Explicit[name], nil
	}

	parent := r.Parent
	if parent == nil {
		parent = os.LookupEnv
	}
	if v, ok := parent(name); ok && strings.TrimSpace(v) != "" {
		return v, nil
	}

	localFile := filepath.Join(basePath, ".env.local")
	if content, err := os.ReadFile(localFile); err == nil {
		if v, ok := ExtractAssignment(content, name); ok {
			return v, nil
		}
	}

	if r.Policy == PolicyFallback {
		if r.Default != "" {
			return r.Default, nil
		}
		return DefaultEnvironment, nil
	}

	return "", ErrEnvironmentUnset
}

// ExtractAssignment finds the first line of the form `NAME = value` in
// content and returns value with surrounding whitespace and quotes removed.
// A value that trims to nothing counts as no match.
func ExtractAssignment(content []byte, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	m := patternsFor(name).value.FindSubmatch(content)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(string(m[1]))
	v = strings.Trim(v, `"'`)
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// ReadMarker reads the environment name from the marker file in configDir.
// marker defaults to DefaultMarker. A missing file wraps
// ErrEnvironmentNotConfigured; a file that trims to nothing wraps
// ErrEnvironmentEmpty.
func ReadMarker(configDir, marker string) (string, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	path := filepath.Join(configDir, marker)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: create %s", ErrEnvironmentNotConfigured, path)
		}
		return "", fmt.Errorf("failed to read environment file '%s': %w", path, err)
	}

	env := strings.TrimSpace(string(data))
	if env == "" {
		return "", fmt.Errorf("%w: %s", ErrEnvironmentEmpty, path)
	}
	return env, nil
}

// assignmentPatterns holds the compiled patterns for one variable name.
type assignmentPatterns struct {
	value *regexp.Regexp // captures the value of the first assignment
	line  *regexp.Regexp // matches a whole assignment line, empty values included
}

// patternCache maps a variable name to its *assignmentPatterns.
var patternCache sync.Map

func patternsFor(name string) *assignmentPatterns {
	if p, ok := patternCache.Load(name); ok {
		return p.(*assignmentPatterns)
	}
	quoted := regexp.QuoteMeta(name)
	p := &assignmentPatterns{
		value: regexp.MustCompile(`(?m)^` + quoted + `[ \t]*=[ \t]*(.+)$`),
		line:  regexp.MustCompile(`(?m)^` + quoted + `[ \t]*=.*$`),
	}
	actual, _ := patternCache.LoadOrStore(name, p)
	return actual.(*assignmentPatterns)
}
