// FILE: lixenwraith/cascade/discovery.go
package cascade

import (
	"os"
	"path/filepath"
)

// DiscoveryOptions configures base path discovery.
type DiscoveryOptions struct {
	// Explicit path, e.g. from a CLI flag. Used as-is when non-empty.
	Explicit string

	// EnvVar to check for a path; defaults to CASCADE_BASE_PATH.
	EnvVar string

	// Marker is the file whose presence identifies the base path;
	// defaults to ".env".
	Marker string

	// StartDir for the upward search; defaults to the working directory.
	StartDir string

	// MaxDepth limits how many parents are visited; 0 means up to the root.
	MaxDepth int
}

// DiscoverBasePath locates the directory holding the .env files: an
// explicit path, then the environment variable, then the start directory
// and its parents. When nothing is found it returns the start directory
// and false, so a cascade rooted there simply finds no files.
func DiscoverBasePath(opts DiscoveryOptions) (string, bool) {
	if opts.Explicit != "" {
		return opts.Explicit, true
	}

	envVar := opts.EnvVar
	if envVar == "" {
		envVar = "CASCADE_BASE_PATH"
	}
	if path := os.Getenv(envVar); path != "" {
		return path, true
	}

	marker := opts.Marker
	if marker == "" {
		marker = ".env"
	}

	start := opts.StartDir
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ".", false
		}
		start = cwd
	}
	start, err := filepath.Abs(start)
	if err != nil {
		return opts.StartDir, false
	}

	dir := start
	for depth := 0; opts.MaxDepth == 0 || depth <= opts.MaxDepth; depth++ {
		if fileExists(filepath.Join(dir, marker)) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// No file found is not an error - the cascade treats it as unused
	return start, false
}
