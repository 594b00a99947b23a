// FILE: lixenwraith/cascade/candidate.go
package cascade

import (
	"os"
	"path/filepath"
)

// Role tags a candidate file with its position in a cascade.
type Role string

const (
	// Structured pipeline layers
	RoleBase        Role = "base"
	RoleEnvironment Role = "environment"
	RoleLocal       Role = "local"

	// Key/value pipeline layers
	RoleEnvDefault          Role = "env-default"
	RoleEnvLocal            Role = "env-local"
	RoleEnvEnvironment      Role = "env-environment"
	RoleEnvEnvironmentLocal Role = "env-environment-local"
)

// Description is the short human label used in reports.
func (r Role) Description() string {
	switch r {
	case RoleBase:
		return "base (required)"
	case RoleEnvironment:
		return "environment-specific"
	case RoleLocal:
		return "local overrides"
	case RoleEnvDefault:
		return "defaults"
	case RoleEnvLocal:
		return "machine-specific overrides"
	case RoleEnvEnvironment:
		return "environment-specific"
	case RoleEnvEnvironmentLocal:
		return "environment-specific machine overrides"
	default:
		return string(r)
	}
}

// Candidate is a file that may take part in a cascade.
// Exists reflects the filesystem at the time the candidate was built.
type Candidate struct {
	Path   string
	Exists bool
	Role   Role
}

func newCandidate(path string, role Role) Candidate {
	return Candidate{Path: path, Exists: fileExists(path), Role: role}
}

// Name returns the base name of the candidate path.
func (c Candidate) Name() string {
	return filepath.Base(c.Path)
}

// fileExists reports whether path names an existing regular file or symlink
// to one. Directories do not count.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dotEnvCandidates lists the key/value layers in load order. The
// environment pair is only present when env is non-empty.
func dotEnvCandidates(basePath, env string) []Candidate {
	files := []Candidate{
		newCandidate(filepath.Join(basePath, ".env"), RoleEnvDefault),
		newCandidate(filepath.Join(basePath, ".env.local"), RoleEnvLocal),
	}
	if env != "" {
		files = append(files,
			newCandidate(filepath.Join(basePath, ".env."+env), RoleEnvEnvironment),
			newCandidate(filepath.Join(basePath, ".env."+env+".local"), RoleEnvEnvironmentLocal),
		)
	}
	return files
}
