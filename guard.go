// File: lixenwraith/cascade/guard.go
package cascade

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lixenwraith/cascade/internal/logger"
)

// ProtectMode selects how a WriteGuard handles writes to a protected layer.
type ProtectMode string

const (
	// ProtectStrict rejects the write with ErrProtectedWrite.
	ProtectStrict ProtectMode = "strict"
	// ProtectSilent drops the write, logs a warning and reports success.
	ProtectSilent ProtectMode = "silent"
)

// UnmarshalText validates and sets the mode. An empty value selects
// ProtectStrict.
func (m *ProtectMode) UnmarshalText(text []byte) error {
	switch v := ProtectMode(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case "", ProtectStrict:
		*m = ProtectStrict
	case ProtectSilent:
		*m = ProtectSilent
	default:
		return fmt.Errorf("unknown protect mode %q (want %q or %q)", string(text), ProtectStrict, ProtectSilent)
	}
	return nil
}

var knownRoles = []Role{
	RoleBase, RoleEnvironment, RoleLocal,
	RoleEnvDefault, RoleEnvLocal, RoleEnvEnvironment, RoleEnvEnvironmentLocal,
}

// ParseRoles converts role names, rejecting unknown ones. Blank entries are
// ignored.
func ParseRoles(names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		known := false
		for _, r := range knownRoles {
			if string(r) == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown role %q", name)
		}
		roles = append(roles, Role(name))
	}
	return roles, nil
}

// WriteGuard writes cascade layers back to disk unless their role is
// protected.
type WriteGuard struct {
	protected map[Role]bool
	mode      ProtectMode
	log       *logger.Logger
}

// NewWriteGuard creates a guard protecting roles. An empty mode selects
// ProtectStrict.
func NewWriteGuard(mode ProtectMode, log *logger.Logger, roles ...Role) *WriteGuard {
	if mode == "" {
		mode = ProtectStrict
	}
	if log == nil {
		log = logger.Nop()
	}
	g := &WriteGuard{protected: make(map[Role]bool, len(roles)), mode: mode, log: log}
	for _, r := range roles {
		g.protected[r] = true
	}
	return g
}

// Mode returns the guard's protect mode.
func (g *WriteGuard) Mode() ProtectMode {
	return g.mode
}

// Protects reports whether writes to role are blocked.
func (g *WriteGuard) Protects(role Role) bool {
	return g.protected[role]
}

// SaveDocument atomically writes doc to c.Path in the format implied by its
// extension.
func (g *WriteGuard) SaveDocument(c Candidate, doc Document) error {
	if blocked, err := g.check(c); blocked {
		return err
	}

	format := detectFileFormat(c.Path)
	if format == "" || format == FormatDotEnv {
		return fmt.Errorf("%w for file '%s'", ErrUnknownFormat, c.Path)
	}
	data, err := encodeDocument(format, doc)
	if err != nil {
		return err
	}
	return atomicWriteFile(c.Path, data)
}

// SaveEnv atomically writes ns to c.Path in dotenv syntax.
func (g *WriteGuard) SaveEnv(c Candidate, ns Namespace) error {
	if blocked, err := g.check(c); blocked {
		return err
	}

	content, err := godotenv.Marshal(ns)
	if err != nil {
		return fmt.Errorf("failed to marshal env file '%s': %w", c.Path, err)
	}
	return atomicWriteFile(c.Path, []byte(content+"\n"))
}

// SetEnvValue atomically sets one variable in the dotenv file c.Path.
// The first `key=` line is replaced and a missing key is appended. Every
// other line is written back byte for byte, so comments and unexpanded
// ${VAR} references survive.
func (g *WriteGuard) SetEnvValue(c Candidate, key, value string) error {
	if key == "" || strings.ContainsAny(key, "= \t\r\n") {
		return fmt.Errorf("invalid env variable name %q", key)
	}
	if blocked, err := g.check(c); blocked {
		return err
	}

	line, err := godotenv.Marshal(map[string]string{key: value})
	if err != nil {
		return fmt.Errorf("failed to marshal env value '%s': %w", key, err)
	}

	content, err := os.ReadFile(c.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read env file '%s': %w", c.Path, err)
	}

	var out []byte
	if loc := patternsFor(key).line.FindIndex(content); loc != nil {
		out = make([]byte, 0, len(content)+len(line))
		out = append(out, content[:loc[0]]...)
		out = append(out, line...)
		out = append(out, content[loc[1]:]...)
	} else {
		out = append(out, content...)
		if len(out) > 0 && out[len(out)-1] != '\n' {
			out = append(out, '\n')
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return atomicWriteFile(c.Path, out)
}

// check reports whether the write must not happen and the error to return.
// In silent mode a blocked write returns a nil error.
func (g *WriteGuard) check(c Candidate) (bool, error) {
	if !g.protected[c.Role] {
		return false, nil
	}

	g.log.Warn().
		Str("file", c.Path).
		Str("role", string(c.Role)).
		Str("mode", string(g.mode)).
		Msg("blocked attempt to write protected config file")

	if g.mode == ProtectSilent {
		return true, nil
	}
	return true, fmt.Errorf("%w: %s (%s)", ErrProtectedWrite, c.Path, c.Role)
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file to '%s': %w", path, err)
	}

	return nil
}
