// FILE: lixenwraith/cascade/structured.go
package cascade

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/cascade/internal/logger"
)

const (
	DefaultBaseName  = "base"
	DefaultLocalName = "local"
)

// Security restricts what the structured pipeline will read.
// The zero value imposes no restrictions.
type Security struct {
	// MaxFileSize caps document size in bytes; 0 means unlimited.
	MaxFileSize int64

	// PreventPathTraversal rejects environment names containing path
	// separators, which would otherwise select a file outside the config
	// directory.
	PreventPathTraversal bool
}

// ConfigOptions configures a ConfigLoader.
type ConfigOptions struct {
	// Marker is the file holding the environment name; defaults to
	// DefaultMarker.
	Marker string

	BaseName  string
	LocalName string

	// Extensions are tried in order for every layer; defaults to
	// DefaultExtensions.
	Extensions []string

	Security Security
	Logger   *logger.Logger
}

// ConfigLoader runs the structured cascade:
//
//	base (required) -> <environment> -> local
//
// Each layer is deep-merged onto the previous result. Errors are returned,
// never swallowed.
type ConfigLoader struct {
	opts ConfigOptions
	log  *logger.Logger
}

// NewConfigLoader creates a loader, filling unset options with defaults.
func NewConfigLoader(opts ConfigOptions) *ConfigLoader {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.BaseName == "" {
		opts.BaseName = DefaultBaseName
	}
	if opts.LocalName == "" {
		opts.LocalName = DefaultLocalName
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &ConfigLoader{opts: opts, log: log}
}

// Load reads the environment name from the marker file in configDir and
// returns the merged document.
func (l *ConfigLoader) Load(configDir string) (Document, error) {
	env, err := ReadMarker(configDir, l.opts.Marker)
	if err != nil {
		return nil, err
	}
	return l.LoadEnvironment(configDir, env)
}

// LoadEnvironment runs the cascade for an environment name supplied by the
// caller instead of the marker file.
func (l *ConfigLoader) LoadEnvironment(configDir, env string) (Document, error) {
	if err := l.checkEnvironment(env); err != nil {
		return nil, err
	}

	files := l.Candidates(configDir, env)
	base := files[0]
	if !base.Exists {
		return nil, fmt.Errorf("%w: %s", ErrRequiredConfigMissing, base.Path)
	}

	doc, err := l.readDocument(base.Path)
	if err != nil {
		return nil, err
	}
	l.log.Debug().Str("file", base.Path).Str("role", string(base.Role)).Msg("loaded config layer")

	for _, c := range files[1:] {
		if !c.Exists {
			l.log.Debug().Str("file", c.Path).Str("role", string(c.Role)).Msg("optional config layer not found")
			continue
		}
		overlay, err := l.readDocument(c.Path)
		if err != nil {
			return nil, err
		}
		doc = doc.Merge(overlay)
		l.log.Debug().Str("file", c.Path).Str("role", string(c.Role)).Msg("merged config layer")
	}

	return doc, nil
}

// Candidates lists the layers for env in merge order. The environment layer
// is omitted when env is empty. A layer with no existing file carries the
// path of its first extension.
func (l *ConfigLoader) Candidates(configDir, env string) []Candidate {
	files := []Candidate{l.resolveLayer(configDir, l.opts.BaseName, RoleBase)}
	if env != "" {
		files = append(files, l.resolveLayer(configDir, env, RoleEnvironment))
	}
	return append(files, l.resolveLayer(configDir, l.opts.LocalName, RoleLocal))
}

func (l *ConfigLoader) resolveLayer(configDir, stem string, role Role) Candidate {
	for _, ext := range l.opts.Extensions {
		path := filepath.Join(configDir, stem+ext)
		if fileExists(path) {
			return Candidate{Path: path, Exists: true, Role: role}
		}
	}
	return Candidate{Path: filepath.Join(configDir, stem+l.opts.Extensions[0]), Role: role}
}

func (l *ConfigLoader) checkEnvironment(env string) error {
	if !l.opts.Security.PreventPathTraversal {
		return nil
	}
	if strings.ContainsAny(env, `/\`) || strings.ContainsRune(env, filepath.Separator) {
		return fmt.Errorf("%w in environment name %q", ErrPathTraversal, env)
	}
	return nil
}

func (l *ConfigLoader) readDocument(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}

	maxSize := l.opts.Security.MaxFileSize
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: '%s' is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), maxSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return decodeDocument(path, data)
}

// ReadLayer reads the document behind c. A candidate whose file does not
// exist yields an empty document.
func (l *ConfigLoader) ReadLayer(c Candidate) (Document, error) {
	if !c.Exists {
		return Document{}, nil
	}
	return l.readDocument(c.Path)
}
