// FILE: lixenwraith/cascade/report.go
package cascade

import (
	"errors"
	"strings"
)

// HiddenValue replaces sensitive values in a Report.
const HiddenValue = "***HIDDEN***"

// DefaultReportKeys are the document paths a Report shows when none are
// requested.
var DefaultReportKeys = []string{
	"mode",
	"db/connection/default/host",
	"db/connection/default/dbname",
	"db/connection/default/username",
	"db/connection/default/password",
}

var sensitiveWords = []string{"password", "secret", "key", "token"}

// ReportOptions configures Inspect.
type ReportOptions struct {
	// ConfigDir holds the marker and structured layers.
	ConfigDir string
	// BasePath holds the .env files; the dotenv section is skipped when
	// empty.
	BasePath string

	Config   ConfigOptions
	Resolver Resolver

	// Keys are the document paths to show; defaults to DefaultReportKeys.
	Keys []string
}

// ReportKey is one selected document value.
type ReportKey struct {
	Path   string
	Value  string
	Found  bool
	Masked bool
}

// Report is a read-only snapshot of both cascades.
type Report struct {
	ConfigDir string
	// Environment is the marker content, empty when EnvironmentErr is set.
	Environment    string
	EnvironmentErr error
	ConfigFiles    []Candidate
	// ConfigErr holds the structured load failure, if any.
	ConfigErr error
	Keys      []ReportKey

	BasePath          string
	DotEnvEnvironment string
	DotEnvFiles       []Candidate
}

// EnvironmentLabel is the environment name or a description of why there
// is none.
func (r *Report) EnvironmentLabel() string {
	switch {
	case r.EnvironmentErr == nil:
		return r.Environment
	case errors.Is(r.EnvironmentErr, ErrEnvironmentNotConfigured):
		return "NOT CONFIGURED (missing .environment file)"
	case errors.Is(r.EnvironmentErr, ErrEnvironmentEmpty):
		return "EMPTY (.environment file is empty)"
	default:
		return "UNREADABLE (" + r.EnvironmentErr.Error() + ")"
	}
}

// Inspect builds a Report. It reads files but never writes them and never
// touches the process environment.
func Inspect(opts ReportOptions) *Report {
	loader := NewConfigLoader(opts.Config)
	r := &Report{ConfigDir: opts.ConfigDir, BasePath: opts.BasePath}

	r.Environment, r.EnvironmentErr = ReadMarker(opts.ConfigDir, loader.opts.Marker)
	r.ConfigFiles = loader.Candidates(opts.ConfigDir, r.Environment)

	keys := opts.Keys
	if len(keys) == 0 {
		keys = DefaultReportKeys
	}

	var doc Document
	if r.EnvironmentErr != nil {
		r.ConfigErr = r.EnvironmentErr
	} else {
		doc, r.ConfigErr = loader.LoadEnvironment(opts.ConfigDir, r.Environment)
	}
	for _, path := range keys {
		r.Keys = append(r.Keys, reportKey(doc, path))
	}

	if opts.BasePath != "" {
		env, err := opts.Resolver.Resolve(opts.BasePath)
		if err == nil {
			r.DotEnvEnvironment = env
		}
		r.DotEnvFiles = dotEnvCandidates(opts.BasePath, r.DotEnvEnvironment)
	}

	return r
}

func reportKey(doc Document, path string) ReportKey {
	k := ReportKey{Path: path}
	if doc == nil {
		return k
	}
	value, err := doc.String(path)
	if err != nil {
		k.Found = doc.Has(path)
		return k
	}
	k.Found = true
	if isSensitive(path) {
		k.Value = HiddenValue
		k.Masked = true
		return k
	}
	k.Value = value
	return k
}

// isSensitive reports whether the last path segment names a secret.
func isSensitive(path string) bool {
	last := path
	if i := strings.LastIndex(path, PathSeparator); i >= 0 {
		last = path[i+1:]
	}
	last = strings.ToLower(last)
	for _, word := range sensitiveWords {
		if strings.Contains(last, word) {
			return true
		}
	}
	return false
}
