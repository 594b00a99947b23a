package cascade

import "errors"

var (
	// ErrEnvironmentUnset reports that the process-variable strategy found no
	// environment name and the active policy does not fall back to a default.
	ErrEnvironmentUnset = errors.New("environment unset")

	// ErrEnvironmentNotConfigured reports a missing marker file.
	ErrEnvironmentNotConfigured = errors.New("environment not configured")

	// ErrEnvironmentEmpty reports a marker file whose content trims to nothing.
	ErrEnvironmentEmpty = errors.New("environment file is empty")

	// ErrRequiredConfigMissing reports a missing base document.
	ErrRequiredConfigMissing = errors.New("required config missing")

	ErrConfigParse    = errors.New("failed to parse config file")
	ErrUnknownFormat  = errors.New("unable to determine config format")
	ErrPathTraversal  = errors.New("potential path traversal detected")
	ErrFileTooLarge   = errors.New("config file exceeds maximum size")
	ErrProtectedWrite = errors.New("file is protected from writes")
)
