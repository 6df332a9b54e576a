package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidCloudConfigs indicates invalid cloud store settings
	// (for example, a missing base URL).
	ErrInvalidCloudConfigs = errors.New("invalid cloud configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty DSN or backup directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
