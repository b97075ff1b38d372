package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown driver or empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid listener settings
	// (for example, no listen address at all, or a TLS address without
	// certificate material).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidMailerConfigs indicates an unknown mailer transport or a
	// transport missing its required settings.
	ErrInvalidMailerConfigs = errors.New("invalid mailer configuration")
	// ErrInvalidAppConfigs indicates invalid account-policy settings
	// (for example, a negative quota).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
