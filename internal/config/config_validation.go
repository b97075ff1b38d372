// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Supported relational backends.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Defaults applied to fields that remain zero after all sources are merged.
const (
	DefaultHTTPAddress = "localhost:8080"
	DefaultBcryptCost  = 10
	DefaultQuotaBytes  = 128 << 20 // 128 MiB per account
	DefaultDataDir     = "data"
	DefaultDriver      = DriverSQLite
	DefaultDSN         = "main.db"
	DefaultMailerLog   = "log"
	DefaultJanitorTick = time.Hour
	DefaultPendingAge  = 24 * time.Hour
)

// applyDefaults fills in zero-valued fields with sensible defaults so the
// server can start from an empty environment in development.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.BcryptCost == 0 {
		cfg.App.BcryptCost = DefaultBcryptCost
	}
	if cfg.App.QuotaBytes == 0 {
		cfg.App.QuotaBytes = DefaultQuotaBytes
	}
	if cfg.Server.HTTPAddress == "" && cfg.Server.TLSAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultDriver
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = DefaultDSN
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = DefaultDataDir
	}
	if cfg.Mailer.Transport == "" {
		cfg.Mailer.Transport = DefaultMailerLog
	}
	if cfg.Janitor.Interval == 0 {
		cfg.Janitor.Interval = DefaultJanitorTick
	}
	if cfg.Janitor.MaxPendingAge == 0 {
		cfg.Janitor.MaxPendingAge = DefaultPendingAge
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.TLSAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Server.TLSAddress != "" && (cfg.Server.CertFile == "" || cfg.Server.KeyFile == "") {
		return ErrInvalidServerConfigs
	}

	switch cfg.Mailer.Transport {
	case "log":
	case "smtp":
		if cfg.Mailer.SMTPHost == "" || cfg.Mailer.SMTPPort == 0 {
			return ErrInvalidMailerConfigs
		}
	case "http":
		if cfg.Mailer.HTTPEndpoint == "" {
			return ErrInvalidMailerConfigs
		}
	default:
		return ErrInvalidMailerConfigs
	}

	if cfg.App.QuotaBytes < 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}
