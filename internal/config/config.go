// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// savekeep server. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds account-policy settings: verification requirements, the
	// password hashing work factor, and the per-account storage quota.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the relational credential store and
	// the sandboxed file store root.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP
	// listeners.
	Server Server `envPrefix:"SERVER_"`

	// Mailer holds outbound email transport settings.
	Mailer Mailer `envPrefix:"MAILER_"`

	// Janitor holds configuration for the background pruning worker.
	Janitor Janitor `envPrefix:"JANITOR_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds account-policy configuration values.
type App struct {
	// VerifyEmail controls whether new accounts must prove ownership of
	// their email address before a session token is issued. When false,
	// registration returns a token immediately.
	// Env: APP_VERIFY_EMAIL
	VerifyEmail bool `env:"VERIFY_EMAIL"`

	// BcryptCost is the bcrypt work factor used when hashing passwords.
	// Zero selects the package default.
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// QuotaBytes is the maximum total bytes an account may store, summed
	// across both file categories.
	// Env: APP_QUOTA_BYTES
	QuotaBytes int64 `env:"QUOTA_BYTES"`

	// FrontEndURL is the base URL of the browser front end, used to build
	// password reset links in outbound email.
	// Env: APP_FRONTEND_URL
	FrontEndURL string `env:"FRONTEND_URL"`

	// ResetPagePath is the front-end path a reset code is appended to
	// (e.g. "/reset#").
	// Env: APP_RESET_PAGE_PATH
	ResetPagePath string `env:"RESET_PAGE_PATH"`
}

// Storage holds configuration for all persistence backends.
type Storage struct {
	// Driver selects the relational backend: "postgres" or "sqlite".
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string for the selected driver
	// (a postgres:// URI, or a file path for SQLite).
	// Env: STORAGE_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// DataDir is the root directory of the sandboxed file store. The two
	// category trees live directly beneath it.
	// Env: STORAGE_DATA_DIR
	DataDir string `env:"DATA_DIR"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address of the plain HTTP listener,
	// in "host:port" format. Empty disables the listener.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// TLSAddress is the TCP address of the HTTPS listener. Requires
	// CertFile and KeyFile. Empty disables the listener.
	// Env: SERVER_TLS_ADDRESS
	TLSAddress string `env:"TLS_ADDRESS"`

	// CertFile is the path to the PEM certificate for the TLS listener.
	// Env: SERVER_CERT_FILE
	CertFile string `env:"CERT_FILE"`

	// KeyFile is the path to the PEM private key for the TLS listener.
	// Env: SERVER_KEY_FILE
	KeyFile string `env:"KEY_FILE"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AllowedOrigins is the CORS origin allow-list for the browser
	// front end.
	// Env: SERVER_ALLOWED_ORIGINS (comma-separated)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Mailer holds outbound email transport settings. Exactly one transport is
// active, selected by Transport.
type Mailer struct {
	// Transport selects the delivery mechanism: "smtp", "http", or "log"
	// (log-only, for development).
	// Env: MAILER_TRANSPORT
	Transport string `env:"TRANSPORT"`

	// From is the sender address placed on every outbound message.
	// Env: MAILER_FROM
	From string `env:"FROM"`

	// SMTPHost and SMTPPort locate the SMTP relay for the smtp transport.
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT"`

	// SMTPUsername and SMTPPassword authenticate against the relay.
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// HTTPEndpoint is the JSON API endpoint for the http transport.
	// Env: MAILER_HTTP_ENDPOINT
	HTTPEndpoint string `env:"HTTP_ENDPOINT"`

	// HTTPToken is the bearer token sent to HTTPEndpoint.
	// Env: MAILER_HTTP_TOKEN
	HTTPToken string `env:"HTTP_TOKEN"`
}

// Janitor holds configuration for the background worker that prunes
// abandoned verification records and handoff tokens.
type Janitor struct {
	// Interval is how often the janitor runs. Zero disables it.
	// Env: JANITOR_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// MaxPendingAge is the age past which a pending verification or
	// handoff row is considered abandoned and removed.
	// Env: JANITOR_MAX_PENDING_AGE
	MaxPendingAge time.Duration `env:"MAX_PENDING_AGE"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
