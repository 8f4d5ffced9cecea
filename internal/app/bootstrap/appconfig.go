// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds stratapulse-specific configuration.
//
// WAFFLE's CoreConfig covers ports, TLS, logging, CORS and security headers;
// everything here is loaded from STRATAPULSE_* env vars, config files or
// flags in LoadConfig.
type AppConfig struct {
	// Daily log files
	LogDir           string // directory holding daily_<YYYY-MM-DD>.txt files
	LogFilePrefix    string // file name prefix (default: daily_)
	LogFileExt       string // file name extension (default: .txt)
	LogRetentionDays int    // delete files older than this many days; 0 keeps everything
	LogQueueSize     int    // pending appends before ingestion requests block

	// Optional Bearer key for the ingestion API (blank means open)
	APIKey string

	// Origins allowed by /api CORS (empty allows any)
	APICORSOrigins []string

	// Optional MongoDB batch ledger (blank URI disables it)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64
	LedgerRetention  time.Duration // ledger entries older than this are pruned; 0 keeps everything
}

// LedgerEnabled reports whether a MongoDB URI is configured.
func (c AppConfig) LedgerEnabled() bool { return c.MongoURI != "" }
