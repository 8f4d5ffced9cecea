// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/store/dailylog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for app environment variables.
const EnvVarPrefix = "STRATAPULSE"

// appConfigKeys are loaded via WAFFLE's config system:
//   - config files: log_dir, mongo_uri, ...
//   - environment: STRATAPULSE_LOG_DIR, STRATAPULSE_MONGO_URI, ...
//   - flags: --log_dir, --mongo_uri, ...
var appConfigKeys = []config.AppKey{
	{Name: "log_dir", Default: "./logs", Desc: "Directory for daily log files (created at startup)"},
	{Name: "log_file_prefix", Default: dailylog.DefaultPrefix, Desc: "Daily log file name prefix"},
	{Name: "log_file_ext", Default: dailylog.DefaultExt, Desc: "Daily log file extension"},
	{Name: "log_retention_days", Default: 0, Desc: "Delete daily log files older than N days (0 = keep forever)"},
	{Name: "log_queue_size", Default: dailylog.DefaultQueueSize, Desc: "Pending appends queued for the log writer"},

	{Name: "api_key", Default: "", Desc: "Bearer key for the ingestion API (leave empty for open access)"},
	{Name: "api_cors_origins", Default: "", Desc: "Comma-separated origins allowed to call /api (leave empty to allow any)"},

	{Name: "mongo_uri", Default: "", Desc: "MongoDB URI for the batch ledger (leave empty to disable)"},
	{Name: "mongo_database", Default: "stratapulse", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 20, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 2, Desc: "MongoDB min connection pool size"},
	{Name: "ledger_retention", Default: "720h", Desc: "Prune ledger entries older than this (0 = keep forever)"},
}

// LoadConfig loads WAFFLE core config and app config.
// Precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		LogDir:           strings.TrimSpace(appValues.String("log_dir")),
		LogFilePrefix:    appValues.String("log_file_prefix"),
		LogFileExt:       appValues.String("log_file_ext"),
		LogRetentionDays: appValues.Int("log_retention_days"),
		LogQueueSize:     appValues.Int("log_queue_size"),

		APIKey:         appValues.String("api_key"),
		APICORSOrigins: splitList(appValues.String("api_cors_origins")),

		MongoURI:         strings.TrimSpace(appValues.String("mongo_uri")),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		LedgerRetention:  appValues.Duration("ledger_retention", 720*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated setting, dropping blank items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ValidateConfig rejects settings the service cannot run with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	if appCfg.LedgerEnabled() {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}
	return nil
}

func validateAppConfig(c AppConfig) error {
	var errs []error
	if c.LogDir == "" {
		errs = append(errs, errors.New("log_dir must not be empty"))
	}
	if c.LogRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("log_retention_days must not be negative (got %d)", c.LogRetentionDays))
	}
	if c.LogQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("log_queue_size must be positive (got %d)", c.LogQueueSize))
	}
	if c.LedgerRetention < 0 {
		errs = append(errs, fmt.Errorf("ledger_retention must not be negative (got %s)", c.LedgerRetention))
	}
	if strings.ContainsAny(c.LogFilePrefix+c.LogFileExt, `/\`) {
		errs = append(errs, errors.New("log_file_prefix and log_file_ext must not contain path separators"))
	}
	if c.LedgerEnabled() && c.MongoDatabase == "" {
		errs = append(errs, errors.New("mongo_database must not be empty when mongo_uri is set"))
	}
	return errors.Join(errs...)
}
