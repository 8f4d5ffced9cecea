package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/store/dailylog"
	"github.com/dalemusser/stratapulse/internal/app/system/tasks"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		LogDir:          "./logs",
		LogFilePrefix:   "daily_",
		LogFileExt:      ".txt",
		LogQueueSize:    64,
		MongoDatabase:   "stratapulse",
		LedgerRetention: 720 * time.Hour,
	}
}

func TestValidateAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*AppConfig) {}},
		{name: "empty log dir", mutate: func(c *AppConfig) { c.LogDir = "" }, wantErr: "log_dir"},
		{name: "negative retention", mutate: func(c *AppConfig) { c.LogRetentionDays = -1 }, wantErr: "log_retention_days"},
		{name: "zero queue", mutate: func(c *AppConfig) { c.LogQueueSize = 0 }, wantErr: "log_queue_size"},
		{name: "negative ledger retention", mutate: func(c *AppConfig) { c.LedgerRetention = -time.Hour }, wantErr: "ledger_retention"},
		{name: "separator in prefix", mutate: func(c *AppConfig) { c.LogFilePrefix = "../daily_" }, wantErr: "path separators"},
		{name: "ledger without database", mutate: func(c *AppConfig) {
			c.MongoURI = "mongodb://localhost:27017"
			c.MongoDatabase = ""
		}, wantErr: "mongo_database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateAppConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateAppConfig() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateAppConfig() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ", nil},
		{"https://a.example.com", []string{"https://a.example.com"}},
		{"https://a.example.com, https://b.example.com,", []string{"https://a.example.com", "https://b.example.com"}},
	}
	for _, tt := range tests {
		got := splitList(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitList(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppConfig_LedgerEnabled(t *testing.T) {
	cfg := validConfig()
	if cfg.LedgerEnabled() {
		t.Error("LedgerEnabled() = true without mongo_uri")
	}
	cfg.MongoURI = "mongodb://localhost:27017"
	if !cfg.LedgerEnabled() {
		t.Error("LedgerEnabled() = false with mongo_uri")
	}
}

func TestNewTaskRunner(t *testing.T) {
	w := dailylog.New(dailylog.Config{Dir: t.TempDir()}, zap.NewNop())
	defer w.Close()
	deps := DBDeps{LogWriter: w}

	cfg := validConfig()
	if got := newTaskRunner(cfg, deps, zap.NewNop()).Jobs(); len(got) != 0 {
		t.Errorf("Jobs() = %v, want none when retention is off and ledger disabled", got)
	}

	cfg.LogRetentionDays = 30
	got := newTaskRunner(cfg, deps, zap.NewNop()).Jobs()
	if len(got) != 1 || got[0] != tasks.DailyLogRetention {
		t.Errorf("Jobs() = %v, want [%s]", got, tasks.DailyLogRetention)
	}
}

func TestLedgerFor_Disabled(t *testing.T) {
	if l := ledgerFor(DBDeps{}); l != nil {
		t.Errorf("ledgerFor() = %v, want nil interface", l)
	}
}
