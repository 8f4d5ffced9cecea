package tasks

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job names.
const (
	DailyLogRetention = "daily-log-retention"
	LedgerRetention   = "ledger-retention"
)

// LogPruner deletes daily log files older than keepDays.
type LogPruner interface {
	Prune(now time.Time, keepDays int) ([]string, error)
}

// LedgerPruner deletes ledger entries received before cutoff.
type LedgerPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// DailyLogRetentionJob removes daily log files older than keepDays.
func DailyLogRetentionJob(p LogPruner, keepDays int, logger *zap.Logger) Job {
	return Job{
		Name:     DailyLogRetention,
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			removed, err := p.Prune(time.Now().UTC(), keepDays)
			if len(removed) > 0 {
				logger.Info("pruned daily log files",
					zap.Int("deleted", len(removed)),
					zap.Strings("files", removed))
			}
			if err != nil {
				return fmt.Errorf("prune daily logs: %w", err)
			}
			return nil
		},
	}
}

// LedgerRetentionJob removes ledger entries older than maxAge.
func LedgerRetentionJob(p LedgerPruner, maxAge time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     LedgerRetention,
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := p.DeleteOlderThan(ctx, time.Now().UTC().Add(-maxAge))
			if err != nil {
				return fmt.Errorf("prune batch ledger: %w", err)
			}
			if deleted > 0 {
				logger.Info("pruned batch ledger",
					zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}
