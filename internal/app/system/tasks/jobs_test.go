package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/system/tasks"
	"go.uber.org/zap"
)

type fakeLogPruner struct {
	keepDays int
	removed  []string
	err      error
}

func (f *fakeLogPruner) Prune(now time.Time, keepDays int) ([]string, error) {
	f.keepDays = keepDays
	return f.removed, f.err
}

type fakeLedgerPruner struct {
	cutoff time.Time
	err    error
}

func (f *fakeLedgerPruner) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestDailyLogRetentionJob(t *testing.T) {
	p := &fakeLogPruner{removed: []string{"logs/daily_2024-01-01.txt"}}
	job := tasks.DailyLogRetentionJob(p, 30, zap.NewNop())

	if job.Name != tasks.DailyLogRetention {
		t.Errorf("Name = %q, want %q", job.Name, tasks.DailyLogRetention)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if p.keepDays != 30 {
		t.Errorf("keepDays = %d, want 30", p.keepDays)
	}

	p.err = errors.New("permission denied")
	if err := job.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want wrapped prune error")
	}
}

func TestLedgerRetentionJob(t *testing.T) {
	p := &fakeLedgerPruner{}
	job := tasks.LedgerRetentionJob(p, 24*time.Hour, zap.NewNop())

	before := time.Now().UTC().Add(-24 * time.Hour)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	after := time.Now().UTC().Add(-24 * time.Hour)
	if p.cutoff.Before(before) || p.cutoff.After(after) {
		t.Errorf("cutoff = %v, want between %v and %v", p.cutoff, before, after)
	}

	p.err = errors.New("boom")
	if err := job.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want wrapped delete error")
	}
}
