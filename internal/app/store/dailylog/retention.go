// internal/app/store/dailylog/retention.go
package dailylog

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Days returns the UTC dates that have a daily file in the directory,
// oldest first. Names that do not match the configured pattern are ignored.
func (w *Writer) Days() ([]time.Time, error) {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var days []time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if day, ok := w.parseDay(e.Name()); ok {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// Prune removes daily files whose date is more than keepDays days before the
// UTC date of now. Today's file is never removed. It returns the removed paths.
func (w *Writer) Prune(now time.Time, keepDays int) ([]string, error) {
	if keepDays < 1 {
		return nil, nil
	}
	today := now.UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, -keepDays)

	days, err := w.Days()
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, day := range days {
		if !day.Before(cutoff) {
			continue
		}
		path := w.PathFor(day)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

func (w *Writer) parseDay(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, w.cfg.Prefix) || !strings.HasSuffix(name, w.cfg.Ext) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, w.cfg.Prefix), w.cfg.Ext)
	day, err := time.Parse(DayLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
