// internal/domain/models/activity.go
package models

// Terminology: Identity
//   - Identity / identity / user: the end-user correlation key (an email address in
//     practice) that gates capture and keys presence entries. On the wire it is "user".

import (
	"fmt"
	"strings"
	"time"
)

// EventKind classifies a captured activity record.
type EventKind string

const (
	KindNavigation  EventKind = "NAVIGATION"  // route change
	KindInteraction EventKind = "INTERACTION" // activation of a button-like or link-like element
)

// TimestampLayout is the wire format for record timestamps: UTC with millisecond
// precision and a literal Z suffix (e.g. 2025-01-01T10:00:00.000Z).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// EventRecord is one captured activity event. Records are immutable once created;
// they leave memory only through bounded-log eviction.
type EventRecord struct {
	Kind      EventKind
	Detail    string
	Timestamp time.Time
	Identity  string
}

// Entry converts the record into its wire form.
func (r EventRecord) Entry() LogEntry {
	return LogEntry{
		Timestamp: FormatTimestamp(r.Timestamp),
		User:      r.Identity,
		Type:      string(r.Kind),
		Detail:    r.Detail,
	}
}

// PresenceEntry is the "last seen" view of one identity.
type PresenceEntry struct {
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name"` // local part of the identity
	LastActive  time.Time `json:"last_active"`
	LastAction  string    `json:"last_action"`
}

// DisplayNameFor returns the part of an email-like identity before the '@'.
func DisplayNameFor(identity string) string {
	if i := strings.IndexByte(identity, '@'); i >= 0 {
		return identity[:i]
	}
	return identity
}

// LogEntry is the wire representation of a record inside a batch upload.
// Fields are text on both sides; the server never reinterprets them.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Type      string `json:"type"`
	Detail    string `json:"detail"`
}

// Line formats the entry as one daily-log line:
//
//	[<timestamp>] <user> - <type>: <detail>
func (e LogEntry) Line() string {
	return fmt.Sprintf("[%s] %s - %s: %s", e.Timestamp, e.User, e.Type, e.Detail)
}

// Batch is one snapshot of the live feed sent in a single ingestion request.
type Batch struct {
	Logs []LogEntry `json:"logs"`
}

// FormatBlock renders entries as one daily-log block: the lines joined with
// newlines followed by a blank separator line. An empty batch yields "\n\n".
func FormatBlock(entries []LogEntry) []byte {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line()
	}
	return []byte(strings.Join(lines, "\n") + "\n\n")
}
