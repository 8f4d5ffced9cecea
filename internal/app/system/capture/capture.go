// Package capture turns host UI signals into activity records.
//
// The host calls OnNavigate on every route change and OnInteract on every
// activation (click/tap) of an element. Records are produced only while an
// identity is known; without one the signal is observed and dropped.
package capture

import (
	"strings"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratapulse/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultMaxLabel bounds the visible label carried in an interaction detail.
// Zero keeps the full label.
const DefaultMaxLabel = 0

// LogSink receives every produced record.
type LogSink interface {
	Insert(kind models.EventKind, rec models.EventRecord) error
}

// PresenceSink is told about every produced record.
type PresenceSink interface {
	Observe(rec models.EventRecord) models.PresenceEntry
}

// IdentityFunc reports the current identity, if any.
type IdentityFunc func() (string, bool)

// Element describes the target of an activation signal.
//   - Kind: the element kind or tag ("button", "a", "link", "div", ...)
//   - Label: the element's visible text; may be empty or contain markup
type Element struct {
	Kind  string
	Label string
}

// interactiveTags maps interactive element kinds to the tag name used when
// the element has no visible label.
var interactiveTags = map[string]string{
	"button": "BUTTON",
	"a":      "A",
	"link":   "A",
}

// IsInteractive reports whether an element kind is button-like or link-like.
func IsInteractive(kind string) bool {
	_, ok := interactiveTags[strings.ToLower(strings.TrimSpace(kind))]
	return ok
}

// Capturer observes navigation and interaction signals.
type Capturer struct {
	identity IdentityFunc
	logs     LogSink
	presence PresenceSink
	logger   *zap.Logger
	now      func() time.Time
	maxLabel int
}

// New creates a Capturer feeding logs and presence.
func New(identity IdentityFunc, logs LogSink, presence PresenceSink, logger *zap.Logger) *Capturer {
	return &Capturer{
		identity: identity,
		logs:     logs,
		presence: presence,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		maxLabel: DefaultMaxLabel,
	}
}

// SetClock replaces the time source used for record timestamps.
func (c *Capturer) SetClock(now func() time.Time) {
	c.now = now
}

// SetMaxLabel changes the label bound; zero disables truncation.
func (c *Capturer) SetMaxLabel(n int) {
	c.maxLabel = n
}

// OnNavigate records a route change to path. It reports false when no
// identity is present.
func (c *Capturer) OnNavigate(path string) (models.EventRecord, bool) {
	return c.emit(models.KindNavigation, "Visited "+path)
}

// OnInteract records an activation of el. Non-interactive elements and
// signals without an identity are ignored and report false.
func (c *Capturer) OnInteract(el Element) (models.EventRecord, bool) {
	tag, ok := interactiveTags[strings.ToLower(strings.TrimSpace(el.Kind))]
	if !ok {
		return models.EventRecord{}, false
	}
	label := htmlsanitize.Truncate(htmlsanitize.PlainText(el.Label), c.maxLabel)
	if label == "" {
		label = tag
	}
	return c.emit(models.KindInteraction, "Clicked "+label)
}

func (c *Capturer) emit(kind models.EventKind, detail string) (models.EventRecord, bool) {
	identity, ok := c.identity()
	if !ok || identity == "" {
		return models.EventRecord{}, false
	}

	rec := models.EventRecord{
		Kind:      kind,
		Detail:    detail,
		Timestamp: c.now(),
		Identity:  identity,
	}
	if err := c.logs.Insert(kind, rec); err != nil {
		c.logger.Warn("activity record rejected",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return models.EventRecord{}, false
	}
	c.presence.Observe(rec)

	c.logger.Debug("activity captured",
		zap.String("kind", string(kind)),
		zap.String("identity", identity),
		zap.String("detail", detail))
	return rec, true
}
