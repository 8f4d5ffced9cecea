// Package telemetry holds the client-side session context that owns the
// activity log, presence tracker, capturer and uplink for one identity.
package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/store/activitylog"
	"github.com/dalemusser/stratapulse/internal/app/store/presence"
	"github.com/dalemusser/stratapulse/internal/app/system/capture"
	"github.com/dalemusser/stratapulse/internal/app/system/uplink"
	"github.com/dalemusser/stratapulse/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoSession is returned by Start when the identity is empty.
var ErrNoSession = errors.New("telemetry: identity required")

// State is the session state governing capture.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Options configures a Session.
type Options struct {
	Capacity int           // per-kind log bound (default activitylog.DefaultCapacity)
	Uplink   uplink.Config // upload target
	Clock    func() time.Time
	MaxLabel int // zero keeps the full label
}

// Session is the explicit telemetry context. Collaborators receive it by
// reference; it holds no UI state.
type Session struct {
	logger *zap.Logger

	mu        sync.RWMutex
	identity  string
	sessionID string

	logs     *activitylog.Store
	presence *presence.Store
	capturer *capture.Capturer
	uplink   *uplink.Client
}

// New creates an Anonymous session.
func New(opts Options, logger *zap.Logger) *Session {
	if opts.Capacity <= 0 {
		opts.Capacity = activitylog.DefaultCapacity
	}
	s := &Session{
		logger:   logger,
		logs:     activitylog.New(opts.Capacity),
		presence: presence.New(),
	}
	s.capturer = capture.New(s.currentIdentity, s.logs, s.presence, logger)
	if opts.Clock != nil {
		s.capturer.SetClock(opts.Clock)
	}
	if opts.MaxLabel > 0 {
		s.capturer.SetMaxLabel(opts.MaxLabel)
	}
	s.uplink = uplink.New(opts.Uplink, s.logs, logger)
	return s
}

func (s *Session) currentIdentity() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity != ""
}

// Start establishes identity and moves the session to Authenticated. Calling
// Start again switches identity and assigns a new session ID.
func (s *Session) Start(identity string) (string, error) {
	if identity == "" {
		return "", ErrNoSession
	}
	s.mu.Lock()
	s.identity = identity
	s.sessionID = uuid.NewString()
	id := s.sessionID
	s.mu.Unlock()

	s.logger.Debug("telemetry session started",
		zap.String("session_id", id),
		zap.String("identity", identity))
	return id, nil
}

// End clears identity. Recorded logs and presence are kept.
func (s *Session) End() {
	s.mu.Lock()
	id := s.sessionID
	s.identity = ""
	s.sessionID = ""
	s.mu.Unlock()

	s.logger.Debug("telemetry session ended", zap.String("session_id", id))
}

// Reset ends the session and clears logs and presence.
func (s *Session) Reset() {
	s.End()
	s.logs.Reset()
	s.presence.Reset()
}

// Identity returns the current identity, empty when Anonymous.
func (s *Session) Identity() string {
	id, _ := s.currentIdentity()
	return id
}

// ID returns the current session ID, empty when Anonymous.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// State reports whether capture is active.
func (s *Session) State() State {
	if _, ok := s.currentIdentity(); ok {
		return Authenticated
	}
	return Anonymous
}

// OnNavigate forwards a route change to the capturer.
func (s *Session) OnNavigate(path string) (models.EventRecord, bool) {
	return s.capturer.OnNavigate(path)
}

// OnInteract forwards an element activation to the capturer.
func (s *Session) OnInteract(el capture.Element) (models.EventRecord, bool) {
	return s.capturer.OnInteract(el)
}

// Navigation returns the navigation log, newest first.
func (s *Session) Navigation() []models.EventRecord { return s.logs.Navigation() }

// Interaction returns the interaction log, newest first.
func (s *Session) Interaction() []models.EventRecord { return s.logs.Interaction() }

// LiveFeed returns both logs merged newest first.
func (s *Session) LiveFeed() []models.EventRecord { return s.logs.LiveFeed() }

// PresenceList returns presence entries, most recently active first.
func (s *Session) PresenceList() []models.PresenceEntry { return s.presence.List() }

// Send uploads the live feed as one batch.
func (s *Session) Send(ctx context.Context) uplink.Result {
	return s.uplink.Send(ctx)
}

// Uplink exposes the session's upload client.
func (s *Session) Uplink() *uplink.Client { return s.uplink }
