package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/system/capture"
	"github.com/dalemusser/stratapulse/internal/app/system/uplink"
	"github.com/dalemusser/stratapulse/internal/domain/models"
	"go.uber.org/zap"
)

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestSession_Lifecycle(t *testing.T) {
	s := New(Options{}, zap.NewNop())

	if s.State() != Anonymous {
		t.Fatalf("initial State() = %v, want anonymous", s.State())
	}
	if _, err := s.Start(""); !errors.Is(err, ErrNoSession) {
		t.Errorf("Start(\"\") error = %v, want ErrNoSession", err)
	}

	id, err := s.Start("a@x.com")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if id == "" || s.ID() != id {
		t.Errorf("session ID = %q, ID() = %q", id, s.ID())
	}
	if s.State() != Authenticated || s.Identity() != "a@x.com" {
		t.Errorf("after Start: State() = %v, Identity() = %q", s.State(), s.Identity())
	}

	s.End()
	if s.State() != Anonymous || s.Identity() != "" || s.ID() != "" {
		t.Errorf("after End: State() = %v, Identity() = %q, ID() = %q", s.State(), s.Identity(), s.ID())
	}
}

func TestSession_CaptureGatedByIdentity(t *testing.T) {
	s := New(Options{Clock: steppingClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), time.Second)}, zap.NewNop())

	if _, ok := s.OnNavigate("/login"); ok {
		t.Error("OnNavigate() recorded while anonymous")
	}

	s.Start("user@grillz.com")
	s.OnNavigate("/dashboard")
	s.OnInteract(capture.Element{Kind: "button", Label: "Add to cart"})

	s.End()
	s.OnNavigate("/")

	if got := len(s.Navigation()); got != 1 {
		t.Errorf("len(Navigation()) = %d, want 1", got)
	}
	if got := len(s.Interaction()); got != 1 {
		t.Errorf("len(Interaction()) = %d, want 1", got)
	}

	feed := s.LiveFeed()
	if len(feed) != 2 || feed[0].Kind != models.KindInteraction {
		t.Errorf("LiveFeed() = %+v, want interaction first", feed)
	}

	// End keeps what was recorded.
	list := s.PresenceList()
	if len(list) != 1 || list[0].LastAction != "Clicked Add to cart" {
		t.Errorf("PresenceList() = %+v", list)
	}
}

func TestSession_Reset(t *testing.T) {
	s := New(Options{}, zap.NewNop())
	s.Start("a@x.com")
	s.OnNavigate("/")

	s.Reset()
	if s.State() != Anonymous {
		t.Error("Reset() left session authenticated")
	}
	if len(s.LiveFeed()) != 0 || len(s.PresenceList()) != 0 {
		t.Error("Reset() left recorded state")
	}
}

func TestSession_PresenceOrdering(t *testing.T) {
	s := New(Options{Clock: steppingClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), time.Second)}, zap.NewNop())

	s.Start("a@x.com")
	s.OnNavigate("/a")
	s.Start("b@x.com")
	s.OnNavigate("/b")
	s.Start("a@x.com")
	s.OnNavigate("/c")

	list := s.PresenceList()
	if len(list) != 2 {
		t.Fatalf("len(PresenceList()) = %d, want 2", len(list))
	}
	if list[0].Identity != "a@x.com" || list[0].LastAction != "Visited /c" {
		t.Errorf("list[0] = %+v, want a@x.com Visited /c", list[0])
	}
	if list[1].Identity != "b@x.com" {
		t.Errorf("list[1] = %+v, want b@x.com", list[1])
	}
}

func TestSession_Send(t *testing.T) {
	var got models.Batch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true,"message":"Saved 1 logs","file":"logs/daily_2025-01-01.txt"}`))
	}))
	defer srv.Close()

	s := New(Options{
		Uplink: uplink.Config{Endpoint: srv.URL},
		Clock:  func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) },
	}, zap.NewNop())

	if res := s.Send(context.Background()); res.Success || res.Message != uplink.NoLogsMessage {
		t.Errorf("Send() on empty feed = %+v", res)
	}

	s.Start("a@x.com")
	s.OnNavigate("/")
	res := s.Send(context.Background())
	if !res.Success || res.Message != "Saved 1 logs" {
		t.Fatalf("Send() = %+v", res)
	}

	want := models.LogEntry{Timestamp: "2025-01-01T10:00:00.000Z", User: "a@x.com", Type: "NAVIGATION", Detail: "Visited /"}
	if len(got.Logs) != 1 || got.Logs[0] != want {
		t.Errorf("uploaded = %+v, want [%+v]", got.Logs, want)
	}
	if s.Uplink().Requests() != 1 {
		t.Errorf("Requests() = %d, want 1", s.Uplink().Requests())
	}
}
