package capture

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/store/activitylog"
	"github.com/dalemusser/stratapulse/internal/app/store/presence"
	"github.com/dalemusser/stratapulse/internal/domain/models"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	logs     *activitylog.Store
	presence *presence.Store
	identity string
	c        *Capturer
}

func newFixture(identity string) *fixture {
	f := &fixture{
		logs:     activitylog.New(activitylog.DefaultCapacity),
		presence: presence.New(),
		identity: identity,
	}
	f.c = New(func() (string, bool) { return f.identity, f.identity != "" }, f.logs, f.presence, zap.NewNop())
	f.c.SetClock(func() time.Time { return fixedNow })
	return f
}

func TestCapturer_OnNavigate(t *testing.T) {
	f := newFixture("a@x.com")

	rec, ok := f.c.OnNavigate("/dashboard")
	if !ok {
		t.Fatal("OnNavigate() reported no record")
	}
	want := models.EventRecord{
		Kind:      models.KindNavigation,
		Detail:    "Visited /dashboard",
		Timestamp: fixedNow,
		Identity:  "a@x.com",
	}
	if rec != want {
		t.Errorf("OnNavigate() = %+v, want %+v", rec, want)
	}

	nav := f.logs.Navigation()
	if len(nav) != 1 || nav[0] != want {
		t.Errorf("Navigation() = %+v, want [%+v]", nav, want)
	}
	if len(f.logs.Interaction()) != 0 {
		t.Error("navigation leaked into interaction log")
	}

	p, ok := f.presence.Get("a@x.com")
	if !ok || p.LastAction != "Visited /dashboard" || !p.LastActive.Equal(fixedNow) {
		t.Errorf("presence = %+v, %v", p, ok)
	}
}

func TestCapturer_OnInteract(t *testing.T) {
	tests := []struct {
		name   string
		el     Element
		want   string
		record bool
	}{
		{name: "button with label", el: Element{Kind: "button", Label: "Add to cart"}, want: "Clicked Add to cart", record: true},
		{name: "link with label", el: Element{Kind: "a", Label: "Craftsmanship"}, want: "Clicked Craftsmanship", record: true},
		{name: "link kind alias", el: Element{Kind: "LINK", Label: "Home"}, want: "Clicked Home", record: true},
		{name: "button without label", el: Element{Kind: "BUTTON"}, want: "Clicked BUTTON", record: true},
		{name: "anchor without label", el: Element{Kind: "a", Label: "   "}, want: "Clicked A", record: true},
		{name: "markup stripped", el: Element{Kind: "button", Label: "<span>Buy</span> <b>now</b>"}, want: "Clicked Buy now", record: true},
		{name: "non-interactive div", el: Element{Kind: "div", Label: "Hero"}, record: false},
		{name: "empty kind", el: Element{Label: "Hero"}, record: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("a@x.com")
			rec, ok := f.c.OnInteract(tt.el)
			if ok != tt.record {
				t.Fatalf("OnInteract() ok = %v, want %v", ok, tt.record)
			}
			if !tt.record {
				if f.logs.Len() != 0 || f.presence.Len() != 0 {
					t.Error("ignored element produced state")
				}
				return
			}
			if rec.Kind != models.KindInteraction {
				t.Errorf("Kind = %q, want %q", rec.Kind, models.KindInteraction)
			}
			if rec.Detail != tt.want {
				t.Errorf("Detail = %q, want %q", rec.Detail, tt.want)
			}
			if got := f.logs.Interaction(); len(got) != 1 {
				t.Errorf("len(Interaction()) = %d, want 1", len(got))
			}
		})
	}
}

func TestCapturer_NoIdentityIsSilent(t *testing.T) {
	f := newFixture("")

	if _, ok := f.c.OnNavigate("/"); ok {
		t.Error("OnNavigate() produced a record without identity")
	}
	if _, ok := f.c.OnInteract(Element{Kind: "button", Label: "Login"}); ok {
		t.Error("OnInteract() produced a record without identity")
	}
	if f.logs.Len() != 0 {
		t.Errorf("logs Len() = %d, want 0", f.logs.Len())
	}
	if f.presence.Len() != 0 {
		t.Errorf("presence Len() = %d, want 0", f.presence.Len())
	}
}

func TestCapturer_IdentityTransitions(t *testing.T) {
	f := newFixture("")
	f.c.OnNavigate("/login")

	f.identity = "user@grillz.com"
	f.c.OnNavigate("/dashboard")

	f.identity = ""
	f.c.OnNavigate("/")

	if got := f.logs.Len(); got != 1 {
		t.Errorf("logs Len() = %d, want 1", got)
	}
	if got := f.presence.Len(); got != 1 {
		t.Errorf("presence Len() = %d, want 1", got)
	}
}

func TestCapturer_LabelTruncated(t *testing.T) {
	f := newFixture("a@x.com")
	f.c.SetMaxLabel(5)

	rec, _ := f.c.OnInteract(Element{Kind: "button", Label: strings.Repeat("x", 20)})
	if rec.Detail != "Clicked xxxxx…" {
		t.Errorf("Detail = %q, want %q", rec.Detail, "Clicked xxxxx…")
	}
}

func TestCapturer_LabelKeptWhole(t *testing.T) {
	f := newFixture("a@x.com")
	label := strings.Repeat("long label ", 60)

	rec, _ := f.c.OnInteract(Element{Kind: "button", Label: label})
	if want := "Clicked " + strings.TrimSpace(label); rec.Detail != want {
		t.Errorf("Detail has %d bytes, want %d", len(rec.Detail), len(want))
	}
}

func TestIsInteractive(t *testing.T) {
	for _, kind := range []string{"button", "BUTTON", "a", "A", "link", " Button "} {
		if !IsInteractive(kind) {
			t.Errorf("IsInteractive(%q) = false, want true", kind)
		}
	}
	for _, kind := range []string{"", "div", "span", "input", "img"} {
		if IsInteractive(kind) {
			t.Errorf("IsInteractive(%q) = true, want false", kind)
		}
	}
}
