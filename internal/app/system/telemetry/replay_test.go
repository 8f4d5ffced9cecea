package telemetry

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestReplay(t *testing.T) {
	input := `
{"type":"navigate","path":"/login"}
{"type":"login","identity":"user@grillz.com"}
{"type":"navigate","path":"/dashboard"}
{"type":"click","element":"button","label":"Add to cart"}
{"type":"click","element":"div","label":"Hero"}

{"type":"logout"}
{"type":"navigate","path":"/"}
`
	s := New(Options{}, zap.NewNop())
	stats, err := Replay(s, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if stats.Signals != 7 {
		t.Errorf("Signals = %d, want 7", stats.Signals)
	}
	if stats.Recorded != 2 {
		t.Errorf("Recorded = %d, want 2", stats.Recorded)
	}
	if len(s.Navigation()) != 1 || len(s.Interaction()) != 1 {
		t.Errorf("nav = %d, interaction = %d; want 1, 1", len(s.Navigation()), len(s.Interaction()))
	}
	if s.State() != Anonymous {
		t.Errorf("State() = %v, want anonymous after logout", s.State())
	}
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed line", "{\"type\":\"navigate\"}\nnot json\n", "line 2"},
		{"unknown type", `{"type":"scroll"}`, "unknown signal type"},
		{"login without identity", `{"type":"login"}`, "identity required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(New(Options{}, zap.NewNop()), strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Replay() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	_, err := Replay(New(Options{}, zap.NewNop()), strings.NewReader(`{"type":"login"}`))
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Replay() error = %v, want wrapped ErrNoSession", err)
	}
}
