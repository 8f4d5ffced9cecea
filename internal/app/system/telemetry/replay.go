package telemetry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dalemusser/stratapulse/internal/app/system/capture"
)

// Signal is one line of a replay file:
//
//	{"type":"login","identity":"a@x.com"}
//	{"type":"navigate","path":"/dashboard"}
//	{"type":"click","element":"button","label":"Add to cart"}
//	{"type":"logout"}
type Signal struct {
	Type     string `json:"type"`
	Identity string `json:"identity,omitempty"`
	Path     string `json:"path,omitempty"`
	Element  string `json:"element,omitempty"`
	Label    string `json:"label,omitempty"`
}

// ReplayStats counts what a replay did.
type ReplayStats struct {
	Signals  int // lines applied
	Recorded int // records produced by capture
}

// Replay applies newline-delimited JSON signals to s in order. Blank lines
// are skipped. It stops at the first malformed or unknown signal.
func Replay(s *Session, r io.Reader) (ReplayStats, error) {
	var stats ReplayStats
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var sig Signal
		if err := json.Unmarshal(raw, &sig); err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
		recorded, err := apply(s, sig)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
		stats.Signals++
		if recorded {
			stats.Recorded++
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read signals: %w", err)
	}
	return stats, nil
}

func apply(s *Session, sig Signal) (bool, error) {
	switch sig.Type {
	case "login":
		_, err := s.Start(sig.Identity)
		return false, err
	case "logout":
		s.End()
		return false, nil
	case "navigate":
		_, ok := s.OnNavigate(sig.Path)
		return ok, nil
	case "click":
		_, ok := s.OnInteract(capture.Element{Kind: sig.Element, Label: sig.Label})
		return ok, nil
	default:
		return false, fmt.Errorf("unknown signal type %q", sig.Type)
	}
}
