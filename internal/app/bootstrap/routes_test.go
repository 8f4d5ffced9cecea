package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	analyticsfeature "github.com/dalemusser/stratapulse/internal/app/features/analytics"
	healthfeature "github.com/dalemusser/stratapulse/internal/app/features/health"
	"github.com/dalemusser/stratapulse/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// deadlineAppender records whether the ingest context carried a deadline.
type deadlineAppender struct {
	mu          sync.Mutex
	hadDeadline bool
	calls       int
}

func (a *deadlineAppender) Append(ctx context.Context, at time.Time, block []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, a.hadDeadline = ctx.Deadline()
	a.calls++
	return "logs/daily_2025-01-01.txt", nil
}

func newTestRouter(t *testing.T, appCfg AppConfig) (http.Handler, *deadlineAppender) {
	t.Helper()
	app := &deadlineAppender{}
	r := chi.NewRouter()
	mountRoutes(r, appCfg,
		analyticsfeature.NewHandler(app, nil, zap.NewNop()),
		healthfeature.NewHandler(t.TempDir(), nil, zap.NewNop()),
		zap.NewNop())
	return r, app
}

func TestMountRoutes_IngestHasNoDeadline(t *testing.T) {
	router, app := newTestRouter(t, validConfig())

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/analytics", `{"logs":[]}`))
	rec.AssertStatus(t, http.StatusOK)

	if app.calls != 1 {
		t.Fatalf("Append() called %d times, want 1", app.calls)
	}
	if app.hadDeadline {
		t.Error("ingest request context has a deadline")
	}
}

func TestMountRoutes_Probes(t *testing.T) {
	router, _ := newTestRouter(t, validConfig())

	for _, path := range []string{"/api/health", "/readyz", "/livez"} {
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		rec.AssertStatus(t, http.StatusOK)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestMountRoutes_CORSOrigins(t *testing.T) {
	cfg := validConfig()
	cfg.APICORSOrigins = []string{"https://shop.example.com"}
	router, _ := newTestRouter(t, cfg)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://shop.example.com", "https://shop.example.com"},
		{"https://other.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/analytics", nil)
		req.Header.Set("Origin", tt.origin)
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, req)

		rec.AssertStatus(t, http.StatusNoContent)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %q: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
