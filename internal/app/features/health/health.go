// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Handler provides the health probe and readiness/liveness endpoints.
type Handler struct {
	logDir      string
	mongoClient *mongo.Client // nil when the batch ledger is disabled
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a Handler. mongoClient may be nil.
func NewHandler(logDir string, mongoClient *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		logDir:      logDir,
		mongoClient: mongoClient,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for probe timestamps.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// Response is the /api/health body.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Routes mounts the probe at "/".
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	return r
}

// MountRootEndpoints adds /readyz and /livez to the root router.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check reports that the service is running. It has no dependencies.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{
		Status:    "running",
		Timestamp: models.FormatTimestamp(h.now()),
	})
}

// Ready reports whether the log directory is usable and, when configured,
// MongoDB answers a ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if fi, err := os.Stat(h.logDir); err != nil || !fi.IsDir() {
		h.logger.Warn("readiness check failed: log directory unavailable",
			zap.String("dir", h.logDir),
			zap.Error(err))
		jsonutil.ServiceUnavailable(w, "not ready")
		return
	}

	if h.mongoClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			h.logger.Warn("readiness check failed: mongodb ping", zap.Error(err))
			jsonutil.ServiceUnavailable(w, "not ready")
			return
		}
	}

	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live reports that the process is serving.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
