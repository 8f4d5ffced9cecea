package analytics

import (
	"net/http"

	"github.com/dalemusser/stratapulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns the ingestion router.
//
// When mounted at /api/analytics:
//   - POST /api/analytics          - append a batch
//   - GET  /api/analytics/batches  - recent batches from the ledger
//   - GET  /api/analytics/batches/count - batches accepted on one day
//
// CORS is applied by the enclosing /api router. When apiKey is set, requests
// need a matching Bearer token; otherwise the endpoint is open.
func Routes(h *Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Post("/", h.Save)
	r.Get("/batches", h.List)
	r.Get("/batches/count", h.Count)
	return r
}
