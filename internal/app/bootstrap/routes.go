// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	analyticsfeature "github.com/dalemusser/stratapulse/internal/app/features/analytics"
	healthfeature "github.com/dalemusser/stratapulse/internal/app/features/health"
	"github.com/dalemusser/stratapulse/internal/app/system/apicors"
	"github.com/dalemusser/stratapulse/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// probeTimeout bounds health and readiness requests. Ingestion has no
// deadline.
const probeTimeout = 30 * time.Second

// BuildHandler constructs the root router.
//
//	POST /api/analytics                ingest a batch
//	GET  /api/analytics/batches        recent batches (ledger)
//	GET  /api/analytics/batches/count  batches per day (ledger)
//	GET  /api/health                   probe
//	GET  /readyz, /livez               orchestrator probes
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	analyticsHandler := analyticsfeature.NewHandler(deps.LogWriter, ledgerFor(deps), logger)
	healthHandler := healthfeature.NewHandler(appCfg.LogDir, deps.MongoClient, logger)
	mountRoutes(r, appCfg, analyticsHandler, healthHandler, logger)

	return r, nil
}

// mountRoutes adds the API and probe routes to r.
func mountRoutes(r chi.Router, appCfg AppConfig, analytics *analyticsfeature.Handler, health *healthfeature.Handler, logger *zap.Logger) {
	probes := r.With(chimw.Timeout(probeTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Use(apicors.ForOrigins(appCfg.APICORSOrigins))
		r.Mount("/analytics", analyticsfeature.Routes(analytics, appCfg.APIKey, logger))
		r.With(chimw.Timeout(probeTimeout)).Mount("/health", healthfeature.Routes(health))
	})
	healthfeature.MountRootEndpoints(probes, health)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "Not found")
	})
}

// ledgerFor returns the batch ledger or a nil interface when it is disabled.
func ledgerFor(deps DBDeps) analyticsfeature.Ledger {
	if deps.Batches == nil {
		return nil
	}
	return deps.Batches
}
