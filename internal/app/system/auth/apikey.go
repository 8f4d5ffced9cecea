// Package auth provides the optional Bearer key gate for the ingestion API.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dalemusser/stratapulse/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// APIKeyAuth returns middleware that checks "Authorization: Bearer <key>".
//
// An empty validKey leaves the routes open; ingestion is meant for a
// trusted network unless a key is configured.
//
//	r.Group(func(r chi.Router) {
//	    r.Use(apicors.Middleware())
//	    r.Use(auth.APIKeyAuth(appCfg.APIKey, logger))
//	    r.Mount("/analytics", analytics.Routes(h))
//	})
func APIKeyAuth(validKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	if validKey == "" {
		logger.Info("api key not configured, ingestion API is open")
		return func(next http.Handler) http.Handler { return next }
	}

	want := []byte(validKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Preflight requests carry no credentials.
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("api request rejected: missing Authorization header",
					zap.String("path", r.URL.Path))
				jsonutil.Unauthorized(w, "Missing Authorization header")
				return
			}

			scheme, key, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				logger.Debug("api request rejected: invalid Authorization format",
					zap.String("path", r.URL.Path))
				jsonutil.Unauthorized(w, "Invalid Authorization format (expected: Bearer <api-key>)")
				return
			}

			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(key)), want) != 1 {
				logger.Warn("api request rejected: invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr))
				jsonutil.Unauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
