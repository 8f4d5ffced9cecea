// Package apicors provides CORS middleware for the JSON API.
//
// The API carries no cookies, so credentials are never allowed. By default
// any origin is; ForOrigins narrows that to a configured list.
package apicors

import (
	"net/http"
)

// Middleware allows any origin for the wrapped routes and answers preflight
// OPTIONS requests with 204.
//
//	r.Route("/api", func(r chi.Router) {
//	    r.Use(apicors.Middleware())
//	    r.Mount("/analytics", analyticsRoutes)
//	})
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			setHeaders(w.Header())
			w.Header().Set("Access-Control-Allow-Origin", "*")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MiddlewareWithOrigins only echoes back origins in allowedOrigins.
func MiddlewareWithOrigins(allowedOrigins ...string) func(http.Handler) http.Handler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := originSet[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
			}
			setHeaders(w.Header())

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ForOrigins returns Middleware when origins is empty and
// MiddlewareWithOrigins otherwise.
func ForOrigins(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return Middleware()
	}
	return MiddlewareWithOrigins(origins...)
}

func setHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, X-Upload-ID")
	h.Set("Access-Control-Max-Age", "86400")
}
