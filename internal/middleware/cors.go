package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/wellness2k25/wellness-go/internal/origin"
)

var (
	corsAllowedMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}
	corsAllowedHeaders = []string{"Content-Type", "Authorization", "X-Requested-With"}
)

// CORS admits cross-origin requests according to policy. Denied requests
// are answered with 403 before reaching any handler and logged once with
// the rejected origin. Allowed OPTIONS requests are answered with 204.
func CORS(policy *origin.Policy, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(corsAllowedMethods, ", ")
	headers := strings.Join(corsAllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			o := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")

			d := policy.Decide(o)
			if !d.Allowed {
				logger.Warn("cors: origin rejected",
					"origin", o,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusForbidden, "origin not allowed")
				return
			}

			if o != "" {
				h.Set("Access-Control-Allow-Origin", o)
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
