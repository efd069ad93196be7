package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// CORS applies cross-origin headers. With no allowed origins every origin is
// accepted with "*"; otherwise the request origin must match one of them and
// is echoed back. Entries may be bare hosts or full origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	hosts := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		hosts = append(hosts, originHost(o))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case len(hosts) == 0:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin == "":
			case isOriginAllowed(origin, hosts):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			default:
				http.Error(w, "Origin not allowed", http.StatusForbidden)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isOriginAllowed(origin string, allowedHosts []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return IsHostAllowed(u.Host, allowedHosts)
}

// originHost reduces "https://app.example.com:3000" to "app.example.com:3000".
func originHost(origin string) string {
	origin = strings.TrimSpace(origin)
	if !strings.Contains(origin, "://") {
		return origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return origin
	}
	return u.Host
}
