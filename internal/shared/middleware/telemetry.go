package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry wraps an http.Handler with OpenTelemetry instrumentation.
// Records request duration, active requests and request/response sizes.
// Creates a server span per request.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("fintrack-api")(next)
}
