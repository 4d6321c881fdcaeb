package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing wraps otelgin. Spans are named after the route pattern and carry
// request_id once the RequestID middleware has run.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/ready"
		}),
	)
}

// SpanEnricher tags the current span with request, store, owner and session
// ids and marks error responses. It goes after Tracing and, on admin
// routes, after JWTAuthMiddleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		attrs := make([]attribute.KeyValue, 0, 4)
		for _, key := range []string{RequestIDKey, JWTStoreIDKey, JWTOwnerIDKey, SessionIDKey} {
			if v := c.GetString(key); v != "" {
				attrs = append(attrs, attribute.String(key, v))
			}
		}
		if storeID := c.Param("storeId"); storeID != "" && c.GetString(JWTStoreIDKey) == "" {
			attrs = append(attrs, attribute.String(JWTStoreIDKey, storeID))
		}
		span.SetAttributes(attrs...)

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
