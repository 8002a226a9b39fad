package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures the request tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing opens a span per request, named after the matched route
// pattern. Place TracingEnrichment after it so the span carries the
// request ID and error status; both are no-ops while tracing is off.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingEnrichment tags the current span with the request ID and marks
// 4xx/5xx responses as errors
func TracingEnrichment() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := c.GetString(RequestIDKey); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
		}

		c.Next()

		if span.IsRecording() {
			if statusCode := c.Writer.Status(); statusCode >= http.StatusBadRequest {
				span.SetStatus(codes.Error, http.StatusText(statusCode))
				span.SetAttributes(attribute.Int("http.status_code", statusCode))
			}
		}
	}
}

// TracingAuthAttributes copies the authenticated caller's identity onto
// the current span. Place it after both Tracing and JWTAuth.
func TracingAuthAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if businessID := c.GetString(JWTBusinessIDKey); businessID != "" {
				span.SetAttributes(attribute.String("business_id", businessID))
			}
			if employeeID := c.GetString(JWTEmployeeIDKey); employeeID != "" {
				span.SetAttributes(attribute.String("employee_id", employeeID))
			}
		}
		c.Next()
	}
}
