package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps otelgin and tags each span with the workplace and request ID.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	base := otelgin.Middleware(serviceName)
	return func(c *gin.Context) {
		base(c)
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if wp := c.Param("workplace_id"); wp != "" {
			span.SetAttributes(attribute.String("workplace_id", wp))
		}
		if id, ok := c.Get(string(requestIDKey)); ok {
			if s, ok := id.(string); ok {
				span.SetAttributes(attribute.String("request_id", s))
			}
		}
	}
}
