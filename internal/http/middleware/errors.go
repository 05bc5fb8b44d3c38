// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file installs the error translator. Handlers and other middleware
// report failures with c.Error(err) and return; ErrorTranslator renders the
// last reported error exactly once, after the rest of the chain has run.
//
// Order matters: register ErrorTranslator after Logger and Metrics so that the
// status they record is the translated one.
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-account-api/internal/failure"
	"github.com/tbourn/go-account-api/internal/http/apierror"
)

// ctxKeyModel is the Gin context key holding the route's *apierror.ModelInfo.
const ctxKeyModel = "viewModel"

// ViewModel declares the resource a route group operates on. The label keys
// not-found envelopes of failures that do not name a resource themselves.
func ViewModel(label string) gin.HandlerFunc {
	info := &apierror.ModelInfo{Label: label}
	return func(c *gin.Context) {
		c.Set(ctxKeyModel, info)
		c.Next()
	}
}

// TranslationContext builds the translator context for the current request.
func TranslationContext(c *gin.Context) apierror.Context {
	rid, _ := c.Get(requestIDKey)
	ctx := apierror.Context{RequestID: asString(rid)}
	if v, ok := c.Get(ctxKeyModel); ok {
		if m, ok := v.(*apierror.ModelInfo); ok {
			ctx.Model = m
		}
	}
	return ctx
}

// ErrorTranslator renders the last error collected on the Gin context through
// apierror.Translate.
//
// Nothing is written when the chain produced no error or a response body was
// already sent. Failures rendered with a 5xx status are logged with the
// request-scoped logger, including the trace id when the request is traced.
func ErrorTranslator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		resp := apierror.Translate(err, TranslationContext(c))
		kind := failure.KindOf(err)
		apiErrors.WithLabelValues(kind.String(), strconv.Itoa(resp.Status)).Inc()

		if resp.Status >= 500 {
			ev := LoggerFrom(c).Error().Err(err).Str("kind", kind.String())
			if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
				ev = ev.Str("trace_id", sc.TraceID().String())
			}
			ev.Msg("request failed")
		}

		c.AbortWithStatusJSON(resp.Status, resp.Body)
	}
}
