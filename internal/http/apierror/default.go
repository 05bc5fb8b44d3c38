// Package apierror translates classified failures into the public JSON error
// envelope.
//
// Translation is two-staged. Default renders the envelope the transport would
// produce on its own for an error (the "framework default"); Translate then
// reshapes that default for the recognized failure kinds so that every one of
// them answers with a single dominant key: "error", or the resource label of a
// failed lookup. Anything else passes through as rendered by Default.
//
// Default envelopes:
//
//	NotFound, AuthenticationFailed, NotAuthenticated,
//	PermissionDenied, Throttled, MethodNotAllowed, ParseError
//	    {"detail": "<message>"}            when the failure carries a message
//	    {"error": ["<stock message>"]}     otherwise
//	Validation
//	    {"<field>": ["<msg>", ...], ...}   for field errors
//	    {"error": ["<message>"]}           otherwise
//	ImproperlyConfigured, TransitionNotAllowed, unclassified errors
//	    500 {"request_id": "...", "code": "internal_error", "message": "internal server error"}
package apierror

import (
	"net/http"

	"github.com/tbourn/go-account-api/internal/failure"
)

// Stable code and message of the internal-error envelope.
const (
	CodeInternal    = "internal_error"
	MessageInternal = "internal server error"
)

// ErrorResponse is the envelope for errors the translator does not classify.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code
	Code string `json:"code" example:"internal_error"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"internal server error"`
}

// ModelInfo describes the resource a route operates on.
type ModelInfo struct {
	// Label is the resource-type name used as the key of not-found envelopes.
	Label string
}

// Context is the request-scoped information available to the translator.
// Model is nil when the route did not declare a resource.
type Context struct {
	RequestID string
	Model     *ModelInfo
}

// Response is a rendered error: status code and JSON body.
type Response struct {
	Status int
	Body   any
}

// stockMessage is the text used when a failure carries no message of its own.
func stockMessage(k failure.Kind) string {
	switch k {
	case failure.NotFound:
		return "Not found."
	case failure.AuthenticationFailed:
		return "Incorrect authentication credentials."
	case failure.NotAuthenticated:
		return "Authentication credentials were not provided."
	case failure.Validation:
		return "Invalid input."
	case failure.PermissionDenied:
		return "You do not have permission to perform this action."
	case failure.Throttled:
		return "Request was throttled."
	case failure.MethodNotAllowed:
		return "Method not allowed."
	case failure.ParseError:
		return "Malformed request."
	default:
		return MessageInternal
	}
}

// Default renders the envelope the transport produces for err without any
// reshaping.
func Default(err error, ctx Context) Response {
	fe, ok := failure.As(err)
	if !ok {
		return internalError(ctx)
	}

	switch fe.Kind {
	case failure.NotFound:
		return Response{Status: http.StatusNotFound, Body: detailBody(fe)}
	case failure.AuthenticationFailed, failure.NotAuthenticated:
		return Response{Status: http.StatusUnauthorized, Body: detailBody(fe)}
	case failure.PermissionDenied:
		return Response{Status: http.StatusForbidden, Body: detailBody(fe)}
	case failure.Throttled:
		return Response{Status: http.StatusTooManyRequests, Body: detailBody(fe)}
	case failure.MethodNotAllowed:
		return Response{Status: http.StatusMethodNotAllowed, Body: detailBody(fe)}
	case failure.ParseError:
		return Response{Status: http.StatusBadRequest, Body: detailBody(fe)}
	case failure.Validation:
		return Response{Status: http.StatusBadRequest, Body: validationBody(fe)}
	default:
		return internalError(ctx)
	}
}

func detailBody(fe *failure.Error) map[string]any {
	if fe.Detail != "" {
		return map[string]any{"detail": fe.Detail}
	}
	return map[string]any{"error": []string{stockMessage(fe.Kind)}}
}

func validationBody(fe *failure.Error) map[string]any {
	if len(fe.Fields) == 0 {
		msg := fe.Detail
		if msg == "" {
			msg = stockMessage(failure.Validation)
		}
		return map[string]any{"error": []string{msg}}
	}
	body := make(map[string]any, len(fe.Fields))
	for _, f := range fe.Fields {
		body[f.Field] = append([]string(nil), f.Messages...)
	}
	return body
}

func internalError(ctx Context) Response {
	return Response{
		Status: http.StatusInternalServerError,
		Body: ErrorResponse{
			RequestID: ctx.RequestID,
			Code:      CodeInternal,
			Message:   MessageInternal,
		},
	}
}
