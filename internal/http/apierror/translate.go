package apierror

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tbourn/go-account-api/internal/failure"
)

// reshapeFunc turns the default envelope of a recognized failure into its
// public shape.
type reshapeFunc func(fe *failure.Error, ctx Context, def Response) Response

// reshaperFor is the dispatch table. Kinds without an entry pass through.
func reshaperFor(k failure.Kind) (reshapeFunc, bool) {
	switch k {
	case failure.NotFound:
		return reshapeNotFound, true
	case failure.AuthenticationFailed, failure.NotAuthenticated:
		return reshapeAuthentication, true
	case failure.ImproperlyConfigured:
		return reshapeConfiguration, true
	case failure.TransitionNotAllowed:
		return reshapeTransition, true
	case failure.Validation:
		return reshapeValidation, true
	default:
		return nil, false
	}
}

// recognized reports whether k is reshaped by Translate.
func recognized(k failure.Kind) bool {
	_, ok := reshaperFor(k)
	return ok
}

// Translate renders err as the public error envelope.
//
// The default envelope is always computed first. Errors that are not a
// *failure.Error, or whose kind is not recognized, get it back unmodified.
func Translate(err error, ctx Context) Response {
	def := Default(err, ctx)

	fe, ok := failure.As(err)
	if !ok {
		return def
	}
	reshape, ok := reshaperFor(fe.Kind)
	if !ok {
		return def
	}
	return reshape(fe, ctx, def)
}

// reshapeGeneric wraps the first message of the default "error" list (or its
// "detail") as {"error": <message>}.
func reshapeGeneric(fe *failure.Error, _ Context, def Response) Response {
	msg := stockMessage(fe.Kind)
	if body, ok := def.Body.(map[string]any); ok {
		if list, ok := body["error"].([]string); ok && len(list) > 0 {
			msg = list[0]
		} else if d, ok := body["detail"].(string); ok && d != "" {
			msg = d
		}
	}
	return Response{Status: def.Status, Body: map[string]any{"error": msg}}
}

func reshapeNotFound(fe *failure.Error, ctx Context, def Response) Response {
	label := fe.Resource
	if label == "" && ctx.Model != nil {
		label = ctx.Model.Label
	}
	if label == "" {
		return reshapeGeneric(fe, ctx, def)
	}

	detail := stockMessage(failure.NotFound)
	if body, ok := def.Body.(map[string]any); ok {
		if d, ok := body["detail"].(string); ok && d != "" {
			detail = d
		}
	}
	return Response{Status: def.Status, Body: map[string]any{label: detail}}
}

func reshapeAuthentication(fe *failure.Error, ctx Context, def Response) Response {
	if body, ok := def.Body.(map[string]any); ok {
		if d, ok := body["detail"].(string); ok && d != "" {
			return Response{Status: def.Status, Body: map[string]any{"error": d}}
		}
	}
	return reshapeGeneric(fe, ctx, def)
}

func reshapeConfiguration(fe *failure.Error, _ Context, _ Response) Response {
	return Response{
		Status: http.StatusInternalServerError,
		Body:   map[string]any{"error": fe.Error()},
	}
}

func reshapeTransition(fe *failure.Error, _ Context, _ Response) Response {
	return Response{
		Status: http.StatusExpectationFailed,
		Body:   map[string]any{"error": fe.Error()},
	}
}

// reshapeValidation flattens field errors into "<field> : <m1> <m2>" lines
// and echoes the status code in the body.
func reshapeValidation(fe *failure.Error, ctx Context, _ Response) Response {
	def := Default(fe, ctx)

	body := make(map[string]any)
	if len(fe.Fields) > 0 {
		lines := make([]string, 0, len(fe.Fields))
		for _, f := range fe.Fields {
			lines = append(lines, fmt.Sprintf("%s : %s", f.Field, strings.Join(f.Messages, " ")))
		}
		body["error"] = lines
	} else if m, ok := def.Body.(map[string]any); ok {
		for k, v := range m {
			body[k] = v
		}
	}
	body["status_code"] = def.Status
	return Response{Status: def.Status, Body: body}
}
