package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-account-api/internal/failure"
)

func body(t *testing.T, r Response) map[string]any {
	t.Helper()
	m, ok := r.Body.(map[string]any)
	require.True(t, ok, "expected map body, got %T", r.Body)
	return m
}

func TestTranslate_NotFound_WithResourceLabel(t *testing.T) {
	r := Translate(failure.NewNotFound("Wallet", "Not found."), Context{})

	assert.Equal(t, http.StatusNotFound, r.Status)
	assert.Equal(t, map[string]any{"Wallet": "Not found."}, body(t, r))
}

func TestTranslate_NotFound_LabelFromContextModel(t *testing.T) {
	ctx := Context{Model: &ModelInfo{Label: "User"}}
	r := Translate(failure.NewNotFound("", "No User matches the given query."), ctx)

	assert.Equal(t, http.StatusNotFound, r.Status)
	assert.Equal(t, map[string]any{"User": "No User matches the given query."}, body(t, r))
}

func TestTranslate_NotFound_FailureResourceWinsOverContext(t *testing.T) {
	ctx := Context{Model: &ModelInfo{Label: "User"}}
	r := Translate(failure.NewNotFound("Wallet", "Not found."), ctx)

	assert.Equal(t, map[string]any{"Wallet": "Not found."}, body(t, r))
}

func TestTranslate_NotFound_NoLabelFallsBackToGeneric(t *testing.T) {
	r := Translate(failure.NewNotFound("", ""), Context{})

	assert.Equal(t, http.StatusNotFound, r.Status)
	assert.Equal(t, map[string]any{"error": "Not found."}, body(t, r))

	r = Translate(failure.NewNotFound("", "gone"), Context{})
	assert.Equal(t, map[string]any{"error": "gone"}, body(t, r))
}

func TestTranslate_NotFound_LabelWithoutDetailUsesStockMessage(t *testing.T) {
	r := Translate(failure.NewNotFound("User", ""), Context{})
	assert.Equal(t, map[string]any{"User": "Not found."}, body(t, r))
}

func TestTranslate_Authentication(t *testing.T) {
	r := Translate(failure.NewAuthenticationFailed("Invalid credentials"), Context{})
	assert.Equal(t, http.StatusUnauthorized, r.Status)
	assert.Equal(t, map[string]any{"error": "Invalid credentials"}, body(t, r))

	// absent detail → generic shape built from the default error list
	r = Translate(failure.NewAuthenticationFailed(""), Context{})
	assert.Equal(t, http.StatusUnauthorized, r.Status)
	assert.Equal(t, map[string]any{"error": "Incorrect authentication credentials."}, body(t, r))

	r = Translate(failure.NewNotAuthenticated(""), Context{})
	assert.Equal(t, map[string]any{"error": "Authentication credentials were not provided."}, body(t, r))

	r = Translate(failure.NewNotAuthenticated("token missing"), Context{})
	assert.Equal(t, map[string]any{"error": "token missing"}, body(t, r))
}

func TestTranslate_ConfigurationError_AlwaysFresh500(t *testing.T) {
	r := Translate(failure.NewImproperlyConfigured("DB misconfigured"), Context{RequestID: "rid"})

	assert.Equal(t, http.StatusInternalServerError, r.Status)
	assert.Equal(t, map[string]any{"error": "DB misconfigured"}, body(t, r))

	// the default would have been the internal_error envelope
	def := Default(failure.NewImproperlyConfigured("DB misconfigured"), Context{RequestID: "rid"})
	assert.IsType(t, ErrorResponse{}, def.Body)
}

func TestTranslate_TransitionNotAllowed_417(t *testing.T) {
	r := Translate(failure.NewTransitionNotAllowed("cannot activate from banned"), Context{})

	assert.Equal(t, http.StatusExpectationFailed, r.Status)
	assert.Equal(t, map[string]any{"error": "cannot activate from banned"}, body(t, r))
}

func TestTranslate_Validation_FlattensFieldsAndEchoesStatus(t *testing.T) {
	err := failure.NewValidation(
		failure.FieldError{Field: "email", Messages: []string{"required", "invalid format"}},
		failure.FieldError{Field: "password", Messages: []string{"too short"}},
	)
	r := Translate(err, Context{})

	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, map[string]any{
		"error":       []string{"email : required invalid format", "password : too short"},
		"status_code": http.StatusBadRequest,
	}, body(t, r))
}

func TestTranslate_Validation_NonFieldKeepsDefaultAndAddsStatus(t *testing.T) {
	r := Translate(failure.NewValidationMessage("payload must be an object"), Context{})

	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, map[string]any{
		"error":       []string{"payload must be an object"},
		"status_code": http.StatusBadRequest,
	}, body(t, r))
}

func TestTranslate_WrappedFailureIsStillRecognized(t *testing.T) {
	err := fmt.Errorf("get user: %w", failure.NewNotFound("User", "Not found."))
	r := Translate(err, Context{})
	assert.Equal(t, map[string]any{"User": "Not found."}, body(t, r))
}

func TestTranslate_UnrecognizedKindsPassThrough(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{failure.NewPermissionDenied(""), http.StatusForbidden},
		{failure.NewThrottled("Request was throttled. Expected available in 3 seconds."), http.StatusTooManyRequests},
		{failure.NewMethodNotAllowed("POST"), http.StatusMethodNotAllowed},
		{failure.NewParseError(errors.New("eof")), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
		{&failure.Error{Kind: failure.Unclassified, Detail: "x"}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got := Translate(tc.err, Context{RequestID: "rid-1"})
		want := Default(tc.err, Context{RequestID: "rid-1"})
		assert.Equal(t, want, got, "passthrough for %v", tc.err)
		assert.Equal(t, tc.status, got.Status, "status for %v", tc.err)
	}

	r := Translate(errors.New("disk on fire"), Context{RequestID: "rid-1"})
	assert.Equal(t, ErrorResponse{RequestID: "rid-1", Code: CodeInternal, Message: MessageInternal}, r.Body)
}

func TestTranslate_RecognizedKindsHaveSingleDominantKey(t *testing.T) {
	errs := []error{
		failure.NewNotFound("Wallet", "Not found."),
		failure.NewNotFound("", ""),
		failure.NewAuthenticationFailed("bad"),
		failure.NewAuthenticationFailed(""),
		failure.NewNotAuthenticated(""),
		failure.NewImproperlyConfigured("x"),
		failure.NewTransitionNotAllowed("y"),
		failure.NewValidation(failure.FieldError{Field: "f", Messages: []string{"m"}}),
	}
	for _, err := range errs {
		m := body(t, Translate(err, Context{}))
		delete(m, "status_code")
		require.Len(t, m, 1, "envelope for %v: %v", err, m)
		_, hasDetail := m["detail"]
		assert.False(t, hasDetail, "raw default shape leaked for %v", err)
	}
}

func Test_recognized(t *testing.T) {
	for _, k := range []failure.Kind{
		failure.NotFound, failure.AuthenticationFailed, failure.NotAuthenticated,
		failure.ImproperlyConfigured, failure.TransitionNotAllowed, failure.Validation,
	} {
		assert.True(t, recognized(k), k.String())
	}
	for _, k := range []failure.Kind{
		failure.Unclassified, failure.PermissionDenied, failure.Throttled,
		failure.MethodNotAllowed, failure.ParseError,
	} {
		assert.False(t, recognized(k), k.String())
	}
}

func TestDefault_ValidationFieldsBody(t *testing.T) {
	err := failure.NewValidation(failure.FieldError{Field: "email", Messages: []string{"required"}})
	r := Default(err, Context{})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, map[string]any{"email": []string{"required"}}, body(t, r))
}
