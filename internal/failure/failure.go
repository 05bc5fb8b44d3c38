// Package failure defines the classified failure conditions raised by the
// persistence, authentication, validation and permission collaborators.
//
// A failure is a *Error carrying one Kind from a closed set. Handlers do not
// render failures themselves; they hand them to gin (c.Error) and the error
// translator registered on the engine turns them into the public envelope.
package failure

import (
	"errors"
	"strings"
)

// Kind classifies a failure. The set is closed: new kinds must be added here
// and handled by the translator's switch.
type Kind int

const (
	// Unclassified is any error that carries no recognized kind.
	Unclassified Kind = iota
	NotFound
	AuthenticationFailed
	NotAuthenticated
	ImproperlyConfigured
	TransitionNotAllowed
	Validation

	// Framework-level kinds. They have a default envelope but are never
	// reshaped.
	PermissionDenied
	Throttled
	MethodNotAllowed
	ParseError
)

// String returns the stable snake_case name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case AuthenticationFailed:
		return "authentication_failed"
	case NotAuthenticated:
		return "not_authenticated"
	case ImproperlyConfigured:
		return "improperly_configured"
	case TransitionNotAllowed:
		return "transition_not_allowed"
	case Validation:
		return "validation"
	case PermissionDenied:
		return "permission_denied"
	case Throttled:
		return "throttled"
	case MethodNotAllowed:
		return "method_not_allowed"
	case ParseError:
		return "parse_error"
	default:
		return "unclassified"
	}
}

// FieldError holds the messages reported for one input field.
type FieldError struct {
	Field    string
	Messages []string
}

// Error is a classified failure.
//
// Resource is the resource-type label of a failed lookup (NotFound only).
// Detail is the human readable message; it may be empty, in which case the
// default envelope for the kind falls back to its stock message.
// Fields is the ordered field → messages mapping of a Validation failure.
type Error struct {
	Kind     Kind
	Resource string
	Detail   string
	Fields   []FieldError
	Err      error
}

// Error renders the failure as a plain string. For kinds built around a
// message this is the message itself.
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+strings.Join(f.Messages, " "))
		}
		return strings.Join(parts, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, &failure.Error{Kind: failure.NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Resource == "" || t.Resource == e.Resource)
}

// As extracts the *Error wrapped in err.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) && fe != nil {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind of err, or Unclassified.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return Unclassified
}

// NewNotFound reports a failed lookup of resource. An empty detail renders
// the stock "Not found." message.
func NewNotFound(resource, detail string) *Error {
	return &Error{Kind: NotFound, Resource: resource, Detail: detail}
}

// NewAuthenticationFailed reports rejected credentials or tokens.
func NewAuthenticationFailed(detail string) *Error {
	return &Error{Kind: AuthenticationFailed, Detail: detail}
}

// NewNotAuthenticated reports a request that carried no credentials.
func NewNotAuthenticated(detail string) *Error {
	return &Error{Kind: NotAuthenticated, Detail: detail}
}

// NewImproperlyConfigured reports a server-side misconfiguration.
func NewImproperlyConfigured(detail string) *Error {
	return &Error{Kind: ImproperlyConfigured, Detail: detail}
}

// NewTransitionNotAllowed reports a state change the current state forbids.
func NewTransitionNotAllowed(detail string) *Error {
	return &Error{Kind: TransitionNotAllowed, Detail: detail}
}

// NewValidation reports field-level input errors in field order.
func NewValidation(fields ...FieldError) *Error {
	return &Error{Kind: Validation, Fields: fields}
}

// NewValidationMessage reports input errors not bound to a single field.
func NewValidationMessage(detail string) *Error {
	return &Error{Kind: Validation, Detail: detail}
}

// NewPermissionDenied reports an authenticated caller lacking permission.
func NewPermissionDenied(detail string) *Error {
	return &Error{Kind: PermissionDenied, Detail: detail}
}

// NewThrottled reports a rate-limited request.
func NewThrottled(detail string) *Error {
	return &Error{Kind: Throttled, Detail: detail}
}

// NewMethodNotAllowed reports an unsupported HTTP method.
func NewMethodNotAllowed(method string) *Error {
	return &Error{Kind: MethodNotAllowed, Detail: `Method "` + method + `" not allowed.`}
}

// NewParseError reports a malformed request body.
func NewParseError(err error) *Error {
	return &Error{Kind: ParseError, Detail: "Malformed request.", Err: err}
}
