package social

import "errors"

// Kind classifies a domain error with a stable identifier. The HTTP
// layer maps kinds to status codes; everything else (store failures,
// programming errors) surfaces as a generic failure.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindSelfReference    Kind = "self_reference"
	KindAlreadyFriends   Kind = "already_friends"
	KindDuplicateRequest Kind = "duplicate_request"
	KindRequestNotFound  Kind = "request_not_found"
	KindNotFound         Kind = "not_found"
	KindNotAuthorized    Kind = "not_authorized"
)

// Error is a domain error with a stable kind and a human-readable
// message. State is left unchanged whenever an operation returns one.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the domain kind from an error chain. The second
// return is false for store and other non-domain failures.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
