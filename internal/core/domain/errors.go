package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so transport layers can map it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingCredential
	KindInvalidCredential
	KindExpiredCredential
	KindInsufficientRole
	KindNotFound
	KindNoRouteMatch
	KindInvalidPayload
	KindDuplicateKey
	KindDownstreamUnavailable
	KindDownstreamTimeout
)

var kindNames = map[Kind]string{
	KindInternal:              "internal",
	KindMissingCredential:     "missing_credential",
	KindInvalidCredential:     "invalid_credential",
	KindExpiredCredential:     "expired_credential",
	KindInsufficientRole:      "insufficient_role",
	KindNotFound:              "not_found",
	KindNoRouteMatch:          "no_route_match",
	KindInvalidPayload:        "invalid_payload",
	KindDuplicateKey:          "duplicate_key",
	KindDownstreamUnavailable: "downstream_unavailable",
	KindDownstreamTimeout:     "downstream_timeout",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a tagged domain failure. Message is safe to show to API clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a tagged error around an optional cause.
func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// Invalid reports a payload that failed validation.
func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalidPayload, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of the first *Error in err's chain.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

var (
	ErrMissingCredential = NewError(KindMissingCredential, "Authentication token required", nil)
	ErrInvalidCredential = NewError(KindInvalidCredential, "Invalid token", nil)
	ErrExpiredCredential = NewError(KindExpiredCredential, "Token expired", nil)
	ErrInsufficientRole  = NewError(KindInsufficientRole, "Insufficient permissions", nil)
	ErrNoRouteMatch      = NewError(KindNoRouteMatch, "Route not found", nil)

	ErrInvalidCredentials = NewError(KindInvalidCredential, "Invalid credentials", nil)
	ErrUserNotFound       = NewError(KindNotFound, "User not found", nil)
	ErrCustomerNotFound   = NewError(KindNotFound, "Customer not found", nil)
	ErrNoteNotFound       = NewError(KindNotFound, "Note not found", nil)
	ErrSaleNotFound       = NewError(KindNotFound, "Sale not found", nil)
	ErrEmailExists        = NewError(KindDuplicateKey, "Email already exists", nil)

	ErrRegisterRoleForbidden = NewError(KindInsufficientRole, "Registration may only create sales_rep accounts", nil)

	ErrIdempotencyInFlight = NewError(KindDuplicateKey, "A request with this Idempotency-Key is already in progress", nil)
	ErrIdempotencyStale    = NewError(KindDuplicateKey, "Idempotency-Key refers to a sale that no longer exists", nil)
)
