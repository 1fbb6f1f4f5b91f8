package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Machine-readable error codes surfaced in the "error" field of failure
// responses. The frontend switches on these.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodePolicy       = "POLICY_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeDuplicate    = "DUPLICATE_ENTRY"
	CodeUnavailable  = "UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

// pgDuplicateKey is the PostgreSQL unique_violation SQLSTATE.
const pgDuplicateKey = "23505"

// Error is the application error taxonomy. Services return these; the
// handler layer maps them onto HTTP responses.
type Error struct {
	Code    string
	Status  int
	Message string
	Data    map[string]any
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// Policy carries extra context (e.g. currentChats/limit for the
// conversation cap) so the client can render the upsell dialog.
func Policy(message string, data map[string]any) *Error {
	return &Error{Code: CodePolicy, Status: http.StatusForbidden, Message: message, Data: data}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func Duplicate(message string) *Error {
	return &Error{Code: CodeDuplicate, Status: http.StatusConflict, Message: message}
}

// DuplicateWithStatus exists because the subscription-request endpoint
// historically answered 400 rather than 409 for an existing subscription.
func DuplicateWithStatus(message string, status int) *Error {
	return &Error{Code: CodeDuplicate, Status: status, Message: message}
}

func Unavailable(message string) *Error {
	return &Error{Code: CodeUnavailable, Status: http.StatusServiceUnavailable, Message: message}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "Internal server error", err: err}
}

// FromDB translates database errors into the taxonomy: unique-key
// violations become DUPLICATE_ENTRY, missing rows NOT_FOUND, anything
// else a wrapped internal error.
func FromDB(err error, notFoundMsg string) *Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKey {
		return Duplicate("Record already exists")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(notFoundMsg)
	}
	return Internal(err)
}

// From returns err as *Error, or wraps it as an internal error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
