package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestFromDBUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	appErr := FromDB(err, "not found")

	assert.Equal(t, CodeDuplicate, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestFromDBNoRows(t *testing.T) {
	appErr := FromDB(pgx.ErrNoRows, "User not found")

	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestFromDBUnknownErrorIsInternal(t *testing.T) {
	appErr := FromDB(errors.New("connection refused"), "not found")

	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	// The driver detail stays out of the client-facing message.
	assert.Equal(t, "Internal server error", appErr.Message)
}

func TestFromPassesThroughTaxonomy(t *testing.T) {
	orig := Policy("Upgrade to premium to chat with more people", map[string]any{"limit": 5})

	appErr := From(orig)

	assert.Same(t, orig, appErr)
}

func TestFromWrapsPlainError(t *testing.T) {
	appErr := From(errors.New("boom"))

	assert.Equal(t, CodeInternal, appErr.Code)
}

func TestDuplicateWithStatus(t *testing.T) {
	appErr := DuplicateWithStatus("You already have an active subscription", http.StatusBadRequest)

	assert.Equal(t, CodeDuplicate, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	appErr := Internal(inner)

	assert.True(t, errors.Is(appErr, inner))
}
