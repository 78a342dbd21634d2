package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "not allowed", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			meta := MetadataFor(tt.code)
			assert.Equal(t, tt.status, meta.HTTPStatus)
			assert.Equal(t, tt.publicMsg, meta.PublicMessage)
			assert.Equal(t, tt.retryable, meta.Retryable)
			assert.Equal(t, tt.detailsOK, meta.DetailsAllowed)
		})
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	require.Equal(t, CodeValidation, base.Code())
	require.Equal(t, "missing foo", base.Message())
	require.Nil(t, base.Details())

	base.WithDetails(map[string]any{"field": "foo"})
	require.NotNil(t, base.Details())

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, CodeConflict, wrapped.Code())

	formatted := Newf(CodeNotFound, "order %s not found", "ORD-1001")
	require.Equal(t, "order ORD-1001 not found", formatted.Message())
}

func TestAsAndIsCodeFollowTheChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeStateConflict, "order is delivered"))

	require.NotNil(t, As(err))
	require.True(t, IsCode(err, CodeStateConflict))
	require.False(t, IsCode(err, CodeNotFound))
	require.Equal(t, CodeStateConflict, CodeOf(err))
	require.Equal(t, CodeInternal, CodeOf(stdErrors.New("plain")))
	require.Nil(t, As(nil))
}

func TestLogFieldsCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", TableName: "users", Message: "duplicate key"}
	fields := LogFields(Wrap(CodeConflict, pgErr, "create user"))

	assert.Equal(t, string(CodeConflict), fields["error_code"])
	assert.Equal(t, "23505", fields["pg_code"])
	assert.Equal(t, "users_email_key", fields["pg_constraint"])
	assert.Equal(t, "users", fields["pg_table"])
	assert.NotContains(t, fields, "pg_column")
	assert.NotEmpty(t, fields["error_chain"])
}

func TestLogFieldsPlainError(t *testing.T) {
	fields := LogFields(stdErrors.New("boom"))
	assert.Equal(t, string(CodeInternal), fields["error_code"])
	assert.NotContains(t, fields, "pg_code")
	assert.Empty(t, LogFields(nil))
}
