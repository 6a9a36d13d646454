package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("taskId is required", nil), CodeValidation, http.StatusBadRequest},
		{NewNotFound("submission", nil), CodeNotFound, http.StatusNotFound},
		{NewDuplicateSubmission("exists", nil), CodeDuplicateSubmission, http.StatusConflict},
		{NewSubmissionsClosed("closed", nil), CodeSubmissionsClosed, http.StatusConflict},
		{NewInvalidStatus("maybe"), CodeInvalidStatus, http.StatusBadRequest},
		{NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{NewUnauthorized("who"), CodeUnauthorized, http.StatusUnauthorized},
		{NewUpstreamUnavailable("down", nil), CodeUpstreamUnavailable, http.StatusServiceUnavailable},
		{NewInternalError(nil), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		domainErr := ToDomainError(tc.err)
		require.NotNil(t, domainErr)
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestToDomainErrorUnwrapsAndFallsBack(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.Equal(t, "", CodeOf(nil))

	wrapped := fmt.Errorf("update: %w", NewNotFound("submission", map[string]any{"submission_id": "ghost"}))
	domainErr := ToDomainError(wrapped)
	assert.Equal(t, CodeNotFound, domainErr.Code)
	assert.Equal(t, "submission not found", domainErr.Message)
	assert.Equal(t, "ghost", domainErr.Details["submission_id"])

	plain := errors.New("boom")
	fallback := ToDomainError(plain)
	assert.Equal(t, CodeInternal, fallback.Code)
	assert.ErrorIs(t, fallback, plain)
	assert.Equal(t, CodeInternal, CodeOf(plain))
}

func TestInvalidStatusNamesValue(t *testing.T) {
	domainErr := ToDomainError(NewInvalidStatus("maybe"))
	assert.Contains(t, domainErr.Message, "maybe")
	assert.Equal(t, "maybe", domainErr.Details["status"])
}
