package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomyStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		typ    ErrorType
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest, ErrorTypeValidation},
		{"not found", NewNotFoundError("post"), http.StatusNotFound, ErrorTypeNotFound},
		{"unauthorized", NewUnauthorizedError("no token"), http.StatusUnauthorized, ErrorTypeUnauthorized},
		{"forbidden", NewForbiddenError("blocked"), http.StatusForbidden, ErrorTypeForbidden},
		{"cache", NewCacheError("hset", assert.AnError), http.StatusServiceUnavailable, ErrorTypeCache},
		{"database", NewDatabaseError("insert", assert.AnError), http.StatusInternalServerError, ErrorTypeDatabase},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError, ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestIsNotFoundSeesWrappedErrors(t *testing.T) {
	// Arrange
	base := NewNotFoundError("user")
	wrapped := fmt.Errorf("loading profile: %w", base)

	// Assert
	assert.True(t, IsNotFound(base))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(assert.AnError))
	assert.False(t, IsNotFound(nil))
}

func TestCacheErrorNeverReadsAsNotFound(t *testing.T) {
	// A failed cache operation must never be mistaken for a missing entity.
	err := NewCacheError("hgetall", assert.AnError)

	assert.True(t, IsCacheUnavailable(err))
	assert.False(t, IsNotFound(err))
}
