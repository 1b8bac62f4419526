package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("task abc")

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Contains(t, err.Error(), "task abc not found")
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("failed to get task", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))

	// Classification survives further wrapping.
	wrapped := fmt.Errorf("request failed: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeDatabase))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(wrapped))
}

func TestHTTPStatusDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("anything")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("name is required")

	assert.True(t, IsValidation(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}
