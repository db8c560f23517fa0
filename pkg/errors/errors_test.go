package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesTemplate(t *testing.T) {
	err := Clone(ErrValidation, "subject 1: name is required")
	assert.True(t, stdErrors.Is(err, ErrValidation))
	assert.False(t, stdErrors.Is(err, ErrNotFound))
	assert.Equal(t, "subject 1: name is required", err.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestWithDetailsKeepsCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := WithDetails(ErrValidation, "bad subject", cause, map[string]interface{}{"index": 0})
	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, err.Details["index"])
	assert.Nil(t, ErrValidation.Details)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(fmt.Errorf("disk full"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)

	wrapped := fmt.Errorf("outer: %w", Clone(ErrCatalogMiss, ""))
	assert.Equal(t, ErrCatalogMiss.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}
