package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamErrors(t *testing.T) {
	t.Run("should keep the upstream status and message", func(t *testing.T) {
		err := NewUpstreamError(http.StatusBadRequest, "Ticket déjà assigné")
		domainErr := ToDomainError(err)
		assert.Equal(t, CodeUpstream, domainErr.Code)
		assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
		assert.Equal(t, "Ticket déjà assigné", domainErr.Message)
	})

	t.Run("should fall back to the generic message", func(t *testing.T) {
		assert.Equal(t, MessageUpstreamGeneric, ToDomainError(NewUpstreamError(http.StatusInternalServerError, "")).Message)
	})

	t.Run("should map odd statuses to bad gateway", func(t *testing.T) {
		assert.Equal(t, http.StatusBadGateway, ToDomainError(NewUpstreamError(302, "")).HTTPStatus)
	})

	t.Run("should report unreachable servers", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewUpstreamUnreachable(cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, MessageUpstreamUnreachable, ToDomainError(err).Message)
	})
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", NewConflict("busy", nil))
	assert.True(t, IsCode(wrapped, CodeConflict))
	assert.False(t, IsCode(wrapped, CodeNotFound))
	assert.Equal(t, CodeInternal, ToDomainError(errors.New("plain")).Code)
	assert.Nil(t, ToDomainError(nil))
	assert.Equal(t, http.StatusServiceUnavailable, ToDomainError(NewUnavailable("off")).HTTPStatus)
}
