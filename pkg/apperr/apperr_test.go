package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesSentinelByKind(t *testing.T) {
	err := NotFound("patient", "p-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("update: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestStore_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store("failed to add patient", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "failed to add patient: connection reset", err.Error())
	assert.Equal(t, "failed to add patient", Message(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("name is required"), http.StatusBadRequest},
		{NotFound("session", "s-1"), http.StatusNotFound},
		{Store("boom", errors.New("x")), http.StatusBadGateway},
		{Config("GOOGLE_SHEET_ID is missing"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestWrap_KeepsClassifiedErrors(t *testing.T) {
	nf := NotFound("billing entry", "b-1")
	assert.Same(t, nf, Wrap("failed", nf))

	wrapped := Wrap("failed to update", errors.New("timeout"))
	assert.Equal(t, KindStore, KindOf(wrapped))
	assert.Nil(t, Wrap("unused", nil))
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("secret detail")))
	assert.Equal(t, "not_found", Message(ErrNotFound))
}
