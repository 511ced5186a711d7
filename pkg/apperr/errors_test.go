package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := New(KindNotFound, "order 42 not found")
	assert.Equal(t, "not_found: order 42 not found", err.Error())

	wrapped := Wrap(errors.New("connection refused"), KindUnavailable, "inventory service")
	assert.Contains(t, wrapped.Error(), "unavailable: inventory service")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestError_IsMatchesByKind(t *testing.T) {
	err := Newf(KindOutOfStock, "insufficient stock for productId: %d", 3)

	assert.True(t, errors.Is(err, ErrOutOfStock))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestError_UnwrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(cause, KindUnavailable, "shipping service")

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(fmt.Errorf("fetch shipments: %w", err), ErrUnavailable))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInvalidInput, KindOf(New(KindInvalidInput, "bad id")))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain error")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", New(KindNotFound, "x"), http.StatusNotFound},
		{"invalid input", New(KindInvalidInput, "x"), http.StatusUnprocessableEntity},
		{"out of stock", New(KindOutOfStock, "x"), http.StatusUnprocessableEntity},
		{"unavailable", New(KindUnavailable, "x"), http.StatusServiceUnavailable},
		{"conflict", New(KindConflict, "x"), http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}
