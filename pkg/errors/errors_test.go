package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/catalogadmin/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "product",
			ID:       "42",
		}
		assert.Equal(t, "product with ID 42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("product", "7")
		wrapped := fmt.Errorf("edit: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "name",
			Message: "cannot be blank",
		}
		assert.Equal(t, "validation failed for field name: cannot be blank", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid sort column"}
		assert.Equal(t, "validation failed: invalid sort column", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"unauthorized", 401, pkgerrors.ErrUnauthorized},
		{"forbidden", 403, pkgerrors.ErrUnauthorized},
		{"not found", 404, pkgerrors.ErrNotFound},
		{"rate limited", 429, pkgerrors.ErrRateLimited},
		{"server error", 500, pkgerrors.ErrUnavailable},
		{"bad gateway", 502, pkgerrors.ErrUnavailable},
		{"bad request", 400, pkgerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("GET", "/api/products", tt.status, "boom")
			assert.True(t, errors.Is(err, tt.target))
		})
	}

	t.Run("no match for 409", func(t *testing.T) {
		err := pkgerrors.NewAPIError("POST", "/api/products", 409, "conflict")
		assert.False(t, pkgerrors.IsUnauthorized(err))
		assert.False(t, pkgerrors.IsUnavailable(err))
	})
}

func TestAPIError_Message(t *testing.T) {
	err := pkgerrors.NewAPIError("PUT", "/api/products/3", 500, "database down")
	assert.Equal(t, "API error from PUT /api/products/3 (status 500): database down", err.Error())

	base := errors.New("connection refused")
	wrapped := &pkgerrors.APIError{Endpoint: "/api/products", Message: "request failed", Err: base}
	assert.Equal(t, "API error from /api/products: request failed", wrapped.Error())
	assert.Equal(t, base, wrapped.Unwrap())
}

func TestAuthenticationError(t *testing.T) {
	err := pkgerrors.NewAuthenticationError("bearer", "session expired", nil)
	assert.Equal(t, "authentication error (bearer): session expired", err.Error())
	assert.True(t, pkgerrors.IsUnauthorized(err))
	assert.True(t, pkgerrors.IsUnauthorized(fmt.Errorf("list: %w", err)))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("session", "unknown store \"disk\"", nil)
	assert.Contains(t, err.Error(), "session")
	assert.Contains(t, err.Error(), "unknown store")
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/tmp/session.yaml", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "/tmp/session.yaml")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("open", "photo.png", errors.New("no such file"))
		var ioErr *pkgerrors.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "open", ioErr.Operation)
		assert.Equal(t, "photo.png", ioErr.Path)
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	})
}

func TestResourceError(t *testing.T) {
	t.Run("with id", func(t *testing.T) {
		err := pkgerrors.NewResourceError("delete", "product", "9", pkgerrors.NewAPIError("DELETE", "/api/products/9", 500, "boom"))
		assert.Contains(t, err.Error(), "failed to delete product 9")
		assert.True(t, pkgerrors.IsUnavailable(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapResource("list", "products", "", errors.New("timeout"))
		var resErr *pkgerrors.ResourceError
		require.True(t, pkgerrors.As(err, &resErr))
		assert.Equal(t, "list", resErr.Operation)
		assert.Equal(t, "failed to list products: timeout", err.Error())
	})
}

func TestParseError(t *testing.T) {
	err := pkgerrors.WrapParse("json", "response", errors.New("unexpected EOF"))
	assert.Equal(t, "parse error in json response: unexpected EOF", err.Error())

	bare := pkgerrors.NewParseError("jwt", "", "malformed token", nil)
	assert.Equal(t, "jwt parse error: malformed token", bare.Error())
}
