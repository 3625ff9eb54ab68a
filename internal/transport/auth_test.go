package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-token")

	assert.Empty(t, req.Header)
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-token")

	assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
}

// TestHeaderAuth tests custom header authentication.
func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "X-Api-Token"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-token")

	assert.Equal(t, "test-token", req.Header.Get("X-Api-Token"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestAuthenticatorFor(t *testing.T) {
	tests := []struct {
		header string
		want   Authenticator
	}{
		{"", &BearerAuth{}},
		{"Authorization", &BearerAuth{}},
		{"none", &NoAuth{}},
		{"X-Api-Token", &HeaderAuth{Header: "X-Api-Token"}},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthenticatorFor(tt.header))
		})
	}
}
