package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// TokenSource supplies the current session token. An empty token means no
// session; requests are still sent and the backend decides.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string {
	return string(t)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {
	// No authentication applied
}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// HeaderAuth sends the raw token in a custom header, for backends sitting
// behind a gateway that expects e.g. X-Api-Token.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, token string) {
	req.Header.Set(a.Header, token)
}

// AuthenticatorFor returns the authenticator for a configured header name.
// An empty name or "Authorization" means Bearer auth.
func AuthenticatorFor(header string) Authenticator {
	switch header {
	case "", "Authorization", "authorization":
		return &BearerAuth{}
	case "-", "none":
		return &NoAuth{}
	default:
		return &HeaderAuth{Header: header}
	}
}
