package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// State represents the state of the stored session.
type State int

const (
	// StateActive means a token is stored and not known to be expired.
	StateActive State = iota
	// StateMissing means no token is stored.
	StateMissing
	// StateExpired means the token carries an expiry in the past.
	StateExpired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "missing"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status represents session status with optional token details.
type Status struct {
	State   State   `json:"state" yaml:"state"`
	Summary string  `json:"summary" yaml:"summary"` // Brief one-line summary
	Claims  *Claims `json:"claims,omitempty" yaml:"claims,omitempty"`
}

// Claims are the registered claims read from a JWT session token.
type Claims struct {
	Subject   string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Issuer    string    `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitzero" yaml:"issued_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero" yaml:"expires_at,omitempty"`
}

// Check describes token at time now. The signature is not verified: only
// the backend holds the key, and this is used for display alone. Tokens
// that are not JWTs are reported as active without claims.
func Check(token string, now time.Time) *Status {
	if token == "" {
		return &Status{State: StateMissing, Summary: "Not logged in"}
	}

	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &registered); err != nil {
		return &Status{State: StateActive, Summary: "Logged in (opaque token)"}
	}

	claims := &Claims{Subject: registered.Subject, Issuer: registered.Issuer}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}

	if !claims.ExpiresAt.IsZero() && !now.Before(claims.ExpiresAt) {
		return &Status{
			State:   StateExpired,
			Summary: fmt.Sprintf("Session expired %s ago", now.Sub(claims.ExpiresAt).Round(time.Second)),
			Claims:  claims,
		}
	}

	summary := "Logged in"
	if claims.Subject != "" {
		summary = fmt.Sprintf("Logged in as %s", claims.Subject)
	}
	if !claims.ExpiresAt.IsZero() {
		summary += fmt.Sprintf(" (expires in %s)", claims.ExpiresAt.Sub(now).Round(time.Second))
	}
	return &Status{State: StateActive, Summary: summary, Claims: claims}
}
