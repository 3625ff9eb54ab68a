package cmdutil

import (
	"context"

	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
)

// ErrNotLoggedIn is returned by commands that need a session when none is stored.
var ErrNotLoggedIn = errors.NewAuthenticationError("bearer", "not logged in, run: catalogadmin login", nil)

// RequireSession fails when s holds no token.
func RequireSession(s *session.Session) error {
	if s == nil || !s.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// CheckAuth clears the stored session when err says the backend rejected
// it, so the next command asks for a login. err is returned unchanged.
func CheckAuth(ctx context.Context, s *session.Session, err error) error {
	if err == nil || s == nil || !errors.IsUnauthorized(err) {
		return err
	}
	if cerr := s.Clear(ctx); cerr != nil {
		logging.FromContext(ctx).Warn().Err(cerr).Msg("Failed to clear rejected session")
	}
	return err
}
