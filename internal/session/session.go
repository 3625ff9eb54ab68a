package session

import (
	"context"
	"sync"
	"time"

	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
)

// Session holds the token of the signed-in operator. Init loads it from
// the store, Set saves a new one after login and Clear removes it on
// logout or when the backend rejects it. It is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	store   Store
	token   string
	onClear []func()
}

// New returns a session backed by store. Call Init before use.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Store returns the backing store.
func (s *Session) Store() Store {
	return s.store
}

// Init loads the stored token, if any.
func (s *Session) Init(ctx context.Context) error {
	token, err := s.store.Get(ctx, constants.SessionTokenKey)
	if errors.Is(err, ErrNoSession) {
		token, err = "", nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	logging.FromContext(ctx).Debug().
		Str("store", s.store.Name()).
		Bool("authenticated", token != "").
		Msg("Session loaded")
	return nil
}

// Token returns the current token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held. The token itself is not
// checked; the backend decides whether it is still good.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores token as the current session.
func (s *Session) Set(ctx context.Context, token string) error {
	if token == "" {
		return errors.NewValidationError("token", "", "token cannot be empty")
	}
	if err := s.store.Set(ctx, constants.SessionTokenKey, token); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear signs out. The in-memory token is dropped even if the store fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	hooks := append([]func(){}, s.onClear...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return s.store.Delete(ctx, constants.SessionTokenKey)
}

// OnClear registers a callback run whenever the session is cleared.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Status describes the current token at time now.
func (s *Session) Status(now time.Time) *Status {
	return Check(s.Token(), now)
}
