// Package app provides the application context and dependency management
// for the catalogadmin CLI. It centralizes configuration, logging and the
// lazily created session, gateway and confirmation workflow.
package app

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/agentstation/catalogadmin/internal/audit"
	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/internal/transport"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/gateway"
	"github.com/agentstation/catalogadmin/pkg/logging"
)

// App represents the catalogadmin application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily initialized singletons
	mu       sync.RWMutex
	session  *session.Session
	gateway  *gateway.Gateway
	workflow *confirm.Workflow
	recorder confirm.Recorder
	closers  []func()
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the default locations and can be replaced
// using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// PageSize returns the configured page size.
func (a *App) PageSize() int {
	return a.config.PageSize
}

// Session returns the session, loading the stored token on first use.
func (a *App) Session() (*session.Session, error) {
	a.mu.RLock()
	if a.session != nil {
		s := a.session
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionLocked()
}

func (a *App) sessionLocked() (*session.Session, error) {
	if a.session != nil {
		return a.session, nil
	}

	store, err := a.newStore()
	if err != nil {
		return nil, err
	}

	s := session.New(store)
	ctx := logging.WithLogger(context.Background(), a.logger)
	if err := s.Init(ctx); err != nil {
		return nil, errors.WrapResource("load", "session", store.Name(), err)
	}

	a.session = s
	return s, nil
}

// newStore builds the configured session store.
func (a *App) newStore() (session.Store, error) {
	cfg := a.config.Session
	switch cfg.Store {
	case StoreMemory:
		return session.NewMemoryStore(), nil
	case StoreRedis:
		store := session.NewRedisStore(&redis.Options{
			Addr:     a.config.Redis.Addr,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
		}, cfg.TTL)
		a.closers = append(a.closers, func() {
			if err := store.Close(); err != nil {
				a.logger.Warn().Err(err).Msg("Failed to close redis session store")
			}
		})
		return store, nil
	default:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = session.DefaultFilePath(); err != nil {
				return nil, errors.NewConfigError("session.path", "cannot locate cache directory", err)
			}
		}
		return session.NewFileStore(path), nil
	}
}

// Gateway returns the catalog gateway, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Gateway() (*gateway.Gateway, error) {
	a.mu.RLock()
	if a.gateway != nil {
		gw := a.gateway
		a.mu.RUnlock()
		return gw, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gatewayLocked()
}

func (a *App) gatewayLocked() (*gateway.Gateway, error) {
	if a.gateway != nil {
		return a.gateway, nil
	}

	sess, err := a.sessionLocked()
	if err != nil {
		return nil, err
	}

	client := transport.New(a.config.APIURL,
		transport.WithTimeout(a.config.HTTPTimeout),
		transport.WithAuthenticator(transport.AuthenticatorFor(a.config.AuthHeader)),
		transport.WithTokenSource(sess),
	)

	gw, err := gateway.New(client, gateway.WithTokenStore(sess))
	if err != nil {
		return nil, errors.WrapResource("create", "gateway", a.config.APIURL, err)
	}

	// Products loaded for one operator are not shown to the next.
	sess.OnClear(gw.Reset)

	a.gateway = gw
	return gw, nil
}

// Workflow returns the confirmation workflow applying actions through the
// gateway. Confirmed outcomes are published to NATS when audit.nats_url
// is configured.
func (a *App) Workflow() (*confirm.Workflow, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.workflow != nil {
		return a.workflow, nil
	}

	gw, err := a.gatewayLocked()
	if err != nil {
		return nil, err
	}

	if a.recorder == nil {
		a.recorder = audit.Nop{}
		if url := a.config.Audit.NatsURL; url != "" {
			pub, closeFn, err := audit.Connect(url, a.config.Audit.Subject)
			if err != nil {
				// Audit is best effort; actions still go through.
				a.logger.Warn().Err(err).Str("url", url).Msg("Audit publishing disabled")
			} else {
				a.recorder = pub
				a.closers = append(a.closers, closeFn)
			}
		}
	}

	wf := confirm.New(gw, confirm.WithRecorder(a.recorder))
	a.session.OnClear(func() { wf.Cancel() })

	a.workflow = wf
	return wf, nil
}

// Shutdown performs graceful shutdown of the application, closing the
// session store and the audit connection.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.WrapResource("shutdown", "app", "", errors.Join(errors.ErrCanceled, ctx.Err()))
	}
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSession sets a custom session (useful for testing).
func WithSession(s *session.Session) Option {
	return func(a *App) error {
		a.session = s
		return nil
	}
}

// WithRecorder sets where confirmed outcomes are recorded.
func WithRecorder(r confirm.Recorder) Option {
	return func(a *App) error {
		a.recorder = r
		return nil
	}
}
