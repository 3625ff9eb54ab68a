// Package gateway owns the canonical product collection and keeps it in
// step with the catalog backend. Every mutation is sent to the backend
// first and applied locally only once the backend accepted it.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/agentstation/catalogadmin/internal/transport"
	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// TokenStore receives the token issued by a successful login.
type TokenStore interface {
	Set(ctx context.Context, token string) error
}

// Gateway is the remote catalog gateway. It is safe for concurrent use.
type Gateway struct {
	mu       sync.RWMutex
	client   *transport.Client
	tokens   TokenStore
	entries  []products.Entry
	revision uint64
	loading  int
	err      error

	hooks *hooks
}

// Option configures a Gateway.
type Option func(*Gateway) error

// WithTokenStore stores tokens issued by Login.
func WithTokenStore(store TokenStore) Option {
	return func(g *Gateway) error {
		g.tokens = store
		return nil
	}
}

// WithInitialEntries seeds the canonical collection.
func WithInitialEntries(entries []products.Entry) Option {
	return func(g *Gateway) error {
		g.entries = cloneEntries(entries)
		return nil
	}
}

// New creates a gateway sending requests through client.
func New(client *transport.Client, opts ...Option) (*Gateway, error) {
	if client == nil {
		return nil, errors.NewConfigError("gateway", "transport client is required", nil)
	}
	g := &Gateway{client: client, hooks: &hooks{}}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, errors.NewConfigError("gateway", "applying options", err)
		}
	}
	return g, nil
}

// Entries returns a copy of the canonical collection.
func (g *Gateway) Entries() []products.Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return cloneEntries(g.entries)
}

// Get returns the entry with id.
func (g *Gateway) Get(id int) (products.Entry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i := g.indexOf(id); i >= 0 {
		return g.entries[i].Clone(), true
	}
	return products.Entry{}, false
}

// Len returns the size of the canonical collection.
func (g *Gateway) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// Revision increases every time the canonical collection changes.
func (g *Gateway) Revision() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.revision
}

// Loading reports whether a List call is in flight.
func (g *Gateway) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading > 0
}

// Err returns the error of the last failed List, cleared by the next
// successful one.
func (g *Gateway) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}

// OnChange registers a callback run after every change to the collection.
func (g *Gateway) OnChange(fn ChangeHook) { g.hooks.addChange(fn) }

// OnEntryRemoved registers a callback for entries that leave the
// collection, whether deleted, dropped by a reload or by Reset.
func (g *Gateway) OnEntryRemoved(fn EntryRemovedHook) { g.hooks.addRemoved(fn) }

// List fetches the whole collection and replaces the canonical one. On
// failure the collection is left as it was and Err reports the failure.
// Overlapping calls are not deduplicated; the last response applied wins.
func (g *Gateway) List(ctx context.Context) ([]products.Entry, error) {
	ctx = logging.WithOperation(ctx, "list")
	logger := logging.FromContext(ctx)

	g.mu.Lock()
	g.loading++
	g.mu.Unlock()

	var fetched []products.Entry
	err := g.do(ctx, func() (*http.Response, error) {
		return g.client.Get(ctx, constants.ProductsPath)
	}, &fetched)

	g.mu.Lock()
	g.loading--
	if err != nil {
		g.err = err
		g.mu.Unlock()
		logger.Error().Err(err).Msg("Failed to load products")
		return nil, err
	}
	if fetched == nil {
		fetched = []products.Entry{}
	}
	old := g.entries
	g.entries = cloneEntries(fetched)
	g.err = nil
	g.revision++
	g.mu.Unlock()

	logger.Debug().Int("count", len(fetched)).Msg("Loaded products")
	g.hooks.notify(missing(old, fetched)...)
	return fetched, nil
}

// Reset drops the canonical collection, as on logout. The next List
// loads it again.
func (g *Gateway) Reset() {
	g.mu.Lock()
	old := g.entries
	g.entries = nil
	g.err = nil
	g.revision++
	g.mu.Unlock()

	g.hooks.notify(old...)
}

// Create sends a new product to the backend and appends the entry the
// backend returns. Drafts with an image are sent as multipart form data.
func (g *Gateway) Create(ctx context.Context, draft products.Draft) (products.Entry, error) {
	ctx = logging.WithOperation(ctx, "create")
	logger := logging.FromContext(ctx)

	var created products.Entry
	err := g.do(ctx, func() (*http.Response, error) {
		if draft.Image != nil {
			form, err := imageForm(draft.FormValues(), draft.Image)
			if err != nil {
				return nil, err
			}
			return g.client.SendMultipart(ctx, http.MethodPost, constants.ProductsPath, form)
		}
		return g.client.SendJSON(ctx, http.MethodPost, constants.ProductsPath, draft)
	}, &created)
	if err != nil {
		logger.Error().Err(err).Str("name", draft.Name).Msg("Failed to create product")
		return products.Entry{}, err
	}
	if created.ID == 0 {
		err := errors.NewParseError("json", "", "create response carried no product id", nil)
		logger.Error().Err(err).Str("name", draft.Name).Msg("Failed to create product")
		return products.Entry{}, err
	}

	g.mu.Lock()
	i := g.indexOf(created.ID)
	if i >= 0 {
		g.entries[i] = created.Clone()
	} else {
		g.entries = append(g.entries, created.Clone())
	}
	g.revision++
	g.mu.Unlock()

	if i >= 0 {
		logger.Warn().Int("product_id", created.ID).Msg("Created product replaces a local entry with the same id")
	} else {
		logger.Info().Int("product_id", created.ID).Msg("Created product")
	}
	g.hooks.notify()
	return created, nil
}

// Update sends the changed fields of an entry and shallow-merges the
// backend response into the canonical entry. Fields the response omits
// keep their local value. An empty response applies the patch as sent.
func (g *Gateway) Update(ctx context.Context, id int, patch products.Patch) (products.Entry, error) {
	ctx = logging.WithProduct(logging.WithOperation(ctx, "update"), id)
	logger := logging.FromContext(ctx)
	path := productPath(id)

	var fields map[string]json.RawMessage
	err := g.do(ctx, func() (*http.Response, error) {
		if patch.Image != nil {
			form, err := imageForm(patch.FormValues(), patch.Image)
			if err != nil {
				return nil, err
			}
			return g.client.SendMultipart(ctx, http.MethodPut, path, form)
		}
		return g.client.SendJSON(ctx, http.MethodPut, path, patch)
	}, &fields)
	if err != nil {
		logger.Error().Err(err).Strs("fields", patch.Changed()).Msg("Failed to update product")
		return products.Entry{}, err
	}

	g.mu.Lock()
	i := g.indexOf(id)
	base := products.Entry{ID: id}
	if i >= 0 {
		base = g.entries[i].Clone()
	}
	merged := base.Apply(patch)
	if fields != nil {
		merged, err = base.MergeFields(fields)
		if err != nil {
			g.mu.Unlock()
			return products.Entry{}, err
		}
	}
	if i >= 0 {
		g.entries[i] = merged.Clone()
		g.revision++
	}
	g.mu.Unlock()

	if i < 0 {
		logger.Warn().Msg("Updated product is not in the local collection")
		return merged.Clone(), nil
	}
	logger.Info().Strs("fields", patch.Changed()).Msg("Updated product")
	g.hooks.notify()
	return merged.Clone(), nil
}

// Delete removes the entry on the backend and then locally.
func (g *Gateway) Delete(ctx context.Context, id int) error {
	ctx = logging.WithProduct(logging.WithOperation(ctx, "delete"), id)
	logger := logging.FromContext(ctx)

	err := g.do(ctx, func() (*http.Response, error) {
		return g.client.Delete(ctx, productPath(id))
	}, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to delete product")
		return err
	}

	g.mu.Lock()
	var removed products.Entry
	i := g.indexOf(id)
	if i >= 0 {
		removed = g.entries[i]
		g.entries = slices.Delete(g.entries, i, i+1)
		g.revision++
	}
	g.mu.Unlock()

	logger.Info().Msg("Deleted product")
	if i >= 0 {
		g.hooks.notify(removed)
	}
	return nil
}

// Login exchanges credentials for a session token and hands it to the
// token store, if one is configured.
func (g *Gateway) Login(ctx context.Context, username, password string) (string, error) {
	ctx = logging.WithOperation(ctx, "login")
	logger := logging.FromContext(ctx)

	var resp struct {
		Token string `json:"token"`
	}
	err := g.do(ctx, func() (*http.Response, error) {
		return g.client.SendJSON(ctx, http.MethodPost, constants.LoginPath, map[string]string{
			"username": username,
			"password": password,
		})
	}, &resp)
	if err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("Login failed")
		if errors.IsUnauthorized(err) || errors.IsValidationError(err) {
			return "", errors.NewAuthenticationError("password", "invalid credentials", err)
		}
		return "", err
	}
	if resp.Token == "" {
		return "", errors.NewAuthenticationError("password", "backend returned no token", nil)
	}

	if g.tokens != nil {
		if err := g.tokens.Set(ctx, resp.Token); err != nil {
			return "", err
		}
	}
	logger.Info().Str("username", username).Msg("Logged in")
	return resp.Token, nil
}

func (g *Gateway) do(ctx context.Context, send func() (*http.Response, error), target any) error {
	resp, err := send()
	if err != nil {
		return err
	}
	if err := transport.DecodeResponse(resp, target); err != nil {
		if errors.IsUnauthorized(err) {
			logging.FromContext(ctx).Warn().Msg("Session rejected by backend")
		}
		return err
	}
	return nil
}

// indexOf requires g.mu to be held.
func (g *Gateway) indexOf(id int) int {
	return slices.IndexFunc(g.entries, func(e products.Entry) bool { return e.ID == id })
}

func productPath(id int) string {
	return constants.ProductsPath + "/" + strconv.Itoa(id)
}

func imageForm(fields map[string]string, img *products.Image) (*transport.Form, error) {
	r, err := img.Reader()
	if err != nil {
		return nil, err
	}
	return &transport.Form{
		Fields:    fields,
		FileField: "image",
		FileName:  img.Filename,
		FileType:  img.MIMEType,
		File:      r,
	}, nil
}

func cloneEntries(entries []products.Entry) []products.Entry {
	out := make([]products.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
