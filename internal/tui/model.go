// Package tui is the interactive product table. It drives the same
// gateway, view-model and confirmation workflow as the products commands
// from a bubbletea event loop.
package tui

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/agentstation/catalogadmin/internal/cmd/alerts"
	tablefmt "github.com/agentstation/catalogadmin/internal/cmd/table"
	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/gateway"
	"github.com/agentstation/catalogadmin/pkg/listing"
	"github.com/agentstation/catalogadmin/pkg/products"
)

type mode int

const (
	modeLogin mode = iota
	modeTable
	modeSearch
	modeJump
	modeForm
	modeConfirm
)

// Config holds the collaborators of the table.
type Config struct {
	Session  *session.Session
	Gateway  *gateway.Gateway
	Workflow *confirm.Workflow
	PageSize int
	Logger   *zerolog.Logger
}

type (
	loadedMsg struct{ err error }

	loggedInMsg struct {
		username string
		err      error
	}

	appliedMsg struct {
		kind  confirm.Kind
		entry products.Entry
		err   error
	}

	clearAlertMsg struct{ seq int }
)

// Model is the bubbletea model of the product table.
type Model struct {
	ctx      context.Context
	session  *session.Session
	gateway  *gateway.Gateway
	workflow *confirm.Workflow
	view     *listing.View
	logger   *zerolog.Logger

	mode   mode
	width  int
	height int
	keys   keyMap
	help   help.Model

	table   table.Model
	rows    []products.Entry
	changes *changeFeed

	login       loginForm
	search      textinput.Model
	suggestions []string
	jump        textinput.Model
	form        *productForm
	summary     confirm.Summary
	applying    bool

	alert    *alerts.Alert
	alertSeq int
}

// columnWidths follow the wide product table: id, name, category, stock,
// price, image URL.
var columnWidths = []int{5, 30, 18, 7, 10, 28}

// New returns the table model. Without a session it starts at the login
// view.
func New(ctx context.Context, cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	size := cfg.PageSize
	if size <= 0 {
		size = constants.DefaultPageSize
	}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "product name"

	jump := textinput.New()
	jump.Prompt = "Go to page: "
	jump.CharLimit = 6

	m := &Model{
		ctx:      ctx,
		session:  cfg.Session,
		gateway:  cfg.Gateway,
		workflow: cfg.Workflow,
		view:     listing.NewView(cfg.Gateway, size),
		logger:   logger,
		mode:     modeLogin,
		keys:     defaultKeys(),
		help:     help.New(),
		table: table.New(
			table.WithFocused(true),
			table.WithHeight(size),
		),
		changes: &changeFeed{},
		login:   newLoginForm(),
		search:  search,
		jump:    jump,
	}
	cfg.Gateway.OnEntryRemoved(m.changes.removed)
	cfg.Gateway.OnChange(m.changes.changed)
	if cfg.Session.Authenticated() {
		m.mode = modeTable
	}
	m.syncTable()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.mode == modeLogin {
		return m.login.focus()
	}
	return m.load()
}

// load fetches the product list in the background. Progress and failure
// are read back from the gateway.
func (m *Model) load() tea.Cmd {
	gw, ctx := m.gateway, m.ctx
	return func() tea.Msg {
		_, err := gw.List(ctx)
		return loadedMsg{err: err}
	}
}

// apply sends the confirmed action in the background.
func (m *Model) apply() tea.Cmd {
	action, ok := m.workflow.Staged()
	if !ok {
		return nil
	}
	m.applying = true
	wf, ctx, kind := m.workflow, m.ctx, action.Kind()
	return func() tea.Msg {
		entry, err := wf.Confirm(ctx)
		return appliedMsg{kind: kind, entry: entry, err: err}
	}
}

// notify shows a toast and schedules its removal.
func (m *Model) notify(a *alerts.Alert) tea.Cmd {
	if a == nil {
		return nil
	}
	m.alertSeq++
	m.alert = a
	seq := m.alertSeq
	return tea.Tick(constants.AlertDisplayDuration, func(time.Time) tea.Msg {
		return clearAlertMsg{seq: seq}
	})
}

// expire clears the session and returns to the login view.
func (m *Model) expire() tea.Cmd {
	if err := m.session.Clear(m.ctx); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to clear session")
	}
	m.view.CancelEdit()
	m.workflow.Cancel()
	m.discardForm()
	m.mode = modeLogin
	m.login = newLoginForm()
	return m.login.focus()
}

// syncTable copies the current page of the view into the table widget.
func (m *Model) syncTable() {
	m.rows = m.view.Rows()
	data := tablefmt.ProductsToTableData(m.rows, m.view.Priorities(), true)

	cols := make([]table.Column, len(data.Headers))
	for i, h := range data.Headers {
		cols[i] = table.Column{Title: h, Width: columnWidths[i]}
	}
	rows := make([]table.Row, len(data.Rows))
	for i, r := range data.Rows {
		rows[i] = table.Row(r)
	}

	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// selected returns the entry under the cursor.
func (m *Model) selected() (products.Entry, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return products.Entry{}, false
	}
	return m.rows[c], true
}

func (m *Model) discardForm() {
	if m.form != nil {
		m.form.release()
		m.form = nil
	}
}

// changeFeed collects gateway notifications. Hooks run on the goroutine
// of the gateway call; the event loop drains the feed in Update.
type changeFeed struct {
	mu    sync.Mutex
	dirty bool
	gone  []int
}

func (f *changeFeed) removed(e products.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gone = append(f.gone, e.ID)
}

func (f *changeFeed) changed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = true
}

func (f *changeFeed) drain() (gone []int, dirty bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gone, dirty = f.gone, f.dirty
	f.gone, f.dirty = nil, false
	return gone, dirty
}

// applyChanges reacts to collection changes made since the last message.
// The cursor is clamped to the new rows, and the edit form and any staged
// action on a removed row are dropped.
func (m *Model) applyChanges() tea.Cmd {
	gone, dirty := m.changes.drain()
	if !dirty || m.mode == modeLogin {
		return nil
	}
	m.syncTable()
	if len(gone) == 0 {
		return nil
	}

	dropped := false
	if edit, ok := m.view.Editing(); ok && slices.Contains(gone, edit.ID) {
		m.view.CancelEdit()
		dropped = true
	}
	if m.mode == modeForm && m.form != nil && m.form.kind == confirm.KindEdit && slices.Contains(gone, m.form.id) {
		m.discardForm()
		m.mode = modeTable
		dropped = true
	}
	if action, ok := m.workflow.Staged(); ok && !m.applying && action.Kind() != confirm.KindAdd && slices.Contains(gone, action.Target()) {
		m.workflow.Cancel()
		if m.mode == modeConfirm {
			m.mode = modeTable
		}
		dropped = true
	}
	if !dropped {
		return nil
	}
	return m.notify(alerts.NewWarning("The selected product was removed"))
}
