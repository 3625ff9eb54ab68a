package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogadmin/internal/cmd/alerts"
	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/internal/transport"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/gateway"
	"github.com/agentstation/catalogadmin/pkg/listing"
	"github.com/agentstation/catalogadmin/pkg/products"
)

const catalogJSON = `[
	{"id":1,"category":"Dogs","name":"Chew Toy","imageUrl":"","stock":5,"price":4.5},
	{"id":2,"category":"Cats","name":"Cat Toy","imageUrl":"","stock":2,"price":3},
	{"id":3,"category":"Dogs","name":"Leash","imageUrl":"","stock":null,"price":12}
]`

type backend struct {
	mu       sync.Mutex
	listCode int
	listBody string
	calls    []string
}

func (b *backend) serve(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listBody = body
}

func (b *backend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

func newTestModel(t *testing.T, token string, pageSize int) (*backend, *Model) {
	t.Helper()
	b := &backend{listCode: http.StatusOK, listBody: catalogJSON}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		listCode, listBody := b.listCode, b.listBody
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "POST /api/auth/login":
			var body struct{ Username, Password string }
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Username != "admin" || body.Password != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"token":"opaque-token"}`))
		case "GET /api/products":
			w.WriteHeader(listCode)
			if listCode == http.StatusOK {
				_, _ = w.Write([]byte(listBody))
			}
		case "PUT /api/products/1":
			_, _ = w.Write([]byte(`{"id":1,"price":5.25}`))
		case "DELETE /api/products/2":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	sess := session.New(nil)
	if token != "" {
		require.NoError(t, sess.Set(context.Background(), token))
	}
	gw, err := gateway.New(transport.New(srv.URL, transport.WithTokenSource(sess)), gateway.WithTokenStore(sess))
	require.NoError(t, err)

	m := New(context.Background(), Config{
		Session:  sess,
		Gateway:  gw,
		Workflow: confirm.New(gw),
		PageSize: pageSize,
	})
	return b, m
}

// loaded returns a model with the catalog already fetched.
func loaded(t *testing.T, pageSize int) (*backend, *Model) {
	t.Helper()
	b, m := newTestModel(t, "tok", pageSize)
	m.Update(m.Init()())
	require.False(t, m.gateway.Loading())
	require.NoError(t, m.gateway.Err())
	return b, m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends keys in order and returns the command of the last one.
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func TestLoginFlow(t *testing.T) {
	_, m := newTestModel(t, "", 10)
	require.Equal(t, modeLogin, m.mode)
	assert.Contains(t, m.View(), "Username")

	press(m, "admin", "enter", "wrong")
	m.Update(press(m, "enter")())
	assert.Equal(t, modeLogin, m.mode)
	assert.Contains(t, m.View(), "Invalid username or password")

	cmd := press(m, "s3cret", "enter")
	require.NotNil(t, cmd)
	_, load := m.Update(cmd())
	assert.Equal(t, modeTable, m.mode)
	assert.True(t, m.session.Authenticated())

	m.Update(load())
	assert.Contains(t, m.View(), "Chew Toy")
}

func TestLoginRequiresBothFields(t *testing.T) {
	_, m := newTestModel(t, "", 10)

	cmd := press(m, "admin", "enter", "enter")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Enter a username and password")
}

func TestLoadFailure(t *testing.T) {
	b, m := newTestModel(t, "tok", 10)
	b.listCode = http.StatusInternalServerError

	m.Update(m.Init()())
	assert.Contains(t, m.View(), "failed to load products")
	assert.Equal(t, modeTable, m.mode)
}

func TestLoadUnauthorizedReturnsToLogin(t *testing.T) {
	b, m := newTestModel(t, "tok", 10)
	b.listCode = http.StatusUnauthorized

	m.Update(m.Init()())
	assert.Equal(t, modeLogin, m.mode)
	assert.False(t, m.session.Authenticated())
	require.NotNil(t, m.alert)
	assert.Equal(t, "Session expired or invalid", m.alert.Message)
}

func TestSearchAndReset(t *testing.T) {
	_, m := loaded(t, 10)

	press(m, "/", "toy")
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, []string{"Chew Toy", "Cat Toy"}, m.suggestions)

	press(m, "enter")
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, listing.Search("toy"), m.view.Filter())
	assert.Len(t, m.rows, 2)
	assert.Contains(t, m.View(), `search: "toy"`)

	press(m, "r")
	assert.False(t, m.view.Filter().Active())
	assert.Len(t, m.rows, 3)
}

func TestSearchTabCompletes(t *testing.T) {
	_, m := loaded(t, 10)

	press(m, "/", "lea", "tab", "enter")
	assert.Equal(t, listing.Search("Leash"), m.view.Filter())
}

func TestCategoryCycling(t *testing.T) {
	_, m := loaded(t, 10)

	press(m, "c")
	assert.Equal(t, listing.ByCategory("Dogs"), m.view.Filter())
	press(m, "c")
	assert.Equal(t, listing.ByCategory("Cats"), m.view.Filter())
	press(m, "c")
	assert.False(t, m.view.Filter().Active())
}

func TestSortKeys(t *testing.T) {
	_, m := loaded(t, 10)

	press(m, "4")
	require.Len(t, m.rows, 3)
	assert.Equal(t, "Cat Toy", m.rows[0].Name)

	press(m, "4")
	assert.Equal(t, "Leash", m.rows[0].Name)
	assert.Contains(t, m.View(), "Price")
}

func TestPaging(t *testing.T) {
	_, m := loaded(t, 1)
	assert.Contains(t, m.View(), "Page 1 of 3")

	press(m, "l")
	assert.Equal(t, 2, m.view.Page())
	press(m, "h")
	assert.Equal(t, 1, m.view.Page())

	press(m, "g", "3", "enter")
	assert.Equal(t, 3, m.view.Page())
	assert.Equal(t, "Leash", m.rows[0].Name)

	press(m, "g", "9", "enter")
	assert.Equal(t, 3, m.view.Page())
	require.NotNil(t, m.alert)
	assert.Equal(t, alerts.LevelWarning, m.alert.Level)
}

func TestDelete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		b, m := loaded(t, 10)

		press(m, "down", "d")
		require.Equal(t, modeConfirm, m.mode)
		assert.Contains(t, m.View(), "Delete product")
		assert.Contains(t, m.View(), "Cat Toy")

		cmd := press(m, "y")
		require.NotNil(t, cmd)
		m.Update(cmd())
		assert.True(t, b.called("DELETE /api/products/2"))
		assert.Equal(t, modeTable, m.mode)
		assert.Equal(t, `Deleted "Cat Toy"`, m.alert.Message)
		assert.Len(t, m.rows, 2)
	})

	t.Run("cancelled", func(t *testing.T) {
		b, m := loaded(t, 10)

		press(m, "down", "d", "n")
		assert.False(t, b.called("DELETE /api/products/2"))
		assert.Equal(t, confirm.Idle, m.workflow.State())
		assert.Equal(t, modeTable, m.mode)
		assert.Len(t, m.rows, 3)
	})
}

func TestEdit(t *testing.T) {
	b, m := loaded(t, 10)

	press(m, "e")
	require.Equal(t, modeForm, m.mode)
	_, editing := m.view.Editing()
	assert.True(t, editing)

	m.form.inputs[3].SetValue("5.25")
	press(m, "ctrl+s")
	require.Equal(t, modeConfirm, m.mode)
	var changed []string
	for _, c := range m.summary.Changes {
		if c.Changed() {
			changed = append(changed, c.Field)
		}
	}
	assert.Equal(t, []string{"Price"}, changed)

	m.Update(press(m, "y")())
	assert.True(t, b.called("PUT /api/products/1"))
	assert.Equal(t, `Saved changes to "Chew Toy"`, m.alert.Message)

	got, _ := m.gateway.Get(1)
	assert.Equal(t, products.FloatPtr(5.25), got.Price)
}

func TestEditNothingChanged(t *testing.T) {
	_, m := loaded(t, 10)

	press(m, "e", "ctrl+s")
	assert.Equal(t, modeForm, m.mode)
	require.NotNil(t, m.alert)
	assert.Equal(t, "Nothing changed", m.alert.Message)

	press(m, "esc")
	assert.Equal(t, modeTable, m.mode)
	_, editing := m.view.Editing()
	assert.False(t, editing)
}

func TestAddViolations(t *testing.T) {
	b, m := loaded(t, 10)

	press(m, "a")
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "0", m.form.value("stock"))
	assert.Equal(t, "0", m.form.value("price"))

	m.form.inputs[3].SetValue("-1")
	press(m, "ctrl+s")
	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.form.errors, "name")
	assert.Contains(t, m.form.errors, "price")
	assert.Contains(t, m.View(), "name cannot be empty")
	assert.False(t, b.called("POST /api/products"))
}

func TestLogout(t *testing.T) {
	_, m := loaded(t, 10)

	press(m, "L")
	assert.Equal(t, modeLogin, m.mode)
	assert.False(t, m.session.Authenticated())
}

func TestAlertExpires(t *testing.T) {
	_, m := loaded(t, 10)

	m.notify(alerts.NewInfo("first"))
	stale := m.alertSeq
	m.notify(alerts.NewInfo("second"))

	m.Update(clearAlertMsg{seq: stale})
	require.NotNil(t, m.alert)
	assert.Equal(t, "second", m.alert.Message)

	m.Update(clearAlertMsg{seq: m.alertSeq})
	assert.Nil(t, m.alert)
}

func TestLoadingBeforeFirstList(t *testing.T) {
	_, m := newTestModel(t, "tok", 10)
	assert.Contains(t, m.View(), "Loading products…")

	m.Update(m.Init()())
	assert.NotContains(t, m.View(), "Loading products…")
	assert.Contains(t, m.View(), "Chew Toy")
}

// refresh completes a list call outside the key handlers, as a reload
// started before the current dialog would.
func refresh(t *testing.T, b *backend, m *Model, body string) {
	t.Helper()
	b.serve(body)
	_, err := m.gateway.List(context.Background())
	require.NoError(t, err)
	m.Update(loadedMsg{})
}

func TestRemovedRowLeavesEditForm(t *testing.T) {
	b, m := loaded(t, 10)

	press(m, "e")
	require.Equal(t, modeForm, m.mode)

	refresh(t, b, m, `[{"id":2,"category":"Cats","name":"Cat Toy","imageUrl":"","stock":2,"price":3}]`)
	assert.Equal(t, modeTable, m.mode)
	assert.Nil(t, m.form)
	_, editing := m.view.Editing()
	assert.False(t, editing)
	require.NotNil(t, m.alert)
	assert.Equal(t, alerts.LevelWarning, m.alert.Level)
}

func TestRemovedRowCancelsStagedDelete(t *testing.T) {
	b, m := loaded(t, 10)

	press(m, "down", "d")
	require.Equal(t, modeConfirm, m.mode)

	refresh(t, b, m, `[{"id":1,"category":"Dogs","name":"Chew Toy","imageUrl":"","stock":5,"price":4.5}]`)
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, confirm.Idle, m.workflow.State())
	assert.False(t, b.called("DELETE /api/products/2"))
}

func TestRefreshClampsCursor(t *testing.T) {
	b, m := loaded(t, 10)

	press(m, "down", "down")
	require.Equal(t, 2, m.table.Cursor())

	refresh(t, b, m, `[{"id":1,"category":"Dogs","name":"Chew Toy","imageUrl":"","stock":5,"price":4.5}]`)
	assert.Equal(t, 0, m.table.Cursor())
	assert.Nil(t, m.alert)
	assert.Equal(t, modeTable, m.mode)
}
