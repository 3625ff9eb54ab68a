package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/catalogadmin/internal/cmd/alerts"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/listing"
)

// maxSuggestions caps the suggestion line under the search bar.
const maxSuggestions = 5

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	if changed := m.applyChanges(); changed != nil {
		cmd = tea.Batch(cmd, changed)
	}
	if m.mode != modeLogin {
		m.syncTable()
	}
	return model, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height-12))
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("Failed to load products")
			if errors.IsUnauthorized(msg.err) {
				return m, tea.Batch(m.expire(), m.notify(alerts.FromError(msg.err)))
			}
		}
		return m, nil

	case loggedInMsg:
		return m.loggedIn(msg)

	case appliedMsg:
		m.applying = false
		m.mode = modeTable
		cmd := m.notify(alerts.ForOutcome(msg.kind, msg.entry, msg.err))
		if errors.IsUnauthorized(msg.err) {
			return m, tea.Batch(m.expire(), cmd)
		}
		return m, cmd

	case clearAlertMsg:
		if msg.seq == m.alertSeq {
			m.alert = nil
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeJump:
			return m.updateJump(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m *Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	case key.Matches(msg, m.keys.Logout):
		return m, tea.Batch(m.expire(), m.notify(alerts.NewInfo("Logged out")))
	}

	if m.gateway.Loading() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.view.Next()
	case key.Matches(msg, m.keys.Prev):
		m.view.Prev()
	case key.Matches(msg, m.keys.Jump):
		if m.view.TotalPages() > 1 {
			m.mode = modeJump
			m.jump.SetValue("")
			return m, m.jump.Focus()
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue("")
		m.suggestions = nil
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Category):
		m.cycleCategory()
	case key.Matches(msg, m.keys.Reset):
		m.view.Reset()
	case key.Matches(msg, m.keys.Sort):
		i, _ := strconv.Atoi(msg.String())
		m.view.Click(listing.Columns[i-1])
	case key.Matches(msg, m.keys.Add):
		m.form = newAddForm()
		m.mode = modeForm
		return m, m.form.inputs[0].Focus()
	case key.Matches(msg, m.keys.Edit):
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.view.BeginEdit(e.ID); err != nil {
			return m, m.notify(alerts.FromError(err))
		}
		m.form = newEditForm(e)
		m.mode = modeForm
		return m, m.form.inputs[0].Focus()
	case key.Matches(msg, m.keys.Delete):
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.stage(confirm.Delete{Original: e})
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// cycleCategory steps the category filter through every category and
// back to all products.
func (m *Model) cycleCategory() {
	cats := m.view.Categories()
	if len(cats) == 0 {
		return
	}
	f := m.view.Filter()
	if f.Mode != listing.FilterCategory {
		m.view.ApplyCategory(cats[0])
		return
	}
	for i, c := range cats {
		if c == f.Query && i+1 < len(cats) {
			m.view.ApplyCategory(cats[i+1])
			return
		}
	}
	m.view.Reset()
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Blur()
		m.mode = modeTable
		return m, nil
	case "enter":
		m.view.ApplySearch(m.search.Value())
		m.search.Blur()
		m.mode = modeTable
		return m, nil
	case "tab":
		if len(m.suggestions) > 0 {
			m.search.SetValue(m.suggestions[0])
			m.search.CursorEnd()
		}
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refreshSuggestions()
		return m, cmd
	}
	m.refreshSuggestions()
	return m, nil
}

func (m *Model) refreshSuggestions() {
	m.suggestions = m.view.Suggestions(m.search.Value())
	if len(m.suggestions) > maxSuggestions {
		m.suggestions = m.suggestions[:maxSuggestions]
	}
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.jump.Blur()
		m.mode = modeTable
		return m, nil
	case "enter":
		m.jump.Blur()
		m.mode = modeTable
		page, err := strconv.Atoi(strings.TrimSpace(m.jump.Value()))
		if err != nil || !m.goTo(page) {
			return m, m.notify(alerts.NewWarning(fmt.Sprintf("No page %q", m.jump.Value())))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

// goTo moves to page through the gap of the page strip hiding it, or
// directly when the page is already visible.
func (m *Model) goTo(page int) bool {
	for _, l := range m.view.Window(constants.PaginationRadius) {
		if l.Gap != listing.NoGap && m.view.Jump(l.Gap, page, constants.PaginationRadius) {
			return true
		}
	}
	return m.view.GoTo(page)
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.applying {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y", "enter":
		return m, m.apply()
	case "n", "N", "esc", "q":
		m.workflow.Cancel()
		m.mode = modeTable
		return m, m.notify(alerts.NewInfo("Cancelled, nothing was changed"))
	}
	return m, nil
}
