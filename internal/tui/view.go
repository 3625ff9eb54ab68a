package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	tablefmt "github.com/agentstation/catalogadmin/internal/cmd/table"
	"github.com/agentstation/catalogadmin/pkg/constants"
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.mode {
	case modeLogin:
		body = m.loginView()
	case modeForm:
		body = m.formView()
	case modeConfirm:
		body = m.confirmView()
	default:
		body = m.tableView()
	}

	parts := []string{body}
	if m.alert != nil {
		parts = append(parts, "", m.alertView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) tableView() string {
	header := titleStyle.Render("Products") + "  " + dimStyle.Render(m.view.Filter().String())

	var body string
	switch {
	case m.gateway.Len() == 0 && m.gateway.Err() == nil && (m.gateway.Loading() || m.gateway.Revision() == 0):
		body = statusStyle.Render("Loading products…")
	case m.gateway.Err() != nil:
		body = errorStyle.Render("failed to load products") + "\n" + dimStyle.Render("ctrl+r to retry")
	case len(m.rows) == 0:
		body = dimStyle.Render("No products")
	default:
		body = m.table.View()
	}

	lines := []string{header, "", body, "", m.footerView()}
	switch m.mode {
	case modeSearch:
		lines = append(lines, m.search.View())
		if len(m.suggestions) > 0 {
			lines = append(lines, dimStyle.Render(strings.Join(m.suggestions, " · ")))
		}
	case modeJump:
		lines = append(lines, m.jump.View())
	default:
		lines = append(lines, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) footerView() string {
	footer := strings.Join(tablefmt.PageFooter(m.view.Page(), m.view.TotalPages(), m.view.Len()), " · ")
	if m.view.TotalPages() > 1 {
		footer += "   " + tablefmt.PageStrip(m.view.Window(constants.PaginationRadius))
	}
	if m.gateway.Loading() {
		footer += "   " + statusStyle.Render("refreshing…")
	}
	return dimStyle.Render(footer)
}

func (m *Model) confirmView() string {
	s := m.summary
	lines := []string{titleStyle.Render(s.Title), s.Question}
	if len(s.Changes) > 0 {
		lines = append(lines, "")
		for _, c := range s.Changes {
			line := labelStyle.Render(c.Field) + c.Before + " → " + c.After
			if c.Changed() {
				line = changedStyle.Render(c.Field) + c.Before + " → " + c.After
			}
			lines = append(lines, line)
		}
	}
	if len(s.Details) > 0 {
		lines = append(lines, "")
		lines = append(lines, s.Details...)
	}
	lines = append(lines, "")
	if m.applying {
		lines = append(lines, statusStyle.Render("Saving…"))
	} else {
		lines = append(lines, dimStyle.Render("y to confirm · n to cancel"))
	}
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) alertView() string {
	a := m.alert
	lines := []string{a.Level.Style().Render(a.Level.Icon() + " " + a.Message)}
	for _, d := range a.Details {
		lines = append(lines, "   "+d)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
