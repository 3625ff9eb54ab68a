// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/catalogadmin/internal/cmd/emoji"
	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/pkg/listing"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	Footer          []string
	ColumnAlignment []Align // Optional: column alignment
}

// productColumns are the sortable columns in display order.
var productColumns = []struct {
	column listing.Column
	title  string
	align  Align
}{
	{listing.ColumnName, "Name", AlignLeft},
	{listing.ColumnCategory, "Category", AlignLeft},
	{listing.ColumnStock, "Stock", AlignRight},
	{listing.ColumnPrice, "Price", AlignRight},
}

// ProductsToTableData converts entries to table format. Sorted column
// headers carry their direction arrow; the primary key is marked with an
// asterisk. Wide output adds the id and image URL columns.
func ProductsToTableData(entries []products.Entry, sort listing.Priorities, wide bool) Data {
	var headers []string
	var align []Align
	if wide {
		headers = append(headers, SortHeader("ID", listing.ColumnID, sort))
		align = append(align, AlignRight)
	}
	for _, c := range productColumns {
		headers = append(headers, SortHeader(c.title, c.column, sort))
		align = append(align, c.align)
	}
	if wide {
		headers = append(headers, "Image URL")
		align = append(align, AlignLeft)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		var row []string
		if wide {
			row = append(row, strconv.Itoa(e.ID))
		}
		row = append(row,
			products.FormatText(e.Name),
			products.FormatText(e.Category),
			products.FormatStock(e.Stock),
			products.FormatPrice(e.Price),
		)
		if wide {
			row = append(row, products.FormatText(e.ImageURL))
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: align,
	}
}

// SortHeader decorates a column title with its sort indicator.
func SortHeader(title string, c listing.Column, sort listing.Priorities) string {
	ind, ok := sort.Indicator(c)
	if !ok {
		return title
	}
	if ind.Primary {
		return title + " " + ind.Arrow + "*"
	}
	return title + " " + ind.Arrow
}

// PageFooter describes the page shown out of the filtered total.
func PageFooter(page, totalPages, count int) []string {
	if totalPages == 0 {
		return []string{"No products"}
	}
	noun := "products"
	if count == 1 {
		noun = "product"
	}
	return []string{fmt.Sprintf("Page %d of %d", page, totalPages), fmt.Sprintf("%d %s", count, noun)}
}

// PageStrip renders the page strip, marking the current page with
// brackets and gaps with an ellipsis: "1 … 4 [5] 6 … 10".
func PageStrip(links []listing.PageLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Gap != listing.NoGap:
			parts = append(parts, emoji.Ellipsis)
		case l.Current:
			parts = append(parts, fmt.Sprintf("[%d]", l.Page))
		default:
			parts = append(parts, strconv.Itoa(l.Page))
		}
	}
	return strings.Join(parts, " ")
}

// CategoriesToTableData converts category counts to table format.
func CategoriesToTableData(counts []products.CategoryCount) Data {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Category, strconv.Itoa(c.Count)})
	}
	return Data{
		Headers:         []string{"Category", "Products"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// SessionToTableData converts a session status to a key-value table.
func SessionToTableData(store string, status *session.Status) Data {
	state, icon := getStatusDisplay(status.State)
	rows := [][]string{
		{"Status", icon + " " + state},
		{"Summary", status.Summary},
		{"Store", store},
	}
	if c := status.Claims; c != nil {
		if c.Subject != "" {
			rows = append(rows, []string{"Subject", c.Subject})
		}
		if c.Issuer != "" {
			rows = append(rows, []string{"Issuer", c.Issuer})
		}
		if !c.IssuedAt.IsZero() {
			rows = append(rows, []string{"Issued", c.IssuedAt.Format("2006-01-02 15:04:05 MST")})
		}
		if !c.ExpiresAt.IsZero() {
			rows = append(rows, []string{"Expires", c.ExpiresAt.Format("2006-01-02 15:04:05 MST")})
		}
	}
	return Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

func getStatusDisplay(state session.State) (string, string) {
	switch state {
	case session.StateActive:
		return "Active", "✅"
	case session.StateExpired:
		return "Expired", "⚠️"
	default:
		return "Logged out", "❌"
	}
}
