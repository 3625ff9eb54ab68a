// Package listing derives the product table from the canonical collection:
// it filters, sorts and paginates entries and tracks the table's edit state.
package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// Column identifies a sortable column of the product table.
type Column string

// Sortable columns.
const (
	ColumnID       Column = "id"
	ColumnName     Column = "name"
	ColumnCategory Column = "category"
	ColumnStock    Column = "stock"
	ColumnPrice    Column = "price"
)

// Columns lists the sortable columns in table order.
var Columns = []Column{ColumnName, ColumnCategory, ColumnStock, ColumnPrice, ColumnID}

// ParseColumn converts a column name to a Column.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Columns, c) {
		return c, nil
	}
	return "", errors.NewValidationError("column", s, fmt.Sprintf("unknown column %q", s))
}

// Direction is the sort order of one column.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Arrow returns the header glyph for the direction. Ascending points down
// and descending points up, matching how the column reads top to bottom.
func (d Direction) Arrow() string {
	if d == Desc {
		return "↑"
	}
	return "↓"
}

// SortItem is one column of the sort priority list.
type SortItem struct {
	Column    Column    `json:"column" yaml:"column"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Priorities is the ordered sort key list. The first item is the primary
// key. Each column appears at most once.
type Priorities []SortItem

// ParsePriorities parses "name:asc,category:desc". A missing direction
// means ascending.
func ParsePriorities(s string) (Priorities, error) {
	var out Priorities
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		name, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		col, err := ParseColumn(name)
		if err != nil {
			return nil, err
		}
		if slices.ContainsFunc(out, func(it SortItem) bool { return it.Column == col }) {
			return nil, errors.NewValidationError("sort", s, fmt.Sprintf("column %q listed twice", col))
		}
		d := Asc
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			d = Desc
		default:
			return nil, errors.NewValidationError("sort", s, fmt.Sprintf("unknown direction %q", dir))
		}
		out = append(out, SortItem{Column: col, Direction: d})
	}
	return out, nil
}

// String formats the priorities in the form ParsePriorities accepts.
func (p Priorities) String() string {
	parts := make([]string, len(p))
	for i, it := range p {
		parts[i] = string(it.Column) + ":" + string(it.Direction)
	}
	return strings.Join(parts, ",")
}

// Click applies a header click. The primary column flips direction in
// place. Any other column moves to the front keeping the direction it had
// further down the list, or ascending if it was not listed.
func (p Priorities) Click(c Column) Priorities {
	if len(p) > 0 && p[0].Column == c {
		out := slices.Clone(p)
		out[0].Direction = out[0].Direction.Flip()
		return out
	}

	item := SortItem{Column: c, Direction: Asc}
	out := make(Priorities, 0, len(p)+1)
	out = append(out, item)
	for _, it := range p {
		if it.Column == c {
			out[0].Direction = it.Direction
			continue
		}
		out = append(out, it)
	}
	return out
}

// Indicator describes how a column header shows its sort state.
type Indicator struct {
	Arrow   string
	Primary bool
}

// Indicator returns the header indicator for c and whether c is sorted at all.
func (p Priorities) Indicator(c Column) (Indicator, bool) {
	for i, it := range p {
		if it.Column == c {
			return Indicator{Arrow: it.Direction.Arrow(), Primary: i == 0}, true
		}
	}
	return Indicator{}, false
}

// fold builds a fresh Caser per call; Casers are stateful.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Sort returns a stably sorted copy of entries ordered by p.
func Sort(entries []products.Entry, p Priorities) []products.Entry {
	out := slices.Clone(entries)
	if len(p) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b products.Entry) int {
		for _, it := range p {
			c := compareColumn(a, b, it.Column)
			if c == 0 {
				continue
			}
			if it.Direction == Desc {
				return -c
			}
			return c
		}
		return 0
	})
	return out
}

func compareColumn(a, b products.Entry, c Column) int {
	switch c {
	case ColumnName:
		return compareFolded(a.Name, b.Name)
	case ColumnCategory:
		return compareFolded(a.Category, b.Category)
	case ColumnStock:
		return compareOptional(a.Stock, b.Stock)
	case ColumnPrice:
		return compareOptional(a.Price, b.Price)
	case ColumnID:
		return cmp.Compare(a.ID, b.ID)
	}
	return 0
}

func compareFolded(a, b string) int {
	return strings.Compare(fold(a), fold(b))
}

// unknown values order before known ones
func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}
