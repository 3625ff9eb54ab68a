package listing

import (
	"strings"

	"github.com/agentstation/catalogadmin/pkg/products"
)

// FilterMode selects how a Filter narrows the collection.
type FilterMode int

const (
	// FilterNone keeps every entry.
	FilterNone FilterMode = iota
	// FilterSearch keeps entries whose name contains the query.
	FilterSearch
	// FilterCategory keeps entries whose category equals the query.
	FilterCategory
)

// String returns the mode name.
func (m FilterMode) String() string {
	switch m {
	case FilterSearch:
		return "search"
	case FilterCategory:
		return "category"
	default:
		return "none"
	}
}

// Filter narrows the canonical collection. Search and category filtering
// are mutually exclusive; the zero value keeps everything.
type Filter struct {
	Mode  FilterMode
	Query string
}

// Search returns a case-insensitive name substring filter.
func Search(query string) Filter {
	return Filter{Mode: FilterSearch, Query: query}
}

// ByCategory returns an exact category filter.
func ByCategory(category string) Filter {
	return Filter{Mode: FilterCategory, Query: category}
}

// Active reports whether the filter narrows anything.
func (f Filter) Active() bool {
	return f.Mode != FilterNone
}

// String describes the filter for status lines.
func (f Filter) String() string {
	switch f.Mode {
	case FilterSearch:
		return `search: "` + f.Query + `"`
	case FilterCategory:
		return "category: " + f.Query
	default:
		return "all products"
	}
}

// Match reports whether e passes the filter.
func (f Filter) Match(e products.Entry) bool {
	switch f.Mode {
	case FilterSearch:
		return containsFolded(e.Name, f.Query)
	case FilterCategory:
		return e.Category == f.Query
	default:
		return true
	}
}

// Apply returns the entries that pass the filter, preserving order.
func (f Filter) Apply(entries []products.Entry) []products.Entry {
	out := make([]products.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Suggest returns the names containing query, case-insensitively, in
// collection order without duplicates. A blank query suggests nothing.
func Suggest(entries []products.Entry, query string) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if !containsFolded(e.Name, query) {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e.Name)
	}
	return out
}

func containsFolded(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}
