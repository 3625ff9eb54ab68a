package listing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// Source is the canonical collection a View derives from. Revision must
// change whenever the collection changes.
type Source interface {
	Entries() []products.Entry
	Revision() uint64
}

// EditState is the unsaved edit of the one row in edit mode.
type EditState struct {
	ID       int
	Original products.Entry
	Changes  products.Patch
	Errors   products.Violations
}

// View is the table view-model. It never stores entries of its own: every
// read filters, sorts and paginates the source, and the result is memoized
// until the source revision, the filter or the sort order changes.
// A View is meant to be driven from a single goroutine.
type View struct {
	source   Source
	filter   Filter
	priority Priorities
	pager    *Pager
	editing  *EditState

	cache struct {
		valid    bool
		revision uint64
		filter   Filter
		priority string
		entries  []products.Entry
	}
}

// NewView returns a view over source with the given page size.
func NewView(source Source, pageSize int) *View {
	return &View{source: source, pager: NewPager(pageSize)}
}

// ApplySearch narrows the view to names containing query. A blank query is
// ignored. Applying a filter always returns to page 1.
func (v *View) ApplySearch(query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	v.setFilter(Search(query))
	return true
}

// ApplyCategory narrows the view to one category.
func (v *View) ApplyCategory(category string) {
	v.setFilter(ByCategory(category))
}

// Reset clears the filter and returns to page 1.
func (v *View) Reset() {
	v.setFilter(Filter{})
}

func (v *View) setFilter(f Filter) {
	v.filter = f
	v.pager.Reset()
}

// Filter returns the active filter.
func (v *View) Filter() Filter {
	return v.filter
}

// Click applies a column header click to the sort priorities.
func (v *View) Click(c Column) {
	v.priority = v.priority.Click(c)
}

// SetPriorities replaces the sort priorities.
func (v *View) SetPriorities(p Priorities) {
	v.priority = slices.Clone(p)
}

// Priorities returns the current sort priorities.
func (v *View) Priorities() Priorities {
	return slices.Clone(v.priority)
}

// Entries returns the filtered and sorted entries across all pages.
func (v *View) Entries() []products.Entry {
	rev := v.source.Revision()
	key := v.priority.String()
	if v.cache.valid && v.cache.revision == rev && v.cache.filter == v.filter && v.cache.priority == key {
		return v.cache.entries
	}
	entries := Sort(v.filter.Apply(v.source.Entries()), v.priority)
	v.cache.valid = true
	v.cache.revision = rev
	v.cache.filter = v.filter
	v.cache.priority = key
	v.cache.entries = entries
	return entries
}

// Rows returns the entries of the current page.
func (v *View) Rows() []products.Entry {
	return v.pager.Slice(v.Entries())
}

// Len returns the number of entries passing the filter.
func (v *View) Len() int {
	return len(v.Entries())
}

// Page returns the current page number.
func (v *View) Page() int {
	return v.pager.Current(v.Len())
}

// PageSize returns the number of rows per page.
func (v *View) PageSize() int {
	return v.pager.Size()
}

// TotalPages returns the number of pages of the filtered view.
func (v *View) TotalPages() int {
	return TotalPages(v.Len(), v.pager.Size())
}

// GoTo moves to page; out of range requests are ignored.
func (v *View) GoTo(page int) bool {
	return v.pager.GoTo(page, v.Len())
}

// Next moves to the next page if there is one.
func (v *View) Next() bool {
	return v.pager.Next(v.Len())
}

// Prev moves to the previous page if there is one.
func (v *View) Prev() bool {
	return v.pager.Prev(v.Len())
}

// Jump moves to page through a gap marker of the page strip.
func (v *View) Jump(g Gap, page, radius int) bool {
	return v.pager.Jump(g, page, v.Len(), radius)
}

// Window returns the page strip around the current page.
func (v *View) Window(radius int) []PageLink {
	return v.pager.Window(v.Len(), radius)
}

// Categories returns the categories of the canonical collection.
func (v *View) Categories() []string {
	return products.Categories(v.source.Entries())
}

// Suggestions returns search-bar suggestions for query.
func (v *View) Suggestions(query string) []string {
	return Suggest(v.source.Entries(), query)
}

// BeginEdit puts the row with id in edit mode. Unsaved changes and errors
// of the row previously in edit mode are discarded.
func (v *View) BeginEdit(id int) error {
	entry, ok := v.lookup(id)
	if !ok {
		return errors.NewNotFoundError("product", fmt.Sprint(id))
	}
	v.CancelEdit()
	v.editing = &EditState{ID: id, Original: entry}
	return nil
}

// CancelEdit leaves edit mode, discarding unsaved changes.
func (v *View) CancelEdit() {
	if v.editing == nil {
		return
	}
	_ = v.editing.Changes.Image.Release()
	v.editing = nil
}

// Editing returns the edit in progress, if any.
func (v *View) Editing() (EditState, bool) {
	if v.editing == nil {
		return EditState{}, false
	}
	return *v.editing, true
}

// SetField records a form value for the row in edit mode. Empty numeric
// values clear the field to unknown.
func (v *View) SetField(field, value string) error {
	if v.editing == nil {
		return errors.NewValidationError(field, value, "no row is being edited")
	}
	p := &v.editing.Changes
	switch field {
	case "name":
		p.Name = &value
	case "category":
		p.Category = &value
	case "imageUrl":
		p.ImageURL = &value
	case "stock":
		n, err := products.ParseStock(strings.TrimSpace(value))
		if err != nil {
			return errors.NewValidationError(field, value, "stock must be a whole number")
		}
		p.Stock = n
	case "price":
		n, err := products.ParsePrice(strings.TrimSpace(value))
		if err != nil {
			return errors.NewValidationError(field, value, "price must be a number")
		}
		p.Price = n
	default:
		return errors.NewValidationError(field, value, fmt.Sprintf("unknown field %q", field))
	}
	return nil
}

// AttachImage sets the image of the row in edit mode, releasing any image
// attached before.
func (v *View) AttachImage(img *products.Image) error {
	if v.editing == nil {
		return errors.NewValidationError("image", img.Filename, "no row is being edited")
	}
	if prev := v.editing.Changes.Image; prev != nil && prev != img {
		_ = prev.Release()
	}
	v.editing.Changes.Image = img
	return nil
}

// SubmitEdit validates the row in edit mode. On success edit mode ends and
// the original entry with its changes is returned for confirmation; the
// attached image, if any, passes to the caller. On failure the violations
// are kept on the edit state and returned.
func (v *View) SubmitEdit() (products.Entry, products.Patch, error) {
	if v.editing == nil {
		return products.Entry{}, products.Patch{}, errors.NewValidationError("", nil, "no row is being edited")
	}
	v.editing.Errors = nil
	changes := v.editing.Changes
	if changes.Empty() {
		return products.Entry{}, products.Patch{}, errors.NewValidationError("", nil, "nothing changed")
	}
	if err := products.ValidatePatch(changes); err != nil {
		var violations products.Violations
		if errors.As(err, &violations) {
			v.editing.Errors = violations
		}
		return products.Entry{}, products.Patch{}, err
	}
	original := v.editing.Original
	v.editing = nil
	return original, changes, nil
}

func (v *View) lookup(id int) (products.Entry, bool) {
	for _, e := range v.source.Entries() {
		if e.ID == id {
			return e, true
		}
	}
	return products.Entry{}, false
}
