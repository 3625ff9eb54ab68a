package listing_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/listing"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// memSource is a canonical collection held in memory.
type memSource struct {
	entries  []products.Entry
	revision uint64
}

func (s *memSource) Entries() []products.Entry { return slices.Clone(s.entries) }
func (s *memSource) Revision() uint64          { return s.revision }

func (s *memSource) remove(id int) {
	s.entries = slices.DeleteFunc(s.entries, func(e products.Entry) bool { return e.ID == id })
	s.revision++
}

func (s *memSource) add(e products.Entry) {
	s.entries = append(s.entries, e)
	s.revision++
}

func ids(entries []products.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSort_Scenario(t *testing.T) {
	entries := []products.Entry{
		{ID: 1, Category: "A", Name: "Zed"},
		{ID: 2, Category: "A", Name: "Ant"},
	}
	p := listing.Priorities{{Column: listing.ColumnCategory, Direction: listing.Asc}, {Column: listing.ColumnName, Direction: listing.Asc}}
	assert.Equal(t, []int{2, 1}, ids(listing.Sort(entries, p)))
	// input untouched
	assert.Equal(t, []int{1, 2}, ids(entries))
}

func TestSort_Stable(t *testing.T) {
	var entries []products.Entry
	for i := 1; i <= 30; i++ {
		entries = append(entries, products.Entry{ID: i, Category: fmt.Sprintf("c%d", i%3), Name: "same"})
	}

	priorityLists := []listing.Priorities{
		{{Column: listing.ColumnName, Direction: listing.Asc}},
		{{Column: listing.ColumnName, Direction: listing.Desc}},
		{{Column: listing.ColumnCategory, Direction: listing.Desc}, {Column: listing.ColumnName, Direction: listing.Asc}},
	}
	for _, p := range priorityLists {
		t.Run(p.String(), func(t *testing.T) {
			sorted := listing.Sort(entries, p)
			// entries equal on every key keep their input order
			for i := 1; i < len(sorted); i++ {
				a, b := sorted[i-1], sorted[i]
				if a.Category == b.Category {
					assert.Less(t, a.ID, b.ID)
				}
			}
		})
	}
}

func TestSort_CaseInsensitiveAndNumbers(t *testing.T) {
	entries := []products.Entry{
		{ID: 1, Name: "banana", Price: products.FloatPtr(3)},
		{ID: 2, Name: "Apple", Price: nil},
		{ID: 3, Name: "cherry", Price: products.FloatPtr(-1)},
		{ID: 4, Name: "apple", Price: products.FloatPtr(10)},
	}

	byName := listing.Sort(entries, listing.Priorities{{Column: listing.ColumnName, Direction: listing.Asc}})
	assert.Equal(t, []int{2, 4, 1, 3}, ids(byName))

	byPrice := listing.Sort(entries, listing.Priorities{{Column: listing.ColumnPrice, Direction: listing.Asc}})
	assert.Equal(t, []int{2, 3, 1, 4}, ids(byPrice))

	byPriceDesc := listing.Sort(entries, listing.Priorities{{Column: listing.ColumnPrice, Direction: listing.Desc}})
	assert.Equal(t, []int{4, 1, 3, 2}, ids(byPriceDesc))
}

func TestPriorities_Click(t *testing.T) {
	tests := []struct {
		name  string
		start string
		click listing.Column
		want  string
	}{
		{"first click ascending", "", listing.ColumnName, "name:asc"},
		{"primary flips", "name:asc,category:desc", listing.ColumnName, "name:desc,category:desc"},
		{"primary flips back", "name:desc", listing.ColumnName, "name:asc"},
		{"promote keeps direction", "name:asc,category:desc", listing.ColumnCategory, "category:desc,name:asc"},
		{"new column goes first", "name:asc,category:desc", listing.ColumnPrice, "price:asc,name:asc,category:desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := listing.ParsePriorities(tt.start)
			require.NoError(t, err)
			got := start.Click(tt.click)
			assert.Equal(t, tt.want, got.String())
			// clicking never mutates the receiver
			assert.Equal(t, tt.start, start.String())
		})
	}
}

func TestParsePriorities_Errors(t *testing.T) {
	for _, s := range []string{"colour:asc", "name:sideways", "name,name:desc"} {
		_, err := listing.ParsePriorities(s)
		assert.True(t, pkgerrors.IsValidationError(err), s)
	}
}

func TestPriorities_Indicator(t *testing.T) {
	p, err := listing.ParsePriorities("price:desc,name:asc")
	require.NoError(t, err)

	ind, ok := p.Indicator(listing.ColumnPrice)
	require.True(t, ok)
	assert.Equal(t, listing.Indicator{Arrow: "↑", Primary: true}, ind)

	ind, ok = p.Indicator(listing.ColumnName)
	require.True(t, ok)
	assert.Equal(t, listing.Indicator{Arrow: "↓", Primary: false}, ind)

	_, ok = p.Indicator(listing.ColumnStock)
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	entries := []products.Entry{
		{ID: 1, Name: "Dog Collar", Category: "Dogs"},
		{ID: 2, Name: "Cat Toy", Category: "Cats"},
		{ID: 3, Name: "DOG bed", Category: "Dogs"},
		{ID: 4, Name: "Dog Collar", Category: "dogs"},
	}

	assert.Equal(t, []int{1, 3, 4}, ids(listing.Search("dog").Apply(entries)))
	assert.Equal(t, []int{1, 3}, ids(listing.ByCategory("Dogs").Apply(entries)))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(listing.Filter{}.Apply(entries)))
	assert.False(t, listing.Filter{}.Active())
	assert.True(t, listing.Search("x").Active())
	assert.Equal(t, `search: "x"`, listing.Search("x").String())
	assert.Equal(t, "category: Dogs", listing.ByCategory("Dogs").String())

	assert.Equal(t, []string{"Dog Collar", "DOG bed"}, listing.Suggest(entries, "dOg"))
	assert.Nil(t, listing.Suggest(entries, "  "))
}

func TestTotalPages(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for n := 0; n <= 40; n++ {
			want := 0
			if n > 0 {
				want = (n-1)/size + 1
			}
			assert.Equal(t, want, listing.TotalPages(n, size), "n=%d size=%d", n, size)
		}
	}
}

func TestPager_OutOfRangeIgnored(t *testing.T) {
	p := listing.NewPager(10)
	const n = 35

	require.True(t, p.GoTo(3, n))
	assert.False(t, p.GoTo(0, n))
	assert.False(t, p.GoTo(5, n))
	assert.Equal(t, 3, p.Current(n))

	assert.True(t, p.Next(n))
	assert.False(t, p.Next(n))
	assert.Equal(t, 4, p.Current(n))
	assert.False(t, p.HasNext(n))

	p.Reset()
	assert.False(t, p.Prev(n))
	assert.Equal(t, 1, p.Current(n))
}

func TestPager_ClampsWhenCollectionShrinks(t *testing.T) {
	entries := make([]products.Entry, 25)
	for i := range entries {
		entries[i].ID = i + 1
	}
	p := listing.NewPager(10)
	require.True(t, p.GoTo(3, len(entries)))
	assert.Equal(t, []int{21, 22, 23, 24, 25}, ids(p.Slice(entries)))

	shrunk := entries[:15]
	assert.Equal(t, 2, p.Current(len(shrunk)))
	assert.Len(t, p.Slice(shrunk), 5)
	assert.Empty(t, p.Slice(nil))
}

func TestPager_Window(t *testing.T) {
	render := func(links []listing.PageLink) string {
		out := ""
		for _, l := range links {
			switch {
			case l.Gap != listing.NoGap:
				out += "… "
			case l.Current:
				out += fmt.Sprintf("[%d] ", l.Page)
			default:
				out += fmt.Sprintf("%d ", l.Page)
			}
		}
		return out
	}

	tests := []struct {
		page int
		want string
	}{
		{1, "[1] 2 3 … 10 "},
		{4, "1 2 3 [4] 5 6 … 10 "},
		{5, "1 … 3 4 [5] 6 7 … 10 "},
		{10, "1 … 8 9 [10] "},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.page), func(t *testing.T) {
			p := listing.NewPager(1)
			p.GoTo(tt.page, 10)
			assert.Equal(t, tt.want, render(p.Window(10, 2)))
		})
	}

	single := listing.NewPager(10)
	assert.Equal(t, "[1] ", render(single.Window(3, 2)))
}

func TestPager_Jump(t *testing.T) {
	p := listing.NewPager(1)
	p.GoTo(5, 10)

	lo, hi := p.GapRange(listing.GapLeft, 10, 2)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 2, hi)
	lo, hi = p.GapRange(listing.GapRight, 10, 2)
	assert.Equal(t, 8, lo)
	assert.Equal(t, 10, hi)

	assert.False(t, p.Jump(listing.GapRight, 6, 10, 2))
	assert.True(t, p.Jump(listing.GapRight, 9, 10, 2))
	assert.Equal(t, 9, p.Current(10))
}

func newCatalog(n int) *memSource {
	src := &memSource{}
	for i := 1; i <= n; i++ {
		cat := "Dogs"
		if i%2 == 0 {
			cat = "Cats"
		}
		src.entries = append(src.entries, products.Entry{ID: i, Name: fmt.Sprintf("item %02d", i), Category: cat, Stock: products.IntPtr(i)})
	}
	return src
}

func TestView_SearchThenResetRestoresCanonical(t *testing.T) {
	src := newCatalog(25)
	v := listing.NewView(src, 4)
	require.True(t, v.GoTo(3))

	require.True(t, v.ApplySearch("item 1"))
	assert.Equal(t, 1, v.Page())
	assert.True(t, v.Filter().Active())
	assert.Equal(t, 10, v.Len())

	require.True(t, v.GoTo(2))
	v.Reset()
	assert.Equal(t, 1, v.Page())
	assert.False(t, v.Filter().Active())
	assert.Equal(t, ids(src.entries), ids(v.Entries()))
}

func TestView_BlankSearchIgnored(t *testing.T) {
	v := listing.NewView(newCatalog(5), 10)
	assert.False(t, v.ApplySearch("   "))
	assert.False(t, v.Filter().Active())
}

func TestView_DeleteWhileFiltered(t *testing.T) {
	src := newCatalog(21)
	v := listing.NewView(src, 5)
	v.ApplyCategory("Cats")
	require.Equal(t, 10, v.Len())
	require.Equal(t, 2, v.TotalPages())
	require.Contains(t, ids(v.Entries()), 2)

	src.remove(2)

	assert.NotContains(t, ids(v.Entries()), 2)
	assert.NotContains(t, ids(src.Entries()), 2)
	assert.Equal(t, 9, v.Len())
	assert.Equal(t, 2, v.TotalPages())

	for _, id := range []int{4, 6, 8, 10} {
		src.remove(id)
	}
	assert.Equal(t, 1, v.TotalPages())
}

func TestView_AddRespectsFilter(t *testing.T) {
	src := newCatalog(4)
	v := listing.NewView(src, 10)
	v.ApplyCategory("Cats")

	src.add(products.Entry{ID: 100, Name: "new dog", Category: "Dogs"})
	assert.NotContains(t, ids(v.Entries()), 100)

	src.add(products.Entry{ID: 101, Name: "new cat", Category: "Cats"})
	assert.Equal(t, 101, v.Entries()[len(v.Entries())-1].ID)

	v.Reset()
	assert.Contains(t, ids(v.Entries()), 100)
}

func TestView_SortAndCategories(t *testing.T) {
	src := newCatalog(6)
	v := listing.NewView(src, 3)
	v.Click(listing.ColumnStock)
	v.Click(listing.ColumnStock)

	assert.Equal(t, []int{6, 5, 4}, ids(v.Rows()))
	assert.Equal(t, "stock:desc", v.Priorities().String())
	assert.Equal(t, []string{"Dogs", "Cats"}, v.Categories())
	assert.Len(t, v.Suggestions("ITEM 0"), 6)
}

func TestView_ExclusiveEdit(t *testing.T) {
	src := newCatalog(3)
	v := listing.NewView(src, 10)

	require.NoError(t, v.BeginEdit(1))
	require.NoError(t, v.SetField("name", ""))
	_, _, err := v.SubmitEdit()
	require.Error(t, err)

	state, ok := v.Editing()
	require.True(t, ok)
	assert.Len(t, state.Errors, 1)

	img, err := products.NewImageFromBytes("a.png", []byte("\x89PNG\r\n\x1a\n0000000000000000"))
	require.NoError(t, err)
	require.NoError(t, v.AttachImage(img))

	require.NoError(t, v.BeginEdit(2))
	state, ok = v.Editing()
	require.True(t, ok)
	assert.Equal(t, 2, state.ID)
	assert.True(t, state.Changes.Empty())
	assert.Empty(t, state.Errors)
	assert.True(t, img.Released())

	err = v.BeginEdit(99)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestView_SubmitEdit(t *testing.T) {
	src := newCatalog(3)
	v := listing.NewView(src, 10)

	_, _, err := v.SubmitEdit()
	assert.True(t, pkgerrors.IsValidationError(err))

	require.NoError(t, v.BeginEdit(3))
	_, _, err = v.SubmitEdit()
	assert.True(t, pkgerrors.IsValidationError(err), "empty edits are rejected")

	require.NoError(t, v.SetField("price", "9.99"))
	require.NoError(t, v.SetField("stock", ""))
	assert.Error(t, v.SetField("stock", "many"))
	assert.Error(t, v.SetField("colour", "red"))

	original, changes, err := v.SubmitEdit()
	require.NoError(t, err)
	assert.Equal(t, 3, original.ID)
	assert.InDelta(t, 9.99, *changes.Price.Value, 1e-9)
	assert.True(t, changes.Stock.IsNull())

	_, editing := v.Editing()
	assert.False(t, editing)
}

func TestView_SubmitEditViolations(t *testing.T) {
	v := listing.NewView(newCatalog(1), 10)
	require.NoError(t, v.BeginEdit(1))
	require.NoError(t, v.SetField("stock", "-3"))

	_, _, err := v.SubmitEdit()
	var violations products.Violations
	require.True(t, errors.As(err, &violations))
	assert.Equal(t, "stock", violations[0].Field)
}
