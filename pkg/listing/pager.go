package listing

import (
	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// TotalPages returns ceil(n/size). An empty sequence has no pages.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Pager tracks the current page of a sequence of fixed-size pages. The
// sequence length is passed on every call so the pager stays valid when
// the underlying collection grows or shrinks.
type Pager struct {
	size int
	page int
}

// NewPager returns a pager on page 1. A non-positive size uses the default.
func NewPager(size int) *Pager {
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	return &Pager{size: size, page: 1}
}

// Size returns the page size.
func (p *Pager) Size() int {
	return p.size
}

// Current returns the current page clamped to [1, TotalPages(n)].
func (p *Pager) Current(n int) int {
	total := TotalPages(n, p.size)
	if p.page > total {
		if total == 0 {
			return 1
		}
		return total
	}
	if p.page < 1 {
		return 1
	}
	return p.page
}

// GoTo moves to page. Requests outside [1, TotalPages(n)] are ignored.
// It reports whether the page changed.
func (p *Pager) GoTo(page, n int) bool {
	if page < 1 || page > TotalPages(n, p.size) {
		return false
	}
	changed := p.Current(n) != page
	p.page = page
	return changed
}

// Next moves one page forward if possible.
func (p *Pager) Next(n int) bool {
	return p.GoTo(p.Current(n)+1, n)
}

// Prev moves one page back if possible.
func (p *Pager) Prev(n int) bool {
	return p.GoTo(p.Current(n)-1, n)
}

// HasNext reports whether a next page exists.
func (p *Pager) HasNext(n int) bool {
	return p.Current(n) < TotalPages(n, p.size)
}

// HasPrev reports whether a previous page exists.
func (p *Pager) HasPrev(n int) bool {
	return p.Current(n) > 1
}

// Reset returns to page 1.
func (p *Pager) Reset() {
	p.page = 1
}

// Slice returns the entries of the current page.
func (p *Pager) Slice(entries []products.Entry) []products.Entry {
	n := len(entries)
	if n == 0 {
		return []products.Entry{}
	}
	start := (p.Current(n) - 1) * p.size
	end := min(start+p.size, n)
	return entries[start:end]
}

// Gap marks a collapsed run of pages in the page strip.
type Gap int

const (
	// NoGap is a numbered page link.
	NoGap Gap = iota
	// GapLeft collapses pages between the first page and the window.
	GapLeft
	// GapRight collapses pages between the window and the last page.
	GapRight
)

// PageLink is one element of the page strip: either a page number or a gap.
type PageLink struct {
	Page    int
	Gap     Gap
	Current bool
}

// Window returns the page strip for the current page: the first page, the
// pages within radius of the current one, the last page, and gap markers
// where pages were skipped.
func (p *Pager) Window(n, radius int) []PageLink {
	total := TotalPages(n, p.size)
	cur := p.Current(n)
	links := []PageLink{{Page: 1, Current: cur == 1}}

	if cur > radius+2 {
		links = append(links, PageLink{Gap: GapLeft})
	}
	for i := max(2, cur-radius); i <= min(total-1, cur+radius); i++ {
		links = append(links, PageLink{Page: i, Current: cur == i})
	}
	if cur < total-radius-1 {
		links = append(links, PageLink{Gap: GapRight})
	}
	if total > 1 {
		links = append(links, PageLink{Page: total, Current: cur == total})
	}
	return links
}

// GapRange returns the inclusive range of pages a gap marker can jump to.
func (p *Pager) GapRange(g Gap, n, radius int) (lo, hi int) {
	total := TotalPages(n, p.size)
	cur := p.Current(n)
	if g == GapLeft {
		return 1, max(1, cur-radius) - 1
	}
	return min(total, cur+radius) + 1, total
}

// Jump moves to page only if it lies within the gap's range.
func (p *Pager) Jump(g Gap, page, n, radius int) bool {
	lo, hi := p.GapRange(g, n, radius)
	if page < lo || page > hi {
		return false
	}
	return p.GoTo(page, n)
}
