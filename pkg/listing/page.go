package listing

import (
	"math"
	"net/url"
	"strconv"
)

// Page sizes per view.
const (
	ListPageSize  = 100
	NamePageSize  = 10
	PricePageSize = 20
)

// Page describes one window of an ordered result set.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int
}

// ParsePageNumber reads the leading integer of a 1-based page number, so "2abc" is page 2.
// Anything missing, unparsable or below 1 yields 1.
func ParsePageNumber(raw string) int {
	n, ok := leadingInt(raw)
	if !ok || n < 1 || n > math.MaxInt32 {
		return 1
	}
	return int(n)
}

// NewPage computes pagination for a result set of total records.
func NewPage(number, size int, total int64) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	return Page{Number: number, Size: size, Total: total, TotalPages: totalPages}
}

// Skip is the number of records before this page.
func (p Page) Skip() int64 {
	before := int64(p.Number - 1)
	if before > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return before * int64(p.Size)
}

// Limit is the maximum number of records on this page.
func (p Page) Limit() int64 {
	return int64(p.Size)
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// Link returns path with query q and the given page number, leaving q untouched.
func Link(path string, q url.Values, page int) string {
	params := url.Values{}
	for k, v := range q {
		params[k] = append([]string(nil), v...)
	}
	params.Set(ParamPage, strconv.Itoa(page))
	return path + "?" + params.Encode()
}

// Nav holds the rendered pagination links of a page.
type Nav struct {
	Page
	PrevURL string
	NextURL string
}

// Navigation builds prev/next links that preserve every other query parameter.
func (p Page) Navigation(path string, q url.Values) Nav {
	nav := Nav{Page: p}
	if p.HasPrev() {
		nav.PrevURL = Link(path, q, p.Number-1)
	}
	if p.HasNext() {
		nav.NextURL = Link(path, q, p.Number+1)
	}
	return nav
}
