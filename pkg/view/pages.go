package view

import (
	"github.com/nimburion/airbnb-listings/pkg/listing"
)

// HomePage is the landing page.
type HomePage struct {
	Title string
}

// ListPage is the paginated all/clean listing view. Action is the path the filter form submits to.
type ListPage struct {
	Title  string
	Action string
	Query  listing.Params
	Cards  []listing.Card
	Nav    listing.Nav
}

// SearchIDPage shows the id lookup form and, after a search, the matching record.
type SearchIDPage struct {
	Title    string
	ID       string
	Searched bool
	Result   *listing.Listing
}

// SearchNamePage shows the name search form and a page of matches.
type SearchNamePage struct {
	Title    string
	Name     string
	Searched bool
	Cards    []listing.Card
	Nav      listing.Nav
}

// DetailPage shows every stored field of one listing.
type DetailPage struct {
	Title  string
	ID     string
	Result *listing.Listing
}

// PricePage shows the price range form, its messages and a page of matches.
type PricePage struct {
	Title    string
	Min      string
	Max      string
	Errors   []string
	Searched bool
	Cards    []listing.Card
	Nav      listing.Nav
}

// FormPage is the add/update property form.
type FormPage struct {
	Title   string
	Action  string
	Editing bool
	Form    listing.Form
	Errors  []string
}

// ErrorPage reports a failed request.
type ErrorPage struct {
	Title   string
	Message string
}
