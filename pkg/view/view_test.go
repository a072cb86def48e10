package view

import (
	"io/fs"
	"net/url"
	"strings"
	"testing"

	"github.com/nimburion/airbnb-listings/pkg/listing"
)

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestRender_AllPages(t *testing.T) {
	r := newRenderer(t)
	nav := listing.NewPage(1, listing.ListPageSize, 0).Navigation("/viewData", url.Values{})
	cards := []listing.Card{{ID: "1", Name: "Cozy Loft", HostName: "Ana", Country: "Spain", Price: "120"}}
	found := &listing.Listing{ID: listing.String("1"), Name: listing.String("Cozy Loft")}

	tests := []struct {
		page string
		data any
		want []string
	}{
		{PageHome, HomePage{Title: "Airbnb Listings"}, []string{"/viewDataclean", "/add-property"}},
		{PageList, ListPage{Title: "All Airbnb Listings (Page 1 of 1)", Action: "/viewData", Cards: cards, Nav: nav},
			[]string{"All Airbnb Listings (Page 1 of 1)", "Cozy Loft", `href="/property/1"`, "Page 1 of 1"}},
		{PageSearchID, SearchIDPage{Title: "Search by Property ID", ID: "1", Searched: true, Result: found},
			[]string{`name="PropertyID"`, "Cozy Loft"}},
		{PageSearchID, SearchIDPage{Title: "Search by Property ID", ID: "9", Searched: true},
			[]string{"No property found with ID 9."}},
		{PageSearchName, SearchNamePage{Title: "Search Airbnb Property", Name: "loft", Searched: true, Cards: cards, Nav: nav},
			[]string{`value="loft"`, "Cozy Loft"}},
		{PageDetail, DetailPage{Title: "Property Details", ID: "1", Result: found},
			[]string{`action="/delete-property/1"`, `href="/update-property/1"`}},
		{PageDetail, DetailPage{Title: "Property Details", ID: "1"}, []string{"Property not found"}},
		{PagePrice, PricePage{Title: "Search by Price Range", Min: "50", Max: "10",
			Errors: []string{"Minimum price must be less than or equal to maximum price."}},
			[]string{"Minimum price must be less than or equal to maximum price."}},
		{PageForm, FormPage{Title: "Update Property", Action: "/update-property/1", Editing: true,
			Form: listing.Form{ID: "1", Price: "99.5"}},
			[]string{"readonly", `value="99.5"`, "Update property"}},
		{PageForm, FormPage{Title: "Add New Property", Action: "/add-property",
			Errors: []string{"Error adding property. Please try again."}},
			[]string{"Error adding property. Please try again.", "Add property"}},
		{PageError, ErrorPage{Title: "Error", Message: "Error retrieving data"}, []string{"Error retrieving data"}},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			out, err := r.Render(tt.page, tt.data)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			body := string(out)
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("body does not contain %q", want)
				}
			}
		})
	}
}

func TestRender_EscapesUserContent(t *testing.T) {
	r := newRenderer(t)
	cards := []listing.Card{{ID: "1", Name: "<script>alert(1)</script>", Price: "N/A"}}

	out, err := r.Render(PageList, ListPage{Title: "All", Action: "/viewData", Cards: cards})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(out), "<script>alert(1)</script>") {
		t.Fatal("card name must be escaped")
	}
	if !strings.Contains(string(out), "&lt;script&gt;") {
		t.Fatal("expected escaped card name")
	}
}

func TestRender_EmptyListShowsPlaceholder(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(PageList, ListPage{Title: "All", Action: "/viewData"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out), "No listings found.") {
		t.Fatal("expected empty-state message")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Render("missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRender_ExecutionErrorReturnsNothing(t *testing.T) {
	r := newRenderer(t)
	out, err := r.Render(PageList, struct{ Title string }{Title: "x"})
	if err == nil {
		t.Fatal("expected error for mismatched page data")
	}
	if out != nil {
		t.Fatalf("expected no output, got %d bytes", len(out))
	}
}

func TestRender_Minify(t *testing.T) {
	data := ListPage{
		Title:  "All Airbnb Listings (Page 1 of 1)",
		Action: "/viewData",
		Cards:  []listing.Card{{ID: "1", Name: "Cozy Loft", Price: "120"}},
	}

	plain, err := newRenderer(t).Render(PageList, data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	small, err := newRenderer(t, WithMinify(true)).Render(PageList, data)
	if err != nil {
		t.Fatalf("Render() minified error = %v", err)
	}

	if len(small) >= len(plain) {
		t.Fatalf("minified size %d not smaller than %d", len(small), len(plain))
	}
	for _, want := range []string{"Cozy Loft", "<html", "</body>"} {
		if !strings.Contains(string(small), want) {
			t.Errorf("minified body does not contain %q", want)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Brooklyn", "Brooklyn"},
		{120.0, "120"},
		{0.5, "0.5"},
		{true, "true"},
		{listing.Coordinates{Lat: 40.64749, Long: -73.97237}, "40.64749, -73.97237"},
		{[]string{"a.jpg", "b.jpg"}, "a.jpg, b.jpg"},
		{42, "42"},
	}
	for _, tt := range tests {
		if got := Display(tt.in); got != tt.want {
			t.Errorf("Display(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssets_ContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(Assets(), "css/style.css")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("stylesheet is empty")
	}
}
