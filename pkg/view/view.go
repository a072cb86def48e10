// Package view renders the HTML pages of the listings site from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
	"strings"

	"github.com/nimburion/airbnb-listings/pkg/listing"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed public
var publicFS embed.FS

// Page template names.
const (
	PageHome       = "index"
	PageList       = "list"
	PageSearchID   = "searchid"
	PageSearchName = "searchname"
	PageDetail     = "propertydetail"
	PagePrice      = "price"
	PageForm       = "propertyform"
	PageError      = "error"
)

var pageNames = []string{
	PageHome,
	PageList,
	PageSearchID,
	PageSearchName,
	PageDetail,
	PagePrice,
	PageForm,
	PageError,
}

const mimeHTML = "text/html"

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	pages    map[string]*template.Template
	minifier *minify.M
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMinify enables or disables HTML minification of rendered pages.
func WithMinify(enabled bool) Option {
	return func(r *Renderer) {
		if !enabled {
			r.minifier = nil
			return
		}
		m := minify.New()
		m.Add(mimeHTML, &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		r.minifier = m
	}
}

// New parses every page together with the layout and shared partials.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, opt := range opts {
		opt(r)
	}

	funcs := template.FuncMap{"display": Display}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page with data. Nothing is written on failure.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	t, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	if r.minifier == nil {
		return buf.Bytes(), nil
	}

	out, err := r.minifier.Bytes(mimeHTML, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify %s: %w", name, err)
	}
	return out, nil
}

// Assets returns the static files served under /public.
func Assets() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

// Display formats a listing field value for the detail table.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return listing.FormatNumber(x)
	case bool:
		return strconv.FormatBool(x)
	case listing.Coordinates:
		return listing.FormatNumber(x.Lat) + ", " + listing.FormatNumber(x.Long)
	case []string:
		return strings.Join(x, ", ")
	default:
		return fmt.Sprint(x)
	}
}
