package controller

import (
	"github.com/nimburion/airbnb-listings/pkg/server/router"
	"github.com/nimburion/airbnb-listings/pkg/view"
)

// Renderer turns a named page and its data into a complete HTML document.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

// Page renders the named page with the given status.
// A render failure becomes an internal error before anything is written.
func Page(c router.Context, views Renderer, status int, name string, data any) error {
	body, err := views.Render(name, data)
	if err != nil {
		return NewInternalError("Error rendering page", err)
	}
	return c.HTML(status, body)
}

// Error renders the error page for err. If the error page itself cannot be
// rendered, the message is sent as plain text.
func Error(c router.Context, views Renderer, err error) error {
	status, message := MapError(err)
	body, renderErr := views.Render(view.PageError, view.ErrorPage{Title: "Error", Message: message})
	if renderErr != nil {
		return c.String(status, message)
	}
	return c.HTML(status, body)
}
