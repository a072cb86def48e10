// Package controller holds the HTTP handlers of the listings site.
package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nimburion/airbnb-listings/pkg/listing"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
	"github.com/nimburion/airbnb-listings/pkg/view"
)

// Page paths.
const (
	PathHome       = "/"
	PathList       = "/viewData"
	PathListClean  = "/viewDataclean"
	PathDetail     = "/property/"
	PathSearchID   = "/searchid"
	PathSearchName = "/searchname"
	PathPrice      = "/viewDataprice"
	PathAdd        = "/add-property"
	PathUpdate     = "/update-property/"
	PathDelete     = "/delete-property/"
)

// Page titles.
const (
	titleHome       = "Airbnb Listings"
	titleAll        = "All Airbnb Listings"
	titleClean      = "Cleaned Airbnb Listings"
	titleSearchID   = "Search by Property ID"
	titleSearchName = "Search Airbnb Property"
	titleDetail     = "Property Details"
	titlePrice      = "Search by Price Range"
	titleAdd        = "Add New Property"
	titleUpdate     = "Update Property"
)

// User-facing messages.
const (
	msgRetrieveData     = "Error retrieving data"
	msgPriceStoreError  = "Error retrieving data from database."
	msgAddFailed        = "Error adding property. Please try again."
	msgUpdateFailed     = "Error updating property. Please try again."
	msgPropertyNotFound = "Property not found"
	msgRetrieveProperty = "Error retrieving property"
	msgDeleteFailed     = "Error deleting property"
)

// Form field names that are not part of the property form.
const (
	fieldPropertyID = "PropertyID"
	fieldName       = "name"
	fieldMin        = "min"
	fieldMax        = "max"
	queryID         = "id"
)

// ListingController serves the listing pages.
type ListingController struct {
	store listing.Store
	views Renderer
	log   logger.Logger
}

// NewListingController creates a controller over store, rendering with views.
func NewListingController(store listing.Store, views Renderer, log logger.Logger) *ListingController {
	return &ListingController{store: store, views: views, log: log}
}

// Home renders the landing page.
func (h *ListingController) Home(c router.Context) error {
	return Page(c, h.views, http.StatusOK, view.PageHome, view.HomePage{Title: titleHome})
}

// ListAll renders one page of every listing matching the filter parameters.
func (h *ListingController) ListAll(c router.Context) error {
	return h.list(c, titleAll, PathList, listing.BuildFilter)
}

// ListClean is ListAll restricted to listings that have a name.
func (h *ListingController) ListClean(c router.Context) error {
	return h.list(c, titleClean, PathListClean, listing.BuildCleanFilter)
}

func (h *ListingController) list(c router.Context, title, path string, build func(listing.Params) listing.Filter) error {
	q := c.Request().URL.Query()
	params := listing.ParamsFromQuery(q)

	page, cards, err := h.fetchPage(c.Request().Context(), build(params), q.Get(listing.ParamPage), listing.ListPageSize)
	if err != nil {
		return NewInternalError(msgRetrieveData, err)
	}

	return Page(c, h.views, http.StatusOK, view.PageList, view.ListPage{
		Title:  fmt.Sprintf("%s (Page %d of %d)", title, page.Number, page.TotalPages),
		Action: path,
		Query:  params,
		Cards:  cards,
		Nav:    page.Navigation(path, q),
	})
}

// SearchByID looks a listing up by identifier, from the query on GET and the form on POST.
// Blank input renders the form without a lookup.
func (h *ListingController) SearchByID(c router.Context) error {
	id := c.Query(queryID)
	if c.Request().Method == http.MethodPost {
		id = c.FormValue(fieldPropertyID)
	}
	id = strings.TrimSpace(id)

	data := view.SearchIDPage{Title: titleSearchID, ID: id}
	if id != "" {
		found, err := h.findByID(c.Request().Context(), id)
		if err != nil {
			return NewInternalError(msgRetrieveData, err)
		}
		data.Searched = true
		data.Result = found
	}
	return Page(c, h.views, http.StatusOK, view.PageSearchID, data)
}

// SearchByName renders a page of listings whose name contains the query, ignoring case.
func (h *ListingController) SearchByName(c router.Context) error {
	q := c.Request().URL.Query()
	raw := q.Get(fieldName)
	data := view.SearchNamePage{Title: titleSearchName, Name: raw}

	if name := strings.TrimSpace(raw); name != "" {
		page, cards, err := h.fetchPage(c.Request().Context(), listing.NameFilter(name), q.Get(listing.ParamPage), listing.NamePageSize)
		if err != nil {
			return NewInternalError(msgRetrieveData, err)
		}
		data.Searched = true
		data.Cards = cards
		data.Nav = page.Navigation(PathSearchName, q)
	}
	return Page(c, h.views, http.StatusOK, view.PageSearchName, data)
}

// SubmitNameSearch redirects the name form to the first result page.
func (h *ListingController) SubmitNameSearch(c router.Context) error {
	q := url.Values{}
	q.Set(fieldName, c.FormValue(fieldName))
	q.Set(listing.ParamPage, "1")
	return c.Redirect(http.StatusSeeOther, PathSearchName+"?"+q.Encode())
}

// Detail renders every stored field of the listing with the path identifier.
func (h *ListingController) Detail(c router.Context) error {
	id := c.Param("id")
	found, err := h.findByID(c.Request().Context(), id)
	if err != nil {
		return NewInternalError(msgRetrieveData, err)
	}
	return Page(c, h.views, http.StatusOK, view.PageDetail, view.DetailPage{
		Title:  titleDetail,
		ID:     id,
		Result: found,
	})
}

// PriceRange renders listings priced within [min, max]. The bounds are integers;
// a missing bound leaves the form idle and an inverted range only shows a message.
func (h *ListingController) PriceRange(c router.Context) error {
	q := c.Request().URL.Query()
	data := view.PricePage{Title: titlePrice, Min: q.Get(fieldMin), Max: q.Get(fieldMax)}

	lower, lowerOK := listing.ParseInt(data.Min)
	upper, upperOK := listing.ParseInt(data.Max)
	if lowerOK {
		data.Min = strconv.FormatInt(lower, 10)
	}
	if upperOK {
		data.Max = strconv.FormatInt(upper, 10)
	}

	switch {
	case !lowerOK || !upperOK:
		return Page(c, h.views, http.StatusOK, view.PagePrice, data)
	case lower > upper:
		data.Errors = []string{msgMinAboveMax}
		return Page(c, h.views, http.StatusOK, view.PagePrice, data)
	}

	page, cards, err := h.fetchPage(c.Request().Context(), listing.PriceFilter(lower, upper), q.Get(listing.ParamPage), listing.PricePageSize)
	if err != nil {
		h.log.WithContext(c.Request().Context()).Error("price range query failed", "error", err, "min", lower, "max", upper)
		data.Errors = []string{msgPriceStoreError}
		return Page(c, h.views, http.StatusInternalServerError, view.PagePrice, data)
	}

	data.Searched = true
	data.Cards = cards
	data.Nav = page.Navigation(PathPrice, q)
	return Page(c, h.views, http.StatusOK, view.PagePrice, data)
}

// SubmitPriceRange validates the price form and redirects to the first result page.
func (h *ListingController) SubmitPriceRange(c router.Context) error {
	rawMin, rawMax := c.FormValue(fieldMin), c.FormValue(fieldMax)
	in := priceRangeInput{Min: strings.TrimSpace(rawMin), Max: strings.TrimSpace(rawMax)}

	messages := validatePriceRange(in)
	lower, upper, ok := in.bounds()
	if len(messages) == 0 && !ok {
		messages = []string{msgMinNotNumber, msgMaxNotNumber}
	}
	if len(messages) > 0 {
		return Page(c, h.views, http.StatusUnprocessableEntity, view.PagePrice, view.PricePage{
			Title:  titlePrice,
			Min:    rawMin,
			Max:    rawMax,
			Errors: messages,
		})
	}

	location := fmt.Sprintf("%s?min=%d&max=%d&page=1", PathPrice, lower, upper)
	return c.Redirect(http.StatusSeeOther, location)
}

// NewForm renders the empty add-property form.
func (h *ListingController) NewForm(c router.Context) error {
	return Page(c, h.views, http.StatusOK, view.PageForm, view.FormPage{Title: titleAdd, Action: PathAdd})
}

// Create inserts a listing from the add-property form.
func (h *ListingController) Create(c router.Context) error {
	form := listing.FormFromValues(c.FormValue)
	data := view.FormPage{Title: titleAdd, Action: PathAdd, Form: form, Errors: []string{msgAddFailed}}
	ctx := c.Request().Context()

	l, err := form.Listing()
	if err != nil {
		h.log.WithContext(ctx).Warn("invalid property form", "error", err)
		return Page(c, h.views, http.StatusUnprocessableEntity, view.PageForm, data)
	}
	if err := h.store.Insert(ctx, l); err != nil {
		h.log.WithContext(ctx).Error("failed to add property", "error", err, "listing_id", form.ID)
		return Page(c, h.views, http.StatusInternalServerError, view.PageForm, data)
	}

	h.log.WithContext(ctx).Info("property added", "listing_id", form.ID)
	return c.Redirect(http.StatusSeeOther, PathList)
}

// EditForm renders the update form pre-filled from the stored listing.
func (h *ListingController) EditForm(c router.Context) error {
	id := c.Param("id")
	found, err := h.findByID(c.Request().Context(), id)
	if err != nil {
		return NewInternalError(msgRetrieveProperty, err)
	}
	if found == nil {
		return c.String(http.StatusNotFound, msgPropertyNotFound)
	}

	return Page(c, h.views, http.StatusOK, view.PageForm, view.FormPage{
		Title:   titleUpdate,
		Action:  PathUpdate + url.PathEscape(id),
		Editing: true,
		Form:    listing.FormFromListing(found),
	})
}

// Update overwrites the mutable fields of the first listing with the path identifier.
// The identifier itself never changes.
func (h *ListingController) Update(c router.Context) error {
	id := c.Param("id")
	form := listing.FormFromValues(c.FormValue)
	form.ID = id
	data := view.FormPage{
		Title:   titleUpdate,
		Action:  PathUpdate + url.PathEscape(id),
		Editing: true,
		Form:    form,
		Errors:  []string{msgUpdateFailed},
	}
	ctx := c.Request().Context()

	changes, err := form.Changes()
	if err != nil {
		h.log.WithContext(ctx).Warn("invalid property form", "error", err, "listing_id", id)
		return Page(c, h.views, http.StatusUnprocessableEntity, view.PageForm, data)
	}
	if err := h.store.Update(ctx, listing.IDFilter(id), changes); err != nil {
		h.log.WithContext(ctx).Error("failed to update property", "error", err, "listing_id", id)
		return Page(c, h.views, http.StatusInternalServerError, view.PageForm, data)
	}

	h.log.WithContext(ctx).Info("property updated", "listing_id", id)
	return c.Redirect(http.StatusSeeOther, PathList)
}

// Delete removes the first listing with the path identifier. A missing listing is not an error.
func (h *ListingController) Delete(c router.Context) error {
	id := c.Param("id")
	if err := h.store.Delete(c.Request().Context(), listing.IDFilter(id)); err != nil {
		return NewInternalError(msgDeleteFailed, err)
	}
	h.log.WithContext(c.Request().Context()).Info("property deleted", "listing_id", id)
	return c.Redirect(http.StatusSeeOther, PathList)
}

// findByID returns nil without error when nothing matches.
func (h *ListingController) findByID(ctx context.Context, id string) (*listing.Listing, error) {
	found, err := h.store.FindOne(ctx, listing.IDFilter(id))
	if errors.Is(err, listing.ErrNotFound) {
		return nil, nil
	}
	return found, err
}

func (h *ListingController) fetchPage(ctx context.Context, filter listing.Filter, rawPage string, size int) (listing.Page, []listing.Card, error) {
	total, err := h.store.Count(ctx, filter)
	if err != nil {
		return listing.Page{}, nil, err
	}
	page := listing.NewPage(listing.ParsePageNumber(rawPage), size, total)

	items, err := h.store.Find(ctx, filter, page.Skip(), page.Limit())
	if err != nil {
		return listing.Page{}, nil, err
	}
	return page, listing.Cards(items), nil
}

// handle renders the error page for any error a handler returns.
func (h *ListingController) handle(fn router.HandlerFunc) router.HandlerFunc {
	return func(c router.Context) error {
		err := fn(c)
		if err == nil {
			return nil
		}
		status, _ := MapError(err)
		h.log.WithContext(c.Request().Context()).Error("request handling failed",
			"error", err,
			"status", status,
			"path", c.Request().URL.Path,
		)
		if c.Response().Written() {
			return nil
		}
		return Error(c, h.views, err)
	}
}
