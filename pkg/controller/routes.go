package controller

import (
	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

// RegisterRoutes registers every listing page on r.
func RegisterRoutes(r router.Router, h *ListingController) {
	r.GET(PathHome, h.handle(h.Home))

	r.GET(PathList, h.handle(h.ListAll))
	r.GET(PathListClean, h.handle(h.ListClean))
	r.GET(PathDetail+":id", h.handle(h.Detail))

	r.GET(PathSearchID, h.handle(h.SearchByID))
	r.POST(PathSearchID, h.handle(h.SearchByID))
	r.GET(PathSearchName, h.handle(h.SearchByName))
	r.POST(PathSearchName, h.handle(h.SubmitNameSearch))
	r.GET(PathPrice, h.handle(h.PriceRange))
	r.POST(PathPrice, h.handle(h.SubmitPriceRange))

	r.GET(PathAdd, h.handle(h.NewForm))
	r.POST(PathAdd, h.handle(h.Create))
	r.GET(PathUpdate+":id", h.handle(h.EditForm))
	r.POST(PathUpdate+":id", h.handle(h.Update))
	r.POST(PathDelete+":id", h.handle(h.Delete))
}
