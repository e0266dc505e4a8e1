package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/util"
)

// Geocode resolves a country code and postal code to coordinates, proxying
// the postcode lookup service so the client never calls it directly
// GET /api/v1/geocode?country=GB&postal=SW1A
func (h *Handlers) Geocode(c *gin.Context) {
	if h.geocoder == nil {
		util.RespondInternalError(c, "Geocoding is not configured")
		return
	}

	country := c.Query("country")
	postal := c.Query("postal")
	if country == "" || postal == "" {
		util.RespondBadRequest(c, "country and postal are required")
		return
	}

	coords, err := h.geocoder.Lookup(c.Request.Context(), country, postal)
	if err != nil {
		util.RespondInternalError(c, "Geocoding lookup failed")
		return
	}
	if coords == nil {
		util.RespondNotFound(c, "postal code")
		return
	}

	c.JSON(http.StatusOK, coords)
}
