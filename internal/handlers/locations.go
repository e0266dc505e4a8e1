package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/feed"
	"github.com/paraverse/backend/internal/logger"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/scope"
	"github.com/paraverse/backend/internal/util"
	"go.uber.org/zap"
)

// ListLocations returns map locations visible under the resolved scope
// GET /api/v1/locations?country=&type=&limit=&offset=
func (h *Handlers) ListLocations(c *gin.Context) {
	start := time.Now()
	countryScope := resolveScope(c)

	query := database.DB.Model(&models.Location{}).Order("created_at DESC")
	if t := c.Query("type"); t != "" {
		if !models.ValidLocationType(t) {
			util.RespondValidationError(c, "type", "unknown location type")
			return
		}
		query = query.Where("type = ?", t)
	}

	var locations []models.Location
	if err := query.Find(&locations).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch locations")
		return
	}

	locations = feed.FilterScope(locations, countryScope)
	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), defaultFeedLimit, maxFeedLimit)
	locations = paginate(locations, limit, offset)

	middleware.RecordFeedGeneration(string(models.KindLocation), time.Since(start), len(locations))
	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"scope":     countryScope,
	})
}

// CreateLocationRequest is the payload for creating a location
type CreateLocationRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Type        string  `json:"type" binding:"required"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Summary     string  `json:"summary"`
	Address     string  `json:"address"`
	Website     string  `json:"website"`
	CountryCode string  `json:"country_code"`
	PostalCode  string  `json:"postal_code"`

	SocialLinks []models.SocialLink `json:"social_links"`
	OwnerID     string              `json:"owner_id"`
	OwnerName   string              `json:"owner_name"`
}

// CreateLocation creates a map location. When coordinates are not supplied
// they are seeded from the postal code, best effort.
// POST /api/v1/locations
func (h *Handlers) CreateLocation(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if !models.ValidLocationType(req.Type) {
		util.RespondValidationError(c, "type", "unknown location type")
		return
	}

	location := models.Location{
		FeedFields: models.FeedFields{
			PostedByID:  user.ID,
			PostedBy:    user.Snapshot(),
			CountryCode: scope.Normalize(req.CountryCode),
			PostalCode:  req.PostalCode,
		},
		Title:       req.Title,
		Type:        models.LocationType(req.Type),
		Lat:         req.Lat,
		Lng:         req.Lng,
		Summary:     req.Summary,
		Address:     req.Address,
		Website:     req.Website,
		SocialLinks: req.SocialLinks,
		OwnerID:     req.OwnerID,
		OwnerName:   req.OwnerName,
	}

	if location.Lat == 0 && location.Lng == 0 && h.geocoder != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		coords, err := h.geocoder.Lookup(ctx, location.CountryCode, location.PostalCode)
		cancel()
		if err != nil {
			logger.Log.Warn("Geocode lookup failed", zap.Error(err))
		} else if coords != nil {
			location.Lat = coords.Lat
			location.Lng = coords.Lng
		}
	}

	if err := database.DB.Create(&location).Error; err != nil {
		util.RespondInternalError(c, "Failed to create location")
		return
	}

	c.JSON(http.StatusCreated, location)
}

// GetLocation returns a single location
// GET /api/v1/locations/:id
func (h *Handlers) GetLocation(c *gin.Context) {
	var location models.Location
	if err := database.DB.First(&location, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "location")
		return
	}
	c.JSON(http.StatusOK, location)
}

// UpdateLocationRequest carries optional fields; nil means "leave untouched"
type UpdateLocationRequest struct {
	Title       *string  `json:"title,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Website     *string  `json:"website,omitempty"`
	CountryCode *string  `json:"country_code,omitempty"`
	PostalCode  *string  `json:"postal_code,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`

	VerifiedByOwner *bool                `json:"verified_by_owner,omitempty"`
	SocialLinks     *[]models.SocialLink `json:"social_links,omitempty"`
	OwnerID         *string              `json:"owner_id,omitempty"`
	OwnerName       *string              `json:"owner_name,omitempty"`
}

// UpdateLocation applies a partial update, author or admin only
// PUT /api/v1/locations/:id
func (h *Handlers) UpdateLocation(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var location models.Location
	if err := database.DB.First(&location, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "location")
		return
	}

	if !feed.CanManage(location.PostedByID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can edit this location")
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if req.Type != nil && !models.ValidLocationType(*req.Type) {
		util.RespondValidationError(c, "type", "unknown location type")
		return
	}

	patch := util.NewPatch().
		SetString("title", req.Title).
		SetString("type", req.Type).
		SetFloat("lat", req.Lat).
		SetFloat("lng", req.Lng).
		SetString("summary", req.Summary).
		SetString("address", req.Address).
		SetString("website", req.Website).
		SetString("postal_code", req.PostalCode).
		SetString("image_url", req.ImageURL).
		SetBool("verified_by_owner", req.VerifiedByOwner).
		SetString("owner_id", req.OwnerID).
		SetString("owner_name", req.OwnerName)
	if req.CountryCode != nil {
		patch.Set("country_code", scope.Normalize(*req.CountryCode))
	}
	if req.SocialLinks != nil {
		patch.Set("social_links", *req.SocialLinks)
	}

	if patch.Empty() {
		c.JSON(http.StatusOK, location)
		return
	}

	if err := database.DB.Model(&location).Updates(map[string]interface{}(patch)).Error; err != nil {
		util.RespondInternalError(c, "Failed to update location")
		return
	}

	c.JSON(http.StatusOK, location)
}

// DeleteLocation soft-deletes a location, author or admin only. Deleting a
// row that is already gone succeeds.
// DELETE /api/v1/locations/:id
func (h *Handlers) DeleteLocation(c *gin.Context) {
	h.deleteEntity(c, models.KindLocation, &models.Location{})
}
