package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/feed"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/scope"
	"github.com/paraverse/backend/internal/util"
)

// ListCollabs returns collaboration calls under the resolved scope. Both
// views order by the collab date; the default "active" view additionally
// hides past dates.
// GET /api/v1/collabs?country=&view=active|all&limit=&offset=
func (h *Handlers) ListCollabs(c *gin.Context) {
	start := time.Now()
	countryScope := resolveScope(c)

	var collabs []models.CollabItem
	if err := database.DB.Order("created_at DESC").Find(&collabs).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch collabs")
		return
	}

	collabs = feed.FilterScope(collabs, countryScope)

	if c.DefaultQuery("view", "active") == "active" {
		collabs = feed.FilterActive(collabs, time.Now())
	}
	feed.SortBySchedule(collabs)

	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), defaultFeedLimit, maxFeedLimit)
	collabs = paginate(collabs, limit, offset)

	middleware.RecordFeedGeneration(string(models.KindCollab), time.Since(start), len(collabs))
	c.JSON(http.StatusOK, gin.H{
		"collabs": collabs,
		"scope":   countryScope,
	})
}

// CreateCollabRequest is the payload for creating a collaboration call
type CreateCollabRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=200"`
	Description  string `json:"description"`
	DateISO      string `json:"date_iso"`
	LocationText string `json:"location_text"`
	PriceText    string `json:"price_text"`
	Contact      string `json:"contact"`
	CountryCode  string `json:"country_code"`
	PostalCode   string `json:"postal_code"`

	LocationID  *string             `json:"location_id"`
	SocialLinks []models.SocialLink `json:"social_links"`
}

// CreateCollab creates a collaboration call
// POST /api/v1/collabs
func (h *Handlers) CreateCollab(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req CreateCollabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	collab := models.CollabItem{
		FeedFields: models.FeedFields{
			PostedByID:  user.ID,
			PostedBy:    user.Snapshot(),
			CountryCode: scope.Normalize(req.CountryCode),
			PostalCode:  req.PostalCode,
		},
		Title:        req.Title,
		Description:  req.Description,
		DateISO:      req.DateISO,
		LocationText: req.LocationText,
		PriceText:    req.PriceText,
		Contact:      req.Contact,
		LocationID:   req.LocationID,
		SocialLinks:  req.SocialLinks,
	}

	if err := database.DB.Create(&collab).Error; err != nil {
		util.RespondInternalError(c, "Failed to create collab")
		return
	}

	c.JSON(http.StatusCreated, collab)
}

// GetCollab returns a single collaboration call
// GET /api/v1/collabs/:id
func (h *Handlers) GetCollab(c *gin.Context) {
	var collab models.CollabItem
	if err := database.DB.First(&collab, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "collab")
		return
	}
	c.JSON(http.StatusOK, collab)
}

// UpdateCollabRequest carries optional fields; nil means "leave untouched"
type UpdateCollabRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	DateISO      *string `json:"date_iso,omitempty"`
	LocationText *string `json:"location_text,omitempty"`
	PriceText    *string `json:"price_text,omitempty"`
	Contact      *string `json:"contact,omitempty"`
	CountryCode  *string `json:"country_code,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`

	LocationID  *string              `json:"location_id,omitempty"`
	SocialLinks *[]models.SocialLink `json:"social_links,omitempty"`
}

// UpdateCollab applies a partial update, author or admin only
// PUT /api/v1/collabs/:id
func (h *Handlers) UpdateCollab(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var collab models.CollabItem
	if err := database.DB.First(&collab, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "collab")
		return
	}

	if !feed.CanManage(collab.PostedByID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can edit this collab")
		return
	}

	var req UpdateCollabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	patch := util.NewPatch().
		SetString("title", req.Title).
		SetString("description", req.Description).
		SetString("date_iso", req.DateISO).
		SetString("location_text", req.LocationText).
		SetString("price_text", req.PriceText).
		SetString("contact", req.Contact).
		SetString("postal_code", req.PostalCode).
		SetString("image_url", req.ImageURL)
	if req.CountryCode != nil {
		patch.Set("country_code", scope.Normalize(*req.CountryCode))
	}
	if req.LocationID != nil {
		patch.Set("location_id", req.LocationID)
	}
	if req.SocialLinks != nil {
		patch.Set("social_links", *req.SocialLinks)
	}

	if patch.Empty() {
		c.JSON(http.StatusOK, collab)
		return
	}

	if err := database.DB.Model(&collab).Updates(map[string]interface{}(patch)).Error; err != nil {
		util.RespondInternalError(c, "Failed to update collab")
		return
	}

	c.JSON(http.StatusOK, collab)
}

// DeleteCollab soft-deletes a collaboration call, author or admin only
// DELETE /api/v1/collabs/:id
func (h *Handlers) DeleteCollab(c *gin.Context) {
	h.deleteEntity(c, models.KindCollab, &models.CollabItem{})
}
