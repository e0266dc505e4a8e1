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

// ListEvents returns events under the resolved scope. The default "active"
// view hides events whose window has fully passed and orders by the
// effective event date; ?view=all keeps past events in the same order.
// GET /api/v1/events?country=&view=active|all&limit=&offset=
func (h *Handlers) ListEvents(c *gin.Context) {
	start := time.Now()
	countryScope := resolveScope(c)

	var events []models.Event
	if err := database.DB.Order("created_at DESC").Find(&events).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch events")
		return
	}

	events = feed.FilterScope(events, countryScope)

	if c.DefaultQuery("view", "active") == "active" {
		events = feed.FilterActive(events, time.Now())
	}
	feed.SortBySchedule(events)

	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), defaultFeedLimit, maxFeedLimit)
	events = paginate(events, limit, offset)

	middleware.RecordFeedGeneration(string(models.KindEvent), time.Since(start), len(events))
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"scope":  countryScope,
	})
}

// CreateEventRequest is the payload for creating an event
type CreateEventRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=200"`
	Description  string `json:"description"`
	StartISO     string `json:"start_iso"`
	EndISO       string `json:"end_iso"`
	LocationText string `json:"location_text"`
	PriceText    string `json:"price_text"`
	Link         string `json:"link"`
	CountryCode  string `json:"country_code"`
	PostalCode   string `json:"postal_code"`

	LocationID  *string             `json:"location_id"`
	SocialLinks []models.SocialLink `json:"social_links"`
}

// CreateEvent creates an event
// POST /api/v1/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	event := models.Event{
		FeedFields: models.FeedFields{
			PostedByID:  user.ID,
			PostedBy:    user.Snapshot(),
			CountryCode: scope.Normalize(req.CountryCode),
			PostalCode:  req.PostalCode,
		},
		Title:        req.Title,
		Description:  req.Description,
		StartISO:     req.StartISO,
		EndISO:       req.EndISO,
		LocationText: req.LocationText,
		PriceText:    req.PriceText,
		Link:         req.Link,
		LocationID:   req.LocationID,
		SocialLinks:  req.SocialLinks,
	}

	if err := database.DB.Create(&event).Error; err != nil {
		util.RespondInternalError(c, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent returns a single event
// GET /api/v1/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	var event models.Event
	if err := database.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEventRequest carries optional fields; nil means "leave untouched"
type UpdateEventRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	StartISO     *string `json:"start_iso,omitempty"`
	EndISO       *string `json:"end_iso,omitempty"`
	LocationText *string `json:"location_text,omitempty"`
	PriceText    *string `json:"price_text,omitempty"`
	Link         *string `json:"link,omitempty"`
	CountryCode  *string `json:"country_code,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`

	LocationID  *string              `json:"location_id,omitempty"`
	SocialLinks *[]models.SocialLink `json:"social_links,omitempty"`
}

// UpdateEvent applies a partial update, author or admin only
// PUT /api/v1/events/:id
func (h *Handlers) UpdateEvent(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var event models.Event
	if err := database.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "event")
		return
	}

	if !feed.CanManage(event.PostedByID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can edit this event")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	patch := util.NewPatch().
		SetString("title", req.Title).
		SetString("description", req.Description).
		SetString("start_iso", req.StartISO).
		SetString("end_iso", req.EndISO).
		SetString("location_text", req.LocationText).
		SetString("price_text", req.PriceText).
		SetString("link", req.Link).
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
		c.JSON(http.StatusOK, event)
		return
	}

	if err := database.DB.Model(&event).Updates(map[string]interface{}(patch)).Error; err != nil {
		util.RespondInternalError(c, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent soft-deletes an event, author or admin only
// DELETE /api/v1/events/:id
func (h *Handlers) DeleteEvent(c *gin.Context) {
	h.deleteEntity(c, models.KindEvent, &models.Event{})
}
