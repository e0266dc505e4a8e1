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

// ListMarketplace returns listings under the resolved scope, newest first,
// with an optional product/service sub-filter
// GET /api/v1/marketplace?country=&kind=product|service&limit=&offset=
func (h *Handlers) ListMarketplace(c *gin.Context) {
	start := time.Now()
	countryScope := resolveScope(c)

	query := database.DB.Model(&models.MarketplaceItem{}).Order("created_at DESC")
	if k := c.Query("kind"); k != "" {
		if k != string(models.MarketplaceProduct) && k != string(models.MarketplaceService) {
			util.RespondValidationError(c, "kind", "must be product or service")
			return
		}
		query = query.Where("kind = ?", k)
	}

	var items []models.MarketplaceItem
	if err := query.Find(&items).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch marketplace listings")
		return
	}

	items = feed.FilterScope(items, countryScope)
	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), defaultFeedLimit, maxFeedLimit)
	items = paginate(items, limit, offset)

	middleware.RecordFeedGeneration(string(models.KindMarketplace), time.Since(start), len(items))
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"scope": countryScope,
	})
}

// CreateMarketplaceRequest is the payload for creating a listing
type CreateMarketplaceRequest struct {
	Kind          string   `json:"kind" binding:"required"`
	Title         string   `json:"title" binding:"required,min=1,max=200"`
	Description   string   `json:"description" binding:"required"`
	Price         *float64 `json:"price"`
	ContactOrLink string   `json:"contact_or_link"`
	WebLink       string   `json:"web_link"`
	CountryCode   string   `json:"country_code"`
	PostalCode    string   `json:"postal_code"`
}

// CreateMarketplaceItem creates a product or service listing
// POST /api/v1/marketplace
func (h *Handlers) CreateMarketplaceItem(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req CreateMarketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if req.Kind != string(models.MarketplaceProduct) && req.Kind != string(models.MarketplaceService) {
		util.RespondValidationError(c, "kind", "must be product or service")
		return
	}

	item := models.MarketplaceItem{
		FeedFields: models.FeedFields{
			PostedByID:  user.ID,
			PostedBy:    user.Snapshot(),
			CountryCode: scope.Normalize(req.CountryCode),
			PostalCode:  req.PostalCode,
		},
		Kind:          models.MarketplaceKind(req.Kind),
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		ContactOrLink: req.ContactOrLink,
		WebLink:       req.WebLink,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		util.RespondInternalError(c, "Failed to create listing")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetMarketplaceItem returns a single listing
// GET /api/v1/marketplace/:id
func (h *Handlers) GetMarketplaceItem(c *gin.Context) {
	var item models.MarketplaceItem
	if err := database.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "listing")
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateMarketplaceRequest carries optional fields; nil means "leave untouched"
type UpdateMarketplaceRequest struct {
	Kind          *string  `json:"kind,omitempty"`
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	ContactOrLink *string  `json:"contact_or_link,omitempty"`
	WebLink       *string  `json:"web_link,omitempty"`
	CountryCode   *string  `json:"country_code,omitempty"`
	PostalCode    *string  `json:"postal_code,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
}

// UpdateMarketplaceItem applies a partial update, author or admin only
// PUT /api/v1/marketplace/:id
func (h *Handlers) UpdateMarketplaceItem(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var item models.MarketplaceItem
	if err := database.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "listing")
		return
	}

	if !feed.CanManage(item.PostedByID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can edit this listing")
		return
	}

	var req UpdateMarketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if req.Kind != nil && *req.Kind != string(models.MarketplaceProduct) && *req.Kind != string(models.MarketplaceService) {
		util.RespondValidationError(c, "kind", "must be product or service")
		return
	}

	patch := util.NewPatch().
		SetString("kind", req.Kind).
		SetString("title", req.Title).
		SetString("description", req.Description).
		SetFloat("price", req.Price).
		SetString("contact_or_link", req.ContactOrLink).
		SetString("web_link", req.WebLink).
		SetString("postal_code", req.PostalCode).
		SetString("image_url", req.ImageURL)
	if req.CountryCode != nil {
		patch.Set("country_code", scope.Normalize(*req.CountryCode))
	}

	if patch.Empty() {
		c.JSON(http.StatusOK, item)
		return
	}

	if err := database.DB.Model(&item).Updates(map[string]interface{}(patch)).Error; err != nil {
		util.RespondInternalError(c, "Failed to update listing")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteMarketplaceItem soft-deletes a listing, author or admin only
// DELETE /api/v1/marketplace/:id
func (h *Handlers) DeleteMarketplaceItem(c *gin.Context) {
	h.deleteEntity(c, models.KindMarketplace, &models.MarketplaceItem{})
}
