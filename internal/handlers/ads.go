package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/ads"
	"github.com/paraverse/backend/internal/cache"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
)

const adCacheTTL = time.Minute

// GetAds returns the active ads for one placement, highest priority first.
// An empty result carries fallback=true so the client renders its house ad.
// GET /api/v1/ads/:placement?max=
func (h *Handlers) GetAds(c *gin.Context) {
	placement := c.Param("placement")
	maxItems := util.ParseInt(c.Query("max"), 0)

	selected, ok := cachedAds(c.Request.Context(), placement)
	if !ok {
		var candidates []models.Ad
		err := database.DB.
			Where("placement = ?", placement).
			Find(&candidates).Error
		if err != nil {
			util.RespondInternalError(c, "Failed to fetch ads")
			return
		}

		selected = ads.SelectActive(candidates, time.Now())
		cacheAds(c.Request.Context(), placement, selected)
	}

	if maxItems > 0 {
		selected = ads.Cap(selected, maxItems)
	}

	middleware.RecordAdServed(placement)
	c.JSON(http.StatusOK, gin.H{
		"ads":      selected,
		"fallback": len(selected) == 0,
	})
}

func cachedAds(ctx context.Context, placement string) ([]models.Ad, bool) {
	rc := cache.GetRedisClient()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	raw, err := rc.Get(ctx, cache.AdPlacementKey(placement))
	if err != nil {
		middleware.RecordCacheMiss("ads")
		return nil, false
	}

	var selected []models.Ad
	if err := json.Unmarshal([]byte(raw), &selected); err != nil {
		return nil, false
	}
	middleware.RecordCacheHit("ads")
	return selected, true
}

func cacheAds(ctx context.Context, placement string, selected []models.Ad) {
	rc := cache.GetRedisClient()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	raw, err := json.Marshal(selected)
	if err != nil {
		return
	}
	_ = rc.SetEx(ctx, cache.AdPlacementKey(placement), string(raw), adCacheTTL)
}

func invalidateAdCache(placement string) {
	rc := cache.GetRedisClient()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = rc.Del(ctx, cache.AdPlacementKey(placement))
}

// ListAllAds returns every ad, active or not, for the admin console
// GET /api/v1/admin/ads
func (h *Handlers) ListAllAds(c *gin.Context) {
	var allAds []models.Ad
	if err := database.DB.Order("placement, priority DESC").Find(&allAds).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch ads")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ads": allAds})
}

// CreateAdRequest is the admin payload for a new ad
type CreateAdRequest struct {
	Placement string `json:"placement" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
	ImageURL  string `json:"image_url"`
	LinkURL   string `json:"link_url"`

	IsActive *bool `json:"is_active"`
	Priority int   `json:"priority"`

	ActiveFrom *time.Time `json:"active_from"`
	ActiveTo   *time.Time `json:"active_to"`
}

// CreateAd creates an ad, admin only
// POST /api/v1/admin/ads
func (h *Handlers) CreateAd(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	ad := models.Ad{
		Placement:  req.Placement,
		Title:      req.Title,
		Body:       req.Body,
		ImageURL:   req.ImageURL,
		LinkURL:    req.LinkURL,
		IsActive:   true,
		Priority:   req.Priority,
		ActiveFrom: req.ActiveFrom,
		ActiveTo:   req.ActiveTo,
	}
	if req.IsActive != nil {
		ad.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&ad).Error; err != nil {
		util.RespondInternalError(c, "Failed to create ad")
		return
	}

	invalidateAdCache(ad.Placement)
	c.JSON(http.StatusCreated, ad)
}

// UpdateAdRequest carries optional ad fields; nil means untouched
type UpdateAdRequest struct {
	Placement *string `json:"placement,omitempty"`
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
	LinkURL   *string `json:"link_url,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
	Priority *int  `json:"priority,omitempty"`

	ActiveFrom *time.Time `json:"active_from,omitempty"`
	ActiveTo   *time.Time `json:"active_to,omitempty"`
}

// UpdateAd applies a partial update to an ad, admin only
// PUT /api/v1/admin/ads/:id
func (h *Handlers) UpdateAd(c *gin.Context) {
	var ad models.Ad
	if err := database.DB.First(&ad, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "ad")
		return
	}

	var req UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	patch := util.NewPatch().
		SetString("placement", req.Placement).
		SetString("title", req.Title).
		SetString("body", req.Body).
		SetString("image_url", req.ImageURL).
		SetString("link_url", req.LinkURL).
		SetBool("is_active", req.IsActive).
		SetInt("priority", req.Priority)
	if req.ActiveFrom != nil {
		patch.Set("active_from", req.ActiveFrom)
	}
	if req.ActiveTo != nil {
		patch.Set("active_to", req.ActiveTo)
	}

	if patch.Empty() {
		c.JSON(http.StatusOK, ad)
		return
	}

	oldPlacement := ad.Placement
	if err := database.DB.Model(&ad).Updates(map[string]interface{}(patch)).Error; err != nil {
		util.RespondInternalError(c, "Failed to update ad")
		return
	}

	invalidateAdCache(oldPlacement)
	if ad.Placement != oldPlacement {
		invalidateAdCache(ad.Placement)
	}
	c.JSON(http.StatusOK, ad)
}

// DeleteAd soft-deletes an ad, admin only
// DELETE /api/v1/admin/ads/:id
func (h *Handlers) DeleteAd(c *gin.Context) {
	var ad models.Ad
	if err := database.DB.First(&ad, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "ad")
		return
	}

	if err := database.DB.Delete(&ad).Error; err != nil {
		util.RespondInternalError(c, "Failed to delete ad")
		return
	}

	invalidateAdCache(ad.Placement)
	c.Status(http.StatusNoContent)
}
