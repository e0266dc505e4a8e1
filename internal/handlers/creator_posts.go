package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/feed"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/scope"
	"github.com/paraverse/backend/internal/util"
)

// ListCreatorPosts returns creator video shares under the resolved scope,
// newest first
// GET /api/v1/creator-posts?country=&limit=&offset=
func (h *Handlers) ListCreatorPosts(c *gin.Context) {
	start := time.Now()
	countryScope := resolveScope(c)

	var posts []models.CreatorPost
	if err := database.DB.Order("created_at DESC").Find(&posts).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch creator posts")
		return
	}

	posts = feed.FilterScope(posts, countryScope)
	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), defaultFeedLimit, maxFeedLimit)
	posts = paginate(posts, limit, offset)

	middleware.RecordFeedGeneration(string(models.KindCreatorPost), time.Since(start), len(posts))
	c.JSON(http.StatusOK, gin.H{
		"creator_posts": posts,
		"scope":         countryScope,
	})
}

// CreateCreatorPostRequest is the payload for creating a creator post
type CreateCreatorPostRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=200"`
	Description  string `json:"description"`
	YouTubeURL   string `json:"youtube_url" binding:"required"`
	LocationText string `json:"location_text"`
	CountryCode  string `json:"country_code"`
	PostalCode   string `json:"postal_code"`

	LocationID *string `json:"location_id"`
}

// CreateCreatorPost creates a creator video share
// POST /api/v1/creator-posts
func (h *Handlers) CreateCreatorPost(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req CreateCreatorPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if !strings.Contains(req.YouTubeURL, "youtube.com/") && !strings.Contains(req.YouTubeURL, "youtu.be/") {
		util.RespondValidationError(c, "youtube_url", "must be a YouTube link")
		return
	}

	post := models.CreatorPost{
		FeedFields: models.FeedFields{
			PostedByID:  user.ID,
			PostedBy:    user.Snapshot(),
			CountryCode: scope.Normalize(req.CountryCode),
			PostalCode:  req.PostalCode,
		},
		Title:        req.Title,
		Description:  req.Description,
		YouTubeURL:   req.YouTubeURL,
		LocationText: req.LocationText,
		LocationID:   req.LocationID,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		util.RespondInternalError(c, "Failed to create creator post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetCreatorPost returns a single creator post
// GET /api/v1/creator-posts/:id
func (h *Handlers) GetCreatorPost(c *gin.Context) {
	var post models.CreatorPost
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "creator post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdateCreatorPostRequest carries optional fields; nil means "leave untouched"
type UpdateCreatorPostRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	YouTubeURL   *string `json:"youtube_url,omitempty"`
	LocationText *string `json:"location_text,omitempty"`
	CountryCode  *string `json:"country_code,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`

	LocationID *string `json:"location_id,omitempty"`
}

// UpdateCreatorPost applies a partial update, author or admin only
// PUT /api/v1/creator-posts/:id
func (h *Handlers) UpdateCreatorPost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.CreatorPost
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "creator post")
		return
	}

	if !feed.CanManage(post.PostedByID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can edit this creator post")
		return
	}

	var req UpdateCreatorPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	patch := util.NewPatch().
		SetString("title", req.Title).
		SetString("description", req.Description).
		SetString("you_tube_url", req.YouTubeURL).
		SetString("location_text", req.LocationText).
		SetString("postal_code", req.PostalCode).
		SetString("image_url", req.ImageURL)
	if req.CountryCode != nil {
		patch.Set("country_code", scope.Normalize(*req.CountryCode))
	}
	if req.LocationID != nil {
		patch.Set("location_id", req.LocationID)
	}

	if patch.Empty() {
		c.JSON(http.StatusOK, post)
		return
	}

	if err := database.DB.Model(&post).Updates(map[string]interface{}(patch)).Error; err != nil {
		util.RespondInternalError(c, "Failed to update creator post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeleteCreatorPost soft-deletes a creator post, author or admin only
// DELETE /api/v1/creator-posts/:id
func (h *Handlers) DeleteCreatorPost(c *gin.Context) {
	h.deleteEntity(c, models.KindCreatorPost, &models.CreatorPost{})
}
