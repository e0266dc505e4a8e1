package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/feed"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/scope"
	"github.com/paraverse/backend/internal/util"
)

// ListPosts returns generic feed posts under the resolved scope, newest first
// GET /api/v1/posts?country=&limit=&offset=
func (h *Handlers) ListPosts(c *gin.Context) {
	start := time.Now()
	countryScope := resolveScope(c)

	var posts []models.Post
	if err := database.DB.Order("created_at DESC").Find(&posts).Error; err != nil {
		util.RespondInternalError(c, "Failed to fetch posts")
		return
	}

	posts = feed.FilterScope(posts, countryScope)
	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), defaultFeedLimit, maxFeedLimit)
	posts = paginate(posts, limit, offset)

	middleware.RecordFeedGeneration(string(models.KindPost), time.Since(start), len(posts))
	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"scope": countryScope,
	})
}

// CreatePostRequest is the payload for creating a post
type CreatePostRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Desc        string `json:"desc" binding:"required"`
	CountryCode string `json:"country_code"`
	PostalCode  string `json:"postal_code"`

	LinkURL  string `json:"link_url"`
	LinkKind string `json:"link_kind"`

	LocationID *string  `json:"location_id"`
	TagUserIDs []string `json:"tag_user_ids"`
}

// CreatePost creates a post and notifies any tagged users
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	post := models.Post{
		FeedFields: models.FeedFields{
			PostedByID:  user.ID,
			PostedBy:    user.Snapshot(),
			CountryCode: scope.Normalize(req.CountryCode),
			PostalCode:  req.PostalCode,
		},
		Title:      req.Title,
		Desc:       req.Desc,
		LinkURL:    req.LinkURL,
		LinkKind:   req.LinkKind,
		LocationID: req.LocationID,
		TagUserIDs: pq.StringArray(req.TagUserIDs),
	}

	if err := database.DB.Create(&post).Error; err != nil {
		util.RespondInternalError(c, "Failed to create post")
		return
	}

	for _, taggedID := range req.TagUserIDs {
		h.notify(models.Notification{
			UserID:    taggedID,
			Type:      models.NotifyTag,
			ActorID:   user.ID,
			ActorName: user.DisplayName,
			Kind:      models.KindPost,
			EntityID:  post.ID,
			Message:   user.DisplayName + " tagged you in a post",
		})
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePostRequest carries optional fields; nil means "leave untouched"
type UpdatePostRequest struct {
	Title       *string `json:"title,omitempty"`
	Desc        *string `json:"desc,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	LinkURL     *string `json:"link_url,omitempty"`
	LinkKind    *string `json:"link_kind,omitempty"`

	LocationID *string   `json:"location_id,omitempty"`
	TagUserIDs *[]string `json:"tag_user_ids,omitempty"`
}

// UpdatePost applies a partial update, author or admin only
// PUT /api/v1/posts/:id
func (h *Handlers) UpdatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	if !feed.CanManage(post.PostedByID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can edit this post")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	patch := util.NewPatch().
		SetString("title", req.Title).
		SetString("desc", req.Desc).
		SetString("postal_code", req.PostalCode).
		SetString("image_url", req.ImageURL).
		SetString("link_url", req.LinkURL).
		SetString("link_kind", req.LinkKind).
		SetStrings("tag_user_ids", req.TagUserIDs)
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
		util.RespondInternalError(c, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes a post, author or admin only
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	h.deleteEntity(c, models.KindPost, &models.Post{})
}
