package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/feed"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
	"gorm.io/gorm"
)

// ListComments returns all comments on one entity, oldest first. Replies are
// interleaved flat; the client rebuilds the thread from parent_id.
// GET /api/v1/<kind>/:id/comments
func (h *Handlers) ListComments(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var comments []models.Comment
		err := database.DB.
			Where("kind = ? AND entity_id = ?", kind, c.Param("id")).
			Order("created_at ASC").
			Find(&comments).Error
		if err != nil {
			util.RespondInternalError(c, "Failed to fetch comments")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"comments": comments,
			"count":    len(comments),
		})
	}
}

// CreateCommentRequest is the payload for posting a comment or reply
type CreateCommentRequest struct {
	Text       string   `json:"text" binding:"required,min=1,max=4000"`
	ParentID   *string  `json:"parent_id"`
	ImageURL   string   `json:"image_url"`
	TagUserIDs []string `json:"tag_user_ids"`
}

// CreateComment posts a comment on one entity. The entity owner gets a
// notification, as does each tagged user.
// POST /api/v1/<kind>/:id/comments
func (h *Handlers) CreateComment(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := util.GetUserFromContext(c)
		if !ok {
			return
		}

		entityID := c.Param("id")
		ownerID, found, err := entityOwner(kind, entityID)
		if err != nil {
			util.RespondInternalError(c, "Failed to verify entity")
			return
		}
		if !found {
			util.RespondNotFound(c, string(kind))
			return
		}

		var req CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondBadRequest(c, err.Error())
			return
		}

		if req.ParentID != nil {
			var parent models.Comment
			err := database.DB.
				Where("id = ? AND kind = ? AND entity_id = ?", *req.ParentID, kind, entityID).
				First(&parent).Error
			if err != nil {
				util.RespondBadRequest(c, "parent comment not found on this entity")
				return
			}
		}

		comment := models.Comment{
			Kind:       kind,
			EntityID:   entityID,
			Text:       req.Text,
			AuthorID:   user.ID,
			AuthorName: user.DisplayName,
			ParentID:   req.ParentID,
			ImageURL:   req.ImageURL,
			TagUserIDs: pq.StringArray(req.TagUserIDs),
		}

		if err := database.DB.Create(&comment).Error; err != nil {
			util.RespondInternalError(c, "Failed to create comment")
			return
		}

		middleware.RecordCommentCreated(string(kind))

		h.notify(models.Notification{
			UserID:    ownerID,
			Type:      models.NotifyComment,
			ActorID:   user.ID,
			ActorName: user.DisplayName,
			Kind:      kind,
			EntityID:  entityID,
			Message:   user.DisplayName + " commented on your " + string(kind),
		})
		for _, taggedID := range req.TagUserIDs {
			if taggedID == ownerID {
				continue
			}
			h.notify(models.Notification{
				UserID:    taggedID,
				Type:      models.NotifyTag,
				ActorID:   user.ID,
				ActorName: user.DisplayName,
				Kind:      kind,
				EntityID:  entityID,
				Message:   user.DisplayName + " tagged you in a comment",
			})
		}

		c.JSON(http.StatusCreated, comment)
	}
}

// UpdateCommentRequest edits the text of an existing comment
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=4000"`
}

// UpdateComment edits a comment's text, author or admin only
// PUT /api/v1/comments/:id
func (h *Handlers) UpdateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "comment")
		return
	}

	if !feed.CanManage(comment.AuthorID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can edit this comment")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if err := database.DB.Model(&comment).Update("text", req.Text).Error; err != nil {
		util.RespondInternalError(c, "Failed to update comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a single comment. Replies keep their parent_id and
// stay in the thread; deletion never cascades.
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	// A comment that is already gone is a successful delete
	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.Status(http.StatusNoContent)
			return
		}
		util.RespondInternalError(c, "Failed to fetch comment")
		return
	}

	if !feed.CanManage(comment.AuthorID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can delete this comment")
		return
	}

	if err := database.DB.Delete(&comment).Error; err != nil {
		util.RespondInternalError(c, "Failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
