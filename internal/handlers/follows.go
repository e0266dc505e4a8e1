package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
	"gorm.io/gorm"
)

// FollowUser makes the caller follow another user. Following twice is a
// no-op; the unique pair index keeps one row per relationship.
// POST /api/v1/users/:id/follow
func (h *Handlers) FollowUser(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	followeeID := c.Param("id")
	if followeeID == user.ID {
		util.RespondBadRequest(c, "cannot follow yourself")
		return
	}

	var followee models.User
	if err := database.DB.First(&followee, "id = ?", followeeID).Error; err != nil {
		util.HandleDBError(c, err, "user")
		return
	}

	var existing models.Follow
	err := database.DB.
		Where("follower_id = ? AND followee_id = ?", user.ID, followeeID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if err != gorm.ErrRecordNotFound {
		util.RespondInternalError(c, "Failed to check follow")
		return
	}

	follow := models.Follow{FollowerID: user.ID, FolloweeID: followeeID}
	if err := database.DB.Create(&follow).Error; err != nil {
		util.RespondInternalError(c, "Failed to follow user")
		return
	}

	h.notify(models.Notification{
		UserID:    followeeID,
		Type:      models.NotifyFollow,
		ActorID:   user.ID,
		ActorName: user.DisplayName,
		Message:   user.DisplayName + " started following you",
	})

	c.JSON(http.StatusCreated, follow)
}

// UnfollowUser removes the caller's follow. Unfollowing someone never
// followed responds 204 all the same.
// DELETE /api/v1/users/:id/follow
func (h *Handlers) UnfollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := database.DB.
		Where("follower_id = ? AND followee_id = ?", userID, c.Param("id")).
		Delete(&models.Follow{}).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to unfollow user")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFollowers returns the users following :id
// GET /api/v1/users/:id/followers
func (h *Handlers) ListFollowers(c *gin.Context) {
	var users []models.User
	err := database.DB.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", c.Param("id")).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": publicProfiles(users),
		"count": len(users),
	})
}

// ListFollowing returns the users :id follows
// GET /api/v1/users/:id/following
func (h *Handlers) ListFollowing(c *gin.Context) {
	var users []models.User
	err := database.DB.
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", c.Param("id")).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch following")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": publicProfiles(users),
		"count": len(users),
	})
}
