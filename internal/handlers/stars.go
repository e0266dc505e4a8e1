package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/cache"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/middleware"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
	"github.com/paraverse/backend/internal/websocket"
	"gorm.io/gorm"
)

const starCountTTL = 5 * time.Minute

// ToggleStar flips the caller's star on one entity. Starring twice leaves
// exactly one star; the second call removes it. Responds with the new
// aggregate count and the caller's resulting state.
// PUT /api/v1/<kind>/:id/star
func (h *Handlers) ToggleStar(kind models.EntityKind) gin.HandlerFunc {
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

		var existing models.Star
		err = database.DB.
			Where("kind = ? AND entity_id = ? AND user_id = ?", kind, entityID, user.ID).
			First(&existing).Error

		starred := false
		switch {
		case err == nil:
			if err := database.DB.Delete(&existing).Error; err != nil {
				util.RespondInternalError(c, "Failed to remove star")
				return
			}
			middleware.RecordStarToggled(string(kind), "unstar")
		case err == gorm.ErrRecordNotFound:
			star := models.Star{Kind: kind, EntityID: entityID, UserID: user.ID}
			if err := database.DB.Create(&star).Error; err != nil {
				// A concurrent toggle can land first; the unique index
				// keeps the count right either way
				util.RespondInternalError(c, "Failed to add star")
				return
			}
			starred = true
			middleware.RecordStarToggled(string(kind), "star")
			h.notify(models.Notification{
				UserID:    ownerID,
				Type:      models.NotifyStar,
				ActorID:   user.ID,
				ActorName: user.DisplayName,
				Kind:      kind,
				EntityID:  entityID,
				Message:   user.DisplayName + " starred your " + string(kind),
			})
		default:
			util.RespondInternalError(c, "Failed to check star")
			return
		}

		invalidateStarCount(kind, entityID)

		count, err := starCount(kind, entityID)
		if err != nil {
			util.RespondInternalError(c, "Failed to count stars")
			return
		}

		if h.hub != nil {
			h.hub.Broadcast(starUpdateMessage(kind, entityID, count))
		}

		c.JSON(http.StatusOK, gin.H{
			"count":   count,
			"starred": starred,
		})
	}
}

// GetStars returns the aggregate star count for one entity, and whether the
// caller (when authenticated) has starred it
// GET /api/v1/<kind>/:id/stars
func (h *Handlers) GetStars(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		entityID := c.Param("id")

		count, cached := cachedStarCount(kind, entityID)
		if !cached {
			var err error
			count, err = starCount(kind, entityID)
			if err != nil {
				util.RespondInternalError(c, "Failed to count stars")
				return
			}
			cacheStarCount(kind, entityID, count)
		}

		starred := false
		if userID, exists := c.Get("user_id"); exists {
			var n int64
			database.DB.Model(&models.Star{}).
				Where("kind = ? AND entity_id = ? AND user_id = ?", kind, entityID, userID).
				Count(&n)
			starred = n > 0
		}

		c.JSON(http.StatusOK, gin.H{
			"count":   count,
			"starred": starred,
		})
	}
}

func starUpdateMessage(kind models.EntityKind, entityID string, count int64) *websocket.Message {
	return websocket.NewMessage(websocket.MessageTypeStarUpdate, gin.H{
		"kind":      kind,
		"entity_id": entityID,
		"count":     count,
	})
}

func cachedStarCount(kind models.EntityKind, entityID string) (int64, bool) {
	rc := cache.GetRedisClient()
	if rc == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, err := rc.GetInt(ctx, cache.StarCountKey(string(kind), entityID))
	if err != nil {
		if !cache.IsNil(err) {
			middleware.RecordCacheMiss("star_count")
		}
		return 0, false
	}
	middleware.RecordCacheHit("star_count")
	return n, true
}

func cacheStarCount(kind models.EntityKind, entityID string, count int64) {
	rc := cache.GetRedisClient()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = rc.SetEx(ctx, cache.StarCountKey(string(kind), entityID), strconv.FormatInt(count, 10), starCountTTL)
}

func invalidateStarCount(kind models.EntityKind, entityID string) {
	rc := cache.GetRedisClient()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = rc.Del(ctx, cache.StarCountKey(string(kind), entityID))
}
