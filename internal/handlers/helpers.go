package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/feed"
	"github.com/paraverse/backend/internal/logger"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/scope"
	"github.com/paraverse/backend/internal/util"
	"github.com/paraverse/backend/internal/websocket"
	"go.uber.org/zap"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 250

	// Uploaded images are capped at 10MB
	maxImageBytes = 10 << 20
)

// resolveScope picks the country scope for a feed request: explicit query
// value, then the account's saved preference, then the Accept-Language
// region, then the default
func resolveScope(c *gin.Context) string {
	saved := ""
	if user, exists := c.Get("user"); exists {
		if u, ok := user.(*models.User); ok {
			saved = u.CountryCode
		}
	}
	return scope.Resolve(c.Query("country"), saved, c.GetHeader("Accept-Language"))
}

// entityOwner returns the posting author of any feed entity, with found
// reporting whether the row exists
func entityOwner(kind models.EntityKind, entityID string) (ownerID string, found bool, err error) {
	var row struct {
		PostedByID string
	}

	table, ok := entityTables[kind]
	if !ok {
		return "", false, fmt.Errorf("unknown entity kind %q", kind)
	}

	result := database.DB.Table(table).
		Select("posted_by_id").
		Where("id = ? AND deleted_at IS NULL", entityID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return row.PostedByID, true, nil
}

// entityTables maps entity kinds to their table names
var entityTables = map[models.EntityKind]string{
	models.KindLocation:    "locations",
	models.KindEvent:       "events",
	models.KindMarketplace: "marketplace_items",
	models.KindCollab:      "collab_items",
	models.KindCreatorPost: "creator_posts",
	models.KindPost:        "posts",
}

// starCount aggregates the live star total for an entity
func starCount(kind models.EntityKind, entityID string) (int64, error) {
	var count int64
	err := database.DB.Model(&models.Star{}).
		Where("kind = ? AND entity_id = ?", kind, entityID).
		Count(&count).Error
	return count, err
}

// notify persists a notification and pushes it to the recipient when online.
// Self-notifications are dropped. Failures are logged, never surfaced; a
// missed notification must not fail the action that caused it.
func (h *Handlers) notify(n models.Notification) {
	if n.UserID == "" || n.UserID == n.ActorID {
		return
	}

	if err := database.DB.Create(&n).Error; err != nil {
		logger.Log.Warn("Failed to create notification",
			zap.String("type", string(n.Type)),
			zap.Error(err),
		)
		return
	}

	if h.hub != nil {
		h.hub.SendToUser(n.UserID, websocket.NewMessage(websocket.MessageTypeNotification, n))
	}
}

// paginate applies limit/offset to an in-memory slice, after scope
// filtering has run
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// deleteEntity soft-deletes any feed entity, author or admin only.
// Deleting a row that is already gone succeeds; the end state is the same.
func (h *Handlers) deleteEntity(c *gin.Context, kind models.EntityKind, model interface{}) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("id")

	ownerID, found, err := entityOwner(kind, entityID)
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch "+string(kind))
		return
	}
	if !found {
		c.Status(http.StatusNoContent)
		return
	}

	if !feed.CanManage(ownerID, userID, util.IsAdminFromContext(c)) {
		util.RespondForbidden(c, "only the author or an admin can delete this "+string(kind))
		return
	}

	if err := database.DB.Where("id = ?", entityID).Delete(model).Error; err != nil {
		util.RespondInternalError(c, "Failed to delete "+string(kind))
		return
	}

	c.Status(http.StatusNoContent)
}

// readImageUpload pulls the "image" form file, enforcing the size cap
func readImageUpload(c *gin.Context) ([]byte, *multipart.FileHeader, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		util.RespondBadRequest(c, "image file is required")
		return nil, nil, false
	}
	if fileHeader.Size > maxImageBytes {
		util.RespondBadRequest(c, "image exceeds the 10MB limit")
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.RespondInternalError(c, "Failed to read upload")
		return nil, nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil || int64(len(data)) > maxImageBytes {
		util.RespondInternalError(c, "Failed to read upload")
		return nil, nil, false
	}

	return data, fileHeader, true
}
