package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
)

// ListNotifications returns the caller's notifications, newest first
// GET /api/v1/notifications?limit=&offset=
func (h *Handlers) ListNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), 50, 200)

	var notifications []models.Notification
	err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch notifications")
		return
	}

	var unread int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// CountNotifications returns the caller's unread notification count. Cheap
// enough for the client to poll between WebSocket pushes.
// GET /api/v1/notifications/count
func (h *Handlers) CountNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var unread int64
	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": unread})
}

// MarkNotificationsReadRequest names the notifications to mark. An empty
// list marks everything.
type MarkNotificationsReadRequest struct {
	IDs []string `json:"ids"`
}

// MarkNotificationsRead marks the caller's notifications as read
// POST /api/v1/notifications/read
func (h *Handlers) MarkNotificationsRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req MarkNotificationsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	q := database.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	if len(req.IDs) > 0 {
		q = q.Where("id IN ?", req.IDs)
	}
	if err := q.Update("read", true).Error; err != nil {
		util.RespondInternalError(c, "Failed to mark notifications read")
		return
	}

	c.Status(http.StatusNoContent)
}
