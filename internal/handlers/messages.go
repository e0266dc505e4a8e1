package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
	"github.com/paraverse/backend/internal/websocket"
	"gorm.io/gorm"
)

// ConversationSummary is one thread in the caller's inbox listing
type ConversationSummary struct {
	models.Conversation
	Peer        PublicProfile `json:"peer"`
	UnreadCount int64         `json:"unread_count"`
}

// ListConversations returns the caller's threads, most recent activity first
// GET /api/v1/conversations
func (h *Handlers) ListConversations(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var conversations []models.Conversation
	err := database.DB.
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&conversations).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch conversations")
		return
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for i := range conversations {
		cv := conversations[i]

		var peer models.User
		if err := database.DB.First(&peer, "id = ?", cv.OtherParticipant(userID)).Error; err != nil {
			continue
		}

		var unread int64
		database.DB.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", cv.ID, userID).
			Count(&unread)

		summaries = append(summaries, ConversationSummary{
			Conversation: cv,
			Peer:         publicProfile(&peer),
			UnreadCount:  unread,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// OpenConversationRequest names the peer to open a thread with
type OpenConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// OpenConversation returns the caller's thread with the given user, creating
// it when none exists. The normalized pair index guarantees one thread per
// pair even under concurrent opens.
// POST /api/v1/conversations
func (h *Handlers) OpenConversation(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if req.UserID == userID {
		util.RespondBadRequest(c, "cannot open a conversation with yourself")
		return
	}

	var peer models.User
	if err := database.DB.First(&peer, "id = ?", req.UserID).Error; err != nil {
		util.HandleDBError(c, err, "user")
		return
	}

	a, b := models.NormalizePair(userID, req.UserID)

	var conversation models.Conversation
	err := database.DB.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&conversation).Error
	if err == nil {
		c.JSON(http.StatusOK, conversation)
		return
	}
	if err != gorm.ErrRecordNotFound {
		util.RespondInternalError(c, "Failed to fetch conversation")
		return
	}

	conversation = models.Conversation{UserAID: a, UserBID: b, LastMessageAt: time.Now()}
	if err := database.DB.Create(&conversation).Error; err != nil {
		util.RespondInternalError(c, "Failed to create conversation")
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

// ListMessages returns a thread's messages oldest first, and marks the
// peer's messages read
// GET /api/v1/conversations/:id/messages
func (h *Handlers) ListMessages(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var conversation models.Conversation
	if err := database.DB.First(&conversation, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "conversation")
		return
	}
	if !conversation.Includes(userID) {
		util.RespondForbidden(c, "not a participant in this conversation")
		return
	}

	limit, offset := util.ParseLimitOffset(c.Query("limit"), c.Query("offset"), 100, 500)

	var messages []models.Message
	err := database.DB.
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch messages")
		return
	}

	now := time.Now()
	database.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversation.ID, userID).
		Update("read_at", &now)

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessageRequest is the payload for one direct message
type SendMessageRequest struct {
	Text     string `json:"text" binding:"required,min=1,max=4000"`
	ImageURL string `json:"image_url"`
}

// SendMessage appends a message to a thread, bumps its activity timestamp
// and pushes it to the recipient over the websocket when they are online
// POST /api/v1/conversations/:id/messages
func (h *Handlers) SendMessage(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var conversation models.Conversation
	if err := database.DB.First(&conversation, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "conversation")
		return
	}
	if !conversation.Includes(user.ID) {
		util.RespondForbidden(c, "not a participant in this conversation")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		Text:           req.Text,
		ImageURL:       req.ImageURL,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		util.RespondInternalError(c, "Failed to send message")
		return
	}

	database.DB.Model(&conversation).Update("last_message_at", time.Now())

	recipientID := conversation.OtherParticipant(user.ID)
	delivered := false
	if h.hub != nil && h.hub.IsUserOnline(recipientID) {
		h.hub.SendToUser(recipientID, websocket.NewMessage(websocket.MessageTypeDirectMessage, gin.H{
			"conversation_id": conversation.ID,
			"message":         message,
			"sender_name":     user.DisplayName,
		}))
		delivered = true
	}

	// Offline recipients get a notification instead of the live push
	if !delivered {
		h.notify(models.Notification{
			UserID:    recipientID,
			Type:      models.NotifyMessage,
			ActorID:   user.ID,
			ActorName: user.DisplayName,
			Message:   user.DisplayName + " sent you a message",
		})
	}

	c.JSON(http.StatusCreated, message)
}
