package handlers

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/paraverse/backend/internal/models"
)

func (suite *HandlersTestSuite) openConversation(from, to *models.User) string {
	w := suite.request("POST", "/api/v1/conversations", map[string]interface{}{
		"user_id": to.ID,
	}, from.ID, false)
	require.Contains(suite.T(), []int{http.StatusOK, http.StatusCreated}, w.Code, "Response body: %s", w.Body.String())
	return suite.decode(w)["id"].(string)
}

func (suite *HandlersTestSuite) TestOpenConversationCreatesThread() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/conversations", map[string]interface{}{
		"user_id": suite.otherUser.ID,
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func (suite *HandlersTestSuite) TestOpenConversationIsIdempotentPerPair() {
	t := suite.T()

	first := suite.openConversation(suite.testUser, suite.otherUser)
	// Opening from the other side lands on the same normalized thread
	second := suite.openConversation(suite.otherUser, suite.testUser)
	assert.Equal(t, first, second)

	var count int64
	suite.db.Model(&models.Conversation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestOpenConversationWithSelfRejected() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/conversations", map[string]interface{}{
		"user_id": suite.testUser.ID,
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestSendAndListMessages() {
	t := suite.T()

	conversationID := suite.openConversation(suite.testUser, suite.otherUser)

	w := suite.request("POST", "/api/v1/conversations/"+conversationID+"/messages", map[string]interface{}{
		"text": "Did you see the footage?",
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = suite.request("GET", "/api/v1/conversations/"+conversationID+"/messages", nil, suite.otherUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	messages := suite.decode(w)["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "Did you see the footage?", messages[0].(map[string]interface{})["text"])
}

func (suite *HandlersTestSuite) TestSendMessageNonParticipantForbidden() {
	t := suite.T()

	conversationID := suite.openConversation(suite.testUser, suite.otherUser)

	w := suite.request("POST", "/api/v1/conversations/"+conversationID+"/messages", map[string]interface{}{
		"text": "let me in",
	}, suite.adminUser.ID, false)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestSendMessageBumpsThreadActivity() {
	t := suite.T()

	conversationID := suite.openConversation(suite.testUser, suite.otherUser)

	var before models.Conversation
	require.NoError(t, suite.db.First(&before, "id = ?", conversationID).Error)

	time.Sleep(10 * time.Millisecond)
	suite.request("POST", "/api/v1/conversations/"+conversationID+"/messages", map[string]interface{}{
		"text": "bump",
	}, suite.testUser.ID, false)

	var after models.Conversation
	require.NoError(t, suite.db.First(&after, "id = ?", conversationID).Error)
	assert.True(t, after.LastMessageAt.After(before.LastMessageAt))
}

func (suite *HandlersTestSuite) TestListConversationsOrderAndUnread() {
	t := suite.T()

	older := suite.openConversation(suite.testUser, suite.otherUser)
	suite.request("POST", "/api/v1/conversations/"+older+"/messages", map[string]interface{}{
		"text": "old thread",
	}, suite.otherUser.ID, false)

	time.Sleep(10 * time.Millisecond)
	newer := suite.openConversation(suite.testUser, suite.adminUser)
	suite.request("POST", "/api/v1/conversations/"+newer+"/messages", map[string]interface{}{
		"text": "new thread",
	}, suite.adminUser.ID, false)

	w := suite.request("GET", "/api/v1/conversations", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	conversations := suite.decode(w)["conversations"].([]interface{})
	require.Len(t, conversations, 2)

	first := conversations[0].(map[string]interface{})
	assert.Equal(t, newer, first["id"])
	assert.Equal(t, float64(1), first["unread_count"])

	peer := first["peer"].(map[string]interface{})
	assert.Equal(t, suite.adminUser.ID, peer["id"])
}

func (suite *HandlersTestSuite) TestListMessagesMarksRead() {
	t := suite.T()

	conversationID := suite.openConversation(suite.testUser, suite.otherUser)
	suite.request("POST", "/api/v1/conversations/"+conversationID+"/messages", map[string]interface{}{
		"text": "unread until opened",
	}, suite.otherUser.ID, false)

	suite.request("GET", "/api/v1/conversations/"+conversationID+"/messages", nil, suite.testUser.ID, false)

	var unread int64
	suite.db.Model(&models.Message{}).
		Where("conversation_id = ? AND read_at IS NULL", conversationID).
		Count(&unread)
	assert.Equal(t, int64(0), unread)
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (suite *HandlersTestSuite) TestListNotificationsWithUnreadCount() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Busy Place", "GB")
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)
	suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text": "hello",
	}, suite.otherUser.ID, false)

	w := suite.request("GET", "/api/v1/notifications", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.Len(t, response["notifications"].([]interface{}), 2)
	assert.Equal(t, float64(2), response["unread_count"])
}

func (suite *HandlersTestSuite) TestCountNotifications() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Busy Place", "GB")
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)

	w := suite.request("GET", "/api/v1/notifications/count", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.decode(w)["unread_count"])

	w = suite.request("GET", "/api/v1/notifications/count", nil, suite.otherUser.ID, false)
	assert.Equal(t, float64(0), suite.decode(w)["unread_count"])
}

func (suite *HandlersTestSuite) TestMarkNotificationsReadAll() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Busy Place", "GB")
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)

	w := suite.request("POST", "/api/v1/notifications/read", map[string]interface{}{}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = suite.request("GET", "/api/v1/notifications", nil, suite.testUser.ID, false)
	response := suite.decode(w)
	assert.Equal(t, float64(0), response["unread_count"])
}

func (suite *HandlersTestSuite) TestMarkNotificationsReadOnlyOwn() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Busy Place", "GB")
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)

	var notification models.Notification
	require.NoError(t, suite.db.First(&notification, "user_id = ?", suite.testUser.ID).Error)

	// Someone else naming the id cannot flip it
	suite.request("POST", "/api/v1/notifications/read", map[string]interface{}{
		"ids": []string{notification.ID},
	}, suite.otherUser.ID, false)

	suite.db.First(&notification, "id = ?", notification.ID)
	assert.False(t, notification.Read)
}
