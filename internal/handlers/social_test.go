package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/paraverse/backend/internal/models"
)

// =============================================================================
// STARS
// =============================================================================

func (suite *HandlersTestSuite) TestToggleStarOn() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Starred Place", "GB")

	w := suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	response := suite.decode(w)
	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, true, response["starred"])
}

func (suite *HandlersTestSuite) TestToggleStarOffOnSecondCall() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Starred Place", "GB")

	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)
	w := suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)

	response := suite.decode(w)
	assert.Equal(t, float64(0), response["count"])
	assert.Equal(t, false, response["starred"])

	var count int64
	suite.db.Model(&models.Star{}).Where("entity_id = ?", loc.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestStarCountAggregatesUsers() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Popular Place", "GB")

	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.testUser.ID, false)
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)

	w := suite.request("GET", "/api/v1/locations/"+loc.ID+"/stars", nil, "", false)
	response := suite.decode(w)
	assert.Equal(t, float64(2), response["count"])
	assert.Equal(t, false, response["starred"])
}

func (suite *HandlersTestSuite) TestGetStarsReportsCallerState() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Starred Place", "GB")
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)

	w := suite.request("GET", "/api/v1/locations/"+loc.ID+"/stars", nil, suite.otherUser.ID, false)
	response := suite.decode(w)
	assert.Equal(t, true, response["starred"])

	w = suite.request("GET", "/api/v1/locations/"+loc.ID+"/stars", nil, suite.testUser.ID, false)
	response = suite.decode(w)
	assert.Equal(t, false, response["starred"])
}

func (suite *HandlersTestSuite) TestStarNotifiesEntityOwner() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Starred Place", "GB")
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.otherUser.ID, false)

	var notifications []models.Notification
	suite.db.Where("user_id = ?", suite.testUser.ID).Find(&notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotifyStar, notifications[0].Type)
}

func (suite *HandlersTestSuite) TestSelfStarDoesNotNotify() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "My Place", "GB")
	suite.request("PUT", "/api/v1/locations/"+loc.ID+"/star", nil, suite.testUser.ID, false)

	var count int64
	suite.db.Model(&models.Notification{}).Where("user_id = ?", suite.testUser.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestStarMissingEntity() {
	t := suite.T()

	w := suite.request("PUT", "/api/v1/locations/00000000-0000-0000-0000-000000000000/star", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =============================================================================
// COMMENTS
// =============================================================================

func (suite *HandlersTestSuite) TestCreateComment() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Commented Place", "GB")

	w := suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text": "Visited last week, very cold spots",
	}, suite.otherUser.ID, false)

	assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	response := suite.decode(w)
	assert.Equal(t, suite.otherUser.ID, response["author_id"])
	assert.Equal(t, "Other User", response["author_name"])

	// Owner gets a comment notification
	var notifications []models.Notification
	suite.db.Where("user_id = ? AND type = ?", suite.testUser.ID, models.NotifyComment).Find(&notifications)
	assert.Len(t, notifications, 1)
}

func (suite *HandlersTestSuite) TestCreateCommentOnMissingEntity() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/locations/00000000-0000-0000-0000-000000000000/comments", map[string]interface{}{
		"text": "Anyone home?",
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestListCommentsOldestFirst() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Commented Place", "GB")

	for _, text := range []string{"first", "second", "third"} {
		w := suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
			"text": text,
		}, suite.testUser.ID, false)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := suite.request("GET", "/api/v1/locations/"+loc.ID+"/comments", nil, "", false)
	response := suite.decode(w)
	comments := response["comments"].([]interface{})
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].(map[string]interface{})["text"])
	assert.Equal(t, "third", comments[2].(map[string]interface{})["text"])
}

func (suite *HandlersTestSuite) TestReplySurvivesParentDelete() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Threaded Place", "GB")

	w := suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text": "parent",
	}, suite.testUser.ID, false)
	parentID := suite.decode(w)["id"].(string)

	w = suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text":      "reply",
		"parent_id": parentID,
	}, suite.otherUser.ID, false)
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request("DELETE", "/api/v1/comments/"+parentID, nil, suite.testUser.ID, false)
	require.Equal(t, http.StatusNoContent, w.Code)

	// The reply stays, still pointing at the deleted parent id
	w = suite.request("GET", "/api/v1/locations/"+loc.ID+"/comments", nil, "", false)
	comments := suite.decode(w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	reply := comments[0].(map[string]interface{})
	assert.Equal(t, "reply", reply["text"])
	assert.Equal(t, parentID, reply["parent_id"])
}

func (suite *HandlersTestSuite) TestReplyToForeignParentRejected() {
	t := suite.T()

	locA := suite.createLocation(suite.testUser, "Place A", "GB")
	locB := suite.createLocation(suite.testUser, "Place B", "GB")

	w := suite.request("POST", "/api/v1/locations/"+locA.ID+"/comments", map[string]interface{}{
		"text": "parent on A",
	}, suite.testUser.ID, false)
	parentID := suite.decode(w)["id"].(string)

	w = suite.request("POST", "/api/v1/locations/"+locB.ID+"/comments", map[string]interface{}{
		"text":      "reply on B",
		"parent_id": parentID,
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateCommentNonAuthorForbidden() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Commented Place", "GB")
	w := suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text": "original",
	}, suite.testUser.ID, false)
	commentID := suite.decode(w)["id"].(string)

	w = suite.request("PUT", "/api/v1/comments/"+commentID, map[string]interface{}{
		"text": "vandalized",
	}, suite.otherUser.ID, false)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestAdminCanDeleteAnyComment() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Commented Place", "GB")
	w := suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text": "rule-breaking comment",
	}, suite.otherUser.ID, false)
	commentID := suite.decode(w)["id"].(string)

	w = suite.request("DELETE", "/api/v1/comments/"+commentID, nil, suite.adminUser.ID, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteCommentIdempotent() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Commented Place", "GB")
	w := suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text": "fleeting",
	}, suite.testUser.ID, false)
	commentID := suite.decode(w)["id"].(string)

	w = suite.request("DELETE", "/api/v1/comments/"+commentID, nil, suite.testUser.ID, false)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Deleting again is a no-op; the end state is the same
	w = suite.request("DELETE", "/api/v1/comments/"+commentID, nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func (suite *HandlersTestSuite) TestCommentTagNotifications() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Commented Place", "GB")

	w := suite.request("POST", "/api/v1/locations/"+loc.ID+"/comments", map[string]interface{}{
		"text":         "look at this @Other",
		"tag_user_ids": []string{suite.otherUser.ID},
	}, suite.adminUser.ID, false)
	require.Equal(t, http.StatusCreated, w.Code)

	var tagged []models.Notification
	suite.db.Where("user_id = ? AND type = ?", suite.otherUser.ID, models.NotifyTag).Find(&tagged)
	assert.Len(t, tagged, 1)
}

// =============================================================================
// FOLLOWS
// =============================================================================

func (suite *HandlersTestSuite) TestFollowUser() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusCreated, w.Code)

	var notifications []models.Notification
	suite.db.Where("user_id = ? AND type = ?", suite.otherUser.ID, models.NotifyFollow).Find(&notifications)
	assert.Len(t, notifications, 1)
}

func (suite *HandlersTestSuite) TestFollowUserTwiceKeepsOneRow() {
	t := suite.T()

	suite.request("POST", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)
	w := suite.request("POST", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestFollowSelfRejected() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/users/"+suite.testUser.ID+"/follow", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUnfollowUser() {
	t := suite.T()

	suite.request("POST", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)
	w := suite.request("DELETE", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestUnfollowNeverFollowed() {
	t := suite.T()

	w := suite.request("DELETE", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func (suite *HandlersTestSuite) TestListFollowers() {
	t := suite.T()

	suite.request("POST", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)
	suite.request("POST", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.adminUser.ID, false)

	w := suite.request("GET", "/api/v1/users/"+suite.otherUser.ID+"/followers", nil, "", false)
	response := suite.decode(w)
	assert.Equal(t, float64(2), response["count"])

	w = suite.request("GET", "/api/v1/users/"+suite.testUser.ID+"/following", nil, "", false)
	response = suite.decode(w)
	assert.Equal(t, float64(1), response["count"])
}
