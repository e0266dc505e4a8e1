package handlers

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/paraverse/backend/internal/models"
)

func (suite *HandlersTestSuite) createAd(placement, title string, active bool, priority int, from, to *time.Time) *models.Ad {
	ad := &models.Ad{
		Placement:  placement,
		Title:      title,
		IsActive:   active,
		Priority:   priority,
		ActiveFrom: from,
		ActiveTo:   to,
	}
	require.NoError(suite.T(), suite.db.Create(ad).Error)
	return ad
}

func (suite *HandlersTestSuite) TestGetAdsFiltersAndOrders() {
	t := suite.T()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	suite.createAd("feed-top", "Low Priority", true, 1, nil, nil)
	suite.createAd("feed-top", "High Priority", true, 10, nil, nil)
	suite.createAd("feed-top", "Disabled", false, 99, nil, nil)
	suite.createAd("feed-top", "Expired", true, 99, nil, &past)
	suite.createAd("feed-top", "Not Yet", true, 99, &future, nil)
	suite.createAd("sidebar", "Other Placement", true, 99, nil, nil)

	w := suite.request("GET", "/api/v1/ads/feed-top", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.Equal(t, false, response["fallback"])

	served := response["ads"].([]interface{})
	require.Len(t, served, 2)
	assert.Equal(t, "High Priority", served[0].(map[string]interface{})["title"])
	assert.Equal(t, "Low Priority", served[1].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestGetAdsEmptyPlacementFallback() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/ads/nowhere", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.Equal(t, true, response["fallback"])
	assert.Empty(t, response["ads"])
}

func (suite *HandlersTestSuite) TestGetAdsMaxCap() {
	t := suite.T()

	for i := 0; i < 5; i++ {
		suite.createAd("feed-top", "Ad", true, i, nil, nil)
	}

	w := suite.request("GET", "/api/v1/ads/feed-top?max=2", nil, "", false)
	response := suite.decode(w)
	assert.Len(t, response["ads"].([]interface{}), 2)
}

func (suite *HandlersTestSuite) TestCreateAdRequiresAdmin() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/admin/ads", map[string]interface{}{
		"placement": "feed-top",
		"title":     "Sneaky Ad",
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestAdminAdLifecycle() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/admin/ads", map[string]interface{}{
		"placement": "feed-top",
		"title":     "Ghost Tours Ltd",
		"priority":  5,
	}, suite.adminUser.ID, true)
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
	adID := suite.decode(w)["id"].(string)

	w = suite.request("PUT", "/api/v1/admin/ads/"+adID, map[string]interface{}{
		"is_active": false,
	}, suite.adminUser.ID, true)
	assert.Equal(t, http.StatusOK, w.Code)

	// Deactivated ads disappear from the public endpoint
	w = suite.request("GET", "/api/v1/ads/feed-top", nil, "", false)
	assert.Equal(t, true, suite.decode(w)["fallback"])

	w = suite.request("DELETE", "/api/v1/admin/ads/"+adID, nil, suite.adminUser.ID, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = suite.request("GET", "/api/v1/admin/ads", nil, suite.adminUser.ID, true)
	assert.Empty(t, suite.decode(w)["ads"])
}

// =============================================================================
// USER PROFILES
// =============================================================================

func (suite *HandlersTestSuite) TestGetUserPublicProfile() {
	t := suite.T()

	suite.request("POST", "/api/v1/users/"+suite.otherUser.ID+"/follow", nil, suite.testUser.ID, false)

	w := suite.request("GET", "/api/v1/users/"+suite.otherUser.ID, nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "Other User", user["display_name"])
	// Email never leaks through the public profile
	assert.NotContains(t, user, "email")
	assert.Equal(t, float64(1), response["followers"])
}

func (suite *HandlersTestSuite) TestUpdateMeSavesCountryPreference() {
	t := suite.T()

	w := suite.request("PUT", "/api/v1/users/me", map[string]interface{}{
		"country_code": "fr",
		"bio":          "Chasing shadows since 2019",
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, suite.db.First(&user, "id = ?", suite.testUser.ID).Error)
	assert.Equal(t, "FR", user.CountryCode)
	assert.Equal(t, "Chasing shadows since 2019", user.Bio)
}

func (suite *HandlersTestSuite) TestUpdateMeRejectsLongDisplayName() {
	t := suite.T()

	w := suite.request("PUT", "/api/v1/users/me", map[string]interface{}{
		"display_name": "this display name is entirely too long to be allowed here",
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateMeEmptyBodyNoChange() {
	t := suite.T()

	w := suite.request("PUT", "/api/v1/users/me", map[string]interface{}{}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, suite.db.First(&user, "id = ?", suite.testUser.ID).Error)
	assert.Equal(t, "Test User", user.DisplayName)
}
