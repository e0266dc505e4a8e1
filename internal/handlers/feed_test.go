package handlers

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/paraverse/backend/internal/models"
)

// =============================================================================
// LOCATION CRUD
// =============================================================================

func (suite *HandlersTestSuite) TestCreateLocation() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/locations", map[string]interface{}{
		"title":        "Borley Rectory",
		"type":         "HAUNTING",
		"lat":          51.94,
		"lng":          0.69,
		"country_code": "gb",
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	response := suite.decode(w)
	assert.Equal(t, "Borley Rectory", response["title"])
	// Country codes are normalized to uppercase on the way in
	assert.Equal(t, "GB", response["country_code"])
	assert.NotEmpty(t, response["id"])

	postedBy := response["posted_by"].(map[string]interface{})
	assert.Equal(t, suite.testUser.ID, postedBy["id"])
}

func (suite *HandlersTestSuite) TestCreateLocationInvalidType() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/locations", map[string]interface{}{
		"title": "Somewhere",
		"type":  "SPOOKY",
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateLocationUnauthenticated() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/locations", map[string]interface{}{
		"title": "Somewhere",
		"type":  "UFO",
	}, "", false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestGetLocation() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Pendle Hill", "GB")

	w := suite.request("GET", "/api/v1/locations/"+loc.ID, nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.Equal(t, "Pendle Hill", response["title"])
}

func (suite *HandlersTestSuite) TestGetLocationNotFound() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/locations/00000000-0000-0000-0000-000000000000", nil, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateLocationPartial() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Old Title", "GB")

	w := suite.request("PUT", "/api/v1/locations/"+loc.ID, map[string]interface{}{
		"summary": "New summary",
	}, suite.testUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	// Untouched fields survive a partial update
	var updated models.Location
	require.NoError(t, suite.db.First(&updated, "id = ?", loc.ID).Error)
	assert.Equal(t, "Old Title", updated.Title)
	assert.Equal(t, "New summary", updated.Summary)
}

func (suite *HandlersTestSuite) TestUpdateLocationNonOwnerForbidden() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Mine", "GB")

	w := suite.request("PUT", "/api/v1/locations/"+loc.ID, map[string]interface{}{
		"title": "Hijacked",
	}, suite.otherUser.ID, false)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestAdminCanUpdateAnyLocation() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Mine", "GB")

	w := suite.request("PUT", "/api/v1/locations/"+loc.ID, map[string]interface{}{
		"title": "Moderated",
	}, suite.adminUser.ID, true)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Location
	require.NoError(t, suite.db.First(&updated, "id = ?", loc.ID).Error)
	assert.Equal(t, "Moderated", updated.Title)
}

func (suite *HandlersTestSuite) TestDeleteLocation() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Ephemeral", "GB")

	w := suite.request("DELETE", "/api/v1/locations/"+loc.ID, nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = suite.request("GET", "/api/v1/locations/"+loc.ID, nil, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteLocationIdempotent() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Ephemeral", "GB")

	w := suite.request("DELETE", "/api/v1/locations/"+loc.ID, nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Deleting again reports success, not 404
	w = suite.request("DELETE", "/api/v1/locations/"+loc.ID, nil, suite.testUser.ID, false)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteLocationNonOwnerForbidden() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Mine", "GB")

	w := suite.request("DELETE", "/api/v1/locations/"+loc.ID, nil, suite.otherUser.ID, false)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("GET", "/api/v1/locations/"+loc.ID, nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestAdminCanDeleteAnyLocation() {
	t := suite.T()

	loc := suite.createLocation(suite.testUser, "Flagged", "GB")

	w := suite.request("DELETE", "/api/v1/locations/"+loc.ID, nil, suite.adminUser.ID, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// =============================================================================
// SCOPE FILTERING
// =============================================================================

func (suite *HandlersTestSuite) TestListLocationsScopedByQuery() {
	t := suite.T()

	suite.createLocation(suite.testUser, "GB Location", "GB")
	suite.createLocation(suite.testUser, "US Location", "US")
	suite.createLocation(suite.testUser, "Unscoped Location", "")

	w := suite.request("GET", "/api/v1/locations?country=GB", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.Equal(t, "GB", response["scope"])

	locations := response["locations"].([]interface{})
	titles := make([]string, 0, len(locations))
	for _, l := range locations {
		titles = append(titles, l.(map[string]interface{})["title"].(string))
	}
	assert.Contains(t, titles, "GB Location")
	assert.Contains(t, titles, "Unscoped Location")
	assert.NotContains(t, titles, "US Location")
}

func (suite *HandlersTestSuite) TestListLocationsEUWildcard() {
	t := suite.T()

	suite.createLocation(suite.testUser, "French Location", "FR")
	suite.createLocation(suite.testUser, "German Location", "DE")
	suite.createLocation(suite.testUser, "US Location", "US")

	w := suite.request("GET", "/api/v1/locations?country=EU", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	locations := response["locations"].([]interface{})
	// EU admits every non-US scope rather than enumerating member states
	assert.Len(t, locations, 2)
}

func (suite *HandlersTestSuite) TestListLocationsSavedPreferenceFallback() {
	t := suite.T()

	suite.createLocation(suite.testUser, "GB Location", "GB")
	suite.createLocation(suite.testUser, "US Location", "US")

	// otherUser's saved preference is US; no query value given
	w := suite.request("GET", "/api/v1/locations", nil, suite.otherUser.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.Equal(t, "US", response["scope"])

	locations := response["locations"].([]interface{})
	assert.Len(t, locations, 1)
	assert.Equal(t, "US Location", locations[0].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestListLocationsQueryBeatsSavedPreference() {
	t := suite.T()

	suite.createLocation(suite.testUser, "GB Location", "GB")

	// Query scope wins over otherUser's saved US preference
	w := suite.request("GET", "/api/v1/locations?country=GB", nil, suite.otherUser.ID, false)
	response := suite.decode(w)
	assert.Equal(t, "GB", response["scope"])
	assert.Len(t, response["locations"].([]interface{}), 1)
}

func (suite *HandlersTestSuite) TestListLocationsAnonymousDefaultsToGB() {
	t := suite.T()

	suite.createLocation(suite.testUser, "GB Location", "GB")
	suite.createLocation(suite.testUser, "US Location", "US")

	w := suite.request("GET", "/api/v1/locations", nil, "", false)
	response := suite.decode(w)
	assert.Equal(t, "GB", response["scope"])
}

func (suite *HandlersTestSuite) TestListLocationsTypeFilter() {
	t := suite.T()

	suite.createLocation(suite.testUser, "Haunted House", "GB")
	ufo := &models.Location{
		FeedFields: models.FeedFields{
			PostedByID:  suite.testUser.ID,
			PostedBy:    suite.testUser.Snapshot(),
			CountryCode: "GB",
		},
		Title: "Rendlesham Forest",
		Type:  models.LocationUFO,
	}
	require.NoError(t, suite.db.Create(ufo).Error)

	w := suite.request("GET", "/api/v1/locations?country=GB&type=UFO", nil, "", false)
	response := suite.decode(w)
	locations := response["locations"].([]interface{})
	assert.Len(t, locations, 1)
	assert.Equal(t, "Rendlesham Forest", locations[0].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestListLocationsPagination() {
	t := suite.T()

	for i := 0; i < 5; i++ {
		suite.createLocation(suite.testUser, "Location", "GB")
	}

	w := suite.request("GET", "/api/v1/locations?country=GB&limit=2&offset=4", nil, "", false)
	response := suite.decode(w)
	assert.Len(t, response["locations"].([]interface{}), 1)
}

// =============================================================================
// EVENTS
// =============================================================================

func (suite *HandlersTestSuite) createEvent(title, startISO, endISO string) *models.Event {
	event := &models.Event{
		FeedFields: models.FeedFields{
			PostedByID:  suite.testUser.ID,
			PostedBy:    suite.testUser.Snapshot(),
			CountryCode: "GB",
		},
		Title:    title,
		StartISO: startISO,
		EndISO:   endISO,
	}
	require.NoError(suite.T(), suite.db.Create(event).Error)
	return event
}

func (suite *HandlersTestSuite) TestListEventsActiveViewHidesPast() {
	t := suite.T()

	past := time.Now().AddDate(0, 0, -7).Format(time.RFC3339)
	future := time.Now().AddDate(0, 0, 7).Format(time.RFC3339)

	suite.createEvent("Past Hunt", past, past)
	suite.createEvent("Future Hunt", future, future)

	w := suite.request("GET", "/api/v1/events?country=GB", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	events := response["events"].([]interface{})
	assert.Len(t, events, 1)
	assert.Equal(t, "Future Hunt", events[0].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestListEventsActiveKeepsRunningEvent() {
	t := suite.T()

	start := time.Now().AddDate(0, 0, -2).Format(time.RFC3339)
	end := time.Now().AddDate(0, 0, 2).Format(time.RFC3339)
	suite.createEvent("Running Festival", start, end)

	w := suite.request("GET", "/api/v1/events?country=GB", nil, "", false)
	response := suite.decode(w)
	assert.Len(t, response["events"].([]interface{}), 1)
}

func (suite *HandlersTestSuite) TestListEventsActiveSortedBySchedule() {
	t := suite.T()

	later := time.Now().AddDate(0, 0, 14).Format(time.RFC3339)
	sooner := time.Now().AddDate(0, 0, 3).Format(time.RFC3339)

	suite.createEvent("Later Event", later, later)
	suite.createEvent("Sooner Event", sooner, sooner)

	w := suite.request("GET", "/api/v1/events?country=GB", nil, "", false)
	response := suite.decode(w)
	events := response["events"].([]interface{})
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner Event", events[0].(map[string]interface{})["title"])
	assert.Equal(t, "Later Event", events[1].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestListEventsUndatedSortsLast() {
	t := suite.T()

	soon := time.Now().AddDate(0, 0, 1).Format(time.RFC3339)
	suite.createEvent("Dated Event", soon, soon)
	suite.createEvent("Undated Event", "", "")

	w := suite.request("GET", "/api/v1/events?country=GB", nil, "", false)
	response := suite.decode(w)
	events := response["events"].([]interface{})
	require.Len(t, events, 2)
	assert.Equal(t, "Dated Event", events[0].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestListEventsAllViewShowsPastSortedByDate() {
	t := suite.T()

	past := time.Now().AddDate(0, 0, -7).Format(time.RFC3339)
	future := time.Now().AddDate(0, 0, 7).Format(time.RFC3339)
	suite.createEvent("Future Hunt", future, future)
	suite.createEvent("Past Hunt", past, past)

	w := suite.request("GET", "/api/v1/events?country=GB&view=all", nil, "", false)
	response := suite.decode(w)
	events := response["events"].([]interface{})
	require.Len(t, events, 2)

	// The event date stays the sort key even when past events are shown
	assert.Equal(t, "Future Hunt", events[0].(map[string]interface{})["title"])
	assert.Equal(t, "Past Hunt", events[1].(map[string]interface{})["title"])
}

// =============================================================================
// MARKETPLACE
// =============================================================================

func (suite *HandlersTestSuite) TestCreateMarketplaceItemInvalidKind() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/marketplace", map[string]interface{}{
		"kind":        "rental",
		"title":       "EMF Reader",
		"description": "Barely used",
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestListMarketplaceKindFilter() {
	t := suite.T()

	for _, item := range []struct {
		kind  models.MarketplaceKind
		title string
	}{
		{models.MarketplaceProduct, "EMF Reader"},
		{models.MarketplaceService, "Tarot Reading"},
	} {
		record := &models.MarketplaceItem{
			FeedFields: models.FeedFields{
				PostedByID:  suite.testUser.ID,
				PostedBy:    suite.testUser.Snapshot(),
				CountryCode: "GB",
			},
			Kind:        item.kind,
			Title:       item.title,
			Description: "desc",
		}
		require.NoError(t, suite.db.Create(record).Error)
	}

	w := suite.request("GET", "/api/v1/marketplace?country=GB&kind=service", nil, "", false)
	response := suite.decode(w)
	items := response["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, "Tarot Reading", items[0].(map[string]interface{})["title"])
}

// =============================================================================
// COLLABS AND CREATOR POSTS
// =============================================================================

func (suite *HandlersTestSuite) TestListCollabsActiveHidesPastDates() {
	t := suite.T()

	past := time.Now().AddDate(0, 0, -3).Format(time.RFC3339)
	future := time.Now().AddDate(0, 0, 3).Format(time.RFC3339)

	for _, collab := range []struct{ title, date string }{
		{"Past Investigation", past},
		{"Future Investigation", future},
	} {
		record := &models.CollabItem{
			FeedFields: models.FeedFields{
				PostedByID:  suite.testUser.ID,
				PostedBy:    suite.testUser.Snapshot(),
				CountryCode: "GB",
			},
			Title:   collab.title,
			DateISO: collab.date,
		}
		require.NoError(t, suite.db.Create(record).Error)
	}

	w := suite.request("GET", "/api/v1/collabs?country=GB", nil, "", false)
	response := suite.decode(w)
	collabs := response["collabs"].([]interface{})
	assert.Len(t, collabs, 1)
	assert.Equal(t, "Future Investigation", collabs[0].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestListCollabsAllViewSortedByDate() {
	t := suite.T()

	past := time.Now().AddDate(0, 0, -3).Format(time.RFC3339)
	future := time.Now().AddDate(0, 0, 3).Format(time.RFC3339)

	for _, collab := range []struct{ title, date string }{
		{"Future Investigation", future},
		{"Past Investigation", past},
	} {
		record := &models.CollabItem{
			FeedFields: models.FeedFields{
				PostedByID:  suite.testUser.ID,
				PostedBy:    suite.testUser.Snapshot(),
				CountryCode: "GB",
			},
			Title:   collab.title,
			DateISO: collab.date,
		}
		require.NoError(t, suite.db.Create(record).Error)
	}

	w := suite.request("GET", "/api/v1/collabs?country=GB&view=all", nil, "", false)
	response := suite.decode(w)
	collabs := response["collabs"].([]interface{})
	require.Len(t, collabs, 2)
	assert.Equal(t, "Future Investigation", collabs[0].(map[string]interface{})["title"])
	assert.Equal(t, "Past Investigation", collabs[1].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestCreateCreatorPostRequiresYouTubeURL() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/creator-posts", map[string]interface{}{
		"title":       "My Investigation",
		"youtube_url": "https://vimeo.com/12345",
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateCreatorPost() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/creator-posts", map[string]interface{}{
		"title":        "Night at Chillingham",
		"youtube_url":  "https://www.youtube.com/watch?v=abc123",
		"country_code": "GB",
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
}

// =============================================================================
// POSTS
// =============================================================================

func (suite *HandlersTestSuite) TestCreatePostNotifiesTaggedUsers() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/posts", map[string]interface{}{
		"title":        "Strange lights",
		"desc":         "Anyone else see this?",
		"country_code": "GB",
		"tag_user_ids": []string{suite.otherUser.ID},
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	var notifications []models.Notification
	suite.db.Where("user_id = ?", suite.otherUser.ID).Find(&notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotifyTag, notifications[0].Type)
	assert.Equal(t, suite.testUser.ID, notifications[0].ActorID)
}

func (suite *HandlersTestSuite) TestCreatePostRequiresDesc() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/posts", map[string]interface{}{
		"title": "No body",
	}, suite.testUser.ID, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
