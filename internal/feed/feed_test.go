package feed

import (
	"testing"
	"time"

	"github.com/paraverse/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func location(country string, created time.Time) models.Location {
	return models.Location{
		FeedFields: models.FeedFields{
			CountryCode: country,
			CreatedAt:   created,
		},
		Title: "test location",
		Type:  models.LocationHaunting,
	}
}

func event(start, end string, created time.Time) models.Event {
	return models.Event{
		FeedFields: models.FeedFields{CreatedAt: created},
		Title:      "test event",
		StartISO:   start,
		EndISO:     end,
	}
}

func TestInScope(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		country string
		scope   string
		want    bool
	}{
		{"exact match", "GB", "GB", true},
		{"case-insensitive match", "gb", "GB", true},
		{"different concrete code", "GB", "US", false},
		{"wildcard includes everything", "GB", "EU", true},
		{"wildcard case-insensitive", "GB", "eu", true},
		{"unscoped entity visible under any concrete scope", "", "US", true},
		{"unscoped entity visible under wildcard", "", "EU", true},
		{"empty scope disables filtering", "GB", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loc := location(tc.country, now)
			assert.Equal(t, tc.want, InScope(loc, tc.scope))
		})
	}
}

func TestFilterScope(t *testing.T) {
	now := time.Now()
	items := []models.Location{
		location("GB", now),
		location("US", now),
		location("", now),
		location("gb", now),
	}

	gb := FilterScope(items, "GB")
	assert.Len(t, gb, 3) // GB, unscoped, gb

	us := FilterScope(items, "US")
	assert.Len(t, us, 2) // US, unscoped

	all := FilterScope(items, ScopeAll)
	assert.Len(t, all, 4)
}

func TestSortKeyFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		want  time.Time
	}{
		{"rfc3339 start", "2026-06-01T18:00:00Z", time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)},
		{"date-only start", "2026-06-01", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"datetime-local start", "2026-06-01T18:00", time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)},
		{"missing start", "", created},
		{"malformed start", "next tuesday", created},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := event(tc.start, "", created)
			assert.True(t, tc.want.Equal(SortKey(ev)), "want %v got %v", tc.want, SortKey(ev))
		})
	}
}

func TestEndKeyPreference(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// end wins over start
	ev := event("2026-06-01T10:00:00Z", "2026-06-02T10:00:00Z", created)
	assert.Equal(t, 2, EndKey(ev).Day())

	// start when no end
	ev = event("2026-06-01T10:00:00Z", "", created)
	assert.Equal(t, 1, EndKey(ev).Day())

	// createdAt when neither parses
	ev = event("garbage", "also garbage", created)
	assert.True(t, created.Equal(EndKey(ev)))
}

func TestFilterActiveHidesPastEvents(t *testing.T) {
	now := time.Now().UTC()
	future := event(now.Add(time.Hour).Format(time.RFC3339), "", now.Add(-24*time.Hour))
	past := event(now.Add(-time.Hour).Format(time.RFC3339), "", now.Add(-24*time.Hour))

	active := FilterActive([]models.Event{future, past}, now)
	assert.Len(t, active, 1)
	assert.Equal(t, future.StartISO, active[0].StartISO)

	// the unfiltered list keeps both
	all := []models.Event{future, past}
	SortBySchedule(all)
	assert.Len(t, all, 2)
	assert.Equal(t, future.StartISO, all[0].StartISO, "future event sorts first")
}

func TestFilterActiveKeepsRunningEvents(t *testing.T) {
	now := time.Now().UTC()
	// started yesterday, ends tomorrow
	running := event(
		now.Add(-24*time.Hour).Format(time.RFC3339),
		now.Add(24*time.Hour).Format(time.RFC3339),
		now.Add(-48*time.Hour),
	)
	active := FilterActive([]models.Event{running}, now)
	assert.Len(t, active, 1)
}

func TestSortByCreatedStable(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := location("GB", base)
	a.ID = "a"
	b := location("GB", base)
	b.ID = "b"
	c := location("GB", base.Add(time.Hour))
	c.ID = "c"

	items := []models.Location{a, b, c}
	SortByCreated(items)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "b", items[2].ID)

	// repeated sorts must not reorder equal keys
	SortByCreated(items)
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		userID  string
		isAdmin bool
		want    bool
	}{
		{"owner, not admin", "u1", "u1", false, true},
		{"owner and admin", "u1", "u1", true, true},
		{"not owner, admin", "u1", "u2", true, true},
		{"not owner, not admin", "u1", "u2", false, false},
		{"empty owner never matches", "", "", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanManage(tc.ownerID, tc.userID, tc.isAdmin))
		})
	}
}

func TestMarketplaceSubFilter(t *testing.T) {
	items := []models.MarketplaceItem{
		{Kind: models.MarketplaceProduct, Title: "emf reader"},
		{Kind: models.MarketplaceService, Title: "house cleansing"},
		{Kind: models.MarketplaceProduct, Title: "spirit box"},
	}

	products := Filter(items, func(m models.MarketplaceItem) bool {
		return m.Kind == models.MarketplaceProduct
	})
	assert.Len(t, products, 2)

	services := Filter(items, func(m models.MarketplaceItem) bool {
		return m.Kind == models.MarketplaceService
	})
	assert.Len(t, services, 1)
	assert.Equal(t, "house cleansing", services[0].Title)
}
