package ads

import (
	"testing"
	"time"

	"github.com/paraverse/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSelectActive(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	candidates := []models.Ad{
		{ID: "inactive", IsActive: false, Priority: 100},
		{ID: "unbounded", IsActive: true, Priority: 1},
		{ID: "in-window", IsActive: true, Priority: 5, ActiveFrom: &past, ActiveTo: &future},
		{ID: "not-started", IsActive: true, Priority: 9, ActiveFrom: &future},
		{ID: "expired", IsActive: true, Priority: 9, ActiveTo: &past},
		{ID: "open-ended", IsActive: true, Priority: 3, ActiveFrom: &past},
	}

	selected := SelectActive(candidates, now)

	ids := make([]string, len(selected))
	for i, ad := range selected {
		ids[i] = ad.ID
	}
	assert.Equal(t, []string{"in-window", "open-ended", "unbounded"}, ids)
}

func TestSelectActiveStableForEqualPriority(t *testing.T) {
	now := time.Now()
	candidates := []models.Ad{
		{ID: "first", IsActive: true, Priority: 2},
		{ID: "second", IsActive: true, Priority: 2},
	}

	selected := SelectActive(candidates, now)
	assert.Equal(t, "first", selected[0].ID)
	assert.Equal(t, "second", selected[1].ID)
}

func TestCap(t *testing.T) {
	sel := []models.Ad{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Len(t, Cap(sel, 2), 2)
	assert.Len(t, Cap(sel, 0), DefaultMaxItems)
	assert.Len(t, Cap(sel, 10), 3)
}

func TestCarouselWraparound(t *testing.T) {
	c := NewCarousel(3)

	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 1, c.Next())
	assert.Equal(t, 2, c.Next())
	assert.Equal(t, 0, c.Next(), "next wraps to start")

	assert.Equal(t, 2, c.Prev(), "prev wraps to end")
	assert.Equal(t, 1, c.Prev())
}

func TestCarouselEmpty(t *testing.T) {
	c := NewCarousel(0)
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, 0, c.Prev())
}
