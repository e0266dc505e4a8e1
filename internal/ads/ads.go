// Package ads implements ad-slot selection and carousel rotation. Selection
// is pure: candidates and the clock are passed in, the store query lives in
// the handler layer.
package ads

import (
	"sort"
	"time"

	"github.com/paraverse/backend/internal/models"
)

// PlacementKind controls how a page region renders its ads
type PlacementKind string

const (
	// PlacementCarousel rotates through all qualifying ads with prev/next
	PlacementCarousel PlacementKind = "carousel"
	// PlacementInline renders up to MaxItems static cards
	PlacementInline PlacementKind = "inline"
)

// DefaultMaxItems is the inline-card cap when a placement does not set one
const DefaultMaxItems = 1

// SelectActive keeps the ads eligible for display at the given instant:
// active flag set, and now inside [active_from, active_to] where bounds are
// present. The result is ordered by priority descending; the sort is stable
// so equal-priority ads keep their input order.
func SelectActive(candidates []models.Ad, now time.Time) []models.Ad {
	out := make([]models.Ad, 0, len(candidates))
	for _, ad := range candidates {
		if !ad.IsActive {
			continue
		}
		if ad.ActiveFrom != nil && now.Before(*ad.ActiveFrom) {
			continue
		}
		if ad.ActiveTo != nil && now.After(*ad.ActiveTo) {
			continue
		}
		out = append(out, ad)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Cap limits an inline placement to maxItems cards (DefaultMaxItems when
// maxItems is not positive)
func Cap(selected []models.Ad, maxItems int) []models.Ad {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if len(selected) > maxItems {
		return selected[:maxItems]
	}
	return selected
}

// Carousel cycles an index through a fixed set of ads with wraparound.
// A carousel over zero ads stays pinned at index 0 and the caller renders
// the provider-fallback stub instead.
type Carousel struct {
	n     int
	index int
}

// NewCarousel creates a carousel over n ads
func NewCarousel(n int) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{n: n}
}

// Index returns the current position
func (c *Carousel) Index() int {
	return c.index
}

// Next advances with wraparound and returns the new index
func (c *Carousel) Next() int {
	if c.n > 0 {
		c.index = (c.index + 1) % c.n
	}
	return c.index
}

// Prev steps back with wraparound and returns the new index
func (c *Carousel) Prev() int {
	if c.n > 0 {
		c.index = (c.index - 1 + c.n) % c.n
	}
	return c.index
}
