// Package feed implements the shared rules every feed kind runs through at
// read time: country-scope filtering, hide-past filtering for dated kinds,
// stable descending ordering by the kind's effective date key, and the
// single ownership predicate that gates edit/delete.
//
// Everything here is pure: scope and clock are passed in, nothing reaches
// for globals or the database.
package feed

import (
	"sort"
	"strings"
	"time"
)

// ScopeAll is the special scope value that disables country filtering
const ScopeAll = "EU"

// Item is the minimal surface every feed entity exposes
type Item interface {
	FeedCountry() string
	FeedCreatedAt() time.Time
}

// Owned is implemented by kinds whose rows carry an author id
type Owned interface {
	FeedOwnerID() string
}

// Timed is implemented by kinds with a schedule window (events, collabs).
// The raw ISO strings come straight from user input and may be malformed;
// parsing failures fall back to the creation time rather than dropping the
// item.
type Timed interface {
	Item
	FeedWindow() (startISO, endISO string)
}

// InScope reports whether an item is visible under the given country scope.
// The ScopeAll wildcard includes everything; an item without a country code
// is unscoped and visible everywhere; otherwise the codes must match
// case-insensitively.
func InScope(item Item, scope string) bool {
	if scope == "" || strings.EqualFold(scope, ScopeAll) {
		return true
	}
	country := item.FeedCountry()
	if country == "" {
		return true
	}
	return strings.EqualFold(country, scope)
}

// FilterScope keeps the items visible under scope, preserving input order
func FilterScope[T Item](items []T, scope string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if InScope(it, scope) {
			out = append(out, it)
		}
	}
	return out
}

// Filter keeps the items matching pred, preserving input order
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// SortKey returns the time an item sorts by: its schedule start when it
// parses, otherwise its creation time.
func SortKey(t Timed) time.Time {
	start, _ := t.FeedWindow()
	if ts, ok := parseISO(start); ok {
		return ts
	}
	return t.FeedCreatedAt()
}

// EndKey returns the time an item stops being "active": its schedule end,
// else its start, else its creation time.
func EndKey(t Timed) time.Time {
	start, end := t.FeedWindow()
	if ts, ok := parseISO(end); ok {
		return ts
	}
	if ts, ok := parseISO(start); ok {
		return ts
	}
	return t.FeedCreatedAt()
}

// FilterActive drops items whose effective end is strictly before now
func FilterActive[T Timed](items []T, now time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !EndKey(it).Before(now) {
			out = append(out, it)
		}
	}
	return out
}

// SortByCreated orders items newest-first. The sort is stable so repeated
// sorts of equal-dated items keep their relative order.
func SortByCreated[T Item](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].FeedCreatedAt().After(items[j].FeedCreatedAt())
	})
}

// SortBySchedule orders timed items by their effective date key, newest
// first, stable.
func SortBySchedule[T Timed](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return SortKey(items[i]).After(SortKey(items[j]))
	})
}

/// CanManage is the single authorization predicate for edit/delete: the
// entity's author, or anyone holding the admin role.
func CanManage(ownerID, userID string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return ownerID != "" && ownerID == userID
}

// iso layouts accepted from form input, tried in order
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseISO(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
