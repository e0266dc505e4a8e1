package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Comment is attached to any feed entity through the composite
// (kind, entity_id) key. A non-null parent_id makes it a reply; depth is
// not capped and deleting a parent does not remove its replies.
type Comment struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Kind     EntityKind `gorm:"not null;index:idx_comments_entity" json:"kind"`
	EntityID string     `gorm:"not null;index:idx_comments_entity" json:"entity_id"`

	Text       string `gorm:"type:text;not null" json:"text"`
	AuthorID   string `gorm:"not null;index" json:"author_id"`
	AuthorName string `gorm:"not null" json:"author_name"`

	ParentID *string `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	ImageURL   string         `json:"image_url,omitempty"`
	TagUserIDs pq.StringArray `gorm:"type:text[]" json:"tag_user_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the composite "<kind>:<entityId>" string the original store
// keyed comments by
func (c *Comment) Key() string {
	return string(c.Kind) + ":" + c.EntityID
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

// Star is one user's star on one entity. Counts are always derived by
// aggregating these rows; nothing caches a counter that could desync.
// The unique (kind, entity_id, user_id) index makes starring idempotent
// per user and closes the concurrent-increment race.
type Star struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Kind     EntityKind `gorm:"not null;uniqueIndex:idx_stars_unique" json:"kind"`
	EntityID string     `gorm:"not null;uniqueIndex:idx_stars_unique" json:"entity_id"`
	UserID   string     `gorm:"not null;uniqueIndex:idx_stars_unique;index" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *Star) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}
