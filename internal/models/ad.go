package models

import (
	"time"

	"gorm.io/gorm"
)

// Ad is a piece of sponsored content bound to a placement key. Selection
// rules (active flag, schedule window, priority order) live in internal/ads.
type Ad struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Placement string `gorm:"not null;index" json:"placement"`

	Title    string `gorm:"not null" json:"title"`
	Body     string `gorm:"type:text" json:"body,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
	Priority int  `gorm:"default:0" json:"priority"`

	// Optional schedule bounds; nil means unbounded on that side
	ActiveFrom *time.Time `json:"active_from,omitempty"`
	ActiveTo   *time.Time `json:"active_to,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = generateUUID()
	}
	return nil
}
