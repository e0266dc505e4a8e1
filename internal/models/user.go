package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User represents a Paraverse account
type User struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio,omitempty"`

	// Native auth fields
	PasswordHash *string `gorm:"type:text" json:"-"`

	// OAuth provider id (nullable - users can have native accounts)
	GoogleID *string `gorm:"uniqueIndex" json:"-"`

	// Profile data
	AvatarURL   string       `json:"avatar_url,omitempty"`
	SocialLinks []SocialLink `gorm:"type:jsonb;serializer:json" json:"social_links,omitempty"`

	// Saved country scope preference, uppercase ISO-ish code.
	// Second step of the scope resolution chain after an explicit query value.
	CountryCode string `json:"country_code,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Snapshot returns the author identity to embed in a feed entity at post time
func (u *User) Snapshot() PostedBy {
	return PostedBy{
		ID:        u.ID,
		Name:      u.DisplayName,
		AvatarURL: u.AvatarURL,
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

// AdminRolesID is the primary key of the singleton roles row
const AdminRolesID = "admin_roles"

// AdminRoles is the singleton record granting elevated privileges:
// admins are listed by user id, superadmins by email.
type AdminRoles struct {
	ID               string         `gorm:"primaryKey" json:"id"`
	AdminIDs         pq.StringArray `gorm:"type:text[]" json:"admins"`
	SuperadminEmails pq.StringArray `gorm:"type:text[]" json:"superadmins"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName keeps the singleton in its own meta table
func (AdminRoles) TableName() string {
	return "meta_admin_roles"
}

// Grants reports whether the given user holds admin or superadmin rights
func (r *AdminRoles) Grants(userID, email string) bool {
	if r == nil {
		return false
	}
	for _, id := range r.AdminIDs {
		if id == userID {
			return true
		}
	}
	for _, e := range r.SuperadminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}
