package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EntityKind identifies one of the six feed content kinds. It is the first
// half of the composite comment/star key ("<kind>:<entityId>").
type EntityKind string

const (
	KindLocation    EntityKind = "location"
	KindEvent       EntityKind = "event"
	KindMarketplace EntityKind = "marketplace"
	KindCollab      EntityKind = "collab"
	KindCreatorPost EntityKind = "creator-post"
	KindPost        EntityKind = "post"
)

// ValidKind reports whether s names a known entity kind
func ValidKind(s string) bool {
	switch EntityKind(s) {
	case KindLocation, KindEvent, KindMarketplace, KindCollab, KindCreatorPost, KindPost:
		return true
	}
	return false
}

// PostedBy is the author identity snapshot taken at post time.
// It is not live-updated when the author later edits their profile.
type PostedBy struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// SocialLink is one external profile/promo link attached to an entity
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// FeedFields is the base shape shared by all six feed-entity kinds
type FeedFields struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// Author snapshot; posted_by_id is duplicated as a plain column so
	// ownership checks and per-user listings stay indexable.
	PostedByID string   `gorm:"not null;index" json:"-"`
	PostedBy   PostedBy `gorm:"type:jsonb;serializer:json" json:"posted_by"`

	// Scoping fields; empty country code means "unscoped, always visible"
	CountryCode string `gorm:"index" json:"country_code,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`

	ImageURL string `json:"image_url,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FeedCountry implements feed.Item
func (f FeedFields) FeedCountry() string { return f.CountryCode }

// FeedCreatedAt implements feed.Item
func (f FeedFields) FeedCreatedAt() time.Time { return f.CreatedAt }

// FeedOwnerID implements feed.Owned
func (f FeedFields) FeedOwnerID() string { return f.PostedByID }

// LocationType categorizes a map-pinned location
type LocationType string

const (
	LocationHaunting LocationType = "HAUNTING"
	LocationUFO      LocationType = "UFO"
	LocationCryptid  LocationType = "CRYPTID"
	LocationEvent    LocationType = "EVENT"
	LocationCollab   LocationType = "COLLAB"
)

// ValidLocationType reports whether s is a known location type
func ValidLocationType(s string) bool {
	switch LocationType(s) {
	case LocationHaunting, LocationUFO, LocationCryptid, LocationEvent, LocationCollab:
		return true
	}
	return false
}

// Location is a map-pinned place of paranormal interest
type Location struct {
	FeedFields

	Title string       `gorm:"not null" json:"title"`
	Type  LocationType `gorm:"not null;index" json:"type"`
	Lat   float64      `json:"lat"`
	Lng   float64      `json:"lng"`

	Summary string `gorm:"type:text" json:"summary,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`

	VerifiedByOwner bool         `gorm:"default:false" json:"verified_by_owner"`
	SocialLinks     []SocialLink `gorm:"type:jsonb;serializer:json" json:"social_links,omitempty"`

	// Business-owner identity, distinct from the posting author
	OwnerID   string `json:"owner_id,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
}

// Event is a dated happening, optionally pinned to a Location
type Event struct {
	FeedFields

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	StartISO     string `gorm:"index" json:"start_iso,omitempty"`
	EndISO       string `json:"end_iso,omitempty"`
	LocationText string `json:"location_text,omitempty"`
	PriceText    string `json:"price_text,omitempty"`
	Link         string `json:"link,omitempty"`

	LocationID  *string      `gorm:"type:uuid;index" json:"location_id,omitempty"`
	SocialLinks []SocialLink `gorm:"type:jsonb;serializer:json" json:"social_links,omitempty"`
}

// FeedWindow implements feed.Timed
func (e Event) FeedWindow() (string, string) { return e.StartISO, e.EndISO }

// MarketplaceKind distinguishes product from service listings
type MarketplaceKind string

const (
	MarketplaceProduct MarketplaceKind = "product"
	MarketplaceService MarketplaceKind = "service"
)

// MarketplaceItem is a product or service listing
type MarketplaceItem struct {
	FeedFields

	Kind        MarketplaceKind `gorm:"not null;index" json:"kind"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       *float64        `json:"price,omitempty"`

	ContactOrLink string `json:"contact_or_link,omitempty"`
	WebLink       string `json:"web_link,omitempty"`
}

// CollabItem is a collaboration call (ghost hunts, joint investigations)
type CollabItem struct {
	FeedFields

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	DateISO      string `gorm:"index" json:"date_iso,omitempty"`
	LocationText string `json:"location_text,omitempty"`
	PriceText    string `json:"price_text,omitempty"`
	Contact      string `json:"contact,omitempty"`

	LocationID  *string      `gorm:"type:uuid;index" json:"location_id,omitempty"`
	SocialLinks []SocialLink `gorm:"type:jsonb;serializer:json" json:"social_links,omitempty"`
}

// FeedWindow implements feed.Timed. A collab has a single date, so the
// window start and end coincide.
func (ci CollabItem) FeedWindow() (string, string) { return ci.DateISO, ci.DateISO }

// CreatorPost is a creator's video share
type CreatorPost struct {
	FeedFields

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	YouTubeURL  string `gorm:"not null" json:"youtube_url"`

	LocationID   *string `gorm:"type:uuid;index" json:"location_id,omitempty"`
	LocationText string  `json:"location_text,omitempty"`
}

// Post is a generic feed post
type Post struct {
	FeedFields

	Title string `gorm:"not null" json:"title"`
	Desc  string `gorm:"type:text;not null" json:"desc"`

	LocationID *string        `gorm:"type:uuid;index" json:"location_id,omitempty"`
	LinkURL    string         `json:"link_url,omitempty"`
	LinkKind   string         `json:"link_kind,omitempty"`
	TagUserIDs pq.StringArray `gorm:"type:text[]" json:"tag_user_ids,omitempty"`
}

// BeforeCreate hooks assign uuids client-side so the id is known before the
// row lands (the two-phase image upload derives its storage path from it)

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = generateUUID()
	}
	return nil
}

func (m *MarketplaceItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateUUID()
	}
	return nil
}

func (ci *CollabItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == "" {
		ci.ID = generateUUID()
	}
	return nil
}

func (cp *CreatorPost) BeforeCreate(tx *gorm.DB) error {
	if cp.ID == "" {
		cp.ID = generateUUID()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

// Helper function for UUID generation
func generateUUID() string {
	return uuid.New().String()
}
