package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is one user following another
type Follow struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID string `gorm:"not null;uniqueIndex:idx_follows_unique;index" json:"follower_id"`
	FolloweeID string `gorm:"not null;uniqueIndex:idx_follows_unique;index" json:"followee_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

// Conversation is a direct-message thread between two users. The pair is
// normalized (user_a_id < user_b_id) so each pair has exactly one thread.
type Conversation struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserAID string `gorm:"not null;uniqueIndex:idx_conversations_pair;index" json:"user_a_id"`
	UserBID string `gorm:"not null;uniqueIndex:idx_conversations_pair;index" json:"user_b_id"`

	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// OtherParticipant returns the participant that is not userID
func (cv *Conversation) OtherParticipant(userID string) string {
	if cv.UserAID == userID {
		return cv.UserBID
	}
	return cv.UserAID
}

// Includes reports whether userID is part of the conversation
func (cv *Conversation) Includes(userID string) bool {
	return cv.UserAID == userID || cv.UserBID == userID
}

func (cv *Conversation) BeforeCreate(tx *gorm.DB) error {
	if cv.ID == "" {
		cv.ID = generateUUID()
	}
	return nil
}

// NormalizePair orders two user ids for the conversation unique index
func NormalizePair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Message is a single direct message within a conversation
type Message struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ConversationID string `gorm:"not null;index" json:"conversation_id"`
	SenderID       string `gorm:"not null;index" json:"sender_id"`

	Text     string `gorm:"type:text;not null" json:"text"`
	ImageURL string `json:"image_url,omitempty"`

	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateUUID()
	}
	return nil
}

// NotificationType categorizes what produced a notification
type NotificationType string

const (
	NotifyStar    NotificationType = "star"
	NotifyComment NotificationType = "comment"
	NotifyFollow  NotificationType = "follow"
	NotifyMessage NotificationType = "message"
	NotifyTag     NotificationType = "tag"
)

// Notification is a per-recipient event record, pushed over the websocket
// when the recipient is online and listed/marked-read over HTTP.
type Notification struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index:idx_notifications_user" json:"user_id"`

	Type      NotificationType `gorm:"not null" json:"type"`
	ActorID   string           `gorm:"not null" json:"actor_id"`
	ActorName string           `json:"actor_name"`

	// Optional entity reference for star/comment/tag notifications
	Kind     EntityKind `json:"kind,omitempty"`
	EntityID string     `json:"entity_id,omitempty"`

	Message string `gorm:"type:text" json:"message,omitempty"`
	Read    bool   `gorm:"default:false;index:idx_notifications_user" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	return nil
}
