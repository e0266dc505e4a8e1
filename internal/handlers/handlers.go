package handlers

import (
	"github.com/paraverse/backend/internal/auth"
	"github.com/paraverse/backend/internal/email"
	"github.com/paraverse/backend/internal/geocode"
	"github.com/paraverse/backend/internal/storage"
	"github.com/paraverse/backend/internal/websocket"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth     *auth.Service
	uploader storage.ImageUploader
	geocoder *geocode.Client
	mailer   *email.EmailService
	hub      *websocket.Hub
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service) *Handlers {
	return &Handlers{
		auth: authService,
	}
}

// SetUploader sets the S3 image uploader
func (h *Handlers) SetUploader(uploader storage.ImageUploader) {
	h.uploader = uploader
}

// SetGeocoder sets the postal-code geocoding client
func (h *Handlers) SetGeocoder(geocoder *geocode.Client) {
	h.geocoder = geocoder
}

// SetMailer sets the SES email service
func (h *Handlers) SetMailer(mailer *email.EmailService) {
	h.mailer = mailer
}

// SetHub sets the WebSocket hub for real-time push
func (h *Handlers) SetHub(hub *websocket.Hub) {
	h.hub = hub
}
