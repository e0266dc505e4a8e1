package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/scope"
	"github.com/paraverse/backend/internal/util"
)

// PublicProfile is the subset of a user visible to everyone else
type PublicProfile struct {
	ID          string              `json:"id"`
	DisplayName string              `json:"display_name"`
	Bio         string              `json:"bio,omitempty"`
	AvatarURL   string              `json:"avatar_url,omitempty"`
	SocialLinks []models.SocialLink `json:"social_links,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func publicProfile(u *models.User) PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		SocialLinks: u.SocialLinks,
		CreatedAt:   u.CreatedAt,
	}
}

func publicProfiles(users []models.User) []PublicProfile {
	profiles := make([]PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, publicProfile(&users[i]))
	}
	return profiles
}

// GetUser returns another user's public profile with follow counts
// GET /api/v1/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "user")
		return
	}

	var followers, following int64
	database.DB.Model(&models.Follow{}).Where("followee_id = ?", user.ID).Count(&followers)
	database.DB.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&following)

	profile := publicProfile(&user)
	c.JSON(http.StatusOK, gin.H{
		"user":      profile,
		"followers": followers,
		"following": following,
	})
}

// UpdateProfileRequest carries optional profile fields; nil means untouched
type UpdateProfileRequest struct {
	DisplayName *string              `json:"display_name,omitempty"`
	Bio         *string              `json:"bio,omitempty"`
	CountryCode *string              `json:"country_code,omitempty"`
	SocialLinks *[]models.SocialLink `json:"social_links,omitempty"`
}

// UpdateMe applies a partial update to the caller's own profile. Setting
// country_code stores the saved scope preference used when feed requests
// carry no explicit country.
// PUT /api/v1/users/me
func (h *Handlers) UpdateMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if req.DisplayName != nil && (*req.DisplayName == "" || len(*req.DisplayName) > 50) {
		util.RespondValidationError(c, "display_name", "must be between 1 and 50 characters")
		return
	}

	patch := util.NewPatch().
		SetString("display_name", req.DisplayName).
		SetString("bio", req.Bio)
	if req.CountryCode != nil {
		patch.Set("country_code", scope.Normalize(*req.CountryCode))
	}
	if req.SocialLinks != nil {
		patch.Set("social_links", *req.SocialLinks)
	}

	if patch.Empty() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := database.DB.Model(user).Updates(map[string]interface{}(patch)).Error; err != nil {
		util.RespondInternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar stores the caller's profile picture and saves its URL
// POST /api/v1/users/me/picture
func (h *Handlers) UploadAvatar(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	if h.uploader == nil {
		util.RespondInternalError(c, "Image uploads are not configured")
		return
	}

	data, fileHeader, ok := readImageUpload(c)
	if !ok {
		return
	}

	result, err := h.uploader.UploadAvatar(c.Request.Context(), data, user.ID, fileHeader.Filename)
	if err != nil {
		util.RespondInternalError(c, "Failed to store avatar")
		return
	}

	if err := database.DB.Model(user).Update("avatar_url", result.URL).Error; err != nil {
		util.RespondInternalError(c, "Failed to save avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": result.URL})
}
