package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
	"gorm.io/gorm"
)

// GoogleUserInfo represents Google OAuth user response
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// HandleGoogleCallback exchanges the authorization code and signs in the user,
// creating an account on first login
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*AuthResponse, error) {
	userInfo, err := s.getGoogleUserInfo(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google user info: %w", err)
	}

	return s.findOrCreateGoogleUser(userInfo)
}

// findOrCreateGoogleUser implements email-based account unification
func (s *Service) findOrCreateGoogleUser(userInfo *GoogleUserInfo) (*AuthResponse, error) {
	var user models.User
	err := database.DB.Where("google_id = ?", userInfo.Sub).First(&user).Error
	if err == nil {
		if user.AvatarURL == "" && userInfo.Picture != "" {
			user.AvatarURL = userInfo.Picture
			database.DB.Save(&user)
		}
		return s.generateAuthResponse(&user)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Account unification: link Google to an existing email/password account
	err = database.DB.Where("LOWER(email) = LOWER(?)", userInfo.Email).First(&user).Error
	if err == nil {
		user.GoogleID = &userInfo.Sub
		if user.AvatarURL == "" && userInfo.Picture != "" {
			user.AvatarURL = userInfo.Picture
		}
		if err := database.DB.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to link Google account: %w", err)
		}
		return s.generateAuthResponse(&user)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	displayName := userInfo.Name
	if displayName == "" {
		displayName = userInfo.Email
	}

	user = models.User{
		Email:       userInfo.Email,
		DisplayName: displayName,
		GoogleID:    &userInfo.Sub,
		AvatarURL:   userInfo.Picture,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateAuthResponse(&user)
}

// getGoogleUserInfo fetches user info from Google OAuth
func (s *Service) getGoogleUserInfo(ctx context.Context, code string) (*GoogleUserInfo, error) {
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := s.googleConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(body, &googleUser); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	return &googleUser, nil
}
