package auth

import (
	"errors"
	"os"
	"strings"

	"github.com/lib/pq"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
	"gorm.io/gorm"
)

// LoadAdminRoles returns the singleton admin roles record, creating it on
// first access. Superadmin emails from the environment are merged in so a
// fresh deployment always has at least one admin.
func LoadAdminRoles() (*models.AdminRoles, error) {
	var roles models.AdminRoles
	err := database.DB.Where("id = ?", models.AdminRolesID).First(&roles).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		roles = models.AdminRoles{
			ID:               models.AdminRolesID,
			SuperadminEmails: superadminEmailsFromEnv(),
		}
		if err := database.DB.Create(&roles).Error; err != nil {
			return nil, err
		}
		return &roles, nil
	} else if err != nil {
		return nil, err
	}

	// Merge env superadmins that are missing from the stored record
	for _, email := range superadminEmailsFromEnv() {
		if !containsFold(roles.SuperadminEmails, email) {
			roles.SuperadminEmails = append(roles.SuperadminEmails, email)
		}
	}

	return &roles, nil
}

// IsAdmin reports whether the user holds admin rights, either by a role
// grant on their user ID or by a superadmin email
func IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	roles, err := LoadAdminRoles()
	if err != nil {
		return false
	}
	return roles.Grants(user.ID, user.Email)
}

// GrantAdmin adds a user ID to the admin roles record
func GrantAdmin(userID string) error {
	roles, err := LoadAdminRoles()
	if err != nil {
		return err
	}
	for _, id := range roles.AdminIDs {
		if id == userID {
			return nil
		}
	}
	roles.AdminIDs = append(roles.AdminIDs, userID)
	return database.DB.Save(roles).Error
}

// RevokeAdmin removes a user ID from the admin roles record
func RevokeAdmin(userID string) error {
	roles, err := LoadAdminRoles()
	if err != nil {
		return err
	}
	kept := make(pq.StringArray, 0, len(roles.AdminIDs))
	for _, id := range roles.AdminIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	roles.AdminIDs = kept
	return database.DB.Save(roles).Error
}

func superadminEmailsFromEnv() pq.StringArray {
	raw := os.Getenv("SUPERADMIN_EMAILS")
	if raw == "" {
		return nil
	}
	var emails pq.StringArray
	for _, email := range strings.Split(raw, ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

func containsFold(list pq.StringArray, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
