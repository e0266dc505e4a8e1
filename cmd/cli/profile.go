package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile settings",
	Long:  "Commands for viewing and updating your profile, including your country scope",
}

var getProfileCmd = &cobra.Command{
	Use:   "get",
	Short: "Get your current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getProfile()
	},
}

var setCountryCmd = &cobra.Command{
	Use:   "set-country <code>",
	Short: "Set your preferred country scope",
	Long: `Set the country scope used for your feeds, e.g. GB, US or EU.
The scope controls which regional content appears in your feeds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateProfile(map[string]interface{}{"country_code": args[0]})
	},
}

var setNameCmd = &cobra.Command{
	Use:   "set-name <display name>",
	Short: "Change your display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateProfile(map[string]interface{}{"display_name": args[0]})
	},
}

var setBioCmd = &cobra.Command{
	Use:   "set-bio <bio>",
	Short: "Change your bio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateProfile(map[string]interface{}{"bio": args[0]})
	},
}

func init() {
	profileCmd.AddCommand(getProfileCmd)
	profileCmd.AddCommand(setCountryCmd)
	profileCmd.AddCommand(setNameCmd)
	profileCmd.AddCommand(setBioCmd)
}

func getProfile() error {
	body, err := apiRequest("GET", "/api/v1/auth/me", nil)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var user struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		CountryCode string `json:"country_code"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("ID:           %s\n", user.ID)
	fmt.Printf("Email:        %s\n", user.Email)
	fmt.Printf("Display name: %s\n", user.DisplayName)
	if user.Bio != "" {
		fmt.Printf("Bio:          %s\n", user.Bio)
	}
	country := user.CountryCode
	if country == "" {
		country = "(not set)"
	}
	fmt.Printf("Country:      %s\n", country)

	return nil
}

func updateProfile(payload map[string]interface{}) error {
	body, err := apiRequest("PUT", "/api/v1/users/me", payload)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
	} else {
		fmt.Println("✓ Profile updated")
	}

	return nil
}
