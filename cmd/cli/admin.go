package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin roles",
	Long:  "Commands for listing, granting and revoking admin roles. Requires an admin token.",
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List current admin user IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest("GET", "/api/v1/admin/roles", nil)
		if err != nil {
			return err
		}
		return printRoles(body)
	},
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant <user-id>",
	Short: "Grant admin to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest("POST", "/api/v1/admin/roles", map[string]interface{}{
			"user_id": args[0],
		})
		if err != nil {
			return err
		}
		if output != "json" {
			fmt.Printf("✓ Granted admin to %s\n", args[0])
		}
		return printRoles(body)
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke <user-id>",
	Short: "Revoke admin from a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest("DELETE", "/api/v1/admin/roles/"+args[0], nil)
		if err != nil {
			return err
		}
		if output != "json" {
			fmt.Printf("✓ Revoked admin from %s\n", args[0])
		}
		return printRoles(body)
	},
}

func init() {
	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminGrantCmd)
	adminCmd.AddCommand(adminRevokeCmd)
}

func printRoles(body []byte) error {
	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var roles struct {
		AdminIDs         []string `json:"admins"`
		SuperadminEmails []string `json:"superadmins"`
	}
	if err := json.Unmarshal(body, &roles); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(roles.AdminIDs) == 0 {
		fmt.Println("No admins configured")
	} else {
		fmt.Println("Admins:")
		for _, id := range roles.AdminIDs {
			fmt.Printf("  %s\n", id)
		}
	}
	if len(roles.SuperadminEmails) > 0 {
		fmt.Println("Superadmins:")
		for _, email := range roles.SuperadminEmails {
			fmt.Printf("  %s\n", email)
		}
	}

	return nil
}
