package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/paraverse/backend/internal/auth"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Parse command-line flags
	email := flag.String("email", "", "Email address of user to promote to admin")
	revoke := flag.Bool("revoke", false, "Revoke admin privileges instead of granting")
	flag.Parse()

	if *email == "" {
		fmt.Println("Usage: go run cmd/promote-admin/main.go -email=user@example.com")
		fmt.Println("       go run cmd/promote-admin/main.go -email=user@example.com -revoke")
		return
	}

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Find user by email
	var user models.User
	if err := database.DB.Where("email = ?", *email).First(&user).Error; err != nil {
		fmt.Printf("❌ User not found: %s\n", *email)
		return
	}

	if *revoke {
		if err := auth.RevokeAdmin(user.ID); err != nil {
			fmt.Printf("❌ Failed to revoke admin privileges: %v\n", err)
			return
		}
		fmt.Printf("✅ Revoked admin privileges from %s (%s)\n", user.DisplayName, user.ID)
		return
	}

	if err := auth.GrantAdmin(user.ID); err != nil {
		fmt.Printf("❌ Failed to grant admin privileges: %v\n", err)
		return
	}
	fmt.Printf("✅ Granted admin privileges to %s (%s)\n", user.DisplayName, user.ID)
}
