package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/paraverse/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize creates and configures the database connection
func Initialize() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Fallback to individual components
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "postgres")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "paraverse")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	// Configure GORM logger
	gormLogger := logger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	log.Println("✅ Database connected successfully")

	return nil
}

// Migrate runs auto-migration for all models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(
		&models.User{},
		&models.AdminRoles{},
		&models.Location{},
		&models.Event{},
		&models.MarketplaceItem{},
		&models.CollabItem{},
		&models.CreatorPost{},
		&models.Post{},
		&models.Comment{},
		&models.Star{},
		&models.Follow{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.Ad{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// createIndexes creates performance indexes beyond what the struct tags declare
func createIndexes() error {
	// User lookup
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))")

	// Feed listings: unscoped lists are served newest-first at the store
	// level, scoped lists filter by exact country code
	for _, table := range []string{"locations", "events", "marketplace_items", "collab_items", "creator_posts", "posts"} {
		DB.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_created ON %s (created_at DESC) WHERE deleted_at IS NULL", table, table))
		DB.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_country_created ON %s (country_code, created_at DESC) WHERE deleted_at IS NULL", table, table))
		DB.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_author ON %s (posted_by_id)", table, table))
	}

	// Comment retrieval by composite entity key, ascending created_at
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_comments_entity_created ON comments (kind, entity_id, created_at ASC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments (parent_id) WHERE parent_id IS NOT NULL")

	// Star counting per entity
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_stars_entity ON stars (kind, entity_id)")

	// Conversation listing newest-activity-first
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_conversations_activity ON conversations (last_message_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages (conversation_id, created_at ASC)")

	// Notification badge counts
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications (user_id) WHERE read = false")

	// Ad selection per placement
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_ads_placement_active ON ads (placement, priority DESC) WHERE is_active = true AND deleted_at IS NULL")

	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
