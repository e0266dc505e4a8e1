package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/paraverse/backend/internal/logger"
	"github.com/paraverse/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

var seedCountries = []string{"GB", "GB", "GB", "US", "US", "FR", "DE", "IE", ""}

var locationNames = []string{
	"The Old Rectory", "Gallows Hill", "Blackfriars Crypt", "The Hollow Oak",
	"Whitechapel Cellars", "Raven's Court", "The Drowned Mill", "Hangman's Copse",
	"St. Agnes Asylum", "The Lantern Inn",
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log("Creating locations...")
	locations, err := s.seedLocations(users, 80)
	if err != nil {
		return fmt.Errorf("failed to seed locations: %w", err)
	}

	log("Creating events...")
	if err := s.seedEvents(users, locations, 40); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	log("Creating marketplace items...")
	if err := s.seedMarketplace(users, 30); err != nil {
		return fmt.Errorf("failed to seed marketplace: %w", err)
	}

	log("Creating collabs...")
	if err := s.seedCollabs(users, 20); err != nil {
		return fmt.Errorf("failed to seed collabs: %w", err)
	}

	log("Creating creator posts...")
	if err := s.seedCreatorPosts(users, 30); err != nil {
		return fmt.Errorf("failed to seed creator posts: %w", err)
	}

	log("Creating posts...")
	if err := s.seedPosts(users, 60); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	log("Creating comments and stars...")
	if err := s.seedEngagement(users, locations); err != nil {
		return fmt.Errorf("failed to seed engagement: %w", err)
	}

	log("Creating follows...")
	if err := s.seedFollows(users, 120); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	log("Creating ads...")
	if err := s.seedAds(); err != nil {
		return fmt.Errorf("failed to seed ads: %w", err)
	}

	return nil
}

// Clean removes all seed data (use with caution!)
func (s *Seeder) Clean() error {
	tables := []string{
		"notifications", "messages", "conversations", "follows", "stars",
		"comments", "ads", "posts", "creator_posts", "collab_items",
		"marketplace_items", "events", "locations", "meta_admin_roles", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	var seedUserCount int64
	s.db.Model(&models.User{}).Where("email LIKE '%@example.com'").Count(&seedUserCount)
	if seedUserCount >= int64(count) {
		var users []models.User
		if err := s.db.Find(&users).Error; err != nil {
			return nil, err
		}
		logger.Log.Info("Found existing users, skipping creation",
			zap.Int("total_users", len(users)))
		return users, nil
	}

	// Default dev password for every seeded account
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedStr := string(hashed)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := gofakeit.Username()
		user := models.User{
			Email:        fmt.Sprintf("%s%d@example.com", username, i),
			DisplayName:  gofakeit.Name(),
			Bio:          gofakeit.HipsterSentence(),
			PasswordHash: &hashedStr,
			AvatarURL:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),
			CountryCode:  seedCountries[rand.Intn(len(seedCountries))],
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func (s *Seeder) seedLocations(users []models.User, count int) ([]models.Location, error) {
	types := []models.LocationType{
		models.LocationHaunting, models.LocationHaunting, models.LocationHaunting,
		models.LocationUFO, models.LocationCryptid,
	}

	locations := make([]models.Location, 0, count)
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		location := models.Location{
			FeedFields: feedFieldsFor(owner),
			Title:      fmt.Sprintf("%s, %s", locationNames[rand.Intn(len(locationNames))], gofakeit.City()),
			Type:       types[rand.Intn(len(types))],
			Lat:        gofakeit.Latitude(),
			Lng:        gofakeit.Longitude(),
			Summary:    gofakeit.Paragraph(1, 3, 12, " "),
			Address:    gofakeit.Street(),
		}
		if err := s.db.Create(&location).Error; err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (s *Seeder) seedEvents(users []models.User, locations []models.Location, count int) error {
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]

		// Mix of upcoming and already-finished events
		start := time.Now().AddDate(0, 0, rand.Intn(90)-30)
		end := start.Add(time.Duration(rand.Intn(8)+1) * time.Hour)

		event := models.Event{
			FeedFields:  feedFieldsFor(owner),
			Title:       fmt.Sprintf("%s Ghost Hunt", gofakeit.City()),
			Description: gofakeit.Paragraph(1, 2, 10, " "),
			StartISO:    start.Format(time.RFC3339),
			EndISO:      end.Format(time.RFC3339),
			PriceText:   fmt.Sprintf("£%d", rand.Intn(40)+5),
		}
		if rand.Float32() < 0.5 && len(locations) > 0 {
			event.LocationID = &locations[rand.Intn(len(locations))].ID
		} else {
			event.LocationText = gofakeit.City()
		}
		if err := s.db.Create(&event).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedMarketplace(users []models.User, count int) error {
	products := []string{"EMF meter", "Spirit box", "Full-spectrum camera", "Dowsing rods", "Thermal imager"}
	services := []string{"House cleansing", "Tarot reading", "Paranormal consultation", "Past-life regression"}

	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		item := models.MarketplaceItem{
			FeedFields:  feedFieldsFor(owner),
			Description: gofakeit.Paragraph(1, 2, 10, " "),
		}
		if rand.Float32() < 0.6 {
			item.Kind = models.MarketplaceProduct
			item.Title = products[rand.Intn(len(products))]
			price := float64(rand.Intn(200) + 10)
			item.Price = &price
		} else {
			item.Kind = models.MarketplaceService
			item.Title = services[rand.Intn(len(services))]
			item.ContactOrLink = gofakeit.Email()
		}
		if err := s.db.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedCollabs(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		date := time.Now().AddDate(0, 0, rand.Intn(60)-10)
		collab := models.CollabItem{
			FeedFields:   feedFieldsFor(owner),
			Title:        fmt.Sprintf("Investigation at %s", gofakeit.City()),
			Description:  gofakeit.Paragraph(1, 2, 10, " "),
			DateISO:      date.Format(time.RFC3339),
			LocationText: gofakeit.City(),
			Contact:      gofakeit.Email(),
		}
		if err := s.db.Create(&collab).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedCreatorPosts(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		post := models.CreatorPost{
			FeedFields:  feedFieldsFor(owner),
			Title:       gofakeit.Sentence(5),
			Description: gofakeit.Paragraph(1, 2, 10, " "),
			YouTubeURL:  fmt.Sprintf("https://www.youtube.com/watch?v=%s", gofakeit.LetterN(11)),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedPosts(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		post := models.Post{
			FeedFields: feedFieldsFor(owner),
			Title:      gofakeit.Sentence(6),
			Desc:       gofakeit.Paragraph(1, 3, 12, " "),
		}
		if rand.Float32() < 0.3 {
			post.LinkURL = gofakeit.URL()
			post.LinkKind = "article"
		}
		if err := s.db.Create(&post).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedEngagement(users []models.User, locations []models.Location) error {
	for _, location := range locations {
		commentCount := rand.Intn(5)
		for i := 0; i < commentCount; i++ {
			author := users[rand.Intn(len(users))]
			comment := models.Comment{
				Kind:       models.KindLocation,
				EntityID:   location.ID,
				Text:       gofakeit.HipsterSentence(),
				AuthorID:   author.ID,
				AuthorName: author.DisplayName,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return err
			}
		}

		// Distinct users so the unique star index never trips
		starCount := rand.Intn(len(users) / 4)
		for _, idx := range rand.Perm(len(users))[:starCount] {
			star := models.Star{
				Kind:     models.KindLocation,
				EntityID: location.ID,
				UserID:   users[idx].ID,
			}
			if err := s.db.Create(&star).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedFollows(users []models.User, count int) error {
	created := 0
	for attempts := 0; created < count && attempts < count*3; attempts++ {
		follower := users[rand.Intn(len(users))]
		followee := users[rand.Intn(len(users))]
		if follower.ID == followee.ID {
			continue
		}

		var existing models.Follow
		err := s.db.Where("follower_id = ? AND followee_id = ?", follower.ID, followee.ID).
			First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		follow := models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
		if err := s.db.Create(&follow).Error; err != nil {
			return err
		}
		created++
	}
	return nil
}

func (s *Seeder) seedAds() error {
	placements := map[string][]string{
		"feed-top":  {"Ghost Tours of Britain", "Haunted Breaks Weekend"},
		"feed-mid":  {"EMF Gear Clearance", "The Paranormal Podcast"},
		"locations": {"Stay at The Lantern Inn"},
	}

	for placement, titles := range placements {
		for i, title := range titles {
			ad := models.Ad{
				Placement: placement,
				Title:     title,
				Body:      gofakeit.Sentence(10),
				LinkURL:   gofakeit.URL(),
				IsActive:  true,
				Priority:  len(titles) - i,
			}
			if err := s.db.Create(&ad).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func feedFieldsFor(owner models.User) models.FeedFields {
	return models.FeedFields{
		PostedByID:  owner.ID,
		PostedBy:    owner.Snapshot(),
		CountryCode: seedCountries[rand.Intn(len(seedCountries))],
	}
}
