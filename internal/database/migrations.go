package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.AuditLog{},
	)
}

// SeedData populates demo categories and posts. Existing rows are left untouched.
func SeedData(db *gorm.DB) error {
	categories := []models.Category{
		{
			Name:        "News",
			Slug:        "news",
			Description: "Announcements and release notes",
		},
		{
			Name:        "Guides",
			Slug:        "guides",
			Description: "Step by step walkthroughs",
		},
	}

	categoryIDs := make(map[string]*string, len(categories))
	for _, category := range categories {
		var stored models.Category
		if err := db.Where(models.Category{Slug: category.Slug}).Attrs(category).FirstOrCreate(&stored).Error; err != nil {
			return err
		}
		id := stored.ID
		categoryIDs[stored.Slug] = &id
	}

	published := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

	posts := []models.Post{
		{
			Title:       "Welcome to Nebula",
			Slug:        "welcome-to-nebula",
			Body:        "Nebula turns resource declarations into an admin panel.",
			Author:      "nebula",
			Status:      models.PostStatusPublished,
			Featured:    true,
			Tags:        datatypes.JSON(`["announcement"]`),
			PublishedAt: &published,
			CategoryID:  categoryIDs["news"],
		},
		{
			Title:      "Declaring your first resource",
			Slug:       "declaring-your-first-resource",
			Body:       "Implement Fields and Columns, then register a factory.",
			Author:     "nebula",
			Status:     models.PostStatusDraft,
			Tags:       datatypes.JSON(`["tutorial"]`),
			CategoryID: categoryIDs["guides"],
		},
	}

	for _, post := range posts {
		if err := db.Where(models.Post{Slug: post.Slug}).Attrs(post).FirstOrCreate(&models.Post{}).Error; err != nil {
			return err
		}
	}

	return nil
}
