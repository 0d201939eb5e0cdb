package repository

import (
	"path/filepath"
	"testing"

	"github.com/marisol-arts/gallery-backend/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Order{},
		&model.Artwork{},
		&model.ArtworkImage{},
		&model.OrphanedObject{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newArtwork(title string) *model.Artwork {
	return &model.Artwork{
		Title:      title,
		WidthCM:    40,
		HeightCM:   30,
		PriceCents: 50000,
		Medium:     model.MediumOilOnPanel,
		Category:   model.CategoryLandscape,
		Status:     model.StatusAvailable,
	}
}
