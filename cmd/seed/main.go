package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/marisol-arts/gallery-backend/internal/config"
	"github.com/marisol-arts/gallery-backend/internal/db"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.Order{}, &model.Artwork{}, &model.ArtworkImage{}, &model.OrphanedObject{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := gdb.WithContext(ctx).Model(&model.Artwork{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count artworks: %w", err)
	}
	if count > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("artworks already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	artworks := buildSeedArtworks()
	err = gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range artworks {
			if err := tx.Create(&artworks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert artworks: %w", err)
	}

	log.Printf("seeded %d artworks", len(artworks))
	return nil
}

func intPtr(v int) *int { return &v }

func buildSeedArtworks() []model.Artwork {
	return []model.Artwork{
		{
			Title:          "Harbor at Dusk",
			PaintingNumber: intPtr(101),
			PaintingYear:   intPtr(2023),
			WidthCM:        40,
			HeightCM:       30,
			PriceCents:     85000,
			Medium:         model.MediumOilOnPanel,
			Category:       model.CategoryLandscape,
			SortOrder:      1,
			Status:         model.StatusAvailable,
		},
		{
			Title:          "Reader in Green",
			PaintingNumber: intPtr(102),
			PaintingYear:   intPtr(2024),
			WidthCM:        24,
			HeightCM:       30,
			PriceCents:     62000,
			Medium:         model.MediumAcrylicOnPanel,
			Category:       model.CategoryFigure,
			SortOrder:      2,
			Status:         model.StatusComingSoon,
		},
		{
			Title:          "Market Morning",
			PaintingYear:   intPtr(2022),
			WidthCM:        50,
			HeightCM:       40,
			PriceCents:     120000,
			Medium:         model.MediumOilOnMDF,
			Category:       model.CategoryMultiFigure,
			SortOrder:      3,
			Status:         model.StatusAvailable,
		},
		{
			Title:          "Study of Hands",
			WidthCM:        18,
			HeightCM:       24,
			PriceCents:     0,
			Medium:         model.MediumOilOnPaper,
			Category:       model.CategoryOther,
			PaperSubstrate: true,
			SortOrder:      4,
			Status:         model.StatusNotForSale,
		},
	}
}
