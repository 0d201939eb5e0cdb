package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArtworkStatus string

const (
	StatusAvailable   ArtworkStatus = "available"
	StatusComingSoon  ArtworkStatus = "coming_soon"
	StatusNotForSale  ArtworkStatus = "not_for_sale"
	StatusUnavailable ArtworkStatus = "unavailable"
	StatusSold        ArtworkStatus = "sold"
)

// ParseStatus rejects anything outside the closed status set so invalid
// states never enter the in-memory model.
func ParseStatus(s string) (ArtworkStatus, error) {
	switch ArtworkStatus(s) {
	case StatusAvailable, StatusComingSoon, StatusNotForSale, StatusUnavailable, StatusSold:
		return ArtworkStatus(s), nil
	}
	return "", fmt.Errorf("unknown artwork status %q", s)
}

// DirectlySettable reports whether an admin edit may assign the status.
// Sold carries sale side data and is only reachable through order linking.
func (s ArtworkStatus) DirectlySettable() bool {
	return s != StatusSold
}

type Medium string

const (
	MediumOilOnPanel     Medium = "oil_on_panel"
	MediumAcrylicOnPanel Medium = "acrylic_on_panel"
	MediumOilOnMDF       Medium = "oil_on_mdf"
	MediumOilOnPaper     Medium = "oil_on_paper"
	MediumUnknown        Medium = "unknown"
)

func ParseMedium(s string) (Medium, error) {
	switch Medium(s) {
	case MediumOilOnPanel, MediumAcrylicOnPanel, MediumOilOnMDF, MediumOilOnPaper, MediumUnknown:
		return Medium(s), nil
	}
	return "", fmt.Errorf("unknown medium %q", s)
}

type Category string

const (
	CategoryFigure      Category = "figure"
	CategoryLandscape   Category = "landscape"
	CategoryMultiFigure Category = "multi_figure"
	CategoryOther       Category = "other"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFigure, CategoryLandscape, CategoryMultiFigure, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type Artwork struct {
	ID             uuid.UUID     `gorm:"type:char(36);primaryKey"`
	Title          string        `gorm:"size:200;not null"`
	PaintingNumber *int          `gorm:"column:painting_number"`
	PaintingYear   *int          `gorm:"column:painting_year"`
	WidthCM        float64       `gorm:"column:width_cm;type:decimal(6,2);not null"`
	HeightCM       float64       `gorm:"column:height_cm;type:decimal(6,2);not null"`
	PriceCents     int64         `gorm:"column:price_cents;not null"`
	Medium         Medium        `gorm:"size:32;not null"`
	Category       Category      `gorm:"size:32;not null"`
	PaperSubstrate bool          `gorm:"column:paper_substrate;not null"`
	SortOrder      int           `gorm:"column:sort_order;not null;default:0;index"`
	Status         ArtworkStatus `gorm:"size:32;not null;index"`
	SoldAt         *time.Time    `gorm:"column:sold_at"`
	OrderID        *uuid.UUID    `gorm:"column:order_id;type:char(36);index"`
	Order          *Order        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt      time.Time     `gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime"`
}

func (Artwork) TableName() string {
	return "artworks"
}

func (a *Artwork) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
