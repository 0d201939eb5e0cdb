package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArtworkImage is one stored image of an artwork. At most one image per
// artwork carries IsPrimary, and a non-empty set always has exactly one.
type ArtworkImage struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	ArtworkID    uuid.UUID `gorm:"column:artwork_id;type:char(36);not null;index:idx_artwork_images_artwork_id"`
	StorageKey   string    `gorm:"column:storage_key;size:512;not null"`
	URL          string    `gorm:"column:url;size:512;not null"`
	IsPrimary    bool      `gorm:"column:is_primary;not null"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ArtworkImage) TableName() string {
	return "artwork_images"
}

func (i *ArtworkImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
