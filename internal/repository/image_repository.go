package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReorderMismatch signals that a reorder request did not cover exactly
// the artwork's current image set.
var ErrReorderMismatch = errors.New("reorder ids do not match image set")

type ImageRepository interface {
	Insert(ctx context.Context, img *model.ArtworkImage, makePrimary bool) error
	SetPrimary(ctx context.Context, artworkID, imageID uuid.UUID) error
	Delete(ctx context.Context, artworkID, imageID uuid.UUID) (*model.ArtworkImage, error)
	Reorder(ctx context.Context, artworkID uuid.UUID, orderedIDs []uuid.UUID) error
	ListByArtwork(ctx context.Context, artworkID uuid.UUID) ([]model.ArtworkImage, error)
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

// lockArtwork serializes every image mutation for one artwork behind its
// row lock and doubles as the existence check.
func lockArtwork(tx *gorm.DB, artworkID uuid.UUID) error {
	var art model.Artwork
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&art, "id = ?", artworkID).Error
}

// Insert adds the image record for an already-uploaded object. The first
// image of an artwork becomes primary no matter what the caller asked;
// makePrimary demotes the current primary in the same transaction.
func (r *imageRepository) Insert(ctx context.Context, img *model.ArtworkImage, makePrimary bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockArtwork(tx, img.ArtworkID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.ArtworkImage{}).
			Where("artwork_id = ?", img.ArtworkID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			img.IsPrimary = true
		} else if makePrimary {
			if err := tx.Model(&model.ArtworkImage{}).
				Where("artwork_id = ? AND is_primary = ?", img.ArtworkID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
			img.IsPrimary = true
		} else {
			img.IsPrimary = false
		}

		var maxOrder int
		if err := tx.Model(&model.ArtworkImage{}).
			Where("artwork_id = ?", img.ArtworkID).
			Select("COALESCE(MAX(display_order), -1)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		img.DisplayOrder = maxOrder + 1

		return tx.Create(img).Error
	})
}

// SetPrimary swaps the primary flag from the current holder to imageID.
// Already-primary is a valid no-op.
func (r *imageRepository) SetPrimary(ctx context.Context, artworkID, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockArtwork(tx, artworkID); err != nil {
			return err
		}
		var img model.ArtworkImage
		if err := tx.First(&img, "id = ? AND artwork_id = ?", imageID, artworkID).Error; err != nil {
			return err
		}
		if img.IsPrimary {
			return nil
		}
		if err := tx.Model(&model.ArtworkImage{}).
			Where("artwork_id = ? AND is_primary = ?", artworkID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&img).Update("is_primary", true).Error
	})
}

// Delete removes the image row. When the primary goes away and other
// images remain, the successor (lowest display order, then oldest, then
// smallest id) is promoted in the same transaction. The removed record is
// returned so the caller can delete the stored object after commit.
func (r *imageRepository) Delete(ctx context.Context, artworkID, imageID uuid.UUID) (*model.ArtworkImage, error) {
	var img model.ArtworkImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockArtwork(tx, artworkID); err != nil {
			return err
		}
		if err := tx.First(&img, "id = ? AND artwork_id = ?", imageID, artworkID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}
		if !img.IsPrimary {
			return nil
		}
		var successor model.ArtworkImage
		err := tx.Where("artwork_id = ?", artworkID).
			Order("display_order asc, created_at asc, id asc").
			First(&successor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // last image removed, empty set is valid
		}
		if err != nil {
			return err
		}
		return tx.Model(&successor).Update("is_primary", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// Reorder assigns display order from a full permutation of the artwork's
// image ids.
func (r *imageRepository) Reorder(ctx context.Context, artworkID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockArtwork(tx, artworkID); err != nil {
			return err
		}
		var existing []model.ArtworkImage
		if err := tx.Where("artwork_id = ?", artworkID).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) != len(orderedIDs) {
			return ErrReorderMismatch
		}
		current := make(map[uuid.UUID]struct{}, len(existing))
		for _, img := range existing {
			current[img.ID] = struct{}{}
		}
		for _, id := range orderedIDs {
			if _, ok := current[id]; !ok {
				return ErrReorderMismatch
			}
			delete(current, id)
		}
		for pos, id := range orderedIDs {
			if err := tx.Model(&model.ArtworkImage{}).
				Where("id = ?", id).
				Update("display_order", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *imageRepository) ListByArtwork(ctx context.Context, artworkID uuid.UUID) ([]model.ArtworkImage, error) {
	var images []model.ArtworkImage
	if err := r.db.WithContext(ctx).
		Where("artwork_id = ?", artworkID).
		Order("display_order asc, created_at asc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
