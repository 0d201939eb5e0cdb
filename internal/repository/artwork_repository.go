package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDBNotReady = errors.New("database not initialized")

// ErrAlreadySold signals a double-sale attempt inside MarkSold.
var ErrAlreadySold = errors.New("artwork already sold")

// ErrOrderLinked signals a delete attempt on an artwork that belongs to an
// order. Sold history must not be deleted.
var ErrOrderLinked = errors.New("artwork linked to an order")

type ArtworkRepository interface {
	Create(ctx context.Context, art *model.Artwork) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Artwork, error)
	List(ctx context.Context, limit, offset int, status model.ArtworkStatus) ([]model.Artwork, int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Artwork, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Artwork, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.ArtworkStatus) (*model.Artwork, error)
	MarkSold(ctx context.Context, ids []uuid.UUID, orderID uuid.UUID, soldAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) ([]model.ArtworkImage, error)
}

type artworkRepository struct {
	db *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) ArtworkRepository {
	return &artworkRepository{db: db}
}

func (r *artworkRepository) Create(ctx context.Context, art *model.Artwork) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(art).Error
}

func (r *artworkRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Artwork, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var art model.Artwork
	if err := r.db.WithContext(ctx).First(&art, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &art, nil
}

func (r *artworkRepository) List(ctx context.Context, limit, offset int, status model.ArtworkStatus) ([]model.Artwork, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		arts  []model.Artwork
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Artwork{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.
		Order("sort_order asc, created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&arts).Error; err != nil {
		return nil, 0, err
	}
	return arts, total, nil
}

func (r *artworkRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Artwork, error) {
	var arts []model.Artwork
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("sort_order asc, created_at desc").
		Find(&arts).Error; err != nil {
		return nil, err
	}
	return arts, nil
}

// UpdateFields applies an admin patch. Status and sale linkage are never
// part of fields; those go through SetStatus and MarkSold.
func (r *artworkRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Artwork, error) {
	var art model.Artwork
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&art, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&art).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// SetStatus changes the status under a row lock. Leaving sold clears the
// sale timestamp and order linkage in the same update, so a reader never
// sees a relisted artwork still carrying sale data.
func (r *artworkRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ArtworkStatus) (*model.Artwork, error) {
	var art model.Artwork
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&art, "id = ?", id).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"status": status}
		if art.Status == model.StatusSold && status != model.StatusSold {
			updates["sold_at"] = nil
			updates["order_id"] = nil
		}
		return tx.Model(&art).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// MarkSold transitions every artwork in ids to sold and links it to
// orderID, all inside one transaction. Rows are locked in ascending id
// order so overlapping batches cannot deadlock. Any member already sold
// fails the whole batch with ErrAlreadySold.
func (r *artworkRepository) MarkSold(ctx context.Context, ids []uuid.UUID, orderID uuid.UUID, soldAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range sorted {
			var art model.Artwork
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&art, "id = ?", id).Error; err != nil {
				return err
			}
			if art.Status == model.StatusSold {
				return ErrAlreadySold
			}
		}
		return tx.Model(&model.Artwork{}).
			Where("id IN ?", sorted).
			Updates(map[string]interface{}{
				"status":   model.StatusSold,
				"order_id": orderID,
				"sold_at":  soldAt,
			}).Error
	})
}

// Delete removes the artwork and its image rows, returning the removed
// image records so the caller can clean up the stored objects after
// commit. Order-linked artworks are refused.
func (r *artworkRepository) Delete(ctx context.Context, id uuid.UUID) ([]model.ArtworkImage, error) {
	var images []model.ArtworkImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var art model.Artwork
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&art, "id = ?", id).Error; err != nil {
			return err
		}
		if art.OrderID != nil {
			return ErrOrderLinked
		}
		if err := tx.Where("artwork_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("artwork_id = ?", id).Delete(&model.ArtworkImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&art).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
