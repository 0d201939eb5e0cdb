package repository

import (
	"context"

	"github.com/marisol-arts/gallery-backend/internal/model"
	"gorm.io/gorm"
)

type OrphanRepository interface {
	Record(ctx context.Context, storageKey, reason string) error
	List(ctx context.Context, limit int) ([]model.OrphanedObject, error)
	Remove(ctx context.Context, id uint64) error
}

type orphanRepository struct {
	db *gorm.DB
}

func NewOrphanRepository(db *gorm.DB) OrphanRepository {
	return &orphanRepository{db: db}
}

func (r *orphanRepository) Record(ctx context.Context, storageKey, reason string) error {
	return r.db.WithContext(ctx).Create(&model.OrphanedObject{
		StorageKey: storageKey,
		Reason:     reason,
	}).Error
}

func (r *orphanRepository) List(ctx context.Context, limit int) ([]model.OrphanedObject, error) {
	var orphans []model.OrphanedObject
	q := r.db.WithContext(ctx).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&orphans).Error; err != nil {
		return nil, err
	}
	return orphans, nil
}

func (r *orphanRepository) Remove(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.OrphanedObject{}, id).Error
}
