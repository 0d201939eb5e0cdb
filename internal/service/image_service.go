package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/marisol-arts/gallery-backend/internal/logger"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/repository"
	"github.com/marisol-arts/gallery-backend/internal/storage"
	"gorm.io/gorm"
)

// DeleteImageResult reports a completed image removal. Orphaned is set
// when the stored object could not be deleted; the metadata removal still
// stands and the key was queued for reconciliation.
type DeleteImageResult struct {
	StorageKey string
	Orphaned   bool
}

type ImageService interface {
	Add(ctx context.Context, artworkID uuid.UUID, payload []byte, contentType string, makePrimary bool) (*model.ArtworkImage, error)
	SetPrimary(ctx context.Context, artworkID, imageID uuid.UUID) error
	Delete(ctx context.Context, artworkID, imageID uuid.UUID) (*DeleteImageResult, error)
	Reorder(ctx context.Context, artworkID uuid.UUID, imageIDs []uuid.UUID) error
	List(ctx context.Context, artworkID uuid.UUID) ([]model.ArtworkImage, error)
	ReconcileOrphans(ctx context.Context) (removed, remaining int, err error)
}

type imageService struct {
	imageRepo  repository.ImageRepository
	orphanRepo repository.OrphanRepository
	gateway    storage.Gateway
	log        *logger.Logger
}

func NewImageService(imageRepo repository.ImageRepository, orphanRepo repository.OrphanRepository, gateway storage.Gateway, log *logger.Logger) ImageService {
	return &imageService{
		imageRepo:  imageRepo,
		orphanRepo: orphanRepo,
		gateway:    gateway,
		log:        log.With("service", "image"),
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}

// Add uploads first and writes metadata second, so an image row never
// references an object that does not exist. A failed upload aborts with
// ErrStorageWrite and no metadata change; a failed insert cleans up the
// uploaded object.
func (s *imageService) Add(ctx context.Context, artworkID uuid.UUID, payload []byte, contentType string, makePrimary bool) (*model.ArtworkImage, error) {
	if len(payload) == 0 {
		return nil, errors.New("empty image payload")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("artworks/%s/%s%s", artworkID, uuid.NewString(), extensionFor(contentType))

	url, err := s.gateway.Put(ctx, key, payload, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	img := &model.ArtworkImage{
		ArtworkID:  artworkID,
		StorageKey: key,
		URL:        url,
	}
	if err := s.imageRepo.Insert(ctx, img, makePrimary); err != nil {
		// The object is already up; take it back down so storage and
		// metadata do not diverge.
		if derr := s.gateway.Delete(ctx, key); derr != nil {
			s.log.Warn("cleanup of uploaded object failed", "storage_key", key, "error", derr)
			if rerr := s.orphanRepo.Record(ctx, key, "insert rollback"); rerr != nil {
				s.log.Error("failed to record orphaned object", "storage_key", key, "error", rerr)
			}
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return img, nil
}

func (s *imageService) SetPrimary(ctx context.Context, artworkID, imageID uuid.UUID) error {
	if err := s.imageRepo.SetPrimary(ctx, artworkID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete commits the metadata removal, then attempts the storage delete.
// Storage failure is surfaced as a warning via the result, never as a
// rollback: metadata consistency wins over storage tidiness.
func (s *imageService) Delete(ctx context.Context, artworkID, imageID uuid.UUID) (*DeleteImageResult, error) {
	img, err := s.imageRepo.Delete(ctx, artworkID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := &DeleteImageResult{StorageKey: img.StorageKey}
	if derr := s.gateway.Delete(ctx, img.StorageKey); derr != nil {
		s.log.Warn("storage delete failed after image removal",
			"artwork_id", artworkID, "image_id", imageID, "storage_key", img.StorageKey, "error", derr)
		if rerr := s.orphanRepo.Record(ctx, img.StorageKey, "image delete"); rerr != nil {
			s.log.Error("failed to record orphaned object", "storage_key", img.StorageKey, "error", rerr)
		}
		result.Orphaned = true
	}
	return result, nil
}

func (s *imageService) Reorder(ctx context.Context, artworkID uuid.UUID, imageIDs []uuid.UUID) error {
	if err := s.imageRepo.Reorder(ctx, artworkID, imageIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *imageService) List(ctx context.Context, artworkID uuid.UUID) ([]model.ArtworkImage, error) {
	return s.imageRepo.ListByArtwork(ctx, artworkID)
}

// ReconcileOrphans retries the storage delete for every queued orphan and
// clears the ones that succeed.
func (s *imageService) ReconcileOrphans(ctx context.Context) (removed, remaining int, err error) {
	orphans, err := s.orphanRepo.List(ctx, 0)
	if err != nil {
		return 0, 0, err
	}
	for _, o := range orphans {
		if derr := s.gateway.Delete(ctx, o.StorageKey); derr != nil {
			s.log.Warn("orphan cleanup still failing", "storage_key", o.StorageKey, "error", derr)
			remaining++
			continue
		}
		if rerr := s.orphanRepo.Remove(ctx, o.ID); rerr != nil {
			return removed, remaining, rerr
		}
		removed++
	}
	return removed, remaining, nil
}
