package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marisol-arts/gallery-backend/internal/logger"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/repository"
	"github.com/marisol-arts/gallery-backend/internal/storage"
	"gorm.io/gorm"
)

// Dimensions are stored as decimal(6,2); anything at or past this bound
// would truncate.
const maxDimensionCM = 10000

type CreateArtworkInput struct {
	Title          string
	PaintingNumber *int
	PaintingYear   *int
	WidthCM        float64
	HeightCM       float64
	PriceCents     int64
	Medium         string
	Category       string
	PaperSubstrate bool
	SortOrder      int
	Status         string // empty defaults to available
}

type UpdateArtworkInput struct {
	Title          *string
	PaintingNumber *int
	PaintingYear   *int
	WidthCM        *float64
	HeightCM       *float64
	PriceCents     *int64
	Medium         *string
	Category       *string
	PaperSubstrate *bool
	SortOrder      *int
}

// CatalogService is the single entry point for artwork create, update, and
// delete. The HTTP layer calls services only and never touches the tables
// directly.
type CatalogService interface {
	Create(ctx context.Context, in CreateArtworkInput) (*model.Artwork, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Artwork, error)
	List(ctx context.Context, limit, offset int, status string) ([]model.Artwork, int64, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateArtworkInput) (*model.Artwork, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*model.Artwork, error)
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
}

type catalogService struct {
	artworkRepo repository.ArtworkRepository
	orphanRepo  repository.OrphanRepository
	gateway     storage.Gateway
	log         *logger.Logger
}

func NewCatalogService(artworkRepo repository.ArtworkRepository, orphanRepo repository.OrphanRepository, gateway storage.Gateway, log *logger.Logger) CatalogService {
	return &catalogService{
		artworkRepo: artworkRepo,
		orphanRepo:  orphanRepo,
		gateway:     gateway,
		log:         log.With("service", "catalog"),
	}
}

func validDimension(v float64) bool {
	return v > 0 && v < maxDimensionCM
}

func (s *catalogService) Create(ctx context.Context, in CreateArtworkInput) (*model.Artwork, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 200 {
		return nil, errors.New("invalid title")
	}
	if !validDimension(in.WidthCM) || !validDimension(in.HeightCM) {
		return nil, errors.New("dimensions must be positive and below 10000 cm")
	}
	if in.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	medium, err := model.ParseMedium(in.Medium)
	if err != nil {
		return nil, err
	}
	category, err := model.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	status := model.StatusAvailable
	if in.Status != "" {
		status, err = model.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		if !status.DirectlySettable() {
			return nil, fmt.Errorf("%w: cannot create an artwork as sold", ErrInvalidTransition)
		}
	}

	art := &model.Artwork{
		Title:          title,
		PaintingNumber: in.PaintingNumber,
		PaintingYear:   in.PaintingYear,
		WidthCM:        in.WidthCM,
		HeightCM:       in.HeightCM,
		PriceCents:     in.PriceCents,
		Medium:         medium,
		Category:       category,
		PaperSubstrate: in.PaperSubstrate,
		SortOrder:      in.SortOrder,
		Status:         status,
	}
	if err := s.artworkRepo.Create(ctx, art); err != nil {
		return nil, err
	}
	return art, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*model.Artwork, error) {
	art, err := s.artworkRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return art, nil
}

func (s *catalogService) List(ctx context.Context, limit, offset int, status string) ([]model.Artwork, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var filter model.ArtworkStatus
	if status != "" {
		parsed, err := model.ParseStatus(status)
		if err != nil {
			return nil, 0, err
		}
		filter = parsed
	}
	return s.artworkRepo.List(ctx, limit, offset, filter)
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, in UpdateArtworkInput) (*model.Artwork, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || len(title) > 200 {
			return nil, errors.New("invalid title")
		}
		fields["title"] = title
	}
	if in.PaintingNumber != nil {
		fields["painting_number"] = *in.PaintingNumber
	}
	if in.PaintingYear != nil {
		fields["painting_year"] = *in.PaintingYear
	}
	if in.WidthCM != nil {
		if !validDimension(*in.WidthCM) {
			return nil, errors.New("invalid width")
		}
		fields["width_cm"] = *in.WidthCM
	}
	if in.HeightCM != nil {
		if !validDimension(*in.HeightCM) {
			return nil, errors.New("invalid height")
		}
		fields["height_cm"] = *in.HeightCM
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, errors.New("price must not be negative")
		}
		fields["price_cents"] = *in.PriceCents
	}
	if in.Medium != nil {
		medium, err := model.ParseMedium(*in.Medium)
		if err != nil {
			return nil, err
		}
		fields["medium"] = medium
	}
	if in.Category != nil {
		category, err := model.ParseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		fields["category"] = category
	}
	if in.PaperSubstrate != nil {
		fields["paper_substrate"] = *in.PaperSubstrate
	}
	if in.SortOrder != nil {
		fields["sort_order"] = *in.SortOrder
	}

	art, err := s.artworkRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return art, nil
}

func (s *catalogService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*model.Artwork, error) {
	parsed, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if !parsed.DirectlySettable() {
		return nil, fmt.Errorf("%w: sold is only reachable through order linking", ErrInvalidTransition)
	}
	art, err := s.artworkRepo.SetStatus(ctx, id, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return art, nil
}

// Delete removes the artwork and its image metadata, then best-effort
// deletes the stored objects. Storage failures do not reverse the removal;
// the keys are returned and queued as orphans.
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	images, err := s.artworkRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrOrderLinked) {
			return nil, fmt.Errorf("%w: artwork belongs to an order", ErrConflict)
		}
		return nil, err
	}

	var orphaned []string
	for _, img := range images {
		if derr := s.gateway.Delete(ctx, img.StorageKey); derr != nil {
			s.log.Warn("storage delete failed after artwork removal",
				"artwork_id", id, "storage_key", img.StorageKey, "error", derr)
			if rerr := s.orphanRepo.Record(ctx, img.StorageKey, "artwork delete"); rerr != nil {
				s.log.Error("failed to record orphaned object", "storage_key", img.StorageKey, "error", rerr)
			}
			orphaned = append(orphaned, img.StorageKey)
		}
	}
	return orphaned, nil
}
