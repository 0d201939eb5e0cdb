package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marisol-arts/gallery-backend/internal/logger"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/repository"
	"gorm.io/gorm"
)

// OrderService mediates the status change that happens at sale time. It is
// the only path into the sold state.
type OrderService interface {
	PlaceOrder(ctx context.Context, artworkIDs []uuid.UUID) (*model.Order, error)
	LinkToOrder(ctx context.Context, orderID uuid.UUID, artworkIDs []uuid.UUID, soldAt time.Time) error
	Unlink(ctx context.Context, artworkID uuid.UUID) (*model.Artwork, error)
	Get(ctx context.Context, orderID uuid.UUID) (*model.Order, []model.Artwork, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	artworkRepo repository.ArtworkRepository
	log         *logger.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, artworkRepo repository.ArtworkRepository, log *logger.Logger) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		artworkRepo: artworkRepo,
		log:         log.With("service", "order"),
	}
}

func translateLinkErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, repository.ErrAlreadySold) {
		return fmt.Errorf("%w: artwork already sold", ErrConflict)
	}
	return err
}

// PlaceOrder creates the order row and links every artwork in one
// all-or-nothing batch. A conflict on any member leaves no artwork mutated
// and removes the just-created order.
func (s *orderService) PlaceOrder(ctx context.Context, artworkIDs []uuid.UUID) (*model.Order, error) {
	if len(artworkIDs) == 0 {
		return nil, errors.New("order needs at least one artwork")
	}
	order := &model.Order{Status: model.OrderStatusPending}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	if err := s.artworkRepo.MarkSold(ctx, artworkIDs, order.ID, time.Now()); err != nil {
		if derr := s.orderRepo.Delete(ctx, order.ID); derr != nil {
			s.log.Error("failed to remove order after link failure", "order_id", order.ID, "error", derr)
		}
		return nil, translateLinkErr(err)
	}
	return order, nil
}

// LinkToOrder attaches a batch of artworks to an existing order.
func (s *orderService) LinkToOrder(ctx context.Context, orderID uuid.UUID, artworkIDs []uuid.UUID, soldAt time.Time) error {
	if len(artworkIDs) == 0 {
		return errors.New("order needs at least one artwork")
	}
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.artworkRepo.MarkSold(ctx, artworkIDs, orderID, soldAt); err != nil {
		return translateLinkErr(err)
	}
	return nil
}

// Unlink reverses a sale for returns and cancellations. The transition
// away from sold clears sold_at and order_id atomically.
func (s *orderService) Unlink(ctx context.Context, artworkID uuid.UUID) (*model.Artwork, error) {
	art, err := s.artworkRepo.SetStatus(ctx, artworkID, model.StatusAvailable)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return art, nil
}

func (s *orderService) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, []model.Artwork, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	arts, err := s.artworkRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, arts, nil
}
