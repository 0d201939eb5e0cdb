package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type PlaceOrderRequest struct {
	ArtworkIDs []string `json:"artworkIds"`
}

type OrderResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Artworks  []ArtworkResponse `json:"artworks,omitempty"`
	CreatedAt string            `json:"createdAt"`
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	ids := make([]uuid.UUID, 0, len(req.ArtworkIDs))
	for _, raw := range req.ArtworkIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid artwork id"))
		}
		ids = append(ids, id)
	}
	order, err := h.svc.PlaceOrder(c.Request().Context(), ids)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		case errors.Is(err, service.ErrConflict):
			return c.JSON(http.StatusConflict, NewErrorResponse("conflict", err.Error()))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order, nil))
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	order, arts, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch order"))
	}
	return c.JSON(http.StatusOK, toOrderResponse(order, arts))
}

// Unlink handles returns and cancellations: the artwork goes back to
// available and its sale linkage is cleared.
func (h *OrderHandler) Unlink(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	art, err := h.svc.Unlink(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to unlink artwork"))
	}
	return c.JSON(http.StatusOK, toArtworkResponse(art))
}

func toOrderResponse(order *model.Order, arts []model.Artwork) OrderResponse {
	resp := OrderResponse{
		ID:        order.ID.String(),
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
	for i := range arts {
		resp.Artworks = append(resp.Artworks, toArtworkResponse(&arts[i]))
	}
	return resp
}
