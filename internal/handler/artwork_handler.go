package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/service"
)

type ArtworkHandler struct {
	svc service.CatalogService
}

func NewArtworkHandler(svc service.CatalogService) *ArtworkHandler {
	return &ArtworkHandler{svc: svc}
}

type ArtworkResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	PaintingNumber *int    `json:"paintingNumber,omitempty"`
	PaintingYear   *int    `json:"paintingYear,omitempty"`
	WidthCM        float64 `json:"widthCm"`
	HeightCM       float64 `json:"heightCm"`
	PriceCents     int64   `json:"priceCents"`
	Medium         string  `json:"medium"`
	Category       string  `json:"category"`
	PaperSubstrate bool    `json:"paperSubstrate"`
	SortOrder      int     `json:"sortOrder"`
	Status         string  `json:"status"`
	SoldAt         *string `json:"soldAt,omitempty"`
	OrderID        *string `json:"orderId,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type ArtworkListResponse struct {
	Artworks []ArtworkResponse `json:"artworks"`
	Total    int64             `json:"total"`
}

type CreateArtworkRequest struct {
	Title          string  `json:"title"`
	PaintingNumber *int    `json:"paintingNumber"`
	PaintingYear   *int    `json:"paintingYear"`
	WidthCM        float64 `json:"widthCm"`
	HeightCM       float64 `json:"heightCm"`
	PriceCents     int64   `json:"priceCents"`
	Medium         string  `json:"medium"`
	Category       string  `json:"category"`
	PaperSubstrate bool    `json:"paperSubstrate"`
	SortOrder      int     `json:"sortOrder"`
	Status         string  `json:"status"`
}

type UpdateArtworkRequest struct {
	Title          *string  `json:"title"`
	PaintingNumber *int     `json:"paintingNumber"`
	PaintingYear   *int     `json:"paintingYear"`
	WidthCM        *float64 `json:"widthCm"`
	HeightCM       *float64 `json:"heightCm"`
	PriceCents     *int64   `json:"priceCents"`
	Medium         *string  `json:"medium"`
	Category       *string  `json:"category"`
	PaperSubstrate *bool    `json:"paperSubstrate"`
	SortOrder      *int     `json:"sortOrder"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

func parseID(c echo.Context, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(param))
}

func (h *ArtworkHandler) Create(c echo.Context) error {
	var req CreateArtworkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	art, err := h.svc.Create(c.Request().Context(), service.CreateArtworkInput{
		Title:          req.Title,
		PaintingNumber: req.PaintingNumber,
		PaintingYear:   req.PaintingYear,
		WidthCM:        req.WidthCM,
		HeightCM:       req.HeightCM,
		PriceCents:     req.PriceCents,
		Medium:         req.Medium,
		Category:       req.Category,
		PaperSubstrate: req.PaperSubstrate,
		SortOrder:      req.SortOrder,
		Status:         req.Status,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			return c.JSON(http.StatusUnprocessableEntity, NewErrorResponse("invalid_transition", err.Error()))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toArtworkResponse(art))
}

func (h *ArtworkHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	art, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch artwork"))
	}
	return c.JSON(http.StatusOK, toArtworkResponse(art))
}

func (h *ArtworkHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	status := c.QueryParam("status")
	arts, total, err := h.svc.List(c.Request().Context(), limit, offset, status)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	resp := ArtworkListResponse{
		Artworks: make([]ArtworkResponse, 0, len(arts)),
		Total:    total,
	}
	for i := range arts {
		resp.Artworks = append(resp.Artworks, toArtworkResponse(&arts[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ArtworkHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req UpdateArtworkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	art, err := h.svc.Update(c.Request().Context(), id, service.UpdateArtworkInput{
		Title:          req.Title,
		PaintingNumber: req.PaintingNumber,
		PaintingYear:   req.PaintingYear,
		WidthCM:        req.WidthCM,
		HeightCM:       req.HeightCM,
		PriceCents:     req.PriceCents,
		Medium:         req.Medium,
		Category:       req.Category,
		PaperSubstrate: req.PaperSubstrate,
		SortOrder:      req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toArtworkResponse(art))
}

func (h *ArtworkHandler) SetStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	art, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		case errors.Is(err, service.ErrInvalidTransition):
			return c.JSON(http.StatusUnprocessableEntity, NewErrorResponse("invalid_transition", err.Error()))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toArtworkResponse(art))
}

func (h *ArtworkHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	orphaned, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		case errors.Is(err, service.ErrConflict):
			return c.JSON(http.StatusConflict, NewErrorResponse("conflict", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete artwork"))
	}
	resp := map[string]interface{}{"deleted": true}
	if len(orphaned) > 0 {
		resp["orphanedObjects"] = orphaned
	}
	return c.JSON(http.StatusOK, resp)
}

func toArtworkResponse(art *model.Artwork) ArtworkResponse {
	resp := ArtworkResponse{
		ID:             art.ID.String(),
		Title:          art.Title,
		PaintingNumber: art.PaintingNumber,
		PaintingYear:   art.PaintingYear,
		WidthCM:        art.WidthCM,
		HeightCM:       art.HeightCM,
		PriceCents:     art.PriceCents,
		Medium:         string(art.Medium),
		Category:       string(art.Category),
		PaperSubstrate: art.PaperSubstrate,
		SortOrder:      art.SortOrder,
		Status:         string(art.Status),
		CreatedAt:      art.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      art.UpdatedAt.Format(time.RFC3339),
	}
	if art.SoldAt != nil {
		soldAt := art.SoldAt.Format(time.RFC3339)
		resp.SoldAt = &soldAt
	}
	if art.OrderID != nil {
		orderID := art.OrderID.String()
		resp.OrderID = &orderID
	}
	return resp
}
