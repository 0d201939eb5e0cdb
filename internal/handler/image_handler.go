package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/service"
)

type ImageHandler struct {
	svc service.ImageService
}

func NewImageHandler(svc service.ImageService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

type ImageResponse struct {
	ID           string `json:"id"`
	ArtworkID    string `json:"artworkId"`
	URL          string `json:"url"`
	IsPrimary    bool   `json:"isPrimary"`
	DisplayOrder int    `json:"displayOrder"`
	CreatedAt    string `json:"createdAt"`
}

type ImageListResponse struct {
	Images []ImageResponse `json:"images"`
}

type ReorderImagesRequest struct {
	ImageIDs []string `json:"imageIds"`
}

// Upload accepts multipart form data. The field names match the legacy
// storefront clients: the file under "image" and the primary flag under
// "is_main_image".
func (h *ImageHandler) Upload(c echo.Context) error {
	artworkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "image file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "failed to open image"))
	}
	defer f.Close()
	payload, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "failed to read image"))
	}
	makePrimary, _ := strconv.ParseBool(c.FormValue("is_main_image"))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(payload)
	}

	img, err := h.svc.Add(c.Request().Context(), artworkID, payload, contentType, makePrimary)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		case errors.Is(err, service.ErrStorageWrite):
			return c.JSON(http.StatusBadGateway, NewErrorResponse("storage_write_failed", "image upload failed"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toImageResponse(img))
}

func (h *ImageHandler) List(c echo.Context) error {
	artworkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	images, err := h.svc.List(c.Request().Context(), artworkID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch images"))
	}
	resp := ImageListResponse{Images: make([]ImageResponse, 0, len(images))}
	for i := range images {
		resp.Images = append(resp.Images, toImageResponse(&images[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ImageHandler) SetPrimary(c echo.Context) error {
	artworkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid image id"))
	}
	if err := h.svc.SetPrimary(c.Request().Context(), artworkID, imageID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "image not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to set primary image"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *ImageHandler) Delete(c echo.Context) error {
	artworkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid image id"))
	}
	result, err := h.svc.Delete(c.Request().Context(), artworkID, imageID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "image not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete image"))
	}
	resp := map[string]interface{}{"deleted": true}
	if result.Orphaned {
		// Warning-grade: metadata removal stands, the blob is queued for
		// reconciliation.
		resp["warning"] = "storage_delete_failed"
		resp["orphanedObject"] = result.StorageKey
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ImageHandler) Reorder(c echo.Context) error {
	artworkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req ReorderImagesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	ids := make([]uuid.UUID, 0, len(req.ImageIDs))
	for _, raw := range req.ImageIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid image id"))
		}
		ids = append(ids, id)
	}
	if err := h.svc.Reorder(c.Request().Context(), artworkID, ids); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "artwork not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *ImageHandler) ReconcileOrphans(c echo.Context) error {
	removed, remaining, err := h.svc.ReconcileOrphans(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "orphan reconciliation failed"))
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": removed, "remaining": remaining})
}

func toImageResponse(img *model.ArtworkImage) ImageResponse {
	return ImageResponse{
		ID:           img.ID.String(),
		ArtworkID:    img.ArtworkID.String(),
		URL:          img.URL,
		IsPrimary:    img.IsPrimary,
		DisplayOrder: img.DisplayOrder,
		CreatedAt:    img.CreatedAt.Format(time.RFC3339),
	}
}
