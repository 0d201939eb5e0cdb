package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/marisol-arts/gallery-backend/internal/handler"
	"github.com/marisol-arts/gallery-backend/internal/logger"
	appmw "github.com/marisol-arts/gallery-backend/internal/middleware"
	"github.com/marisol-arts/gallery-backend/internal/repository"
	"github.com/marisol-arts/gallery-backend/internal/service"
	"github.com/marisol-arts/gallery-backend/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	sha   string
	build string
}

func New(db *gorm.DB, gateway storage.Gateway, log *logger.Logger, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	artworkRepo := repository.NewArtworkRepository(db)
	imageRepo := repository.NewImageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orphanRepo := repository.NewOrphanRepository(db)

	catalogSvc := service.NewCatalogService(artworkRepo, orphanRepo, gateway, log)
	imageSvc := service.NewImageService(imageRepo, orphanRepo, gateway, log)
	orderSvc := service.NewOrderService(orderRepo, artworkRepo, log)

	artworkHandler := handler.NewArtworkHandler(catalogSvc)
	imageHandler := handler.NewImageHandler(imageSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)

	// Admin mutations go behind firebase auth when a project is
	// configured; local development runs open.
	requireAuth := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if authMw, err := appmw.NewAuthMiddleware(context.Background()); err != nil {
		log.Warn("firebase auth disabled; admin routes are open", "error", err)
	} else {
		requireAuth = authMw.RequireAuth
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")

	api.GET("/artworks", artworkHandler.List)
	api.GET("/artworks/:id", artworkHandler.Get)
	api.GET("/artworks/:id/images", imageHandler.List)

	api.POST("/artworks", artworkHandler.Create, requireAuth)
	api.PATCH("/artworks/:id", artworkHandler.Update, requireAuth)
	api.PUT("/artworks/:id/status", artworkHandler.SetStatus, requireAuth)
	api.DELETE("/artworks/:id", artworkHandler.Delete, requireAuth)

	api.POST("/artworks/:id/images", imageHandler.Upload, requireAuth)
	api.PUT("/artworks/:id/images/order", imageHandler.Reorder, requireAuth)
	api.PUT("/artworks/:id/images/:imageId/primary", imageHandler.SetPrimary, requireAuth)
	api.DELETE("/artworks/:id/images/:imageId", imageHandler.Delete, requireAuth)

	api.POST("/orders", orderHandler.PlaceOrder, requireAuth)
	api.GET("/orders/:id", orderHandler.Get, requireAuth)
	api.POST("/artworks/:id/unlink", orderHandler.Unlink, requireAuth)

	api.POST("/admin/orphans/reconcile", imageHandler.ReconcileOrphans, requireAuth)

	return &Server{e: e, sha: sha, build: buildTime}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
