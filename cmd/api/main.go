package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/marisol-arts/gallery-backend/internal/config"
	"github.com/marisol-arts/gallery-backend/internal/db"
	"github.com/marisol-arts/gallery-backend/internal/logger"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/server"
	"github.com/marisol-arts/gallery-backend/internal/storage"
)

// Set via -ldflags at build time.
var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zlog.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		zlog.Error("db connect error", "error", err)
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.Order{},
		&model.Artwork{},
		&model.ArtworkImage{},
		&model.OrphanedObject{},
	); err != nil {
		zlog.Warn("auto migrate error", "error", err)
	}

	ctx := context.Background()
	var gateway storage.Gateway
	if cfg.StorageBucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg.StorageBucket)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
		defer gcs.Close()
		gateway = gcs
	} else {
		zlog.Warn("STORAGE_BUCKET not set; using in-memory object store")
		gateway = storage.NewMemory()
	}

	srv := server.New(conn, gateway, zlog, gitSHA, buildTime)
	addr := ":" + cfg.Port
	zlog.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		zlog.Error("server stopped", "error", err)
		log.Fatalf("server stopped: %v", err)
	}
}
