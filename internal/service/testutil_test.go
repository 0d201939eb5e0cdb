package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/marisol-arts/gallery-backend/internal/logger"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/marisol-arts/gallery-backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Order{},
		&model.Artwork{},
		&model.ArtworkImage{},
		&model.OrphanedObject{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// fakeGateway is an in-memory object store with switchable failure modes.
type fakeGateway struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failPut    bool
	failDelete bool
	puts       int
	deletes    int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{objects: map[string][]byte{}}
}

func (f *fakeGateway) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPut {
		return "", errors.New("injected put failure")
	}
	f.objects[key] = payload
	return "https://example.test/" + key, nil
}

func (f *fakeGateway) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.failDelete {
		return errors.New("injected delete failure")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeGateway) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

type testEnv struct {
	db          *gorm.DB
	gateway     *fakeGateway
	artworkRepo repository.ArtworkRepository
	imageRepo   repository.ImageRepository
	orderRepo   repository.OrderRepository
	orphanRepo  repository.OrphanRepository
	catalog     CatalogService
	images      ImageService
	orders      OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	gw := newFakeGateway()
	log := logger.NewNop()

	artworkRepo := repository.NewArtworkRepository(db)
	imageRepo := repository.NewImageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orphanRepo := repository.NewOrphanRepository(db)

	return &testEnv{
		db:          db,
		gateway:     gw,
		artworkRepo: artworkRepo,
		imageRepo:   imageRepo,
		orderRepo:   orderRepo,
		orphanRepo:  orphanRepo,
		catalog:     NewCatalogService(artworkRepo, orphanRepo, gw, log),
		images:      NewImageService(imageRepo, orphanRepo, gw, log),
		orders:      NewOrderService(orderRepo, artworkRepo, log),
	}
}

func (e *testEnv) createArtwork(t *testing.T, title string) *model.Artwork {
	t.Helper()
	art, err := e.catalog.Create(context.Background(), CreateArtworkInput{
		Title:      title,
		WidthCM:    40,
		HeightCM:   30,
		PriceCents: 50000,
		Medium:     "oil_on_panel",
		Category:   "landscape",
	})
	if err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	return art
}
