package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marisol-arts/gallery-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// requireSinglePrimary asserts the core invariant: a non-empty image set
// has exactly one primary.
func requireSinglePrimary(t *testing.T, repo ImageRepository, artworkID uuid.UUID) *model.ArtworkImage {
	t.Helper()
	images, err := repo.ListByArtwork(context.Background(), artworkID)
	require.NoError(t, err)
	require.NotEmpty(t, images)
	var primary *model.ArtworkImage
	for i := range images {
		if images[i].IsPrimary {
			require.Nil(t, primary, "more than one primary image")
			primary = &images[i]
		}
	}
	require.NotNil(t, primary, "no primary image in a non-empty set")
	return primary
}

func TestInsertFirstImageForcedPrimary(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))

	// makePrimary=false is overridden for the first image.
	img := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "k1", URL: "u1"}
	require.NoError(t, repo.Insert(ctx, img, false))
	assert.True(t, img.IsPrimary)

	primary := requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, img.ID, primary.ID)
}

func TestInsertMakePrimaryDemotesPrevious(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))

	x := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "x", URL: "ux"}
	y := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "y", URL: "uy"}
	z := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "z", URL: "uz"}
	require.NoError(t, repo.Insert(ctx, x, true))
	require.NoError(t, repo.Insert(ctx, y, false))
	require.NoError(t, repo.Insert(ctx, z, true))

	primary := requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, z.ID, primary.ID)
}

func TestInsertWithoutPrimaryKeepsCurrent(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))

	x := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "x", URL: "ux"}
	y := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "y", URL: "uy"}
	require.NoError(t, repo.Insert(ctx, x, false))
	require.NoError(t, repo.Insert(ctx, y, false))

	primary := requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, x.ID, primary.ID)
	assert.False(t, y.IsPrimary)
}

func TestInsertAssignsIncreasingDisplayOrder(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))

	for i, key := range []string{"a", "b", "c"} {
		img := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: key, URL: key}
		require.NoError(t, repo.Insert(ctx, img, false))
		assert.Equal(t, i, img.DisplayOrder)
	}
}

func TestInsertMissingArtwork(t *testing.T) {
	db := openTestDB(t)
	repo := NewImageRepository(db)

	img := &model.ArtworkImage{ArtworkID: uuid.New(), StorageKey: "k", URL: "u"}
	err := repo.Insert(context.Background(), img, false)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSetPrimarySwaps(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))
	x := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "x", URL: "ux"}
	y := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "y", URL: "uy"}
	require.NoError(t, repo.Insert(ctx, x, false))
	require.NoError(t, repo.Insert(ctx, y, false))

	require.NoError(t, repo.SetPrimary(ctx, art.ID, y.ID))
	primary := requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, y.ID, primary.ID)

	// Promoting the current primary is a valid no-op.
	require.NoError(t, repo.SetPrimary(ctx, art.ID, y.ID))
	primary = requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, y.ID, primary.ID)
}

func TestSetPrimaryWrongArtwork(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	a := newArtwork("A")
	b := newArtwork("B")
	require.NoError(t, artRepo.Create(ctx, a))
	require.NoError(t, artRepo.Create(ctx, b))
	img := &model.ArtworkImage{ArtworkID: a.ID, StorageKey: "k", URL: "u"}
	require.NoError(t, repo.Insert(ctx, img, false))

	// The image belongs to A, not B.
	err := repo.SetPrimary(ctx, b.ID, img.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeletePrimaryPromotesSuccessor(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))
	x := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "x", URL: "ux"}
	y := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "y", URL: "uy"}
	z := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "z", URL: "uz"}
	require.NoError(t, repo.Insert(ctx, x, true))
	require.NoError(t, repo.Insert(ctx, y, false))
	require.NoError(t, repo.Insert(ctx, z, false))

	deleted, err := repo.Delete(ctx, art.ID, x.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", deleted.StorageKey)

	// Successor is the lowest display order among the remaining images.
	primary := requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, y.ID, primary.ID)
}

func TestDeletePrimarySuccessorTieBreaksByCreatedAt(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))

	now := time.Now()
	primary := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "p", URL: "up"}
	require.NoError(t, repo.Insert(ctx, primary, true))
	older := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "old", URL: "uo", CreatedAt: now.Add(-time.Hour)}
	newer := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "new", URL: "un", CreatedAt: now}
	require.NoError(t, repo.Insert(ctx, older, false))
	require.NoError(t, repo.Insert(ctx, newer, false))

	// Flatten display order so created_at decides the successor.
	require.NoError(t, db.Model(&model.ArtworkImage{}).
		Where("artwork_id = ?", art.ID).
		Update("display_order", 0).Error)

	_, err := repo.Delete(ctx, art.ID, primary.ID)
	require.NoError(t, err)

	got := requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, older.ID, got.ID)
}

func TestDeleteNonPrimaryKeepsPrimary(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))
	x := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "x", URL: "ux"}
	y := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "y", URL: "uy"}
	require.NoError(t, repo.Insert(ctx, x, true))
	require.NoError(t, repo.Insert(ctx, y, false))

	_, err := repo.Delete(ctx, art.ID, y.ID)
	require.NoError(t, err)

	primary := requireSinglePrimary(t, repo, art.ID)
	assert.Equal(t, x.ID, primary.ID)
}

func TestDeleteLastImageLeavesEmptySet(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))
	img := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "k", URL: "u"}
	require.NoError(t, repo.Insert(ctx, img, false))

	_, err := repo.Delete(ctx, art.ID, img.ID)
	require.NoError(t, err)

	images, err := repo.ListByArtwork(ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestDeleteMissingImage(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))

	_, err := repo.Delete(ctx, art.ID, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestReorderAssignsPositions(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))
	x := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "x", URL: "ux"}
	y := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "y", URL: "uy"}
	z := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "z", URL: "uz"}
	require.NoError(t, repo.Insert(ctx, x, false))
	require.NoError(t, repo.Insert(ctx, y, false))
	require.NoError(t, repo.Insert(ctx, z, false))

	require.NoError(t, repo.Reorder(ctx, art.ID, []uuid.UUID{z.ID, x.ID, y.ID}))

	images, err := repo.ListByArtwork(ctx, art.ID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, z.ID, images[0].ID)
	assert.Equal(t, x.ID, images[1].ID)
	assert.Equal(t, y.ID, images[2].ID)
}

func TestReorderRejectsPartialSet(t *testing.T) {
	db := openTestDB(t)
	artRepo := NewArtworkRepository(db)
	repo := NewImageRepository(db)
	ctx := context.Background()

	art := newArtwork("A")
	require.NoError(t, artRepo.Create(ctx, art))
	x := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "x", URL: "ux"}
	y := &model.ArtworkImage{ArtworkID: art.ID, StorageKey: "y", URL: "uy"}
	require.NoError(t, repo.Insert(ctx, x, false))
	require.NoError(t, repo.Insert(ctx, y, false))

	err := repo.Reorder(ctx, art.ID, []uuid.UUID{x.ID})
	assert.True(t, errors.Is(err, ErrReorderMismatch))

	err = repo.Reorder(ctx, art.ID, []uuid.UUID{x.ID, uuid.New()})
	assert.True(t, errors.Is(err, ErrReorderMismatch))
}
