package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUploadsThenInserts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	art := env.createArtwork(t, "A")

	img, err := env.images.Add(ctx, art.ID, []byte("png-bytes"), "image/png", false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.StorageKey, "artworks/"+art.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(img.StorageKey, ".png"))
	assert.True(t, env.gateway.has(img.StorageKey))

	// First image is primary regardless of the request.
	assert.True(t, img.IsPrimary)
}

func TestAddStorageFailureLeavesNoMetadata(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	art := env.createArtwork(t, "A")

	env.gateway.failPut = true
	_, err := env.images.Add(ctx, art.ID, []byte("png"), "image/png", false)
	assert.True(t, errors.Is(err, ErrStorageWrite))

	images, err := env.images.List(ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestAddInsertFailureCleansUpObject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No such artwork, so the insert fails after the upload succeeded.
	_, err := env.images.Add(ctx, uuid.New(), []byte("png"), "image/png", false)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, 1, env.gateway.puts)
	assert.Equal(t, 1, env.gateway.deletes)

	orphans, err := env.orphanRepo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestAddRejectsEmptyPayload(t *testing.T) {
	env := newTestEnv(t)
	art := env.createArtwork(t, "A")

	_, err := env.images.Add(context.Background(), art.ID, nil, "image/png", false)
	assert.Error(t, err)
	assert.Equal(t, 0, env.gateway.puts)
}

func TestSetPrimaryMissingImage(t *testing.T) {
	env := newTestEnv(t)
	art := env.createArtwork(t, "A")

	err := env.images.SetPrimary(context.Background(), art.ID, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteRemovesObjectAndRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	art := env.createArtwork(t, "A")

	img, err := env.images.Add(ctx, art.ID, []byte("png"), "image/png", true)
	require.NoError(t, err)

	result, err := env.images.Delete(ctx, art.ID, img.ID)
	require.NoError(t, err)
	assert.False(t, result.Orphaned)
	assert.Equal(t, img.StorageKey, result.StorageKey)
	assert.False(t, env.gateway.has(img.StorageKey))

	images, err := env.images.List(ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestDeleteStorageFailureOrphansObject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	art := env.createArtwork(t, "A")

	img, err := env.images.Add(ctx, art.ID, []byte("png"), "image/png", true)
	require.NoError(t, err)

	env.gateway.failDelete = true
	result, err := env.images.Delete(ctx, art.ID, img.ID)
	require.NoError(t, err)
	assert.True(t, result.Orphaned)

	// Metadata removal committed anyway.
	images, err := env.images.List(ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, images)

	orphans, err := env.orphanRepo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, img.StorageKey, orphans[0].StorageKey)
}

func TestReconcileOrphansClearsQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	art := env.createArtwork(t, "A")

	img, err := env.images.Add(ctx, art.ID, []byte("png"), "image/png", true)
	require.NoError(t, err)

	env.gateway.failDelete = true
	_, err = env.images.Delete(ctx, art.ID, img.ID)
	require.NoError(t, err)

	// Storage is back; the retry succeeds and drains the queue.
	env.gateway.failDelete = false
	removed, remaining, err := env.images.ReconcileOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, remaining)
	assert.False(t, env.gateway.has(img.StorageKey))

	orphans, err := env.orphanRepo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestReconcileOrphansKeepsFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	art := env.createArtwork(t, "A")

	img, err := env.images.Add(ctx, art.ID, []byte("png"), "image/png", true)
	require.NoError(t, err)

	env.gateway.failDelete = true
	_, err = env.images.Delete(ctx, art.ID, img.ID)
	require.NoError(t, err)

	removed, remaining, err := env.images.ReconcileOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, remaining)

	orphans, err := env.orphanRepo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, orphans, 1)
}

func TestReorderRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	art := env.createArtwork(t, "A")

	first, err := env.images.Add(ctx, art.ID, []byte("a"), "image/png", false)
	require.NoError(t, err)
	second, err := env.images.Add(ctx, art.ID, []byte("b"), "image/png", false)
	require.NoError(t, err)

	require.NoError(t, env.images.Reorder(ctx, art.ID, []uuid.UUID{second.ID, first.ID}))

	images, err := env.images.List(ctx, art.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, second.ID, images[0].ID)
	assert.Equal(t, first.ID, images[1].ID)
}
