package service

import "errors"

var (
	// ErrNotFound means the referenced artwork, image, or order is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition means a direct status change is illegal, such
	// as setting sold without an order.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict covers double-sale attempts and deletes of order-linked
	// artworks.
	ErrConflict = errors.New("conflict")
	// ErrStorageWrite aborts the operation with no metadata side effect.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStorageDelete is warning-grade: the metadata removal stands and
	// the orphaned object is queued for reconciliation.
	ErrStorageDelete = errors.New("storage delete failed")
)
