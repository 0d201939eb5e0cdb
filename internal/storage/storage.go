package storage

import "context"

// Gateway uploads and deletes binary image assets in an external blob
// store. It owns no business logic; callers decide retry and cleanup
// policy on failure.
type Gateway interface {
	// Put writes payload under key and returns a public-accessible URL.
	Put(ctx context.Context, key string, payload []byte, contentType string) (string, error)
	// Delete removes the object under key. Deleting a missing object is
	// not an error.
	Delete(ctx context.Context, key string) error
}
