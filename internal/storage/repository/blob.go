package repository

import (
	"context"
	"errors"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidKey   = errors.New("invalid blob key")
)

// BlobStorage persists raw submission bytes under opaque keys.
// Keys are generated by the service layer and never derived from
// user-supplied filenames.
type BlobStorage interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
