// Package kv provides the local key-value storage the record store persists
// into. Keys are independent; values are written wholesale.
package kv

import "context"

// Store is a minimal key-value storage backend.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
