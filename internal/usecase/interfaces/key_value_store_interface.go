package interfaces

import "context"

// IKeyValueStore is the raw persistence surface behind collection stores.
// Get returns (nil, false, nil) for a missing key.

type IKeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}
