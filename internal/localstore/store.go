// Package localstore persists the client-side slice of storefront state:
// cart id, user snapshot, wishlist contents and recent searches, each under
// its own independent key. It is the serialize/deserialize boundary the
// stores load from on startup and write through on every mutation.
package localstore

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("localstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
