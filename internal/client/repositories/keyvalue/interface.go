// Package keyvalue is the durable key/value tier behind the session store.
//
// Two implementations exist: SQLiteRepository (the default, a local file) and
// RedisRepository (a shared store, so several terminals can share one
// session). Both follow the same contract: Get on a missing key returns
// (nil, nil), and Delete on a missing key is not an error.
package keyvalue

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
