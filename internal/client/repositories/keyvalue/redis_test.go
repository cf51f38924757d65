package keyvalue

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedisRepo connects to UPI_TEST_REDIS_ADDR; the test is skipped when the
// variable is unset.
func newRedisRepo(t *testing.T) *RedisRepository {
	t.Helper()
	addr := os.Getenv("UPI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("UPI_TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	r := NewRedisRepository(rdb, "upiwallet-test:"+uuid.NewString()+":")
	t.Cleanup(func() { _ = r.Clear(context.Background()) })
	return r
}

func TestRedis_Contract(t *testing.T) {
	r := newRedisRepo(t)
	ctx := context.Background()

	v, err := r.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "currentUser", []byte(`{"id":1}`)))
	require.NoError(t, r.Set(ctx, "currentAccount", []byte(`{"id":2}`)))

	v, err = r.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), v)

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"currentUser":    []byte(`{"id":1}`),
		"currentAccount": []byte(`{"id":2}`),
	}, m)

	require.NoError(t, r.Delete(ctx, "currentUser"))
	require.NoError(t, r.Delete(ctx, "currentUser"))

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}
