package offline

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStores_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Save(ctx, "k", []byte("one")))
			require.NoError(t, store.Save(ctx, "k", []byte("two")))
			got, err := store.Load(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("two"), got)

			require.NoError(t, store.Delete(ctx, "k"))
			_, err = store.Load(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NoError(t, store.Delete(ctx, "never-saved"))
		})
	}
}

func TestCache_ResponsesAndKeyword(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			c := New(store, nil)

			_, ok, err := c.LoadResponse(ctx, "interview/dramas-sample.json")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, c.SaveResponse(ctx, "interview/dramas-sample.json", []byte(`{"data":[]}`)))
			require.NoError(t, c.SaveResponse(ctx, "other.json", []byte(`{}`)))
			data, ok, err := c.LoadResponse(ctx, "interview/dramas-sample.json")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"data":[]}`, string(data))

			_, ok, err = c.LoadLastKeyword(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, c.SaveLastKeyword(ctx, "小美好"))
			kw, ok, err := c.LoadLastKeyword(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "小美好", kw)

			require.NoError(t, c.SaveLastKeyword(ctx, ""))
			_, ok, err = c.LoadLastKeyword(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCache_KeywordDoesNotCollideWithPaths(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), nil)

	require.NoError(t, c.SaveResponse(ctx, KeywordKey, []byte("payload")))
	require.NoError(t, c.SaveLastKeyword(ctx, "kw"))

	data, ok, err := c.LoadResponse(ctx, KeywordKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "payload", string(data))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	store, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	c := New(store, nil)
	require.NoError(t, c.SaveResponse(ctx, "a.json", []byte("payload")))
	require.NoError(t, c.SaveLastKeyword(ctx, "kw"))
	require.NoError(t, c.Close())

	store, err = NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeywordKey, ResponseKey("a.json")}, keys)

	c = New(store, nil)
	data, ok, err := c.LoadResponse(ctx, "a.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", string(data))
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, store.Save(ctx, "k", value))
	value[0] = 'x'

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	got[0] = 'y'

	again, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
	assert.Equal(t, 1, store.Len())
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(ctx, Options{Path: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.ErrorContains(t, err, "unknown cache backend")

	_, err = Open(ctx, Options{Backend: "sqlite"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: "redis"})
	assert.ErrorContains(t, err, "redis address is empty")
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REEL_REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis integration test - set REEL_REDIS_ADDR to run")
	}
	db, _ := strconv.Atoi(os.Getenv("REEL_REDIS_DB"))

	ctx := context.Background()
	store, err := NewRedisStore(ctx, addr, os.Getenv("REEL_REDIS_PASSWORD"), db)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	c := New(store, nil)
	require.NoError(t, c.SaveResponse(ctx, "redis-test.json", []byte("payload")))
	data, ok, err := c.LoadResponse(ctx, "redis-test.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, ResponseKey("redis-test.json")))
	_, err = store.Load(ctx, ResponseKey("redis-test.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}
