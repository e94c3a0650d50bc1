//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/flavorfind/backend/internal/storage"
	"github.com/pageza/flavorfind/backend/internal/testdb"
)

func roundTrip(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "spoonacular_api_key", "abc123"))
	require.NoError(t, s.Set(ctx, "spoonacular_api_key", "def456"))
	val, ok, err := s.Get(ctx, "spoonacular_api_key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def456", val)

	require.NoError(t, s.Remove(ctx, "spoonacular_api_key"))
	_, ok, err = s.Get(ctx, "spoonacular_api_key")
	require.NoError(t, err)
	assert.False(t, ok)

	// namespaces share the backend without sharing keys
	a := storage.Namespace(s, storage.SessionNamespace("a"))
	b := storage.Namespace(s, storage.SessionNamespace("b"))
	require.NoError(t, a.Set(ctx, "favorite_recipes", "[]"))
	_, ok, err = b.Get(ctx, "favorite_recipes")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStorage(t *testing.T) {
	roundTrip(t, storage.NewSQLStorage(testdb.SetupPostgres(t)))
}

func TestRedisStorage(t *testing.T) {
	roundTrip(t, storage.NewRedisStorage(testdb.SetupRedis(t), "flavorfind-test:"))
}

func TestMongoStorage(t *testing.T) {
	roundTrip(t, storage.NewMongoStorage(testdb.SetupMongo(t)))
}
