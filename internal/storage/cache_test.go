package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

// countingStore counts persona lookups that reach the backing store
type countingStore struct {
	*MemoryStorage
	gets int
}

func (s *countingStore) GetPersona(ctx context.Context, id string) (*models.PersonaRecord, error) {
	s.gets++
	return s.MemoryStorage.GetPersona(ctx, id)
}

func setupCache(t *testing.T) (*PersonaCache, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := &countingStore{MemoryStorage: NewMemoryStorage()}
	require.NoError(t, store.SavePersona(context.Background(), &models.PersonaRecord{ID: "p1", Name: "First"}))

	return NewPersonaCache(store, client, time.Hour, zaptest.NewLogger(t)), store, mr
}

func TestPersonaCache_ReadThrough(t *testing.T) {
	cache, store, mr := setupCache(t)
	ctx := context.Background()

	p, err := cache.GetPersona(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "First", p.Name)
	assert.True(t, mr.Exists("persona:p1"))
	assert.Equal(t, time.Hour, mr.TTL("persona:p1"))

	p, err = cache.GetPersona(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "First", p.Name)
	assert.Equal(t, 1, store.gets)
}

func TestPersonaCache_SaveInvalidates(t *testing.T) {
	cache, _, mr := setupCache(t)
	ctx := context.Background()

	_, err := cache.GetPersona(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, cache.SavePersona(ctx, &models.PersonaRecord{ID: "p1", Name: "Renamed"}))
	assert.False(t, mr.Exists("persona:p1"))

	p, err := cache.GetPersona(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
}

func TestPersonaCache_MissingPersona(t *testing.T) {
	cache, _, mr := setupCache(t)

	_, err := cache.GetPersona(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("persona:ghost"))
}

func TestPersonaCache_CorruptEntryFallsThrough(t *testing.T) {
	cache, store, mr := setupCache(t)
	require.NoError(t, mr.Set("persona:p1", "{not json"))

	p, err := cache.GetPersona(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "First", p.Name)
	assert.Equal(t, 1, store.gets)

	raw, err := mr.Get("persona:p1")
	require.NoError(t, err)
	var cached models.PersonaRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, "First", cached.Name)
}

func TestPersonaCache_RedisDownFallsThrough(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	store := &countingStore{MemoryStorage: NewMemoryStorage()}
	ctx := context.Background()
	require.NoError(t, store.SavePersona(ctx, &models.PersonaRecord{ID: "p1", Name: "First"}))

	redisMock.ExpectGet("persona:p1").SetErr(errors.New("connection refused"))
	encoded, _ := json.Marshal(&models.PersonaRecord{ID: "p1", Name: "First"})
	redisMock.ExpectSet("persona:p1", encoded, 5*time.Minute).SetErr(errors.New("connection refused"))

	cache := NewPersonaCache(store, client, 5*time.Minute, nil)
	p, err := cache.GetPersona(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, "First", p.Name)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}
