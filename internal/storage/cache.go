package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

const personaKeyPrefix = "persona:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient opens a client and checks the connection
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// PersonaCache is a read-through cache of persona records in front of a
// Storage. Redis errors are logged and the lookup falls through to the store.
type PersonaCache struct {
	Storage
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewPersonaCache(store Storage, client *redis.Client, ttl time.Duration, logger *zap.Logger) *PersonaCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonaCache{Storage: store, client: client, ttl: ttl, logger: logger}
}

func personaKey(id string) string {
	return personaKeyPrefix + id
}

func (c *PersonaCache) GetPersona(ctx context.Context, id string) (*models.PersonaRecord, error) {
	key := personaKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p models.PersonaRecord
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		c.logger.Warn("Discarding unreadable cached persona", zap.String("persona_id", id))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Persona cache read failed", zap.String("persona_id", id), zap.Error(err))
	}

	p, err := c.Storage.GetPersona(ctx, id)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(p)
	if err == nil {
		err = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("Persona cache write failed", zap.String("persona_id", id), zap.Error(err))
	}
	return p, nil
}

func (c *PersonaCache) SavePersona(ctx context.Context, p *models.PersonaRecord) error {
	if err := c.Storage.SavePersona(ctx, p); err != nil {
		return err
	}
	if err := c.client.Del(ctx, personaKey(p.ID)).Err(); err != nil {
		c.logger.Warn("Persona cache invalidation failed", zap.String("persona_id", p.ID), zap.Error(err))
	}
	return nil
}

// Close closes the underlying store and the Redis client
func (c *PersonaCache) Close() error {
	storeErr := c.Storage.Close()
	if err := c.client.Close(); err != nil && storeErr == nil {
		return err
	}
	return storeErr
}
