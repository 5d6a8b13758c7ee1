package alias

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisHashKey = "familiar:aliases"

// RedisStore is the alternative alias backend (ALIAS_STORE=redis). The full
// hash is loaded once at startup; each upsert writes the one field through
// so the table survives restarts the same way the file backend does.
type RedisStore struct {
	client  *redis.Client
	mu      sync.Mutex
	entries map[string]string
	log     *logrus.Logger
}

func NewRedisStore(log *logrus.Logger) (*RedisStore, error) {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("alias: redis ping: %w", err)
	}

	loaded, err := client.HGetAll(ctx, redisHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("alias: redis load: %w", err)
	}

	entries := make(map[string]string, len(loaded))
	for k, v := range loaded {
		entries[Normalize(k)] = Normalize(v)
	}

	log.WithFields(logrus.Fields{
		"key":   redisHashKey,
		"count": len(entries),
	}).Info("Aliases loaded from Redis")

	return &RedisStore{
		client:  client,
		entries: entries,
		log:     log,
	}, nil
}

func (s *RedisStore) Get(aliasName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.entries[Normalize(aliasName)]
	return target, ok
}

func (s *RedisStore) Resolve(name string) string {
	normalized := Normalize(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if target, ok := s.entries[normalized]; ok {
		return target
	}
	return normalized
}

func (s *RedisStore) Upsert(aliasName, target string) (UpsertStatus, error) {
	key := Normalize(aliasName)
	value := Normalize(target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		if existing == value {
			return Unchanged, nil
		}
		return Conflict, nil
	}

	s.entries[key] = value

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.HSet(ctx, redisHashKey, key, value).Err(); err != nil {
		s.log.WithFields(logrus.Fields{
			"alias": key,
			"error": err.Error(),
		}).Error("Failed to persist alias to Redis, mutation is session-only")
		return Added, fmt.Errorf("alias: redis persist: %w", err)
	}

	return Added, nil
}

func (s *RedisStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		copied[k] = v
	}
	return copied
}

func (s *RedisStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
