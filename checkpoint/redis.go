package checkpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreConfig configures the Redis-backed cursor checkpoint store.
type StoreConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	TTL      time.Duration
}

// Store persists the resume cursor of the most recent import run per
// collection, so a later run (or a run cut short by a hosting timeout) can
// continue where the previous one stopped.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a checkpoint store and verifies connectivity.
func NewStore(cfg StoreConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Ping to verify
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}, nil
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func key(collectionID string) string {
	return "import:checkpoint:" + collectionID
}

// Save records the resume cursor for a collection. An empty cursor clears
// the checkpoint (the source was fully drained).
func (s *Store) Save(ctx context.Context, collectionID, cursor string) error {
	if cursor == "" {
		return s.client.Del(ctx, key(collectionID)).Err()
	}
	return s.client.Set(ctx, key(collectionID), cursor, s.ttl).Err()
}

// Load returns the saved resume cursor for a collection, or "" when none
// exists.
func (s *Store) Load(ctx context.Context, collectionID string) (string, error) {
	val, err := s.client.Get(ctx, key(collectionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
