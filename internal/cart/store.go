package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type cartCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

// Store persists each merchant's open cart in Redis as JSON.
type Store struct {
	cache cartCache
	ttl   time.Duration
}

// NewStore builds a Redis-backed cart store.
func NewStore(cache cartCache, ttl time.Duration) (*Store, error) {
	if cache == nil {
		return nil, fmt.Errorf("cart cache required")
	}
	return &Store{cache: cache, ttl: ttl}, nil
}

// Load returns the user's cart, or an empty cart when none is stored.
func (s *Store) Load(ctx context.Context, userID string) (*Cart, error) {
	raw, err := s.cache.Get(ctx, s.cache.CartKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &c, nil
}

// Save writes the cart back, refreshing its TTL. An empty cart clears the key.
func (s *Store) Save(ctx context.Context, userID string, c *Cart) error {
	if c == nil || c.IsEmpty() {
		return s.Clear(ctx, userID)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.cache.Set(ctx, s.cache.CartKey(userID), string(raw), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear removes the stored cart.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.cache.Del(ctx, s.cache.CartKey(userID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
