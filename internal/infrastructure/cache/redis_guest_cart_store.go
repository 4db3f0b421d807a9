package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopmall/backend/internal/domain/cart"
)

const guestCartKeyPrefix = "cart:guest:"

// RedisGuestCartStore implements cart.GuestCartStore on Redis. The whole cart
// is one schema-versioned JSON value per device, written wholesale; the TTL
// slides on every save so an active guest never loses their cart.
type RedisGuestCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuestCartStore creates a guest cart store with the given TTL
func NewRedisGuestCartStore(client *redis.Client, ttl time.Duration) *RedisGuestCartStore {
	return &RedisGuestCartStore{
		client: client,
		ttl:    ttl,
	}
}

// Load returns the persisted guest cart, or an empty current-schema cart if
// none exists or the value has expired
func (s *RedisGuestCartStore) Load(ctx context.Context, deviceID uuid.UUID) (cart.PersistedCart, error) {
	data, err := s.client.Get(ctx, guestCartKey(deviceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.NewPersistedCart(nil), nil
		}
		return cart.PersistedCart{}, fmt.Errorf("failed to load guest cart: %w", err)
	}

	var persisted cart.PersistedCart
	if err := json.Unmarshal(data, &persisted); err != nil {
		return cart.PersistedCart{}, fmt.Errorf("failed to decode guest cart: %w", err)
	}
	return persisted, nil
}

// Save replaces the persisted guest cart wholesale
func (s *RedisGuestCartStore) Save(ctx context.Context, deviceID uuid.UUID, persisted cart.PersistedCart) error {
	data, err := json.Marshal(persisted)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	if err := s.client.Set(ctx, guestCartKey(deviceID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}

// Clear removes the persisted guest cart
func (s *RedisGuestCartStore) Clear(ctx context.Context, deviceID uuid.UUID) error {
	if err := s.client.Del(ctx, guestCartKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}

func guestCartKey(deviceID uuid.UUID) string {
	return guestCartKeyPrefix + deviceID.String()
}

var _ cart.GuestCartStore = (*RedisGuestCartStore)(nil)
