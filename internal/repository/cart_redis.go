package repository

import (
	"context"
	"encoding/json"
	"time"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// CartStore is the storage port for the server-side mirror of the client
// cart. The cart stays client-owned; this is only a convenience copy.
type CartStore interface {
	Load(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, userID string, cart *models.Cart) error
	Clear(ctx context.Context, userID string) error
}

const cartTTL = 30 * 24 * time.Hour

// RedisCartStore keeps each cart under cart:<user_id> as a JSON item list.
type RedisCartStore struct{}

func NewRedisCartStore() *RedisCartStore {
	return &RedisCartStore{}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (s *RedisCartStore) Load(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return &models.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return &models.Cart{Items: items}, nil
}

func (s *RedisCartStore) Save(ctx context.Context, userID string, cart *models.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	return database.Redis.Set(ctx, cartKey(userID), data, cartTTL).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, userID string) error {
	return database.Redis.Del(ctx, cartKey(userID)).Err()
}
