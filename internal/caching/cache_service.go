package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "shopdesk"

type CacheService interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProducts(ctx context.Context, productIDs ...uuid.UUID) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService accepts either host:port or a redis:// URL.
func NewRedisCacheService(addr, password string, db int) CacheService {
	return &redisCacheService{client: NewRedisClient(addr, password, db)}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	} else {
		log.Debug().Str("addr", parsedAddr).Msg("redis connection established")
	}
	return client
}

func productKey(productID uuid.UUID) string {
	return fmt.Sprintf("%s:product:%s", keyPrefix, productID.String())
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProducts(ctx context.Context, productIDs ...uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = productKey(id)
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
