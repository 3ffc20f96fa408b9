package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"image-store/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	catalogKey       = "catalog:products"
	productKeyPrefix = "catalog:product:"

	// Catalog entries change only through admin product creation, which
	// invalidates explicitly; the TTL is a backstop.
	catalogTTL = 10 * time.Minute
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client for the catalog cache
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetProductList returns the cached catalog listing. The second return
// value reports whether the cache held an entry.
func (c *Client) GetProductList(ctx context.Context) ([]models.Product, bool, error) {
	data, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("corrupt catalog cache entry: %w", err)
	}
	return products, true, nil
}

// SetProductList caches the catalog listing.
func (c *Client) SetProductList(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, catalogKey, data, catalogTTL).Err()
}

// GetProduct returns a cached product detail entry.
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, bool, error) {
	data, err := c.rdb.Get(ctx, fmt.Sprintf("%s%d", productKeyPrefix, id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, false, fmt.Errorf("corrupt product cache entry: %w", err)
	}
	return &product, true, nil
}

// SetProduct caches a product detail entry.
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf("%s%d", productKeyPrefix, product.ID), data, catalogTTL).Err()
}

// InvalidateCatalog drops the catalog listing after an admin creates a
// product. Detail entries are keyed per product and new IDs cannot collide,
// so only the listing needs to go.
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}
