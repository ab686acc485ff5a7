package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func New(redisAddr, password string, db int) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	return &Cache{
		client: client,
	}
}

// NewFromClient is used when the caller already owns a client, tests mostly
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Ping checks the connection, used at startup and by the status endpoint
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}
