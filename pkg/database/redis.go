package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clinic-booking/pkg/utils"
)

// InitRedis connects to Redis and verifies the connection. The client is
// used as a read-through cache for session lookups only.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Username: config.Username,
		Password: config.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
