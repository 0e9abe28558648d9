package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
	"github.com/go-redis/redis/v8"
)

var (
	// Client is the global Redis client. nil means Redis is not in use.
	Client *redis.Client

	isRedisEnabled bool
)

// Init connects to Redis when enabled in config. Connection failures degrade
// to single-server mode instead of blocking startup.
func Init(cfg *config.RedisConfig) error {
	if !cfg.Enabled {
		logger.Info("Redis is disabled in config, running in single-server mode")
		isRedisEnabled = false
		return nil
	}

	cfg.SetDefaults()

	Client = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.ConnectTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		Client.Close()
		Client = nil
		isRedisEnabled = false
		return fmt.Errorf("failed to connect to Redis at %s:%d: %w (falling back to single-server mode)", cfg.Host, cfg.Port, err)
	}

	isRedisEnabled = true
	logger.Infof("Connected to Redis at %s:%d (DB: %d, PoolSize: %d)",
		cfg.Host, cfg.Port, cfg.DB, cfg.PoolSize)
	return nil
}

func Close() error {
	if Client != nil {
		err := Client.Close()
		Client = nil
		isRedisEnabled = false
		return err
	}
	return nil
}

// IsEnabled reports whether Redis is configured and the connection came up.
func IsEnabled() bool {
	return Client != nil && isRedisEnabled
}

// GetClient returns the shared client, or nil when Redis is not in use.
func GetClient() *redis.Client {
	return Client
}
