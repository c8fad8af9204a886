package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/config"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/internal/database"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
)

// newCaseStore builds the fraud case store for the configured backend.
func newCaseStore(cfg *config.Config, logger *zap.Logger) (store.CaseStore, error) {
	switch cfg.Cases.Backend {
	case "memory":
		return store.NewMemoryCaseStore(), nil

	case "sqlite", "postgres", "mysql":
		db, err := database.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		return store.NewGormCaseStore(db, logger)

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return store.NewRedisCaseStore(client, cfg.Redis.KeyPrefix)

	default:
		return nil, fmt.Errorf("unknown cases backend: %s", cfg.Cases.Backend)
	}
}
