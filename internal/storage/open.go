package storage

import (
	"context"
	"fmt"

	"habits/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open 按配置打开存储后端；SQLite 后端首次打开时迁移旧版 JSON 文件
// Open returns the slot backend selected by cfg. Opening the SQLite backend
// also migrates a legacy habits.json found in the base dir into the empty slot.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (Slot, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		slot, err := NewSQLiteSlot(cfg.DBPath(), cfg.Storage.Key)
		if err != nil {
			return nil, err
		}
		migrated, err := MigrateFromJSON(ctx, cfg.JSONPath(), slot)
		if err != nil {
			// 迁移非关键 / migration is best effort
			log.Warn("legacy migration failed", zap.String("path", cfg.JSONPath()), zap.Error(err))
		} else if migrated {
			log.Info("migrated legacy habits file", zap.String("from", cfg.JSONPath()), zap.String("to", slot.Path()))
		}
		return slot, nil
	case config.BackendFile:
		return NewFileSlot(cfg.JSONPath())
	case config.BackendRedis:
		return NewRedisSlot(ctx, &redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		}, cfg.Storage.Key)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
