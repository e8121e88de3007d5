package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/roommate-match/internal/cache"
	"github.com/oggyb/roommate-match/internal/matching"
)

// AppContext holds shared dependencies (DB, Redis, Logger, matching engine)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Engine     *matching.Engine
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, engine *matching.Engine) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Engine:     engine,
	}
}
