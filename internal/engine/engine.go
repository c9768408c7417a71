package engine

import (
	"fmt"

	"github.com/mroshb/filmorate/internal/config"
	"github.com/mroshb/filmorate/internal/database"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/internal/repositories/memory"
	"github.com/mroshb/filmorate/internal/services"
	"github.com/mroshb/filmorate/pkg/logger"
)

// Engine bundles every service over one storage backend.
type Engine struct {
	Store           repositories.Store
	Friends         *services.FriendService
	Engagement      *services.EngagementService
	Popularity      *services.PopularityService
	Recommendations *services.RecommendationService
	Feed            *services.FeedService
	Reviews         *services.ReviewService

	TopLimit int

	close func() error
}

func New(store repositories.Store, cfg *config.Config) *Engine {
	return &Engine{
		Store:           store,
		Friends:         services.NewFriendService(store),
		Engagement:      services.NewEngagementService(store),
		Popularity:      services.NewPopularityService(store),
		Recommendations: services.NewRecommendationService(store),
		Feed:            services.NewFeedService(store),
		Reviews:         services.NewReviewService(store, cfg.DefaultReviewLimit),
		TopLimit:        cfg.DefaultTopLimit,
		close:           func() error { return nil },
	}
}

// Open selects the backend named by cfg.StorageBackend. Database backends
// are migrated before the engine is returned.
func Open(cfg *config.Config) (*Engine, error) {
	if cfg.StorageBackend == config.BackendMemory {
		logger.Info("Using in-memory storage")
		return New(memory.NewStore(), cfg), nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	e := New(repositories.NewGormStore(db), cfg)
	e.close = sqlDB.Close
	return e, nil
}

func (e *Engine) Close() error {
	return e.close()
}
