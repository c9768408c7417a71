package database

import (
	"fmt"
	"time"

	"github.com/mroshb/filmorate/internal/config"
	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	case config.BackendSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("backend %q has no database", cfg.StorageBackend)
	}

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := Open(dialector, logLevel)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.StorageBackend == config.BackendSQLite {
		// sqlite has a single writer; one connection avoids SQLITE_BUSY inside transactions.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	logger.Info("Database connected successfully", "backend", cfg.StorageBackend)
	return db, nil
}

// Open opens a GORM handle with the engine's session defaults.
func Open(dialector gorm.Dialector, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Multi-statement mutations open their own transactions.
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Director{},
		&models.Film{},
		&models.FilmLike{},
		&models.Friendship{},
		&models.Review{},
		&models.ReviewVote{},
		&models.FeedEvent{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
