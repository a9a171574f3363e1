package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/config"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
)

// PostingWindowConstraint rejects confessions created after the board closes.
const PostingWindowConstraint = "chk_confessions_posting_window"

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate creates the wall tables and installs the posting window check.
// A nil closesAt removes any previously installed window.
func Migrate(db *gorm.DB, closesAt *time.Time) error {
	if err := db.AutoMigrate(
		&models.Confession{},
		&models.Reaction{},
		&models.Report{},
		&models.SystemLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return SetPostingWindow(db, closesAt)
}

func SetPostingWindow(db *gorm.DB, closesAt *time.Time) error {
	drop := fmt.Sprintf(`ALTER TABLE confessions DROP CONSTRAINT IF EXISTS %s`, PostingWindowConstraint)
	if err := db.Exec(drop).Error; err != nil {
		return fmt.Errorf("failed to drop posting window: %w", err)
	}
	if closesAt == nil {
		return nil
	}

	add := fmt.Sprintf(`ALTER TABLE confessions ADD CONSTRAINT %s CHECK (created_at < '%s'::timestamptz) NOT VALID`,
		PostingWindowConstraint, closesAt.UTC().Format(time.RFC3339))
	if err := db.Exec(add).Error; err != nil {
		return fmt.Errorf("failed to add posting window: %w", err)
	}
	slog.Info("posting window installed", "closes_at", closesAt.UTC().Format(time.RFC3339))
	return nil
}
