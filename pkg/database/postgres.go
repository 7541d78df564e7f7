package database

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"screenBreak/pkg/config"
	"screenBreak/pkg/logger"
)

func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}

// InitPostgres opens the reference database, retrying with backoff while it
// comes up.
func InitPostgres(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	attempts := cfg.Database.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	var db *gorm.DB
	err := retry.Do(
		func() error {
			var err error
			db, err = gorm.Open(postgres.Open(DSN(cfg.Database)), &gorm.Config{
				Logger: gormlogger.Default.LogMode(gormlogger.Warn),
			})
			if err != nil {
				return err
			}

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return sqlDB.PingContext(pingCtx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("retrying database connection",
				"attempt", n+1,
				"host", cfg.Database.Host,
				"error", err,
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
