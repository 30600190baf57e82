package database

import (
	"context"
	"fmt"
	"time"

	"quiz-hub/internal/config"
	"quiz-hub/internal/logger"

	_ "github.com/godror/godror" // Oracle driver (OCI)
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go)
	"go.uber.org/zap"
)

func init() {
	// go-ora registers as "oracle", which sqlx does not know; both drivers take :name binds.
	sqlx.BindDriver(config.DriverGoOra, sqlx.NAMED)
}

// NewSQLXDB opens and pings the configured Oracle database.
func NewSQLXDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	if driver == "" {
		driver = config.DriverGoOra
	}

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Get().Info("Successfully connected to Oracle database",
		zap.String("driver", driver),
		zap.String("host", cfg.DB.Host),
		zap.Int("port", cfg.DB.Port))
	return db, nil
}
