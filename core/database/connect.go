package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/m3rciful/dealbot/core/logger"
	"log/slog"
)

// Connect opens the database connection, configures the pool, and verifies
// connectivity. The driver is selected by cfg: sqlite3 for a local file,
// postgres for a server.
func Connect(cfg Config) (*sqlx.DB, error) {
	driver := cfg.DriverName()
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	sqlxDB, err := sqlx.ConnectContext(ctx, driver, dsn)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", driver),
			slog.String("db", describeTarget(cfg)),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if pingErr := sqlxDB.PingContext(ctx); pingErr != nil {
		logger.DB.Error("db ping failed",
			slog.String("event", "db.ping"),
			slog.String("driver", driver),
			slog.String("db", describeTarget(cfg)),
			slog.String("err", pingErr.Error()),
		)
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}

	pool := cfg.MaxConnections
	if driver == DriverSQLite {
		// SQLite takes a single writer; more connections only add lock errors.
		pool = 1
	}
	if pool > 0 {
		sqlxDB.SetMaxOpenConns(pool)
		sqlxDB.SetMaxIdleConns(pool)
		logger.DB.Debug("db pool configured",
			slog.String("event", "db.pool"),
			slog.Int("pool_open", pool),
		)
	}

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", driver),
		slog.String("db", describeTarget(cfg)),
		slog.Int("pool_open", pool),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return sqlxDB, nil
}

func buildDSN(cfg Config) (string, error) {
	switch cfg.DriverName() {
	case DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("db: sqlite path is required")
		}
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", cfg.Path), nil
	case DriverPostgres:
		return fmt.Sprintf(
			"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
		), nil
	}
	return "", fmt.Errorf("db: unsupported driver %q", cfg.Driver)
}

func describeTarget(cfg Config) string {
	if cfg.DriverName() == DriverSQLite {
		return cfg.Path
	}
	return fmt.Sprintf("%s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
}

// WaitForReady tries to connect to the DB until it is ready or timeout is
// reached. Used before migrations when the server may still be starting.
func WaitForReady(driver, dsn string, timeout time.Duration) error {
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open(driver, dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
