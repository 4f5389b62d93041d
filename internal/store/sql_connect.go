package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteMemory = ":memory:"

type poolLimits struct {
	maxOpen int
	maxIdle int
}

// NewConnectPostgres opens the feed database of the server. Failed
// transactions are classified by PostgresErrorClassifier.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := openDB(ctx, "pgx", cfg.DSN, poolLimits{maxOpen: 10, maxIdle: 4}, log)
	if err != nil {
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to feed database")

	return &DB{DB: conn, errorClassificator: NewPostgresErrorClassifier(), logger: log}, nil
}

// NewConnectSQLite opens the client session file, creating it and its
// directory on first start.
func NewConnectSQLite(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*DB, error) {
	if err := ensureDBFile(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Str("dsn", cfg.DSN).Msg("error creating session file")
		return nil, fmt.Errorf("error creating session file: %w", err)
	}

	// the session table holds one row; one connection avoids SQLITE_BUSY
	conn, err := openDB(ctx, "sqlite3", cfg.DSN, poolLimits{maxOpen: 1, maxIdle: 1}, log)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("opened session store")

	return &DB{DB: conn, logger: log}, nil
}

func openDB(ctx context.Context, driver, dsn string, limits poolLimits, log *logger.Logger) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		log.Err(err).Str("driver", driver).Msg("error opening database")
		return nil, fmt.Errorf("error opening %s database: %w", driver, err)
	}
	conn.SetMaxOpenConns(limits.maxOpen)
	conn.SetMaxIdleConns(limits.maxIdle)

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		log.Err(err).Str("driver", driver).Msg("database ping failed")
		return nil, fmt.Errorf("%s database ping failed: %w", driver, err)
	}
	return conn, nil
}

func ensureDBFile(path string) error {
	if path == sqliteMemory {
		return nil
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating DB dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating DB file: %w", err)
	}
	return f.Close()
}
