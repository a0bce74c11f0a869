package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Init opens the gallery database. Small deployments run on a local
// sqlite file under ./data; multi-instance deployments point DB_DRIVER
// at pgx so the token and asset tables are shared.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		// The connection string is a file path plus pragmas; make sure
		// its directory exists before the driver touches it.
		dir := filepath.Dir(connection)
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	conn, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Gallery traffic is read-heavy: every resolution runs a token
	// lookup plus a paged asset query, writes are only view counts and
	// audit rows.
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	err = conn.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("gallery database connected", "driver", driver)

	return conn, nil
}

func Close(conn *sqlx.DB) error {
	if conn != nil {
		return conn.Close()
	}
	return nil
}
