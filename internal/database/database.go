package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Connect opens and pings the database. SQLite is limited to one open
// connection, which serializes every statement at the database level.
func Connect(driver, dbURL string) (*sqlx.DB, error) {
	log := zap.S()
	log.Infow("🔌 connecting to database", "driver", driver, "url_length", len(dbURL))

	db, err := sqlx.Connect(driver, dbURL)
	if err != nil {
		log.Errorw("❌ database connection failed", "driver", driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		log.Errorw("❌ database ping failed", "driver", driver, "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Infow("✅ database connection established", "driver", driver)
	return db, nil
}

// idColumn is the auto-incrementing integer primary key for each dialect.
func idColumn(driver string) string {
	if driver == DriverSQLite {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "BIGSERIAL PRIMARY KEY"
}

// Migrate creates the schema if it is absent. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id {{id}},
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'resident',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS waste_bins (
			id {{id}},
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL DEFAULT 'empty',
			type TEXT NOT NULL DEFAULT 'general',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// No foreign key on user_id: demo-mode requests may act as a user
		// id that does not exist.
		`CREATE TABLE IF NOT EXISTS collections (
			id {{id}},
			user_id BIGINT NOT NULL,
			bin_id BIGINT NOT NULL REFERENCES waste_bins(id),
			status TEXT NOT NULL DEFAULT 'pending',
			weight DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (weight >= 0),
			waste_type TEXT NOT NULL DEFAULT 'general',
			location TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'medium',
			scheduled_date TIMESTAMP,
			completed_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS recycling_records (
			id {{id}},
			user_id BIGINT NOT NULL,
			material_type TEXT NOT NULL,
			weight DOUBLE PRECISION NOT NULL CHECK (weight > 0),
			location TEXT NOT NULL DEFAULT 'Recycling Center',
			environmental_impact DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id {{id}},
			user_id BIGINT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK (device_type IN ('ios', 'android', 'web')),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,
		`CREATE INDEX IF NOT EXISTS idx_waste_bins_type ON waste_bins(type)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_created_at ON collections(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_status ON collections(status)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_user_id ON collections(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recycling_records_created_at ON recycling_records(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
	}

	id := idColumn(db.DriverName())
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, strings.ReplaceAll(m, "{{id}}", id)); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	zap.S().Infow("✅ database migrations completed", "statements", len(migrations))
	return nil
}
