// internal/database/schema.go
//
// Schema bootstrap.
//
// Context
// -------
// Three tables back the service.  `pin_report.pin_id` is nullable and set
// to NULL when its pin is swept so the report log survives pin expiry;
// deleting an artist removes its pins and reports.
//
// Notes
// -----
//   - Statements are idempotent (IF NOT EXISTS) and run in order.
//   - DATETIME(3) keeps millisecond precision for report ageing.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS artist (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		name       VARCHAR(200) NOT NULL,
		created_at DATETIME(3)  NOT NULL,
		KEY idx_artist_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS pin (
		id         CHAR(36)    NOT NULL PRIMARY KEY,
		artist_id  CHAR(36)    NOT NULL,
		lat        DOUBLE      NOT NULL,
		lng        DOUBLE      NOT NULL,
		updated_at DATETIME(3) NOT NULL,
		expires_at DATETIME(3) NOT NULL,
		KEY idx_pin_artist_expires (artist_id, expires_at),
		KEY idx_pin_expires (expires_at),
		CONSTRAINT fk_pin_artist FOREIGN KEY (artist_id) REFERENCES artist (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS pin_report (
		id         CHAR(36)    NOT NULL PRIMARY KEY,
		pin_id     CHAR(36)    NULL,
		user_id    VARCHAR(64) NOT NULL,
		artist_id  CHAR(36)    NOT NULL,
		lat        DOUBLE      NOT NULL,
		lng        DOUBLE      NOT NULL,
		type       ENUM('create','confirm','incorrect') NOT NULL,
		created_at DATETIME(3) NOT NULL,
		KEY idx_report_artist_created (artist_id, created_at),
		KEY idx_report_pin_user (pin_id, user_id),
		KEY idx_report_created (created_at),
		CONSTRAINT fk_report_pin FOREIGN KEY (pin_id) REFERENCES pin (id) ON DELETE SET NULL,
		CONSTRAINT fk_report_artist FOREIGN KEY (artist_id) REFERENCES artist (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema step %d: %w", i+1, err)
		}
	}
	zap.L().Info("schema ready", zap.Int("statements", len(schema)))
	return nil
}
