// Package database centralises sqlx connection helpers.  The driver is
// go-sql-driver/mysql, which also works with MariaDB.
//
// Public entry points:
//
//	Open(ctx, dsn)              – quick helper with conservative pool sizes.
//	OpenWithOptions(ctx, opts)  – fine-grained control.
//	Migrate(ctx, db)            – idempotent schema bootstrap.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tunes one pool.  Password, when set, replaces the password in
// DSN so the secret can live in Vault while the template stays in YAML.
type Options struct {
	DSN         string
	Password    string
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Open returns a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a
// 30-minute connection lifetime.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, Options{DSN: dsn})
}

// OpenWithOptions applies opts, forces parseTime and UTC on the DSN, and
// pings before returning.
func OpenWithOptions(ctx context.Context, opts Options) (*sqlx.DB, error) {
	dsn, err := normalizeDSN(opts.DSN, opts.Password)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(orDefault(opts.MaxOpen, 15))
	db.SetMaxIdleConns(orDefault(opts.MaxIdle, 5))
	if opts.MaxLifetime <= 0 {
		opts.MaxLifetime = 30 * time.Minute
	}
	db.SetConnMaxLifetime(opts.MaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	zap.L().Info("database online",
		zap.Int("max_open", orDefault(opts.MaxOpen, 15)),
		zap.Int("max_idle", orDefault(opts.MaxIdle, 5)))
	return db, nil
}

// normalizeDSN injects password and pins the settings the stores rely on:
// DATETIME columns scan into time.Time and are read back as UTC.
func normalizeDSN(dsn, password string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	if password != "" {
		cfg.Passwd = password
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
