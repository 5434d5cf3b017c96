// Package store implements the repository interfaces of internal/artist,
// internal/pin, and internal/stats over MySQL using sqlx.
//
// Conventions
// -----------
//   - Primary keys are random UUIDv4 strings generated here, not by MySQL.
//   - Timestamps are written in UTC from the store's clock; the DSN is
//     opened with parseTime=true and loc=UTC (see internal/database).
//   - Lookups that find nothing return (nil, nil).
//   - Queries are package constants so tests can match them verbatim.
package store

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// Store bundles the table stores around one pool.
type Store struct {
	Artists *ArtistStore
	Pins    *PinStore
	Reports *ReportStore
	Stats   *StatsStore
}

// New returns stores sharing db and the UTC wall clock.
func New(db *sqlx.DB) *Store {
	return NewWithClock(db, func() time.Time { return time.Now().UTC() })
}

// NewWithClock is New with an injectable clock.
func NewWithClock(db *sqlx.DB, now func() time.Time) *Store {
	return &Store{
		Artists: &ArtistStore{db: db, now: now},
		Pins:    &PinStore{db: db, now: now},
		Reports: &ReportStore{db: db, now: now},
		Stats:   &StatsStore{db: db},
	}
}
