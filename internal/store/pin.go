package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/triomap/internal/pin"
)

const (
	qPinInsert = `
        INSERT INTO pin (id, artist_id, lat, lng, updated_at, expires_at)
        VALUES (?, ?, ?, ?, ?, ?)`

	qPinByID = `
        SELECT id, artist_id, lat, lng, updated_at, expires_at
        FROM   pin
        WHERE  id = ?
        LIMIT  1`

	qPinByArtist = `
        SELECT   id, artist_id, lat, lng, updated_at, expires_at
        FROM     pin
        WHERE    artist_id = ?
          AND    expires_at > ?
        ORDER BY updated_at DESC
        LIMIT    1`

	qPinActive = `
        SELECT   p.id, p.artist_id, p.lat, p.lng, p.updated_at, p.expires_at,
                 a.name AS artist_name,
                 (SELECT COUNT(*) FROM pin_report r
                  WHERE  r.pin_id = p.id AND r.type IN ('create', 'confirm')) AS report_count
        FROM     pin p
        JOIN     artist a ON a.id = p.artist_id
        WHERE    p.expires_at > ?
        ORDER BY p.updated_at DESC`

	qPinUpdate = `
        UPDATE pin
        SET    lat = ?, lng = ?, updated_at = ?, expires_at = ?
        WHERE  id = ?`

	qPinDelete = `DELETE FROM pin WHERE id = ?`

	qPinDeleteExpired = `DELETE FROM pin WHERE expires_at <= ?`

	qPinReportCount = `
        SELECT COUNT(*)
        FROM   pin_report
        WHERE  pin_id = ?
          AND  type IN ('create', 'confirm')`
)

// PinStore implements pin.PinRepository.
type PinStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func (s *PinStore) FindByID(ctx context.Context, id string) (*pin.Pin, error) {
	return s.get(ctx, qPinByID, id)
}

func (s *PinStore) FindByArtist(ctx context.Context, artistID string, now time.Time) (*pin.Pin, error) {
	return s.get(ctx, qPinByArtist, artistID, now)
}

func (s *PinStore) get(ctx context.Context, q string, args ...any) (*pin.Pin, error) {
	var p pin.Pin
	if err := s.db.GetContext(ctx, &p, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *PinStore) FindActive(ctx context.Context, now time.Time) ([]pin.ActivePin, error) {
	rows := make([]pin.ActivePin, 0, 32)
	if err := s.db.SelectContext(ctx, &rows, qPinActive, now); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PinStore) Create(ctx context.Context, artistID string, lat, lng float64, expiresAt time.Time) (*pin.Pin, error) {
	p := &pin.Pin{
		ID:        uuid.NewString(),
		ArtistID:  artistID,
		Lat:       lat,
		Lng:       lng,
		UpdatedAt: s.now(),
		ExpiresAt: expiresAt,
	}
	if _, err := s.db.ExecContext(ctx, qPinInsert,
		p.ID, p.ArtistID, p.Lat, p.Lng, p.UpdatedAt, p.ExpiresAt); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePosition moves the pin and re-reads it.  A pin deleted between the
// two statements is reported as an error.
func (s *PinStore) UpdatePosition(ctx context.Context, id string, lat, lng float64, expiresAt time.Time) (*pin.Pin, error) {
	if _, err := s.db.ExecContext(ctx, qPinUpdate, lat, lng, s.now(), expiresAt, id); err != nil {
		return nil, err
	}
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("pin %s disappeared during update", id)
	}
	return p, nil
}

func (s *PinStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, qPinDelete, id)
	return err
}

func (s *PinStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, qPinDeleteExpired, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PinStore) ReportCount(ctx context.Context, pinID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, qPinReportCount, pinID)
	return n, err
}
