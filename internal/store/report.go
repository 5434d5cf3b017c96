package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/triomap/internal/pin"
)

const (
	qReportInsert = `
        INSERT INTO pin_report (id, pin_id, user_id, artist_id, lat, lng, type, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	qReportRecent = `
        SELECT   lat, lng, type, created_at
        FROM     pin_report
        WHERE    artist_id = ?
          AND    created_at >= ?
        ORDER BY created_at DESC`

	qReportContributed = `
        SELECT EXISTS (
            SELECT 1
            FROM   pin_report
            WHERE  user_id = ?
              AND  pin_id = ?
              AND  type IN ('create', 'confirm'))`
)

// ReportStore implements pin.ReportRepository.
type ReportStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func (s *ReportStore) Create(ctx context.Context, r pin.NewReport) error {
	_, err := s.db.ExecContext(ctx, qReportInsert,
		uuid.NewString(), r.PinID, r.UserID, r.ArtistID, r.Lat, r.Lng, string(r.Type), s.now())
	return err
}

func (s *ReportStore) RecentByArtist(ctx context.Context, artistID string, since time.Time) ([]pin.Sample, error) {
	rows := make([]pin.Sample, 0, 16)
	if err := s.db.SelectContext(ctx, &rows, qReportRecent, artistID, since); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ReportStore) HasContributed(ctx context.Context, userID, pinID string) (bool, error) {
	var ok bool
	err := s.db.GetContext(ctx, &ok, qReportContributed, userID, pinID)
	return ok, err
}
