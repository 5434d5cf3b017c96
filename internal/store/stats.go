package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/triomap/internal/stats"
)

const qReportsByMinute = `
        SELECT   DATE_FORMAT(created_at, '%Y-%m-%d %H:%i') AS minute,
                 COUNT(*)                                  AS count
        FROM     pin_report
        WHERE    created_at >= ?
        GROUP BY minute
        ORDER BY minute DESC
        LIMIT    ?`

const qDistinctReporters = `SELECT COUNT(DISTINCT user_id) FROM pin_report`

// StatsStore implements stats.Repository.
type StatsStore struct {
	db *sqlx.DB
}

func (s *StatsStore) ReportsByMinute(ctx context.Context, since time.Time, limit int) ([]stats.MinuteCount, error) {
	rows := make([]stats.MinuteCount, 0, limit)
	if err := s.db.SelectContext(ctx, &rows, qReportsByMinute, since, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *StatsStore) DistinctReporters(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, qDistinctReporters); err != nil {
		return 0, err
	}
	return n, nil
}
