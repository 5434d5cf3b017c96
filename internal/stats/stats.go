// Package stats serves admin activity figures.
//
// PinsByMinute buckets every report (create, confirm, and incorrect) of the
// last Lookback into UTC minutes and returns the newest Buckets minutes that
// saw activity.  Quiet minutes are absent, not zero.
//
// UsersCount is the number of distinct users who ever filed a report.
// Accounts live in the external identity provider that issues tokens, so
// "users" here means users known to the map.
package stats

import (
	"context"
	"fmt"
	"time"
)

const (
	Lookback = 24 * time.Hour
	Buckets  = 60
)

// MinuteCount is one bucket; Minute is "YYYY-MM-DD HH:MM" in UTC.
type MinuteCount struct {
	Minute string `db:"minute" json:"minute"`
	Count  int    `db:"count"  json:"count"`
}

// Repository reads report activity.  Rows are newest minute first.
type Repository interface {
	ReportsByMinute(ctx context.Context, since time.Time, limit int) ([]MinuteCount, error)
	DistinctReporters(ctx context.Context) (int, error)
}

// UserTotal is the users-count response.
type UserTotal struct {
	Total int `json:"total"`
}

// Service wraps a Repository with a clock.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{repo: repo, now: now}
}

// PinsByMinute returns recent per-minute report counts, never nil.
func (s *Service) PinsByMinute(ctx context.Context) ([]MinuteCount, error) {
	rows, err := s.repo.ReportsByMinute(ctx, s.now().Add(-Lookback), Buckets)
	if err != nil {
		return nil, fmt.Errorf("reports by minute: %w", err)
	}
	if rows == nil {
		rows = []MinuteCount{}
	}
	return rows, nil
}

// UsersCount returns how many distinct users have reported.
func (s *Service) UsersCount(ctx context.Context) (UserTotal, error) {
	n, err := s.repo.DistinctReporters(ctx)
	if err != nil {
		return UserTotal{}, fmt.Errorf("count reporters: %w", err)
	}
	return UserTotal{Total: n}, nil
}
