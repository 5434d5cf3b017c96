package pin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/metrics"
)

// ListActive sweeps expired pins and returns the live ones with artist
// names and report counts.  Expiry is enforced only here; there is no
// background timer.  Concurrent callers share one sweep+read, so the
// returned slice must be treated as read-only.
func (s *Service) ListActive(ctx context.Context) ([]Listing, error) {
	v, err, _ := s.sfg.Do("list", func() (any, error) {
		return s.listActive(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]Listing), nil
}

func (s *Service) listActive(ctx context.Context) ([]Listing, error) {
	now := s.now()

	n, err := s.pins.DeleteExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("sweep expired pins: %w", err)
	}
	if n > 0 {
		metrics.PinsExpiredTotal.Add(float64(n))
		s.log.Info("expired pins swept", zap.Int64("count", n))
		if err := s.notify.PinsExpired(ctx, n); err != nil {
			s.log.Warn("notify pins expired", zap.Error(err))
		}
	}

	rows, err := s.pins.FindActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("find active pins: %w", err)
	}

	out := make([]Listing, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, Listing{
			View:   viewOf(&r.Pin, r.ReportCount),
			Artist: ArtistRef{ID: r.ArtistID, Name: r.ArtistName},
		})
	}
	metrics.ActivePins.Set(float64(len(out)))
	return out, nil
}
