// internal/pin/service.go
//
// Pin lifecycle manager.
//
// Context
// -------
// Each artist has at most one active pin.  The state machine is
//
//	NoPin ──create──▶ Active ──create/confirm/incorrect──▶ Active
//	                  Active ──expiry sweep or admin delete──▶ NoPin
//
// Every accepted mutation records a report, re-reads the artist's reports
// from the trailing ReportWindow, re-estimates the position, and pushes
// ExpiresAt to now + PinTTL.
//
// Fencing: a confirm from a user who already has a create or confirm on
// the pin is a no-op.  Incorrect reports are never fenced.
//
// Concurrency
// -----------
// Mutations for one artist are serialised by an in-process keyed mutex.
// Across replicas there is no transaction around "insert report, estimate,
// update pin", so the last UpdatePosition wins and later reports heal any
// drift.  A pin whose opening report fails to insert is deleted again so no
// pin exists without its create report.
//
// Notifiers run after the artist lock is released; a slow live hub or
// broker never holds up the next report for the same artist.
package pin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/geo"
	"github.com/yanizio/triomap/internal/metrics"
)

const (
	// PinTTL is how long a pin lives after its last accepted mutation.
	PinTTL = time.Hour

	// ReportWindow is the trailing window of reports fed to Estimate.
	ReportWindow = time.Hour
)

// Service implements the pin operations.  Safe for concurrent use.
type Service struct {
	artists ArtistFinder
	pins    PinRepository
	reports ReportRepository

	notify Notifier
	now    func() time.Time
	log    *zap.Logger

	locks keyedMutex
	sfg   singleflight.Group
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithNotifier installs change hooks.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notify = n } }

// WithLogger overrides the logger (defaults to zap.L()).
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// NewService wires a Service to its repositories.
func NewService(artists ArtistFinder, pins PinRepository, reports ReportRepository, opts ...Option) *Service {
	s := &Service{
		artists: artists,
		pins:    pins,
		reports: reports,
		notify:  Notifiers(nil),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.L()
	}
	s.log = s.log.Named("pin")
	return s
}

// ValidateCoordinates returns a VALIDATION_ERROR for non-finite or
// out-of-range coordinates.
func ValidateCoordinates(lat, lng float64) error {
	if !geo.ValidLatLng(lat, lng) {
		return apperr.Validation("Invalid coordinates")
	}
	return nil
}

/*──────────────────────────── operations ──────────────────────────────────*/

// CreateOrConfirm records a create or confirm report for the artist.
func (s *Service) CreateOrConfirm(ctx context.Context, in Submission) (View, error) {
	if in.Type != TypeCreate && in.Type != TypeConfirm {
		return View{}, apperr.Validation("Type must be create or confirm")
	}

	a, err := s.artists.FindByID(ctx, in.ArtistID)
	if err != nil {
		return View{}, fmt.Errorf("find artist %s: %w", in.ArtistID, err)
	}
	if a == nil {
		return View{}, apperr.NotFound("Artist not found")
	}
	if err := ValidateCoordinates(in.Lat, in.Lng); err != nil {
		return View{}, err
	}

	v, changed, err := s.createOrConfirmLocked(ctx, in)
	if err != nil {
		return View{}, err
	}
	if changed {
		s.published(ctx, v)
	}
	return v, nil
}

// createOrConfirmLocked does the writes under the artist lock.  changed is
// false for a fenced confirm.
func (s *Service) createOrConfirmLocked(ctx context.Context, in Submission) (View, bool, error) {
	unlock := s.locks.Lock(in.ArtistID)
	defer unlock()

	now := s.now()
	p, err := s.pins.FindByArtist(ctx, in.ArtistID, now)
	if err != nil {
		return View{}, false, fmt.Errorf("find pin for artist %s: %w", in.ArtistID, err)
	}

	if p == nil {
		if in.Type != TypeCreate {
			return View{}, false, apperr.Validation("No existing pin to confirm")
		}
		v, err := s.create(ctx, in, now)
		return v, err == nil, err
	}

	if in.Type == TypeConfirm {
		done, err := s.reports.HasContributed(ctx, in.UserID, p.ID)
		if err != nil {
			return View{}, false, fmt.Errorf("check contribution: %w", err)
		}
		if done {
			metrics.FencedConfirmsTotal.Inc()
			s.log.Debug("confirm fenced",
				zap.String("pin", p.ID), zap.String("user", in.UserID))
			v, err := s.viewOf(ctx, p)
			return v, false, err
		}
	}

	v, err := s.contribute(ctx, p, NewReport{
		UserID:   in.UserID,
		ArtistID: in.ArtistID,
		Lat:      in.Lat,
		Lng:      in.Lng,
		Type:     in.Type,
	}, now)
	return v, err == nil, err
}

// ReportIncorrect records an incorrect-location report against the
// artist's active pin.
func (s *Service) ReportIncorrect(ctx context.Context, in Dispute) (View, error) {
	if err := ValidateCoordinates(in.Lat, in.Lng); err != nil {
		return View{}, err
	}

	v, err := s.reportIncorrectLocked(ctx, in)
	if err != nil {
		return View{}, err
	}
	s.published(ctx, v)
	return v, nil
}

func (s *Service) reportIncorrectLocked(ctx context.Context, in Dispute) (View, error) {
	unlock := s.locks.Lock(in.ArtistID)
	defer unlock()

	now := s.now()
	p, err := s.pins.FindByArtist(ctx, in.ArtistID, now)
	if err != nil {
		return View{}, fmt.Errorf("find pin for artist %s: %w", in.ArtistID, err)
	}
	if p == nil {
		return View{}, apperr.NotFound("No pin found for this artist")
	}

	return s.contribute(ctx, p, NewReport{
		UserID:   in.UserID,
		ArtistID: in.ArtistID,
		Lat:      in.Lat,
		Lng:      in.Lng,
		Type:     TypeIncorrect,
	}, now)
}

// DeletePin removes a pin regardless of expiry.
func (s *Service) DeletePin(ctx context.Context, pinID string) error {
	p, err := s.pins.FindByID(ctx, pinID)
	if err != nil {
		return fmt.Errorf("find pin %s: %w", pinID, err)
	}
	if p == nil {
		return apperr.NotFound("Pin not found")
	}

	unlock := s.locks.Lock(p.ArtistID)
	err = s.pins.Delete(ctx, pinID)
	unlock()
	if err != nil {
		return fmt.Errorf("delete pin %s: %w", pinID, err)
	}
	metrics.PinsDeletedTotal.Inc()
	s.log.Info("pin deleted", zap.String("pin", pinID), zap.String("artist", p.ArtistID))

	if err := s.notify.PinDeleted(ctx, pinID); err != nil {
		s.log.Warn("notify pin deleted", zap.String("pin", pinID), zap.Error(err))
	}
	return nil
}

// PinCount returns the create+confirm count of a pin.  Unknown pins count
// zero.
func (s *Service) PinCount(ctx context.Context, pinID string) (Count, error) {
	n, err := s.pins.ReportCount(ctx, pinID)
	if err != nil {
		return Count{}, fmt.Errorf("count reports for pin %s: %w", pinID, err)
	}
	return Count{PinID: pinID, ReportCount: n}, nil
}

/*──────────────────────────── internals ───────────────────────────────────*/

// create opens a new pin at the submitted coordinate.
func (s *Service) create(ctx context.Context, in Submission, now time.Time) (View, error) {
	p, err := s.pins.Create(ctx, in.ArtistID, in.Lat, in.Lng, now.Add(PinTTL))
	if err != nil {
		return View{}, fmt.Errorf("create pin: %w", err)
	}

	pinID := p.ID
	if err := s.reports.Create(ctx, NewReport{
		PinID:    &pinID,
		UserID:   in.UserID,
		ArtistID: in.ArtistID,
		Lat:      in.Lat,
		Lng:      in.Lng,
		Type:     TypeCreate,
	}); err != nil {
		if derr := s.pins.Delete(ctx, pinID); derr != nil {
			s.log.Error("remove pin after failed create report",
				zap.String("pin", pinID), zap.Error(derr))
		}
		return View{}, fmt.Errorf("record create report: %w", err)
	}
	metrics.PinsCreatedTotal.Inc()
	metrics.ReportsTotal.WithLabelValues(string(TypeCreate)).Inc()

	v, err := s.viewOf(ctx, p)
	if err != nil {
		return View{}, err
	}
	s.log.Info("pin created",
		zap.String("pin", p.ID),
		zap.String("artist", in.ArtistID),
		zap.String("user", in.UserID),
		zap.String("cell", geo.CellToken(p.Lat, p.Lng, geo.CellLevel)),
	)
	return v, nil
}

// contribute records r against p and moves p to the new estimate.
func (s *Service) contribute(ctx context.Context, p *Pin, r NewReport, now time.Time) (View, error) {
	pinID := p.ID
	r.PinID = &pinID
	if err := s.reports.Create(ctx, r); err != nil {
		return View{}, fmt.Errorf("record %s report: %w", r.Type, err)
	}
	metrics.ReportsTotal.WithLabelValues(string(r.Type)).Inc()

	samples, err := s.reports.RecentByArtist(ctx, r.ArtistID, now.Add(-ReportWindow))
	if err != nil {
		return View{}, fmt.Errorf("recent reports for artist %s: %w", r.ArtistID, err)
	}

	pos := Position{Lat: r.Lat, Lng: r.Lng}
	if len(samples) > 0 {
		SortNewestFirst(samples)
		pos = Estimate(samples, now)
	}

	updated, err := s.pins.UpdatePosition(ctx, p.ID, pos.Lat, pos.Lng, now.Add(PinTTL))
	if err != nil {
		return View{}, fmt.Errorf("update pin %s: %w", p.ID, err)
	}

	shift := geo.DistanceMeters(p.Lat, p.Lng, updated.Lat, updated.Lng)
	metrics.PinShiftMeters.Observe(shift)

	v, err := s.viewOf(ctx, updated)
	if err != nil {
		return View{}, err
	}
	s.log.Info("pin recomputed",
		zap.String("pin", p.ID),
		zap.String("type", string(r.Type)),
		zap.String("user", r.UserID),
		zap.Int("samples", len(samples)),
		zap.Float64("shift_m", shift),
		zap.Int("reports", v.ReportCount),
	)
	return v, nil
}

func (s *Service) viewOf(ctx context.Context, p *Pin) (View, error) {
	n, err := s.pins.ReportCount(ctx, p.ID)
	if err != nil {
		return View{}, fmt.Errorf("count reports for pin %s: %w", p.ID, err)
	}
	return viewOf(p, n), nil
}

func (s *Service) published(ctx context.Context, v View) {
	if err := s.notify.PinUpdated(ctx, v); err != nil {
		s.log.Warn("notify pin updated", zap.String("pin", v.ID), zap.Error(err))
	}
}
