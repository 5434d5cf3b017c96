package pin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yanizio/triomap/internal/artist"
)

var t0 = time.Date(2026, 2, 16, 14, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memReport struct {
	NewReport
	CreatedAt time.Time
}

// memDB backs the in-memory repositories.  Timestamps come from clock so
// tests control report ages.
type memDB struct {
	mu      sync.Mutex
	clock   *fakeClock
	seq     int
	artists map[string]*artist.Artist
	pins    map[string]*Pin
	reports []memReport
}

func newMemDB(clock *fakeClock, artists ...string) *memDB {
	db := &memDB{clock: clock, artists: map[string]*artist.Artist{}, pins: map[string]*Pin{}}
	for _, name := range artists {
		db.artists[name] = &artist.Artist{ID: name, Name: "Artist " + name, CreatedAt: t0}
	}
	return db
}

type memArtists struct{ db *memDB }

func (m memArtists) FindByID(_ context.Context, id string) (*artist.Artist, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	a, ok := m.db.artists[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type memPins struct{ db *memDB }

func (m memPins) FindByID(_ context.Context, id string) (*Pin, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if p, ok := m.db.pins[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m memPins) FindByArtist(_ context.Context, artistID string, now time.Time) (*Pin, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, p := range m.db.pins {
		if p.ArtistID == artistID && p.Active(now) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memPins) FindActive(_ context.Context, now time.Time) ([]ActivePin, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []ActivePin
	for _, p := range m.db.pins {
		if !p.Active(now) {
			continue
		}
		out = append(out, ActivePin{
			Pin:         *p,
			ArtistName:  m.db.artists[p.ArtistID].Name,
			ReportCount: m.db.countLocked(p.ID),
		})
	}
	return out, nil
}

func (m memPins) Create(_ context.Context, artistID string, lat, lng float64, expiresAt time.Time) (*Pin, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.seq++
	p := &Pin{
		ID:        fmt.Sprintf("pin-%d", m.db.seq),
		ArtistID:  artistID,
		Lat:       lat,
		Lng:       lng,
		UpdatedAt: m.db.clock.Now(),
		ExpiresAt: expiresAt,
	}
	m.db.pins[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m memPins) UpdatePosition(_ context.Context, id string, lat, lng float64, expiresAt time.Time) (*Pin, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.pins[id]
	if !ok {
		return nil, errors.New("no such pin")
	}
	p.Lat, p.Lng, p.ExpiresAt, p.UpdatedAt = lat, lng, expiresAt, m.db.clock.Now()
	cp := *p
	return &cp, nil
}

func (m memPins) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.deleteLocked(id)
	return nil
}

func (m memPins) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var n int64
	for id, p := range m.db.pins {
		if !p.Active(now) {
			m.db.deleteLocked(id)
			n++
		}
	}
	return n, nil
}

func (m memPins) ReportCount(_ context.Context, pinID string) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.db.countLocked(pinID), nil
}

// deleteLocked mirrors ON DELETE SET NULL on pin_report.pin_id.
func (db *memDB) deleteLocked(id string) {
	delete(db.pins, id)
	for i := range db.reports {
		if r := &db.reports[i]; r.PinID != nil && *r.PinID == id {
			r.PinID = nil
		}
	}
}

func (db *memDB) countLocked(pinID string) int {
	n := 0
	for _, r := range db.reports {
		if r.PinID != nil && *r.PinID == pinID && r.Type.Counts() {
			n++
		}
	}
	return n
}

type memReports struct{ db *memDB }

func (m memReports) Create(_ context.Context, r NewReport) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.reports = append(m.db.reports, memReport{NewReport: r, CreatedAt: m.db.clock.Now()})
	return nil
}

func (m memReports) RecentByArtist(_ context.Context, artistID string, since time.Time) ([]Sample, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []Sample
	for i := len(m.db.reports) - 1; i >= 0; i-- {
		r := m.db.reports[i]
		if r.ArtistID == artistID && !r.CreatedAt.Before(since) {
			out = append(out, Sample{Lat: r.Lat, Lng: r.Lng, Type: r.Type, CreatedAt: r.CreatedAt})
		}
	}
	return out, nil
}

func (m memReports) HasContributed(_ context.Context, userID, pinID string) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range m.db.reports {
		if r.UserID == userID && r.PinID != nil && *r.PinID == pinID && r.Type.Counts() {
			return true, nil
		}
	}
	return false, nil
}

// recorder captures notifier calls.
type recorder struct {
	mu      sync.Mutex
	updated []View
	deleted []string
	expired []int64
	err     error
}

func (r *recorder) PinUpdated(_ context.Context, v View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, v)
	return r.err
}

func (r *recorder) PinDeleted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return r.err
}

func (r *recorder) PinsExpired(_ context.Context, n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, n)
	return r.err
}

type harness struct {
	svc   *Service
	clock *fakeClock
	db    *memDB
	rec   *recorder
}

func newHarness(artists ...string) *harness {
	clock := &fakeClock{now: t0}
	db := newMemDB(clock, artists...)
	rec := &recorder{}
	svc := NewService(memArtists{db}, memPins{db}, memReports{db},
		WithClock(clock.Now), WithNotifier(rec))
	return &harness{svc: svc, clock: clock, db: db, rec: rec}
}
