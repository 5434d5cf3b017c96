// internal/pin/repository.go
//
// Persistence contracts consumed by Service.
//
// The engine is storage-agnostic: internal/store implements these over
// MySQL via sqlx, and tests use in-memory fakes.  Lookups that find nothing
// return (nil, nil); errors are reserved for storage failures and are
// propagated to the caller unchanged apart from wrapping.
package pin

import (
	"context"
	"time"

	"github.com/yanizio/triomap/internal/artist"
)

// ArtistFinder resolves artists by id.
type ArtistFinder interface {
	FindByID(ctx context.Context, id string) (*artist.Artist, error)
}

// PinRepository stores pins.  "Active" always means ExpiresAt > now.
type PinRepository interface {
	FindByID(ctx context.Context, id string) (*Pin, error)
	FindByArtist(ctx context.Context, artistID string, now time.Time) (*Pin, error)
	FindActive(ctx context.Context, now time.Time) ([]ActivePin, error)
	Create(ctx context.Context, artistID string, lat, lng float64, expiresAt time.Time) (*Pin, error)
	UpdatePosition(ctx context.Context, id string, lat, lng float64, expiresAt time.Time) (*Pin, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// ReportCount counts create and confirm reports only.
	ReportCount(ctx context.Context, pinID string) (int, error)
}

// ReportRepository stores the append-only report log.
type ReportRepository interface {
	Create(ctx context.Context, r NewReport) error

	// RecentByArtist returns every report for artistID created at or
	// after since, newest first.
	RecentByArtist(ctx context.Context, artistID string, since time.Time) ([]Sample, error)

	// HasContributed is true when userID already has a create or confirm
	// report on pinID.
	HasContributed(ctx context.Context, userID, pinID string) (bool, error)
}
