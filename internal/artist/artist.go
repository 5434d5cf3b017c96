// internal/artist/artist.go
//
// Artist catalogue.
//
// Context
// -------
// Artists are created by administrators (or seeded in development) and are
// immutable apart from deletion.  The pin engine resolves them on every
// report, so Service keeps resolved rows in an LRU and drops the entry when
// an artist is deleted.
//
// Schema reference
//
//	artist (id CHAR(36) PK, name VARCHAR(200), created_at)
package artist

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/cache"
)

// Pagination limits.
const (
	DefaultLimit     = 20
	MaxSearchLimit   = 50
	MaxListLimit     = 100
	MaxNameRunes     = 200
	resolveCacheSize = 512
)

// Artist mirrors one row in the `artist` table.
type Artist struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Repository persists artists.  FindByID returns (nil, nil) when absent.
type Repository interface {
	Create(ctx context.Context, name string) (*Artist, error)
	CreateMany(ctx context.Context, names []string) (int64, error)
	FindByID(ctx context.Context, id string) (*Artist, error)
	List(ctx context.Context, offset, limit int) ([]Artist, error)
	Count(ctx context.Context) (int, error)
	Names(ctx context.Context) ([]string, error)
	Search(ctx context.Context, q string, limit int) ([]Artist, error)
	Delete(ctx context.Context, id string) error
}

// Page is one page of the admin listing.
type Page struct {
	Items      []Artist `json:"items"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Total      int      `json:"total"`
	TotalPages int      `json:"totalPages"`
}

// Service implements the artist operations.
type Service struct {
	repo  Repository
	cache *cache.LRU[string, Artist]
}

// NewService wraps repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: cache.New[string, Artist](resolveCacheSize)}
}

// FindByID resolves an artist, serving repeat lookups from memory.
func (s *Service) FindByID(ctx context.Context, id string) (*Artist, error) {
	if a, ok := s.cache.Get(id); ok {
		return &a, nil
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	s.cache.Add(id, *a)
	return a, nil
}

// Create adds an artist.  The name is trimmed and must be non-empty.
func (s *Service) Create(ctx context.Context, name string) (*Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameRunes {
		return nil, apperr.Validation("Name is too long")
	}
	a, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	zap.L().Info("artist created", zap.String("artist", a.ID), zap.String("name", a.Name))
	return a, nil
}

// List returns one page ordered by name.  page starts at 1.
func (s *Service) List(ctx context.Context, page, limit int) (Page, error) {
	page = max(page, 1)
	limit = min(max(limit, 1), MaxListLimit)

	items, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return Page{}, fmt.Errorf("list artists: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("count artists: %w", err)
	}

	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	if items == nil {
		items = []Artist{}
	}
	return Page{Items: items, Page: page, Limit: limit, Total: total, TotalPages: pages}, nil
}

// Search returns artists whose name contains q, case-insensitively.  An
// empty q returns the first artists by name.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]Artist, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxSearchLimit)

	out, err := s.repo.Search(ctx, strings.TrimSpace(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	if out == nil {
		out = []Artist{}
	}
	return out, nil
}

// Delete removes an artist; NOT_FOUND when absent.
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find artist %s: %w", id, err)
	}
	if a == nil {
		return apperr.NotFound("Artist not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete artist %s: %w", id, err)
	}
	s.cache.Remove(id)
	zap.L().Info("artist deleted", zap.String("artist", id), zap.String("name", a.Name))
	return nil
}
