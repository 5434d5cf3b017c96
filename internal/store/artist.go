package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/triomap/internal/artist"
)

const (
	qArtistInsert = `INSERT INTO artist (id, name, created_at) VALUES (?, ?, ?)`

	qArtistByID = `
        SELECT id, name, created_at
        FROM   artist
        WHERE  id = ?
        LIMIT  1`

	qArtistPage = `
        SELECT   id, name, created_at
        FROM     artist
        ORDER BY name ASC
        LIMIT    ? OFFSET ?`

	qArtistCount = `SELECT COUNT(*) FROM artist`

	qArtistNames = `SELECT name FROM artist`

	qArtistFirst = `
        SELECT   id, name, created_at
        FROM     artist
        ORDER BY name ASC
        LIMIT    ?`

	qArtistSearch = `
        SELECT   id, name, created_at
        FROM     artist
        WHERE    LOWER(name) LIKE ?
        ORDER BY name ASC
        LIMIT    ?`

	qArtistDelete = `DELETE FROM artist WHERE id = ?`
)

// ArtistStore implements artist.Repository.
type ArtistStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func (s *ArtistStore) Create(ctx context.Context, name string) (*artist.Artist, error) {
	a := &artist.Artist{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	if _, err := s.db.ExecContext(ctx, qArtistInsert, a.ID, a.Name, a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateMany inserts names in one statement.
func (s *ArtistStore) CreateMany(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	q, args := bulkArtistInsert(names, s.now())
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func bulkArtistInsert(names []string, at time.Time) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO artist (id, name, created_at) VALUES ")
	args := make([]any, 0, len(names)*3)
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?, ?)")
		args = append(args, uuid.NewString(), n, at)
	}
	return b.String(), args
}

func (s *ArtistStore) FindByID(ctx context.Context, id string) (*artist.Artist, error) {
	var a artist.Artist
	if err := s.db.GetContext(ctx, &a, qArtistByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *ArtistStore) List(ctx context.Context, offset, limit int) ([]artist.Artist, error) {
	rows := make([]artist.Artist, 0, limit)
	if err := s.db.SelectContext(ctx, &rows, qArtistPage, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ArtistStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, qArtistCount)
	return n, err
}

func (s *ArtistStore) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, qArtistNames); err != nil {
		return nil, err
	}
	return names, nil
}

// Search matches q as a case-insensitive substring.  LIKE wildcards in q
// are escaped so they match literally.
func (s *ArtistStore) Search(ctx context.Context, q string, limit int) ([]artist.Artist, error) {
	rows := make([]artist.Artist, 0, limit)
	var err error
	if q == "" {
		err = s.db.SelectContext(ctx, &rows, qArtistFirst, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows, qArtistSearch, likeContains(q), limit)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ArtistStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, qArtistDelete, id)
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeContains(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
