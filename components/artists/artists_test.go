package artists

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/artist"
	"github.com/yanizio/triomap/internal/auth"
)

type stubService struct {
	searchQ     string
	searchLimit int
	page, limit int
	created     []string
	deleted     []string
	err         error
}

func (s *stubService) Search(_ context.Context, q string, limit int) ([]artist.Artist, error) {
	s.searchQ, s.searchLimit = q, limit
	return []artist.Artist{{ID: "a1", Name: "Kes"}}, s.err
}

func (s *stubService) List(_ context.Context, page, limit int) (artist.Page, error) {
	s.page, s.limit = page, limit
	return artist.Page{Items: []artist.Artist{}, Page: page, Limit: limit, Total: 0, TotalPages: 1}, s.err
}

func (s *stubService) Create(_ context.Context, name string) (*artist.Artist, error) {
	s.created = append(s.created, name)
	if s.err != nil {
		return nil, s.err
	}
	return &artist.Artist{ID: "a2", Name: name}, nil
}

func (s *stubService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

var (
	user  = &auth.Principal{UserID: "u1", Role: auth.RoleUser}
	admin = &auth.Principal{UserID: "a1", Role: auth.RoleAdmin}
)

func serve(t *testing.T, svc service, p *auth.Principal, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	root := chi.NewRouter()
	root.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil {
				r = r.WithContext(auth.WithPrincipal(r.Context(), *p))
			}
			next.ServeHTTP(w, r)
		})
	})
	root.Mount("/v1/artists", (&Comp{svc: svc}).Routes())

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestSearch(t *testing.T) {
	svc := &stubService{}
	rec, out := serve(t, svc, user, http.MethodGet, "/v1/artists?q=kes&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kes", svc.searchQ)
	assert.Equal(t, 5, svc.searchLimit)
	assert.Len(t, out["artists"], 1)
}

func TestPageParamsIgnoredForUsers(t *testing.T) {
	svc := &stubService{}
	rec, out := serve(t, svc, user, http.MethodGet, "/v1/artists?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, out, "artists")
	assert.Zero(t, svc.page)
}

func TestAdminListing(t *testing.T) {
	svc := &stubService{}
	rec, out := serve(t, svc, admin, http.MethodGet, "/v1/artists?page=2&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 10, svc.limit)
	assert.EqualValues(t, 1, out["totalPages"])
}

func TestBadLimit(t *testing.T) {
	rec, out := serve(t, &stubService{}, user, http.MethodGet, "/v1/artists?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.CodeValidation, out["code"])
}

func TestCreate(t *testing.T) {
	svc := &stubService{}
	rec, _ := serve(t, svc, user, http.MethodPost, "/v1/artists", `{"name":"Bunji Garlin"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, out := serve(t, svc, admin, http.MethodPost, "/v1/artists", `{"name":"Bunji Garlin"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Bunji Garlin", out["artist"].(map[string]any)["name"])
	assert.Equal(t, []string{"Bunji Garlin"}, svc.created)
}

func TestCreateBlankName(t *testing.T) {
	svc := &stubService{err: apperr.Validation("Name is required")}
	rec, out := serve(t, svc, admin, http.MethodPost, "/v1/artists", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required", out["message"])
}

func TestDelete(t *testing.T) {
	svc := &stubService{err: apperr.NotFound("Artist not found")}
	rec, _ := serve(t, svc, admin, http.MethodDelete, "/v1/artists/zz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.err = nil
	rec, out := serve(t, svc, admin, http.MethodDelete, "/v1/artists/a1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, []string{"zz", "a1"}, svc.deleted)
}
