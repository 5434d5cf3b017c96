package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/stats"
)

type stubService []stats.MinuteCount

func (s stubService) PinsByMinute(context.Context) ([]stats.MinuteCount, error) { return s, nil }

func (s stubService) UsersCount(context.Context) (stats.UserTotal, error) {
	return stats.UserTotal{Total: 9}, nil
}

func get(t *testing.T, role, path string) *httptest.ResponseRecorder {
	t.Helper()
	c := &Comp{svc: stubService{{Minute: "2026-02-16 14:00", Count: 4}}}
	root := chi.NewRouter()
	root.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{UserID: "x", Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	root.Mount("/v1/stats", c.Routes())
	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPinsByMinute(t *testing.T) {
	rec := get(t, auth.RoleAdmin, "/v1/stats/pins-by-minute")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data []stats.MinuteCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []stats.MinuteCount{{Minute: "2026-02-16 14:00", Count: 4}}, out.Data)
}

func TestPinsByMinuteAdminOnly(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, get(t, auth.RoleUser, "/v1/stats/pins-by-minute").Code)
}

func TestUsersCount(t *testing.T) {
	rec := get(t, auth.RoleAdmin, "/v1/stats/users-count")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":9}`, rec.Body.String())

	assert.Equal(t, http.StatusForbidden, get(t, auth.RoleUser, "/v1/stats/users-count").Code)
}
