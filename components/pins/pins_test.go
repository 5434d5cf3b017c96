package pins

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/pin"
)

const artistID = "6f1c1f4e-8c1a-4a53-9a43-2a0e0b3c5f10"

var t0 = time.Date(2026, 2, 16, 14, 0, 0, 0, time.UTC)

type stubService struct {
	listings  []pin.Listing
	submitted []pin.Submission
	disputed  []pin.Dispute
	deleted   []string
	err       error
}

func (s *stubService) ListActive(context.Context) ([]pin.Listing, error) {
	return s.listings, s.err
}

func (s *stubService) CreateOrConfirm(_ context.Context, in pin.Submission) (pin.View, error) {
	s.submitted = append(s.submitted, in)
	if s.err != nil {
		return pin.View{}, s.err
	}
	return pin.View{ID: "p1", ArtistID: in.ArtistID, Lat: in.Lat, Lng: in.Lng, ReportCount: 1}, nil
}

func (s *stubService) ReportIncorrect(_ context.Context, in pin.Dispute) (pin.View, error) {
	s.disputed = append(s.disputed, in)
	if s.err != nil {
		return pin.View{}, s.err
	}
	return pin.View{ID: "p1", ArtistID: in.ArtistID, Lat: in.Lat, Lng: in.Lng}, nil
}

func (s *stubService) PinCount(_ context.Context, id string) (pin.Count, error) {
	return pin.Count{PinID: id, ReportCount: 3}, s.err
}

func (s *stubService) DeletePin(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

// serve mounts the component the way cmd/web does and runs one request as
// the given principal.
func serve(t *testing.T, svc service, p *auth.Principal, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	c := &Comp{svc: svc}
	root := chi.NewRouter()
	root.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil {
				r = r.WithContext(auth.WithPrincipal(r.Context(), *p))
			}
			next.ServeHTTP(w, r)
		})
	})
	root.Mount("/v1/pins", c.Routes())

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

var (
	user  = &auth.Principal{UserID: "u1", Role: auth.RoleUser}
	admin = &auth.Principal{UserID: "a1", Role: auth.RoleAdmin}
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestListActive(t *testing.T) {
	svc := &stubService{listings: []pin.Listing{{
		View:   pin.View{ID: "p1", ArtistID: artistID, Lat: 10.65, Lng: -61.51, ReportCount: 2, UpdatedAt: t0, ExpiresAt: t0.Add(time.Hour)},
		Artist: pin.ArtistRef{ID: artistID, Name: "Machel Montano"},
	}}}
	rec := serve(t, svc, user, http.MethodGet, "/v1/pins", "")
	require.Equal(t, http.StatusOK, rec.Code)

	pins := decode(t, rec)["pins"].([]any)
	require.Len(t, pins, 1)
	first := pins[0].(map[string]any)
	assert.Equal(t, "p1", first["id"])
	assert.Equal(t, "Machel Montano", first["artist"].(map[string]any)["name"])
	assert.EqualValues(t, 2, first["reportCount"])
}

func TestFeedIsGeoJSON(t *testing.T) {
	svc := &stubService{listings: []pin.Listing{{
		View:   pin.View{ID: "p1", Lat: 10.65, Lng: -61.51},
		Artist: pin.ArtistRef{ID: artistID, Name: "Kes"},
	}}}
	rec := serve(t, svc, user, http.MethodGet, "/v1/pins/feed.geojson", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	out := decode(t, rec)
	assert.Equal(t, "FeatureCollection", out["type"])
	f := out["features"].([]any)[0].(map[string]any)
	coords := f["geometry"].(map[string]any)["coordinates"].([]any)
	assert.Equal(t, []any{-61.51, 10.65}, coords)
	assert.Equal(t, "Kes", f["properties"].(map[string]any)["artistName"])
}

func TestSubmitPassesCallerAndBody(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, svc, user, http.MethodPost, "/v1/pins",
		`{"artistId":"`+artistID+`","lat":0,"lng":-61.5,"type":"confirm"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, svc.submitted, 1)
	got := svc.submitted[0]
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, pin.TypeConfirm, got.Type)
	assert.Equal(t, 0.0, got.Lat)
	assert.Equal(t, "p1", decode(t, rec)["pin"].(map[string]any)["id"])
}

func TestSubmitValidation(t *testing.T) {
	for name, body := range map[string]string{
		"missing lat":  `{"artistId":"` + artistID + `","lng":1,"type":"create"}`,
		"bad type":     `{"artistId":"` + artistID + `","lat":1,"lng":1,"type":"incorrect"}`,
		"bad artistId": `{"artistId":"abc","lat":1,"lng":1,"type":"create"}`,
		"not json":     `{`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &stubService{}
			rec := serve(t, svc, user, http.MethodPost, "/v1/pins", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, apperr.CodeValidation, decode(t, rec)["code"])
			assert.Empty(t, svc.submitted)
		})
	}
}

func TestSubmitRequiresCaller(t *testing.T) {
	rec := serve(t, &stubService{}, nil, http.MethodPost, "/v1/pins",
		`{"artistId":"`+artistID+`","lat":1,"lng":1,"type":"create"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	svc := &stubService{err: apperr.NotFound("No pin found for this artist")}
	rec := serve(t, svc, user, http.MethodPost, "/v1/pins/report-incorrect",
		`{"artistId":"`+artistID+`","lat":1,"lng":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No pin found for this artist", decode(t, rec)["message"])
	require.Len(t, svc.disputed, 1)
	assert.Equal(t, "u1", svc.disputed[0].UserID)
}

func TestCount(t *testing.T) {
	rec := serve(t, &stubService{}, user, http.MethodGet, "/v1/pins/p9/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "p9", out["pinId"])
	assert.EqualValues(t, 3, out["reportCount"])
}

func TestDeleteIsAdminOnly(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, svc, user, http.MethodDelete, "/v1/pins/p1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, svc.deleted)

	rec = serve(t, svc, admin, http.MethodDelete, "/v1/pins/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ok"])
	assert.Equal(t, []string{"p1"}, svc.deleted)
}
