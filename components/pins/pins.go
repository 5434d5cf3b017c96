// components/pins/pins.go
//
// Pins component: the crowdsourced truck map.
//
// Routes (mounted at /v1/pins, caller authenticated)
// ------
//
//	GET    /                  active pins with artist names
//	GET    /feed.geojson      the same pins as a GeoJSON FeatureCollection
//	POST   /                  create or confirm a sighting
//	POST   /report-incorrect  dispute an artist's pin position
//	GET    /{id}/count        create+confirm count of one pin
//	DELETE /{id}              admin removal
//
// Handlers decode and validate the body, pass the caller id from the token
// to the pin service, and map the result through respond.
package pins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/triomap/internal/acl"
	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/bind"
	"github.com/yanizio/triomap/internal/component"
	"github.com/yanizio/triomap/internal/geo"
	"github.com/yanizio/triomap/internal/pin"
	"github.com/yanizio/triomap/internal/respond"
)

// compile-time assertion
var _ component.Component = (*Comp)(nil)

// service is the slice of *pin.Service the handlers use.
type service interface {
	ListActive(ctx context.Context) ([]pin.Listing, error)
	CreateOrConfirm(ctx context.Context, in pin.Submission) (pin.View, error)
	ReportIncorrect(ctx context.Context, in pin.Dispute) (pin.View, error)
	PinCount(ctx context.Context, pinID string) (pin.Count, error)
	DeletePin(ctx context.Context, pinID string) error
}

// Comp implements component.Component.
type Comp struct {
	svc service
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "pins" }

func (c *Comp) Init(d component.Deps) error {
	s := d.Pins()
	if s == nil {
		return errors.New("pin service not configured")
	}
	c.svc = s
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.list)
	r.Get("/feed.geojson", c.feed)
	r.Post("/", c.submit)
	r.Post("/report-incorrect", c.reportIncorrect)
	r.Get("/{id}/count", c.count)
	r.With(acl.RequireAdmin()).Delete("/{id}", c.remove)
	return r
}

/*──────────────────────────── request bodies ──────────────────────────────*/

// Coordinates are pointers so that 0 is distinguishable from "missing";
// range checks happen in the service.
type submitBody struct {
	ArtistID string   `json:"artistId" validate:"required,uuid"`
	Lat      *float64 `json:"lat"      validate:"required"`
	Lng      *float64 `json:"lng"      validate:"required"`
	Type     string   `json:"type"     validate:"required,oneof=create confirm"`
}

type disputeBody struct {
	ArtistID string   `json:"artistId" validate:"required,uuid"`
	Lat      *float64 `json:"lat"      validate:"required"`
	Lng      *float64 `json:"lng"      validate:"required"`
}

/*──────────────────────────── handlers ────────────────────────────────────*/

func (c *Comp) list(w http.ResponseWriter, r *http.Request) {
	pins, err := c.svc.ListActive(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"pins": pins})
}

func (c *Comp) feed(w http.ResponseWriter, r *http.Request) {
	pins, err := c.svc.ListActive(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	points := make([]geo.Point, 0, len(pins))
	for _, p := range pins {
		points = append(points, geo.Point{
			ID:  p.ID,
			Lat: p.Lat,
			Lng: p.Lng,
			Props: map[string]any{
				"artistId":    p.Artist.ID,
				"artistName":  p.Artist.Name,
				"reportCount": p.ReportCount,
				"updatedAt":   p.UpdatedAt,
				"expiresAt":   p.ExpiresAt,
			},
		})
	}
	raw, err := json.Marshal(geo.FeatureCollection(points))
	if err != nil {
		respond.Error(w, r, fmt.Errorf("marshal feed: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (c *Comp) submit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("Authentication required"))
		return
	}
	var body submitBody
	if err := bind.JSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	v, err := c.svc.CreateOrConfirm(r.Context(), pin.Submission{
		UserID:   user,
		ArtistID: body.ArtistID,
		Lat:      *body.Lat,
		Lng:      *body.Lng,
		Type:     pin.ReportType(body.Type),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"pin": v})
}

func (c *Comp) reportIncorrect(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("Authentication required"))
		return
	}
	var body disputeBody
	if err := bind.JSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	v, err := c.svc.ReportIncorrect(r.Context(), pin.Dispute{
		UserID:   user,
		ArtistID: body.ArtistID,
		Lat:      *body.Lat,
		Lng:      *body.Lng,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"pin": v})
}

func (c *Comp) count(w http.ResponseWriter, r *http.Request) {
	n, err := c.svc.PinCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, n)
}

func (c *Comp) remove(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.DeletePin(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w)
}
