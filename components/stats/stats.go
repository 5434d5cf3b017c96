// components/stats/stats.go
//
// Stats component: admin activity chart.
//
//	GET /v1/stats/pins-by-minute  →  {"data":[{"minute":"…","count":n}, …]}
//	GET /v1/stats/users-count     →  {"total":n}
package stats

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/triomap/internal/acl"
	"github.com/yanizio/triomap/internal/component"
	"github.com/yanizio/triomap/internal/respond"
	"github.com/yanizio/triomap/internal/stats"
)

var _ component.Component = (*Comp)(nil)

type service interface {
	PinsByMinute(ctx context.Context) ([]stats.MinuteCount, error)
	UsersCount(ctx context.Context) (stats.UserTotal, error)
}

type Comp struct {
	svc service
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "stats" }

func (c *Comp) Init(d component.Deps) error {
	s := d.Stats()
	if s == nil {
		return errors.New("stats service not configured")
	}
	c.svc = s
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(acl.RequireAdmin())
	r.Get("/pins-by-minute", func(w http.ResponseWriter, r *http.Request) {
		data, err := c.svc.PinsByMinute(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"data": data})
	})
	r.Get("/users-count", func(w http.ResponseWriter, r *http.Request) {
		total, err := c.svc.UsersCount(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, total)
	})
	return r
}
