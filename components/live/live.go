// components/live/live.go
//
// Live component: websocket endpoint for the map's change feed.
//
//	GET /v1/live  (Upgrade: websocket)
//
// Browsers cannot set an Authorization header on websocket handshakes, so
// auth.Middleware also accepts ?access_token=.
package live

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/component"
	"github.com/yanizio/triomap/internal/live"
	"github.com/yanizio/triomap/internal/respond"
)

var _ component.Component = (*Comp)(nil)

type Comp struct {
	hub *live.Hub
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "live" }

func (c *Comp) Init(d component.Deps) error {
	c.hub = d.Hub()
	if c.hub == nil {
		return errors.New("live hub not configured")
	}
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserID(r.Context())
		if !ok {
			respond.Error(w, r, apperr.Unauthorized("Authentication required"))
			return
		}
		// Upgrade writes its own error response on handshake failure.
		if err := c.hub.Serve(w, r, user); err != nil {
			zap.L().Debug("live connect", zap.String("user", user), zap.Error(err))
		}
	})
	return r
}
