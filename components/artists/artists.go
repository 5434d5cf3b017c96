// components/artists/artists.go
//
// Artists component: catalogue search for the map app, CRUD for admins.
//
// Routes (mounted at /v1/artists)
// ------
//
//	GET    /?q=&limit=        name search (default 20, max 50)
//	GET    /?page=&limit=     admin paginated listing (no q)
//	POST   /                  admin create, 201
//	DELETE /{id}              admin delete
package artists

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/triomap/internal/acl"
	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/artist"
	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/bind"
	"github.com/yanizio/triomap/internal/component"
	"github.com/yanizio/triomap/internal/respond"
)

var _ component.Component = (*Comp)(nil)

type service interface {
	Search(ctx context.Context, q string, limit int) ([]artist.Artist, error)
	List(ctx context.Context, page, limit int) (artist.Page, error)
	Create(ctx context.Context, name string) (*artist.Artist, error)
	Delete(ctx context.Context, id string) error
}

// Comp implements component.Component.
type Comp struct {
	svc service
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "artists" }

func (c *Comp) Init(d component.Deps) error {
	s := d.Artists()
	if s == nil {
		return errors.New("artist service not configured")
	}
	c.svc = s
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.index)
	r.Group(func(admin chi.Router) {
		admin.Use(acl.RequireAdmin())
		admin.Post("/", c.create)
		admin.Delete("/{id}", c.remove)
	})
	return r
}

// createBody has no `required` rule; the service trims and rejects blanks
// with its own message.
type createBody struct {
	Name string `json:"name"`
}

func (c *Comp) index(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	limit, err := intParam(qs.Get("limit"), "limit")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	if qs.Get("q") == "" && qs.Has("page") && p.IsAdmin() {
		page, err := intParam(qs.Get("page"), "page")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if limit == 0 {
			limit = artist.DefaultLimit
		}
		out, err := c.svc.List(r.Context(), page, limit)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
		return
	}

	out, err := c.svc.Search(r.Context(), qs.Get("q"), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"artists": out})
}

func (c *Comp) create(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if err := bind.JSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	a, err := c.svc.Create(r.Context(), body.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]any{"artist": a})
}

func (c *Comp) remove(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w)
}

// intParam parses an optional non-negative query integer; "" is 0.
func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validation("Invalid query parameter",
			apperr.FieldError{Field: name, Message: "must be a non-negative integer"})
	}
	return n, nil
}
