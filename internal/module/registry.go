// internal/module/registry.go
//
// A super-light registry for operational endpoints: modules call
// Register(path, handler) in an init() function and cmd/web mounts them
// all at the root, outside the authenticated /v1 tree.
//
// Handler signature:
//
//	func(env *module.Env, w http.ResponseWriter, r *http.Request)
//
// Env gives handlers the process-wide resources they may inspect (database
// handle, start time) without importing cmd/web.
package module

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Env is shared with every module handler.
type Env struct {
	DB      Pinger
	Started time.Time
}

// Handler is what modules register.
type Handler func(*Env, http.ResponseWriter, *http.Request)

var (
	mu       sync.RWMutex
	registry = map[string]Handler{}
)

// Register is called from module init() functions.
func Register(path string, h Handler) {
	mu.Lock()
	registry[path] = h
	mu.Unlock()
}

// Lookup returns the handler for an exact path or nil.
func Lookup(path string) Handler {
	mu.RLock()
	defer mu.RUnlock()
	return registry[path]
}

// Paths lists registered paths in order.
func Paths() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for p := range registry {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Mount adds a GET route for every registered module.
func Mount(r chi.Router, env *Env) {
	for _, p := range Paths() {
		h := Lookup(p)
		r.Get(p, func(w http.ResponseWriter, req *http.Request) { h(env, w, req) })
	}
}
