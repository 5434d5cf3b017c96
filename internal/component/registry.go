// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each API component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components it serves, calls InitAll(deps) once the services are built,
// and mounts every component's Routes() at “/v1/<name>” behind the auth
// middleware.
//
// Routes() mounts the component's endpoints relative to its own prefix:
//
//	r := chi.NewRouter()
//	r.Get("/", list)
//	r.With(acl.RequireAdmin()).Delete("/{id}", remove)
//	return r
package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.  Init is called exactly once, before Routes.
type Component interface {
	Name() string
	Init(Deps) error
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  A duplicate name
// is a programming error and panics.
func Register(c Component) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[c.Name()]; dup {
		panic("component: duplicate registration of " + c.Name())
	}
	registry[c.Name()] = c
}

// All returns every registered component ordered by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// InitAll initialises every registered component and stops at the first
// failure.
func InitAll(d Deps) error {
	for _, c := range All() {
		if err := c.Init(d); err != nil {
			return fmt.Errorf("init component %s: %w", c.Name(), err)
		}
	}
	return nil
}

// reset clears the registry (tests only).
func reset() {
	mu.Lock()
	registry = map[string]Component{}
	mu.Unlock()
}
