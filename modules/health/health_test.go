package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/triomap/internal/module"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func run(env *module.Env) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	module.Lookup("/healthz")(env, rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHealthy(t *testing.T) {
	rec, out := run(&module.Env{DB: pinger{}, Started: time.Now()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "ok", out["database"])
}

func TestDatabaseDown(t *testing.T) {
	rec, out := run(&module.Env{DB: pinger{err: errors.New("dial tcp: refused")}, Started: time.Now()})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", out["status"])
}
