// modules/health/health.go
//
// Liveness and readiness probe.  Answers 200 when the database responds to
// a ping within two seconds, 503 otherwise.
package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/module"
	"github.com/yanizio/triomap/internal/respond"
)

const pingTimeout = 2 * time.Second

func init() {
	module.Register("/healthz", handler)
}

func handler(env *module.Env, w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"status": "ok",
		"uptime": time.Since(env.Started).Round(time.Second).String(),
	}
	if env.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := env.DB.PingContext(ctx); err != nil {
			zap.L().Warn("health: database ping failed", zap.Error(err))
			out["status"] = "degraded"
			out["database"] = "unreachable"
			respond.JSON(w, http.StatusServiceUnavailable, out)
			return
		}
		out["database"] = "ok"
	}
	respond.JSON(w, http.StatusOK, out)
}
