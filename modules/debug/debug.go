// modules/debug/debug.go
//
// Diagnostic module that echoes what the server derived from the request:
// client IP, parsed user agent, GeoIP location, and preferred language.
package debug

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yanizio/triomap/internal/module"
	"github.com/yanizio/triomap/internal/requestinfo"
	"github.com/yanizio/triomap/internal/respond"
)

func init() {
	// Register at exact path /debug/request
	module.Register("/debug/request", handler)
}

// handler writes a JSON blob with selected request fields.
func handler(_ *module.Env, w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"method":     r.Method,
		"path":       r.URL.Path,
		"query":      r.URL.RawQuery,
		"ip":         requestinfo.ClientIP(r).String(),
		"ua":         r.UserAgent(),
		"request_id": middleware.GetReqID(r.Context()),
	}
	if info := requestinfo.FromContext(r.Context()); info != nil {
		out["ua_parsed"] = info.UA
		out["geo"] = info.Geo
		out["lang"] = info.PrimaryLang
	}
	respond.JSON(w, http.StatusOK, out)
}
