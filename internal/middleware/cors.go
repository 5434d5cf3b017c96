package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS answers preflights and tags responses for the map app's origin.
// origin "*" allows any origin without credentials; an empty origin
// disables CORS headers.
func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: origin != "*",
		MaxAge:           600,
	})
}
