// Package middleware holds the HTTP middleware the VisaFlow API mounts in
// front of its routes.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// preflightMaxAge is how long browsers may cache a preflight answer, in seconds.
const preflightMaxAge = 600

// NewCORSHandler allows the web client at origins to call the API.
// Origins are full scheme://host[:port] values without a trailing slash.
// X-Total-Count is exposed so paged trip lists can be followed from a browser.
func NewCORSHandler(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Total-Count", "X-Request-Id"},
		MaxAge:         preflightMaxAge,
	}).Handler
}
