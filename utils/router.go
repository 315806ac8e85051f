package utils

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// corsMiddleware echoes allowed origins and answers preflight requests.
func corsMiddleware(extraOrigins []string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if IsAllowedOrigin(origin, extraOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter creates the base router with CORS handling and a health endpoint.
// extraOrigins lists public frontend origins allowed in addition to local
// development origins.
func NewRouter(extraOrigins []string) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware(extraOrigins))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet, http.MethodOptions)

	return router
}
