package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"aryflix/api"
	"aryflix/services/sessions"
)

// RouterConfig bundles everything RegisterRoutes needs.
type RouterConfig struct {
	Search    *SearchHandler
	Catalog   *CatalogHandler
	Details   *DetailsHandler
	Auth      *AuthHandler
	Watchlist *WatchlistHandler
	Ratings   *RatingsHandler
	Sessions  *sessions.Service
}

// RegisterRoutes mounts the full API surface under /api. Watchlist and the
// per-user rating routes require a valid session; the auth endpoints that
// accept credentials are rate limited per IP.
func RegisterRoutes(router *mux.Router, cfg RouterConfig) {
	apiRouter := router.PathPrefix("/api").Subrouter()

	// 5 attempts per minute per IP on credential endpoints
	authLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)
	// search fans out to two upstream calls per request, so it gets its own
	// per-IP budget: bursts of 30, refilling once a second
	searchLimiter := api.NewIPRateLimiter(rate.Every(time.Second), 30)

	apiRouter.HandleFunc("/search", api.RateLimitHandlerFunc(searchLimiter, cfg.Search.Search)).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/movies/trending", cfg.Catalog.TrendingMovies).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/movies/now-playing", cfg.Catalog.NowPlayingMovies).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/movies/upcoming", cfg.Catalog.UpcomingMovies).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/tv/trending", cfg.Catalog.TrendingTV).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/tv/popular", cfg.Catalog.PopularTV).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/tv/upcoming", cfg.Catalog.UpcomingTV).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/anime/trending", cfg.Catalog.TrendingAnime).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/streaming/{platform}", cfg.Catalog.Streaming).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/movies/{id:[0-9]+}", cfg.Details.Movie).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/movies/{id:[0-9]+}/trailer", cfg.Details.MovieTrailer).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/tv/{id:[0-9]+}", cfg.Details.TV).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/tv/{id:[0-9]+}/trailer", cfg.Details.TVTrailer).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/auth/signup", api.RateLimitHandlerFunc(authLimiter, cfg.Auth.Signup)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/auth/login", api.RateLimitHandlerFunc(authLimiter, cfg.Auth.Login)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/auth/check-username", api.RateLimitHandlerFunc(authLimiter, cfg.Auth.CheckUsername)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/auth/logout", cfg.Auth.Logout).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/auth/me", cfg.Auth.Me).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/ratings/{mediaID}/average", cfg.Ratings.Average).Methods(http.MethodGet, http.MethodOptions)

	authed := apiRouter.NewRoute().Subrouter()
	authed.Use(api.AccountAuthMiddleware(cfg.Sessions))
	authed.HandleFunc("/watchlist", cfg.Watchlist.List).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/watchlist", cfg.Watchlist.Add).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/watchlist/{mediaID}", cfg.Watchlist.Remove).Methods(http.MethodDelete, http.MethodOptions)
	authed.HandleFunc("/ratings", cfg.Ratings.Rate).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/ratings/{mediaID}", cfg.Ratings.Get).Methods(http.MethodGet, http.MethodOptions)
}
