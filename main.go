package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"aryflix/config"
	"aryflix/handlers"
	"aryflix/internal/database"
	"aryflix/services/accounts"
	"aryflix/services/metadata"
	"aryflix/services/resolve"
	"aryflix/services/sessions"
	"aryflix/services/userratings"
	"aryflix/services/watchlist"
	"aryflix/utils"
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}

	if cfg.TMDBAPIKey == "" {
		log.Println("[startup] TMDB_API_KEY is not set, search and catalog feeds will fail")
	}
	if cfg.YouTubeAPIKey == "" {
		log.Println("[startup] YOUTUBE_API_KEY is not set, trailer search fallback is disabled")
	}
	if cfg.OMDBAPIKey == "" {
		log.Println("[startup] OMDB_API_KEY is not set, external ratings are disabled")
	}

	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(cfg.DataDir, "aryflix.db"),
	})
	if err != nil {
		log.Fatalf("[startup] open database: %v", err)
	}
	defer db.Close()

	metadataSvc := metadata.NewService(cfg.TMDBAPIKey, cfg.YouTubeAPIKey, cfg.OMDBAPIKey, cfg.DataDir, cfg.CacheTTL)
	resolver := resolve.NewService(metadataSvc, metadataSvc, metadataSvc)

	accountsSvc, err := accounts.NewService(filepath.Join(cfg.DataDir, "accounts"))
	if err != nil {
		log.Fatalf("[startup] accounts service: %v", err)
	}
	sessionsSvc, err := sessions.NewService(filepath.Join(cfg.DataDir, "sessions"), sessions.DefaultSessionDuration)
	if err != nil {
		log.Fatalf("[startup] sessions service: %v", err)
	}

	router := utils.NewRouter(cfg.AllowedOrigins)
	handlers.RegisterRoutes(router, handlers.RouterConfig{
		Search:    handlers.NewSearchHandler(resolver),
		Catalog:   handlers.NewCatalogHandler(metadataSvc),
		Details:   handlers.NewDetailsHandler(metadataSvc, resolver),
		Auth:      handlers.NewAuthHandler(accountsSvc, sessionsSvc),
		Watchlist: handlers.NewWatchlistHandler(watchlist.NewService(db.Watchlist)),
		Ratings:   handlers.NewRatingsHandler(userratings.NewService(db.Ratings)),
		Sessions:  sessionsSvc,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[startup] listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[startup] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("[shutdown] stopping server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[shutdown] forced: %v", err)
	}
}
