package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server needs, read from the environment.
type Config struct {
	Port           int
	DataDir        string
	TMDBAPIKey     string
	YouTubeAPIKey  string
	OMDBAPIKey     string
	CacheTTL       time.Duration
	AllowedOrigins []string
	LogFile        string
}

const (
	defaultPort     = 8080
	defaultDataDir  = "./data"
	defaultCacheTTL = 6 * time.Hour
)

// Load reads configuration from environment variables, applying defaults
// for everything except the upstream API keys.
func Load() Config {
	cfg := Config{
		Port:          defaultPort,
		DataDir:       defaultDataDir,
		TMDBAPIKey:    os.Getenv("TMDB_API_KEY"),
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		OMDBAPIKey:    os.Getenv("OMDB_API_KEY"),
		CacheTTL:      defaultCacheTTL,
		LogFile:       os.Getenv("ARYFLIX_LOG_FILE"),
	}

	if v := os.Getenv("ARYFLIX_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			cfg.Port = port
		}
	}
	if v := os.Getenv("ARYFLIX_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ARYFLIX_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil && ttl > 0 {
			cfg.CacheTTL = ttl
		}
	}
	if v := os.Getenv("ARYFLIX_ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	return cfg
}
