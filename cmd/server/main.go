package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/guenthersilvia37/nachts-im-kino-api/api"
	"github.com/guenthersilvia37/nachts-im-kino-api/config"
	"github.com/guenthersilvia37/nachts-im-kino-api/handlers"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/geocode"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/metadata"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/scrape"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/serpapi"
	"github.com/guenthersilvia37/nachts-im-kino-api/services/showtimes"
	"github.com/guenthersilvia37/nachts-im-kino-api/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.Load()
	setupLogging(cfg.LogFile)

	log.Println("Starting Nachts im Kino API...")
	if cfg.SerpAPIKey == "" {
		log.Println("Warning: SERPAPI_KEY not set, cinema and showtimes search disabled")
	}
	if cfg.TMDBAPIKey == "" {
		log.Println("Warning: TMDB_KEY not set, movie metadata disabled")
	}

	// One client for all upstreams; each request carries its own context.
	upstream := &http.Client{Timeout: 30 * time.Second}

	geocoder := geocode.NewClient(upstream)
	serp := serpapi.NewClient(cfg.SerpAPIKey, upstream)
	meta := metadata.NewService(cfg.TMDBAPIKey, cfg.TMDBLanguage, upstream, cfg.MetadataCacheTTL, cfg.MaxEnrichTitles)
	program := showtimes.NewService(serp, meta, cfg.QueryCacheTTL, cfg.MinRealDays,
		scrape.NewCinedomSource(cfg.CinedomURL))

	cinemasHandler := handlers.NewCinemasHandler(geocoder, serp, cfg.QueryCacheTTL)
	showtimesHandler := handlers.NewShowtimesHandler(program)
	movieHandler := handlers.NewMovieHandler(meta)
	healthHandler := handlers.NewHealthHandler(serp, meta)

	limiter := api.NewIPRateLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimitPerMinute)), cfg.RateLimitPerMinute)

	router := utils.NewRouter()
	apiRoutes := router.PathPrefix("/api").Subrouter()
	apiRoutes.Use(api.RateLimitMiddleware(limiter))
	apiRoutes.HandleFunc("/health", healthHandler.Status).Methods(http.MethodGet, http.MethodOptions)
	apiRoutes.HandleFunc("/cinemas", cinemasHandler.Search).Methods(http.MethodGet, http.MethodOptions)
	apiRoutes.HandleFunc("/showtimes", showtimesHandler.ProgramFor).Methods(http.MethodGet, http.MethodOptions)
	apiRoutes.HandleFunc("/movie", movieHandler.Details).Methods(http.MethodGet, http.MethodOptions)
	apiRoutes.HandleFunc("/poster", movieHandler.Poster).Methods(http.MethodGet, http.MethodOptions)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging mirrors logs to a rotating file when LOG_FILE is set.
func setupLogging(path string) {
	if path == "" {
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
