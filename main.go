package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dealradar/config"
	"dealradar/helpers"
	"dealradar/internal/aggregator"
	"dealradar/internal/source"
	"dealradar/logger"
	errs "dealradar/pkg/errors"
	"dealradar/services/cache"
	"dealradar/services/publisher"
	"dealradar/services/worker"
)

func main() {
	godotenv.Load()

	logger.Init()
	log := logger.Default

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("source_timeout", cfg.SourceTimeout).
		Msg("Starting application")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cacheSvc := cache.NewMemcacheService(cfg.MemcacheAddr)
	log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")

	sources := source.CreateSources(&cfg, cacheSvc)
	collector := aggregator.NewCollector(sources, cfg.SourceTimeout)
	products := aggregator.NewProductClient(cfg.ScraperAPIKey, cfg.ProductEndpoint)

	// The background refresher and its Redis stream are optional; the HTTP
	// path never depends on them.
	if cfg.RedisAddr != "" {
		pub := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		defer pub.Close()

		w := worker.NewWorker(
			ctx,
			collector,
			pub,
			helpers.NewZeroLogger(),
			source.Query{Keywords: "deals", Page: 1},
			cfg.RefreshInterval,
		)
		go func() {
			log.Info().Dur("interval", cfg.RefreshInterval).Msg("Starting refresh worker")
			if err := w.Start(); err != nil {
				log.Error().Err(err).Msg("Refresh worker exited with error")
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/api/deals", dealsHandler(collector))
	mux.HandleFunc("/api/product/", productHandler(products))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		serverDone <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	log.Info().Msg("Shutting down gracefully...")
}

// withCORS adds permissive CORS and JSON headers
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Backend running successfully",
	})
}

// dealsHandler serves the aggregation endpoint. It always answers 200 with
// a well-formed body; upstream failures degrade the data, not the endpoint.
func dealsHandler(collector *aggregator.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		q := source.Query{
			Keywords: params.Get("q"),
			Page:     intParam(params.Get("page"), 1),
		}
		opts := aggregator.Options{
			MinDiscount: intParam(params.Get("minDiscount"), 0),
			MaxPrice:    floatParam(params.Get("maxPrice")),
			Sort:        params.Get("sort"),
			Limit:       intParam(params.Get("limit"), 0),
		}

		resp := collector.CollectDeals(r.Context(), q, opts)
		writeJSON(w, http.StatusOK, resp)
	}
}

// productHandler serves the single-product lookup. Unlike /api/deals its
// failures surface, with generic messages only.
func productHandler(products *aggregator.ProductClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/product/")
		params := r.URL.Query()

		detail, err := products.FetchProduct(r.Context(), id, params.Get("country"), params.Get("tld"))
		if err != nil {
			logger.LogError("product_handler", err, "product lookup failed")
			switch {
			case errs.IsType(err, errs.ErrorTypeValidation):
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
			case errs.IsType(err, errs.ErrorTypeConfiguration):
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service not configured"})
			default:
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream lookup failed"})
			}
			return
		}

		writeJSON(w, http.StatusOK, detail)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func intParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func floatParam(value string) float64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}
