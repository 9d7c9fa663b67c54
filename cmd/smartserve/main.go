package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"smartserve/internal/api"
	"smartserve/internal/auth"
	"smartserve/internal/config"
	"smartserve/internal/database"
	"smartserve/internal/forecast"
	"smartserve/internal/fridge"
	"smartserve/internal/history"
	"smartserve/internal/inventory"
	"smartserve/internal/metrics"
	"smartserve/internal/monitoring"
	"smartserve/internal/planner"
	"smartserve/internal/suggest"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()
	config.LoadDotEnv()

	// Load configuration
	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	if err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()
	db := database.GetDB()

	historyStore, err := history.NewStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize history: %v", err)
	}
	inventoryStore, err := inventory.NewStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize inventory: %v", err)
	}

	collector := metrics.NewCollector()
	service := forecast.NewService(historyStore)
	forecaster := initializeForecaster(cfg, service)
	completer := initializeCompleter(cfg)

	sessions := fridge.NewStore(cfg.Fridge)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Minute)

	server := api.NewServer(api.Deps{
		Auth:   auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Fridge: sessions,
		Planners: planner.NewStore(func() *planner.Planner {
			return planner.New(forecaster, completer, historyStore, collector)
		}),
		History:     historyStore,
		Inventory:   inventoryStore,
		Metrics:     collector,
		Monitor:     monitoring.NewMonitor(),
		Forecaster:  service,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	apiServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: server.Router(),
	}
	metricsServer := newMetricsServer(cfg.Server.Host, cfg.Server.MetricsPort, collector)

	// Start metrics server
	go func() {
		log.Printf("Starting metrics server on port %d", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("API server error: %v", err)
	}
	<-done
}

// loadConfig reads path, or SMARTSERVE_CONFIG when the flag was left at its
// default. A missing default file falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if env := os.Getenv("SMARTSERVE_CONFIG"); env != "" && path == "configs/config.yaml" {
		path = env
	}
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Config file %s not found, using defaults", path)
		cfg = config.Default()
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func initializeForecaster(cfg *config.Config, local *forecast.Service) forecast.Forecaster {
	if cfg.Forecast.Mode == config.ForecastRemote {
		log.Printf("Using remote forecasting service at %s", cfg.Forecast.URL)
		return forecast.NewClient(cfg.Forecast.URL, cfg.Forecast.Timeout)
	}
	log.Println("Using built-in forecasting service")
	return local
}

func initializeCompleter(cfg *config.Config) suggest.Completer {
	registry := suggest.NewRegistry()
	registry.Register("default", cfg.Suggest)

	completer, err := registry.Get("default")
	if err != nil {
		log.Printf("Completion provider unavailable, using offline suggestions: %v", err)
		completer, _ = registry.Get(string(suggest.StaticProvider))
		return completer
	}
	if cfg.Suggest.Type != suggest.StaticProvider && cfg.Suggest.APIKey == "" {
		log.Printf("No API key configured for %s; suggestions will report an error", cfg.Suggest.Type)
	}
	return completer
}

func newMetricsServer(host string, port int, collector *metrics.Collector) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET("/metrics", gin.WrapH(collector.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: metricsRouter,
	}
}
