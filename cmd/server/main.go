package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eurotours-service/internal/infrastructure/config"
	"eurotours-service/internal/infrastructure/persistence"
	"eurotours-service/internal/infrastructure/router"
	"eurotours-service/internal/interface/provider"
	mongoRepo "eurotours-service/internal/interface/repository"
	"eurotours-service/internal/interface/rest"
	"eurotours-service/internal/usecase"
	"eurotours-service/pkg/logger"
	"eurotours-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Eurotours Search Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up metrics
	m := metrics.NewMetrics("eurotours")
	m.Register(prometheus.DefaultRegisterer)

	// Set up repositories
	searchRepository := mongoRepo.NewMongoSearchRepository(db, cfg.SearchTTL)
	routeRepository := mongoRepo.NewMongoRouteRepository(db, cfg.RouteTTL)
	cityRepository := mongoRepo.NewMongoCityRepository(db)
	carrierRepository := mongoRepo.NewMongoCarrierRepository(db)

	// Set up providers
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	adapters := []provider.Adapter{
		provider.NewFlixBusAdapter(cfg.FlixBusSearchURL, cfg.Currency, httpClient, log),
		provider.NewBlaBlaCarAdapter(cfg.BlaBlaCarBaseURL, cfg.BlaBlaCarLogin, cfg.BlaBlaCarPassword, cfg.Currency, httpClient, log),
	}
	if cfg.EnableMockCarrier {
		adapters = append(adapters, provider.NewEuroBusAdapter(cfg.Currency))
	}

	providers := make([]usecase.RouteProvider, 0, len(adapters))
	for _, adapter := range adapters {
		providers = append(providers, provider.NewHarness(adapter, cfg.ProviderTimeout, log, m))
	}
	log.Info("Providers configured", "count", len(providers))

	// Set up orchestrator
	coalescer := usecase.NewSearchCoalescer(cfg.DedupTTL)
	orchestrator := usecase.NewSearchOrchestrator(
		searchRepository,
		routeRepository,
		cityRepository,
		carrierRepository,
		providers,
		coalescer,
		log,
		m,
	)

	// Set up HTTP server
	handler := rest.NewSearchHandler(orchestrator, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(handler, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Eurotours Search Service stopped")
}
