package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/steven6143/stock-profit-calculator/internal/api"
	"github.com/steven6143/stock-profit-calculator/internal/cache"
	"github.com/steven6143/stock-profit-calculator/internal/config"
	"github.com/steven6143/stock-profit-calculator/internal/database"
	"github.com/steven6143/stock-profit-calculator/internal/logger"
	"github.com/steven6143/stock-profit-calculator/internal/market"
	"github.com/steven6143/stock-profit-calculator/internal/quote"
	"github.com/steven6143/stock-profit-calculator/internal/repository"
	"github.com/steven6143/stock-profit-calculator/internal/scheduler"
	"github.com/steven6143/stock-profit-calculator/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Market calendar for refresh-window decisions
	calendar, err := market.NewCalendar(cfg.Market.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load market calendar")
	}

	// Create repositories
	positionRepo := repository.NewPositionRepository(db)
	priceRepo := repository.NewPriceCacheRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	providerRepo := repository.NewProviderRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	providerService, err := service.NewProviderService(providerRepo, cfg.Provider.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize provider credentials")
	}

	token, err := providerService.GetToken()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read provider credentials")
	}
	quoteClient := quote.NewClient().WithToken(token)

	memoryCache := cache.NewMemoryPriceCache(cfg.Refresh.CacheTTL)
	priceService := service.NewPriceService(memoryCache, priceRepo)
	portfolioService := service.NewPortfolioService(positionRepo, priceService, snapshotRepo)
	refreshService := service.NewRefreshService(
		positionRepo,
		priceService,
		portfolioService,
		quoteClient,
		calendar,
		log,
	)
	positionService := service.NewPositionService(positionRepo, portfolioService, refreshService, log)

	// Periodic refresh: outside the asset's window each tick is a cheap no-op.
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.Refresh.Schedule, refreshService); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	router := api.NewRouter(systemService, positionService, portfolioService, refreshService, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
