package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/adapters/cache"
	"github.com/carebridge/seniorplacement/backend/internal/adapters/database"
	"github.com/carebridge/seniorplacement/backend/internal/adapters/providers/places"
	"github.com/carebridge/seniorplacement/backend/internal/api/handlers"
	"github.com/carebridge/seniorplacement/backend/internal/api/routes"
	"github.com/carebridge/seniorplacement/backend/internal/application/services"
	"github.com/carebridge/seniorplacement/backend/internal/domain/providers"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/redis"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/maps"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/observability"
	"github.com/carebridge/seniorplacement/backend/pkg/config"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional; without it caching and the in-flight lock degrade.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Database adapters
	searchRequestAdapter := database.NewSearchRequestAdapter(pgClient)
	rawResultAdapter := database.NewRawResultAdapter(pgClient)
	snapshotAdapter := database.NewSearchSnapshotAdapter(pgClient)
	analyticsAdapter := database.NewAnalyticsAdapter(pgClient)

	baseFacilityAdapter := database.NewFacilityAdapter(pgClient)
	var facilityAdapter repositories.FacilityRepository
	if cacheProvider != nil {
		facilityAdapter = database.NewCachedFacilityAdapter(baseFacilityAdapter, cacheProvider, metrics)
		log.Info().Msg("facility adapter wrapped with caching layer")
	} else {
		facilityAdapter = baseFacilityAdapter
		log.Warn().Msg("facility adapter running without cache")
	}

	// Places provider
	var placesProvider providers.PlacesProvider
	if cfg.Places.APIKey == "" {
		log.Warn().Msg("PLACES_API_KEY is not set; using mock places provider")
		placesProvider = places.NewMockPlacesProvider()
	} else {
		placesProvider = places.NewSerperPlacesProvider(&cfg.Places, metrics)
	}

	// Services
	ingestionService := services.NewSearchIngestionService(
		searchRequestAdapter,
		rawResultAdapter,
		placesProvider,
		cacheProvider,
		metrics,
		cfg.Places.DefaultLocation,
	)
	facilityQueryService := services.NewFacilityQueryService(facilityAdapter, analyticsAdapter)
	captureService := services.NewSearchCaptureService(snapshotAdapter, analyticsAdapter)

	mapsLoader := maps.NewStaticLoader(cfg.Maps)

	// Handlers
	ingestionHandler := handlers.NewSearchIngestionHandler(ingestionService)
	facilityQueryHandler := handlers.NewFacilityQueryHandler(facilityQueryService, captureService)
	placesHandler := handlers.NewPlacesHandler(placesProvider)
	mapsHandler := handlers.NewMapsHandler(mapsLoader)

	router := routes.NewRouter(
		ingestionHandler,
		facilityQueryHandler,
		placesHandler,
		mapsHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
