package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stylemate/internal/http/handlers"
	"stylemate/internal/http/httpapi"
	"stylemate/internal/infra"
	"stylemate/internal/infra/geoip"
	"stylemate/internal/joborch"
	"stylemate/internal/jobstore"
	"stylemate/internal/middleware"
	"stylemate/internal/providers/openai"
	"stylemate/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildJobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure job store")
	}
	defer cleanup()

	blobs, err := buildBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure blob storage")
	}

	oaClient, err := openai.New(openai.Options{
		APIKey:        cfg.OpenAIAPIKey,
		BaseURL:       cfg.OpenAIBaseURL,
		ClassifyModel: cfg.ClassifyModel,
		EditModel:     cfg.ImageEditModel,
		Timeout:       cfg.ClassifyTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure openai client")
	}

	registry := joborch.NewRegistry(joborch.Deps{
		Store:  store,
		Blobs:  blobs,
		Editor: oaClient,
		Logger: logger,
		Timeouts: joborch.Timeouts{
			Fetch:    cfg.FetchTimeout,
			Generate: cfg.GenerateTimeout,
			Upload:   cfg.UploadTimeout,
		},
	})

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	app := handlers.NewApp(logger, registry, blobs, oaClient, cfg.MaxUploadBytes, cfg.OutfitSize)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:        logger,
		AllowedOrigin: cfg.AllowedOrigin,
		DefaultLocale: cfg.DefaultLocale,
		CountryLookup: countryLookup,
	})

	server := infra.NewHTTPServer(cfg, logger, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func buildJobStore(ctx context.Context, cfg *infra.Config) (jobstore.Store, func(), error) {
	switch cfg.JobStoreDriver {
	case "redis":
		client, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return jobstore.NewRedisStore(client), func() { _ = client.Close() }, nil
	case "postgres":
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store := jobstore.NewPostgresStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return jobstore.NewMemoryStore(), func() {}, nil
	}
}

func buildBlobStore(ctx context.Context, cfg *infra.Config) (storage.BlobStore, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PathStyle:     cfg.S3PathStyle,
			PublicBaseURL: cfg.StorageBaseURL,
		})
	}
	return storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
}
