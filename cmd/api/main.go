package main

import (
	"context"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"coverserver/internal/adapter/repo"
	"coverserver/internal/catalog"
	"coverserver/internal/domain"
	"coverserver/internal/http/handlers"
	httpapi "coverserver/internal/http/httpapi"
	"coverserver/internal/infra"
	"coverserver/internal/overlay"
	imageprov "coverserver/internal/providers/image"
	"coverserver/internal/providers/prompt"
	"coverserver/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var categoryRepo domain.CategoryRepository
	if cfg.CatalogDatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg.CatalogDatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect catalog database")
		}
		defer pool.Close()
		categoryRepo = repo.NewCategoryRepository(pool)
	}
	cat, err := catalog.Load(ctx, cfg.CatalogPath, categoryRepo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load category catalog")
	}
	logger.Info().Int("categories", cat.Len()).Msg("catalog loaded")

	rnd := infra.NewRand(cfg.RandomSeed)

	var writer prompt.Writer
	switch cfg.PromptProvider {
	case infra.PromptProviderGemini:
		gw, err := prompt.NewGeminiWriter(ctx, prompt.GeminiOptions{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Log:    logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create gemini prompt writer")
		}
		defer gw.Close()
		writer = gw
	default:
		writer = prompt.NewPollinationsWriter(prompt.PollinationsOptions{
			BaseURL: cfg.TextBaseURL,
			Timeout: cfg.TextTimeout,
			Log:     logger,
		})
	}

	store, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare output directory")
	}

	fonts := overlay.NewFontSource(cfg.FontPath, logger)
	logger.Info().Str("font", fonts.Name()).Msg("caption font resolved")

	params := imageprov.DefaultParams()
	params.Model = cfg.ImageModel
	params.Negative = cfg.ImageNegative
	params.Private = cfg.ImagePrivate

	app := &handlers.App{
		Catalog: cat,
		Prompts: imageprov.NewPromptBuilder(rnd),
		Images: imageprov.NewPollinationsGenerator(imageprov.PollinationsOptions{
			BaseURL: cfg.ImageBaseURL,
			Timeout: cfg.ImageTimeout,
			Rand:    rnd,
			Log:     logger,
		}),
		Composer: prompt.NewComposer(writer, rnd, logger),
		Overlay: overlay.NewEngine(overlay.Options{
			Fonts:   fonts,
			Fetcher: overlay.NewFetcher(cfg.FetchTimeout),
			Store:   store,
			Width:   cfg.CanvasWidth,
			Height:  cfg.CanvasHeight,
			Log:     logger,
		}),
		Files:  store,
		Params: params,
		Canvas: image.Pt(cfg.CanvasWidth, cfg.CanvasHeight),
		Retain: cfg.OutputRetain,
		Log:    logger,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Log:                logger,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("output_dir", store.BasePath()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
