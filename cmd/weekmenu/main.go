package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weekmenu/internal/api"
	"weekmenu/internal/auth"
	"weekmenu/internal/clock"
	"weekmenu/internal/config"
	"weekmenu/internal/database"
	"weekmenu/internal/history"
	"weekmenu/internal/images"
	"weekmenu/internal/importer"
	"weekmenu/internal/llm"
	"weekmenu/internal/logging"
	"weekmenu/internal/metrics"
	"weekmenu/internal/recipe"
	"weekmenu/internal/suggestion"
	"weekmenu/internal/telegram"
	"weekmenu/internal/weather"
	"weekmenu/internal/weekplan"
)

// metricsRetentionDays bounds how long llm usage rows are kept.
const metricsRetentionDays = 90

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "weekmenu: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	imageStore, err := images.NewStore(cfg.Images.Path)
	if err != nil {
		return err
	}

	clk := clock.System{}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	recipes := recipe.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	suggestions := suggestion.NewRepository(db.SQL)
	plans := weekplan.NewRepository(db.SQL)
	usage := metrics.NewStore(db.SQL)

	provider := weather.NewCached(
		weather.NewOpenWeather(cfg.Weather.APIKey, cfg.Weather.Lat, cfg.Weather.Lon),
		clk, cfg.Weather.CacheTTL)

	engine := suggestion.NewEngine(recipes, historyRepo, suggestions, provider, clk, rng, logger)
	resolver := weekplan.NewResolver(recipes, suggestions, plans, provider, clk, rng, logger)
	scraper := importer.NewScraper(logger)

	ctx := context.Background()

	if removed, err := usage.Cleanup(ctx, metricsRetentionDays); err != nil {
		logger.Warn("metrics cleanup failed", zap.Error(err))
	} else if removed > 0 {
		logger.Info("pruned old llm metrics", zap.Int64("removed", removed))
	}

	var captions *importer.CaptionParser
	var imageGen llm.ImageGenerator
	if cfg.Gemini.APIKey != "" {
		gemini, err := llm.NewGemini(ctx, cfg)
		if err != nil {
			return err
		}
		defer gemini.Close()
		captions = importer.NewCaptionParser(gemini, usage, cfg.Gemini.TextModel, logger)
		imageGen = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, caption import and image generation disabled")
	}

	server := api.NewServer(api.Deps{
		Config:        cfg,
		Logger:        logger,
		Recipes:       recipes,
		History:       historyRepo,
		Engine:        engine,
		Resolver:      resolver,
		Weather:       provider,
		Clock:         clk,
		Auth:          auth.NewService(cfg.Auth),
		Scraper:       scraper,
		CaptionParser: captions,
		ImageGen:      imageGen,
		ImageStore:    imageStore,
		Usage:         usage,
	})
	router := server.Router()

	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.NewBot(cfg.Telegram, engine, resolver, recipes, scraper, clk, logger)
		if err != nil {
			return err
		}
		router.POST("/webhook", gin.WrapF(bot.WebhookHandler()))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("db", cfg.Database.Path),
			zap.Bool("telegram", cfg.Telegram.BotToken != ""))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
