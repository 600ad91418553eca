// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutor-lesson-pipeline/internal/config"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
	"tutor-lesson-pipeline/internal/infra/adapters/builder"
	"tutor-lesson-pipeline/internal/infra/adapters/ocr"
	"tutor-lesson-pipeline/internal/infra/db/memory"
	pg "tutor-lesson-pipeline/internal/infra/db/postgres"
	"tutor-lesson-pipeline/internal/infra/extract"
	"tutor-lesson-pipeline/internal/infra/logging"
	"tutor-lesson-pipeline/internal/infra/metrics"
	red "tutor-lesson-pipeline/internal/infra/redis"
	"tutor-lesson-pipeline/internal/infra/storage"
	"tutor-lesson-pipeline/internal/infra/web"
	"tutor-lesson-pipeline/internal/infra/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed auth)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Status store ----
	var jobRepo repository.LessonJobRepository
	var childRepo repository.ChildRepository
	switch cfg.Database.Store {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		jobRepo = pg.NewLessonJobRepo(pool)
		childRepo = pg.NewChildRepo(pool)
	case "memory":
		logger.Warn().Msg("using in-memory status store; jobs do not survive restarts")
		jobRepo = memory.NewLessonJobRepo()
	default:
		log.Fatalf("unknown database.store %q", cfg.Database.Store)
	}

	// ---- Redis queue ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	jobQueue := red.NewJobQueue(redisClient, cfg.Redis.QueueKey)
	claimer := red.NewJobClaimer(redisClient)

	// ---- File storage ----
	store, err := storage.NewSupabaseStorage(cfg.Storage, logger)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	// ---- OCR ----
	var ocrAdapter adapter.OCRAdapter
	switch cfg.OCR.Provider {
	case "vision":
		v, err := ocr.NewVisionOCR(ctx, cfg.OCR, logger)
		if err != nil {
			log.Fatalf("vision ocr: %v", err)
		}
		defer v.Close()
		ocrAdapter = v
		logger.Info().Msg("OCR: Cloud Vision")
	default:
		ocrAdapter = ocr.NewDisabled()
		logger.Info().Msg("OCR: disabled, image-heavy files degrade to placeholder text")
	}

	// ---- Lesson builder (OpenAI -> Gemini -> demo) ----
	var lessonBuilder adapter.LessonBuilder
	switch cfg.Builder.Provider {
	case "openai":
		lessonBuilder, err = builder.NewOpenAIBuilder(cfg.Builder.OpenAIKey, cfg.Builder.Model, cfg.Builder.Timeout)
		if err != nil {
			log.Fatalf("openai builder: %v", err)
		}
		logger.Info().Str("model", cfg.Builder.Model).Msg("builder: OpenAI")
	case "gemini":
		lessonBuilder, err = builder.NewGeminiBuilder(ctx, cfg.Builder.GeminiKey, cfg.Builder.GeminiURL, cfg.Builder.Model)
		if err != nil {
			log.Fatalf("gemini builder: %v", err)
		}
		logger.Info().Str("model", cfg.Builder.Model).Msg("builder: Gemini")
	default:
		lessonBuilder = builder.NewDemoBuilder()
		logger.Warn().Msg("builder: demo, every job gets the canned demo lesson")
	}

	// ---- Worker pool ----
	extractor := extract.NewExtractor(ocrAdapter, cfg.OCR.Language, logger)
	proc := worker.NewLessonProcessor(jobRepo, store, extractor, lessonBuilder, claimer, worker.ProcessorConfig{
		Age:             cfg.Builder.Age,
		DownloadTimeout: cfg.Storage.DownloadTimeout,
		ExtractTimeout:  cfg.Worker.ExtractTimeout,
		BuildTimeout:    cfg.Worker.BuildTimeout,
		ClaimTTL:        cfg.Redis.ClaimTTL,
	}, logger)
	pool := worker.NewPool(cfg.Worker.Count, proc, logger)
	pool.Start(ctx, jobQueue)

	// ---- Gateway ----
	var auth *web.AuthManager
	if cfg.Gateway.JWTSecret != "" {
		auth = web.NewAuthManager(cfg.Gateway.JWTSecret, 24*time.Hour)
	} else if !cfg.Runtime.Dev {
		logger.Warn().Msg("gateway.jwt_secret not set; API is unauthenticated")
	}
	srv := web.NewServer(jobRepo, childRepo, jobQueue, auth, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	pool.Wait()
	if err := jobQueue.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close")
	}
}
