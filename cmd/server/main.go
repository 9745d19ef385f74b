package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4/pgxpool"

	httpadapter "resume-tailor/internal/adapter/http"
	repo "resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/config"
	"resume-tailor/internal/infrastructure/migration"
	"resume-tailor/internal/render"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/ai"
	"resume-tailor/pkg/extract"
	infra "resume-tailor/pkg/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the database is optional: without it records are not persisted
	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = infra.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			slog.Warn("resumes DB not available", "error", err)
			pool = nil
		} else {
			defer pool.Close()
			if err := migration.RunMigrations(ctx, pool); err != nil {
				slog.Error("migrations failed", "error", err)
				os.Exit(1)
			}
		}
	}

	tpls, err := render.Load(cfg.Render.TemplatesDir)
	if err != nil {
		slog.Error("load templates", "dir", cfg.Render.TemplatesDir, "error", err)
		os.Exit(1)
	}

	svc := usecase.NewService(
		newGenerator(cfg.AI),
		repo.NewResumesRepo(pool),
		infra.NewChromedpRenderer(cfg.Render.ChromePath),
		tpls,
		extract.Text,
	)

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
	})
	httpadapter.NewHandler(svc).Register(app)

	go func() {
		slog.Info("server listening", "port", cfg.Server.Port, "ai_provider", cfg.AI.Provider, "templates", tpls.Names())
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func newGenerator(cfg config.AIConfig) ai.Generator {
	if strings.EqualFold(cfg.Provider, config.ProviderOpenAI) {
		return ai.NewOpenAIClient(cfg.OpenAIKey, cfg.Model, cfg.Language)
	}
	return ai.NewServiceClient(cfg.ServiceURL, cfg.Language)
}
