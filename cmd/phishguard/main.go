package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/phishguard/phishguard/internal/adapters/signals"
	"github.com/phishguard/phishguard/internal/adapters/storage"
	"github.com/phishguard/phishguard/internal/application"
	"github.com/phishguard/phishguard/internal/domain/detection"
	"github.com/phishguard/phishguard/internal/domain/ml"
	"github.com/phishguard/phishguard/internal/domain/scoring"
	"github.com/phishguard/phishguard/internal/domain/urlanalysis"
	"github.com/phishguard/phishguard/internal/ports"
	"github.com/phishguard/phishguard/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if os.Getenv("PG_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg := server.LoadConfig()

	// Model bootstrap: train from labeled CSVs when present, otherwise
	// fall back to the built-in synthetic corpus.
	urlClassifier, textClassifier := ml.BuildClassifiers(ml.BootstrapConfig{
		URLDatasetPath:  os.Getenv("PG_URL_DATASET"),
		TextDatasetPath: os.Getenv("PG_TEXT_DATASET"),
	}, logger)

	// History persistence is optional; without DATABASE_URL the service
	// runs stateless and /stats reports zero totals.
	var store ports.AnalysisStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pg, err := storage.NewPostgresStore(dbURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := pg.InitSchema(); err != nil {
			logger.Error("failed to initialize schema", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		logger.Info("analysis history enabled")
	} else {
		logger.Info("DATABASE_URL not set, running without analysis history")
	}

	svc := application.NewAnalysisService(
		logger,
		detection.NewBank(),
		urlanalysis.NewAnalyzer(),
		urlClassifier,
		textClassifier,
		scoring.NewEngine(scoring.DefaultConfig()),
		signals.NewTLSChecker(logger),
		signals.NewWhoisAgeProvider(logger),
		store,
	)

	srv := server.New(svc, cfg, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	}
}
