package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mood-reference-agent/internal/api"
	"mood-reference-agent/internal/config"
	"mood-reference-agent/internal/service"
	"mood-reference-agent/internal/storage"
	"mood-reference-agent/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	store, err := storage.NewStore(cfg.DataPath)
	if err != nil {
		logger.Error("init store", "path", cfg.DataPath, "err", err)
		os.Exit(1)
	}

	hub := ws.NewSessionHub(logger)
	moodSvc := service.NewMoodService(cfg, store, hub, logger)

	router := api.NewRouter(cfg, moodSvc, hub, logger)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			"addr", cfg.ListenAddr,
			"palette_method", cfg.PaletteMethod,
			"surface", cfg.PaletteSurfaceSize,
			"max_concurrent", cfg.AnalysisMaxConcurrent,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	if err := store.Save(); err != nil {
		logger.Error("final save", "err", err)
	}
}
