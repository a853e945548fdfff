package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"recap/internal/config"
	httpapi "recap/internal/http"
	"recap/internal/logger"
	"recap/internal/repository"
	"recap/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("config error")
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store error")
	}
	defer store.Close()

	svc := service.New(store, cfg.FuzzyThreshold, log)
	handler := httpapi.NewHandler(svc, cfg.MaxUploadBytes())
	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		UploadRate:  cfg.UploadRatePerSec,
		UploadBurst: cfg.UploadBurst,
	})

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("driver", cfg.StoreDriver).Msg("recap listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("force close failed")
		}
	}
}
