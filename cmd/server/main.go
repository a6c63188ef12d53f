package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Keithsel/kien-quoc-sub001/internal/archive"
	"github.com/Keithsel/kien-quoc-sub001/internal/auth"
	"github.com/Keithsel/kien-quoc-sub001/internal/config"
	"github.com/Keithsel/kien-quoc-sub001/internal/httpapi"
	"github.com/Keithsel/kien-quoc-sub001/internal/hub"
	"github.com/Keithsel/kien-quoc-sub001/internal/store"
)

func main() {
	_ = godotenv.Load()
	settings := config.LoadSettings()

	var logger *zap.Logger
	var err error
	if settings.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	deps := hub.Deps{
		Logger:   logger,
		Tokens:   auth.NewTokens(settings.HostSecret),
		FillBots: settings.BotFill,
	}

	if settings.SnapshotDir != "" {
		fs, err := store.NewFileStore(settings.SnapshotDir)
		if err != nil {
			logger.Fatal("snapshot store", zap.Error(err))
		}
		deps.Snapshots = fs
	}
	if settings.DatabaseURL != "" {
		ar, err := archive.Open(settings.DatabaseURL)
		if err != nil {
			logger.Fatal("archive database", zap.Error(err))
		}
		deps.Archive = ar
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, deps)

	handler := httpapi.SetupRoutes(h, logger)

	logger.Info("listening", zap.String("addr", settings.Addr))
	if err := http.ListenAndServe(settings.Addr, handler); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
