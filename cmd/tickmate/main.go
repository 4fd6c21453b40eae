package main

import (
	"fmt"
	"os"

	"tickmate/internal/config"
	"tickmate/internal/gateway"
	"tickmate/internal/logger"
	"tickmate/internal/notify"
	"tickmate/internal/querycache"
	"tickmate/internal/taskform"
	"tickmate/internal/tasklist"
	"tickmate/internal/taskrow"
	"tickmate/internal/ui"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A .env next to the binary is optional; real env vars win.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Development, cfg.Logging.File); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gw, err := gateway.New(cfg.BaseURL, cfg.HTTPTimeout)
	if err != nil {
		logger.Error("gateway init failed", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cache := querycache.New(querycache.Options{
		StaleTTL:        cfg.Cache.StaleTTL,
		RefreshInterval: cfg.Cache.RefreshInterval,
		MaxRetries:      cfg.Cache.MaxRetries,
		SweepInterval:   cfg.Cache.SweepInterval,
	})
	defer cache.Stop()

	hub := notify.NewHub()
	list := tasklist.New(gw, cache, hub, cfg.PageSize)
	form := taskform.New(gw, cache, hub)
	actions := taskrow.New(gw, cache, hub)

	logger.Info("tickmate starting",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("page_size", cfg.PageSize))

	if err := ui.Run(list, form, actions, hub, cache.RefreshInterval()); err != nil {
		logger.Error("ui exited with error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
