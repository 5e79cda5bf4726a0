package main

import (
	"log/slog"
	"os"

	"github.com/alejandrodnm/leaguemarket/config"
	"github.com/shopspring/decimal"
)

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func applyCapital(cfg *config.Config, v string) error {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return err
	}
	cfg.Strategy.StartingCapital = d
	return nil
}
