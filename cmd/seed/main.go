// Package main bulk-loads a superlative catalog from a JSON file, so the
// question list can be prepared offline and loaded before the event.
//
// Usage:
//
//	seed -file superlatives.json [-wipe]
//
// The file is an array of {"title": ..., "nominees": [{"name": ..., "image_ref": ...}]}.
// With -wipe the existing catalog (and, by cascade, its votes) is removed first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gradnight/superlatives/config"
	"github.com/gradnight/superlatives/internal/models"
	"github.com/gradnight/superlatives/internal/superlatives"
	"github.com/gradnight/superlatives/pkg/database"
)

type seedEntry struct {
	Title    string           `json:"title"`
	Nominees []models.Nominee `json:"nominees"`
}

func main() {
	file := flag.String("file", "superlatives.json", "path to the catalog JSON file")
	wipe := flag.Bool("wipe", false, "delete the existing catalog before loading")
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("read seed file", zap.Error(err))
	}
	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Fatal("parse seed file", zap.Error(err))
	}
	if len(entries) == 0 {
		logger.Fatal("seed file contains no superlatives")
	}
	for i, e := range entries {
		if e.Title == "" || len(e.Nominees) == 0 {
			logger.Fatal("invalid seed entry: title and at least one nominee required", zap.Int("index", i))
		}
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	if *wipe {
		if _, err := pool.Exec(ctx, `DELETE FROM superlatives`); err != nil {
			logger.Fatal("wipe catalog", zap.Error(err))
		}
		logger.Info("existing catalog wiped")
	}

	repo := superlatives.NewRepository(pool)
	for _, e := range entries {
		s, err := repo.Create(ctx, e.Title, e.Nominees)
		if err != nil {
			logger.Fatal("create superlative", zap.String("title", e.Title), zap.Error(err))
		}
		logger.Info("superlative loaded",
			zap.String("id", s.ID.String()),
			zap.String("title", s.Title),
			zap.Int("nominees", len(s.Nominees)))
	}
	logger.Info("seed complete", zap.Int("count", len(entries)))
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
