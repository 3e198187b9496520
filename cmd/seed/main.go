package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/memeworks/memebuilder-back/internal/config"
	"github.com/memeworks/memebuilder-back/internal/db"
)

// Seeds the reference catalog (categories, fonts, stickers, templates).
// Safe to run more than once.
func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugar := logger.Sugar()

	cfg, err := config.NewConfig()
	if err != nil {
		sugar.Fatalw("Config load failed.", "error", err)
	}

	gdb, err := db.NewGormClient(cfg)
	if err != nil {
		sugar.Fatalw("Database connection failed.", "error", err)
	}

	if err := db.Seed(gdb, sugar); err != nil {
		sugar.Fatalw("Seeding failed.", "error", err)
	}
}
