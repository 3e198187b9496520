package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/memeworks/memebuilder-back/internal/cache"
	"github.com/memeworks/memebuilder-back/internal/config"
	"github.com/memeworks/memebuilder-back/internal/db"
	"github.com/memeworks/memebuilder-back/internal/service"
	"github.com/memeworks/memebuilder-back/internal/transport"
)

func NewLogger() (*zap.SugaredLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func main() {
	// Missing .env is fine; real deployments configure through the
	// environment directly.
	_ = godotenv.Load()

	fx.New(
		fx.Provide(
			NewLogger,
			config.NewConfig,
		),
		db.Module,
		cache.Module,
		service.Module,
		transport.Module,
		fx.Invoke(func(*transport.HTTPServer) {}),
	).Run()
}
