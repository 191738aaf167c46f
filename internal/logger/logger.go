package logger

import (
	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/pkg/config"
)

func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
