package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/article-publisher/internal/cms"
	"github.com/DjordjeVuckovic/article-publisher/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type PublisherConfig struct {
	CMS            *cms.Config
	ProvidersFile  string
	RewriteWorkers int
}

func (as *AppConfig) Load() (*PublisherConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/publisher/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	cmsCfg, err := cms.LoadConfig()
	if err != nil {
		slog.Error("Failed to load CMS configuration from environment", "error", err)
		return nil, err
	}

	workers := 0
	if raw := os.Getenv("REWRITE_WORKERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			workers = n
		}
	}

	return &PublisherConfig{
		CMS:            cmsCfg,
		ProvidersFile:  os.Getenv("WEBHOOK_PROVIDERS_FILE"),
		RewriteWorkers: workers,
	}, nil
}
