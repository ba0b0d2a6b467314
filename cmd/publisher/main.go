package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/article-publisher/internal/assets"
	"github.com/DjordjeVuckovic/article-publisher/internal/cms"
	"github.com/DjordjeVuckovic/article-publisher/internal/normalizer"
	"github.com/DjordjeVuckovic/article-publisher/internal/pipeline"
	"github.com/DjordjeVuckovic/article-publisher/internal/publisher"
	"github.com/DjordjeVuckovic/article-publisher/internal/rewriter"
	"github.com/DjordjeVuckovic/article-publisher/internal/router"
	"github.com/DjordjeVuckovic/article-publisher/internal/server"
	pkgserver "github.com/DjordjeVuckovic/article-publisher/pkg/server"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appCfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	cmsClient := cms.NewClient(appCfg.CMS)
	transport := assets.NewTransport(cmsClient, assets.WithFetchTimeout(appCfg.CMS.Timeout))

	rw := rewriter.New(transport, appCfg.CMS.BaseURL, rewriter.WithWorkers(appCfg.RewriteWorkers))
	pub := publisher.New(cmsClient)
	pipe := pipeline.New(normalizer.New(), rw, transport, pub)

	providers, err := router.LoadProviders(appCfg.ProvidersFile)
	if err != nil {
		slog.Error("Failed to load webhook providers", "error", err)
		os.Exit(1)
		return
	}

	health := pkgserver.FuncHealthChecker(cmsClient.Healthy)

	s := server.New(sCfg, health).
		SetupMiddlewares().
		SetupHealthChecks()

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Article Publisher is running")
	})

	webhooks := router.NewWebhookRouter(s.Echo, pipe, providers)
	webhooks.Bind()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
