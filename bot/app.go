package bot

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/linkbot/catalog"
	"github.com/m3rciful/linkbot/core/bootstrap"
	"github.com/m3rciful/linkbot/core/logger"
	tg "github.com/m3rciful/linkbot/core/telegram"
	"github.com/m3rciful/linkbot/core/telegram/router"
	"github.com/m3rciful/linkbot/dialog"
)

// App holds the services the bot's handlers work with.
type App struct {
	cfg     *Config
	catalog *catalog.Catalog
	engine  *dialog.Engine
}

// Bootstrap initializes the logger, optional database, catalog and the
// questionnaire engine.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	cat, err := catalogProvider.ProvideTyped(context.Background(), cfg, res.DB)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		catalog: cat,
		engine:  dialog.NewEngine(dialog.NewMemoryStore(), cat),
	}, nil
}

// catalogProvider resolves the app catalog: database first, then the YAML
// file, then the built-in set. An optional source failing degrades to the
// next one and never aborts startup.
var catalogProvider = bootstrap.TypedServiceProviderFunc[*catalog.Catalog](func(ctx context.Context, rawCfg interface{}, storage bootstrap.Storage) (*catalog.Catalog, error) {
	cfg, _ := rawCfg.(*Config)
	if cfg == nil {
		return nil, fmt.Errorf("bot: unexpected config type %T", rawCfg)
	}

	if db, ok := storage.(*sqlx.DB); ok && db != nil {
		cat, err := catalog.LoadPostgres(ctx, db)
		if err == nil {
			return cat, nil
		}
		logger.SVCCatalog.Warn("catalog load failed",
			slog.String("event", "catalog.load"),
			slog.String("source", "postgres"),
			slog.String("err", err.Error()),
		)
	}

	if cfg.Catalog.Path != "" {
		cat, err := catalog.LoadYAML(cfg.Catalog.Path)
		if err == nil {
			logger.SVCCatalog.Info("catalog loaded",
				slog.String("event", "catalog.load"),
				slog.String("source", "yaml"),
				slog.String("path", cfg.Catalog.Path),
				slog.Int("apps", cat.Len()),
			)
			return cat, nil
		}
		logger.SVCCatalog.Warn("catalog load failed",
			slog.String("event", "catalog.load"),
			slog.String("source", "yaml"),
			slog.String("path", cfg.Catalog.Path),
			slog.String("err", err.Error()),
		)
	}

	cat := catalog.Builtin()
	logger.SVCCatalog.Info("catalog loaded",
		slog.String("event", "catalog.load"),
		slog.String("source", "builtin"),
		slog.Int("apps", cat.Len()),
	)
	return cat, nil
})

// TelegramRunOptions assembles the registry, middlewares and routes.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)
	reg.SetTextFallback(a.UnknownText())
	reg.SetCallbackNotFound(a.UnknownCallback())

	cfg := a.cfg.CoreConfig()

	routes := router.TextRoutes(a, reg, router.TextOptions{
		UnknownText:     a.UnknownText(),
		UnknownDocument: a.UnknownDocument(),
	})
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: a.UnknownCallback(),
	}))

	return tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
	}, nil
}
