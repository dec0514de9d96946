package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/dealbot/core/bootstrap"
	corecmd "github.com/m3rciful/dealbot/core/cmd"
	tg "github.com/m3rciful/dealbot/core/telegram"
	"github.com/m3rciful/dealbot/core/telegram/router"
	"github.com/m3rciful/dealbot/core/telegram/state"
	"github.com/m3rciful/dealbot/core/telegram/ui"
	"github.com/m3rciful/dealbot/internal/bot"
	"github.com/m3rciful/dealbot/internal/service"
	"github.com/m3rciful/dealbot/internal/storage"
)

// App holds the composed application: infrastructure from bootstrap plus the
// dealbot handler set.
type App struct {
	cfg       *Config
	db        *sqlx.DB
	registry  *tg.Registry
	sessions  state.Manager
	fallbacks ui.FallbackProvider
}

// Bootstrap initializes logging, the database, and migrations, then wires the
// domain services into the Telegram registry.
func Bootstrap(carrier corecmd.ConfigCarrier) (*App, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	users := service.NewUsers(storage.NewSQLUsers(res.DB))
	notifications := service.NewNotifications(storage.NewSQLNotifications(res.DB))
	sessions := state.NewMemoryManager()
	reporter := &bot.Reporter{AdminID: cfg.Telegram.AdminID}

	handlers := bot.NewHandlers(users, notifications, sessions, reporter)

	registry := tg.NewRegistry()
	bot.Register(registry, handlers)
	bot.RegisterStates(handlers)

	return &App{
		cfg:       cfg,
		db:        res.DB,
		registry:  registry,
		sessions:  sessions,
		fallbacks: bot.Fallbacks(handlers),
	}, nil
}

// TelegramRunOptions assembles routes and middlewares for the shared runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()

	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{
		NotFound: a.fallbacks.UnknownCallback(),
	}))
	routes = append(routes, router.TextRoutes(a.sessions, a.registry, router.TextOptions{
		UnknownText:     a.fallbacks.UnknownText(),
		UnknownDocument: a.fallbacks.UnknownDocument(),
	})...)

	return tg.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(core, nil),
		Routes:      routes,
		OnStop: func(_ context.Context, _ tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
