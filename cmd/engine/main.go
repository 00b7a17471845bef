package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/pkg/errors"

	"github.com/13magician/kol-gold/internal/modules/config"
	"github.com/13magician/kol-gold/internal/modules/executor"
	"github.com/13magician/kol-gold/internal/modules/health"
	"github.com/13magician/kol-gold/internal/modules/ledger"
	"github.com/13magician/kol-gold/internal/modules/planner"
	"github.com/13magician/kol-gold/internal/modules/postgres"
	"github.com/13magician/kol-gold/internal/modules/venue"
	"github.com/13magician/kol-gold/internal/notify"
	"github.com/13magician/kol-gold/pkg/logger"
	"github.com/13magician/kol-gold/pkg/tracing"
)

const serviceName = "kol-gold-engine"

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(errors.Wrap(err, "init logger"))
	}
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			notify.NewTelegram,
		),
		config.Module(),
		postgres.Module(),
		ledger.Module(),
		venue.Module(),
		planner.Module(),
		executor.Module(),
		health.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Jaeger.Host == "" {
		logger.Info("ℹ️ jaeger не сконфигурирован, трейсинг в no-op режиме")
		return nil
	}

	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		return errors.Wrap(err, "init tracer")
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeTracer()
			return nil
		},
	})
	return nil
}
