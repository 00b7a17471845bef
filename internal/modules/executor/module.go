package executor

import (
	"context"

	"go.uber.org/fx"

	"github.com/13magician/kol-gold/internal/modules/config"
	"github.com/13magician/kol-gold/internal/modules/executor/service"
	healthsvc "github.com/13magician/kol-gold/internal/modules/health/service"
	ledgersvc "github.com/13magician/kol-gold/internal/modules/ledger/service"
	venuesvc "github.com/13magician/kol-gold/internal/modules/venue/service"
	"github.com/13magician/kol-gold/internal/notify"
)

func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(
			func(c *venuesvc.Client) service.Venue { return c },
			func(l *ledgersvc.Ledger) service.Ledger { return l },
			func(t *notify.Telegram) service.Notifier { return t },
			service.New,
		),
		fx.Invoke(runLoop),
	)
}

// runLoop запускает главный цикл и гарантирует, что остановка дождётся
// завершения текущего тика.
func runLoop(lc fx.Lifecycle, e *service.Executor, cfg *config.Config, state *healthsvc.State) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				e.Run(ctx, cfg.TickInterval, state)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
