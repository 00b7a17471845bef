package venue

import (
	"context"

	"go.uber.org/fx"

	healthsvc "github.com/13magician/kol-gold/internal/modules/health/service"
	"github.com/13magician/kol-gold/internal/modules/venue/service"
)

// Module поднимает клиента моста MT5 и фоновый поток котировок.
func Module() fx.Option {
	return fx.Module("venue",
		fx.Provide(service.NewClient),
		fx.Invoke(runQuoteStream),
	)
}

func runQuoteStream(lc fx.Lifecycle, c *service.Client, state *healthsvc.State) {
	c.OnStreamState(state.SetStreamConnected)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				c.StreamQuotes(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
