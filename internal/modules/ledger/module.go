package ledger

import (
	"context"

	"github.com/13magician/kol-gold/internal/modules/ledger/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("ledger",
		fx.Provide(
			service.New, // *service.Ledger
		),
		// Миграция до старта циклов: движок без схемы не стартует.
		fx.Invoke(func(lc fx.Lifecycle, l *service.Ledger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return l.Migrate(ctx)
				},
			})
		}),
	)
}
