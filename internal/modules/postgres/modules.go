package postgres

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/internal/modules/config"
	"github.com/13magician/kol-gold/pkg/db"

	"go.uber.org/fx"
)

// Module поднимает пул к Postgres. Недоступная база при старте — фатал,
// движок без леджера не имеет права тихо деградировать.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster), nil
			},
		),
	)
}
