package planner

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/13magician/kol-gold/internal/modules/config"
	ledgersvc "github.com/13magician/kol-gold/internal/modules/ledger/service"
	"github.com/13magician/kol-gold/internal/modules/planner/service"
	venuesvc "github.com/13magician/kol-gold/internal/modules/venue/service"
	"github.com/13magician/kol-gold/pkg/logger"
)

// RunHTTP поднимает intake-вебхук на сервисном порту.
func RunHTTP(lc fx.Lifecycle, cfg *config.Config, p *service.Planner) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           service.NewMux(p),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("🌐 [planner] intake-вебхук слушает %s", addr)
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("planner",
		fx.Provide(
			func(c *venuesvc.Client) service.Venue { return c },
			func(l *ledgersvc.Ledger) service.Ledger { return l },
			service.New,
		),
		fx.Invoke(RunHTTP),
	)
}
