package service

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxLoopTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_loop_ticks_total",
			Help: "Completed dispatch+reconcile loop ticks",
		},
	)

	mtxCommandsExecuted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_commands_executed_total",
			Help: "Child commands submitted and accepted by the venue",
		},
	)

	// kind: invalidated (pre-submission check) | rejected (venue refusal)
	mtxCommandsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_commands_failed_total",
			Help: "Child commands terminally failed",
		},
		[]string{"kind"},
	)

	mtxSettlements = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_settlements_total",
			Help: "Closed trades archived to settlements",
		},
	)

	mtxBreakEven = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_breakeven_moves_total",
			Help: "Sibling stops moved to entry after a profitable close",
		},
	)

	mtxUnrealizedPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_unrealized_pnl",
			Help: "Floating PnL across mirrored positions",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxLoopTicks, mtxCommandsExecuted, mtxCommandsFailed)
	prometheus.MustRegister(mtxSettlements, mtxBreakEven, mtxUnrealizedPnL)
}
