package service

import (
	"context"
	"time"

	"github.com/13magician/kol-gold/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// HealthState — ровно то, что циклу нужно сообщать health-модулю.
type HealthState interface {
	SetReady(bool)
	TouchTick(time.Time)
}

// Run — главный цикл: dispatch, затем reconcile, затем сон. Строго
// последовательно, параллельных тиков не бывает — sizing и безубыток
// читают и меняют общее состояние и гоняться не должны. Остановка
// обязана дождаться текущего тика: рваных записей не оставляем.
func (e *Executor) Run(ctx context.Context, interval time.Duration, state HealthState) {
	logger.Info("▶️ движок запущен, каденс %s", interval)
	state.SetReady(true)
	defer state.SetReady(false)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("⏹ движок остановлен")
			return
		case <-ticker.C:
			// тик работает на собственном контексте: отмена цикла не
			// должна рвать уже начатые записи и запросы к площадке
			e.tick(context.Background())
			state.TouchTick(time.Now())
		}
	}
}

func (e *Executor) tick(ctx context.Context) {
	// паника одной итерации не имеет права убить цикл
	defer func() {
		if r := recover(); r != nil {
			logger.Error("❌ [tick] паника: %v", r)
		}
	}()

	span := opentracing.StartSpan("engine.tick")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	dspan, dctx := opentracing.StartSpanFromContext(ctx, "engine.dispatch")
	if err := e.DispatchTick(dctx); err != nil {
		logger.Error("❌ %v", err)
	}
	dspan.Finish()

	rspan, rctx := opentracing.StartSpanFromContext(ctx, "engine.reconcile")
	if err := e.ReconcileTick(rctx); err != nil {
		logger.Error("❌ %v", err)
	}
	rspan.Finish()

	mtxLoopTicks.Inc()
}
