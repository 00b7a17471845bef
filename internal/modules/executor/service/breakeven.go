package service

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/pkg/logger"
)

// breakEven двигает стопы оставшихся ног сигнала на общую цену входа:
// одна нога уже забрала прибыль, остальные больше не имеют права уйти
// в минус. Fire-and-forget: отказ площадки по одной ноге логируется и
// не ретраится в этом тике.
func (e *Executor) breakEven(ctx context.Context, signalID int64, entry float64) {
	if entry <= 0 {
		logger.Warn("⚠️ [breakeven] сигнал %d: цена входа неизвестна, стопы не трогаем", signalID)
		return
	}

	siblings, err := e.ledger.SiblingPositions(ctx, signalID)
	if err != nil {
		logger.Error("❌ [breakeven] сигнал %d: соседние ноги не прочитаны: %v", signalID, err)
		return
	}
	if len(siblings) == 0 {
		return // группа закрыта целиком
	}

	moved := 0
	for _, sib := range siblings {
		if err := e.venue.ModifyStop(ctx, sib.Ticket, entry); err != nil {
			logger.Warn("⚠️ [breakeven] стоп #%d не передвинут на %.2f: %v", sib.Ticket, entry, err)
			continue
		}
		moved++
		mtxBreakEven.Inc()
		logger.Info("🛡 [breakeven] #%d: стоп передвинут на вход %.2f", sib.Ticket, entry)
		e.ledger.LogAction(ctx, "breakeven",
			fmt.Sprintf("ticket=%d signal=%d new_sl=%.2f", sib.Ticket, signalID, entry))
	}

	if moved > 0 {
		e.notifyf("🛡 Безубыток: %d из %d ног сигнала %d переведены на вход %.2f", moved, len(siblings), signalID, entry)
	}
}
