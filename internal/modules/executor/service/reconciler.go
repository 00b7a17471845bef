package service

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/pkg/logger"
)

// ReconcileTick сверяет локальное зеркало позиций с правдой площадки.
// Три исхода на строку: жива (обновляем live-данные), ещё висит отложкой
// (не трогаем), исчезла (расчёт по истории сделок и архивация).
func (e *Executor) ReconcileTick(ctx context.Context) error {
	locals, err := e.ledger.ActivePositions(ctx)
	if err != nil {
		return fmt.Errorf("ReconcileTick: %w", err)
	}
	if len(locals) == 0 {
		return nil
	}

	// Оба снимка площадки нужны целиком: без них "отсутствие" тикета
	// неотличимо от недоступности моста, а ложная архивация необратима.
	live, err := e.venue.Positions(ctx)
	if err != nil {
		logger.Warn("⚠️ [reconcile] позиции площадки недоступны (%v), тик пропущен", err)
		return nil
	}
	pending, err := e.venue.PendingOrders(ctx)
	if err != nil {
		logger.Warn("⚠️ [reconcile] отложенные ордера недоступны (%v), тик пропущен", err)
		return nil
	}

	var unrealized float64
	for i := range locals {
		pos := locals[i]

		if vp, ok := live[pos.Ticket]; ok {
			unrealized += vp.Profit
			// entry_price дозаполняется только из нуля: исполнившаяся
			// отложка получает фактическую цену входа ровно один раз
			if err := e.ledger.RefreshPositionLive(ctx, pos.Ticket, vp.EntryPrice, vp.LastPrice, vp.Profit); err != nil {
				logger.Warn("⚠️ [reconcile] live-данные #%d не обновлены: %v", pos.Ticket, err)
			}
			continue
		}

		if _, ok := pending[pos.Ticket]; ok {
			continue // всё ещё ждёт исполнения
		}

		e.settleVanished(ctx, pos)
	}

	mtxUnrealizedPnL.Set(unrealized)
	return nil
}

// settleVanished — тикет исчез с площадки: закрылся или был снят.
// Результат берём из истории сделок; истории нет — консервативный ноль
// с пометкой, чтобы исход был отличим от честного безубытка.
func (e *Executor) settleVanished(ctx context.Context, pos models.ActivePosition) {
	deal, err := e.venue.LastDeal(ctx, pos.Ticket)
	if err != nil {
		logger.Warn("⚠️ [reconcile] история по #%d недоступна (%v), попробуем следующим тиком", pos.Ticket, err)
		return
	}

	var profit, exitPrice float64
	if deal == nil {
		logger.Warn("❓ [reconcile] #%d исчез без следа в истории, архивируем с нулевым результатом", pos.Ticket)
		e.ledger.LogAction(ctx, "ambiguous_close",
			fmt.Sprintf("ticket=%d signal=%d symbol=%s", pos.Ticket, pos.SignalID, pos.Symbol))
	} else {
		profit = deal.Net()
		exitPrice = deal.Price
	}

	archived, err := e.ledger.Settle(ctx, pos, exitPrice, profit)
	if err != nil {
		logger.Error("❌ [reconcile] расчёт #%d не записан: %v", pos.Ticket, err)
		return
	}
	if !archived {
		return // кто-то уже рассчитал этот тикет
	}

	mtxSettlements.Inc()
	logger.Info("🏁 [reconcile] #%d %s %s закрыт: %.2f", pos.Ticket, pos.Symbol, pos.Direction, profit)
	e.notifyf("🏁 %s | %s %s закрыт | результат %.2f", pos.KOL, pos.Symbol, pos.Direction, profit)

	if profit > 0 {
		e.breakEven(ctx, pos.SignalID, pos.EntryPrice)
	}
}
