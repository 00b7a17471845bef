package service

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/pkg/logger"
)

// HandleDecision превращает решение KOL в план: родительский сигнал плюс
// дочерние команды, одна нога на каждый тейк. FLAT гасит все намерения
// источника. Ошибка здесь означает, что план НЕ записан — ничего
// частичного в леджере не остаётся.
func (p *Planner) HandleDecision(ctx context.Context, d *models.Decision) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Planner.HandleDecision: %w", err)
		}
	}()

	if d.Direction == models.DecisionFlat {
		return p.Flatten(ctx, d.KOL, d.Symbol, "инструкция FLAT от источника")
	}

	// 强制风控: вход без стопа не принимаем вообще
	if d.SL <= 0 {
		return fmt.Errorf("решение %s %s %s без стоп-лосса отклонено", d.KOL, d.Symbol, d.Direction)
	}

	side, err := baseDirection(d.Direction)
	if err != nil {
		return err
	}

	quote, err := p.venue.Quote(ctx, d.Symbol)
	if err != nil {
		return fmt.Errorf("нет котировки %s: %w", d.Symbol, err)
	}

	// опорная цена: для рынка — текущая сторона входа, для отложки — цена решения
	entry := d.EntryPrice
	if d.EntryMode == models.EntryMarket || entry == 0 {
		if side == models.DirBuy {
			entry = quote.Ask
		} else {
			entry = quote.Bid
		}
	}

	spec, err := p.venue.ContractSpec(ctx, d.Symbol)
	if err != nil {
		logger.Warn("⚠️ [planner] спецификация %s недоступна (%v), sizing уйдёт в страховочный лот", d.Symbol, err)
		spec = models.ContractSpec{}
	}

	balance, err := p.venue.Balance(ctx)
	if err != nil {
		logger.Warn("⚠️ [planner] баланс недоступен (%v), sizing уйдёт в страховочный лот", err)
		balance = 0
	}

	snap := p.money.Snapshot()
	totalLots := CalcLots(snap, d.KOL, d.Symbol, entry, d.SL, balance, spec)

	step := spec.VolumeStep
	if step <= 0 {
		step = snap.MinLots
	}
	legs := SplitPlan(totalLots, d.TPs, step)
	if len(legs) == 0 {
		return fmt.Errorf("нулевой объём после разбивки (%.4f лота)", totalLots)
	}

	sig := &models.ParentSignal{
		KOL:        d.KOL,
		Symbol:     d.Symbol,
		Direction:  side,
		EntryMode:  d.EntryMode,
		EntryPrice: d.EntryPrice,
		SL:         d.SL,
		TPs:        d.TPs,
	}

	cmds := make([]models.ChildCommand, 0, len(legs))
	for _, leg := range legs {
		cmd := models.ChildCommand{
			KOL:       d.KOL,
			Symbol:    d.Symbol,
			Direction: side,
			Volume:    leg.Volume,
			SL:        d.SL,
			TP:        leg.TP,
		}
		if d.EntryMode == models.EntryPending && d.EntryPrice > 0 {
			cmd.Direction = pendingVariant(side, d.EntryPrice, quote)
			cmd.Price = d.EntryPrice
		}
		cmds = append(cmds, cmd)
	}

	id, err := p.ledger.CreatePlan(ctx, sig, cmds)
	if err != nil {
		return err
	}

	logger.Info("📝 [planner] план #%d: %s %s %s, %.2f лота на %d ног (стоп %.2f)",
		id, d.KOL, d.Symbol, side, totalLots, len(cmds), d.SL)
	p.ledger.LogAction(ctx, "plan_created",
		fmt.Sprintf("signal=%d kol=%s symbol=%s side=%s lots=%.2f legs=%d", id, d.KOL, d.Symbol, side, totalLots, len(cmds)))
	return nil
}

// Flatten гасит все незакрытые намерения источника по символу: локальные
// статусы уходят в CANCELLED, а ещё висящие на площадке отложенные ордера
// этих планов снимаются (同步挂单状态). Живые позиции не трогаем.
func (p *Planner) Flatten(ctx context.Context, kol, symbol, reason string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Planner.Flatten: %w", err)
		}
	}()

	tickets, err := p.ledger.CancelPlans(ctx, kol, symbol, reason)
	if err != nil {
		return err
	}
	logger.Info("🧹 [planner] FLAT %s %s: локальные планы погашены, тикетов на проверку: %d", kol, symbol, len(tickets))

	if len(tickets) == 0 {
		return nil
	}

	pending, err := p.venue.PendingOrders(ctx)
	if err != nil {
		// снять отложки не смогли — локальная отмена уже состоялась, не откатываем
		logger.Warn("⚠️ [planner] отложенные ордера недоступны (%v), sweep пропущен", err)
		return nil
	}

	for _, ticket := range tickets {
		if _, ok := pending[ticket]; !ok {
			continue
		}
		if e := p.venue.CancelOrder(ctx, ticket); e != nil {
			logger.Warn("⚠️ [planner] не снят отложенный #%d: %v", ticket, e)
			continue
		}
		logger.Info("🗑 [planner] отложенный #%d снят по FLAT", ticket)
		p.ledger.LogAction(ctx, "order_cancelled", fmt.Sprintf("ticket=%d kol=%s reason=%s", ticket, kol, reason))
	}
	return nil
}

func baseDirection(decision string) (string, error) {
	switch decision {
	case models.DecisionLong:
		return models.DirBuy, nil
	case models.DecisionShort:
		return models.DirSell, nil
	default:
		return "", fmt.Errorf("неизвестное направление решения: %q", decision)
	}
}

// pendingVariant выбирает тип отложки по положению цены входа относительно
// рынка: вход "лучше рынка" — лимит, "хуже рынка" (пробой) — стоп.
func pendingVariant(side string, entry float64, q models.Quote) string {
	if side == models.DirBuy {
		if entry <= q.Ask {
			return models.DirBuyLimit
		}
		return models.DirBuyStop
	}
	if entry >= q.Bid {
		return models.DirSellLimit
	}
	return models.DirSellStop
}
