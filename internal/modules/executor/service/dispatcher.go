package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/13magician/kol-gold/internal/helper"
	"github.com/13magician/kol-gold/internal/models"
	venuesvc "github.com/13magician/kol-gold/internal/modules/venue/service"
	"github.com/13magician/kol-gold/pkg/logger"
)

// DispatchTick прогоняет все PENDING-команды через конвейер проверок и
// отправку. Порядок строго FIFO по времени создания. Ошибка одной
// команды никогда не валит тик: транзиент — пропуск до следующего тика,
// отказ площадки — терминальный FAILED.
func (e *Executor) DispatchTick(ctx context.Context) error {
	cmds, err := e.ledger.PendingCommands(ctx)
	if err != nil {
		return fmt.Errorf("DispatchTick: %w", err)
	}

	for i := range cmds {
		e.dispatchOne(ctx, cmds[i])
	}
	return nil
}

func (e *Executor) dispatchOne(ctx context.Context, cmd models.ChildCommand) {
	// 1. Котировка. Нет котировки — транзиент, команда остаётся PENDING.
	quote, err := e.venue.Quote(ctx, cmd.Symbol)
	if err != nil {
		logger.Warn("⚠️ [dispatch] #%d %s: нет котировки (%v), пропуск до следующего тика", cmd.ID, cmd.Symbol, err)
		return
	}

	direction := cmd.Direction
	price := cmd.Price

	// 2. Инвалидация: цена уже пробила стоп — тезис сигнала мёртв,
	// исполнять бессмысленно и опасно.
	if cmd.SL > 0 {
		if helper.IsBuy(direction) && quote.Bid <= cmd.SL {
			e.fail(ctx, cmd, fmt.Sprintf("стоп уже пробит: bid %.2f <= SL %.2f", quote.Bid, cmd.SL), "invalidated")
			return
		}
		if helper.IsSell(direction) && quote.Ask >= cmd.SL {
			e.fail(ctx, cmd, fmt.Sprintf("стоп уже пробит: ask %.2f >= SL %.2f", quote.Ask, cmd.SL), "invalidated")
			return
		}
	}

	// 3. Оппортунистическая конверсия: цена ушла лучше лимита, а стоп
	// ещё в безопасности — берём рынок сейчас, а не ждём отката.
	// Без стопа конверсии нет: рыночный вход без страховки не берём.
	if !helper.IsMarket(direction) && price > 0 && cmd.SL > 0 {
		if helper.IsBuy(direction) && price > quote.Ask && cmd.SL < quote.Bid {
			logger.Info("⚡️ [dispatch] #%d: лимит %.2f выше ask %.2f, конверсия в рыночный BUY", cmd.ID, price, quote.Ask)
			direction = helper.MarketVariant(direction)
			price = 0
		} else if helper.IsSell(direction) && price < quote.Bid && cmd.SL > quote.Ask {
			logger.Info("⚡️ [dispatch] #%d: лимит %.2f ниже bid %.2f, конверсия в рыночный SELL", cmd.ID, price, quote.Bid)
			direction = helper.MarketVariant(direction)
			price = 0
		}
	}

	// 4. Переклассификация типа: стоп-ордер с триггером по неверную
	// сторону рынка ведёт себя как лимит — делаем его лимитом. Обратную
	// замену (лимит -> стоп) не делаем никогда: вход на откате не должен
	// превращаться во вход на пробое.
	if helper.IsStop(direction) {
		if helper.IsBuy(direction) && price <= quote.Ask {
			logger.Info("🔁 [dispatch] #%d: BUY_STOP %.2f не выше ask %.2f, переклассификация в BUY_LIMIT", cmd.ID, price, quote.Ask)
			direction = helper.LimitVariant(direction)
		} else if helper.IsSell(direction) && price >= quote.Bid {
			logger.Info("🔁 [dispatch] #%d: SELL_STOP %.2f не ниже bid %.2f, переклассификация в SELL_LIMIT", cmd.ID, price, quote.Bid)
			direction = helper.LimitVariant(direction)
		}
	}

	// 5. Санити стопа относительно фактической опорной цены.
	base := price
	if helper.IsMarket(direction) {
		if helper.IsBuy(direction) {
			base = quote.Ask
		} else {
			base = quote.Bid
		}
	}
	if cmd.SL > 0 {
		if helper.IsBuy(direction) && cmd.SL >= base {
			e.fail(ctx, cmd, fmt.Sprintf("стоп по неверную сторону: SL %.2f >= цены входа %.2f для покупки", cmd.SL, base), "invalidated")
			return
		}
		if helper.IsSell(direction) && cmd.SL <= base {
			e.fail(ctx, cmd, fmt.Sprintf("стоп по неверную сторону: SL %.2f <= цены входа %.2f для продажи", cmd.SL, base), "invalidated")
			return
		}
	}

	// 6. Отправка. Отказ площадки терминален и никогда не ретраится:
	// отклонённая команда пере-выпускается только выше по течению.
	submitPrice := price
	if helper.IsMarket(direction) {
		submitPrice = 0
	}
	tag := fmt.Sprintf("Sig_%d", cmd.SignalID)

	ticket, err := e.venue.Submit(ctx, cmd.Symbol, direction, cmd.Volume, submitPrice, cmd.SL, cmd.TP, tag)
	if err != nil {
		var rej *venuesvc.Rejection
		if errors.As(err, &rej) {
			e.fail(ctx, cmd, rej.Reason, "rejected")
			return
		}
		// транспортная ошибка — транзиент, повторим следующим тиком
		logger.Warn("⚠️ [dispatch] #%d %s: площадка недоступна (%v), пропуск", cmd.ID, cmd.Symbol, err)
		return
	}

	if err := e.ledger.MarkExecuted(ctx, cmd.ID, ticket); err != nil {
		// тикет уже существует на площадке, потеря отметки хуже дубля лога
		logger.Error("❌ [dispatch] #%d исполнен (ticket=%d), но отметка не записана: %v", cmd.ID, ticket, err)
		return
	}

	// зеркало позиции; entry_price=0 — дозаполнит реконсайлер по факту
	exits := make([]models.ExitCondition, 0, 2)
	if cmd.TP > 0 {
		exits = append(exits, models.ExitCondition{Type: "TP", Price: cmd.TP})
	}
	if cmd.SL > 0 {
		exits = append(exits, models.ExitCondition{Type: "SL", Price: cmd.SL})
	}
	pos := models.ActivePosition{
		Ticket:     ticket,
		SignalID:   cmd.SignalID,
		KOL:        cmd.KOL,
		Symbol:     cmd.Symbol,
		Direction:  direction,
		EntryPrice: 0,
		Volume:     cmd.Volume,
		TPGoal:     cmd.TP,
		Exits:      exits,
		Status:     "ACTIVE",
		LastUpdate: time.Now(),
	}
	if err := e.ledger.UpsertPosition(ctx, pos); err != nil {
		logger.Error("❌ [dispatch] зеркало позиции #%d не записано: %v", ticket, err)
	}

	mtxCommandsExecuted.Inc()
	logger.Info("✅ [dispatch] #%d: %s %s %.2f лота -> ticket %d", cmd.ID, cmd.Symbol, direction, cmd.Volume, ticket)
	e.notifyf("✅ %s | %s %s %.2f лота | SL %.2f TP %.2f | ticket %d",
		cmd.KOL, cmd.Symbol, direction, cmd.Volume, cmd.SL, cmd.TP, ticket)
	e.ledger.LogAction(ctx, "order_executed",
		fmt.Sprintf("cmd=%d ticket=%d symbol=%s direction=%s volume=%.2f", cmd.ID, ticket, cmd.Symbol, direction, cmd.Volume))
}

// fail переводит команду в терминальный FAILED с человекочитаемой причиной.
func (e *Executor) fail(ctx context.Context, cmd models.ChildCommand, reason, kind string) {
	if err := e.ledger.MarkFailed(ctx, cmd.ID, reason); err != nil {
		logger.Error("❌ [dispatch] #%d: не удалось пометить FAILED: %v", cmd.ID, err)
		return
	}
	mtxCommandsFailed.WithLabelValues(kind).Inc()
	logger.Warn("🚫 [dispatch] #%d %s %s: %s", cmd.ID, cmd.Symbol, cmd.Direction, reason)
	e.notifyf("🚫 %s | %s %s отклонена: %s", cmd.KOL, cmd.Symbol, cmd.Direction, reason)
	e.ledger.LogAction(ctx, "order_failed", fmt.Sprintf("cmd=%d reason=%s", cmd.ID, reason))
}
