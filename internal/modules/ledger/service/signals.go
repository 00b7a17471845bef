package service

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/internal/models"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

type tpSLConfig struct {
	SL  float64   `json:"sl"`
	TPs []float64 `json:"tps"`
}

// CreatePlan записывает родительский сигнал и все его дочерние команды
// одной транзакцией: либо план есть целиком, либо его нет.
func (l *Ledger) CreatePlan(
	ctx context.Context,
	sig *models.ParentSignal,
	cmds []models.ChildCommand,
) (signalID int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.CreatePlan: %w", err)
		}
	}()

	var cfg []byte
	cfg, err = sonic.Marshal(tpSLConfig{SL: sig.SL, TPs: sig.TPs})
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctxTx, `
			INSERT INTO shadow_signals (kol_name, symbol, direction, entry_mode, entry_price, tp_sl_config, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			sig.KOL, sig.Symbol, sig.Direction, sig.EntryMode, sig.EntryPrice, string(cfg), models.SignalAwaitingExecution,
		)
		if e := row.Scan(&signalID); e != nil {
			return e
		}

		for i := range cmds {
			_, e := tx.Exec(ctxTx, `
				INSERT INTO command_queue (signal_id, kol_name, symbol, direction, volume, price, sl, tp, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				signalID, cmds[i].KOL, cmds[i].Symbol, cmds[i].Direction,
				cmds[i].Volume, cmds[i].Price, cmds[i].SL, cmds[i].TP, models.CommandPending,
			)
			if e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return signalID, nil
}

// CancelPlans гасит все незакрытые намерения KOL по символу (symbol="ALL" —
// по всем): сигналы уходят в CANCELLED, неотправленные команды — в
// терминальный CANCELLED без похода на площадку. Возвращает тикеты из
// зеркала активных позиций — их отложенные ордера сметёт вызывающая
// сторона.
func (l *Ledger) CancelPlans(ctx context.Context, kol, symbol, reason string) (tickets []int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.CancelPlans: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	all := symbol == "" || symbol == "ALL"

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, e := tx.Exec(ctxTx, `
			UPDATE shadow_signals
			SET status=$1, cancel_time=now(), cancel_reason=$2
			WHERE kol_name=$3 AND ($4 OR symbol=$5) AND status=$6`,
			models.SignalCancelled, reason, kol, all, symbol, models.SignalAwaitingExecution,
		)
		if e != nil {
			return e
		}

		_, e = tx.Exec(ctxTx, `
			UPDATE command_queue
			SET status=$1, error_msg=$2
			WHERE kol_name=$3 AND ($4 OR symbol=$5) AND status=$6`,
			models.CommandCancelled, reason, kol, all, symbol, models.CommandPending,
		)
		if e != nil {
			return e
		}

		rows, e := tx.Query(ctxTx, `
			SELECT ticket FROM active_positions
			WHERE kol_name=$1 AND ($2 OR symbol=$3)`,
			kol, all, symbol,
		)
		if e != nil {
			return e
		}
		defer rows.Close()

		for rows.Next() {
			var t int64
			if e := rows.Scan(&t); e != nil {
				return e
			}
			tickets = append(tickets, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
