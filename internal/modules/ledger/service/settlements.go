package service

import (
	"context"
	"fmt"
	"time"

	"github.com/13magician/kol-gold/internal/models"

	"github.com/jackc/pgx/v5"
)

// Settle архивирует закрытую сделку и удаляет её из зеркала одной
// транзакцией. Гарантия "не больше одного расчёта на ticket": строка
// настлемента пишется только если удаление зеркала реально зацепило
// строку — повторный тик по уже расчитанному ticket ничего не сделает.
func (l *Ledger) Settle(ctx context.Context, pos models.ActivePosition, exitPrice, profit float64) (archived bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.Settle: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		tag, e := tx.Exec(ctxTx, `DELETE FROM active_positions WHERE ticket=$1`, pos.Ticket)
		if e != nil {
			return e
		}
		if tag.RowsAffected() == 0 {
			return nil // уже расчитан раньше
		}

		// срок удержания считаем от создания команды, породившей ticket
		var createdAt time.Time
		var holdSec int64
		row := tx.QueryRow(ctxTx,
			`SELECT created_at FROM command_queue WHERE mt5_ticket=$1 ORDER BY id LIMIT 1`, pos.Ticket)
		if e := row.Scan(&createdAt); e == nil {
			holdSec = int64(time.Since(createdAt).Seconds())
			if holdSec < 0 {
				holdSec = 0
			}
		}

		_, e = tx.Exec(ctxTx, `
			INSERT INTO settlements
				(signal_id, kol_name, symbol, direction, volume, entry_price, exit_price, profit, close_time, hold_duration)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), $9)`,
			pos.SignalID, pos.KOL, pos.Symbol, pos.Direction,
			pos.Volume, pos.EntryPrice, exitPrice, profit, holdSec,
		)
		if e != nil {
			return e
		}
		archived = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return archived, nil
}

// KOLPerformance — сводка по источникам для дашборда.
func (l *Ledger) KOLPerformance(ctx context.Context) (stats []models.KOLStats, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.KOLPerformance: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Conn().Query(ctx, `
		SELECT kol_name,
		       COUNT(*) AS total_trades,
		       SUM(CASE WHEN profit > 0 THEN 1 ELSE 0 END) AS win_count,
		       SUM(profit) AS total_profit,
		       AVG(profit) AS avg_profit
		FROM settlements
		GROUP BY kol_name
		ORDER BY total_profit DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.KOLStats
		if err = rows.Scan(&s.KOL, &s.TotalTrades, &s.WinCount, &s.TotalProfit, &s.AvgProfit); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// LogAction пишет строку аудита. Best-effort: падение журнала никогда не
// валит основной цикл.
func (l *Ledger) LogAction(ctx context.Context, action, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, e := tx.Exec(ctxTx,
			`INSERT INTO execution_logs (action, details) VALUES ($1, $2)`, action, details)
		return e
	})
}
