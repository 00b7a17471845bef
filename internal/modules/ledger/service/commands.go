package service

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/internal/models"

	"github.com/jackc/pgx/v5"
)

// PendingCommands возвращает команды в статусе PENDING, FIFO по времени
// создания — порядок диспетчеризации стабилен между тиками и рестартами.
func (l *Ledger) PendingCommands(ctx context.Context) (cmds []models.ChildCommand, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.PendingCommands: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Conn().Query(ctx, `
		SELECT id, signal_id, kol_name, symbol, direction, volume, price, sl, tp, status,
		       COALESCE(mt5_ticket, 0), created_at, COALESCE(error_msg, '')
		FROM command_queue
		WHERE status=$1
		ORDER BY created_at, id`,
		models.CommandPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.ChildCommand
		if err = rows.Scan(
			&c.ID, &c.SignalID, &c.KOL, &c.Symbol, &c.Direction,
			&c.Volume, &c.Price, &c.SL, &c.TP, &c.Status,
			&c.Ticket, &c.CreatedAt, &c.ErrorMsg,
		); err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, rows.Err()
}

// MarkExecuted переводит команду в терминальный EXECUTED и заполняет ticket.
// Идемпотентна: повторная отметка просто перезапишет тот же ticket, а вот
// FAILED/CANCELLED назад не оживают.
func (l *Ledger) MarkExecuted(ctx context.Context, cmdID, ticket int64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.MarkExecuted: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, e := tx.Exec(ctxTx, `
			UPDATE command_queue SET status=$1, mt5_ticket=$2
			WHERE id=$3 AND status IN ($4, $1)`,
			models.CommandExecuted, ticket, cmdID, models.CommandPending,
		)
		return e
	})
}

// MarkFailed переводит команду в терминальный FAILED с причиной дословно.
// Повторная отметка уже терминальной команды — no-op, не ошибка.
func (l *Ledger) MarkFailed(ctx context.Context, cmdID int64, reason string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.MarkFailed: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, e := tx.Exec(ctxTx, `
			UPDATE command_queue SET status=$1, error_msg=$2
			WHERE id=$3 AND status=$4`,
			models.CommandFailed, reason, cmdID, models.CommandPending,
		)
		return e
	})
}
