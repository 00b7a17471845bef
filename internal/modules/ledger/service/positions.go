package service

import (
	"context"
	"fmt"
	"time"

	"github.com/13magician/kol-gold/internal/models"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

const selectPositionColumns = `
	SELECT ticket, COALESCE(signal_id, 0), kol_name, symbol, direction,
	       entry_price, volume, tp_goal, COALESCE(exit_conditions, ''), status,
	       current_price, unrealized_pnl, COALESCE(last_update, 'epoch'::timestamptz)
	FROM active_positions`

// ActivePositions возвращает всё зеркало живых ордеров/позиций.
func (l *Ledger) ActivePositions(ctx context.Context) (positions []models.ActivePosition, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.ActivePositions: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.queryPositions(ctx, selectPositionColumns+` ORDER BY ticket`)
}

// SiblingPositions — живые ноги одного родительского сигнала.
func (l *Ledger) SiblingPositions(ctx context.Context, signalID int64) (positions []models.ActivePosition, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.SiblingPositions: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.queryPositions(ctx, selectPositionColumns+` WHERE signal_id=$1 ORDER BY ticket`, signalID)
}

func (l *Ledger) queryPositions(ctx context.Context, sql string, args ...any) ([]models.ActivePosition, error) {
	rows, err := l.db.Conn().Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivePosition
	for rows.Next() {
		var p models.ActivePosition
		var exits string
		if err := rows.Scan(
			&p.Ticket, &p.SignalID, &p.KOL, &p.Symbol, &p.Direction,
			&p.EntryPrice, &p.Volume, &p.TPGoal, &exits, &p.Status,
			&p.CurrentPrice, &p.UnrealizedPnL, &p.LastUpdate,
		); err != nil {
			return nil, err
		}
		if exits != "" {
			// битый JSON не повод терять строку
			_ = sonic.UnmarshalString(exits, &p.Exits)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertPosition регистрирует живой ордер по ticket (повторная запись того
// же ticket перезаписывает строку, как INSERT OR REPLACE в оригинале).
func (l *Ledger) UpsertPosition(ctx context.Context, p models.ActivePosition) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.UpsertPosition: %w", err)
		}
	}()

	var exits []byte
	exits, err = sonic.Marshal(p.Exits)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, e := tx.Exec(ctxTx, `
			INSERT INTO active_positions
				(ticket, signal_id, kol_name, symbol, direction, entry_price, volume, tp_goal, exit_conditions, status, last_update)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
			ON CONFLICT (ticket) DO UPDATE SET
				signal_id=EXCLUDED.signal_id, kol_name=EXCLUDED.kol_name,
				symbol=EXCLUDED.symbol, direction=EXCLUDED.direction,
				entry_price=EXCLUDED.entry_price, volume=EXCLUDED.volume,
				tp_goal=EXCLUDED.tp_goal, exit_conditions=EXCLUDED.exit_conditions,
				status=EXCLUDED.status, last_update=now()`,
			p.Ticket, p.SignalID, p.KOL, p.Symbol, p.Direction,
			p.EntryPrice, p.Volume, p.TPGoal, string(exits), p.Status,
		)
		return e
	})
}

// RefreshPositionLive обновляет реал-тайм поля строки. Нулевая entry_price
// (отложка ещё не исполнилась на момент регистрации) дозаполняется, уже
// известная цена входа не перетирается.
func (l *Ledger) RefreshPositionLive(ctx context.Context, ticket int64, entryPrice, currentPrice, unrealized float64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.RefreshPositionLive: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, e := tx.Exec(ctxTx, `
			UPDATE active_positions
			SET current_price=$1,
			    unrealized_pnl=$2,
			    last_update=$3,
			    entry_price=CASE WHEN entry_price=0 THEN $4 ELSE entry_price END
			WHERE ticket=$5`,
			currentPrice, unrealized, time.Now(), entryPrice, ticket,
		)
		return e
	})
}
