package service

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// Схема повторяет контракт "影子订单簿" один в один по именам колонок:
// дашборд и отчёты читают эти таблицы напрямую.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS shadow_signals (
		id            BIGSERIAL PRIMARY KEY,
		timestamp     TIMESTAMPTZ NOT NULL DEFAULT now(),
		kol_name      TEXT NOT NULL,
		symbol        TEXT NOT NULL,
		direction     TEXT NOT NULL,
		entry_mode    TEXT NOT NULL,
		entry_price   DOUBLE PRECISION NOT NULL DEFAULT 0,
		tp_sl_config  TEXT,
		status        TEXT NOT NULL,
		cancel_time   TIMESTAMPTZ,
		cancel_reason TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS command_queue (
		id         BIGSERIAL PRIMARY KEY,
		signal_id  BIGINT,
		kol_name   TEXT NOT NULL,
		symbol     TEXT NOT NULL,
		direction  TEXT NOT NULL,
		volume     DOUBLE PRECISION NOT NULL,
		price      DOUBLE PRECISION NOT NULL DEFAULT 0,
		sl         DOUBLE PRECISION NOT NULL DEFAULT 0,
		tp         DOUBLE PRECISION NOT NULL DEFAULT 0,
		status     TEXT NOT NULL,
		mt5_ticket BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		error_msg  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS active_positions (
		ticket          BIGINT PRIMARY KEY,
		signal_id       BIGINT,
		kol_name        TEXT NOT NULL,
		symbol          TEXT NOT NULL,
		direction       TEXT NOT NULL,
		entry_price     DOUBLE PRECISION NOT NULL DEFAULT 0,
		volume          DOUBLE PRECISION NOT NULL,
		tp_goal         DOUBLE PRECISION NOT NULL DEFAULT 0,
		exit_conditions TEXT,
		status          TEXT NOT NULL,
		current_price   DOUBLE PRECISION NOT NULL DEFAULT 0,
		unrealized_pnl  DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_update     TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS settlements (
		id            BIGSERIAL PRIMARY KEY,
		signal_id     BIGINT,
		kol_name      TEXT NOT NULL,
		symbol        TEXT NOT NULL,
		direction     TEXT NOT NULL,
		volume        DOUBLE PRECISION NOT NULL,
		entry_price   DOUBLE PRECISION NOT NULL DEFAULT 0,
		exit_price    DOUBLE PRECISION NOT NULL DEFAULT 0,
		profit        DOUBLE PRECISION NOT NULL DEFAULT 0,
		close_time    TIMESTAMPTZ NOT NULL,
		hold_duration BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS execution_logs (
		id      BIGSERIAL PRIMARY KEY,
		time    TIMESTAMPTZ NOT NULL DEFAULT now(),
		action  TEXT NOT NULL,
		details TEXT
	)`,
}

// Патчи для старых инсталляций: колонок могло не быть, дотягиваем на месте.
var patchStatements = []string{
	`ALTER TABLE command_queue ADD COLUMN IF NOT EXISTS error_msg TEXT`,
	`ALTER TABLE active_positions ADD COLUMN IF NOT EXISTS signal_id BIGINT`,
	`ALTER TABLE active_positions ADD COLUMN IF NOT EXISTS tp_goal DOUBLE PRECISION NOT NULL DEFAULT 0`,
	`ALTER TABLE active_positions ADD COLUMN IF NOT EXISTS current_price DOUBLE PRECISION NOT NULL DEFAULT 0`,
	`ALTER TABLE active_positions ADD COLUMN IF NOT EXISTS unrealized_pnl DOUBLE PRECISION NOT NULL DEFAULT 0`,
	`ALTER TABLE active_positions ADD COLUMN IF NOT EXISTS last_update TIMESTAMPTZ`,
	`ALTER TABLE settlements ADD COLUMN IF NOT EXISTS signal_id BIGINT`,
	`ALTER TABLE shadow_signals ADD COLUMN IF NOT EXISTS cancel_time TIMESTAMPTZ`,
	`ALTER TABLE shadow_signals ADD COLUMN IF NOT EXISTS cancel_reason TEXT`,
}

// Migrate создаёт и самолечит схему. Вызывается один раз при старте;
// ошибка тут — повод не стартовать вовсе.
func (l *Ledger) Migrate(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.Migrate: %w", err)
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		for _, stmt := range append(append([]string{}, createStatements...), patchStatements...) {
			if _, e := tx.Exec(ctxTx, stmt); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("🛠️ [ledger] схема проверена и готова")
	return nil
}
