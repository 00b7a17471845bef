package service

import (
	"context"

	"github.com/13magician/kol-gold/internal/models"
)

// Venue — всё, что движку нужно от моста MT5. Площадка авторитетна:
// мы читаем её состояние и просим изменений, но правда всегда у неё.
type Venue interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	Submit(ctx context.Context, symbol, direction string, volume, price, sl, tp float64, tag string) (int64, error)
	ModifyStop(ctx context.Context, ticket int64, newSL float64) error
	Positions(ctx context.Context) (map[int64]models.VenuePosition, error)
	PendingOrders(ctx context.Context) (map[int64]models.VenueOrder, error)
	LastDeal(ctx context.Context, ticket int64) (*models.Deal, error)
}

// Ledger — локальный журнал намерений.
type Ledger interface {
	PendingCommands(ctx context.Context) ([]models.ChildCommand, error)
	MarkExecuted(ctx context.Context, cmdID, ticket int64) error
	MarkFailed(ctx context.Context, cmdID int64, reason string) error
	ActivePositions(ctx context.Context) ([]models.ActivePosition, error)
	SiblingPositions(ctx context.Context, signalID int64) ([]models.ActivePosition, error)
	UpsertPosition(ctx context.Context, p models.ActivePosition) error
	RefreshPositionLive(ctx context.Context, ticket int64, entryPrice, currentPrice, unrealized float64) error
	Settle(ctx context.Context, pos models.ActivePosition, exitPrice, profit float64) (bool, error)
	LogAction(ctx context.Context, action, details string)
}

type Notifier interface {
	Sendf(format string, args ...any)
}

// Executor — сердце движка: диспетчер, реконсайлер и безубыток.
// Один экземпляр, один поток, никакого параллелизма внутри тика.
type Executor struct {
	venue  Venue
	ledger Ledger
	n      Notifier
}

func New(venue Venue, ledger Ledger, n Notifier) *Executor {
	return &Executor{venue: venue, ledger: ledger, n: n}
}

func (e *Executor) notifyf(format string, args ...any) {
	if e.n != nil {
		e.n.Sendf(format, args...)
	}
}
