package service

import (
	"context"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/internal/modules/config"
)

// Venue — что планировщику нужно от площадки: баланс и спецификация для
// расчёта объёма, котировка для базовой цены рыночного входа, снятие
// отложек при flatten.
type Venue interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	Balance(ctx context.Context) (float64, error)
	ContractSpec(ctx context.Context, symbol string) (models.ContractSpec, error)
	PendingOrders(ctx context.Context) (map[int64]models.VenueOrder, error)
	CancelOrder(ctx context.Context, ticket int64) error
}

// Ledger — журнал намерений со стороны планировщика.
type Ledger interface {
	CreatePlan(ctx context.Context, sig *models.ParentSignal, cmds []models.ChildCommand) (int64, error)
	CancelPlans(ctx context.Context, kol, symbol, reason string) ([]int64, error)
	KOLPerformance(ctx context.Context) ([]models.KOLStats, error)
	LogAction(ctx context.Context, action, details string)
}

// Planner превращает решение в родительский сигнал и набор дочерних
// команд в леджере. На площадку отсюда ничего не отправляется —
// исполнение целиком на диспетчере.
type Planner struct {
	money  *config.Money
	venue  Venue
	ledger Ledger
}

func New(money *config.Money, venue Venue, ledger Ledger) *Planner {
	return &Planner{
		money:  money,
		venue:  venue,
		ledger: ledger,
	}
}
