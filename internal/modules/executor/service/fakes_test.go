package service

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeVenue — управляемая заглушка площадки.
type fakeVenue struct {
	quotes    map[string]models.Quote
	quoteErr  error
	positions map[int64]models.VenuePosition
	pending   map[int64]models.VenueOrder
	deals     map[int64]*models.Deal
	dealErr   error

	submitTicket int64
	submitErr    error
	submitted    []submitCall

	modifyErr error
	modified  []modifyCall
}

type submitCall struct {
	symbol, direction string
	volume, price     float64
	sl, tp            float64
	tag               string
}

type modifyCall struct {
	ticket int64
	newSL  float64
}

func (f *fakeVenue) Quote(_ context.Context, symbol string) (models.Quote, error) {
	if f.quoteErr != nil {
		return models.Quote{}, f.quoteErr
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return models.Quote{}, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}

func (f *fakeVenue) Submit(_ context.Context, symbol, direction string, volume, price, sl, tp float64, tag string) (int64, error) {
	f.submitted = append(f.submitted, submitCall{symbol, direction, volume, price, sl, tp, tag})
	if f.submitErr != nil {
		return 0, f.submitErr
	}
	return f.submitTicket, nil
}

func (f *fakeVenue) ModifyStop(_ context.Context, ticket int64, newSL float64) error {
	if f.modifyErr != nil {
		return f.modifyErr
	}
	f.modified = append(f.modified, modifyCall{ticket, newSL})
	return nil
}

func (f *fakeVenue) Positions(context.Context) (map[int64]models.VenuePosition, error) {
	return f.positions, nil
}

func (f *fakeVenue) PendingOrders(context.Context) (map[int64]models.VenueOrder, error) {
	return f.pending, nil
}

func (f *fakeVenue) LastDeal(_ context.Context, ticket int64) (*models.Deal, error) {
	if f.dealErr != nil {
		return nil, f.dealErr
	}
	return f.deals[ticket], nil
}

// fakeLedger — журнал в памяти, запоминающий все мутации.
type fakeLedger struct {
	pendingCmds []models.ChildCommand
	actives     []models.ActivePosition
	siblings    map[int64][]models.ActivePosition

	executed  map[int64]int64  // cmdID -> ticket
	failed    map[int64]string // cmdID -> reason
	upserted  []models.ActivePosition
	settled   []settleCall
	settleOK  bool
	refreshes []refreshCall
	actions   []string
}

type settleCall struct {
	ticket    int64
	exitPrice float64
	profit    float64
}

type refreshCall struct {
	ticket             int64
	entry, cur, profit float64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		siblings: map[int64][]models.ActivePosition{},
		executed: map[int64]int64{},
		failed:   map[int64]string{},
		settleOK: true,
	}
}

func (f *fakeLedger) PendingCommands(context.Context) ([]models.ChildCommand, error) {
	return f.pendingCmds, nil
}

func (f *fakeLedger) MarkExecuted(_ context.Context, cmdID, ticket int64) error {
	f.executed[cmdID] = ticket
	return nil
}

func (f *fakeLedger) MarkFailed(_ context.Context, cmdID int64, reason string) error {
	f.failed[cmdID] = reason
	return nil
}

func (f *fakeLedger) ActivePositions(context.Context) ([]models.ActivePosition, error) {
	return f.actives, nil
}

func (f *fakeLedger) SiblingPositions(_ context.Context, signalID int64) ([]models.ActivePosition, error) {
	return f.siblings[signalID], nil
}

func (f *fakeLedger) UpsertPosition(_ context.Context, p models.ActivePosition) error {
	f.upserted = append(f.upserted, p)
	return nil
}

func (f *fakeLedger) RefreshPositionLive(_ context.Context, ticket int64, entry, cur, profit float64) error {
	f.refreshes = append(f.refreshes, refreshCall{ticket, entry, cur, profit})
	return nil
}

func (f *fakeLedger) Settle(_ context.Context, pos models.ActivePosition, exitPrice, profit float64) (bool, error) {
	f.settled = append(f.settled, settleCall{pos.Ticket, exitPrice, profit})
	return f.settleOK, nil
}

func (f *fakeLedger) LogAction(_ context.Context, action, _ string) {
	f.actions = append(f.actions, action)
}
