package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/internal/modules/config"
)

type fakeVenue struct {
	quote    models.Quote
	quoteErr error
	balance  float64
	spec     models.ContractSpec
	pending  map[int64]models.VenueOrder

	cancelled []int64
	cancelErr error
}

func (f *fakeVenue) Quote(context.Context, string) (models.Quote, error) {
	if f.quoteErr != nil {
		return models.Quote{}, f.quoteErr
	}
	return f.quote, nil
}
func (f *fakeVenue) Balance(context.Context) (float64, error) { return f.balance, nil }
func (f *fakeVenue) ContractSpec(context.Context, string) (models.ContractSpec, error) {
	return f.spec, nil
}
func (f *fakeVenue) PendingOrders(context.Context) (map[int64]models.VenueOrder, error) {
	return f.pending, nil
}
func (f *fakeVenue) CancelOrder(_ context.Context, ticket int64) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, ticket)
	return nil
}

type fakeLedger struct {
	createdSig  *models.ParentSignal
	createdCmds []models.ChildCommand

	cancelCalls   int
	cancelTickets []int64
	actions       []string
}

func (f *fakeLedger) CreatePlan(_ context.Context, sig *models.ParentSignal, cmds []models.ChildCommand) (int64, error) {
	f.createdSig = sig
	f.createdCmds = cmds
	return 42, nil
}

func (f *fakeLedger) CancelPlans(context.Context, string, string, string) ([]int64, error) {
	f.cancelCalls++
	return f.cancelTickets, nil
}

func (f *fakeLedger) KOLPerformance(context.Context) ([]models.KOLStats, error) {
	return nil, nil
}

func (f *fakeLedger) LogAction(_ context.Context, action, _ string) {
	f.actions = append(f.actions, action)
}

func newTestPlanner(v *fakeVenue, l *fakeLedger, snap *config.MoneySnapshot) *Planner {
	m := config.NewMoneyFromSnapshot(snap)
	return New(m, v, l)
}

func TestHandleDecisionRejectsMissingStop(t *testing.T) {
	v := &fakeVenue{quote: models.Quote{Bid: 2000, Ask: 2000.3}}
	l := &fakeLedger{}
	p := newTestPlanner(v, l, riskSnapshot())

	err := p.HandleDecision(context.Background(), &models.Decision{
		KOL: "何小冰", Symbol: "XAUUSD", Direction: models.DecisionLong,
		EntryMode: models.EntryMarket, TPs: []float64{2010},
	})
	if err == nil {
		t.Fatal("решение без стопа должно отклоняться")
	}
	if l.createdSig != nil {
		t.Fatal("план без стопа не должен записываться")
	}
}

func TestHandleDecisionMarketPlan(t *testing.T) {
	v := &fakeVenue{
		quote:   models.Quote{Bid: 2000, Ask: 2000.3},
		balance: 10000,
		spec:    models.ContractSpec{ContractSize: 100, VolumeStep: 0.01},
	}
	l := &fakeLedger{}
	p := newTestPlanner(v, l, riskSnapshot())

	err := p.HandleDecision(context.Background(), &models.Decision{
		KOL: "何小冰", Symbol: "XAUUSD", Direction: models.DecisionLong,
		EntryMode: models.EntryMarket, SL: 1990.3, TPs: []float64{2010, 2020, 2030},
	})
	if err != nil {
		t.Fatalf("HandleDecision: %v", err)
	}

	if l.createdSig == nil || l.createdSig.Direction != models.DirBuy {
		t.Fatalf("ожидался сигнал BUY, got %+v", l.createdSig)
	}
	if len(l.createdCmds) != 3 {
		t.Fatalf("ожидались 3 ноги, было %d", len(l.createdCmds))
	}
	var sum float64
	for _, c := range l.createdCmds {
		if c.Direction != models.DirBuy {
			t.Fatalf("рыночная нога должна быть BUY, got %s", c.Direction)
		}
		if c.Price != 0 {
			t.Fatalf("рыночная нога идёт без цены, got %.2f", c.Price)
		}
		sum += c.Volume
	}
	// 10000*0.03/(10*100) = 0.3 на три ноги
	if math.Abs(sum-0.3) > 1e-9 {
		t.Fatalf("суммарный объём %.4f, want 0.3", sum)
	}
}

func TestHandleDecisionPendingVariants(t *testing.T) {
	v := &fakeVenue{
		quote:   models.Quote{Bid: 2000, Ask: 2000.3},
		balance: 10000,
		spec:    models.ContractSpec{ContractSize: 100, VolumeStep: 0.01},
	}

	cases := []struct {
		direction string
		entry     float64
		want      string
	}{
		{models.DecisionLong, 1995, models.DirBuyLimit},  // вход ниже рынка — откат
		{models.DecisionLong, 2005, models.DirBuyStop},   // вход выше рынка — пробой
		{models.DecisionShort, 2005, models.DirSellLimit},
		{models.DecisionShort, 1995, models.DirSellStop},
	}
	for _, tc := range cases {
		l := &fakeLedger{}
		p := newTestPlanner(v, l, riskSnapshot())

		sl := tc.entry - 10
		if tc.direction == models.DecisionShort {
			sl = tc.entry + 10
		}
		err := p.HandleDecision(context.Background(), &models.Decision{
			KOL: "何小冰", Symbol: "XAUUSD", Direction: tc.direction,
			EntryMode: models.EntryPending, EntryPrice: tc.entry, SL: sl, TPs: []float64{tc.entry + 5},
		})
		if err != nil {
			t.Fatalf("%s@%.0f: %v", tc.direction, tc.entry, err)
		}
		if got := l.createdCmds[0].Direction; got != tc.want {
			t.Fatalf("%s@%.0f: тип отложки %s, want %s", tc.direction, tc.entry, got, tc.want)
		}
		if got := l.createdCmds[0].Price; got != tc.entry {
			t.Fatalf("%s@%.0f: цена отложки %.2f", tc.direction, tc.entry, got)
		}
	}
}

func TestHandleDecisionQuoteUnavailable(t *testing.T) {
	v := &fakeVenue{quoteErr: fmt.Errorf("bridge down")}
	l := &fakeLedger{}
	p := newTestPlanner(v, l, riskSnapshot())

	err := p.HandleDecision(context.Background(), &models.Decision{
		KOL: "何小冰", Symbol: "XAUUSD", Direction: models.DecisionLong,
		EntryMode: models.EntryMarket, SL: 1990, TPs: []float64{2010},
	})
	if err == nil {
		t.Fatal("без котировки план не создаётся")
	}
	if l.createdSig != nil {
		t.Fatal("ничего не должно записаться")
	}
}

func TestFlattenSweepsVenuePendings(t *testing.T) {
	// тикет 501 ещё висит отложкой — снимаем; 502 уже позиция — не трогаем
	v := &fakeVenue{
		pending: map[int64]models.VenueOrder{501: {Ticket: 501}},
	}
	l := &fakeLedger{cancelTickets: []int64{501, 502}}
	p := newTestPlanner(v, l, riskSnapshot())

	err := p.HandleDecision(context.Background(), &models.Decision{
		KOL: "何小冰", Symbol: "XAUUSD", Direction: models.DecisionFlat,
	})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	if l.cancelCalls != 1 {
		t.Fatalf("ожидалась одна локальная отмена, было %d", l.cancelCalls)
	}
	if len(v.cancelled) != 1 || v.cancelled[0] != 501 {
		t.Fatalf("снимается только висящая отложка 501, got %v", v.cancelled)
	}
}
