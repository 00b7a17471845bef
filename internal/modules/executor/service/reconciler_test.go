package service

import (
	"context"
	"testing"

	"github.com/13magician/kol-gold/internal/models"
)

func TestReconcileLivePositionRefreshed(t *testing.T) {
	v := &fakeVenue{
		positions: map[int64]models.VenuePosition{
			101: {Ticket: 101, EntryPrice: 2001.5, LastPrice: 2004.2, Profit: 13.5},
		},
	}
	l := newFakeLedger()
	l.actives = []models.ActivePosition{{Ticket: 101, SignalID: 20, Symbol: "XAUUSD"}}

	e := New(v, l, nil)
	if err := e.ReconcileTick(context.Background()); err != nil {
		t.Fatalf("ReconcileTick: %v", err)
	}

	if len(l.settled) != 0 {
		t.Fatal("живая позиция не архивируется")
	}
	if len(l.refreshes) != 1 {
		t.Fatalf("ожидалось одно live-обновление, было %d", len(l.refreshes))
	}
	r := l.refreshes[0]
	if r.ticket != 101 || r.entry != 2001.5 || r.cur != 2004.2 || r.profit != 13.5 {
		t.Fatalf("неверные live-данные: %+v", r)
	}
}

func TestReconcilePendingTicketUntouched(t *testing.T) {
	v := &fakeVenue{
		pending: map[int64]models.VenueOrder{102: {Ticket: 102}},
	}
	l := newFakeLedger()
	l.actives = []models.ActivePosition{{Ticket: 102, SignalID: 20}}

	e := New(v, l, nil)
	if err := e.ReconcileTick(context.Background()); err != nil {
		t.Fatalf("ReconcileTick: %v", err)
	}

	if len(l.settled) != 0 || len(l.refreshes) != 0 {
		t.Fatal("висящая отложка не трогается")
	}
}

func TestReconcileVanishedTicketSettledWithNetProfit(t *testing.T) {
	v := &fakeVenue{
		deals: map[int64]*models.Deal{
			103: {Ticket: 103, Price: 2015.0, Profit: 30.0, Commission: -2.0, Swap: -0.5},
		},
	}
	l := newFakeLedger()
	l.actives = []models.ActivePosition{{
		Ticket: 103, SignalID: 21, Symbol: "XAUUSD", Direction: models.DirBuy, EntryPrice: 2000,
	}}

	e := New(v, l, nil)
	if err := e.ReconcileTick(context.Background()); err != nil {
		t.Fatalf("ReconcileTick: %v", err)
	}

	if len(l.settled) != 1 {
		t.Fatalf("ожидался один расчёт, было %d", len(l.settled))
	}
	s := l.settled[0]
	if s.ticket != 103 || s.exitPrice != 2015.0 {
		t.Fatalf("неверный расчёт: %+v", s)
	}
	// чистый результат: profit + commission + swap
	if want := 27.5; s.profit != want {
		t.Fatalf("profit = %.2f, want %.2f", s.profit, want)
	}
}

func TestReconcileAmbiguousCloseArchivedAtZero(t *testing.T) {
	v := &fakeVenue{} // истории по тикету нет
	l := newFakeLedger()
	l.actives = []models.ActivePosition{{Ticket: 104, SignalID: 22, Symbol: "XAUUSD", EntryPrice: 2000}}

	e := New(v, l, nil)
	if err := e.ReconcileTick(context.Background()); err != nil {
		t.Fatalf("ReconcileTick: %v", err)
	}

	if len(l.settled) != 1 {
		t.Fatalf("ожидался один расчёт, было %d", len(l.settled))
	}
	if s := l.settled[0]; s.profit != 0 || s.exitPrice != 0 {
		t.Fatalf("неоднозначное закрытие архивируется нулём: %+v", s)
	}
	// исход помечен в журнале действий, чтобы отличаться от честного безубытка
	found := false
	for _, a := range l.actions {
		if a == "ambiguous_close" {
			found = true
		}
	}
	if !found {
		t.Fatal("ожидалась пометка ambiguous_close")
	}
	if len(v.modified) != 0 {
		t.Fatal("нулевой результат не запускает безубыток")
	}
}

func TestReconcileProfitableCloseMovesSiblingStops(t *testing.T) {
	// три ноги одного сигнала с общим входом 2000; первая закрылась в
	// плюс — двум оставшимся стоп двигается на вход
	v := &fakeVenue{
		deals: map[int64]*models.Deal{
			201: {Ticket: 201, Price: 2010, Profit: 20},
		},
	}
	l := newFakeLedger()
	l.actives = []models.ActivePosition{{
		Ticket: 201, SignalID: 30, Symbol: "XAUUSD", EntryPrice: 2000,
	}}
	l.siblings[30] = []models.ActivePosition{
		{Ticket: 202, SignalID: 30, EntryPrice: 2000},
		{Ticket: 203, SignalID: 30, EntryPrice: 2000},
	}

	e := New(v, l, nil)
	if err := e.ReconcileTick(context.Background()); err != nil {
		t.Fatalf("ReconcileTick: %v", err)
	}

	if len(v.modified) != 2 {
		t.Fatalf("ожидались два переноса стопа, было %d", len(v.modified))
	}
	for _, m := range v.modified {
		if m.newSL != 2000 {
			t.Fatalf("стоп должен встать на вход 2000, got %.2f", m.newSL)
		}
	}
}

func TestReconcileSettleIdempotent(t *testing.T) {
	// журнал сообщает "уже рассчитано" — безубыток второй раз не запускается
	v := &fakeVenue{
		deals: map[int64]*models.Deal{301: {Ticket: 301, Price: 2010, Profit: 20}},
	}
	l := newFakeLedger()
	l.settleOK = false
	l.actives = []models.ActivePosition{{Ticket: 301, SignalID: 31, EntryPrice: 2000}}
	l.siblings[31] = []models.ActivePosition{{Ticket: 302, SignalID: 31, EntryPrice: 2000}}

	e := New(v, l, nil)
	if err := e.ReconcileTick(context.Background()); err != nil {
		t.Fatalf("ReconcileTick: %v", err)
	}

	if len(v.modified) != 0 {
		t.Fatal("повторный расчёт не должен трогать стопы соседей")
	}
}

func TestBreakEvenNoSiblingsIsNoop(t *testing.T) {
	v := &fakeVenue{}
	l := newFakeLedger()

	e := New(v, l, nil)
	e.breakEven(context.Background(), 40, 2000)

	if len(v.modified) != 0 {
		t.Fatal("без соседей безубыток ничего не делает")
	}
}

func TestBreakEvenUnknownEntrySkipped(t *testing.T) {
	v := &fakeVenue{}
	l := newFakeLedger()
	l.siblings[41] = []models.ActivePosition{{Ticket: 401, SignalID: 41}}

	e := New(v, l, nil)
	e.breakEven(context.Background(), 41, 0)

	if len(v.modified) != 0 {
		t.Fatal("с неизвестным входом стопы не трогаем")
	}
}
