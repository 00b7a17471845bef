package models

import "time"

// Статусы родительского сигнала.
const (
	SignalAwaitingExecution = "AWAITING_EXECUTION"
	SignalCancelled         = "CANCELLED"
)

// Режим входа.
const (
	EntryMarket  = "MARKET"
	EntryPending = "PENDING"
)

// ParentSignal — одно торговое решение KOL до разбивки на исполняемые ноги.
// После создания неизменяем, кроме статуса и метаданных отмены.
type ParentSignal struct {
	ID           int64
	CreatedAt    time.Time
	KOL          string
	Symbol       string
	Direction    string // BUY / SELL
	EntryMode    string // MARKET / PENDING
	EntryPrice   float64 // цена для отложенного входа, 0 для рынка
	SL           float64
	TPs          []float64 // упорядоченный список тейков
	Status       string
	CancelReason string
}
