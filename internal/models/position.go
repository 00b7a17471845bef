package models

import "time"

// ActivePosition — локальное зеркало живого ордера/позиции на площадке.
// Одна строка на ticket. EntryPrice = 0 для ещё не исполненного отложенного
// ордера, реконсайлер дозаполнит после исполнения.
type ActivePosition struct {
	Ticket        int64
	SignalID      int64
	KOL           string
	Symbol        string
	Direction     string
	EntryPrice    float64
	Volume        float64
	TPGoal        float64 // целевой тейк этой ноги (для дашборда)
	Exits         []ExitCondition
	Status        string
	CurrentPrice  float64
	UnrealizedPnL float64
	LastUpdate    time.Time
}

// ExitCondition — условие выхода, хранится JSON'ом в exit_conditions.
type ExitCondition struct {
	Type  string  `json:"type"` // "TP" / "SL"
	Price float64 `json:"price"`
}

// Settlement — архив закрытой сделки. Пишется ровно один раз на ticket и
// после этого не мутирует.
type Settlement struct {
	ID           int64
	SignalID     int64
	KOL          string
	Symbol       string
	Direction    string
	Volume       float64
	EntryPrice   float64
	ExitPrice    float64
	Profit       float64 // чистый результат: profit + commission + swap
	CloseTime    time.Time
	HoldDuration int64 // секунды
}

// KOLStats — агрегат по источнику для дашборда.
type KOLStats struct {
	KOL         string
	TotalTrades int64
	WinCount    int64
	TotalProfit float64
	AvgProfit   float64
}
