package models

import "time"

// Статусы дочерней команды. EXECUTED/FAILED/CANCELLED — терминальные,
// назад в PENDING команда не возвращается никогда.
const (
	CommandPending   = "PENDING"
	CommandExecuted  = "EXECUTED"
	CommandFailed    = "FAILED"
	CommandCancelled = "CANCELLED"
)

// Направления команд (вариант ордера у брокера).
const (
	DirBuy       = "BUY"
	DirSell      = "SELL"
	DirBuyLimit  = "BUY_LIMIT"
	DirSellLimit = "SELL_LIMIT"
	DirBuyStop   = "BUY_STOP"
	DirSellStop  = "SELL_STOP"
)

// ChildCommand — одна конкретная нога, выведенная из плана разбивки сигнала.
// Ticket заполнен тогда и только тогда, когда статус EXECUTED.
type ChildCommand struct {
	ID        int64
	SignalID  int64
	KOL       string
	Symbol    string
	Direction string
	Volume    float64
	Price     float64 // 0 для рыночной ноги
	SL        float64
	TP        float64
	Status    string
	Ticket    int64 // mt5_ticket, 0 пока не исполнено
	CreatedAt time.Time
	ErrorMsg  string
}
