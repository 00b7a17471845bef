package models

// Decision — уже распарсенное решение из внешнего слоя (AI/листенер).
// Парсинг текста и картинок — не наша зона, сюда приходит только структура.
type Decision struct {
	KOL        string    `json:"author"`
	Symbol     string    `json:"symbol"`
	Direction  string    `json:"direction"`  // LONG / SHORT / FLAT
	EntryMode  string    `json:"entry_mode"` // MARKET / PENDING
	EntryPrice float64   `json:"entry_price"`
	SL         float64   `json:"sl"`
	TPs        []float64 `json:"tps"`
}

const (
	DecisionLong  = "LONG"
	DecisionShort = "SHORT"
	DecisionFlat  = "FLAT"
)
