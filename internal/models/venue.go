package models

import "time"

// Quote — моментальный снимок bid/ask.
type Quote struct {
	Symbol string
	Bid    float64
	Ask    float64
	At     time.Time
}

// ContractSpec — спецификация контракта у брокера.
type ContractSpec struct {
	Symbol       string
	ContractSize float64
	MinVolume    float64
	VolumeStep   float64
}

// VenuePosition — живая позиция по данным площадки.
type VenuePosition struct {
	Ticket     int64
	Symbol     string
	Direction  string
	Volume     float64
	EntryPrice float64
	LastPrice  float64
	Profit     float64 // плавающий PnL
	SL         float64
	TP         float64
}

// VenueOrder — ещё не исполненный отложенный ордер.
type VenueOrder struct {
	Ticket    int64
	Symbol    string
	Direction string
	Volume    float64
	Price     float64
	SL        float64
	TP        float64
}

// Deal — сделка из истории площадки.
type Deal struct {
	Ticket     int64
	Price      float64
	Profit     float64
	Commission float64
	Swap       float64
	At         time.Time
}

// Net — итоговый результат сделки с учётом комиссии и свопа.
func (d Deal) Net() float64 { return d.Profit + d.Commission + d.Swap }
