package service

import (
	"context"
	"fmt"

	"github.com/13magician/kol-gold/internal/models"
)

type positionDTO struct {
	Ticket     int64   `json:"ticket"`
	Symbol     string  `json:"symbol"`
	Direction  string  `json:"direction"`
	Volume     float64 `json:"volume"`
	EntryPrice float64 `json:"price_open"`
	LastPrice  float64 `json:"price_current"`
	Profit     float64 `json:"profit"`
	SL         float64 `json:"sl"`
	TP         float64 `json:"tp"`
}

type orderDTO struct {
	Ticket    int64   `json:"ticket"`
	Symbol    string  `json:"symbol"`
	Direction string  `json:"direction"`
	Volume    float64 `json:"volume"`
	Price     float64 `json:"price_open"`
	SL        float64 `json:"sl"`
	TP        float64 `json:"tp"`
}

// Positions возвращает ВСЕ живые позиции площадки, ключ — ticket.
func (c *Client) Positions(ctx context.Context) (map[int64]models.VenuePosition, error) {
	var resp struct {
		Positions []positionDTO `json:"positions"`
	}
	if err := c.get(ctx, "/api/v1/positions", nil, &resp); err != nil {
		return nil, fmt.Errorf("Positions: %w", err)
	}

	out := make(map[int64]models.VenuePosition, len(resp.Positions))
	for _, p := range resp.Positions {
		out[p.Ticket] = models.VenuePosition{
			Ticket:     p.Ticket,
			Symbol:     p.Symbol,
			Direction:  p.Direction,
			Volume:     p.Volume,
			EntryPrice: p.EntryPrice,
			LastPrice:  p.LastPrice,
			Profit:     p.Profit,
			SL:         p.SL,
			TP:         p.TP,
		}
	}
	return out, nil
}

// PendingOrders возвращает все НЕисполненные отложенные ордера площадки.
func (c *Client) PendingOrders(ctx context.Context) (map[int64]models.VenueOrder, error) {
	var resp struct {
		Orders []orderDTO `json:"orders"`
	}
	if err := c.get(ctx, "/api/v1/orders", nil, &resp); err != nil {
		return nil, fmt.Errorf("PendingOrders: %w", err)
	}

	out := make(map[int64]models.VenueOrder, len(resp.Orders))
	for _, o := range resp.Orders {
		out[o.Ticket] = models.VenueOrder{
			Ticket:    o.Ticket,
			Symbol:    o.Symbol,
			Direction: o.Direction,
			Volume:    o.Volume,
			Price:     o.Price,
			SL:        o.SL,
			TP:        o.TP,
		}
	}
	return out, nil
}
