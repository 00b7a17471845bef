package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/13magician/kol-gold/internal/models"
)

type dealDTO struct {
	Ticket     int64   `json:"ticket"`
	Price      float64 `json:"price"`
	Profit     float64 `json:"profit"`
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`
	Time       int64   `json:"time"` // unix
}

// LastDeal возвращает последнюю сделку по ticket из истории площадки:
// именно она фиксирует реализованный результат. nil без ошибки — истории
// нет (ручное удаление или снятая без исполнения отложка).
func (c *Client) LastDeal(ctx context.Context, ticket int64) (*models.Deal, error) {
	var resp struct {
		Deals []dealDTO `json:"deals"`
	}
	qs := url.Values{"ticket": {strconv.FormatInt(ticket, 10)}}
	if err := c.get(ctx, "/api/v1/history", qs, &resp); err != nil {
		return nil, fmt.Errorf("LastDeal %d: %w", ticket, err)
	}
	if len(resp.Deals) == 0 {
		return nil, nil
	}

	d := resp.Deals[len(resp.Deals)-1]
	return &models.Deal{
		Ticket:     d.Ticket,
		Price:      d.Price,
		Profit:     d.Profit,
		Commission: d.Commission,
		Swap:       d.Swap,
		At:         time.Unix(d.Time, 0),
	}, nil
}
