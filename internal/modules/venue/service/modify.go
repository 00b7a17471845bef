package service

import (
	"context"
	"fmt"
)

type actionResponse struct {
	OK     bool   `json:"ok"`
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// ModifyStop двигает стоп-лосс живого ордера/позиции (保本 и не только).
// Отказ площадки (цена уже за стопом и т.п.) — *Rejection.
func (c *Client) ModifyStop(ctx context.Context, ticket int64, newSL float64) error {
	body := map[string]any{"ticket": ticket, "sl": newSL}

	var resp actionResponse
	if err := c.post(ctx, "/api/v1/order/modify", body, &resp); err != nil {
		return fmt.Errorf("ModifyStop: %w", err)
	}
	if !resp.OK {
		return &Rejection{Code: resp.Code, Reason: resp.Reason}
	}
	return nil
}

// CancelOrder снимает ещё не исполненный отложенный ордер.
func (c *Client) CancelOrder(ctx context.Context, ticket int64) error {
	body := map[string]any{"ticket": ticket}

	var resp actionResponse
	if err := c.post(ctx, "/api/v1/order/cancel", body, &resp); err != nil {
		return fmt.Errorf("CancelOrder: %w", err)
	}
	if !resp.OK {
		return &Rejection{Code: resp.Code, Reason: resp.Reason}
	}
	return nil
}

// ClosePosition закрывает позицию по рынку.
func (c *Client) ClosePosition(ctx context.Context, ticket int64) error {
	body := map[string]any{"ticket": ticket}

	var resp actionResponse
	if err := c.post(ctx, "/api/v1/position/close", body, &resp); err != nil {
		return fmt.Errorf("ClosePosition: %w", err)
	}
	if !resp.OK {
		return &Rejection{Code: resp.Code, Reason: resp.Reason}
	}
	return nil
}
