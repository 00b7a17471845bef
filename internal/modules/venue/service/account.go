package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/13magician/kol-gold/internal/models"
)

// Balance возвращает текущий баланс счёта.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var resp struct {
		Balance float64 `json:"balance"`
	}
	if err := c.get(ctx, "/api/v1/account", nil, &resp); err != nil {
		return 0, fmt.Errorf("Balance: %w", err)
	}
	return resp.Balance, nil
}

// ContractSpec возвращает спецификацию контракта символа.
func (c *Client) ContractSpec(ctx context.Context, symbol string) (models.ContractSpec, error) {
	var resp struct {
		ContractSize float64 `json:"contract_size"`
		MinVolume    float64 `json:"min_volume"`
		VolumeStep   float64 `json:"volume_step"`
	}
	qs := url.Values{"symbol": {symbol}}
	if err := c.get(ctx, "/api/v1/spec", qs, &resp); err != nil {
		return models.ContractSpec{}, fmt.Errorf("ContractSpec %s: %w", symbol, err)
	}
	return models.ContractSpec{
		Symbol:       symbol,
		ContractSize: resp.ContractSize,
		MinVolume:    resp.MinVolume,
		VolumeStep:   resp.VolumeStep,
	}, nil
}
