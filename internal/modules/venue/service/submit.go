package service

import (
	"context"
	"fmt"
)

// Rejection — площадка отказала осознанно (неверные параметры, нехватка
// маржи, невалидная цена). Это терминальный исход для команды, в отличие
// от транспортных ошибок, которые просто повторяются следующим тиком.
type Rejection struct {
	Code   int
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("отказ площадки: code=%d (%s)", r.Code, r.Reason)
}

type submitRequest struct {
	Symbol    string  `json:"symbol"`
	Direction string  `json:"direction"`
	Volume    float64 `json:"volume"`
	Price     float64 `json:"price"` // 0 => рыночное исполнение
	SL        float64 `json:"sl"`
	TP        float64 `json:"tp"`
	Comment   string  `json:"comment"`
}

type submitResponse struct {
	OK     bool   `json:"ok"`
	Ticket int64  `json:"ticket"`
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// Submit отправляет ордер. Успех — ticket площадки; осознанный отказ
// приходит как *Rejection, различать через errors.As.
func (c *Client) Submit(
	ctx context.Context,
	symbol, direction string,
	volume, price, sl, tp float64,
	tag string,
) (int64, error) {
	req := submitRequest{
		Symbol:    symbol,
		Direction: direction,
		Volume:    volume,
		Price:     price,
		SL:        sl,
		TP:        tp,
		Comment:   tag,
	}

	var resp submitResponse
	if err := c.post(ctx, "/api/v1/order", req, &resp); err != nil {
		return 0, fmt.Errorf("Submit: %w", err)
	}
	if !resp.OK {
		return 0, &Rejection{Code: resp.Code, Reason: resp.Reason}
	}
	if resp.Ticket == 0 {
		return 0, fmt.Errorf("Submit: мост вернул ok без ticket")
	}
	return resp.Ticket, nil
}
