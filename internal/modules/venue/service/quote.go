package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/13magician/kol-gold/internal/models"
)

// Quote возвращает актуальные bid/ask. Сначала смотрим ws-кеш, если тик
// свежий — REST не дёргаем; протухший кеш добираем синхронным запросом.
// Ошибка здесь — транзиент: команду пропускаем до следующего тика.
func (c *Client) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	c.qmu.RLock()
	q, ok := c.quotes[symbol]
	c.qmu.RUnlock()
	if ok && time.Since(q.At) <= c.quoteMaxAge {
		return q, nil
	}

	var resp struct {
		Bid float64 `json:"bid"`
		Ask float64 `json:"ask"`
	}
	qs := url.Values{"symbol": {symbol}}
	if err := c.get(ctx, "/api/v1/quote", qs, &resp); err != nil {
		return models.Quote{}, fmt.Errorf("Quote %s: %w", symbol, err)
	}
	if resp.Bid <= 0 || resp.Ask <= 0 {
		return models.Quote{}, fmt.Errorf("Quote %s: пустой тик bid=%.5f ask=%.5f", symbol, resp.Bid, resp.Ask)
	}

	q = models.Quote{Symbol: symbol, Bid: resp.Bid, Ask: resp.Ask, At: time.Now()}
	c.qmu.Lock()
	c.quotes[symbol] = q
	c.qmu.Unlock()
	return q, nil
}
