package service

import (
	"context"
	"time"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

type tickMsg struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

// StreamQuotes держит ws-подключение к мосту и греет кеш котировок.
// Поток — чистая оптимизация: при любом обрыве переподключаемся с паузой,
// а Quote всегда может сходить по REST.
func (c *Client) StreamQuotes(ctx context.Context) {
	if c.wsURL == "" {
		logger.Info("ℹ️ [venue] ws_url не задан, котировки только по REST")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.streamOnce(ctx); err != nil {
			logger.Warn("⚠️ [venue] поток котировок оборвался: %v, реконнект через 5s", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *Client) streamOnce(ctx context.Context) error {
	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("📡 [venue] поток котировок подключен: %s", c.wsURL)
	if c.streamUp != nil {
		c.streamUp(true)
		defer c.streamUp(false)
	}

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var m tickMsg
		if err := sonic.Unmarshal(data, &m); err != nil || m.Symbol == "" {
			continue // мусор в потоке молча пропускаем
		}
		if m.Bid <= 0 || m.Ask <= 0 {
			continue
		}

		c.qmu.Lock()
		c.quotes[m.Symbol] = models.Quote{Symbol: m.Symbol, Bid: m.Bid, Ask: m.Ask, At: time.Now()}
		c.qmu.Unlock()
	}
}
