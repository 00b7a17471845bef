package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/13magician/kol-gold/internal/models"
	"github.com/13magician/kol-gold/internal/modules/config"

	"github.com/bytedance/sonic"
)

// Client — клиент моста к терминалу MT5. Все вызовы блокирующие и
// синхронные; площадка — авторитетный источник правды, мы только
// спрашиваем и просим.
type Client struct {
	http    *http.Client
	baseURL string
	wsURL   string
	token   string

	quoteMaxAge time.Duration

	// хук состояния ws-потока (для health)
	streamUp func(bool)

	// кеш котировок из ws-потока
	qmu    sync.RWMutex
	quotes map[string]models.Quote
}

// OnStreamState регистрирует колбэк включения/обрыва потока котировок.
func (c *Client) OnStreamState(fn func(bool)) { c.streamUp = fn }

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		baseURL:     cfg.Bridge.URL,
		wsURL:       cfg.Bridge.WSURL,
		token:       cfg.Bridge.Token,
		quoteMaxAge: cfg.QuoteMaxAge,
		quotes:      make(map[string]models.Quote),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("X-Bridge-Token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("bridge http %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w (RAW=%s)", err, string(data))
	}
	return nil
}
