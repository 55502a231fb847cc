package paylink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkhwld/store-backend/internal/config"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
)

// Client — клиент hosted-checkout шлюза: создает платежную сессию
// и возвращает URL hosted-страницы оплаты для редиректа покупателя.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

func New(cfg config.PayLinkConfig, log *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// LineItem — позиция сессии, одна на каждый товар.
// UnitAmount — цена в минорных единицах валюты.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int64  `json:"quantity"`
	Currency   string `json:"currency"`
}

// SessionRequest — запрос на создание hosted-сессии.
// Идентификатор заказа передается как opaque-метаданные сессии.
type SessionRequest struct {
	LineItems  []LineItem        `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
}

type SessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"message"`
	} `json:"error"`
}

// CreateSession вызывает POST v1/checkout/sessions и возвращает URL редиректа.
// Локальных ретраев нет: при сбое заказ остается неоплаченным и может быть
// проверен позже через реконсиляцию.
func (c *Client) CreateSession(ctx context.Context, sreq SessionRequest) (*SessionResponse, error) {
	const op = "paylink.CreateSession"

	payload, err := json.Marshal(sreq)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal session request: %w", op, err)
	}

	reqURL := c.baseURL + "v1/checkout/sessions"
	c.log.Info("creating hosted checkout session",
		slog.String("op", op),
		slog.String("url", reqURL),
		slog.String("orderId", sreq.Metadata["orderId"]),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			c.log.Error("non-JSON response from gateway",
				slog.String("op", op),
				slog.Int("status", resp.StatusCode),
			)
			return nil, &apperr.UpstreamError{Status: resp.StatusCode}
		}
		c.log.Error("gateway rejected session",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("code", envelope.Error.Code),
			slog.String("description", envelope.Error.Description),
		)
		return nil, &apperr.UpstreamError{
			Status:      resp.StatusCode,
			Code:        envelope.Error.Code,
			Description: envelope.Error.Description,
		}
	}

	var out SessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &apperr.UpstreamError{Status: resp.StatusCode}
	}

	c.log.Info("hosted session created", slog.String("op", op), slog.String("sessionId", out.ID))
	return &out, nil
}
