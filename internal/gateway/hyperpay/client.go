package hyperpay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkhwld/store-backend/internal/config"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
)

// Client — клиент HyperPay (COPYandPAY): подготовка виджетного чекаута
// и запрос финального статуса платежа по resourcePath.
type Client struct {
	baseURL     string
	entityID    string
	accessToken string
	paymentType string
	httpClient  *http.Client
	log         *slog.Logger
}

func New(cfg config.HyperPayConfig, log *slog.Logger) *Client {
	// базовый URL всегда с завершающим слэшем
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:     baseURL,
		entityID:    cfg.EntityID,
		accessToken: cfg.AccessToken,
		paymentType: cfg.PaymentType,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

type Result struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CheckoutParams — параметры подготовки чекаута. Все поля customer/billing
// обязательны для боевого режима, кроме BillingState.
//
// shopperResultUrl намеренно отсутствует: для синхронных платежей (DB/VISA/MASTER)
// редирект задается только через action формы виджета. Если прислать его и здесь,
// HyperPay отклоняет статусный вызов с ошибкой
// "shopperResultUrl was already set and cannot be overwritten".
type CheckoutParams struct {
	Amount                string
	Currency              string
	MerchantTransactionID string

	CustomerEmail     string
	CustomerGivenName string
	CustomerSurname   string

	BillingStreet1  string
	BillingCity     string
	BillingState    string
	BillingCountry  string
	BillingPostcode string
}

// CheckoutResponse — ответ v1/checkouts: идентификатор сессии и integrity-токен.
type CheckoutResponse struct {
	ID        string `json:"id"`
	Integrity string `json:"integrity"`
	Result    Result `json:"result"`
}

// PrepareCheckout вызывает POST v1/checkouts с form-encoded параметрами.
// Пустые необязательные поля не отправляются.
func (c *Client) PrepareCheckout(ctx context.Context, p CheckoutParams) (*CheckoutResponse, error) {
	const op = "hyperpay.PrepareCheckout"

	form := url.Values{}
	form.Set("entityId", c.entityID)
	form.Set("amount", strings.TrimSpace(p.Amount))
	form.Set("currency", strings.TrimSpace(p.Currency))
	form.Set("paymentType", c.paymentType)
	form.Set("merchantTransactionId", strings.TrimSpace(p.MerchantTransactionID))
	form.Set("integrity", "true")

	setIfPresent(form, "customer.email", p.CustomerEmail)
	setIfPresent(form, "customer.givenName", p.CustomerGivenName)
	setIfPresent(form, "customer.surname", p.CustomerSurname)
	setIfPresent(form, "billing.street1", p.BillingStreet1)
	setIfPresent(form, "billing.city", p.BillingCity)
	setIfPresent(form, "billing.state", p.BillingState)
	setIfPresent(form, "billing.country", p.BillingCountry)
	setIfPresent(form, "billing.postcode", p.BillingPostcode)

	reqURL := c.baseURL + "v1/checkouts"
	c.log.Info("preparing checkout",
		slog.String("op", op),
		slog.String("url", reqURL),
		slog.String("merchantTransactionId", p.MerchantTransactionID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	var out CheckoutResponse
	if err := json.Unmarshal(body, &out); err != nil {
		c.log.Error("non-JSON response from gateway",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &apperr.UpstreamError{Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("gateway rejected checkout",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("code", out.Result.Code),
			slog.String("description", out.Result.Description),
		)
		return nil, &apperr.UpstreamError{
			Status:      resp.StatusCode,
			Code:        out.Result.Code,
			Description: out.Result.Description,
		}
	}

	c.log.Info("checkout prepared", slog.String("op", op), slog.String("checkoutId", out.ID))
	return &out, nil
}

// StatusResponse — ответ статусного эндпоинта. Форма ответа непоследовательна
// между режимами интеграции, поэтому сырое тело сохраняется для альтернативного
// извлечения ссылки на заказ (см. OrderReference).
type StatusResponse struct {
	ID                    string `json:"id"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	Result                Result `json:"result"`
	CustomParameters      struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
	} `json:"customParameters"`

	raw map[string]json.RawMessage
}

func (s *StatusResponse) UnmarshalJSON(data []byte) error {
	type alias StatusResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = StatusResponse(a)
	// сырое тело для альтернативных путей извлечения merchantTransactionId
	_ = json.Unmarshal(data, &s.raw)
	return nil
}

// OrderReference извлекает идентификатор заказа из ответа процессора.
// Порядок разрешения фиксирован: типизированное поле верхнего уровня,
// затем значение по ключу из сырого объекта, затем customParameters.
func (s *StatusResponse) OrderReference() string {
	if v := strings.TrimSpace(s.MerchantTransactionID); v != "" {
		return v
	}
	if rawVal, ok := s.raw["merchantTransactionId"]; ok {
		var v string
		if err := json.Unmarshal(rawVal, &v); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(s.CustomParameters.MerchantTransactionID)
}

// PaymentStatus запрашивает финальный статус платежа по opaque-токену resourcePath,
// выданному процессором после завершения оплаты.
func (c *Client) PaymentStatus(ctx context.Context, resourcePath string) (*StatusResponse, error) {
	const op = "hyperpay.PaymentStatus"

	path := strings.TrimPrefix(resourcePath, "/")
	reqURL := c.baseURL + path + "?entityId=" + url.QueryEscape(c.entityID)
	c.log.Info("querying payment status", slog.String("op", op), slog.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	var out StatusResponse
	if err := json.Unmarshal(body, &out); err != nil {
		c.log.Error("non-JSON response from gateway",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &apperr.UpstreamError{Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("gateway status error",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("code", out.Result.Code),
			slog.String("description", out.Result.Description),
		)
		return nil, &apperr.UpstreamError{
			Status:      resp.StatusCode,
			Code:        out.Result.Code,
			Description: out.Result.Description,
		}
	}

	c.log.Info("payment status received",
		slog.String("op", op),
		slog.String("code", out.Result.Code),
		slog.String("orderId", out.OrderReference()),
	)
	return &out, nil
}

// WidgetScriptURL возвращает URL скрипта платежного виджета для клиентской формы.
func (c *Client) WidgetScriptURL() string {
	return c.baseURL + "v1/paymentWidgets.js"
}

// IsSuccessCode классифицирует результат по документированной конвенции процессора:
// коды с префиксом "000." (или ровно "000.000.000") — успешные или приемлемо-ожидающие
// транзакции. Только точное сравнение префикса, без разбора кода.
func IsSuccessCode(code string) bool {
	return strings.HasPrefix(code, "000.") || code == "000.000.000"
}

func setIfPresent(form url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		form.Set(key, v)
	}
}
