package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mkhwld/store-backend/internal/config"
	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/gateway/hyperpay"
	"github.com/mkhwld/store-backend/internal/gateway/paylink"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/storage"
	"github.com/shopspring/decimal"
)

// WidgetGateway — подготовка виджетного чекаута (HyperPay COPYandPAY).
type WidgetGateway interface {
	PrepareCheckout(ctx context.Context, p hyperpay.CheckoutParams) (*hyperpay.CheckoutResponse, error)
	WidgetScriptURL() string
}

// HostedGateway — создание hosted-сессии с редиректом на страницу оплаты.
type HostedGateway interface {
	CreateSession(ctx context.Context, req paylink.SessionRequest) (*paylink.SessionResponse, error)
}

// Customer — обязательные данные покупателя для виджетного потока.
type Customer struct {
	Email     string `json:"email"`
	GivenName string `json:"givenName"`
	Surname   string `json:"surname"`
}

// Billing — платежный адрес; State необязателен.
type Billing struct {
	Street1  string `json:"street1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
}

// WidgetCheckout — результат подготовки виджетного чекаута.
type WidgetCheckout struct {
	CheckoutID       string `json:"checkoutId"`
	OrderID          string `json:"orderId"`
	StoreID          string `json:"storeId"`
	Integrity        string `json:"integrity,omitempty"`
	ShopperResultURL string `json:"shopperResultUrl"`
	WidgetScriptURL  string `json:"widgetScriptUrl"`
}

// HostedCheckout — результат создания hosted-сессии: URL для редиректа покупателя.
type HostedCheckout struct {
	OrderID string `json:"orderId"`
	URL     string `json:"url"`
}

type CheckoutService interface {
	// CreateCashOrder создает неоплаченный заказ без обращения к процессору.
	CreateCashOrder(ctx context.Context, storeID string, productIDs []string, deliveryDetails string) (string, error)
	// PrepareWidgetCheckout создает заказ и готовит виджетную сессию процессора.
	PrepareWidgetCheckout(ctx context.Context, storeID string, productIDs []string, customer Customer, billing Billing) (*WidgetCheckout, error)
	// CreateHostedSession создает заказ и hosted-сессию, возвращает URL редиректа.
	CreateHostedSession(ctx context.Context, storeID string, productIDs []string) (*HostedCheckout, error)
}

type checkoutService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	widget      WidgetGateway
	hosted      HostedGateway
	payments    config.PaymentsConfig
}

func NewCheckoutService(
	log *slog.Logger,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	widget WidgetGateway,
	hosted HostedGateway,
	payments config.PaymentsConfig,
) CheckoutService {
	return &checkoutService{
		log:         log,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		widget:      widget,
		hosted:      hosted,
		payments:    payments,
	}
}

// createOrder — общий шаг интейка: один batch-запрос товаров, подсчет суммы
// на стороне сервера (клиентским ценам не доверяем) и атомарная вставка заказа
// с позициями. Цена каждой позиции — снимок текущей цены товара; итог равен
// сумме снимков и после создания не пересчитывается.
func (s *checkoutService) createOrder(ctx context.Context, storeID string, productIDs []string, deliveryDetails string) (*models.Order, []*models.Product, error) {
	const op = "service.CheckoutService.createOrder"
	logger := s.log.With(slog.String("op", op), slog.String("storeID", storeID))

	if storeID == "" {
		return nil, nil, apperr.NewValidation("store id is required")
	}
	if len(productIDs) == 0 {
		return nil, nil, apperr.NewValidation("product ids are required")
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		logger.Error("failed to load products", slog.Any("error", err))
		return nil, nil, fmt.Errorf("%s: failed to load products: %w", op, err)
	}

	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	total := decimal.Zero
	items := make([]*models.OrderItem, 0, len(productIDs))
	var missing []string
	for _, productID := range productIDs {
		price := decimal.Zero
		if p, ok := byID[productID]; ok {
			price = p.Price
		} else {
			// несопоставленный id дает нулевую цену; заказ не отклоняется
			missing = append(missing, productID)
		}
		items = append(items, &models.OrderItem{
			ProductID: productID,
			Price:     price,
		})
		total = total.Add(price)
	}
	if len(missing) > 0 {
		logger.Warn("unmatched product ids contribute zero price",
			slog.Any("productIDs", missing),
		)
	}

	order := &models.Order{
		StoreID:         storeID,
		Price:           total,
		DeliveryDetails: deliveryDetails,
		Items:           items,
	}
	order, err = s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	logger.Info("order created",
		slog.String("orderID", order.ID),
		slog.String("total", order.Price.StringFixed(2)),
	)
	return order, products, nil
}

func (s *checkoutService) CreateCashOrder(ctx context.Context, storeID string, productIDs []string, deliveryDetails string) (string, error) {
	order, _, err := s.createOrder(ctx, storeID, productIDs, deliveryDetails)
	if err != nil {
		return "", err
	}
	return order.ID, nil
}

func (s *checkoutService) PrepareWidgetCheckout(ctx context.Context, storeID string, productIDs []string, customer Customer, billing Billing) (*WidgetCheckout, error) {
	const op = "service.CheckoutService.PrepareWidgetCheckout"
	logger := s.log.With(slog.String("op", op), slog.String("storeID", storeID))

	order, _, err := s.createOrder(ctx, storeID, productIDs, "")
	if err != nil {
		return nil, err
	}

	frontendURL := strings.TrimSuffix(s.payments.FrontendStoreURL, "/")
	if frontendURL == "" {
		logger.Error("frontend store URL is not configured")
		return nil, apperr.Misconfigured("FRONTEND_STORE_URL")
	}

	customer.Email = strings.TrimSpace(customer.Email)
	customer.GivenName = strings.TrimSpace(customer.GivenName)
	customer.Surname = strings.TrimSpace(customer.Surname)
	billing.Street1 = strings.TrimSpace(billing.Street1)
	billing.City = strings.TrimSpace(billing.City)
	billing.State = strings.TrimSpace(billing.State)
	billing.Country = strings.TrimSpace(billing.Country)
	billing.Postcode = strings.TrimSpace(billing.Postcode)

	// обязательные для боевого режима поля; state необязателен
	var missing []string
	if customer.Email == "" {
		missing = append(missing, "customer.email")
	}
	if customer.GivenName == "" {
		missing = append(missing, "customer.givenName")
	}
	if customer.Surname == "" {
		missing = append(missing, "customer.surname")
	}
	if billing.Street1 == "" {
		missing = append(missing, "billing.street1")
	}
	if billing.City == "" {
		missing = append(missing, "billing.city")
	}
	if billing.Country == "" {
		missing = append(missing, "billing.country")
	}
	if billing.Postcode == "" {
		missing = append(missing, "billing.postcode")
	}
	if len(missing) > 0 {
		logger.Error("missing mandatory fields", slog.Any("fields", missing))
		return nil, apperr.MissingFields(missing...)
	}

	resp, err := s.widget.PrepareCheckout(ctx, hyperpay.CheckoutParams{
		Amount:                order.Price.StringFixed(2),
		Currency:              s.payments.Currency,
		MerchantTransactionID: order.ID,
		CustomerEmail:         customer.Email,
		CustomerGivenName:     customer.GivenName,
		CustomerSurname:       customer.Surname,
		BillingStreet1:        billing.Street1,
		BillingCity:           billing.City,
		BillingState:          billing.State,
		BillingCountry:        billing.Country,
		BillingPostcode:       billing.Postcode,
	})
	if err != nil {
		// заказ остается неоплаченным, локальных ретраев нет
		logger.Error("checkout preparation failed",
			slog.String("orderID", order.ID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &WidgetCheckout{
		CheckoutID:       resp.ID,
		OrderID:          order.ID,
		StoreID:          storeID,
		Integrity:        resp.Integrity,
		ShopperResultURL: frontendURL + "/payment/result?storeId=" + url.QueryEscape(storeID),
		WidgetScriptURL:  s.widget.WidgetScriptURL(),
	}, nil
}

func (s *checkoutService) CreateHostedSession(ctx context.Context, storeID string, productIDs []string) (*HostedCheckout, error) {
	const op = "service.CheckoutService.CreateHostedSession"
	logger := s.log.With(slog.String("op", op), slog.String("storeID", storeID))

	if s.payments.PayLink.BaseURL == "" {
		logger.Error("hosted gateway base URL is not configured")
		return nil, apperr.Misconfigured("PAYLINK_BASE_URL")
	}
	frontendURL := strings.TrimSuffix(s.payments.FrontendStoreURL, "/")
	if frontendURL == "" {
		logger.Error("frontend store URL is not configured")
		return nil, apperr.Misconfigured("FRONTEND_STORE_URL")
	}

	order, products, err := s.createOrder(ctx, storeID, productIDs, "")
	if err != nil {
		return nil, err
	}

	// одна позиция на каждый найденный товар, сумма в минорных единицах валюты
	lineItems := make([]paylink.LineItem, 0, len(products))
	for _, p := range products {
		lineItems = append(lineItems, paylink.LineItem{
			Name:       p.Name,
			UnitAmount: minorUnits(p.Price, s.payments.Currency),
			Quantity:   1,
			Currency:   s.payments.Currency,
		})
	}

	resp, err := s.hosted.CreateSession(ctx, paylink.SessionRequest{
		LineItems:  lineItems,
		SuccessURL: frontendURL + "/cart?success=1",
		CancelURL:  frontendURL + "/cart?canceled=1",
		Metadata:   map[string]string{"orderId": order.ID},
	})
	if err != nil {
		// заказ остается неоплаченным и может быть проверен позже
		logger.Error("hosted session creation failed",
			slog.String("orderID", order.ID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &HostedCheckout{OrderID: order.ID, URL: resp.URL}, nil
}

// экспоненты минорных единиц для валют, отличных от двухзнаковых
var currencyExponents = map[string]int32{
	"JOD": 3,
	"KWD": 3,
	"BHD": 3,
	"JPY": 0,
}

func minorUnits(price decimal.Decimal, currency string) int64 {
	exp, ok := currencyExponents[strings.ToUpper(currency)]
	if !ok {
		exp = 2
	}
	return price.Shift(exp).Round(0).IntPart()
}
