package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mkhwld/store-backend/internal/app/handlers"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

// fakeAuthService — фиктивная реализация для тестирования.
type fakeAuthService struct {
	token string
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

// fakeCheckoutService — фиктивная реализация интерфейса CheckoutService
type fakeCheckoutService struct {
	orderID string
	widget  *service.WidgetCheckout
	hosted  *service.HostedCheckout
	err     error

	gotStoreID    string
	gotProductIDs []string
	gotDelivery   string
	gotCustomer   service.Customer
	gotBilling    service.Billing
}

func (f *fakeCheckoutService) CreateCashOrder(ctx context.Context, storeID string, productIDs []string, deliveryDetails string) (string, error) {
	f.gotStoreID = storeID
	f.gotProductIDs = productIDs
	f.gotDelivery = deliveryDetails
	return f.orderID, f.err
}

func (f *fakeCheckoutService) PrepareWidgetCheckout(ctx context.Context, storeID string, productIDs []string, customer service.Customer, billing service.Billing) (*service.WidgetCheckout, error) {
	f.gotStoreID = storeID
	f.gotProductIDs = productIDs
	f.gotCustomer = customer
	f.gotBilling = billing
	return f.widget, f.err
}

func (f *fakeCheckoutService) CreateHostedSession(ctx context.Context, storeID string, productIDs []string) (*service.HostedCheckout, error) {
	f.gotStoreID = storeID
	f.gotProductIDs = productIDs
	return f.hosted, f.err
}

// fakeStatusService — фиктивная реализация интерфейса StatusService
type fakeStatusService struct {
	result *service.ReconcileResult
	err    error

	gotResourcePath string
}

func (f *fakeStatusService) Reconcile(ctx context.Context, storeID, resourcePath string) (*service.ReconcileResult, error) {
	f.gotResourcePath = resourcePath
	return f.result, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// newRequestWithStoreID подставляет storeID в chi route context.
func newRequestWithStoreID(method, target, storeID, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("storeID", storeID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAuthHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token", err: nil}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "owner@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status 200 OK")

	var resp struct {
		Token string `json:"token"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, "test-token", resp.Token, "Returned token should match fake token")
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	fakeSvc := &fakeAuthService{}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "owner@example.com", "password":`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid JSON")
}

func TestAuthHandler_ValidationError(t *testing.T) {
	fakeSvc := &fakeAuthService{}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "owner@example.com", "password": "short"}`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for validation error")
}

func TestAuthHandler_LoginError(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "", err: assert.AnError}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "owner@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 for login error")
}

func TestCashCheckoutHandler_Success(t *testing.T) {
	fakeSvc := &fakeCheckoutService{orderID: "order-1"}
	handler := handlers.CashCheckoutHandler(testLogger(), fakeSvc)

	body := `{"productsIds": ["p1", "p2"], "deliveryDetails": {"phone": "0790000000"}}`
	req := newRequestWithStoreID("POST", "/api/store-1/checkout/cash", "store-1", body)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "order-1", resp.OrderID)

	assert.Equal(t, "store-1", fakeSvc.gotStoreID)
	assert.Equal(t, []string{"p1", "p2"}, fakeSvc.gotProductIDs)
	// детали доставки передаются как есть, сырым JSON
	assert.JSONEq(t, `{"phone": "0790000000"}`, fakeSvc.gotDelivery)
}

func TestCashCheckoutHandler_EmptyProducts(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: apperr.NewValidation("product ids are required")}
	handler := handlers.CashCheckoutHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("POST", "/api/store-1/checkout/cash", "store-1", `{"productsIds": []}`)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for empty cart")
}

func TestWidgetCheckoutHandler_Success(t *testing.T) {
	fakeSvc := &fakeCheckoutService{widget: &service.WidgetCheckout{
		CheckoutID:       "chk-123",
		OrderID:          "order-1",
		StoreID:          "store-1",
		ShopperResultURL: "https://shop.example.com/payment/result?storeId=store-1",
		WidgetScriptURL:  "https://eu-test.oppwa.com/v1/paymentWidgets.js",
	}}
	handler := handlers.WidgetCheckoutHandler(testLogger(), fakeSvc)

	body := `{
		"productIds": ["p1"],
		"customer": {"email": "a@b.c", "givenName": "Amal", "surname": "Haddad"},
		"billing": {"street1": "Main St 1", "city": "Amman", "country": "JO", "postcode": "11118"}
	}`
	req := newRequestWithStoreID("POST", "/api/store-1/checkout", "store-1", body)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp service.WidgetCheckout
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "chk-123", resp.CheckoutID)
	assert.Equal(t, "order-1", resp.OrderID)

	assert.Equal(t, "Amal", fakeSvc.gotCustomer.GivenName)
	assert.Equal(t, "Amman", fakeSvc.gotBilling.City)
}

func TestWidgetCheckoutHandler_MissingFields(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: apperr.MissingFields("customer.email", "billing.city")}
	handler := handlers.WidgetCheckoutHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("POST", "/api/store-1/checkout", "store-1", `{"productIds": ["p1"]}`)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error string `json:"error"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	// в ответе перечислены имена отсутствующих полей
	assert.Contains(t, resp.Error, "customer.email")
	assert.Contains(t, resp.Error, "billing.city")
}

func TestWidgetCheckoutHandler_UpstreamError(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: &apperr.UpstreamError{
		Status:      403,
		Code:        "800.900.300",
		Description: "invalid authentication",
	}}
	handler := handlers.WidgetCheckoutHandler(testLogger(), fakeSvc)

	body := `{
		"productIds": ["p1"],
		"customer": {"email": "a@b.c", "givenName": "Amal", "surname": "Haddad"},
		"billing": {"street1": "Main St 1", "city": "Amman", "country": "JO", "postcode": "11118"}
	}`
	req := newRequestWithStoreID("POST", "/api/store-1/checkout", "store-1", body)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code, "Expected status 500 for upstream error")
}

func TestHostedCheckoutHandler_Success(t *testing.T) {
	fakeSvc := &fakeCheckoutService{hosted: &service.HostedCheckout{
		OrderID: "order-1",
		URL:     "https://pay.example.com/session/abc",
	}}
	handler := handlers.HostedCheckoutHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("POST", "/api/store-1/checkout/hosted", "store-1", `{"productIds": ["p1", "p2"]}`)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp service.HostedCheckout
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/abc", resp.URL)
}

func TestHostedCheckoutHandler_Misconfigured(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: apperr.Misconfigured("PAYLINK_BASE_URL")}
	handler := handlers.HostedCheckoutHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("POST", "/api/store-1/checkout/hosted", "store-1", `{"productIds": ["p1"]}`)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code, "Expected status 500 for misconfiguration")
}

func TestPaymentStatusHandler_GetQuery(t *testing.T) {
	fakeSvc := &fakeStatusService{result: &service.ReconcileResult{
		Success: true,
		OrderID: "order-1",
		StoreID: "store-1",
	}}
	handler := handlers.PaymentStatusHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("GET", "/api/store-1/checkout/status?resourcePath=%2Fv1%2Fcheckouts%2Fabc%2Fpayment", "store-1", "")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/v1/checkouts/abc/payment", fakeSvc.gotResourcePath)

	var resp service.ReconcileResult
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "order-1", resp.OrderID)
}

func TestPaymentStatusHandler_PostBody(t *testing.T) {
	fakeSvc := &fakeStatusService{result: &service.ReconcileResult{
		Success: false,
		OrderID: "order-1",
		StoreID: "store-1",
	}}
	handler := handlers.PaymentStatusHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("POST", "/api/store-1/checkout/status", "store-1", `{"resourcePath": "/v1/checkouts/abc/payment"}`)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// неуспешный платеж — не ошибка HTTP: клиент читает success=false
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp service.ReconcileResult
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestPaymentStatusHandler_MissingResourcePath(t *testing.T) {
	fakeSvc := &fakeStatusService{err: apperr.NewValidation("resourcePath is required")}
	handler := handlers.PaymentStatusHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("GET", "/api/store-1/checkout/status", "store-1", "")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 without resourcePath")
}

func TestPaymentStatusHandler_UnknownOrder(t *testing.T) {
	fakeSvc := &fakeStatusService{err: apperr.NotFound("order")}
	handler := handlers.PaymentStatusHandler(testLogger(), fakeSvc)

	req := newRequestWithStoreID("GET", "/api/store-1/checkout/status?resourcePath=%2Fv1%2Fcheckouts%2Fabc%2Fpayment", "store-1", "")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for unknown order")
}

func TestCheckoutCORS_Preflight(t *testing.T) {
	handler := handlers.CheckoutCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the next handler")
	}))

	req := httptest.NewRequest("OPTIONS", "/api/store-1/checkout", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestCheckoutCORS_PassThrough(t *testing.T) {
	called := false
	handler := handlers.CheckoutCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/store-1/checkout", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.True(t, called, "POST request should reach the handler")
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
