package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mkhwld/store-backend/internal/domain/models"
	"github.com/mkhwld/store-backend/internal/gateway/hyperpay"
	"github.com/mkhwld/store-backend/internal/lib/apperr"
	"github.com/mkhwld/store-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStatusGateway возвращает заранее заданный ответ процессора.
type fakeStatusGateway struct {
	resp   *hyperpay.StatusResponse
	err    error
	called int
}

func (f *fakeStatusGateway) PaymentStatus(ctx context.Context, resourcePath string) (*hyperpay.StatusResponse, error) {
	f.called++
	return f.resp, f.err
}

// statusResponse собирает StatusResponse через его собственный UnmarshalJSON,
// как оно происходит в реальном клиенте.
func statusResponse(t *testing.T, body string) *hyperpay.StatusResponse {
	t.Helper()
	var resp hyperpay.StatusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return &resp
}

func seedOrder(repo *fakeOrderRepo, storeID string) *models.Order {
	order, _ := repo.CreateOrder(context.Background(), &models.Order{
		StoreID: storeID,
		Price:   price("10.500"),
	})
	return order
}

func TestReconcile_SuccessMarksPaid(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	order := seedOrder(orderRepo, "store-1")

	gateway := &fakeStatusGateway{resp: statusResponse(t,
		`{"merchantTransactionId": "`+order.ID+`", "result": {"code": "000.000.100", "description": "successfully processed"}}`,
	)}
	svc := service.NewStatusService(testLogger(), orderRepo, gateway)

	result, err := svc.Reconcile(context.Background(), "store-1", "/v1/checkouts/abc/payment")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, order.ID, result.OrderID)
	assert.Equal(t, "store-1", result.StoreID)
	assert.True(t, orderRepo.orders[order.ID].IsPaid)
}

func TestReconcile_Idempotent(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	order := seedOrder(orderRepo, "store-1")

	gateway := &fakeStatusGateway{resp: statusResponse(t,
		`{"merchantTransactionId": "`+order.ID+`", "result": {"code": "000.100.110"}}`,
	)}
	svc := service.NewStatusService(testLogger(), orderRepo, gateway)

	// повторная реконсиляция того же платежа безопасна
	for i := 0; i < 2; i++ {
		result, err := svc.Reconcile(context.Background(), "store-1", "/v1/checkouts/abc/payment")
		require.NoError(t, err)
		assert.True(t, result.Success)
	}
	assert.True(t, orderRepo.orders[order.ID].IsPaid)
	assert.Equal(t, 2, gateway.called)
}

func TestReconcile_FailureCodeDoesNotMutate(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	order := seedOrder(orderRepo, "store-1")

	gateway := &fakeStatusGateway{resp: statusResponse(t,
		`{"merchantTransactionId": "`+order.ID+`", "result": {"code": "100.396.101", "description": "cancelled by user"}}`,
	)}
	svc := service.NewStatusService(testLogger(), orderRepo, gateway)

	result, err := svc.Reconcile(context.Background(), "store-1", "/v1/checkouts/abc/payment")
	require.NoError(t, err, "declined payment is a result, not an error")

	assert.False(t, result.Success)
	assert.False(t, orderRepo.orders[order.ID].IsPaid, "declined payment must not mark the order paid")
}

func TestReconcile_EmptyResourcePath(t *testing.T) {
	gateway := &fakeStatusGateway{}
	svc := service.NewStatusService(testLogger(), newFakeOrderRepo(), gateway)

	_, err := svc.Reconcile(context.Background(), "store-1", "")

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, gateway.called, "gateway must not be queried without resourcePath")
}

func TestReconcile_NoOrderReference(t *testing.T) {
	gateway := &fakeStatusGateway{resp: statusResponse(t,
		`{"result": {"code": "000.000.100"}}`,
	)}
	svc := service.NewStatusService(testLogger(), newFakeOrderRepo(), gateway)

	_, err := svc.Reconcile(context.Background(), "store-1", "/v1/checkouts/abc/payment")

	var notFoundErr *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestReconcile_UnknownOrder(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	gateway := &fakeStatusGateway{resp: statusResponse(t,
		`{"merchantTransactionId": "ghost", "result": {"code": "000.000.100"}}`,
	)}
	svc := service.NewStatusService(testLogger(), orderRepo, gateway)

	_, err := svc.Reconcile(context.Background(), "store-1", "/v1/checkouts/abc/payment")

	var notFoundErr *apperr.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Empty(t, orderRepo.orders, "no order may be mutated")
}

func TestReconcile_OrderFromAnotherStore(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	order := seedOrder(orderRepo, "store-2")

	gateway := &fakeStatusGateway{resp: statusResponse(t,
		`{"merchantTransactionId": "`+order.ID+`", "result": {"code": "000.000.100"}}`,
	)}
	svc := service.NewStatusService(testLogger(), orderRepo, gateway)

	// заказ существует, но в другом магазине — сверка его не видит
	_, err := svc.Reconcile(context.Background(), "store-1", "/v1/checkouts/abc/payment")

	var notFoundErr *apperr.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.False(t, orderRepo.orders[order.ID].IsPaid)
}

func TestTogglePaid_Flips(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	order := seedOrder(orderRepo, "store-1")
	svc := service.NewOrderService(testLogger(), orderRepo)

	toggled, err := svc.TogglePaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPaid)

	toggled, err = svc.TogglePaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPaid, "second toggle flips back")
}

func TestTogglePaid_UnknownOrder(t *testing.T) {
	svc := service.NewOrderService(testLogger(), newFakeOrderRepo())

	_, err := svc.TogglePaid(context.Background(), "ghost")

	var notFoundErr *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}
