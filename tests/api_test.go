package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

const baseURL = "http://localhost:8080"

// AuthResponse структура ответа при аутентификации
type AuthResponse struct {
	Token string `json:"token"`
}

// StoreResponse — магазин, возвращаемый /api/stores
type StoreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CashCheckoutResponse — ответ на оформление заказа с оплатой при доставке
type CashCheckoutResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

func authenticateUser(t *testing.T, email, password string) string {
	reqBody := []byte(`{"email": "` + email + `", "password": "` + password + `"}`)
	resp, err := http.Post(baseURL+"/api/auth", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err, "Auth request should not error")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "Expected 200 OK for valid auth")

	var authResp AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	assert.NoError(t, err, "Decoding auth response should succeed")
	assert.NotEmpty(t, authResp.Token, "Token should not be empty")
	return authResp.Token
}

func createStore(t *testing.T, token, name string) string {
	reqBody := []byte(`{"name": "` + name + `"}`)
	req, err := http.NewRequest("POST", baseURL+"/api/stores", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "expected 201 for store creation")

	var store StoreResponse
	err = json.NewDecoder(resp.Body).Decode(&store)
	assert.NoError(t, err)
	assert.NotEmpty(t, store.ID)
	return store.ID
}

// сценарий с успешной аутентификацией владельца
func TestAuth(t *testing.T) {
	token := authenticateUser(t, "owner@test.com", "testpass123")
	assert.NotEmpty(t, token, "token should be obtained")
}

// сценарий с безуспешной аутентификацией
func TestAuthInvalid(t *testing.T) {
	reqBody := []byte(`{"email": "", "password": ""}`)
	resp, err := http.Post(baseURL+"/api/auth", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for invalid auth")
}

// сценарий создания магазина и получения списка
func TestCreateAndListStores(t *testing.T) {
	token := authenticateUser(t, "storeowner@test.com", "testpass123")
	storeID := createStore(t, token, "My Store")
	assert.NotEmpty(t, storeID)

	req, err := http.NewRequest("GET", baseURL+"/api/stores", nil)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stores []StoreResponse
	err = json.NewDecoder(resp.Body).Decode(&stores)
	assert.NoError(t, err)
	assert.NotEmpty(t, stores, "owner should see the created store")
}

// сценарий создания магазина без токена
func TestCreateStoreUnauthorized(t *testing.T) {
	reqBody := []byte(`{"name": "Rogue Store"}`)
	resp, err := http.Post(baseURL+"/api/stores", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 without token")
}

// сценарий записи в каталог чужого магазина
func TestForeignStoreForbidden(t *testing.T) {
	tokenA := authenticateUser(t, "ownerA@test.com", "testpass123")
	storeID := createStore(t, tokenA, "Store A")

	tokenB := authenticateUser(t, "ownerB@test.com", "testpass123")

	reqBody := []byte(`{"label": "Sale", "imageUrl": "https://cdn.example.com/sale.jpg"}`)
	req, err := http.NewRequest("POST", baseURL+"/api/"+storeID+"/billboards", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokenB)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "foreign owner must not write to the store")
}

// сценарий оформления заказа с пустой корзиной
func TestCashCheckoutEmptyCart(t *testing.T) {
	tokenA := authenticateUser(t, "cashowner@test.com", "testpass123")
	storeID := createStore(t, tokenA, "Cash Store")

	reqBody := []byte(`{"productsIds": []}`)
	resp, err := http.Post(baseURL+"/api/"+storeID+"/checkout/cash", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for empty cart")
}

// сценарий запроса статуса платежа без resourcePath
func TestPaymentStatusMissingResourcePath(t *testing.T) {
	tokenA := authenticateUser(t, "statusowner@test.com", "testpass123")
	storeID := createStore(t, tokenA, "Status Store")

	resp, err := http.Get(baseURL + "/api/" + storeID + "/checkout/status")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 without resourcePath")
}

// сценарий CORS preflight для чекаута
func TestCheckoutPreflight(t *testing.T) {
	req, err := http.NewRequest("OPTIONS", baseURL+"/api/any-store/checkout", nil)
	assert.NoError(t, err)
	req.Header.Set("Origin", "https://storefront.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// сценарий публичного чтения каталога без токена
func TestPublicCatalogRead(t *testing.T) {
	tokenA := authenticateUser(t, "catalogowner@test.com", "testpass123")
	storeID := createStore(t, tokenA, "Catalog Store")

	resp, err := http.Get(baseURL + "/api/" + storeID + "/products")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "catalog reads are public")
}
