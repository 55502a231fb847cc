package handlers

import "net/http"

// CheckoutCORS — разрешающий CORS для чекаут-эндпоинтов: витрины хостятся
// на других доменах. Админские маршруты этим middleware не оборачиваются.
func CheckoutCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PreflightHandler — заглушка для OPTIONS-маршрутов: заголовки и ранний
// ответ выставляет CheckoutCORS, сюда запрос не доходит.
func PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}
