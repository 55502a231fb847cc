package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mkhwld/store-backend/internal/app"
	"github.com/mkhwld/store-backend/internal/app/handlers"
	"github.com/mkhwld/store-backend/internal/config"
	"github.com/mkhwld/store-backend/internal/gateway/hyperpay"
	"github.com/mkhwld/store-backend/internal/gateway/paylink"
	"github.com/mkhwld/store-backend/internal/jwt-new/jwtmiddleware"
	"github.com/mkhwld/store-backend/internal/lib/logger"
	"github.com/mkhwld/store-backend/internal/lib/logger/handlers/urllog"
	"github.com/mkhwld/store-backend/internal/service"
	"github.com/mkhwld/store-backend/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения: конфиг, подключение к БД и опциональный Redis
	application, err := app.NewApp(context.Background(), log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()
	defer application.Cache.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	storeRepo := storage.NewStoreRepository(application.DB)
	billboardRepo := storage.NewBillboardRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	sizeRepo := storage.NewSizeRepository(application.DB)
	colorRepo := storage.NewColorRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	metadataRepo := storage.NewMetadataRepository(application.DB)

	// платежные шлюзы
	widgetGateway := hyperpay.New(cfg.Payments.HyperPay, log)
	hostedGateway := paylink.New(cfg.Payments.PayLink, log)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	checkoutService := service.NewCheckoutService(application.Logger, productRepo, orderRepo, widgetGateway, hostedGateway, cfg.Payments)
	statusService := service.NewStatusService(application.Logger, orderRepo, widgetGateway)
	orderService := service.NewOrderService(application.Logger, orderRepo)
	productService := service.NewProductService(application.Logger, productRepo, application.Cache)

	// эндпоинт для аутентификации
	router.Post("/api/auth", handlers.AuthHandler(application.Logger, authService))

	// публичные витринные маршруты
	router.Get("/api/{storeID}/billboards", handlers.ListBillboardsHandler(application.Logger, billboardRepo))
	router.Get("/api/{storeID}/billboards/{billboardID}", handlers.GetBillboardHandler(application.Logger, billboardRepo))
	router.Get("/api/{storeID}/categories", handlers.ListCategoriesHandler(application.Logger, categoryRepo))
	router.Get("/api/{storeID}/categories/{categoryID}", handlers.GetCategoryHandler(application.Logger, categoryRepo))
	router.Get("/api/{storeID}/sizes", handlers.ListSizesHandler(application.Logger, sizeRepo))
	router.Get("/api/{storeID}/sizes/{sizeID}", handlers.GetSizeHandler(application.Logger, sizeRepo))
	router.Get("/api/{storeID}/colors", handlers.ListColorsHandler(application.Logger, colorRepo))
	router.Get("/api/{storeID}/colors/{colorID}", handlers.GetColorHandler(application.Logger, colorRepo))
	router.Get("/api/{storeID}/products", handlers.ListProductsHandler(application.Logger, productService))
	router.Get("/api/{storeID}/products/{productID}", handlers.GetProductHandler(application.Logger, productService))
	router.Get("/api/{storeID}/metadata", handlers.GetMetadataHandler(application.Logger, metadataRepo))

	// чекаут доступен витрине с любого origin; OPTIONS — CORS preflight
	router.Group(func(r chi.Router) {
		r.Use(handlers.CheckoutCORS)
		r.Post("/api/{storeID}/checkout", handlers.WidgetCheckoutHandler(application.Logger, checkoutService))
		r.Post("/api/{storeID}/checkout/cash", handlers.CashCheckoutHandler(application.Logger, checkoutService))
		r.Post("/api/{storeID}/checkout/hosted", handlers.HostedCheckoutHandler(application.Logger, checkoutService))
		r.Get("/api/{storeID}/checkout/status", handlers.PaymentStatusHandler(application.Logger, statusService))
		r.Post("/api/{storeID}/checkout/status", handlers.PaymentStatusHandler(application.Logger, statusService))
		r.Options("/api/{storeID}/checkout", handlers.PreflightHandler())
		r.Options("/api/{storeID}/checkout/cash", handlers.PreflightHandler())
		r.Options("/api/{storeID}/checkout/hosted", handlers.PreflightHandler())
		r.Options("/api/{storeID}/checkout/status", handlers.PreflightHandler())
	})

	// админские маршруты под JWT
	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)

		r.Post("/api/stores", handlers.CreateStoreHandler(application.Logger, storeRepo))
		r.Get("/api/stores", handlers.ListStoresHandler(application.Logger, storeRepo))

		r.Patch("/api/order/{orderID}/toggle-paid", handlers.TogglePaidHandler(application.Logger, orderService))

		r.Get("/api/{storeID}/orders", handlers.ListOrdersHandler(application.Logger, orderService, storeRepo))

		r.Post("/api/{storeID}/billboards", handlers.CreateBillboardHandler(application.Logger, billboardRepo, storeRepo))
		r.Patch("/api/{storeID}/billboards/{billboardID}", handlers.UpdateBillboardHandler(application.Logger, billboardRepo, storeRepo))
		r.Delete("/api/{storeID}/billboards/{billboardID}", handlers.DeleteBillboardHandler(application.Logger, billboardRepo, storeRepo))

		r.Post("/api/{storeID}/categories", handlers.CreateCategoryHandler(application.Logger, categoryRepo, storeRepo))
		r.Patch("/api/{storeID}/categories/{categoryID}", handlers.UpdateCategoryHandler(application.Logger, categoryRepo, storeRepo))
		r.Delete("/api/{storeID}/categories/{categoryID}", handlers.DeleteCategoryHandler(application.Logger, categoryRepo, storeRepo))

		r.Post("/api/{storeID}/sizes", handlers.CreateSizeHandler(application.Logger, sizeRepo, storeRepo))
		r.Patch("/api/{storeID}/sizes/{sizeID}", handlers.UpdateSizeHandler(application.Logger, sizeRepo, storeRepo))
		r.Delete("/api/{storeID}/sizes/{sizeID}", handlers.DeleteSizeHandler(application.Logger, sizeRepo, storeRepo))

		r.Post("/api/{storeID}/colors", handlers.CreateColorHandler(application.Logger, colorRepo, storeRepo))
		r.Patch("/api/{storeID}/colors/{colorID}", handlers.UpdateColorHandler(application.Logger, colorRepo, storeRepo))
		r.Delete("/api/{storeID}/colors/{colorID}", handlers.DeleteColorHandler(application.Logger, colorRepo, storeRepo))

		r.Post("/api/{storeID}/products", handlers.CreateProductHandler(application.Logger, productService, storeRepo))
		r.Patch("/api/{storeID}/products/{productID}", handlers.UpdateProductHandler(application.Logger, productService, storeRepo))
		r.Delete("/api/{storeID}/products/{productID}", handlers.DeleteProductHandler(application.Logger, productService, storeRepo))

		r.Put("/api/{storeID}/metadata", handlers.UpsertMetadataHandler(application.Logger, metadataRepo, storeRepo))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
