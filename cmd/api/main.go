package main

import (
	"net/http"
	"os"
	"time"

	"atelier/internal/config"
	"atelier/internal/domain/model"
	"atelier/internal/event"
	"atelier/internal/handler"
	"atelier/internal/infra/db"
	infrarepo "atelier/internal/infra/repository"
	"atelier/internal/metrics"
	mw "atelier/internal/middleware"
	"atelier/internal/notification"
	"atelier/internal/payment"
	"atelier/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func main() {
	// .envは無くてもよい（本番は環境変数直渡し）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)

	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("db connection failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductImage{},
		&model.Review{},
		&model.Coupon{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.WebhookEvent{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	//リポジトリ
	productRepo := infrarepo.NewProductGormRepository(gormDB)
	reviewRepo := infrarepo.NewReviewGormRepository(gormDB)
	couponRepo := infrarepo.NewCouponGormRepository(gormDB)
	orderRepo := infrarepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infrarepo.NewOrderItemGormRepository(gormDB)
	inventoryRepo := infrarepo.NewInventoryGormRepository(gormDB)
	paymentRepo := infrarepo.NewPaymentGormRepository(gormDB)
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	auditRepo := infrarepo.NewAuditLogGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	//メトリクス
	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	//イベント発行（broker未設定なら発行しない）
	var publisher event.Publisher
	if kp := event.NewKafkaPublisher(cfg.KafkaBrokers); kp != nil {
		publisher = kp
		defer kp.Close()
		logger.Info().Str("topic", event.TopicOrders).Msg("kafka publisher enabled")
	}

	//通知（SMTP未設定ならログに出すだけ）
	var notifier notification.Sender
	if cfg.SMTPHost != "" {
		notifier = notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		notifier = &notification.LogSender{Logger: logger}
	}

	paymentClient := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentSecretKey)

	//ユースケース
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret)
	productUC := usecase.NewProductUsecase(txManager, productRepo, reviewRepo, inventoryRepo, auditRepo)
	couponUC := usecase.NewCouponUsecase(couponRepo)
	checkoutUC := usecase.NewCheckoutUsecase(paymentClient, couponUC, usecase.CheckoutConfig{
		Currency:          cfg.Currency,
		SuccessURL:        cfg.CheckoutSuccessURL,
		CancelURL:         cfg.CheckoutCancelURL,
		ShippingCountries: cfg.ShippingCountries,
		ShippingFee:       cfg.ShippingFee,
	}, checkoutMetrics, logger)
	webhookUC := usecase.NewWebhookUsecase(
		txManager, auditRepo, notifier, publisher,
		cfg.PaymentWebhookSecret, cfg.Currency, cfg.ShippingFee,
		checkoutMetrics, logger,
	)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, orderItemRepo, auditRepo, logger)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, auditRepo)

	//ルーティング
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(requestLogger(logger))
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: []string{cfg.FEURL},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}

	//公開エンドポイントとwebhookの流量制限
	limiter := echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(20),
			Burst:     40,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})

	authMW := mw.AuthJWT(cfg)

	handler.NewAuthHandler(authUC).RegisterRoutes(e, authMW)
	handler.NewProductHandler(productUC, authUC).RegisterRoutes(e, authMW)
	handler.NewCouponHandler(couponUC).RegisterRoutes(e, limiter)
	handler.NewCheckoutHandler(checkoutUC, authUC).RegisterRoutes(e, authMW)
	handler.NewWebhookHandler(webhookUC).RegisterRoutes(e, limiter)
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, authMW, limiter)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(e, authMW)
	handler.NewAdminProductHandler(productUC).RegisterRoutes(e, authMW)
	handler.NewAdminCouponHandler(couponUC).RegisterRoutes(e, authMW)
	handler.NewAdminPaymentHandler(paymentUC).RegisterRoutes(e, authMW)
	handler.NewAdminUserHandler(adminUserUC).RegisterRoutes(e, authMW)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	logger.Info().Str("port", cfg.Port).Msg("starting api server")
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.GoEnv == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// 1リクエスト1行のアクセスログ
func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
