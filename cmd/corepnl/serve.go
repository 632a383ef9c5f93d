package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	authapp "github.com/wyfcoding/corepnl/internal/auth/application"
	authpersistence "github.com/wyfcoding/corepnl/internal/auth/infrastructure/persistence"
	"github.com/wyfcoding/corepnl/internal/auth/infrastructure/password"
	authredis "github.com/wyfcoding/corepnl/internal/auth/infrastructure/redis"
	"github.com/wyfcoding/corepnl/internal/auth/infrastructure/token"
	cartapp "github.com/wyfcoding/corepnl/internal/cart/application"
	catalogapp "github.com/wyfcoding/corepnl/internal/catalog/application"
	catalogpersistence "github.com/wyfcoding/corepnl/internal/catalog/infrastructure/persistence"
	checkoutapp "github.com/wyfcoding/corepnl/internal/checkout/application"
	entitlementapp "github.com/wyfcoding/corepnl/internal/entitlement/application"
	entitlementpersistence "github.com/wyfcoding/corepnl/internal/entitlement/infrastructure/persistence"
	notifications "github.com/wyfcoding/corepnl/internal/notification/infrastructure"
	storefrontapp "github.com/wyfcoding/corepnl/internal/storefront/application"
	storefrontinfra "github.com/wyfcoding/corepnl/internal/storefront/infrastructure"
	httpserver "github.com/wyfcoding/corepnl/internal/storefront/interfaces/http"
	"github.com/wyfcoding/corepnl/pkg/cache"
	"github.com/wyfcoding/corepnl/pkg/config"
	"github.com/wyfcoding/corepnl/pkg/logger"
	"github.com/wyfcoding/corepnl/pkg/metrics"
	"github.com/wyfcoding/corepnl/pkg/middleware"
	"github.com/wyfcoding/corepnl/pkg/mq"
	"github.com/wyfcoding/corepnl/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

// janitorInterval 闲置访问会话的检查周期
const janitorInterval = time.Minute

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	// 1. 指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry, cfg.ServiceName)

	// 2. 数据库
	database, err := openDatabase(parent, cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	if cfg.Database.AutoMigrate {
		if err := migrate(parent, database); err != nil {
			return err
		}
	}

	// 3. Redis
	rdb, err := cache.NewClient(parent, cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// 4. 事件发布
	publisher := mq.NewPublisher(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	defer publisher.Close()

	// 5. 仓储
	productRepo := catalogpersistence.NewProductRepository(database.DB)
	purchaseRepo := entitlementpersistence.NewPurchaseRepository(database.DB)
	userRepo := authpersistence.NewUserRepository(database.DB)
	sessionRepo := authredis.NewSessionRedisRepository(rdb)

	scheme, err := password.New(cfg.Auth.PasswordScheme)
	if err != nil {
		return err
	}

	// 6. 应用服务
	inbox := notifications.NewInbox(cfg.Storefront.NoticeTTL)
	notifier := notifications.Fanout{inbox, notifications.NewLogNotifier()}

	catalogSvc := catalogapp.NewCatalogService(productRepo, m)
	entitlementSvc := entitlementapp.NewEntitlementService(purchaseRepo)
	cartSvc := cartapp.NewCartService(notifier, m)
	checkoutSvc := checkoutapp.NewCheckoutService(
		checkoutapp.NewPersistedCommitter(purchaseRepo, entitlementSvc),
		notifier, publisher, m, cfg.Storefront.AnonymousPrefix,
	)
	authSvc := authapp.NewAuthService(userRepo, sessionRepo, token.NewJWTIssuer(cfg.Auth.TokenSecret), scheme, publisher, cfg.Auth.SessionTTL)
	store := storefrontapp.NewStorefront(
		storefrontinfra.NewMemoryVisitRegistry(),
		catalogSvc, entitlementSvc, cartSvc, checkoutSvc, authSvc, inbox, notifier, m,
	)

	// 7. 接口层
	if cfg.Environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinRequestIDMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(cfg.HTTP.AllowOrigins),
	)
	if cfg.Metrics.Enabled {
		r.Use(m.GinMiddleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	var loginLimiter ratelimit.RateLimiter = ratelimit.NewRedisRateLimiter(rdb, "corepnl:ratelimit:")
	if cfg.Auth.LoginRate <= 0 {
		logger.Info(parent, "Login rate limiting disabled")
		loginLimiter = ratelimit.Unlimited{}
	}
	loginGuard := middleware.GinRateLimitMiddleware(
		loginLimiter,
		"login",
		ratelimit.PerMinute(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
		func(c *gin.Context) { m.LoginsTotal.WithLabelValues("limited").Inc() },
	)
	httpserver.NewStorefrontHandler(store, httpserver.Options{
		SecureCookie: cfg.Environment == "prod",
		VisitTTL:     cfg.Storefront.VisitIdleTimeout,
		LoginGuard:   loginGuard,
	}).RegisterRoutes(r)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 8. 启动
	runCtx, stop := context.WithCancel(parent)
	defer stop()
	g, ctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return store.RunJanitor(ctx, cfg.Storefront.VisitIdleTimeout, janitorInterval)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case <-quit:
			logger.Info(ctx, "shutting down server...")
		case <-ctx.Done():
			logger.Info(ctx, "context cancelled, shutting down...")
		}
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "server exited with error", "error", err)
		return err
	}
	return nil
}
