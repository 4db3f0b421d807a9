package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appcart "github.com/shopmall/backend/internal/application/cart"
	"github.com/shopmall/backend/internal/application/session"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/infrastructure/cache"
	catalogclient "github.com/shopmall/backend/internal/infrastructure/catalog"
	"github.com/shopmall/backend/internal/infrastructure/config"
	"github.com/shopmall/backend/internal/infrastructure/delivery"
	"github.com/shopmall/backend/internal/infrastructure/event"
	"github.com/shopmall/backend/internal/infrastructure/logger"
	orderclient "github.com/shopmall/backend/internal/infrastructure/order"
	"github.com/shopmall/backend/internal/infrastructure/persistence"
	"github.com/shopmall/backend/internal/interfaces/http/handler"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
	"github.com/shopmall/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting cart service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Account tier storage
	db, err := persistence.NewDatabase(cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected")

	// Guest tier storage, merge idempotency and token revocation
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	guestStore := cache.NewRedisGuestCartStore(redisClient, cfg.Cart.GuestCartTTL)
	idempotency := cache.NewRedisIdempotencyStore(redisClient)
	accountStore := persistence.NewGormAccountCartStore(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)

	// Delivery provider; it also backs the geo lookup tree unless a
	// dedicated geo endpoint is configured
	deliveryClient, err := delivery.NewGHNClient(&delivery.GHNConfig{
		BaseURL:        cfg.Delivery.BaseURL,
		Token:          cfg.Delivery.Token,
		ShopID:         cfg.Delivery.ShopID,
		TimeoutSeconds: int(cfg.Delivery.Timeout.Seconds()),
	})
	if err != nil {
		log.Fatal("Failed to configure delivery client", zap.Error(err))
	}
	var geoService address.GeoService = deliveryClient
	if cfg.Geo.BaseURL != "" && cfg.Geo.BaseURL != cfg.Delivery.BaseURL {
		geoClient, err := delivery.NewGHNClient(&delivery.GHNConfig{
			BaseURL:        cfg.Geo.BaseURL,
			Token:          cfg.Delivery.Token,
			ShopID:         cfg.Delivery.ShopID,
			TimeoutSeconds: int(cfg.Geo.Timeout.Seconds()),
		})
		if err != nil {
			log.Fatal("Failed to configure geo client", zap.Error(err))
		}
		geoService = geoClient
	}

	catalogService := catalogclient.NewHTTPClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	orderService := orderclient.NewHTTPClient(cfg.Order.BaseURL, cfg.Order.Timeout)

	// Session events drive the login merge and the logout snapshot
	bus := event.NewInMemoryEventBus(log)
	merger := appcart.NewCartMerger(guestStore, accountStore, bus, log)
	bus.Subscribe(appcart.NewSessionEventHandler(merger, idempotency, log))

	registry := session.NewRegistry(session.Deps{
		GuestStore:      guestStore,
		AccountStore:    accountStore,
		Catalog:         catalogService,
		Delivery:        deliveryClient,
		Addresses:       addressRepo,
		Orders:          orderService,
		Logger:          log,
		PersistDebounce: cfg.Cart.PersistDebounce,
		QuoteTimeout:    cfg.Delivery.Timeout,
	})

	// Evicting idle sessions flushes their debounced carts and bounds memory
	evictStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-evictStop:
				return
			case <-ticker.C:
				if evicted := registry.EvictIdle(session.DefaultMaxIdle); evicted > 0 {
					log.Debug("Evicted idle sessions", zap.Int("count", evicted))
				}
			}
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)

	// HTTP surface
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidations(); err != nil {
		log.Fatal("Failed to register validations", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
	)

	router.NewRouter(engine,
		router.WithMiddleware(middleware.Identity(middleware.IdentityConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			Logger:     log,
		})),
	).
		Register(handler.NewCartHandler(registry)).
		Register(handler.NewCheckoutHandler(registry)).
		Register(handler.NewSessionHandler(registry, bus, jwtService, blacklist)).
		Register(handler.NewAddressHandler(addressRepo)).
		Register(handler.NewGeoHandler(geoService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Flush every live session's debounced cart before the stores go away
	close(evictStop)
	if err := registry.Close(); err != nil {
		log.Error("Failed to flush sessions", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
