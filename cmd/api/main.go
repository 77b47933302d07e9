package main

import (
	"context"
	"fmt"
	"glowify-backend/config"
	"glowify-backend/internal/delivery/http/middleware"
	v1 "glowify-backend/internal/delivery/http/v1"
	"glowify-backend/internal/domain"
	"glowify-backend/internal/infrastructure/cache"
	"glowify-backend/internal/repository/memory"
	"glowify-backend/internal/repository/postgres"
	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/metrics"
	"glowify-backend/pkg/storage"
	"glowify-backend/pkg/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	serviceName    = "glowify-api"
	serviceVersion = "1.0.0"

	productImageFolder = "uploads"
	frameImageFolder   = "frames"
)

// repositories groups the store implementation selected by STORE_DRIVER.
type repositories struct {
	products     domain.ProductRepository
	coupons      domain.CouponRepository
	orders       domain.OrderRepository
	cart         domain.CartRepository
	reviews      domain.ReviewRepository
	customOrders domain.CustomOrderRepository
	stats        domain.StatsRepository
	profiles     domain.ProfileRepository
	txManager    domain.TransactionManager
}

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	metrics.Init(cfg.MetricsPrefix)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize Repositories
	var (
		repos   repositories
		pgxPool *pgxpool.Pool
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		repos = repositories{
			products:     store.Products(),
			coupons:      store.Coupons(),
			orders:       store.Orders(),
			cart:         store.Cart(),
			reviews:      store.Reviews(),
			customOrders: store.CustomOrders(),
			stats:        store.Stats(),
			profiles:     store.Profiles(),
			txManager:    store,
		}
		log.Warn().Msg("Using in-memory store")
	default:
		var err error
		pgxPool, err = postgres.NewPgxPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		log.Info().Msg("Successfully connected to PostgreSQL via pgx")

		if cfg.DBAutoMigrate {
			if err := postgres.Migrate(ctx, pgxPool); err != nil {
				logger.Fatal().Err(err).Msg("Failed to migrate database")
			}
			log.Info().Msg("Database schema is up to date")
		}

		repos = repositories{
			products:     postgres.NewProductRepository(pgxPool),
			coupons:      postgres.NewCouponRepository(pgxPool),
			orders:       postgres.NewOrderRepository(pgxPool),
			cart:         postgres.NewCartRepository(pgxPool),
			reviews:      postgres.NewReviewRepository(pgxPool),
			customOrders: postgres.NewCustomOrderRepository(pgxPool),
			stats:        postgres.NewStatsRepository(pgxPool),
			profiles:     postgres.NewProfileRepository(pgxPool),
			txManager:    postgres.NewTransactionManager(pgxPool),
		}
	}

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// --- Storage Module (R2) ---
	// Product images and customer frame images live in separate folders.
	var images, frameImages domain.ImageStore
	if cfg.R2Enabled() {
		newR2 := func(folder string) domain.ImageStore {
			r2Storage, err := storage.NewR2Storage(
				ctx,
				cfg.R2AccountID,
				cfg.R2AccessKeyID,
				cfg.R2AccessKeySecret,
				cfg.R2BucketName,
				cfg.R2PublicURL,
				folder,
				cfg.R2UploadTimeout,
			)
			if err != nil {
				logger.Fatal().Err(err).Str("folder", folder).Msg("Failed to initialize R2 Storage")
			}
			return r2Storage
		}
		images = newR2(productImageFolder)
		frameImages = newR2(frameImageFolder)
	} else {
		log.Warn().Msg("R2 is not configured, uploads are kept in memory")
		publicURL := fmt.Sprintf("http://localhost:%s/uploads", cfg.Port)
		images = storage.NewMemoryStorage(publicURL, productImageFolder)
		frameImages = storage.NewMemoryStorage(publicURL, frameImageFolder)
	}

	handoff := usecase.HandoffConfig{
		Emails:         cfg.OrderEmails,
		WhatsAppNumber: cfg.OrderWhatsAppNumber,
		CurrencySymbol: cfg.CurrencySymbol,
	}

	// --- Modules Initialization ---
	catalogUC := usecase.NewCatalogUsecase(repos.products, repos.reviews, repos.txManager, memCache, cfg)
	couponUC := usecase.NewCouponUsecase(repos.coupons)
	orderUC := usecase.NewOrderUsecase(repos.orders, repos.products, repos.coupons, repos.txManager, memCache, handoff, cfg.MaxOrderQuantity)
	cartUC := usecase.NewCartUsecase(repos.cart, repos.products, cfg.MaxOrderQuantity)
	customOrderUC := usecase.NewCustomOrderUsecase(repos.customOrders, frameImages, utils.ProcessImage, repos.txManager, handoff, usecase.CustomOrderConfig{
		MaxImages:   cfg.MaxFrameImages,
		MaxQuantity: cfg.MaxOrderQuantity,
		ImageTTL:    cfg.FrameImageTTL,
	})
	sitemapUC := usecase.NewSitemapUsecase(repos.products, cfg.FrontendURL, memCache, cfg.CacheSitemapTTL)
	statsUC := usecase.NewStatsUsecase(repos.stats, memCache)
	profileUC := usecase.NewProfileUsecase(repos.profiles, repos.orders, repos.cart, catalogUC, repos.txManager)

	// Set up Router
	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, v1.Handlers{
		Catalog:      v1.NewCatalogHandler(catalogUC),
		AdminCatalog: v1.NewAdminCatalogHandler(catalogUC),
		Coupon:       v1.NewCouponHandler(couponUC),
		AdminCoupon:  v1.NewAdminCouponHandler(couponUC),
		Order:        v1.NewOrderHandler(orderUC),
		AdminOrder:   v1.NewAdminOrderHandler(orderUC, customOrderUC),
		Cart:         v1.NewCartHandler(cartUC),
		CustomOrder:  v1.NewCustomOrderHandler(customOrderUC),
		Upload:       v1.NewUploadHandler(images, utils.ProcessImage, customOrderUC, cfg.MaxUploadSizeMB, cfg.MaxFrameImages),
		Config:       v1.NewConfigHandler(memCache, cfg.CurrencySymbol, cfg.MaxFrameImages),
		Sitemap:      v1.NewSitemapHandler(sitemapUC),
		AdminStats:   v1.NewAdminStatsHandler(statsUC),
		Profile:      v1.NewProfileHandler(profileUC, orderUC),
	})

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		db := cfg.StoreDriver
		if pgxPool != nil {
			pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pgxPool.Ping(pingCtx); err != nil {
				utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "unreachable"})
				return
			}
			db = "connected"
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": db})
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers
	mux.Handle("GET /metrics", promhttp.Handler())

	// Frame image retention
	sweeper := usecase.NewImageSweeper(repos.customOrders, frameImages, cfg.ImageSweepInterval)
	sweeper.Start(ctx)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:               cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
		CheckoutPerMinute: cfg.RateLimitCheckoutMin,
		IdleTTL:           3 * time.Minute,
	})
	rateLimiter.Start(ctx, time.Minute)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Str("store", cfg.StoreDriver).Msgf("Server starting on %s", addr)
	logger.ServiceStart(serviceName, serviceVersion, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	sweeper.Shutdown()
	rateLimiter.Shutdown()
	stop()
	if pgxPool != nil {
		pgxPool.Close()
	}

	logger.ServiceStop(serviceName)
}
