package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/blob"
	"github.com/WillBillChiang/sheep-rentals/internal/config"
	httpapi "github.com/WillBillChiang/sheep-rentals/internal/http"
	"github.com/WillBillChiang/sheep-rentals/internal/identity"
	"github.com/WillBillChiang/sheep-rentals/internal/logger"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "sheep-rentals")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 1. 记录存储后端选择：memory | redis | postgres
	// 连接失败时回退到内存实现，保证本地 `go run` 始终可用
	var recordStore store.RecordStore
	var redisClient *redis.Client
	var db *sql.DB
	switch cfg.Store.Backend {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		recordStore = store.NewRedisStore(redisClient)
		log.Info("record store backend: redis", zap.String("addr", cfg.Redis.Addr))
	case "postgres":
		d, err := store.NewPostgresDB(store.PostgresConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			log.Warn("postgres connection failed, falling back to memory store", zap.Error(err))
			recordStore = store.NewMemoryStore()
		} else {
			db = d
			recordStore = store.NewPostgresStore(db)
			log.Info("record store backend: postgres", zap.String("host", cfg.Database.Host))
		}
	default:
		recordStore = store.NewMemoryStore()
		log.Info("record store backend: memory")
	}

	// 2. 外部协作方：身份提供方与对象存储
	// BaseURL 未配置时使用内存实现（本地开发）
	var idp identity.Provider
	if cfg.Identity.BaseURL != "" {
		idp = identity.NewHTTPProvider(cfg.Identity.BaseURL, cfg.Identity.APIKey, log)
	} else {
		log.Warn("IDENTITY_BASE_URL not set, using in-memory identity provider")
		idp = identity.NewMemoryProvider()
	}

	var blobStore blob.Store
	if cfg.Blob.BaseURL != "" {
		blobStore = blob.NewHTTPStore(cfg.Blob.BaseURL, cfg.Blob.Bucket, cfg.Blob.PublicURL, cfg.Blob.APIKey, log)
	} else {
		log.Warn("BLOB_BASE_URL not set, using in-memory blob store")
		blobStore = blob.NewMemoryStore()
	}

	// 3. 仓储层
	usersRepo := repository.NewUsersRepository(recordStore)
	propertiesRepo := repository.NewPropertiesRepository(recordStore)
	applicationsRepo := repository.NewApplicationsRepository(recordStore)
	paymentsRepo := repository.NewPaymentsRepository(recordStore)
	agreementsRepo := repository.NewAgreementsRepository(recordStore)

	// 4. 服务层
	authService := service.NewAuthService(idp, usersRepo, log)
	userService := service.NewUserService(usersRepo, propertiesRepo, agreementsRepo, blobStore, log)
	propertyService := service.NewPropertyService(propertiesRepo, blobStore, log)
	applicationService := service.NewApplicationService(applicationsRepo, propertiesRepo, blobStore, log)
	paymentService := service.NewPaymentService(paymentsRepo, propertiesRepo, usersRepo, log)
	agreementService := service.NewAgreementService(agreementsRepo, applicationsRepo, propertiesRepo, log)
	dashboardService := service.NewDashboardService(propertiesRepo, applicationsRepo, paymentsRepo, agreementsRepo, log)
	exportService := service.NewExportService(paymentsRepo)

	// 5. HTTP 层
	gate := httpapi.NewAuthGate(authService)
	router := httpapi.NewRouter(log)
	router.RegisterHealthRoute()
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, gate, log))
	router.RegisterUserRoutes(httpapi.NewUserHandler(userService, gate, log))
	router.RegisterPropertyRoutes(httpapi.NewPropertyHandler(propertyService, gate, log))
	router.RegisterApplicationRoutes(httpapi.NewApplicationHandler(applicationService, gate, log))
	router.RegisterPaymentRoutes(httpapi.NewPaymentHandler(paymentService, gate, log))
	router.RegisterAgreementRoutes(httpapi.NewAgreementHandler(agreementService, gate, log))
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(dashboardService, exportService, gate, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server exited", zap.Error(err))
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
