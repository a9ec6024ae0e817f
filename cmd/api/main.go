package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/frontandrew/platescan/internal/delivery/http"
	"github.com/frontandrew/platescan/internal/infrastructure/ocr"
	"github.com/frontandrew/platescan/internal/infrastructure/storage"
	"github.com/frontandrew/platescan/internal/pkg/config"
	"github.com/frontandrew/platescan/internal/pkg/database"
	"github.com/frontandrew/platescan/internal/pkg/hash"
	"github.com/frontandrew/platescan/internal/pkg/jwt"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/pkg/metrics"
	"github.com/frontandrew/platescan/internal/pkg/redis"
	"github.com/frontandrew/platescan/internal/repository"
	"github.com/frontandrew/platescan/internal/repository/cached"
	"github.com/frontandrew/platescan/internal/repository/postgres"
	"github.com/frontandrew/platescan/internal/usecase/auth"
	"github.com/frontandrew/platescan/internal/usecase/recognition"
	"github.com/frontandrew/platescan/internal/usecase/vehicle"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	logger.SetGlobalLogger(log)
	log.Info("Starting platescan API server", map[string]interface{}{
		"ocr_engine": cfg.OCR.Engine,
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err,
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("Failed to apply migrations", map[string]interface{}{
				"error": err,
			})
		}
		log.Info("Database schema is up to date")
	}

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	scanRepo := postgres.NewScanRepository(db)
	var vehicleRepo repository.VehicleRepository = postgres.NewVehicleRepository(db)
	var scanCache repository.ScanCache

	health := map[string]deliveryHTTP.HealthChecker{
		"database": deliveryHTTP.HealthCheckFunc(db.Ping),
	}

	// Redis необязателен: без него номера и результаты OCR не кэшируются
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn("Redis is not available, caching disabled", map[string]interface{}{
				"error":   err,
				"address": cfg.Redis.Address(),
			})
		} else {
			defer redisClient.Close()
			vehicleRepo = cached.NewVehicleRepository(vehicleRepo, redisClient)
			scanCache = cached.NewScanCache(redisClient)
			health["redis"] = deliveryHTTP.HealthCheckFunc(redisClient.Ping)
			log.Info("Connected to Redis", map[string]interface{}{
				"address": cfg.Redis.Address(),
			})
		}
	}

	log.Info("Repositories initialized")

	// =========================================================================
	// OCR движок и хранилище изображений
	// =========================================================================

	engine, err := ocr.NewEngine(&cfg.OCR)
	if err != nil {
		log.Fatal("Failed to create OCR engine", map[string]interface{}{
			"error":  err,
			"engine": cfg.OCR.Engine,
		})
	}

	// Проверяем доступность движка, но не блокируем старт
	if err := engine.Health(ctx); err != nil {
		log.Warn("OCR engine is not available", map[string]interface{}{
			"error":  err,
			"engine": engine.Name(),
		})
		log.Warn("Scans will be recorded as ocr_failed until the engine is reachable")
	} else {
		log.Info("OCR engine is healthy", map[string]interface{}{
			"engine": engine.Name(),
		})
	}
	health["ocr"] = engine

	var imageStore recognition.ImageStore
	r2, err := storage.NewR2Client(&cfg.Storage)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Info("Image archive is not configured")
	case err != nil:
		log.Fatal("Failed to create image storage client", map[string]interface{}{
			"error": err,
		})
	default:
		imageStore = r2
		log.Info("Image archive enabled", map[string]interface{}{
			"bucket": cfg.Storage.Bucket,
		})
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
	}

	// =========================================================================
	// Создание use case services
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	authService := auth.NewService(userRepo, tokenService, hash.NewHasher(hash.DefaultCost), log)
	vehicleService := vehicle.NewService(vehicleRepo, userRepo, log)

	recognitionOpts := recognition.Options{
		Cache:    scanCache,
		CacheTTL: cfg.Cache.ScanTTL,
		Store:    imageStore,
	}
	if appMetrics != nil {
		recognitionOpts.Metrics = appMetrics
	}
	recognitionService := recognition.NewService(engine, scanRepo, vehicleRepo, log, recognitionOpts)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		deliveryHTTP.Handlers{
			Auth:    deliveryHTTP.NewAuthHandler(authService, log),
			Vehicle: deliveryHTTP.NewVehicleHandler(vehicleService, log),
			Plate:   deliveryHTTP.NewPlateHandler(recognitionService, log),
			Scan:    deliveryHTTP.NewScanHandler(recognitionService, cfg.Server.MaxImageSize, log),
			Health:  deliveryHTTP.NewHealthHandler(health),
		},
		tokenService,
		appMetrics,
		cfg,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера и graceful shutdown
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err,
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err,
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err,
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
