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
	"go.uber.org/zap"

	"agenda/config"
	_ "agenda/docs"
	"agenda/internal/events"
	"agenda/internal/repository"
	"agenda/internal/repository/memory"
	"agenda/internal/service"
	"agenda/internal/storage"
	"agenda/internal/transport/rest"
	"agenda/pkg/database"
	"agenda/pkg/logger"
	"agenda/pkg/observability"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Agenda API
// @version 1.0
// @description API расписания специалистов: слоты, записи, праздники и нерабочее время

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Не удалось загрузить конфигурацию", zap.Error(err))
	}

	ctx := context.Background()

	if cfg.Telemetry.Endpoint != "" {
		shutdownTelemetry, err := observability.Setup(ctx, cfg.Name, cfg.Version, cfg.Telemetry.Endpoint)
		if err != nil {
			log.Fatal("Не удалось инициализировать телеметрию", zap.Error(err))
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				log.Warn("Ошибка остановки телеметрии", zap.Error(err))
			}
		}()
		log.Info("Телеметрия включена", zap.String("endpoint", cfg.Telemetry.Endpoint))
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal("Не удалось зарегистрировать метрики", zap.Error(err))
	}

	var repos *repository.Repositories
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn("Используется хранилище в памяти, данные не сохраняются между перезапусками")
		repos = memory.NewRepositories()
	default:
		db, err := database.NewPostgresDB(ctx, cfg.Postgres, log)
		if err != nil {
			log.Fatal("Не удалось подключиться к БД", zap.Error(err))
		}
		defer db.Close()

		log.Info("Запуск миграций базы данных")
		if err := database.RunMigrations(ctx, db, cfg.Storage.MigrationsDir, log); err != nil {
			log.Fatal("Ошибка при выполнении миграций", zap.Error(err))
		}
		log.Info("Миграции успешно выполнены")

		repos = repository.NewRepositories(db)
	}

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal("Не удалось инициализировать S3 хранилище", zap.Error(err))
		}
		fileStorage = s3Storage
		log.Info("S3 хранилище успешно инициализировано", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("S3 хранилище не настроено, выгрузка расписания будет недоступна")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.Redis.Addr != "" {
		client, err := events.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Не удалось подключиться к Redis", zap.Error(err))
		}
		defer client.Close()
		publisher = events.NewRedisPublisher(client, cfg.Redis.Channel)
		log.Info("События публикуются в Redis", zap.String("channel", cfg.Redis.Channel))
	}

	services, err := service.NewServices(service.Deps{
		Repos:       repos,
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
		Publisher:   publisher,
		Metrics:     metrics,
	})
	if err != nil {
		log.Fatal("Не удалось инициализировать сервисы", zap.Error(err))
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := rest.NewHandler(services, log, cfg, metrics)
	handler.InitRoutes(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.Version})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	log.Info("Сервер запущен", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Выключение сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Ошибка при остановке сервера", zap.Error(err))
		return
	}

	log.Info("Сервер успешно остановлен")
}
