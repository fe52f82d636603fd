package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_booking"
	getResourceBookingsHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_resource_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_user_bookings"
	rejectBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/reject_booking"
	rescheduleBookingHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/reschedule_booking"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceBookingService/internal/config"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/events"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings"
	createBookingUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/logger"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/txmanager"
)

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ResourceBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Redis нужен распределенной блокировке и pub/sub событиям;
	// без него single-node режим на процессных реализациях
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)
	}

	acquireTimeout := time.Duration(cfg.Lock.AcquireTimeoutSeconds) * time.Second
	lockTTL := time.Duration(cfg.Lock.TTLSeconds) * time.Second

	var resourceLocker lock.Locker
	if redisClient != nil {
		resourceLocker = lock.NewRedisLocker(redisClient, acquireTimeout)
		log.Info("Using redis resource locker (ttl=%s)", lockTTL)
	} else {
		resourceLocker = lock.NewMemoryLocker(acquireTimeout)
		log.Info("Using in-memory resource locker (ttl=%s)", lockTTL)
	}
	if cfg.Metrics.Enabled {
		resourceLocker = lock.NewInstrumentedLocker(resourceLocker, metricsCollector)
	}

	// Приемник доменных событий
	var eventSink events.Sink
	switch cfg.Events.Sink {
	case "redis":
		if redisClient == nil {
			log.Fatal("Events sink 'redis' requires redis.enabled = true")
		}
		eventSink = events.NewRedisSink(redisClient, cfg.Events.Channel, log)
		log.Info("Publishing booking events to redis channel %q", cfg.Events.Channel)
	case "webhook":
		eventSink = notifier.NewClient(
			cfg.Events.WebhookURL,
			time.Duration(cfg.Events.TimeoutSeconds)*time.Second,
			log,
		)
		log.Info("Publishing booking events to webhook %s", cfg.Events.WebhookURL)
	default:
		eventSink = events.NewLogSink(log)
		log.Info("Publishing booking events to log")
	}

	if cfg.Metrics.Enabled {
		eventSink = events.Fanout{eventSink, events.NewMetricsSink(metricsCollector)}
	}

	// Инициализируем репозитории и транзакционный менеджер (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		resourceRepository *resourceRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		resourceRepository,
		eventSink,
		realTime{},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		resourceLocker,
		txMgr,
		eventSink,
		lockTTL,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		resourceLocker,
		txMgr,
		eventSink,
		lockTTL,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getResourceBookings := getResourceBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты ресурса
	api.HandleFunc("/resources/{resourceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/resources/{resourceId}/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/bookings", getResourceBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// --- Переходы статусов ---
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// --- История пользователя ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
