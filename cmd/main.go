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

	createBlackoutHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/create_blackout"
	createBookingHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/create_booking"
	createHoldHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/create_hold"
	createQuoteRequestHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/create_quote_request"
	dispatchRemindersHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/dispatch_reminders"
	getAvailableSlotsHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/get_booking_history"
	getQuoteRequestHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/get_quote_request"
	listBlackoutsHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/list_blackouts"
	listBookingsHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/list_bookings"
	listCalendarEventsHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/list_calendar_events"
	respondQuoteHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/respond_quote"
	updateBookingStatusHandler "github.com/pawmates/PSV-BookingService/internal/api/handlers/update_booking_status"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	"github.com/pawmates/PSV-BookingService/internal/config"
	blackoutsRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/blackouts"
	bookingRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/booking"
	holdsRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/holds"
	quotesRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/quotes"
	slotsRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/slots"
	notifierClient "github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	blackoutsService "github.com/pawmates/PSV-BookingService/internal/service/blackouts"
	bookingsService "github.com/pawmates/PSV-BookingService/internal/service/bookings"
	calendarService "github.com/pawmates/PSV-BookingService/internal/service/calendar"
	quotesService "github.com/pawmates/PSV-BookingService/internal/service/quotes"
	createBookingUC "github.com/pawmates/PSV-BookingService/internal/usecase/create_booking"
	createHoldUC "github.com/pawmates/PSV-BookingService/internal/usecase/create_hold"
	createQuoteRequestUC "github.com/pawmates/PSV-BookingService/internal/usecase/create_quote_request"
	getAvailableSlotsUC "github.com/pawmates/PSV-BookingService/internal/usecase/get_available_slots"
	updateBookingStatusUC "github.com/pawmates/PSV-BookingService/internal/usecase/update_booking_status"
	"github.com/pawmates/PSV-BookingService/pkg/dbmetrics"
	"github.com/pawmates/PSV-BookingService/pkg/logger"
	"github.com/pawmates/PSV-BookingService/pkg/metrics"
	"github.com/pawmates/PSV-BookingService/pkg/simpletxmanager"
	"github.com/pawmates/PSV-BookingService/pkg/txmanager"
)

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

	log.Info("Starting PSV-BookingService...")
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

	// Инициализируем интеграционных клиентов
	directory := directoryClient.NewClient(
		cfg.ProviderDirectory.URL,
		time.Duration(cfg.ProviderDirectory.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProviderDirectory=%s timeout=%ds, Notifier=%s timeout=%ds)",
		cfg.ProviderDirectory.URL, cfg.ProviderDirectory.Timeout, cfg.Notifier.URL, cfg.Notifier.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository     *slotsRepo.Repository
		holdRepository     *holdsRepo.Repository
		bookingRepository  *bookingRepo.Repository
		blackoutRepository *blackoutsRepo.Repository
		quoteRepository    *quotesRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotsRepo.NewRepository(wrappedDB)
		holdRepository = holdsRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		blackoutRepository = blackoutsRepo.NewRepository(wrappedDB)
		quoteRepository = quotesRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotsRepo.NewRepository(db)
		holdRepository = holdsRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		blackoutRepository = blackoutsRepo.NewRepository(db)
		quoteRepository = quotesRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		directory,
		log,
	)
	blackoutSvc := blackoutsService.NewService(
		blackoutRepository,
		slotRepository,
		bookingRepository,
		directory,
		txMgr,
		log,
	)
	quoteSvc := quotesService.NewService(
		quoteRepository,
		directory,
		txMgr,
		log,
	)
	calendarSvc := calendarService.NewService(
		bookingRepository,
		holdRepository,
		blackoutRepository,
		directory,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		holdRepository,
		bookingRepository,
		blackoutRepository,
		directory,
		txMgr,
		log,
	)
	createHoldUseCase := createHoldUC.NewUseCase(
		slotRepository,
		holdRepository,
		bookingRepository,
		blackoutRepository,
		directory,
		txMgr,
		cfg.Booking.HoldTTLMinutes,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		holdRepository,
		bookingRepository,
		blackoutRepository,
		directory,
		txMgr,
		cfg.Booking.AvailabilityWindowDays,
		log,
	)
	updateBookingStatusUseCase := updateBookingStatusUC.NewUseCase(
		bookingRepository,
		directory,
		txMgr,
		log,
	)
	createQuoteRequestUseCase := createQuoteRequestUC.NewUseCase(
		quoteRepository,
		directory,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, notifier, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, quoteSvc, notifier, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(updateBookingStatusUseCase, notifier, log)
	createBlackout := createBlackoutHandler.NewHandler(blackoutSvc, log)
	listBlackouts := listBlackoutsHandler.NewHandler(blackoutSvc, log)
	createQuoteRequest := createQuoteRequestHandler.NewHandler(createQuoteRequestUseCase, notifier, log)
	getQuoteRequest := getQuoteRequestHandler.NewHandler(quoteSvc, notifier, log)
	respondQuote := respondQuoteHandler.NewHandler(quoteSvc, notifier, log)
	dispatchReminders := dispatchRemindersHandler.NewHandler(quoteSvc, notifier, log)
	listCalendarEvents := listCalendarEventsHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты провайдера на дату
	api.HandleFunc("/providers/{providerId}/availability",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Блэкауты провайдера
	api.HandleFunc("/providers/{providerId}/blackouts",
		listBlackouts.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Холд на слот (soft-резервация на время чекаута)
	protected.HandleFunc("/bookings/holds", createHold.Handle).Methods(http.MethodPost)

	// Список бронирований пользователя (роль owner/provider/all)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// История статусов бронирования
	protected.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)

	// Переход статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPost)

	// --- Блэкауты (для владельцев провайдеров) ---
	protected.HandleFunc("/providers/{providerId}/blackouts", createBlackout.Handle).Methods(http.MethodPost)

	// --- Запросы котировок ---
	// Создание запроса с fan-out по подходящим провайдерам
	protected.HandleFunc("/quotes", createQuoteRequest.Handle).Methods(http.MethodPost)

	// Явная диспетчеризация напоминаний
	protected.HandleFunc("/quotes/reminders/dispatch", dispatchReminders.Handle).Methods(http.MethodPost)

	// Запрос котировки с целями
	protected.HandleFunc("/quotes/{quoteRequestId}", getQuoteRequest.Handle).Methods(http.MethodGet)

	// Ответ провайдера на запрос котировки
	protected.HandleFunc("/quotes/{quoteRequestId}/responses", respondQuote.Handle).Methods(http.MethodPost)

	// --- Календарь ---
	// Сводный календарь событий пользователя
	protected.HandleFunc("/calendar/events", listCalendarEvents.Handle).Methods(http.MethodGet)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
