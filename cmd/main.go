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

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingSessionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/booking_session"
	createEventHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_event"
	deleteEventHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_event"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingConfigHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking_config"
	getDayEventsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_day_events"
	resyncCalendarHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/resync_calendar"
	updateEventHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_event"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	eventRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/event"
	outboxRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/outbox"
	sessionStore "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/googlecalendar"
	"github.com/m04kA/SMC-SchedulingService/internal/jobs"
	eventsService "github.com/m04kA/SMC-SchedulingService/internal/service/events"
	bookingWizardUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_wizard"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	getDayEventsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_events"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const poolStatsInterval = 15 * time.Second

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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены).
	// nil *metrics.Metrics безопасен: вызовы ничего не делают.
	var (
		metricsCollector *metrics.Metrics
		dbObserver       dbmetrics.Observer
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
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

	wrappedDB := dbmetrics.Wrap(db, dbObserver)
	if cfg.Metrics.Enabled {
		go wrappedDB.CollectPoolStats(poolStatsInterval, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	eventRepository := eventRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)
	sessions := sessionStore.NewStore(time.Duration(cfg.Booking.SessionTTLMinutes) * time.Minute)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}
	businessHours := cfg.Booking.BusinessHours()

	// Календарь провайдера. Без токена доступа все зависимые компоненты получают nil
	// и отвечают "не настроено", не обращаясь к провайдеру.
	var (
		busyResolver getAvailableSlotsUC.BusyResolver
		eventsSvc    *eventsService.Service
	)

	if cfg.Calendar.IsConfigured() {
		calendarClient, err := googlecalendar.NewClient(context.Background(), googlecalendar.Options{
			AccessToken: cfg.Calendar.AccessToken,
			CalendarID:  cfg.Calendar.CalendarID,
			Timeout:     time.Duration(cfg.Calendar.Timeout) * time.Second,
			Endpoint:    cfg.Calendar.Endpoint,
			Recorder:    metricsCollector,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize calendar client: %v", err)
		}

		busyResolver = googlecalendar.NewBusyResolver(calendarClient, cfg.Calendar.FailOpen, metricsCollector, log)
		eventsSvc = eventsService.NewService(
			calendarClient,
			eventRepository,
			outboxRepository,
			txMgr,
			metricsCollector,
			eventsService.Options{
				BatchSize:   cfg.Sync.BatchSize,
				MaxAttempts: cfg.Sync.MaxAttempts,
			},
			log,
		)
		log.Info("Calendar client initialized (calendar=%s, timeout=%ds, fail_open=%t)",
			cfg.Calendar.CalendarID, cfg.Calendar.Timeout, cfg.Calendar.FailOpen)
	} else {
		log.Warn("Calendar access token is not configured, booking routes answer 503")
	}

	// Интерфейсы зависят от сервиса событий только если он создан,
	// иначе в них должен остаться нетипизированный nil
	var (
		eventCreator  bookingWizardUC.EventCreator
		synchronizer  getDayEventsUC.EventSynchronizer
		createService createEventHandler.EventsService
		updateService updateEventHandler.EventsService
		deleteService deleteEventHandler.EventsService
		reconciler    resyncCalendarHandler.Reconciler
	)
	if eventsSvc != nil {
		eventCreator = eventsSvc
		synchronizer = eventsSvc
		createService = eventsSvc
		updateService = eventsSvc
		deleteService = eventsSvc
		reconciler = eventsSvc
	}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		busyResolver,
		businessHours,
		cfg.Booking.HorizonDays,
		location,
		log,
	)

	bookingWizardUseCase := bookingWizardUC.NewUseCase(
		sessions,
		getAvailableSlotsUseCase,
		eventCreator,
		bookingWizardUC.Options{
			AdminEmail:      cfg.Calendar.AdminEmail,
			DefaultLocation: location,
			HorizonDays:     cfg.Booking.HorizonDays,
		},
		log,
	)

	getDayEventsUseCase := getDayEventsUC.NewUseCase(synchronizer, location, log)

	// Инициализируем handlers
	getBookingConfig := getBookingConfigHandler.NewHandler(getBookingConfigHandler.Settings{
		Configured:  cfg.Calendar.IsConfigured(),
		AdminEmail:  cfg.Calendar.AdminEmail,
		Location:    location,
		Hours:       businessHours,
		HorizonDays: cfg.Booking.HorizonDays,
	}, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	bookingSession := bookingSessionHandler.NewHandler(bookingWizardUseCase, log)
	getDayEvents := getDayEventsHandler.NewHandler(getDayEventsUseCase, location, log)
	createEvent := createEventHandler.NewHandler(createService, location, log)
	updateEvent := updateEventHandler.NewHandler(updateService, location, log)
	deleteEvent := deleteEventHandler.NewHandler(deleteService, log)
	resyncCalendar := resyncCalendarHandler.NewHandler(reconciler, log)

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerMinute, cfg.Server.RateLimitBurst, cfg.Server.TrustForwardedFor, log)

	// Фоновые задачи
	scheduler := jobs.NewScheduler(log)
	if eventsSvc != nil {
		if err := scheduler.AddReconcile(cfg.Sync.ReconcileSchedule, eventsSvc, time.Minute); err != nil {
			log.Fatal("Failed to schedule reconcile: %v", err)
		}
	}
	if err := scheduler.AddCleanup("sessions", cfg.Sync.SessionSweep, sessions.Sweep); err != nil {
		log.Fatal("Failed to schedule session sweep: %v", err)
	}
	if err := scheduler.AddCleanup("rate_limiter", cfg.Sync.SessionSweep, rateLimiter.Cleanup); err != nil {
		log.Fatal("Failed to schedule rate limiter cleanup: %v", err)
	}
	scheduler.Start()

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC BOOKING ROUTES (ограничение запросов по IP)
	// ============================================================

	booking := api.PathPrefix("/booking").Subrouter()
	booking.Use(rateLimiter.Middleware)

	booking.HandleFunc("/config", getBookingConfig.Handle).Methods(http.MethodGet)
	booking.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Мастер бронирования ---
	booking.HandleFunc("/sessions", bookingSession.Start).Methods(http.MethodPost)
	booking.HandleFunc("/sessions/{sessionId}", bookingSession.Get).Methods(http.MethodGet)
	booking.HandleFunc("/sessions/{sessionId}/date", bookingSession.ChooseDate).Methods(http.MethodPost)
	booking.HandleFunc("/sessions/{sessionId}/slot", bookingSession.ChooseSlot).Methods(http.MethodPost)
	booking.HandleFunc("/sessions/{sessionId}/back", bookingSession.Back).Methods(http.MethodPost)
	booking.HandleFunc("/sessions/{sessionId}/next", bookingSession.Next).Methods(http.MethodPost)
	booking.HandleFunc("/sessions/{sessionId}/contact", bookingSession.UpdateContact).Methods(http.MethodPut)
	booking.HandleFunc("/sessions/{sessionId}/submit", bookingSession.Submit).Methods(http.MethodPost)
	booking.HandleFunc("/sessions/{sessionId}/restart", bookingSession.Restart).Methods(http.MethodPost)

	// ============================================================
	// CALENDAR ROUTES (внутренний календарь администратора)
	// ============================================================

	calendarRoutes := api.PathPrefix("/calendar").Subrouter()

	calendarRoutes.HandleFunc("/events", getDayEvents.Handle).Methods(http.MethodGet)
	calendarRoutes.HandleFunc("/events", createEvent.Handle).Methods(http.MethodPost)
	calendarRoutes.HandleFunc("/events/{eventId}", updateEvent.Handle).Methods(http.MethodPatch)
	calendarRoutes.HandleFunc("/events/{eventId}", deleteEvent.Handle).Methods(http.MethodDelete)
	calendarRoutes.HandleFunc("/resync", resyncCalendar.Handle).Methods(http.MethodPost)

	// CORS для веб-клиента
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся фоновых задач, прежде чем закрыть соединение с БД
	scheduler.Stop(shutdownCtx)

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
