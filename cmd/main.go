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
	_ "time/tzdata"

	"cloud.google.com/go/firestore"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_slot"
	changeBookingStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/change_booking_status"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	createProfessionalHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_professional"
	createRecurringSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_recurring_slots"
	createSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_slot"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_calendar"
	getMyProfessionalHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_my_professional"
	getPolicyHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_policy"
	getProfessionalHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_professional"
	getProfessionalBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_professional_bookings"
	getSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_slot"
	getSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_slots"
	getUserBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_bookings"
	listProfessionalsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_professionals"
	updatePolicyHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_policy"
	updateProfessionalHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_professional"
	watchEventsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/watch_events"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/firestoresync"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/firebaseapp"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identity"
	"github.com/m04kA/SMC-AppointmentService/internal/jobs"
	availabilityService "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	policyService "github.com/m04kA/SMC-AppointmentService/internal/service/policy"
	professionalsService "github.com/m04kA/SMC-AppointmentService/internal/service/professionals"
	bookSlotUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	changeBookingStatusUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_booking_status"
	createSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Без метрик обёртка только прокидывает запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	professionalRepository := professionalRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	// Хаб событий для websocket подписчиков и зеркала Firestore
	hub := events.NewHub(cfg.Booking.EventBufferSize, metricsCollector, log)
	defer hub.Close()

	// Firebase: профиль клиента и зеркалирование в Firestore
	var identityUsers identity.UserGetter
	if cfg.Firebase.Enabled {
		app, err := firebaseapp.New(ctx, firebaseapp.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			log.Fatal("Failed to initialize Firebase: %v", err)
		}

		authClient, err := app.Auth(ctx)
		if err != nil {
			log.Fatal("Failed to initialize Firebase Auth: %v", err)
		}
		identityUsers = authClient
		log.Info("Firebase Auth initialized (project=%s)", cfg.Firebase.ProjectID)

		if cfg.Firebase.SyncEnabled {
			fsClient, err := app.Firestore(ctx)
			if err != nil {
				log.Fatal("Failed to initialize Firestore: %v", err)
			}
			defer func(c *firestore.Client) {
				if err := c.Close(); err != nil {
					log.Error("Failed to close Firestore client: %v", err)
				}
			}(fsClient)

			mirror := firestoresync.NewMirror(
				firestoresync.NewFirestoreStore(fsClient),
				firestoresync.Collections{
					Slots:    cfg.Firebase.SlotsCollection,
					Bookings: cfg.Firebase.BookingsCollection,
				},
				time.Duration(cfg.Firebase.Timeout)*time.Second,
				log,
			)
			go mirror.Run(ctx, hub)
		}
	} else {
		log.Warn("Firebase disabled: bookings are created without client profile")
	}
	identityClient := identity.NewClient(identityUsers, time.Duration(cfg.Firebase.Timeout)*time.Second, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		professionalRepository,
		policyRepository,
		log,
	)
	createSlotsUseCase := createSlotsUC.NewUseCase(
		slotRepository,
		professionalRepository,
		txMgr,
		hub,
		metricsCollector,
		log,
	)
	bookSlotUseCase := bookSlotUC.NewUseCase(
		slotRepository,
		bookingRepository,
		professionalRepository,
		policyRepository,
		identityClient,
		txMgr,
		hub,
		metricsCollector,
		log,
	)
	changeBookingStatusUseCase := changeBookingStatusUC.NewUseCase(
		bookingRepository,
		slotRepository,
		professionalRepository,
		policyRepository,
		txMgr,
		hub,
		log,
	)

	// Инициализируем сервисы
	defaultLocation, err := time.LoadLocation(cfg.Booking.DefaultTimezone)
	if err != nil {
		log.Fatal("Invalid booking.default_timezone %q: %v", cfg.Booking.DefaultTimezone, err)
	}

	professionalSvc := professionalsService.NewService(professionalRepository, log)
	policySvc := policyService.NewService(policyRepository, professionalRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, professionalRepository, log)
	availabilitySvc := availabilityService.NewService(
		slotRepository,
		professionalRepository,
		getAvailableSlotsUseCase,
		txMgr,
		hub,
		log,
	)
	calendarSvc := calendarService.NewService(
		slotRepository,
		bookingRepository,
		professionalRepository,
		defaultLocation,
		log,
	)

	// Инициализируем handlers
	listProfessionals := listProfessionalsHandler.NewHandler(professionalSvc, log)
	getProfessional := getProfessionalHandler.NewHandler(professionalSvc, log)
	getMyProfessional := getMyProfessionalHandler.NewHandler(professionalSvc, log)
	createProfessional := createProfessionalHandler.NewHandler(professionalSvc, log)
	updateProfessional := updateProfessionalHandler.NewHandler(professionalSvc, log)
	getPolicy := getPolicyHandler.NewHandler(policySvc, log)
	updatePolicy := updatePolicyHandler.NewHandler(policySvc, log)
	getSlots := getSlotsHandler.NewHandler(availabilitySvc, log)
	getSlot := getSlotHandler.NewHandler(availabilitySvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(availabilitySvc, log)
	cancelSlot := cancelSlotHandler.NewHandler(availabilitySvc, log)
	createSlot := createSlotHandler.NewHandler(createSlotsUseCase, log)
	createRecurringSlots := createRecurringSlotsHandler.NewHandler(createSlotsUseCase, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	createBooking := createBookingHandler.NewHandler(bookSlotUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	changeBookingStatus := changeBookingStatusHandler.NewHandler(changeBookingStatusUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProfessionalBookings := getProfessionalBookingsHandler.NewHandler(bookingSvc, log)
	watchEvents := watchEventsHandler.NewHandler(hub, professionalSvc, log)

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

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RPS,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.CleanupInterval)*time.Second,
			metricsCollector,
		)
		go limiter.Run(stopMetricsCh)
		api.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (аутентификация опциональна)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	// --- Каталог специалистов ---
	public.HandleFunc("/professionals", listProfessionals.Handle).Methods(http.MethodGet)
	public.HandleFunc("/professionals/{id}", getProfessional.Handle).Methods(http.MethodGet)
	public.HandleFunc("/professionals/{id}/policy", getPolicy.Handle).Methods(http.MethodGet)

	// --- Расписание ---
	// Владелец профиля видит все слоты, остальные только доступные для бронирования
	public.HandleFunc("/professionals/{id}/slots", getSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/professionals/{id}/calendar", getCalendar.Handle).Methods(http.MethodGet)
	public.HandleFunc("/slots/{slotId}", getSlot.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Профиль специалиста ---
	protected.HandleFunc("/professionals", createProfessional.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/professionals/{id}", updateProfessional.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/professionals/{id}/policy", updatePolicy.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/users/me/professional", getMyProfessional.Handle).Methods(http.MethodGet)

	// --- Управление слотами ---
	protected.HandleFunc("/professionals/{id}/slots", createSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/professionals/{id}/slots/recurring", createRecurringSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/slots/{slotId}/cancel", cancelSlot.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", changeBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{id}/bookings", getProfessionalBookings.Handle).Methods(http.MethodGet)

	// --- Realtime ---
	protected.HandleFunc("/events/ws", watchEvents.Handle).Methods(http.MethodGet)

	// Фоновые задачи
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(metricsCollector, 5*time.Minute, log)

		completeJob := jobs.NewCompleteBookings(
			bookingRepository,
			changeBookingStatusUseCase,
			time.Duration(cfg.Jobs.CompleteGraceMinutes)*time.Minute,
			log,
		)
		if err := scheduler.Register(cfg.Jobs.CompleteBookingsSchedule, completeJob); err != nil {
			log.Fatal("Failed to register job: %v", err)
		}

		purgeJob := jobs.NewPurgeSlots(
			slotRepository,
			time.Duration(cfg.Jobs.SlotRetentionDays)*24*time.Hour,
			log,
		)
		if err := scheduler.Register(cfg.Jobs.PurgeSlotsSchedule, purgeJob); err != nil {
			log.Fatal("Failed to register job: %v", err)
		}

		scheduler.Start()
		log.Info("Background jobs started")
	}

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			log.Error("Background jobs did not stop in time: %v", err)
		}
	}

	// Закрываем websocket подписки до остановки сервера
	hub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем зеркало, сбор метрик connection pool и очистку лимитера
	stop()
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
