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

	cancelBookingHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/get_booking"
	getCalendarEventsHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/get_calendar_events"
	getOpeningHoursHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/get_opening_hours"
	getUserBookingsHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/get_user_bookings"
	updateBookingHandler "github.com/gregp1985/gregorys-bistro/internal/api/handlers/update_booking"
	"github.com/gregp1985/gregorys-bistro/internal/api/middleware"
	"github.com/gregp1985/gregorys-bistro/internal/config"
	bookingRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/booking"
	"github.com/gregp1985/gregorys-bistro/internal/infra/storage/migrate"
	openingHoursRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/openinghours"
	tableRepo "github.com/gregp1985/gregorys-bistro/internal/infra/storage/table"
	"github.com/gregp1985/gregorys-bistro/internal/integrations/notify"
	bookingsService "github.com/gregp1985/gregorys-bistro/internal/service/bookings"
	createBookingUC "github.com/gregp1985/gregorys-bistro/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/gregp1985/gregorys-bistro/internal/usecase/get_available_slots"
	updateBookingUC "github.com/gregp1985/gregorys-bistro/internal/usecase/update_booking"
	"github.com/gregp1985/gregorys-bistro/pkg/dbmetrics"
	"github.com/gregp1985/gregorys-bistro/pkg/logger"
	"github.com/gregp1985/gregorys-bistro/pkg/metrics"
	"github.com/gregp1985/gregorys-bistro/pkg/simpletxmanager"
	"github.com/gregp1985/gregorys-bistro/pkg/txmanager"
)

// TxManager is what the booking use cases need from either transaction
// manager flavour.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting gregorys-bistro booking service...")

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to resolve operating timezone: %v", err)
	}
	log.Info("Operating timezone: %s", loc)

	var (
		metricsCollector *metrics.Metrics
		wrappedDB        *dbmetrics.DB
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := migrate.Run(context.Background(), db); err != nil {
		log.Fatal("Failed to run schema migration: %v", err)
	}
	log.Info("Schema migration applied")

	var notifier *notify.Client
	if cfg.Notifier.URL != "" {
		notifier = notify.NewClient(
			cfg.Notifier.URL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
		log.Info("Cancellation notifier initialized (url=%s, timeout=%ds)",
			cfg.Notifier.URL, cfg.Notifier.Timeout)
	} else {
		log.Warn("Notifier URL not configured, cancellation notices disabled")
	}

	var (
		bookingRepository *bookingRepo.Repository
		tableRepository   *tableRepo.Repository
		hoursRepository   *openingHoursRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		tableRepository = tableRepo.NewRepository(wrappedDB)
		hoursRepository = openingHoursRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		tableRepository = tableRepo.NewRepository(db)
		hoursRepository = openingHoursRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Assign interface fields only when the backing value exists, so the
	// consumers' nil checks keep working.
	var notifierForSvc bookingsService.Notifier
	if notifier != nil {
		notifierForSvc = notifier
	}
	var (
		createConflicts createBookingUC.ConflictMetrics
		updateConflicts updateBookingUC.ConflictMetrics
	)
	if metricsCollector != nil {
		createConflicts = metricsCollector
		updateConflicts = metricsCollector
	}

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		tableRepository,
		hoursRepository,
		notifierForSvc,
		loc,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		tableRepository,
		hoursRepository,
		loc,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		tableRepository,
		hoursRepository,
		txMgr,
		createConflicts,
		loc,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		tableRepository,
		hoursRepository,
		txMgr,
		updateConflicts,
		loc,
		log,
	)

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getOpeningHours := getOpeningHoursHandler.NewHandler(bookingSvc, log)
	getCalendarEvents := getCalendarEventsHandler.NewHandler(bookingSvc, loc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes.
	api.HandleFunc("/opening-hours", getOpeningHours.Handle).Methods(http.MethodGet)

	// Routes requiring a caller identity from the gateway.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// Staff routes.
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.StaffOnly)
	admin.HandleFunc("/calendar-events", getCalendarEvents.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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
