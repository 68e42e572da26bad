package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/locker"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/telegram"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/employee"
	notificationService "github.com/cmlabs-hris/hris-attendance-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/hris-attendance-go/internal/service/payroll"
	tenantService "github.com/cmlabs-hris/hris-attendance-go/internal/service/tenant"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	location, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Master registry
	registryDB, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("connect registry database: %w", err)
	}
	defer registryDB.Close()

	if err := postgresql.NewRegistrySchemaAligner().Align(ctx, registryDB); err != nil {
		return fmt.Errorf("align registry schema: %w", err)
	}

	tenantRepo := postgresql.NewTenantRepository(registryDB)
	storeOptions := database.PoolOptions{MaxConns: cfg.Tenant.MaxConnsPerStore}
	tenantRouter := tenantService.NewRouter(
		tenantRepo,
		func(ctx context.Context, path string) (*database.DB, error) {
			return database.NewPostgreSQLDB(ctx, path, storeOptions)
		},
		database.NewAlignmentRegistry(postgresql.NewTenantSchemaAligner()),
		cfg.Tenant.DefaultStoreURL,
	)
	defer tenantRouter.Close()

	// Repositories fall back to the default store when no tenant is attached.
	defaultStore, _, err := tenantRouter.Resolve(ctx, nil)
	if err != nil {
		return fmt.Errorf("open default store: %w", err)
	}

	employeeRepo := postgresql.NewEmployeeRepository(defaultStore)
	attendanceRepo := postgresql.NewAttendanceRepository(defaultStore, location)
	txManager := postgresql.NewTxManager(defaultStore)

	// Notifications
	hub := sse.NewHub()
	notifiers := []notification.Notifier{notificationService.NewSSENotifier(hub)}
	if cfg.SMTP.Host != "" {
		emailService, err := email.NewEmailService(cfg.SMTP)
		if err != nil {
			return fmt.Errorf("init email service: %w", err)
		}
		notifiers = append(notifiers, notificationService.NewEmailNotifier(emailService))
	}
	if telegramClient := telegram.NewClient(cfg.Telegram); telegramClient.Configured() {
		notifiers = append(notifiers, notificationService.NewTelegramNotifier(telegramClient))
	}
	dispatcher := notificationService.NewDispatcher(notificationService.Config{
		WorkerCount: cfg.Notification.WorkerCount,
		QueueSize:   cfg.Notification.QueueSize,
		TaskTimeout: cfg.Notification.TaskTimeout,
	}, notifiers...)
	defer dispatcher.Stop()

	// Services
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := serviceAuth.NewAuthService(tenantRouter, employeeRepo, jwtService, cfg.Admin, cfg.Master)
	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		attendanceRepo,
		employeeRepo,
		locker.New(),
		dispatcher,
		attendanceService.WithLocation(location),
	)
	payrollSvc := payrollService.NewPayrollService(employeeRepo, attendanceRepo, cfg.Payroll.Concurrency)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	tenantSvc := tenantService.NewTenantService(
		tenantRepo,
		postgresql.NewStoreProvisioner(registryDB),
		cfg.Tenant.StoreURLTemplate,
		cfg.Tenant.StoreNamePrefix,
	)

	// Cron
	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewOpenPunchJob(tenantRepo, tenantRouter, attendanceRepo, dispatcher, true, location).
			RegisterJobs(scheduler, cfg.Cron.OpenPunchInterval)
		scheduler.Start()
	}
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:         cfg.App.Env,
			Version:     version,
			CORSOrigins: cfg.App.CORSOrigins,
			LogLevel:    level,
		},
		jwtService,
		tenantRouter,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Tenant:     appHTTP.NewTenantHandler(tenantSvc),
			Events:     appHTTP.NewEventsHandler(jwtService, hub),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
