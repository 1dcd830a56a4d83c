package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/config"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	appHTTP "github.com/dayflow-hris/dayflow-backend/internal/handler/http"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/calendar"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/cron"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/email"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/firebase"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/jwt"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/storage"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/telemetry"
	"github.com/dayflow-hris/dayflow-backend/internal/repository/postgresql"
	attendanceService "github.com/dayflow-hris/dayflow-backend/internal/service/attendance"
	serviceAuth "github.com/dayflow-hris/dayflow-backend/internal/service/auth"
	dashboardService "github.com/dayflow-hris/dayflow-backend/internal/service/dashboard"
	employeeService "github.com/dayflow-hris/dayflow-backend/internal/service/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/service/file"
	leaveService "github.com/dayflow-hris/dayflow-backend/internal/service/leave"
	payrollService "github.com/dayflow-hris/dayflow-backend/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.IsDevelopment())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.Tracing.ServiceName),
		slog.String("env", cfg.App.Env),
	)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		ServiceName:  cfg.Tracing.ServiceName,
		Environment:  cfg.App.Env,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("Tracer shutdown failed", "error", err)
		}
	}()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	clock := calendar.NewClock(cfg.Location())

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	txManager := postgresql.NewTxManager(db)

	var (
		identityProvider auth.Provider
		authHandler      appHTTP.AuthHandler
	)
	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		provider, err := firebase.New(ctx, firebase.Config{
			ProjectID:          cfg.Firebase.ProjectID,
			ServiceAccountPath: cfg.Firebase.ServiceAccountPath,
		})
		if err != nil {
			return fmt.Errorf("init firebase: %w", err)
		}
		identityProvider = provider
	default:
		jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
		if err != nil {
			return fmt.Errorf("init jwt: %w", err)
		}
		local := serviceAuth.NewLocalProvider(postgresql.NewIdentityRepository(db), jwtService)
		identityProvider = local
		authHandler = appHTTP.NewAuthHandler(local)
	}
	slog.Info("Identity provider configured", "provider", cfg.Auth.Provider, "mode", cfg.Auth.Mode)

	emailService, err := newEmailService(ctx, cfg)
	if err != nil {
		return err
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, clock)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, emailService, clock)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, clock)
	employeeSvc := employeeService.NewEmployeeService(
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		payrollRepo,
		identityProvider,
		fileService,
		emailService,
		txManager,
		clock,
	)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, attendanceRepo, leaveRequestRepo, payrollRepo, clock)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:                cfg.App.Env,
			CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
			BodyLimitBytes:     cfg.App.BodyLimitBytes,
			DevHeaderAuth:      cfg.Auth.Mode == config.AuthModeDevHeader,
			UploadsDir:         fileStorage.BasePath(),
			ServiceName:        cfg.Tracing.ServiceName,
			Logger:             logger,
		},
		identityProvider,
		employeeSvc,
		appHTTP.Handlers{
			Auth:       authHandler,
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		},
	)

	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		jobs, err := cron.NewAttendanceJobs(attendanceSvc, clock, cfg.Cron.MarkAbsentAt)
		if err != nil {
			return err
		}
		scheduler = cron.NewScheduler(ctx)
		jobs.RegisterJobs(scheduler)
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	emailService.Wait()

	slog.Info("Server exiting")
	return nil
}

func newEmailService(ctx context.Context, cfg *config.Config) (*email.AsyncEmailService, error) {
	var sender email.Sender
	switch strings.ToLower(cfg.Email.Provider) {
	case "smtp":
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.Email.From,
		})
	case "ses":
		sesSender, err := email.NewSESSender(ctx, email.SESConfig{
			Region:   cfg.AWS.Region,
			Endpoint: cfg.AWS.Endpoint,
			From:     cfg.Email.From,
		})
		if err != nil {
			return nil, fmt.Errorf("init ses: %w", err)
		}
		sender = sesSender
	default:
		sender = email.NoopSender{}
	}

	emailService, err := email.NewEmailService(sender, cfg.Email.LoginURL)
	if err != nil {
		return nil, fmt.Errorf("init email: %w", err)
	}
	slog.Info("Email delivery configured", "provider", cfg.Email.Provider)
	return email.NewAsyncEmailService(emailService), nil
}
