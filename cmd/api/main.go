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

	"github.com/diskominfo-klu/absensi-backend-go/internal/config"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	appHTTP "github.com/diskominfo-klu/absensi-backend-go/internal/handler/http"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/calendar"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/cron"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/database"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/ipgeo"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/oauth"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/sse"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/utils"
	"github.com/diskominfo-klu/absensi-backend-go/internal/repository/postgresql"
	attendanceService "github.com/diskominfo-klu/absensi-backend-go/internal/service/attendance"
	serviceAuth "github.com/diskominfo-klu/absensi-backend-go/internal/service/auth"
	dashboardService "github.com/diskominfo-klu/absensi-backend-go/internal/service/dashboard"
	employeeService "github.com/diskominfo-klu/absensi-backend-go/internal/service/employee"
	employeeDashboardService "github.com/diskominfo-klu/absensi-backend-go/internal/service/employee_dashboard"
	geofenceService "github.com/diskominfo-klu/absensi-backend-go/internal/service/geofence"
	reportService "github.com/diskominfo-klu/absensi-backend-go/internal/service/report"
	securityLogService "github.com/diskominfo-klu/absensi-backend-go/internal/service/securitylog"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "absensi-diskominfo-klu"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	rdb, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// Redis only backs caches and OAuth state; run without it.
		slog.Warn("Redis unavailable, continuing without cache", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	clock := timezone.NewClock(cfg.App.Timezone)
	holidays, err := calendar.NewFixedCalendar(cfg.App.Holidays)
	if err != nil {
		return fmt.Errorf("parse HOLIDAYS: %w", err)
	}

	// Repositories
	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	securityLogRepo := postgresql.NewSecurityLogRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	hub := sse.NewHub()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	var GoogleService oauth.GoogleService
	if cfg.GoogleEnabled() {
		states := oauth.NewStateStore(rdb, oauth.StateTTL)
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes, states)
	}

	locator := ipgeo.NewCachedLocator(ipgeo.NewHTTPLocator(cfg.IPGeo.URL, cfg.IPGeo.Timeout), rdb, cfg.IPGeo.CacheTTL, cfg.IPGeo.Timeout)

	// Services
	securityLogSvc := securityLogService.NewSecurityLogService(securityLogRepo, hub)
	evaluator := geofenceService.NewEvaluator(geofenceService.Office{
		Name:         cfg.Office.Name,
		Location:     utils.Coordinate{Latitude: cfg.Office.Latitude, Longitude: cfg.Office.Longitude},
		RadiusMeters: cfg.Office.RadiusMeters,
	}, locator, securityLogSvc)
	authService := serviceAuth.NewAuthService(tx, userRepo, JWTService, JWTRepository)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		tx,
		attendanceRepo,
		employeeRepo,
		evaluator,
		clock,
		attendance.OfficeResponse{
			Name:         cfg.Office.Name,
			Latitude:     cfg.Office.Latitude,
			Longitude:    cfg.Office.Longitude,
			RadiusMeters: cfg.Office.RadiusMeters,
		},
		hub,
	)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo, clock, holidays)
	employeeDashboardSvc := employeeDashboardService.NewEmployeeDashboardService(attendanceRepo, employeeRepo, clock, holidays)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, clock, holidays, hub)

	// Scheduled jobs
	scheduler := cron.NewScheduler(clock.Location())
	if err := cron.NewAttendanceJobs(dashboardSvc).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(logger, JWTService, cfg.App.FrontendURL, cfg.App.TrustedProxies, appHTTP.Handlers{
		Auth:              appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL),
		Attendance:        appHTTP.NewAttendanceHandler(attendanceSvc),
		EmployeeDashboard: appHTTP.NewEmployeeDashboardHandler(employeeDashboardSvc),
		Employee:          appHTTP.NewEmployeeHandler(employeeSvc),
		Report:            appHTTP.NewReportHandler(reportSvc),
		Dashboard:         appHTTP.NewDashboardHandler(dashboardSvc),
		SecurityLog:       appHTTP.NewSecurityLogHandler(securityLogSvc),
		Event:             appHTTP.NewEventHandler(JWTService, hub),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", httpServer.Addr, "timezone", clock.Location().String())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
