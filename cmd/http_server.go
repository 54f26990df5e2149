package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	attendancestore "github.com/reliefops/duty-management/internal/attendance/postgres"
	"github.com/reliefops/duty-management/internal/auth"
	authstore "github.com/reliefops/duty-management/internal/auth/postgres"
	"github.com/reliefops/duty-management/internal/core/events"
	"github.com/reliefops/duty-management/internal/dashboard"
	"github.com/reliefops/duty-management/internal/department"
	departmentstore "github.com/reliefops/duty-management/internal/department/postgres"
	"github.com/reliefops/duty-management/internal/gate"
	"github.com/reliefops/duty-management/internal/personnel"
	personnelstore "github.com/reliefops/duty-management/internal/personnel/postgres"
	"github.com/reliefops/duty-management/internal/schedule"
	schedulestore "github.com/reliefops/duty-management/internal/schedule/postgres"
	"github.com/reliefops/duty-management/internal/swap"
	swapstore "github.com/reliefops/duty-management/internal/swap/postgres"
	"github.com/reliefops/duty-management/internal/transport/rest"
	"github.com/reliefops/duty-management/pkg/logger"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	log := deps.Logger
	cfg := deps.Config
	gdb := deps.GormDB

	bus := events.NewEventBus(log)

	var tokens auth.TokenGenerator
	if cfg.Security.AccessTokenSecret != "" {
		tokens = auth.NewJWTTokenGenerator(cfg.Security.AccessTokenSecret, cfg.Security.AccessTokenDuration)
	} else {
		log.Warn("no access token secret configured; auth endpoints will refuse to operate")
	}

	authService := auth.NewService(authstore.NewAuthStore(gdb), tokens, bus, cfg.Security, log)

	personnelRepo := personnelstore.NewPersonnelRepository(gdb)
	personnelService := personnel.NewService(personnelRepo, authService, log)
	departmentService := department.NewService(departmentstore.NewDepartmentRepository(gdb), log)
	scheduleRepo := schedulestore.NewScheduleRepository(gdb)
	scheduleService := schedule.NewService(scheduleRepo, log)
	attendanceService := attendance.NewService(attendancestore.NewAttendanceRepository(gdb), scheduleRepo, log)
	swapService := swap.NewService(swapstore.NewSwapRepository(gdb), log)
	dashboardService := dashboard.NewService(personnelRepo, scheduleRepo, swapstore.NewSwapRepository(gdb), attendanceService, log)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService),
		Personnel:  personnel.NewHandler(personnelService),
		Department: department.NewHandler(departmentService),
		Schedule:   schedule.NewHandler(scheduleService),
		Attendance: attendance.NewHandler(attendanceService),
		Swap:       swap.NewHandler(swapService),
		Dashboard:  dashboard.NewHandler(dashboardService),
	}

	var sqlDB *sql.DB
	if deps.DB != nil {
		sqlDB = deps.DB.DB
	}
	rest.RegisterAllRoutes(deps.Router, sqlDB, cfg, handlers, authService, gate.NewResolver(personnelRepo), log)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.Format == "json" {
		logger.Init("production")
	} else {
		logger.Init("development")
	}
	log := logger.L()

	deps := &Dependencies{
		Config: config,
		Logger: log,
		Router: chi.NewRouter(),
	}

	if !config.Database.Configured() {
		log.Warn("no database configured; running degraded, all reads come back empty")
		return deps, nil
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	deps.DB = db
	deps.GormDB = gdb
	return deps, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
