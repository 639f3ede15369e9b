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

	"github.com/google/uuid"

	"github.com/example/therapy-scheduler/internal/application"
	"github.com/example/therapy-scheduler/internal/config"
	httptransport "github.com/example/therapy-scheduler/internal/http"
	"github.com/example/therapy-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := func() string { return uuid.NewString() }
	tokenGenerator := func() string { return uuid.NewString() + uuid.NewString() }
	now := time.Now

	staffRepo := sqlite.NewStaffRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	activityRepo := sqlite.NewActivityRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	accountRepo := sqlite.NewAccountRepository(pool)
	tokenRepo := sqlite.NewTokenRepository(pool)

	staffService := application.NewStaffService(staffRepo, idGenerator, now, logger)
	roomService := application.NewRoomService(roomRepo, idGenerator, now, logger)
	activityService := application.NewActivityService(activityRepo, idGenerator, now, logger)
	timetableService := application.NewTimetableService(staffRepo, roomRepo, activityRepo, sessionRepo, idGenerator, now, logger)
	authService := application.NewAuthService(accountRepo, tokenRepo, staffRepo, idGenerator, tokenGenerator, now, cfg.SessionTTL, logger)

	if err := authService.Bootstrap(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword); err != nil {
		logger.Error("failed to bootstrap administrator account", "error", err)
		os.Exit(1)
	}
	if err := authService.PurgeExpiredTokens(ctx); err != nil {
		logger.Warn("failed to purge expired tokens", "error", err)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:       httptransport.NewAuthHandler(authService, logger),
		Staff:      httptransport.NewStaffHandler(staffService, logger),
		Rooms:      httptransport.NewRoomHandler(roomService, logger),
		Activities: httptransport.NewActivityHandler(activityService, logger),
		Sessions:   httptransport.NewSessionHandler(timetableService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Login is the only route reachable without a session.
		if r.URL.Path == "/sessions" && r.Method == http.MethodPost {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("therapy scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
