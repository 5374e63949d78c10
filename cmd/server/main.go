package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"takatrack-backend/internal/config"
	"takatrack-backend/internal/database"
	"takatrack-backend/internal/handlers"
	"takatrack-backend/internal/logging"
	"takatrack-backend/internal/middleware"
	"takatrack-backend/internal/services"
	"takatrack-backend/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// initPush builds the Firebase notifier from whichever credentials are set.
// Push is optional, so failures only disable it.
func initPush(ctx context.Context, cfg *config.Config, s *database.Store) services.PushNotifier {
	log := zap.S()

	if !cfg.FirebaseConfigured() {
		log.Info("ℹ️  Firebase credentials not set (push notifications disabled)")
		return nil
	}

	var (
		fcm *services.FCMService
		err error
	)
	if cfg.FirebaseCredentialsBase64 != "" {
		fcm, err = services.NewFCMServiceFromBase64(ctx, s, cfg.FirebaseCredentialsBase64)
	} else {
		fcm, err = services.NewFCMService(ctx, s, cfg.FirebaseCredentialsFile)
	}
	if err != nil {
		log.Warnw("⚠️  Failed to initialize FCM (push notifications disabled)", "error", err)
		return nil
	}

	log.Info("✅ Firebase Cloud Messaging initialized")
	return fcm
}

// The defer calls don't run if we exit with log.Fatal, so errors are
// returned here and reported by main.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	_, flush, err := logging.Setup(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		Production: cfg.IsProduction(),
	})
	if err != nil {
		return err
	}
	defer flush()

	log := zap.S()
	log.Info("═══════════════════════════════════════════════════════════════════")
	log.Info("🚀 TAKATRACK BACKEND SERVER STARTING")
	log.Info("═══════════════════════════════════════════════════════════════════")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info("🔄 Running database migrations...")
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	log.Info("✅ Database migrations completed")

	st := database.NewStore(db)
	if cfg.SeedDemoData {
		if err := database.Seed(ctx, st); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)
	prometheus.MustRegister(hub.ClientsGauge())
	log.Info("✅ WebSocket hub started")

	push := initPush(ctx, cfg, st)

	presenter := services.JitterPresenter(cfg.BinStatusJitter, rand.NewSource(time.Now().UnixNano()))
	authOpts := middleware.AuthOptions{
		Enforce:    cfg.EnforceAuth,
		DemoUserID: cfg.DemoUserID,
	}
	if !authOpts.Enforce {
		log.Warnw("⚠️  ENFORCE_AUTH is off: requests without a token run as the demo user", "demo_user_id", cfg.DemoUserID)
	}

	router := handlers.NewRouter(handlers.Dependencies{
		Auth:           services.NewAuthService(st, cfg.JWTSecret, cfg.TokenTTL),
		Waste:          services.NewWasteService(st, presenter, hub, push),
		Recycling:      services.NewRecyclingService(st, hub),
		Dashboard:      services.NewDashboardService(st),
		Hub:            hub,
		AuthOptions:    authOpts,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("═══════════════════════════════════════════════════════════════════")
		log.Infof("🚀 Server starting on http://localhost:%s", cfg.Port)
		log.Info("═══════════════════════════════════════════════════════════════════")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
