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

	"payyourfriends/config"
	"payyourfriends/database"
	"payyourfriends/handlers"
	"payyourfriends/logging"
	"payyourfriends/middleware"
	"payyourfriends/models"
	"payyourfriends/services"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Firebase backs both the Firestore store and ID token verification.
	var app *firebase.App
	var err error
	if cfg.DataBackend == "firestore" || cfg.AuthMode == "firebase" {
		app, err = database.NewFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseServiceAccount, cfg.FirebaseCredPath)
		if err != nil {
			return err
		}
	}

	store, err := openStore(ctx, cfg, app, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := seedMembers(ctx, store, cfg, logger); err != nil {
		return err
	}

	// Connect to Redis (optional, won't crash if unavailable)
	redisClient := database.ConnectRedis(ctx, cfg.RedisURL, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := services.NewAnalyticsCache(redisClient, cfg.AnalyticsCacheTTL, logger)

	var mailer services.Mailer
	if cfg.MailDriver == "log" {
		mailer = services.NewLogMailer(logger)
	} else {
		mailer = services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
	}

	var verifier middleware.Verifier
	if cfg.AuthMode == "jwt" {
		verifier = middleware.NewJWTVerifier(cfg.JWTSecret)
	} else {
		verifier, err = middleware.NewFirebaseVerifier(ctx, app)
		if err != nil {
			return err
		}
	}

	dispatcher := services.NewDispatcher(mailer, services.DispatcherConfig{
		Concurrency:  cfg.ReportConcurrency,
		SendTimeout:  cfg.ReportSendTimeout,
		BatchTimeout: cfg.ReportBatchTimeout,
	}, logger)
	job := services.NewReportJob(store, dispatcher, cfg.Groups(), logger)
	expenses := services.NewExpenseService(store, cache, cfg.Location(), logger)

	if cfg.ReportScheduleEnabled {
		scheduler, err := services.NewScheduler(cfg.ReportSchedule, cfg.Location(), job, cfg.ReportBatchTimeout, logger)
		if err != nil {
			return fmt.Errorf("schedule report job: %w", err)
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ReportBatchTimeout)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.New(handlers.Options{
		Expenses:    expenses,
		Reports:     job,
		Mailer:      mailer,
		Members:     store,
		TestEmailTo: cfg.TestEmailTo,
		TokenSecret: cfg.JWTSecret,
		Logger:      logger,
	})
	router := handlers.NewRouter(h, handlers.RouterConfig{
		AppName:            cfg.AppName,
		Production:         cfg.IsProduction(),
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CronSecret:         cfg.CronSecret,
		Verifier:           verifier,
		DevTokens:          cfg.DevTokens,
		Logger:             logger,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "app", cfg.AppName, "addr", srv.Addr, "backend", cfg.DataBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, app *firebase.App, logger *slog.Logger) (database.Store, error) {
	switch cfg.DataBackend {
	case "postgres":
		return database.Connect(cfg.DatabaseURL, !cfg.IsProduction(), logger)
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return database.NewMemoryStore(), nil
	default:
		return database.NewFirestoreStore(ctx, app)
	}
}

type memberWriter interface {
	AddMember(ctx context.Context, m models.Member) error
}

// seedMembers registers SEED_MEMBERS on backends that keep their own member
// table. Firestore members are managed in the console.
func seedMembers(ctx context.Context, store database.Store, cfg *config.Config, logger *slog.Logger) error {
	w, ok := store.(memberWriter)
	if !ok {
		return nil
	}
	for _, m := range cfg.Members() {
		if err := w.AddMember(ctx, m); err != nil {
			return fmt.Errorf("seed member %s: %w", m.Email, err)
		}
		logger.Info("member seeded", "email", m.Email, "name", m.Name, "group", m.Group)
	}
	return nil
}
