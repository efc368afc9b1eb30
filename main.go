package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NagawaEsther/live-well/internal/config"
	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/handler"
	"github.com/NagawaEsther/live-well/internal/logging"
	"github.com/NagawaEsther/live-well/internal/metrics"
	"github.com/NagawaEsther/live-well/internal/reporting"
	"github.com/NagawaEsther/live-well/internal/repository/sqldb"
	"github.com/NagawaEsther/live-well/internal/service"
	"github.com/NagawaEsther/live-well/internal/telecom"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("livewell exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCloser := logging.Setup(logging.Options{Level: cfg.LogLevel, FilePath: cfg.LogFile})
	defer logCloser.Close()

	reporter := reporting.New(cfg.SentryDSN, cfg.SentryEnvironment, "livewell@"+version)
	defer reporter.Flush(2 * time.Second)

	db, err := sqldb.New(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "driver", cfg.DBDriver)

	authService := service.NewAuthService(db.Users(), service.NewBcryptHasher(cfg.BcryptCost))
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	gateway := telecom.NewClient(telecom.Config{
		Username: cfg.ATUsername,
		APIKey:   cfg.ATAPIKey,
		SMSURL:   cfg.ATSMSURL,
		VoiceURL: cfg.ATVoiceURL,
		SenderID: cfg.ATSenderID,
	})
	if cfg.ATAPIKey == "" {
		slog.Warn("AT_API_KEY is not set; telecom requests will be rejected by the gateway")
	}

	loginLimiter := service.NewTokenBucket(cfg.LoginRate, cfg.LoginBurst)
	defer loginLimiter.Stop()

	m := metrics.New()

	// Seed the administrator account (idempotent).
	if cfg.SeedAdmin() {
		created, err := authService.SeedAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("seed admin account: %w", err)
		}
		if created {
			slog.Info("admin account created", "email", cfg.AdminEmail)
		}
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		DB:             db,
		Auth:           authService,
		Tokens:         tokenService,
		Guard:          service.NewGuard(),
		Doctors:        service.NewResourceService[domain.Doctor]("doctor", db.Doctors()),
		Appointments:   service.NewResourceService[domain.Appointment]("appointment", db.Appointments()),
		MedicalRecords: service.NewMedicalRecordService(db.MedicalRecords()),
		Phones:         service.NewPhoneService(db.Phones()),
		SMSLogs:        service.NewResourceService[domain.SMSLog]("sms log", db.SMSLogs()),
		USSDSessions:   service.NewResourceService[domain.USSDSession]("ussd session", db.USSDSessions()),
		VoiceCalls:     service.NewResourceService[domain.VoiceCall]("voice call", db.VoiceCalls()),
		Telecom:        service.NewTelecomService(gateway, db.SMSLogs(), db.VoiceCalls(), db.USSDSessions(), db.Doctors(), cfg.SupportNumber),
		Metrics:        m,
		Reporter:       reporter,
		LoginLimiter:   loginLimiter,
	})

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.Wrap(mux, handler.Options{
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			Metrics:            m,
			Reporter:           reporter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
