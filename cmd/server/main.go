package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"peopledesk/internal/domain/attendance"
	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/compliance"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/domain/documents"
	"peopledesk/internal/domain/leave"
	"peopledesk/internal/domain/notifications"
	"peopledesk/internal/domain/offboarding"
	"peopledesk/internal/domain/reports"
	"peopledesk/internal/platform/config"
	"peopledesk/internal/platform/crypto"
	"peopledesk/internal/platform/db"
	"peopledesk/internal/platform/email"
	"peopledesk/internal/platform/jobs"
	"peopledesk/internal/platform/metrics"
	"peopledesk/internal/platform/storage"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/handlers/attendancehandler"
	"peopledesk/internal/transport/http/handlers/audithandler"
	"peopledesk/internal/transport/http/handlers/authhandler"
	"peopledesk/internal/transport/http/handlers/compliancehandler"
	"peopledesk/internal/transport/http/handlers/corehandler"
	"peopledesk/internal/transport/http/handlers/documentshandler"
	"peopledesk/internal/transport/http/handlers/leavehandler"
	"peopledesk/internal/transport/http/handlers/notificationshandler"
	"peopledesk/internal/transport/http/handlers/offboardinghandler"
	"peopledesk/internal/transport/http/handlers/reportshandler"
	"peopledesk/internal/transport/http/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			return err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return err
		}
	}

	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return err
	}
	mailer := email.New(cfg)
	blobs := storage.NewS3(cfg)
	collector := metrics.New()

	authStore := auth.NewStore(pool)
	coreStore := core.NewStore(pool)
	auditSvc := audit.NewService(pool)

	notificationSvc := notifications.NewService(notifications.NewStore(pool), mailer, cfg.EmailFrom)

	leaveStore := leave.NewStore(pool)
	ledger := leave.NewLedger(pool)
	leaveSvc := leave.NewService(leaveStore, ledger, coreStore, notificationSvc)

	complianceStore := compliance.NewStore(pool)
	complianceSvc := compliance.NewService(complianceStore)
	sweeper := compliance.NewSweeper(complianceStore, notificationSvc)

	documentSvc := documents.NewService(documents.NewStore(pool), coreStore, cryptoSvc, blobs)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool))
	offboardingSvc := offboarding.NewService(offboarding.NewStore(pool))
	reportSvc := reports.NewService(reports.NewStore(pool))

	perm := func(permission string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(authStore, permission)
	}

	authHandler := &authhandler.Handler{
		Store:     authStore,
		Audit:     auditSvc,
		Mailer:    mailer,
		JWTSecret: cfg.JWTSecret,
		EmailFrom: cfg.EmailFrom,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(collector))
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute,
		"/api/v1/auth/login",
		"/api/v1/auth/password-reset/request")
	router.Use(limiter.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, r, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			api.Fail(w, r, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		api.Success(w, r, map[string]string{"status": "ready"})
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, r, collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.PublicRoutes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.JWTSecret))

			r.Mount("/account", authHandler.Routes())
			r.Mount("/", (&corehandler.Handler{Store: coreStore, Audit: auditSvc, Perm: perm}).Routes())
			r.Mount("/leave", (&leavehandler.Handler{Service: leaveSvc, Core: coreStore, Audit: auditSvc, Perm: perm}).Routes())
			r.Mount("/compliance", (&compliancehandler.Handler{Service: complianceSvc, Sweeper: sweeper, Audit: auditSvc, Perm: perm}).Routes())
			r.Mount("/documents", (&documentshandler.Handler{Service: documentSvc, Audit: auditSvc, Perm: perm}).Routes())
			r.Mount("/attendance", (&attendancehandler.Handler{Service: attendanceSvc, Core: coreStore, Perm: perm}).Routes())
			r.Mount("/offboarding", (&offboardinghandler.Handler{Service: offboardingSvc, Audit: auditSvc, Perm: perm}).Routes())
			r.Mount("/notifications", (&notificationshandler.Handler{Service: notificationSvc}).Routes())
			r.Mount("/reports", (&reportshandler.Handler{Service: reportSvc, Perm: perm}).Routes())
			r.Mount("/audit", (&audithandler.Handler{Service: auditSvc, Perm: perm}).Routes())
		})
	})

	jobSvc := jobs.New(pool)
	jobSvc.Start(ctx)
	defer jobSvc.Stop()

	jobSvc.Schedule(ctx, "leave_monthly_accrual", cfg.AccrualInterval, func(ctx context.Context) error {
		ran, err := leaveStore.AccrualRanThisMonth(ctx)
		if err != nil {
			return err
		}
		if ran {
			return nil
		}
		_, err = leave.RunMonthlyAccrual(ctx, leaveStore, ledger)
		return err
	})
	jobSvc.Schedule(ctx, "compliance_sweep", cfg.SweepInterval, func(ctx context.Context) error {
		_, err := sweeper.SweepExpirations(ctx, time.Now())
		return err
	})
	jobSvc.Schedule(ctx, "audit_retention", cfg.RetentionInterval, func(ctx context.Context) error {
		horizon := time.Now().AddDate(0, 0, -cfg.RetentionDays)
		purged, err := auditSvc.Purge(ctx, horizon)
		if err != nil {
			return err
		}
		if purged > 0 {
			slog.Info("audit retention purged events", slog.Int64("count", purged))
		}
		return nil
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening",
			slog.String("addr", cfg.Addr),
			slog.String("environment", cfg.Environment))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
