package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"campustrust/internal/expiration"
	"campustrust/internal/gate"
	gatehandler "campustrust/internal/gate/handler"
	"campustrust/internal/platform/config"
	"campustrust/internal/platform/httpserver"
	"campustrust/internal/platform/jwt"
	"campustrust/internal/platform/kafka"
	"campustrust/internal/platform/logger"
	"campustrust/internal/platform/metrics"
	redisplatform "campustrust/internal/platform/redis"
	"campustrust/internal/profile"
	profilehandler "campustrust/internal/profile/handler"
	"campustrust/internal/registry"
	"campustrust/internal/renewal"
	renewalhandler "campustrust/internal/renewal/handler"
	renewalstore "campustrust/internal/renewal/store"
	"campustrust/internal/session"
	"campustrust/internal/session/evidence"
	"campustrust/internal/session/evidence/otp"
	sessionhandler "campustrust/internal/session/handler"
	httptransport "campustrust/internal/transport/http"
	audit "campustrust/pkg/platform/audit"
	"campustrust/pkg/platform/audit/publisher"
	auditmemory "campustrust/pkg/platform/audit/store/memory"
	auditpostgres "campustrust/pkg/platform/audit/store/postgres"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	reg := registry.Default()
	tracker := expiration.NewTracker(reg, cfg.GraceWindow, cfg.ExpiryWarningWindow)

	// Stores: PostgreSQL when configured, in-memory otherwise.
	var (
		profileStore profile.Store
		renewStore   renewalstore.Store
		auditStore   audit.Store
		db           *sql.DB
	)
	if cfg.Postgres.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return err
		}

		db, err = sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}

		profileStore = profile.NewPostgres(pool)
		renewStore = renewalstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		profileStore = profile.NewInMemoryStore()
		renewStore = renewalstore.NewInMemoryStore()
		auditStore = auditmemory.NewInMemoryStore()
	}

	auditPub := publisher.New(auditStore, publisher.WithLogger(log))
	defer auditPub.Close()

	redisClient, err := redisplatform.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	profileOpts := []profile.Option{profile.WithLogger(log)}
	if redisClient != nil {
		profileOpts = append(profileOpts,
			profile.WithCache(profile.NewStatusCache(redisClient.Client, cfg.StatusCacheTTL, m)))
	}
	profileSvc := profile.NewService(profileStore, reg, tracker, profileOpts...)

	gateSvc := gate.NewService(profileSvc, reg,
		gate.WithLogger(log),
		gate.WithMetrics(m),
		gate.WithAudit(auditPub),
	)

	codes := otp.NewStore()
	verifiers := evidence.Verifiers{
		Document: evidence.NewDevDocumentAnalyzer(),
		Email:    evidence.NewDevEmailVerifier(codes, cfg.Campus.EmailDomains, log),
		Phone:    evidence.NewDevPhoneVerifier(codes, log),
		Social:   evidence.NewDevSocialVerifier(),
		Location: evidence.NewDevLocationVerifier(cfg.Campus.Latitude, cfg.Campus.Longitude, cfg.Campus.RadiusKM),
	}
	sessionSvc := session.NewService(session.NewInMemoryStore(), reg, profileSvc, verifiers,
		session.WithLogger(log),
		session.WithMetrics(m),
		session.WithAudit(auditPub),
	)

	renewalSvc := renewal.NewService(renewStore, profileSvc, reg, tracker,
		renewal.WithLogger(log),
		renewal.WithMetrics(m),
		renewal.WithAudit(auditPub),
	)

	jwtSvc := jwt.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	checks := map[string]httptransport.HealthChecker{}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	if db != nil {
		checks["postgres"] = dbChecker{db}
	}

	router := httptransport.NewRouter(log, m, checks,
		profilehandler.New(profileSvc, log, m, jwtSvc),
		gatehandler.New(gateSvc, log, m, jwtSvc),
		sessionhandler.New(sessionSvc, log, m, jwtSvc),
		renewalhandler.New(renewalSvc, profileSvc, log, m, jwtSvc, cfg.AdminToken),
	)
	srv := httpserver.New(cfg.Addr, router, httpserver.Config{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting campustrust", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.SweepInterval > 0 {
		sweeper := expiration.NewSweeper(profileStore, tracker, cfg.SweepInterval,
			expiration.WithLogger(log),
			expiration.WithMetrics(m),
			expiration.WithAudit(auditPub),
		)
		g.Go(func() error { return ignoreCanceled(sweeper.Run(gctx)) })
	}

	if len(cfg.Kafka.Brokers) > 0 && db != nil {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer producer.Close()
		if err := producer.EnsureTopic(ctx, 1, 1); err != nil {
			return err
		}
		outbox := kafka.NewOutboxWorker(db, producer, log, 5*time.Second)
		g.Go(func() error { return ignoreCanceled(outbox.Run(gctx)) })
	}

	return ignoreCanceled(g.Wait())
}

type dbChecker struct {
	db *sql.DB
}

func (c dbChecker) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
