package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"partnerdesk/internal/compliance"
	"partnerdesk/internal/identity"
	"partnerdesk/internal/notification"
	"partnerdesk/internal/partner"
	"partnerdesk/internal/platform/config"
	"partnerdesk/internal/platform/httpserver"
	"partnerdesk/internal/platform/kafka"
	"partnerdesk/internal/platform/logger"
	"partnerdesk/internal/platform/middleware"
	platformredis "partnerdesk/internal/platform/redis"
	"partnerdesk/internal/project"
	"partnerdesk/internal/tender/handler"
	"partnerdesk/internal/tender/metrics"
	"partnerdesk/internal/tender/service"
	"partnerdesk/internal/tender/store"
)

// main wires the dependencies and keeps the process lifecycle small. All
// business rules live under internal/.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		tenders    store.Store
		transactor store.Transactor
		directory  partner.Directory
		projects   project.Store
		outbox     notification.Outbox
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		tenders = store.NewPostgresStore(db)
		transactor = store.NewPostgresTransactor(db)
		directory = partner.NewPostgresDirectory(db)
		projects = project.NewPostgresStore(db)
		outbox = notification.NewPostgresOutbox(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		memTenders := store.NewInMemoryStore()
		memProjects := project.NewInMemoryStore()
		memOutbox := notification.NewInMemoryOutbox()
		tenders = memTenders
		projects = memProjects
		outbox = memOutbox
		transactor = store.NewInMemoryTransactor(memTenders, memProjects, memOutbox)
		directory = partner.NewInMemoryDirectory()
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
		directory = partner.NewCachedDirectory(directory, rdb.Client, cfg.EligibleCacheTTL, log)
		log.Info("partner listing cache enabled", "ttl", cfg.EligibleCacheTTL)
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
	if err != nil {
		return fmt.Errorf("connect kafka: %w", err)
	}
	if producer != nil {
		defer producer.Close()
		if err := producer.EnsureTopic(ctx); err != nil {
			return fmt.Errorf("ensure notification topic: %w", err)
		}
	}

	svc := service.New(service.Deps{
		Tenders:  tenders,
		Tx:       transactor,
		Partners: directory,
		Projects: projects,
		Outbox:   outbox,
		Matcher:  compliance.Matcher{LooseNameMatch: cfg.LooseCertMatch},
		Metrics:  metrics.New(),
		Logger:   log,
	})
	jwtService := identity.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtService, log))
		handler.New(svc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting partnerdesk", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if producer != nil {
		relay := notification.NewRelay(outbox, producer, log)
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Warn("KAFKA_BROKERS not set, notification relay disabled")
	}

	return g.Wait()
}
