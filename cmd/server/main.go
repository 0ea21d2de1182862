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

	"samadhan/internal/audit"
	"samadhan/internal/catalog"
	catalogmetrics "samadhan/internal/catalog/metrics"
	"samadhan/internal/eligibility"
	"samadhan/internal/family"
	familymetrics "samadhan/internal/family/metrics"
	"samadhan/internal/jwttoken"
	"samadhan/internal/member"
	"samadhan/internal/platform/config"
	"samadhan/internal/platform/database"
	"samadhan/internal/platform/httpserver"
	"samadhan/internal/platform/logger"
	"samadhan/internal/platform/metrics"
	platformredis "samadhan/internal/platform/redis"
	"samadhan/internal/registration"
	regmetrics "samadhan/internal/registration/metrics"
	httptransport "samadhan/internal/transport/http"
	"samadhan/pkg/platform/tx"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages. With no DATABASE_URL the process
// runs fully in memory with seeded demo data, which is how field testing and
// local development work.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.PostgresURL)
	if err != nil {
		log.Error("postgres unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	platformMetrics := metrics.New()
	familyMetrics := familymetrics.New()
	registrationMetrics := regmetrics.New()

	var (
		catalogStore catalog.Store
		ruleStore    eligibility.Store
		memberStore  member.Store
		familyStore  family.Store
		auditStore   audit.Store
		runner       tx.Runner
		health       []httptransport.HealthCheck
	)
	if db != nil {
		catalogStore, ruleStore, memberStore, familyStore, auditStore, err = postgresStores(ctx, db)
		if err != nil {
			log.Error("ensure schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
		runner = tx.NewSQLRunner(db)
		health = append(health, httptransport.HealthCheck{Name: "postgres", Check: db.PingContext})
	} else {
		log.Info("no DATABASE_URL configured, using in-memory stores with demo data")
		catalogStore, ruleStore, memberStore, familyStore, auditStore = memoryStores()
		runner = tx.NewLockRunner()
	}
	if redisClient != nil {
		catalogStore = catalog.NewCachedStore(catalogStore, redisClient.Client,
			cfg.CatalogCacheTTL, catalogmetrics.New())
		health = append(health, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	auditWorker := audit.NewWorker(auditStore, log, 256)
	go auditWorker.Run(ctx)

	var publisher audit.Publisher = auditWorker
	var kafkaPublisher *audit.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err = audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka unavailable", slog.String("error", err.Error()))
			os.Exit(1)
		}
		publisher = audit.MultiPublisher{auditWorker, kafkaPublisher}
	}

	catalogService := catalog.NewService(catalogStore)
	memberService := member.NewService(memberStore, publisher, platformMetrics, log)
	familyService := family.NewService(familyStore, memberStore, runner, publisher, familyMetrics, log)
	reconciler := family.NewReconciler(familyStore, memberStore, runner, publisher, familyMetrics, log)
	registrationService := registration.NewService(registration.NewInMemorySessionStore(),
		catalogService, ruleStore, memberService, familyService, registrationMetrics, log, cfg.SessionTTL)

	go reconciler.Run(ctx, cfg.ReconcileInterval)
	go registrationService.RunSessionPurge(ctx, cfg.SessionTTL/4)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "samadhan", "samadhan-agents")
	handler := httptransport.NewHandler(registrationService, memberService, familyService,
		catalogService, ruleStore, auditStore, reconciler, health, log)
	router := httptransport.NewRouter(handler, jwttoken.NewMiddlewareAdapter(tokens),
		platformMetrics, cfg.RequestTimeout, log)

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("starting samadhan server", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(shutdownCtx); err != nil {
			log.Error("close kafka producer", slog.String("error", err.Error()))
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}

func postgresStores(ctx context.Context, db *sql.DB) (catalog.Store, eligibility.Store,
	member.Store, family.Store, audit.Store, error) {
	catalogStore := catalog.NewPostgres(db)
	ruleStore := eligibility.NewPostgres(db)
	memberStore := member.NewPostgres(db)
	familyStore := family.NewPostgres(db)
	auditStore := audit.NewPostgres(db)

	for _, ensure := range []func(context.Context) error{
		catalogStore.EnsureSchema,
		ruleStore.EnsureSchema,
		memberStore.EnsureSchema,
		familyStore.EnsureSchema,
		auditStore.EnsureSchema,
	} {
		if err := ensure(ctx); err != nil {
			return nil, nil, nil, nil, nil, err
		}
	}
	return catalogStore, ruleStore, memberStore, familyStore, auditStore, nil
}

func memoryStores() (catalog.Store, eligibility.Store, member.Store, family.Store, audit.Store) {
	catalogStore := catalog.NewInMemoryStore()
	ruleStore := eligibility.NewInMemoryStore()
	seedDemoData(catalogStore, ruleStore)
	return catalogStore, ruleStore, member.NewInMemoryStore(),
		family.NewInMemoryStore(), audit.NewInMemoryStore()
}
