package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	boundaryhandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/handler"
	boundaryservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/service"
	boundarystore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/store"
	cataloghandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/handler"
	catalogservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/service"
	catalogstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/store"
	ledgerhandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/handler"
	ledgermetrics "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/metrics"
	ledgerservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/service"
	ledgerstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/store"
	matrixhandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/handler"
	matrixmetrics "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/metrics"
	matrixservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/service"
	matrixstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/config"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/httpserver"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/logger"
	platformmetrics "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/metrics"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/middleware"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/postgres"
	platformredis "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/redis"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/platform/tracing"
	projecthandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/handler"
	projectservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/service"
	projectstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/store"
	questionnairehandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/handler"
	questionnaireservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/service"
	questionnairestore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/store"
	readinesshandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/readiness/handler"
	readinessservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/readiness/service"
	stakeholderhandler "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/handler"
	stakeholderservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/service"
	stakeholderstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit"
	auditkafka "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/audit/kafka"
)

// A single store backs several module ports, so the composition root names
// the full method set it needs from each one.
type cellStore interface {
	matrixservice.CellStore
	boundaryservice.CellCounter
	readinessservice.CellReader
}

type gapStore interface {
	ledgerservice.GapStore
	matrixservice.GapCounter
	readinessservice.GapTally
}

type evidenceStore interface {
	ledgerservice.EvidenceStore
	matrixservice.EvidenceCounter
}

type controlStore interface {
	catalogstore.Reader
	catalogstore.Writer
	readinessservice.CatalogCounter
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	fatal := func(msg string, err error) {
		log.Error(msg, "error", err)
		os.Exit(1)
	}

	if cfg.JWTSigningKey == "" {
		fatal("JWT_SIGNING_KEY is required", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, "isms-dashboard", cfg.Environment)
	if err != nil {
		fatal("tracing init failed", err)
	}

	var (
		projects     projectservice.ProjectStore
		boundaries   boundaryservice.BoundaryStore
		stakeholders stakeholderservice.StakeholderStore
		controls     controlStore
		cells        cellStore
		gaps         gapStore
		evidence     evidenceStore
		progress     questionnaireservice.ProgressStore
		auditStore   audit.Store
	)

	if cfg.Database.URL != "" {
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			fatal("postgres connect failed", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			fatal("postgres migrate failed", err)
		}
		projects = projectstore.NewPostgres(pool)
		boundaries = boundarystore.NewPostgres(pool)
		stakeholders = stakeholderstore.NewPostgres(pool)
		controls = catalogstore.NewPostgres(pool)
		cells = matrixstore.NewPostgres(pool)
		gaps = ledgerstore.NewPostgresGaps(pool)
		evidence = ledgerstore.NewPostgresEvidence(pool)
		progress = questionnairestore.NewPostgres(pool)
		auditStore = audit.NewPostgresStore(pool)
		log.Info("using postgres stores")
	} else {
		projects = projectstore.NewInMemory()
		boundaries = boundarystore.NewInMemory()
		stakeholders = stakeholderstore.NewInMemory()
		controls = catalogstore.NewInMemory()
		cells = matrixstore.NewInMemory()
		gaps = ledgerstore.NewInMemoryGaps()
		evidence = ledgerstore.NewInMemoryEvidence()
		progress = questionnairestore.NewInMemory()
		auditStore = audit.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	if err := catalogstore.Seed(ctx, controls); err != nil {
		fatal("catalog seed failed", err)
	}

	var catalogReader catalogstore.Reader = controls
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		fatal("redis connect failed", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		catalogReader = catalogstore.NewCache(controls, redisClient.Client, cfg.Redis.CacheTTL, log)
		log.Info("catalog cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	auditOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := auditkafka.NewSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			fatal("audit kafka sink failed", err)
		}
		defer sink.Close()
		auditOpts = append(auditOpts, audit.WithSink(sink))
		log.Info("audit relay enabled", "topic", cfg.Kafka.Topic)
	}
	publisher := audit.NewPublisher(auditStore, auditOpts...)
	go func() {
		if err := publisher.Run(ctx); err != nil {
			log.Error("audit publisher stopped", "error", err)
		}
	}()

	projectSvc := projectservice.New(projects,
		projectservice.WithLogger(log),
		projectservice.WithAuditPublisher(publisher),
	)
	boundarySvc := boundaryservice.New(boundaries, cells, projectSvc,
		boundaryservice.WithLogger(log),
		boundaryservice.WithAuditPublisher(publisher),
	)
	stakeholderSvc := stakeholderservice.New(stakeholders, projectSvc,
		stakeholderservice.WithLogger(log),
		stakeholderservice.WithAuditPublisher(publisher),
	)
	catalogSvc := catalogservice.New(catalogReader)
	matrixSvc := matrixservice.New(cells, boundaries, catalogReader, gaps, evidence, projectSvc,
		matrixservice.WithLogger(log),
		matrixservice.WithAuditPublisher(publisher),
		matrixservice.WithMetrics(matrixmetrics.New()),
	)
	ledgerSvc := ledgerservice.New(evidence, gaps, cells, boundaries, projectSvc,
		ledgerservice.WithLogger(log),
		ledgerservice.WithAuditPublisher(publisher),
		ledgerservice.WithMetrics(ledgermetrics.New()),
	)
	questionnaireSvc := questionnaireservice.New(progress, projectSvc,
		questionnaireservice.WithLogger(log),
	)
	readinessSvc := readinessservice.New(projects, boundaries, stakeholders, controls, cells, gaps, questionnaireSvc, projectSvc,
		readinessservice.WithLogger(log),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics(platformmetrics.New()))
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/healthz", healthHandler(redisClient))
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(middleware.NewJWTValidator(cfg.JWTSigningKey), log))

		projecthandler.New(projectSvc, log).Register(r)
		boundaryhandler.New(boundarySvc, log).Register(r)
		stakeholderhandler.New(stakeholderSvc, log).Register(r)
		cataloghandler.New(catalogSvc, log).Register(r)
		matrixhandler.New(matrixSvc, log).Register(r)
		ledgerhandler.New(ledgerSvc, log).Register(r)
		questionnairehandler.New(questionnaireSvc, log).Register(r)
		readinesshandler.New(readinessSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting isms-dashboard", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	publisher.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown failed", "error", err)
	}
}

func healthHandler(redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
