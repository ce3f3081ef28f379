package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"sanctum/internal/adapters/ai"
	"sanctum/internal/adapters/guard"
	"sanctum/internal/adapters/human"
	"sanctum/internal/adapters/machine"
	"sanctum/internal/audit"
	"sanctum/internal/core/gateway"
	"sanctum/internal/core/invoke"
	"sanctum/internal/core/translate"
	"sanctum/internal/platform/config"
	"sanctum/internal/platform/httpserver"
	"sanctum/internal/platform/logger"
	"sanctum/internal/platform/metrics"
	"sanctum/internal/platform/postgres"
	platformredis "sanctum/internal/platform/redis"
	"sanctum/internal/platform/token"
	"sanctum/internal/ratelimit"
	httptransport "sanctum/internal/transport/http"
)

// auditInboxDepth buffers trail events between the request path and the
// worker. A full buffer blocks the producer rather than dropping entries.
const auditInboxDepth = 256

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Pipeline logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New()

	// The core pipeline is built once and injected everywhere.
	translator := translate.New()
	gw := gateway.New(nil)
	invocator, err := invoke.New(gw, invoke.WithMetrics(m))
	if err != nil {
		return err
	}

	// Audit trail: postgres when configured, in-process otherwise, with an
	// optional kafka fan-out.
	var store audit.Store = audit.NewMemoryStore()
	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		pgStore := audit.NewPostgresStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return err
		}
		store = pgStore
	}

	publisherOpts := []audit.Option{audit.WithLogger(log)}
	if cfg.KafkaBrokers != "" {
		sink, err := audit.NewKafkaSink(ctx, splitBrokers(cfg.KafkaBrokers), cfg.KafkaAuditTopic)
		if err != nil {
			return err
		}
		defer sink.Close()
		publisherOpts = append(publisherOpts, audit.WithSink(sink))
	}
	publisher := audit.NewPublisher(store, publisherOpts...)
	auditInbox := make(chan audit.Event, auditInboxDepth)
	auditWorker := audit.NewWorker(publisher, auditInbox)

	// Rate limiter state: redis when configured, in-process otherwise.
	var buckets ratelimit.BucketStore = ratelimit.NewMemoryBucketStore()
	redisClient, err := platformredis.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		buckets = ratelimit.NewRedisBucketStore(redisClient.Client)
	}
	limiter, err := ratelimit.NewLimiter(buckets, ratelimit.Policy{
		Limit:  cfg.AIRateLimit,
		Window: cfg.AIRateWindow,
	}, ratelimit.WithLogger(log), ratelimit.WithMetrics(m))
	if err != nil {
		return err
	}

	humanSvc, err := human.New(translator, gw, invocator, human.WithLogger(log))
	if err != nil {
		return err
	}
	machineSvc, err := machine.New(translator, gw, invocator, machine.WithLogger(log))
	if err != nil {
		return err
	}
	aiSvc, err := ai.New(translator, gw, invocator,
		ai.WithLogger(log),
		ai.WithRecorder(&auditRecorder{inbox: auditInbox, logger: log}),
	)
	if err != nil {
		return err
	}

	tokens := token.NewService(cfg.JWTSigningKey, "sanctum")

	router := httptransport.NewRouter(httptransport.Deps{
		Human:     httptransport.NewHumanHandler(humanSvc, log),
		Machine:   httptransport.NewMachineHandler(machineSvc, log),
		AI:        httptransport.NewAIHandler(aiSvc, log, m),
		Audit:     httptransport.NewAuditHandler(publisher, log),
		Validator: tokens,
		AILimiter: limiter,
		Logger:    log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("server listening", "event", "server_start", "addr", cfg.Addr)
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
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// auditRecorder bridges the AI adapter's record callback onto the trail
// worker's inbox, keeping storage off the request path.
type auditRecorder struct {
	inbox  chan<- audit.Event
	logger *slog.Logger
}

func (r *auditRecorder) Record(ctx context.Context, rec guard.AuditRecord) {
	category := audit.CategoryDerivation
	if rec.Operation == "verify_claim" {
		category = audit.CategoryVerification
	}
	event := audit.Event{
		ID:             rec.ID,
		Category:       category,
		Operation:      rec.Operation,
		SubstrateIDHex: rec.SubstrateIDHex,
		LensIDHex:      rec.LensIDHex,
		Fabricated:     rec.Fabricated,
		Source:         rec.Source,
	}
	select {
	case r.inbox <- event:
	case <-ctx.Done():
		r.logger.WarnContext(ctx, "audit event dropped",
			"event", "audit_inbox_stalled",
			"audit_id", rec.ID,
			"error", ctx.Err(),
		)
	}
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
