// Package linkodin builds the repositories, generation backend and optional
// observability sinks described by a config.Config and hands out the
// interactors that use them.
package linkodin

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/jordanhubbard/linkodin/internal/database"
	"github.com/jordanhubbard/linkodin/internal/generation"
	"github.com/jordanhubbard/linkodin/internal/interactor"
	"github.com/jordanhubbard/linkodin/internal/messagebus"
	"github.com/jordanhubbard/linkodin/internal/metrics"
	"github.com/jordanhubbard/linkodin/internal/provider"
	"github.com/jordanhubbard/linkodin/internal/storage"
	"github.com/jordanhubbard/linkodin/internal/telemetry"
	"github.com/jordanhubbard/linkodin/pkg/config"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

// Linkodin owns every long-lived dependency of one CLI invocation.
type Linkodin struct {
	config *config.Config

	personaRepo interactor.PersonaRepository
	postRepo    interactor.PostRepository
	generator   interactor.GenerationService

	Personas *interactor.PersonaInteractor
	Posts    *interactor.PostGenerationInteractor

	metrics   *metrics.Metrics
	telemetry *telemetry.Telemetry
	bus       *messagebus.NatsMessageBus
	database  *database.Database
	redis     *redis.Client

	shutdownOnce sync.Once
}

// Option customizes construction.
type Option func(*options)

type options struct {
	interactorOpts []interactor.Option
	generator      interactor.GenerationService
}

// WithInteractorOptions passes options through to the post interactor.
func WithInteractorOptions(opts ...interactor.Option) Option {
	return func(o *options) { o.interactorOpts = append(o.interactorOpts, opts...) }
}

// WithGenerator replaces the configured generation backend. It is still
// instrumented.
func WithGenerator(g interactor.GenerationService) Option {
	return func(o *options) { o.generator = g }
}

// New connects the configured backends. Optional sinks (NATS, OTLP) that are
// configured but unreachable are logged and skipped; storage failures are
// returned.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Linkodin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	l := &Linkodin{config: cfg, metrics: metrics.NewMetrics()}

	if err := l.initStorage(ctx); err != nil {
		l.Close(ctx)
		return nil, err
	}

	tel, err := telemetry.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Printf("[Linkodin] Warning: tracing disabled: %v", err)
	} else {
		l.telemetry = tel
	}

	if cfg.Events.NATSURL != "" {
		bus, err := messagebus.NewNatsMessageBus(messagebus.Config{
			URL:        cfg.Events.NATSURL,
			StreamName: cfg.Events.Stream,
			Timeout:    5 * time.Second,
		})
		if err != nil {
			log.Printf("[Linkodin] Warning: post events disabled: %v", err)
		} else {
			l.bus = bus
			l.postRepo = messagebus.NewPublishingPostRepository(l.postRepo, bus, l.metrics)
		}
	}

	base := o.generator
	if base == nil {
		base = newGenerator(cfg.Generation)
	}
	recorders := []generation.StageRecorder{l.metrics}
	var tracer trace.Tracer
	if l.telemetry != nil {
		tracer = l.telemetry.Tracer
		recorders = append(recorders, l.telemetry)
	}
	l.generator = generation.Instrumented(base, tracer, recorders...)

	l.Personas = interactor.NewPersonaInteractor(l.personaRepo)
	l.Posts = interactor.NewPostGenerationInteractor(l.personaRepo, l.postRepo, l.generator, o.interactorOpts...)
	return l, nil
}

func (l *Linkodin) initStorage(ctx context.Context) error {
	s := l.config.Storage
	switch s.Backend {
	case config.BackendMemory:
		l.personaRepo = storage.NewMemoryPersonaRepository()
		l.postRepo = storage.NewMemoryPostRepository()
	case config.BackendPostgres:
		var (
			db  *database.Database
			err error
		)
		if s.PostgresDSN != "" {
			db, err = database.NewPostgres(ctx, s.PostgresDSN)
		} else {
			db, err = database.NewFromEnv(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to open postgres storage: %w", err)
		}
		l.database = db
		l.personaRepo = database.NewPersonaRepository(db)
		l.postRepo = database.NewPostRepository(db)
	case config.BackendRedis:
		client, err := storage.ConnectRedis(ctx, s.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to open redis storage: %w", err)
		}
		l.redis = client
		l.personaRepo = storage.NewRedisPersonaRepository(client, s.RedisPrefix)
		l.postRepo = storage.NewRedisPostRepository(client, s.RedisPrefix)
	default:
		l.personaRepo = storage.NewFilePersonaRepository(s.PersonaPath())
		l.postRepo = storage.NewFilePostRepository(s.PostPath())
	}
	log.Printf("[Linkodin] Debug: using %s storage", s.Backend)
	return nil
}

func newGenerator(g config.GenerationConfig) interactor.GenerationService {
	if g.Provider == config.ProviderMock {
		return generation.NewMockService()
	}
	return generation.NewLiveService(provider.Config{
		Type:     g.Provider,
		APIKey:   g.APIKey,
		Model:    g.Model,
		Endpoint: g.Endpoint,
		Timeout:  g.Timeout,
	})
}

// GeneratePost runs the pipeline and records the result in the metrics sinks.
func (l *Linkodin) GeneratePost(ctx context.Context, req *models.PostGenerationRequest) (*models.LinkedInPost, error) {
	post, err := l.Posts.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	l.metrics.RecordPostGenerated(post.PersonaID)
	if l.telemetry != nil {
		l.telemetry.RecordPostGenerated(post.PersonaID)
	}
	return post, nil
}

// Metrics exposes the Prometheus collectors for this invocation.
func (l *Linkodin) Metrics() *metrics.Metrics {
	return l.metrics
}

// Config returns the configuration the instance was built from.
func (l *Linkodin) Config() *config.Config {
	return l.config
}

// Close flushes metrics and traces and releases connections. It is safe to
// call more than once.
func (l *Linkodin) Close(ctx context.Context) {
	l.shutdownOnce.Do(func() {
		if path := l.config.Metrics.TextfilePath; path != "" && l.metrics != nil {
			if err := l.metrics.WriteTextfile(path); err != nil {
				log.Printf("[Linkodin] Warning: failed to write metrics to %s: %v", path, err)
			}
		}
		if l.telemetry != nil {
			if err := l.telemetry.Shutdown(ctx); err != nil {
				log.Printf("[Linkodin] Warning: telemetry shutdown: %v", err)
			}
		}
		if l.bus != nil {
			_ = l.bus.Close()
		}
		if l.database != nil {
			_ = l.database.Close()
		}
		if l.redis != nil {
			_ = l.redis.Close()
		}
	})
}
