package dependency_container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	"github.com/NeuralTrust/BarButler/pkg/app/extraction"
	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/app/recommendation"
	"github.com/NeuralTrust/BarButler/pkg/app/telemetry"
	"github.com/NeuralTrust/BarButler/pkg/config"
	domainEmbedding "github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	domainSession "github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/NeuralTrust/BarButler/pkg/domain/vocabulary"
	handlers "github.com/NeuralTrust/BarButler/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/BarButler/pkg/handlers/websocket"
	"github.com/NeuralTrust/BarButler/pkg/infra/bedrock"
	"github.com/NeuralTrust/BarButler/pkg/infra/cache"
	"github.com/NeuralTrust/BarButler/pkg/infra/embedding/factory"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/NeuralTrust/BarButler/pkg/infra/metrics"
	providersFactory "github.com/NeuralTrust/BarButler/pkg/infra/providers/factory"
	"github.com/NeuralTrust/BarButler/pkg/infra/repository"
	infraTelemetry "github.com/NeuralTrust/BarButler/pkg/infra/telemetry"
	"github.com/NeuralTrust/BarButler/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/BarButler/pkg/infra/telemetry/logs"
	"github.com/NeuralTrust/BarButler/pkg/infra/tmdb"
	infraWebsocket "github.com/NeuralTrust/BarButler/pkg/infra/websocket"
	"github.com/NeuralTrust/BarButler/pkg/infra/whiskeyapi"
	"github.com/NeuralTrust/BarButler/pkg/server/middleware"
	"github.com/NeuralTrust/BarButler/pkg/version"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Cache               cache.Client
	Embedder            domainEmbedding.Creator
	EmbeddingRepository domainEmbedding.Repository
	SessionRepository   domainSession.Repository
	Index               *matching.VocabularyIndex
	Resolver            *matching.Resolver
	Recommendations     recommendation.Service
	Engine              conversation.Engine
	MetricsWorker       metrics.Worker
	HandlerTransport    handlers.HandlerTransport
	WSHandlerTransport  wsHandlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
	WebSocketMiddleware middleware.Middleware

	stopSweeper context.CancelFunc
	logger      *logrus.Logger
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewContainer(ctx context.Context, di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	c := &Container{logger: di.Logger}

	httpClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(cfg.HTTPClient.Timeout),
		httpx.WithUserAgent(fmt.Sprintf("%s/%s", version.AppName, version.Version)),
	)
	bedrockClient := bedrock.NewClient()

	if cfg.NeedsRedis() {
		cacheInstance, err := cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, di.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		c.Cache = cacheInstance
	}

	// embeddings
	embeddingServiceLocator := factory.NewServiceLocator(di.Logger, httpClient, bedrockClient)
	embedder, err := embeddingServiceLocator.GetService(ctx, cfg.Matching.Embedding)
	if err != nil {
		c.closeCache()
		return nil, fmt.Errorf("failed to initialize embedding model: %w", err)
	}
	c.Embedder = embedder

	if cfg.Matching.Cache.Backend == config.CacheBackendRedis {
		c.EmbeddingRepository = repository.NewRedisEmbeddingRepository(c.Cache)
	} else {
		c.EmbeddingRepository = repository.NewFileEmbeddingRepository(cfg.Matching.Cache.Path)
	}

	// a missing vocabulary leaves matching unavailable instead of failing startup
	vocab, err := vocabulary.Load(cfg.Matching.Vocabulary.Name, cfg.Matching.Vocabulary.Path)
	if err != nil {
		di.Logger.WithError(err).WithField("path", cfg.Matching.Vocabulary.Path).Error("failed to load vocabulary")
	}

	c.Index = matching.NewVocabularyIndex(
		vocab,
		embedder,
		c.EmbeddingRepository,
		di.Logger,
		matching.WithBatchSize(cfg.Matching.Embedding.BatchSize),
		matching.WithConcurrency(cfg.Matching.Concurrency),
	)
	c.Resolver = matching.NewResolver(c.Index)
	sentiment := matching.NewSentimentResolver(embedder)

	// extraction
	llmClient, err := providersFactory.NewProviderLocator(httpClient, bedrockClient).Get(cfg.Extraction.Provider)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize extraction provider: %w", err)
	}
	extractor := extraction.NewExtractor(llmClient, cfg.Extraction.LLM, di.Logger)

	// external apis share the pooled client, each behind its own breaker
	movieFinder := tmdb.NewClient(
		httpx.WithBreaker(httpClient, "tmdb", cfg.HTTPClient.BreakerTimeout, cfg.HTTPClient.BreakerMaxFailures),
		cfg.Movies,
		di.Logger,
	)
	whiskeyRecommender := whiskeyapi.NewClient(
		httpx.WithBreaker(httpClient, "whiskey", cfg.HTTPClient.BreakerTimeout, cfg.HTTPClient.BreakerMaxFailures),
		cfg.Whiskey,
		di.Logger,
	)

	// telemetry
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporter(kafka.NewKafkaExporter()),
		infraTelemetry.WithExporter(logs.NewLogExporter(di.Logger)),
	)
	if err := telemetry.NewExportersValidator(exporterLocator).Validate(cfg.Telemetry.Exporters); err != nil {
		c.Close()
		return nil, err
	}
	exporters, err := telemetry.NewExportersBuilder(exporterLocator).Build(cfg.Telemetry.Exporters)
	if err != nil {
		c.Close()
		return nil, err
	}
	var workerOpts []metrics.WorkerOption
	if cfg.Telemetry.QueueSize > 0 {
		workerOpts = append(workerOpts, metrics.WithQueueSize(cfg.Telemetry.QueueSize))
	}
	c.MetricsWorker = metrics.NewWorker(di.Logger, exporters, workerOpts...)
	c.MetricsWorker.StartWorkers(cfg.Telemetry.Workers)

	c.Recommendations = recommendation.NewService(
		extractor,
		c.Resolver,
		movieFinder,
		whiskeyRecommender,
		c.MetricsWorker,
		cfg.Matching.Profiles,
		di.Logger,
	)

	// sessions
	if cfg.Session.Store == config.SessionStoreMemory {
		sessions := cache.NewTTLMap[domainSession.Session](cfg.Session.TTL)
		c.SessionRepository = repository.NewMemorySessionRepository(sessions)
		c.startSweeper(sessions, cfg.Session.TTL)
	} else {
		c.SessionRepository = repository.NewSessionRepository(c.Cache, cfg.Session.TTL)
	}

	c.Engine = conversation.NewEngine(c.SessionRepository, c.Recommendations, sentiment, di.Logger)

	// transport
	c.MiddlewareTransport = middleware.NewTransport(middleware.NewMetricsMiddleware(di.Logger))
	c.WebSocketMiddleware = middleware.NewWebsocketMiddleware(
		di.Logger,
		infraWebsocket.NewConnectionLimiter(cfg.Server.WebSocket.MaxConnections),
	)
	c.HandlerTransport = &handlers.HandlerTransportDTO{
		HealthHandler:             handlers.NewHealthHandler(),
		VersionHandler:            handlers.NewGetVersionHandler(),
		CreateConversationHandler: handlers.NewCreateConversationHandler(di.Logger, c.Engine),
		SendMessageHandler:        handlers.NewSendMessageHandler(di.Logger, c.Engine),
		DeleteConversationHandler: handlers.NewDeleteConversationHandler(di.Logger, c.Engine),
		MatchHandler:              handlers.NewMatchHandler(di.Logger, c.Resolver, cfg.Matching.Profiles.Taste),
	}
	c.WSHandlerTransport = &wsHandlers.HandlerTransportDTO{
		ConversationHandler: wsHandlers.NewConversationHandler(
			di.Logger,
			c.Engine,
			wsHandlers.WithKeepAlive(cfg.Server.WebSocket.PingPeriod, cfg.Server.WebSocket.PongWait),
		),
	}

	return c, nil
}

func (c *Container) startSweeper(sessions *cache.TTLMap[domainSession.Session], ttl time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	c.stopSweeper = cancel
	interval := max(ttl/2, time.Second)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					c.logger.WithField("expired", n).Debug("swept idle sessions")
				}
			}
		}
	}()
}

func (c *Container) closeCache() {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.Close(); err != nil {
		c.logger.WithError(err).Warn("failed to close cache")
	}
}

// Close drains telemetry and releases the embedding model and the redis
// connection. It is safe on a partially built container.
func (c *Container) Close() error {
	if c.stopSweeper != nil {
		c.stopSweeper()
	}
	if c.MetricsWorker != nil {
		c.MetricsWorker.Shutdown()
	}
	var errs []error
	if c.Embedder != nil {
		if err := c.Embedder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close embedder: %w", err))
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
