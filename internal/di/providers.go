package di

import (
	"context"
	"fmt"
	"time"

	"TradePulse/internal/domain/repository"
	"TradePulse/internal/engine"
	"TradePulse/internal/handler/api"
	mid "TradePulse/internal/middleware"
	internalrepo "TradePulse/internal/repository"
	icache "TradePulse/internal/service/cache"
	"TradePulse/internal/service/feed"
	"TradePulse/internal/services/features"
	"TradePulse/internal/usecase"
	pkgch "TradePulse/pkg/clickhouse"
	"TradePulse/pkg/config"
	xhttp "TradePulse/pkg/http"
	pkgkafka "TradePulse/pkg/kafka"
	applogger "TradePulse/pkg/logger"
	"TradePulse/pkg/metrics"
	"TradePulse/pkg/queue"
	"TradePulse/pkg/server"

	"github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideEngine loads the tier ladder and builds the scoring engine.
func ProvideEngine(cfg *config.Config) (*engine.Engine, error) {
	ecfg, err := engine.LoadConfig(cfg.Engine.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return engine.New(ecfg), nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSignalStore creates the ClickHouse signal store and ensures its schema.
func ProvideSignalStore(chClient *pkgch.Client, l *applogger.Logger) (repository.SignalStore, error) {
	store := internalrepo.NewCHSignalStore(chClient, "")
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("signal store schema: %w", err)
	}
	return store, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalTopic)
}

// ProvideSnapshotCache creates the bounded per-symbol snapshot cache.
func ProvideSnapshotCache(cfg *config.Config) repository.SnapshotCache {
	return icache.NewSnapshotCache(cfg.Cache.Capacity, cfg.Cache.TTL)
}

// ProvideExtractor creates the rolling feature extractor.
func ProvideExtractor(cfg *config.Config) *features.Extractor {
	return features.NewExtractor(cfg.Feed.WindowSize)
}

// ProvideFeedStream creates the WebSocket market stream.
func ProvideFeedStream(cfg *config.Config) repository.MarketStream {
	return feed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Symbols,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideFeatureCollector creates the tick-to-snapshot collector.
func ProvideFeatureCollector(extractor *features.Extractor, cache repository.SnapshotCache) *usecase.FeatureCollector {
	return usecase.NewFeatureCollector(extractor, cache)
}

// ProvideTickCollector wires the stream, pipeline and feature collector together.
func ProvideTickCollector(
	stream repository.MarketStream,
	proc *usecase.FeatureCollector,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TickCollector {
	opts := []mid.PipelineOption{mid.WithBufferSize(2000)}
	if cfg.RateLimit.EvalsPerSecond > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.RateLimit.EvalsPerSecond))
	}
	if cfg.RateLimit.Burst > 0 {
		opts = append(opts, mid.WithBurst(cfg.RateLimit.Burst))
	}
	pipe := mid.NewTickPipeline(proc, m, opts...)
	return usecase.NewTickCollector(stream, proc, m, pipe)
}

// ProvideEvaluator creates the signal evaluation use case.
func ProvideEvaluator(
	eng *engine.Engine,
	cache repository.SnapshotCache,
	store repository.SignalStore,
	pub repository.SignalPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SignalEvaluator {
	return usecase.NewSignalEvaluator(eng, cache, store, pub, m, l)
}

// ProvideRedisClient creates the Redis client backing the work queue.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.Addr,
		Password: cfg.Queue.Password,
		DB:       cfg.Queue.DB,
	})
}

// ProvideWorkQueue creates the evaluation queue with its job registered.
func ProvideWorkQueue(
	l *applogger.Logger,
	client *redis.Client,
	evaluator *usecase.SignalEvaluator,
	cfg *config.Config,
) *queue.RedisQueue {
	q := queue.NewRedisQueue(l,
		&queue.QueueConfig{
			Workers:    cfg.Queue.Workers,
			RetryLimit: 3,
			RetryDelay: 10 * time.Second,
		},
		client,
		queue.ModeProducerConsumer,
	)
	q.RegisterJob(usecase.NewEvalJob(evaluator, 10*time.Second))
	return q
}

// ProvideScheduler creates the periodic evaluation scheduler.
func ProvideScheduler(q *queue.RedisQueue, cfg *config.Config, l *applogger.Logger) *usecase.EvalScheduler {
	return usecase.NewEvalScheduler(q, cfg.Feed.Symbols, cfg.Queue.EnqueueEvery, l)
}

// ProvideKafkaConsumer creates the snapshot consumer when enabled.
// Returns nil when the consumer is disabled; the app treats a nil consumer
// as "no ingest path".
func ProvideKafkaConsumer(cfg *config.Config, m repository.Metrics) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.HookFuncs{
		Err: func(_ context.Context, topic string, _ kafka.Message, _ []byte, _ error) {
			m.RecordError("consumer_" + topic)
		},
	})
	return consumer, nil
}

// ProvideSnapshotsHandler creates the handler for the snapshot topic.
func ProvideSnapshotsHandler(
	cache repository.SnapshotCache,
	evaluator *usecase.SignalEvaluator,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.KafkaSnapshotsHandler {
	return usecase.NewKafkaSnapshotsHandler(cfg.Kafka.Consumer.SnapshotTopic, cache, evaluator, m)
}

// ProvideHTTPHandler creates the HTTP route handler.
func ProvideHTTPHandler(l *applogger.Logger, evaluator *usecase.SignalEvaluator, store repository.SignalStore) xhttp.Handler {
	return api.NewEvaluationsHandler(l, evaluator, store)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.TickCollector,
	evaluator *usecase.SignalEvaluator,
	scheduler *usecase.EvalScheduler,
	workQueue *queue.RedisQueue,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotsHandler,
	chClient *pkgch.Client,
	h xhttp.Handler,
) *server.App {
	app := server.New(cfg, l, collector, evaluator, scheduler, workQueue, consumer, kh, chClient)
	app.SetHTTPHandler(h)
	return app
}
