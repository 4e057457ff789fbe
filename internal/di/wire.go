//go:build wireinject
// +build wireinject

package di

import (
	"TradePulse/pkg/config"
	"TradePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRedisClient,

		// Repositories
		ProvideSignalStore,
		ProvideSignalPublisher,
		ProvideSnapshotCache,
		ProvideFeedStream,

		// Engine and use cases
		ProvideEngine,
		ProvideExtractor,
		ProvideFeatureCollector,
		ProvideTickCollector,
		ProvideEvaluator,
		ProvideWorkQueue,
		ProvideScheduler,
		ProvideKafkaConsumer,
		ProvideSnapshotsHandler,

		// HTTP and application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
