package wire

import (
	"log/slog"

	"filter-module/cmd/config"
	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/httpapi"
	"filter-module/internal/filter/usecases"
	"filter-module/internal/filter/workers"
	"filter-module/internal/infra/node"
	"filter-module/internal/infra/pubsub"
)

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

func provideNode() *node.Node {
	return node.GetNodeInfo()
}

func provideHeartbeatServiceOpts(cfg config.AppConfig, identity *node.Node) usecases.HeartbeatServiceOpts {
	return usecases.HeartbeatServiceOpts{
		ModuleName: identity.ModuleID,
		Output:     cfg.Module.HeartbeatOutput,
	}
}

func provideFilterWorkerOpts(cfg config.AppConfig) workers.FilterWorkerOpts {
	return workers.FilterWorkerOpts{AlertOutput: cfg.Module.AlertOutput}
}

func provideAlertWebSocketControllerOpts(cfg config.AppConfig) httpapi.AlertWebSocketControllerOpts {
	return httpapi.AlertWebSocketControllerOpts{AllowedOrigins: cfg.HTTP.AllowedOrigins}
}

func provideHeartbeatSchedule(cfg config.AppConfig) string {
	return cfg.Heartbeat.Schedule
}

// provideAlertMirror returns a nil publisher when alerts are not mirrored.
func provideAlertMirror(cfg config.AppConfig) (pubsub.Publisher, error) {
	if cfg.General.Environment != pubsub.EnvironmentLocal && !cfg.Kafka.Enabled {
		slog.Info("alert mirror disabled")
		return nil, nil
	}

	topic := pubsub.Topic(cfg.Kafka.Topic)
	if topic == "" {
		topic = workers.PubSubTopicAlerts
	}

	factory := pubsub.NewPublisherFactory(pubsub.FactoryOptions{
		Environment:  cfg.General.Environment,
		KafkaBrokers: cfg.Kafka.Brokers,
		Codec:        cfg.Kafka.Codec,
		Schema:       domain.AlertRecordSchema,
	})

	return pubsub.NewGuardedPublisher(factory, topic, domain.AlertRecord{})
}
