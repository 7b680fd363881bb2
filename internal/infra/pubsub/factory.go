package pubsub

import "time"

const EnvironmentLocal = "local"

type FactoryOptions struct {
	Environment  string
	KafkaBrokers []string
	Codec        string
	Schema       string
}

// NewPublisherFactory returns the in-memory factory for the local environment
// and Kafka everywhere else.
func NewPublisherFactory(opts FactoryOptions) PublisherFactory {
	if opts.Environment == EnvironmentLocal {
		return NewMemoryPublisherFactory()
	}

	return NewKafkaPublisherFactory(KafkaPublisherFactoryOptions{
		Brokers: opts.KafkaBrokers,
		Codec:   opts.Codec,
		Schema:  opts.Schema,
	})
}

// NewGuardedPublisher builds a publisher for topic wrapped in a circuit breaker.
func NewGuardedPublisher(factory PublisherFactory, topic Topic, prototype Message) (Publisher, error) {
	publisher, err := factory.New(topic, prototype)
	if err != nil {
		return nil, err
	}

	return NewBreakerPublisher(publisher, BreakerOptions{
		Name:        string(topic),
		OpenTimeout: 30 * time.Second,
	}), nil
}
