package pubsub

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lovoo/goka"
)

var _ PublisherFactory = (*KafkaPublisherFactory)(nil)

type KafkaPublisherFactoryOptions struct {
	Brokers []string
	Codec   string
	Schema  string
}

func NewKafkaPublisherFactory(opts KafkaPublisherFactoryOptions) *KafkaPublisherFactory {
	return &KafkaPublisherFactory{opts: opts}
}

type KafkaPublisherFactory struct {
	opts KafkaPublisherFactoryOptions
}

func (f *KafkaPublisherFactory) New(topic Topic, prototype Message) (Publisher, error) {
	codec, err := NewCodec(f.opts.Codec, prototype, f.opts.Schema)
	if err != nil {
		return nil, fmt.Errorf("creating publisher codec: %w", err)
	}

	slog.Debug("creating kafka publisher",
		slog.String("topic", string(topic)),
		slog.Any("brokers", f.opts.Brokers),
		slog.String("prototype", fmt.Sprintf("%T", prototype)),
	)

	emitter, err := goka.NewEmitter(f.opts.Brokers, goka.Stream(topic), codec)
	if err != nil {
		return nil, fmt.Errorf("creating kafka emitter for %s: %w", topic, err)
	}

	return &KafkaPublisher{emitter: emitter}, nil
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ io.Closer = (*KafkaPublisher)(nil)
)

type KafkaPublisher struct {
	emitter *goka.Emitter
}

func (p *KafkaPublisher) Publish(_ context.Context, key Key, message Message) error {
	if err := p.emitter.EmitSync(string(key), message); err != nil {
		return fmt.Errorf("emitting message %s: %w", key, err)
	}

	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.emitter.Finish()
}
