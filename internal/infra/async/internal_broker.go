package async

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const _receiverBuffer = 64

type BrokerTopicName string

type BrokerMessage struct {
	Event string
	Value any
	Span  trace.Span
	Error error
}

type InternalBroker interface {
	Subscribe(topic BrokerTopicName) (Subscription, error)
	Unsubscribe(topic BrokerTopicName, subscription Subscription) error
	Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error
	PublishOrdered(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error
	Stop()
}

var _ InternalBroker = (*LocalBroker)(nil)

var ErrTopicNotFound = errors.New("topic not found")
var ErrSubscriptorNotFound = errors.New("subscriptor not found")

// LocalBroker fans messages out to in-process subscribers over buffered
// channels. Each Publish is delivered asynchronously, so no ordering holds
// between two publishes on the same topic.
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		topics: make(map[BrokerTopicName][]*subscriptor),
	}
}

type LocalBroker struct {
	mu     sync.RWMutex
	topics map[BrokerTopicName][]*subscriptor
}

type subscriptor struct {
	mu           sync.RWMutex
	once         sync.Once
	active       bool
	done         chan struct{}
	subscription Subscription
}

type Subscription struct {
	ID       string
	Receiver chan BrokerMessage
}

func (b *LocalBroker) Subscribe(topic BrokerTopicName) (Subscription, error) {
	subscription := Subscription{
		ID:       uuid.NewString(),
		Receiver: make(chan BrokerMessage, _receiverBuffer),
	}

	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], &subscriptor{
		subscription: subscription,
		active:       true,
		done:         make(chan struct{}),
	})
	b.mu.Unlock()

	return subscription, nil
}

func (b *LocalBroker) Unsubscribe(topic BrokerTopicName, subscription Subscription) error {
	b.mu.RLock()
	subscriptors, ok := b.topics[topic]
	b.mu.RUnlock()
	if !ok {
		return ErrTopicNotFound
	}

	index := slices.IndexFunc(subscriptors, func(s *subscriptor) bool { return s.subscription.ID == subscription.ID })
	if index < 0 {
		return ErrSubscriptorNotFound
	}

	subscriptors[index].close()
	return nil
}

func (b *LocalBroker) Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error {
	msg.Span = trace.SpanFromContext(ctx)

	subscriptors, err := b.subscriptors(topic)
	if err != nil {
		return err
	}

	go b.publish(context.WithoutCancel(ctx), subscriptors, msg)
	return nil
}

// PublishOrdered delivers before returning, so two calls from the same
// goroutine reach every subscriber in call order. It blocks while a receiver
// is full, until ctx is done.
func (b *LocalBroker) PublishOrdered(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error {
	msg.Span = trace.SpanFromContext(ctx)

	subscriptors, err := b.subscriptors(topic)
	if err != nil {
		return err
	}

	b.publish(ctx, subscriptors, msg)
	return ctx.Err()
}

func (b *LocalBroker) subscriptors(topic BrokerTopicName) ([]*subscriptor, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscriptors, ok := b.topics[topic]
	if !ok {
		return nil, ErrTopicNotFound
	}
	return slices.Clone(subscriptors), nil
}

func (b *LocalBroker) publish(ctx context.Context, subscriptors []*subscriptor, msg BrokerMessage) {
	for _, s := range subscriptors {
		s.deliver(ctx, msg)
	}
}

func (b *LocalBroker) Stop() {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, subscriptors := range b.topics {
		for _, s := range subscriptors {
			s.close()
		}
	}
}

// deliver holds the read lock while sending so the receiver cannot be closed
// mid-send; done releases a sender blocked on a full receiver.
func (s *subscriptor) deliver(ctx context.Context, msg BrokerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.active {
		return
	}

	select {
	case s.subscription.Receiver <- msg:
	case <-s.done:
	case <-ctx.Done():
	}
}

func (s *subscriptor) close() {
	s.once.Do(func() {
		close(s.done)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.active = false
		close(s.subscription.Receiver)
	})
}
