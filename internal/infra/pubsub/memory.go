package pubsub

import (
	"context"
	"errors"
	"sync"
)

var ErrPublisherClosed = errors.New("publisher closed")

var _ PublisherFactory = (*MemoryPublisherFactory)(nil)

// MemoryPublisherFactory keeps published messages in process. Used for the
// local environment and tests.
type MemoryPublisherFactory struct {
	mu       sync.RWMutex
	messages map[Topic][]MessageEvent
	closed   map[Topic]bool
}

type MessageEvent struct {
	Key     Key
	Message Message
}

func NewMemoryPublisherFactory() *MemoryPublisherFactory {
	return &MemoryPublisherFactory{
		messages: make(map[Topic][]MessageEvent),
		closed:   make(map[Topic]bool),
	}
}

func (f *MemoryPublisherFactory) New(topic Topic, _ Message) (Publisher, error) {
	return &MemoryPublisher{factory: f, topic: topic}, nil
}

func (f *MemoryPublisherFactory) Messages(topic Topic) []MessageEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]MessageEvent, len(f.messages[topic]))
	copy(out, f.messages[topic])
	return out
}

// Closed reports whether the publisher for topic has been closed.
func (f *MemoryPublisherFactory) Closed(topic Topic) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.closed[topic]
}

func (f *MemoryPublisherFactory) append(topic Topic, event MessageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed[topic] {
		return ErrPublisherClosed
	}
	f.messages[topic] = append(f.messages[topic], event)
	return nil
}

func (f *MemoryPublisherFactory) close(topic Topic) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed[topic] = true
}

var _ Publisher = (*MemoryPublisher)(nil)

type MemoryPublisher struct {
	factory *MemoryPublisherFactory
	topic   Topic
}

func (p *MemoryPublisher) Publish(_ context.Context, key Key, message Message) error {
	return p.factory.append(p.topic, MessageEvent{Key: key, Message: message})
}

func (p *MemoryPublisher) Close() error {
	p.factory.close(p.topic)
	return nil
}
