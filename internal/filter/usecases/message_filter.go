package usecases

import (
	"context"

	"filter-module/internal/filter/domain"
)

//go:generate mockgen -source=message_filter.go -destination=../../../test/unit/doubles/filter/usecases/message_filter_mock.go -package=usecases -mock_names=MessageFilter=MockMessageFilter

// MessageFilter decides whether an inbound telemetry envelope becomes an alert.
type MessageFilter interface {
	// Evaluate returns the alert envelope and true when the message must be
	// forwarded. An empty payload yields (zero, false, nil). Unreadable payloads
	// return an error wrapping domain.ErrMalformedMessage.
	Evaluate(ctx context.Context, envelope domain.Envelope) (domain.Envelope, bool, error)
}

// ThresholdReader is the read side of the threshold store.
type ThresholdReader interface {
	Get() float64
}

func NewMessageFilter(threshold ThresholdReader) *SimpleMessageFilter {
	return &SimpleMessageFilter{threshold: threshold}
}

var _ MessageFilter = (*SimpleMessageFilter)(nil)

type SimpleMessageFilter struct {
	threshold ThresholdReader
}

func (f *SimpleMessageFilter) Evaluate(_ context.Context, envelope domain.Envelope) (domain.Envelope, bool, error) {
	if envelope.IsEmpty() {
		return domain.Envelope{}, false, nil
	}

	temperature, err := domain.MachineTemperature(envelope)
	if err != nil {
		return domain.Envelope{}, false, err
	}

	if temperature <= f.threshold.Get() {
		return domain.Envelope{}, false, nil
	}

	alert := envelope.
		WithProperty(domain.PropertyMessageType, domain.MessageTypeAlert).
		WithDefaultContentMetadata()

	return alert, true, nil
}
