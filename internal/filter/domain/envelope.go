package domain

import (
	"maps"
	"slices"
)

const (
	PropertyMessageType = "MessageType"

	MessageTypeAlert     = "Alert"
	MessageTypeHeartbeat = "heartbeat"

	DefaultContentType     = "application/json"
	DefaultContentEncoding = "utf-8"
)

// Envelope is a message unit flowing through the transport. It is a value type:
// every accessor returns copies and every modifier returns a new Envelope, so an
// inbound envelope can be shared between goroutines without aliasing.
type Envelope struct {
	messageID       string
	payload         []byte
	properties      map[string]string
	contentType     string
	contentEncoding string
}

type EnvelopeOption func(*Envelope)

func WithMessageID(id string) EnvelopeOption {
	return func(e *Envelope) { e.messageID = id }
}

func WithContentType(contentType string) EnvelopeOption {
	return func(e *Envelope) { e.contentType = contentType }
}

func WithContentEncoding(contentEncoding string) EnvelopeOption {
	return func(e *Envelope) { e.contentEncoding = contentEncoding }
}

func WithProperties(properties map[string]string) EnvelopeOption {
	return func(e *Envelope) {
		for k, v := range properties {
			e.properties[k] = v
		}
	}
}

func NewEnvelope(payload []byte, opts ...EnvelopeOption) Envelope {
	e := Envelope{
		payload:    slices.Clone(payload),
		properties: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e Envelope) MessageID() string       { return e.messageID }
func (e Envelope) ContentType() string     { return e.contentType }
func (e Envelope) ContentEncoding() string { return e.contentEncoding }

func (e Envelope) Payload() []byte {
	return slices.Clone(e.payload)
}

func (e Envelope) Properties() map[string]string {
	return maps.Clone(e.properties)
}

func (e Envelope) Property(key string) (string, bool) {
	v, ok := e.properties[key]
	return v, ok
}

func (e Envelope) IsEmpty() bool {
	return len(e.payload) == 0
}

// WithProperty returns a copy of e with key set to value, overwriting any
// previous value.
func (e Envelope) WithProperty(key, value string) Envelope {
	out := e.clone()
	out.properties[key] = value
	return out
}

// WithDefaultContentMetadata returns a copy of e with content type and encoding
// set to application/json and utf-8 where they are absent.
func (e Envelope) WithDefaultContentMetadata() Envelope {
	out := e.clone()
	if out.contentType == "" {
		out.contentType = DefaultContentType
	}
	if out.contentEncoding == "" {
		out.contentEncoding = DefaultContentEncoding
	}
	return out
}

// Equal reports whether two envelopes carry the same payload and metadata.
func (e Envelope) Equal(other Envelope) bool {
	return e.messageID == other.messageID &&
		e.contentType == other.contentType &&
		e.contentEncoding == other.contentEncoding &&
		slices.Equal(e.payload, other.payload) &&
		maps.Equal(e.properties, other.properties)
}

func (e Envelope) clone() Envelope {
	out := Envelope{
		messageID:       e.messageID,
		payload:         slices.Clone(e.payload),
		properties:      maps.Clone(e.properties),
		contentType:     e.contentType,
		contentEncoding: e.contentEncoding,
	}
	if out.properties == nil {
		out.properties = make(map[string]string)
	}
	return out
}
