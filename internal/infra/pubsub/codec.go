package pubsub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/hamba/avro/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec satisfies goka.Codec.
type Codec interface {
	Encode(value any) (data []byte, err error)
	Decode(data []byte) (value any, err error)
}

const (
	CodecJSON    = "json"
	CodecAvro    = "avro"
	CodecMsgpack = "msgpack"
)

func NewCodec(name string, prototype any, schema string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return NewJSONCodec(prototype), nil
	case CodecAvro:
		return NewAvroCodec(prototype, schema)
	case CodecMsgpack:
		return NewMsgpackCodec(prototype), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

var _ Codec = (*JSONCodec)(nil)

type JSONCodec struct {
	prototype any
}

func NewJSONCodec(prototype any) *JSONCodec {
	return &JSONCodec{prototype}
}

func (c *JSONCodec) Encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshaling data: %w", err)
	}

	return data, nil
}

func (c *JSONCodec) Decode(data []byte) (any, error) {
	instance := reflect.New(reflect.TypeOf(c.prototype)).Interface()
	if err := json.Unmarshal(data, instance); err != nil {
		return nil, fmt.Errorf("unmarshaling data: %w", err)
	}

	return instance, nil
}

var _ Codec = (*AvroCodec)(nil)

// AvroCodec encodes values with a fixed Avro schema, no registry involved.
type AvroCodec struct {
	prototype any
	schema    avro.Schema
}

func NewAvroCodec(prototype any, schema string) (*AvroCodec, error) {
	parsed, err := avro.Parse(schema)
	if err != nil {
		return nil, fmt.Errorf("parsing avro schema: %w", err)
	}

	return &AvroCodec{prototype: prototype, schema: parsed}, nil
}

func (c *AvroCodec) Encode(value any) ([]byte, error) {
	data, err := avro.Marshal(c.schema, value)
	if err != nil {
		return nil, fmt.Errorf("encoding avro: %w", err)
	}

	return data, nil
}

func (c *AvroCodec) Decode(data []byte) (any, error) {
	instance := reflect.New(reflect.TypeOf(c.prototype)).Interface()
	if err := avro.Unmarshal(c.schema, data, instance); err != nil {
		return nil, fmt.Errorf("decoding avro: %w", err)
	}

	return instance, nil
}

var _ Codec = (*MsgpackCodec)(nil)

// MsgpackCodec reuses the json struct tags so field names match the JSON codec.
type MsgpackCodec struct {
	prototype any
}

func NewMsgpackCodec(prototype any) *MsgpackCodec {
	return &MsgpackCodec{prototype}
}

func (c *MsgpackCodec) Encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("encoding msgpack: %w", err)
	}

	return buf.Bytes(), nil
}

func (c *MsgpackCodec) Decode(data []byte) (any, error) {
	instance := reflect.New(reflect.TypeOf(c.prototype)).Interface()
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(instance); err != nil {
		return nil, fmt.Errorf("decoding msgpack: %w", err)
	}

	return instance, nil
}
