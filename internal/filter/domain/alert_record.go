package domain

import "time"

// AlertRecord is the upstream copy of a forwarded alert.
type AlertRecord struct {
	MessageID       string            `json:"message_id" avro:"message_id"`
	DeviceID        string            `json:"device_id" avro:"device_id"`
	ModuleID        string            `json:"module_id" avro:"module_id"`
	Output          string            `json:"output" avro:"output"`
	ContentType     string            `json:"content_type" avro:"content_type"`
	ContentEncoding string            `json:"content_encoding" avro:"content_encoding"`
	Properties      map[string]string `json:"properties" avro:"properties"`
	Payload         string            `json:"payload" avro:"payload"`
	TraceID         string            `json:"trace_id,omitempty" avro:"trace_id"`
	RaisedAt        time.Time         `json:"raised_at" avro:"raised_at"`
}

const AlertRecordSchema = `{
  "type": "record",
  "name": "AlertRecord",
  "namespace": "filtermodule",
  "fields": [
    {"name": "message_id", "type": "string"},
    {"name": "device_id", "type": "string"},
    {"name": "module_id", "type": "string"},
    {"name": "output", "type": "string"},
    {"name": "content_type", "type": "string"},
    {"name": "content_encoding", "type": "string"},
    {"name": "properties", "type": {"type": "map", "values": "string"}},
    {"name": "payload", "type": "string"},
    {"name": "trace_id", "type": "string"},
    {"name": "raised_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
  ]
}`

func NewAlertRecord(deviceID, moduleID, output string, alert Envelope, raisedAt time.Time) AlertRecord {
	return AlertRecord{
		MessageID:       alert.MessageID(),
		DeviceID:        deviceID,
		ModuleID:        moduleID,
		Output:          output,
		ContentType:     alert.ContentType(),
		ContentEncoding: alert.ContentEncoding(),
		Properties:      alert.Properties(),
		Payload:         string(alert.payload),
		RaisedAt:        raisedAt,
	}
}
