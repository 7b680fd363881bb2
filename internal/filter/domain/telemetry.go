package domain

import (
	"encoding/json"
	"unicode/utf8"
)

// MachineTelemetry is the shape produced by the simulated temperature sensor.
// Only Machine.Temperature is required.
type MachineTelemetry struct {
	Machine struct {
		Temperature *float64 `json:"temperature"`
		Pressure    float64  `json:"pressure"`
	} `json:"machine"`
	Ambient struct {
		Temperature float64 `json:"temperature"`
		Humidity    float64 `json:"humidity"`
	} `json:"ambient"`
	TimeCreated string `json:"timeCreated"`
}

// MachineTemperature extracts machine.temperature from a non-empty envelope.
// The payload is always read as UTF-8 JSON, whatever content type it is
// tagged with. Every failure wraps ErrMalformedMessage.
func MachineTemperature(e Envelope) (float64, error) {
	if !utf8.Valid(e.payload) {
		return 0, malformed("payload is not valid utf-8", nil)
	}

	var telemetry MachineTelemetry
	if err := json.Unmarshal(e.payload, &telemetry); err != nil {
		return 0, malformed("decoding json payload", err)
	}

	if telemetry.Machine.Temperature == nil {
		return 0, malformed("machine.temperature is missing", nil)
	}

	return *telemetry.Machine.Temperature, nil
}
