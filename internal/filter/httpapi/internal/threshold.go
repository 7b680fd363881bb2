package internal

type ThresholdResponse struct {
	TemperatureThreshold float64 `json:"temperature_threshold"`
}

type ThresholdUpdateRequest struct {
	TemperatureThreshold *float64 `json:"temperature_threshold" validate:"required"`
}

type ThresholdUpdateResponse struct {
	Previous             float64 `json:"previous"`
	TemperatureThreshold float64 `json:"temperature_threshold"`
}

type AlertMessage struct {
	Type      string            `json:"type"`
	MessageID string            `json:"message_id"`
	DeviceID  string            `json:"device_id"`
	ModuleID  string            `json:"module_id"`
	Output    string            `json:"output"`
	RaisedAt  string            `json:"raised_at"`
	Metadata  map[string]string `json:"metadata"`
	Data      string            `json:"data"`
}
