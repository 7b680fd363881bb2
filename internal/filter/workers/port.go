package workers

//go:generate mockgen -source=port.go -destination=../../../test/unit/doubles/filter/workers/port_mock.go -package=workers -mock_names=MethodResponder=MockMethodResponder,PropertyReporter=MockPropertyReporter

import "context"

type MethodResponder interface {
	SendMethodResponse(ctx context.Context, requestID string, status int, payload []byte) error
}

type PropertyReporter interface {
	ReportProperties(ctx context.Context, properties map[string]any) error
}
