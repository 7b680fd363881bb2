package usecases

import (
	"context"

	"filter-module/internal/filter/domain"
)

//go:generate mockgen -source=port.go -destination=../../../test/unit/doubles/filter/usecases/port_mock.go -package=usecases -mock_names=OutputSender=MockOutputSender

// OutputSender forwards an envelope to a named logical output of the module.
type OutputSender interface {
	SendToOutput(ctx context.Context, output string, envelope domain.Envelope) error
}
