package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"filter-module/internal/filter/domain"

	"github.com/google/uuid"
)

const (
	_methodResponseBody = `{ "Response": "This is the response from the device" }`
	_heartbeatFailure   = `{ "Response": "heartbeat could not be sent" }`
)

// MethodResponse is the reply to a direct method invocation.
type MethodResponse struct {
	Status  int
	Payload []byte
}

type HeartbeatService interface {
	SendHeartbeat(ctx context.Context) error
	HandleMethod(ctx context.Context, name string) MethodResponse
}

type HeartbeatServiceOpts struct {
	ModuleName string
	Output     string
}

func NewHeartbeatService(sender OutputSender, opts HeartbeatServiceOpts) *SimpleHeartbeatService {
	return &SimpleHeartbeatService{
		sender:     sender,
		moduleName: opts.ModuleName,
		output:     opts.Output,
	}
}

var _ HeartbeatService = (*SimpleHeartbeatService)(nil)

type SimpleHeartbeatService struct {
	sender     OutputSender
	moduleName string
	output     string
}

func (s *SimpleHeartbeatService) SendHeartbeat(ctx context.Context) error {
	heartbeat := domain.NewEnvelope(
		[]byte(fmt.Sprintf("Module [%s] is running", s.moduleName)),
		domain.WithMessageID(uuid.NewString()),
		domain.WithProperties(map[string]string{
			domain.PropertyMessageType: domain.MessageTypeHeartbeat,
		}),
	)

	if err := s.sender.SendToOutput(ctx, s.output, heartbeat); err != nil {
		return fmt.Errorf("sending heartbeat to %s: %w", s.output, err)
	}

	slog.Debug("heartbeat sent", slog.String("output", s.output))
	return nil
}

// HandleMethod answers any method name the same way: a heartbeat goes out and
// a fixed payload comes back.
func (s *SimpleHeartbeatService) HandleMethod(ctx context.Context, name string) MethodResponse {
	slog.Info("method request received", slog.String("method", name))

	if err := s.SendHeartbeat(ctx); err != nil {
		slog.Error("heartbeat for method request", slog.String("method", name), slog.Any("error", err))
		return MethodResponse{Status: http.StatusInternalServerError, Payload: []byte(_heartbeatFailure)}
	}

	return MethodResponse{Status: http.StatusOK, Payload: []byte(_methodResponseBody)}
}
