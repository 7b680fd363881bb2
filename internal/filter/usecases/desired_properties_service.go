package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"filter-module/internal/filter/domain"
)

const _desiredKey = "desired"

var ErrInvalidThresholdValue = errors.New("threshold value is not a number")

// ThresholdChange describes the effect of a configuration patch.
type ThresholdChange struct {
	Applied  bool
	Previous float64
	Current  float64
}

type DesiredPropertiesService interface {
	// Apply reads TemperatureThreshold from a desired-properties patch, either
	// at the top level or nested under "desired". A patch without the key is a
	// no-op.
	Apply(ctx context.Context, payload []byte) (ThresholdChange, error)
	SetThreshold(ctx context.Context, value float64) ThresholdChange
	Threshold() float64
}

func NewDesiredPropertiesService(store *domain.ThresholdStore) *SimpleDesiredPropertiesService {
	return &SimpleDesiredPropertiesService{store: store}
}

var _ DesiredPropertiesService = (*SimpleDesiredPropertiesService)(nil)

type SimpleDesiredPropertiesService struct {
	store *domain.ThresholdStore
}

func (s *SimpleDesiredPropertiesService) Apply(ctx context.Context, payload []byte) (ThresholdChange, error) {
	current := s.store.Get()
	noop := ThresholdChange{Previous: current, Current: current}

	var patch map[string]json.RawMessage
	if err := json.Unmarshal(payload, &patch); err != nil {
		return noop, fmt.Errorf("decoding desired properties: %w", err)
	}

	if nested, ok := patch[_desiredKey]; ok {
		var desired map[string]json.RawMessage
		if err := json.Unmarshal(nested, &desired); err == nil && desired != nil {
			patch = desired
		}
	}

	raw, ok := patch[domain.TemperatureThresholdProperty]
	if !ok {
		slog.Debug("desired properties without threshold", slog.Int("keys", len(patch)))
		return noop, nil
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil || string(raw) == "null" {
		return noop, fmt.Errorf("%w: %s", ErrInvalidThresholdValue, string(raw))
	}

	return s.SetThreshold(ctx, value), nil
}

func (s *SimpleDesiredPropertiesService) SetThreshold(_ context.Context, value float64) ThresholdChange {
	previous := s.store.Get()
	s.store.Update(value)
	slog.Info("temperature threshold updated",
		slog.Float64("previous", previous),
		slog.Float64("current", value),
	)
	return ThresholdChange{Applied: true, Previous: previous, Current: value}
}

func (s *SimpleDesiredPropertiesService) Threshold() float64 {
	return s.store.Get()
}
