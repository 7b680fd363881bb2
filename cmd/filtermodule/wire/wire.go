//go:build wireinject
// +build wireinject

package wire

import (
	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/httpapi"
	"filter-module/internal/filter/usecases"
	"filter-module/internal/filter/workers"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/edgehub"

	"github.com/google/wire"
)

var DesiredPropertiesServiceSet = wire.NewSet(
	usecases.NewDesiredPropertiesService,
	wire.Bind(new(usecases.DesiredPropertiesService), new(*usecases.SimpleDesiredPropertiesService)),
)

var HeartbeatServiceSet = wire.NewSet(
	provideAppConfig,
	provideNode,
	provideHeartbeatServiceOpts,
	wire.Bind(new(usecases.OutputSender), new(*edgehub.ModuleClient)),
	usecases.NewHeartbeatService,
	wire.Bind(new(usecases.HeartbeatService), new(*usecases.SimpleHeartbeatService)),
)

func InitializeFilterWorker(broker async.InternalBroker, store *domain.ThresholdStore, client *edgehub.ModuleClient) (*workers.FilterWorker, error) {
	wire.Build(
		provideAppConfig,
		provideNode,
		provideFilterWorkerOpts,
		provideAlertMirror,
		wire.Bind(new(usecases.ThresholdReader), new(*domain.ThresholdStore)),
		usecases.NewMessageFilter,
		wire.Bind(new(usecases.MessageFilter), new(*usecases.SimpleMessageFilter)),
		wire.Bind(new(usecases.OutputSender), new(*edgehub.ModuleClient)),
		workers.NewFilterWorker,
	)
	return nil, nil
}

func InitializeTwinWorker(broker async.InternalBroker, store *domain.ThresholdStore, client *edgehub.ModuleClient) (*workers.TwinWorker, error) {
	wire.Build(
		DesiredPropertiesServiceSet,
		wire.Bind(new(workers.PropertyReporter), new(*edgehub.ModuleClient)),
		workers.NewTwinWorker,
	)
	return nil, nil
}

func InitializeMethodWorker(broker async.InternalBroker, client *edgehub.ModuleClient) (*workers.MethodWorker, error) {
	wire.Build(
		HeartbeatServiceSet,
		wire.Bind(new(workers.MethodResponder), new(*edgehub.ModuleClient)),
		workers.NewMethodWorker,
	)
	return nil, nil
}

func InitializeHeartbeatWorker(client *edgehub.ModuleClient) (*workers.HeartbeatWorker, error) {
	wire.Build(
		HeartbeatServiceSet,
		provideHeartbeatSchedule,
		workers.NewHeartbeatWorker,
	)
	return nil, nil
}

func InitializeThresholdController(store *domain.ThresholdStore, client *edgehub.ModuleClient) (*httpapi.ThresholdController, error) {
	wire.Build(
		DesiredPropertiesServiceSet,
		wire.Bind(new(workers.PropertyReporter), new(*edgehub.ModuleClient)),
		httpapi.NewThresholdController,
	)
	return nil, nil
}

func InitializeMethodController(client *edgehub.ModuleClient) (*httpapi.MethodController, error) {
	wire.Build(
		HeartbeatServiceSet,
		httpapi.NewMethodController,
	)
	return nil, nil
}

func InitializeAlertWebSocketController(broker async.InternalBroker) (*httpapi.AlertWebSocketController, error) {
	wire.Build(
		provideAppConfig,
		provideAlertWebSocketControllerOpts,
		httpapi.NewAlertWebSocketController,
	)
	return nil, nil
}
