package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"filter-module/cmd/config"
	"filter-module/cmd/filtermodule/wire"
	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/httpapi"
	"filter-module/internal/filter/workers"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/edgehub"
	"filter-module/internal/infra/httpserver"
	"filter-module/internal/infra/mqtt"
	"filter-module/internal/infra/node"

	"golang.org/x/sync/errgroup"
)

const (
	_shutdownTimeout = 10 * time.Second
	_apiVersion      = "2018-06-30"
)

var (
	logLevelMapping = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
)

func main() {
	config := config.LoadConfig()

	level := logLevelMapping[config.General.LogLevel]
	baseHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: level, ReplaceAttr: slogReplaceAttr})
	handler := baseHandler.WithAttrs([]slog.Attr{slog.String("version", node.Version)})
	slog.SetDefault(slog.New(handler))
	slog.Info("filter module is initializing")
	slog.Debug("config loaded", "data", config)

	identity := node.GetNodeInfo()
	if err := identity.Validate(); err != nil {
		slog.Error("module identity", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(config, identity); err != nil {
		slog.Error("filter module stopped", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("good bye!!!")
}

func run(cfg config.AppConfig, identity *node.Node) error {
	shutdownOtel := startOTel()
	defer func() {
		if err := shutdownOtel(); err != nil {
			slog.Warn("shutting down otel", slog.Any("error", err))
		}
	}()

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	internalBroker := async.NewLocalBroker()
	defer internalBroker.Stop()

	store := domain.NewThresholdStore(cfg.Module.DefaultThreshold)
	if err := workers.RegisterThresholdGauge(store); err != nil {
		slog.Warn("threshold gauge disabled", slog.Any("error", err))
	}

	moduleClient := edgehub.NewModuleClient(internalBroker, edgehub.ModuleClientOpts{
		DeviceID: identity.DeviceID,
		ModuleID: identity.ModuleID,
	})

	// Workers subscribe to the broker when built, before any MQTT traffic.
	moduleWorkers := []async.Worker{
		handleWireInjector(wire.InitializeFilterWorker(internalBroker, store, moduleClient)).(async.Worker),
		handleWireInjector(wire.InitializeTwinWorker(internalBroker, store, moduleClient)).(async.Worker),
		handleWireInjector(wire.InitializeMethodWorker(internalBroker, moduleClient)).(async.Worker),
	}
	if cfg.Heartbeat.Schedule != "" {
		moduleWorkers = append(moduleWorkers, handleWireInjector(wire.InitializeHeartbeatWorker(moduleClient)).(async.Worker))
	}

	alertStream := handleWireInjector(wire.InitializeAlertWebSocketController(internalBroker)).(*httpapi.AlertWebSocketController)
	defer alertStream.Shutdown()

	httpServer, err := httpserver.NewServer(
		httpserver.ServerOpts{Addr: cfg.HTTP.Addr, AllowedOrigins: cfg.HTTP.AllowedOrigins},
		handleWireInjector(wire.InitializeThresholdController(store, moduleClient)).(httpserver.Controller),
		handleWireInjector(wire.InitializeMethodController(moduleClient)).(httpserver.Controller),
		alertStream,
	)
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	mqttClient, err := mqtt.NewSimpleClient(mqtt.SimpleClientOpts{
		Broker:   cfg.MQTTClient.Broker,
		ClientID: clientID(cfg, identity),
		Username: username(cfg, identity),
		Password: cfg.MQTTClient.Password, //pragma: allowlist secret
		OnConnect: func(c mqtt.Client) {
			moduleClient.RequestTwin(c)
		},
	})
	if err != nil {
		return fmt.Errorf("connecting to edge hub: %w", err)
	}
	defer mqttClient.Disconnect()

	if err := moduleClient.Attach(appCtx, mqttClient); err != nil {
		return err
	}
	slog.Info("module client attached",
		slog.String("device_id", identity.DeviceID),
		slog.String("module_id", identity.ModuleID),
	)

	group, groupCtx := errgroup.WithContext(appCtx)
	for _, worker := range moduleWorkers {
		group.Go(func() error {
			worker.Run(groupCtx, func() {})
			return nil
		})
	}
	group.Go(httpServer.Run)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), _shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func clientID(cfg config.AppConfig, identity *node.Node) string {
	if cfg.MQTTClient.ClientID != "" {
		return cfg.MQTTClient.ClientID
	}
	return identity.ClientID()
}

// username follows the edgeHub convention {gateway}/{device}/{module}/?api-version=.
func username(cfg config.AppConfig, identity *node.Node) string {
	if cfg.MQTTClient.Username != "" {
		return cfg.MQTTClient.Username
	}
	return fmt.Sprintf("%s/%s/%s/?api-version=%s", identity.GatewayHostName, identity.DeviceID, identity.ModuleID, _apiVersion)
}

func slogReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source := a.Value.Any().(*slog.Source)
		source.File = filepath.Base(source.File)
		return slog.Any(a.Key, source)
	}
	return a
}

func handleWireInjector(value any, err error) any {
	if err != nil {
		panic(err)
	}

	return value
}
