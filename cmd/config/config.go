package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	_envPrefix  = "filter_module"
	_configName = "module"
	_dotEnvFile = ".env"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

// LoadConfig reads the process configuration once, panicking on invalid input.
func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		config, err := Load(os.Args[1:])
		if err != nil {
			panic(fmt.Errorf("fatal error config: %w", err))
		}
		configInstance = config
	})

	return configInstance
}

// Load resolves configuration from flags, environment, an optional .env file
// and an optional module.yaml, in that order of precedence.
func Load(args []string) (AppConfig, error) {
	if err := godotenv.Load(_dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("loading %s: %w", _dotEnvFile, err)
	}

	flags := pflag.NewFlagSet("filtermodule", pflag.ContinueOnError)
	configDir := flags.String("config-dir", "", "directory containing module.yaml")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return AppConfig{}, fmt.Errorf("parsing flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(_envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindPFlag("general.log_level", flags.Lookup("log-level")); err != nil {
		return AppConfig{}, fmt.Errorf("binding log-level flag: %w", err)
	}

	v.SetConfigName(_configName)
	if *configDir != "" {
		v.AddConfigPath(*configDir)
	}
	v.AddConfigPath("config")
	v.AddConfigPath("/config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	config := AppConfig{
		General: GeneralConfig{
			LogLevel:    v.GetString("general.log_level"),
			Environment: v.GetString("general.environment"),
		},
		MQTTClient: MQTTClientConfig{
			Broker:   v.GetString("mqtt_client.broker"),
			ClientID: v.GetString("mqtt_client.client_id"),
			Username: v.GetString("mqtt_client.username"),
			Password: v.GetString("mqtt_client.password"),
		},
		Module: ModuleConfig{
			AlertOutput:      v.GetString("module.alert_output"),
			HeartbeatOutput:  v.GetString("module.heartbeat_output"),
			DefaultThreshold: v.GetFloat64("module.default_threshold"),
		},
		Heartbeat: HeartbeatConfig{
			Schedule: v.GetString("heartbeat.schedule"),
		},
		HTTP: HTTPConfig{
			Addr:           v.GetString("http.addr"),
			AllowedOrigins: listValue(v, "http.allowed_origins"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("kafka.enabled"),
			Brokers: listValue(v, "kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
			Codec:   v.GetString("kafka.codec"),
		},
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		return AppConfig{}, fmt.Errorf("validating config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.environment", "production")
	v.SetDefault("mqtt_client.broker", defaultBroker())
	v.SetDefault("module.alert_output", "output1")
	v.SetDefault("module.heartbeat_output", "heartbeat")
	v.SetDefault("module.default_threshold", 25)
	v.SetDefault("heartbeat.schedule", "")
	v.SetDefault("http.addr", "127.0.0.1:3000")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "filter-module-alerts")
	v.SetDefault("kafka.codec", "json")
}

// listValue accepts YAML lists as well as comma or space separated strings
// coming from the environment.
func listValue(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// defaultBroker points at the edge hub when running under the edge runtime.
func defaultBroker() string {
	if host := os.Getenv("IOTEDGE_GATEWAYHOSTNAME"); host != "" {
		return "ssl://" + host + ":8883"
	}
	return "tcp://localhost:1883"
}

type AppConfig struct {
	General    GeneralConfig
	MQTTClient MQTTClientConfig
	Module     ModuleConfig
	Heartbeat  HeartbeatConfig
	HTTP       HTTPConfig
	Kafka      KafkaConfig
}

type GeneralConfig struct {
	LogLevel    string `validate:"oneof=debug info warn error"`
	Environment string `validate:"oneof=local production"`
}

type MQTTClientConfig struct {
	Broker   string `validate:"required"`
	ClientID string
	Username string
	Password string
}

type ModuleConfig struct {
	AlertOutput      string `validate:"required"`
	HeartbeatOutput  string `validate:"required"`
	DefaultThreshold float64
}

type HeartbeatConfig struct {
	Schedule string
}

type HTTPConfig struct {
	Addr           string `validate:"required"`
	AllowedOrigins []string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string `validate:"required_if=Enabled true,dive,hostname_port"`
	Topic   string   `validate:"required_if=Enabled true"`
	Codec   string   `validate:"oneof=json avro msgpack"`
}
