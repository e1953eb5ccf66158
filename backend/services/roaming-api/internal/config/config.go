package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "chargenet/backend/libs/config"
)

const (
	defaultPort          = "8090"
	defaultHistorySize   = 50
	defaultActiveTTL     = 24 * time.Hour
	defaultMQTTPrefix    = "roaming"
	defaultExpiryPeriod  = 30 * time.Second
	defaultWSPingPeriod  = 30 * time.Second
	defaultCommandWindow = 60 * time.Second
)

// Config defines roaming api configuration. Every backend is optional; an empty address or
// DSN leaves the corresponding component disabled.
type Config struct {
	ServiceName string `yaml:"serviceName" env:"ROAMING_SERVICE_NAME"`
	HTTP        struct {
		Port string `yaml:"port" env:"ROAMING_HTTP_PORT"`
	} `yaml:"http"`
	Commands struct {
		Timeout time.Duration `yaml:"timeout" env:"ROAMING_COMMAND_TIMEOUT"`
	} `yaml:"commands"`
	JWT struct {
		Secret string `yaml:"secret" env:"ROAMING_JWT_SECRET"`
	} `yaml:"jwt"`
	Status struct {
		HistorySize int `yaml:"historySize" env:"ROAMING_STATUS_HISTORY_SIZE"`
	} `yaml:"status"`
	Reservations struct {
		ExpiryInterval time.Duration `yaml:"expiryInterval" env:"ROAMING_RESERVATION_EXPIRY_INTERVAL"`
	} `yaml:"reservations"`
	Database struct {
		DSN string `yaml:"dsn" env:"ROAMING_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ROAMING_REDIS_ADDR"`
		Password string `yaml:"password" env:"ROAMING_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"ROAMING_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"ROAMING_REDIS_TTL"`
	} `yaml:"redis"`
	MQTT struct {
		Broker      string `yaml:"broker" env:"ROAMING_MQTT_BROKER"`
		ClientID    string `yaml:"clientId" env:"ROAMING_MQTT_CLIENT_ID"`
		Username    string `yaml:"username" env:"ROAMING_MQTT_USERNAME"`
		Password    string `yaml:"password" env:"ROAMING_MQTT_PASSWORD"`
		TopicPrefix string `yaml:"topicPrefix" env:"ROAMING_MQTT_TOPIC_PREFIX"`
		QoS         uint8  `yaml:"qos" env:"ROAMING_MQTT_QOS"`
	} `yaml:"mqtt"`
	Events struct {
		Enabled      bool          `yaml:"enabled" env:"ROAMING_EVENTS_ENABLED"`
		PingInterval time.Duration `yaml:"pingInterval" env:"ROAMING_EVENTS_PING_INTERVAL"`
	} `yaml:"events"`
	Seed struct {
		File string `yaml:"file" env:"ROAMING_SEED_FILE"`
	} `yaml:"seed"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := defaults()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{ServiceName: "roaming-api"}
	cfg.HTTP.Port = defaultPort
	cfg.Commands.Timeout = defaultCommandWindow
	cfg.Status.HistorySize = defaultHistorySize
	cfg.Reservations.ExpiryInterval = defaultExpiryPeriod
	cfg.Redis.TTL = int(defaultActiveTTL / time.Second)
	cfg.MQTT.ClientID = "roaming-api"
	cfg.MQTT.TopicPrefix = defaultMQTTPrefix
	cfg.Events.Enabled = true
	cfg.Events.PingInterval = defaultWSPingPeriod
	return cfg
}

func (c *Config) validate() error {
	if c.Commands.Timeout <= 0 {
		return errors.New("config: command timeout must be positive")
	}
	if c.Status.HistorySize <= 0 {
		return errors.New("config: status history size must be positive")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("config: mqtt qos %d out of range", c.MQTT.QoS)
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ActiveSessionTTL returns ttl as duration.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return defaultActiveTTL
	}
	return time.Duration(c.Redis.TTL) * time.Second
}
