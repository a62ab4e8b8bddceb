package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // relay-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Relay struct {
	IDLength        int      `yaml:"idLength"`        // room/peer token length
	SignalRetention string   `yaml:"signalRetention"` // how long an unpolled signal stays visible
	RoomTTL         string   `yaml:"roomTTL"`         // idle time before a signaling room is swept
	SweepEvery      string   `yaml:"sweepEvery"`      // janitor interval
	AllowedOrigins  []string `yaml:"allowedOrigins"`
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	Logging Logging `yaml:"logging"`
	Relay   Relay   `yaml:"relay"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "relay-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Relay.IDLength == 0 {
		c.Relay.IDLength = 8
	}
	return nil
}

func (r Relay) SignalRetentionOr(def time.Duration) time.Duration {
	return parseDurationOr(def, r.SignalRetention)
}

func (r Relay) RoomTTLOr(def time.Duration) time.Duration {
	return parseDurationOr(def, r.RoomTTL)
}

func (r Relay) SweepEveryOr(def time.Duration) time.Duration {
	return parseDurationOr(def, r.SweepEvery)
}

// helper for parsing timeouts
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
