// Package config loads txbridge settings from TXBRIDGE_* environment variables.
package config

import (
	"time"

	"github.com/gabapcia/txbridge/internal/pkg/validator"
	"github.com/gabapcia/txbridge/internal/querybackend"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. TXBRIDGE_BACKEND.
const Prefix = "TXBRIDGE"

// Backend names accepted by TXBRIDGE_BACKEND.
const (
	BackendOgmios     = "ogmios"
	BackendBlockfrost = "blockfrost"
)

// Ogmios configures the streaming backend.
type Ogmios struct {
	Host           string        `default:"localhost" validate:"required"`
	Port           uint16        `default:"1337" validate:"required"`
	Path           string        `validate:"omitempty,urlpath"`
	Secure         bool
	RequestTimeout time.Duration `split_words:"true"` // zero waits for as long as the caller's context allows
}

// Server returns the service location.
func (o Ogmios) Server() querybackend.ServerConfig {
	return querybackend.ServerConfig{Host: o.Host, Port: o.Port, Path: o.Path, Secure: o.Secure}
}

// Blockfrost configures the REST backend.
type Blockfrost struct {
	Host     string `default:"cardano-preview.blockfrost.io" validate:"required"`
	Port     uint16 `default:"443" validate:"required"`
	Path     string `default:"/api/v0" validate:"omitempty,urlpath"`
	Secure   bool   `default:"true"`
	APIKey   string `envconfig:"API_KEY"`
	PageSize int    `split_words:"true" default:"100" validate:"min=1,max=100"`
	Retries  int    `default:"0" validate:"min=0"`
}

// Server returns the service location.
func (b Blockfrost) Server() querybackend.ServerConfig {
	return querybackend.ServerConfig{Host: b.Host, Port: b.Port, Path: b.Path, Secure: b.Secure}
}

// Redis configures the pending-submission store. Submissions are kept in
// memory when Addr is empty.
type Redis struct {
	Addr     string
	Username string
	Password string
	DB       int `default:"0" validate:"min=0"`
}

// Enabled reports whether a Redis server is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Telemetry configures the OTLP exporters. Endpoints come from the standard
// OTEL_EXPORTER_OTLP_* variables.
type Telemetry struct {
	Enabled     bool   `default:"false"`
	ServiceName string `split_words:"true" default:"txbridge" validate:"required"`
}

// Confirm configures how confirmations are polled.
type Confirm struct {
	Attempts uint          `default:"10" validate:"min=1"`
	Delay    time.Duration `default:"2s" validate:"min=0"`
	MaxDelay time.Duration `split_words:"true" default:"20s" validate:"min=0"`
}

// Config is the whole txbridge configuration.
type Config struct {
	LogLevel   string `split_words:"true" default:"info" validate:"oneof=debug info warn error"`
	Backend    string `default:"ogmios" validate:"oneof=ogmios blockfrost"`
	Ogmios     Ogmios
	Blockfrost Blockfrost
	Redis      Redis
	Telemetry  Telemetry
	Confirm    Confirm
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
