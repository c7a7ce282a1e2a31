package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// config holds the server configuration read from the environment and flags.
type config struct {
	Addr            string        `env:"FRIENDZONE_ADDR" envDefault:":3000"`
	Dev             bool          `env:"FRIENDZONE_DEV"`
	LogLevel        string        `env:"FRIENDZONE_LOG_LEVEL" envDefault:"info"`
	SessionDB       string        `env:"FRIENDZONE_SESSION_DB"`
	SessionLifetime time.Duration `env:"FRIENDZONE_SESSION_LIFETIME" envDefault:"24h"`
	NATSDir         string        `env:"FRIENDZONE_NATS_DIR"`
	OTelEndpoint    string        `env:"FRIENDZONE_OTEL_ENDPOINT"`
	AddRate         float64       `env:"FRIENDZONE_ADD_RATE"`
	AddBurst        int           `env:"FRIENDZONE_ADD_BURST"`
}

func parseConfig(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "console logging")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return config{}, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	return cfg, nil
}

func (c config) level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
