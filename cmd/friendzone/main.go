// Command friendzone serves the friend zone demo.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/ryanhamamura/friendzone"
	"github.com/ryanhamamura/friendzone/fznats"
	"github.com/ryanhamamura/friendzone/internal/telemetry"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("parse config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Msg("friendzone failed")
	}
}

func run(ctx context.Context, cfg config) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "friendzone",
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	level := cfg.level()
	opts := friendzone.Options{
		DevMode:         cfg.Dev,
		ServerAddress:   cfg.Addr,
		LogLevel:        &level,
		SessionLifetime: cfg.SessionLifetime,
		AddRateLimit:    friendzone.RateLimitConfig{Rate: cfg.AddRate, Burst: cfg.AddBurst},
		Plugins:         []friendzone.Plugin{friendzone.XPTheme},
	}

	if cfg.SessionDB != "" {
		db, err := sql.Open("sqlite3", cfg.SessionDB)
		if err != nil {
			return fmt.Errorf("open session db: %w", err)
		}
		defer db.Close()
		sm, err := friendzone.NewSQLiteSessionManager(db)
		if err != nil {
			return fmt.Errorf("session manager: %w", err)
		}
		opts.SessionManager = sm
	}

	if cfg.NATSDir != "" {
		ps, err := fznats.New(ctx, cfg.NATSDir)
		if err != nil {
			return fmt.Errorf("start nats: %w", err)
		}
		opts.PubSub = ps
	}

	app := friendzone.New()
	app.Config(opts)

	if opts.PubSub != nil {
		logger := app.Logger()
		if _, err := friendzone.Subscribe(opts.PubSub, friendzone.SubjectFriendAdded, func(evt friendzone.FriendAdded) {
			logger.Info().Int("count", evt.Count).Str("source", evt.Source).Msg("friend added")
		}); err != nil {
			return fmt.Errorf("subscribe %s: %w", friendzone.SubjectFriendAdded, err)
		}
	}

	return app.Run(ctx)
}
