package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/txbridge/internal/config"
	"github.com/gabapcia/txbridge/internal/handlers/cli"
	"github.com/gabapcia/txbridge/internal/infra/backend/blockfrost"
	"github.com/gabapcia/txbridge/internal/infra/backend/ogmios"
	"github.com/gabapcia/txbridge/internal/infra/storage/redis"
	"github.com/gabapcia/txbridge/internal/pkg/logger"
	"github.com/gabapcia/txbridge/internal/pkg/resilience/retry"
	"github.com/gabapcia/txbridge/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/txbridge/internal/pkg/transport/http"
	"github.com/gabapcia/txbridge/internal/pkg/validator"
	"github.com/gabapcia/txbridge/internal/querybackend"
	"github.com/gabapcia/txbridge/internal/txtracker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "txbridge:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = errors.Join(err, shutdown(shutdownCtx))
		}()
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	backend, err := connectBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAndLog(ctx, "backend", backend)

	trackerOpts := []txtracker.Option{
		txtracker.WithRetry(retry.New(
			retry.WithAttempts(cfg.Confirm.Attempts),
			retry.WithDelay(cfg.Confirm.Delay),
			retry.WithMaxDelay(cfg.Confirm.MaxDelay),
		)),
	}

	if cfg.Redis.Enabled() {
		store, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer closeAndLog(ctx, "redis", store)

		trackerOpts = append(trackerOpts, txtracker.WithPendingStorage(store))
	}

	return cli.Run(ctx, backend, txtracker.New(backend, trackerOpts...))
}

// connectBackend builds the configured backend wrapped with tracing.
func connectBackend(ctx context.Context, cfg config.Config) (querybackend.Backend, error) {
	switch cfg.Backend {
	case config.BackendBlockfrost:
		client, err := blockfrost.New(cfg.Blockfrost.Server(),
			blockfrost.WithAPIKey(cfg.Blockfrost.APIKey),
			blockfrost.WithPageSize(cfg.Blockfrost.PageSize),
			blockfrost.WithHTTPOptions(transporthttp.WithRetryMax(cfg.Blockfrost.Retries)),
		)
		if err != nil {
			return nil, fmt.Errorf("blockfrost client: %w", err)
		}
		return querybackend.Traced(querybackend.Rest(client)), nil
	default:
		var opts []ogmios.Option
		if cfg.Ogmios.RequestTimeout > 0 {
			opts = append(opts, ogmios.WithRequestTimeout(cfg.Ogmios.RequestTimeout))
		}

		var client *ogmios.Client
		connect := retry.New(
			retry.WithAttempts(3),
			retry.WithRetryIf(func(err error) bool {
				return !errors.Is(err, validator.ErrValidationFailed)
			}),
			retry.WithOnRetry(func(n uint, err error) {
				logger.Warn(ctx, "ogmios connection attempt failed", "attempt", n+1, "error", err)
			}),
		)
		err := connect.Execute(ctx, func() error {
			c, err := ogmios.Dial(ctx, cfg.Ogmios.Server(), opts...)
			if err != nil {
				return err
			}
			client = c
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("connect ogmios: %w", err)
		}
		return querybackend.Traced(querybackend.Streaming(client)), nil
	}
}

func closeAndLog(ctx context.Context, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn(ctx, "close failed", "component", name, "error", err)
	}
}
