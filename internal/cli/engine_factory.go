package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/algoviz"
	"github.com/aretw0/algoviz/internal/config"
	"github.com/aretw0/algoviz/internal/logging"
	"github.com/aretw0/algoviz/pkg/adapters/file"
	"github.com/aretw0/algoviz/pkg/adapters/redis"
	"github.com/aretw0/algoviz/pkg/generator"
)

// NewEngine builds an engine from cfg. Subjects are persisted in redis when an address
// is configured, otherwise in StoreDir when set. The returned closer releases the store.
func NewEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...algoviz.Option) (*algoviz.Engine, func() error, error) {
	genOpts := []generator.Option{}
	if cfg.Seed != 0 {
		genOpts = append(genOpts, generator.WithSeed(cfg.Seed))
	}

	opts := []algoviz.Option{
		algoviz.WithLogger(logger),
		algoviz.WithGenerator(generator.New(genOpts...)),
		algoviz.WithSubjectSpec(cfg.SubjectSpec()),
	}
	closer := func() error { return nil }

	if cfg.Redis.Addr != "" {
		storeOpts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, storeOpts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis store unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("Subject store enabled", "backend", "redis", "addr", cfg.Redis.Addr)
		opts = append(opts, algoviz.WithStore(store))
		closer = store.Close
	} else if cfg.StoreDir != "" {
		logger.Info("Subject store enabled", "backend", "file", "dir", cfg.StoreDir)
		opts = append(opts, algoviz.WithStore(file.NewStore(cfg.StoreDir)))
	}

	engine, err := algoviz.New(append(opts, extra...)...)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closer, nil
}

// NewLogger returns a logger writing to w at level, or a no-op logger for "off".
func NewLogger(w io.Writer, level string) *slog.Logger {
	if strings.EqualFold(strings.TrimSpace(level), "off") {
		return logging.NewNop()
	}
	return logging.NewWithWriter(w, logging.ParseLevel(level))
}
