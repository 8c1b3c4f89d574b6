package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ehr/recordspanel/internal/config"
	"github.com/ehr/recordspanel/internal/domain/account"
	"github.com/ehr/recordspanel/internal/domain/record"
	"github.com/ehr/recordspanel/internal/platform/db"
	"github.com/ehr/recordspanel/internal/platform/remote"
)

// backend bundles the collection and registrar of the configured backend.
// Pool is set for postgres only, Remote for hosted only.
type backend struct {
	Records   record.Collection
	Registrar account.Registrar
	Pool      *pgxpool.Pool
	Remote    *remote.Client
	Close     func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendHosted:
		client := remote.New(remote.Config{
			BaseURL:     cfg.BackendURL,
			AnonKey:     cfg.BackendAnonKey,
			AccessToken: cfg.BackendAccessToken,
			Timeout:     cfg.RequestTimeout,
		})
		return &backend{
			Records:   record.NewCollectionHosted(client, cfg.RecordsTable),
			Registrar: account.NewRegistrarHosted(client),
			Remote:    client,
			Close:     func() {},
		}, nil

	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, db.PoolOptions{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, err
		}
		return &backend{
			Records:   record.NewCollectionPG(pool, cfg.RecordsTable),
			Registrar: account.NewRegistrarPG(pool),
			Pool:      pool,
			Close:     pool.Close,
		}, nil

	case config.BackendMemory:
		return &backend{
			Records:   record.NewMemoryCollection(),
			Registrar: account.NewMemoryRegistrar(),
			Close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out, NoColor: out != io.Writer(os.Stdout)}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
