package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/mcoot/tankbattle/internal/config"
	"github.com/mcoot/tankbattle/internal/dependencies/clock"
	"github.com/mcoot/tankbattle/internal/factory"
	"github.com/mcoot/tankbattle/internal/services/account"
	"github.com/mcoot/tankbattle/internal/services/admin"
	"github.com/mcoot/tankbattle/internal/services/history"
	"github.com/mcoot/tankbattle/internal/storage"
)

// openStorage connects to the store the server is configured to use.
// Tests replace it.
var openStorage = func(ctx context.Context, logger *slog.Logger) (storage.Storage, error) {
	c, err := config.FromEnvironment()
	if err != nil {
		return nil, err
	}
	return factory.OpenStorage(ctx, factory.FromConfig(c, logger))
}

// operator bundles the services operator commands work through
type operator struct {
	store    storage.Storage
	accounts *account.Service
	admin    *admin.Service
}

func newOperator(ctx context.Context, stderr io.Writer) (*operator, error) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := openStorage(ctx, logger)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	accounts := account.New(store, clk, logger)
	return &operator{
		store:    store,
		accounts: accounts,
		admin:    admin.New(accounts, history.New(store, clk, logger), logger),
	}, nil
}

func (o *operator) Close() error {
	return o.store.Close()
}
