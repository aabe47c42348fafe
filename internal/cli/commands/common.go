package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nonibytes/ranch/internal/cliopt"
	"github.com/nonibytes/ranch/internal/cliutil"
	"github.com/nonibytes/ranch/ranch"
	"github.com/nonibytes/ranch/ranch/storage"
)

// withStore opens the configured store, runs fn and closes the store.
func withStore(ctx context.Context, g cliopt.GlobalOptions, logger *slog.Logger, fn func(storage.Store, storage.Backend) int) int {
	st, backend, err := cliutil.OpenStore(ctx, g, logger)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	defer st.Close()
	return fn(st, backend)
}

// loadAddress builds an address from the latest export and the --set values.
func loadAddress(ctx context.Context, g cliopt.GlobalOptions, sets cliutil.SetArgs) (*ranch.Address, int) {
	values, err := sets.Values()
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return nil, 2
	}
	logger := cliutil.Logger(g)

	var addr *ranch.Address
	code := withStore(ctx, g, logger, func(st storage.Store, backend storage.Backend) int {
		spec, err := storage.NewLoader(st, storage.WithBackend(backend), storage.WithLoaderLogger(logger)).Spec(ctx)
		if err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
		addr, err = ranch.New(spec, values, ranch.WithLogger(logger))
		if err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
		return 0
	})
	return addr, code
}
