package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/nonibytes/ranch/internal/cliopt"
	"github.com/nonibytes/ranch/internal/cliutil"
	"github.com/nonibytes/ranch/ranch/storage"
)

func RunCountries(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("countries", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	ctx := context.Background()
	logger := cliutil.Logger(g)
	return withStore(ctx, g, logger, func(st storage.Store, backend storage.Backend) int {
		spec, err := storage.NewLoader(st, storage.WithBackend(backend), storage.WithLoaderLogger(logger)).Spec(ctx)
		if err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
		options := spec.Options()
		if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
			cliutil.PrintJSON(g.Stdout, options)
			return 0
		}
		for _, code := range spec.Countries() {
			fmt.Fprintf(g.Stdout, "%s\t%s\n", code, options[code])
		}
		return 0
	})
}
