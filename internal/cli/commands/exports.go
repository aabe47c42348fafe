package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nonibytes/ranch/internal/cliopt"
	"github.com/nonibytes/ranch/internal/cliutil"
	"github.com/nonibytes/ranch/ranch/storage"
)

func RunExports(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("exports", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	ctx := context.Background()
	return withStore(ctx, g, cliutil.Logger(g), func(st storage.Store, _ storage.Backend) int {
		list, err := st.List(ctx)
		if err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
		if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
			if list == nil {
				list = []storage.ExportInfo{}
			}
			cliutil.PrintJSON(g.Stdout, list)
			return 0
		}
		for _, info := range list {
			fmt.Fprintf(g.Stdout, "%s  %s  %d bytes\n", info.Version.Format(time.RFC3339Nano), info.Checksum, info.Size)
		}
		fmt.Fprintf(g.Stdout, "--- %d exports ---\n", len(list))
		return 0
	})
}
