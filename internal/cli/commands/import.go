package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nonibytes/ranch/internal/cliopt"
	"github.com/nonibytes/ranch/internal/cliutil"
	"github.com/nonibytes/ranch/ranch"
	"github.com/nonibytes/ranch/ranch/storage"
	"github.com/nonibytes/ranch/ranch/storage/filesys"
)

func RunImport(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var file, version string
	fs.StringVar(&file, "file", "", "dataset export JSON file")
	fs.StringVar(&file, "f", "", "dataset export JSON file")
	fs.StringVar(&version, "version", "", "export version (RFC3339); defaults to the file name's timestamp, then now")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if file == "" {
		fmt.Fprintln(g.Stderr, "missing --file")
		return 2
	}

	v, err := importVersion(file, version)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 2
	}

	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(g.Stderr, "Error reading export file: %v\n", err)
		return 1
	}
	spec, err := ranch.ParseSpec(data)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}

	ctx := context.Background()
	logger := cliutil.Logger(g)
	return withStore(ctx, g, logger, func(st storage.Store, _ storage.Backend) int {
		info, err := st.Put(ctx, storage.Export{Version: v, Data: data})
		if err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
		if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
			cliutil.PrintJSON(g.Stdout, info)
			return 0
		}
		fmt.Fprintf(g.Stdout, "Imported %s\n", info.Version.Format(time.RFC3339Nano))
		fmt.Fprintf(g.Stdout, "Countries: %d\n", len(spec.Countries()))
		fmt.Fprintf(g.Stdout, "Checksum: %s\n", info.Checksum)
		return 0
	})
}

func importVersion(file, flagValue string) (time.Time, error) {
	if flagValue != "" {
		v, err := time.Parse(time.RFC3339Nano, flagValue)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --version %q: %w", flagValue, err)
		}
		return v.UTC(), nil
	}
	if v, ok := filesys.ParseName(filepath.Base(file)); ok {
		return v, nil
	}
	return time.Now().UTC(), nil
}
