package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nonibytes/ranch/internal/cli/commands"
	"github.com/nonibytes/ranch/internal/cliopt"
	"github.com/nonibytes/ranch/internal/config"
)

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	return Run(config.Load(), argv, os.Stdout, os.Stderr)
}

// Run is Execute with explicit configuration and output streams.
func Run(cfg *config.Config, argv []string, stdout, stderr io.Writer) int {
	globalFS := flag.NewFlagSet("ranch", flag.ContinueOnError)
	globalFS.SetOutput(stderr)
	g := cliopt.DefaultGlobalOptions(cfg)
	g.Stdout, g.Stderr = stdout, stderr
	cliopt.BindGlobalFlags(globalFS, &g)

	if err := globalFS.Parse(argv); err != nil {
		// flag package already printed the error
		return 2
	}

	args := globalFS.Args()
	if len(args) == 0 {
		PrintRootHelp(stdout)
		return 0
	}

	verb := args[0]
	rest := args[1:]

	switch verb {
	case "--help", "-h", "help":
		PrintRootHelp(stdout)
		return 0
	case "import":
		return commands.RunImport(g, rest)
	case "exports":
		return commands.RunExports(g, rest)
	case "countries":
		return commands.RunCountries(g, rest)
	case "fields":
		return commands.RunFields(g, rest)
	case "format":
		return commands.RunFormat(g, rest)
	case "validate":
		return commands.RunValidate(g, rest)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", verb)
		PrintRootHelp(stderr)
		return 2
	}
}
