package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/nonibytes/ranch/internal/cliopt"
	"github.com/nonibytes/ranch/internal/cliutil"
	"github.com/nonibytes/ranch/ranch"
)

func parseAddressFlags(name string, g cliopt.GlobalOptions, argv []string) (cliutil.SetArgs, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var sets cliutil.SetArgs
	fs.Var(&sets, "set", "set field value field=value (repeatable)")
	if err := fs.Parse(argv); err != nil {
		return nil, false
	}
	return sets, true
}

// RunFields prints the fields to present next, as JSON.
func RunFields(g cliopt.GlobalOptions, argv []string) int {
	sets, ok := parseAddressFlags("fields", g, argv)
	if !ok {
		return 2
	}
	addr, code := loadAddress(context.Background(), g, sets)
	if code != 0 {
		return code
	}
	cliutil.PrintJSON(g.Stdout, addr.FieldTypes())
	return 0
}

func RunFormat(g cliopt.GlobalOptions, argv []string) int {
	sets, ok := parseAddressFlags("format", g, argv)
	if !ok {
		return 2
	}
	addr, code := loadAddress(context.Background(), g, sets)
	if code != 0 {
		return code
	}
	out, err := addr.Render()
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
		cliutil.PrintJSON(g.Stdout, map[string]string{"address": out})
		return 0
	}
	fmt.Fprintln(g.Stdout, out)
	return 0
}

// RunValidate exits 1 when the address is incomplete or inconsistent.
func RunValidate(g cliopt.GlobalOptions, argv []string) int {
	sets, ok := parseAddressFlags("validate", g, argv)
	if !ok {
		return 2
	}
	addr, code := loadAddress(context.Background(), g, sets)
	if code != 0 {
		return code
	}
	valid := addr.IsValid()
	if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
		cliutil.PrintJSON(g.Stdout, map[string]any{"valid": valid, "values": fieldValues(addr)})
	} else if valid {
		fmt.Fprintln(g.Stdout, "valid")
	} else {
		fmt.Fprintln(g.Stdout, "invalid")
	}
	if !valid {
		return 1
	}
	return 0
}

func fieldValues(addr *ranch.Address) map[string]string {
	out := map[string]string{}
	for f, v := range addr.Values() {
		out[f.String()] = v
	}
	return out
}
