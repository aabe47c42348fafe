package main

import (
	"os"

	"github.com/nonibytes/ranch/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
