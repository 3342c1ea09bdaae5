// Command wireplan maps harness channels into a durable store and traces
// disconnects between connectors.
package main

import (
	"context"
	"os"

	"github.com/roach88/wireplan/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
