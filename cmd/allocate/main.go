// Command allocate splits an order across warehouses listed cheapest first.
//
//	allocate -input request.yaml [-compact] [-record] [-json] [-verbose]
//
// It exits with status 2 when the warehouses cannot cover the order.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/eshaffer321/inventory-allocator/internal/cli"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseAllocateFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(cli.ExitOK)
	}
	if err != nil {
		os.Exit(cli.ExitError)
	}

	cfg := config.LoadOrEnv_WithPath(flags.ConfigPath)

	code, err := cli.RunAllocate(context.Background(), cfg, flags, cli.IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}
