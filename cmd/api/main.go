// Command api serves allocations and their history over HTTP.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/eshaffer321/inventory-allocator/internal/cli"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseServeFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(1)
	}

	cfg := config.LoadOrEnv_WithPath(flags.ConfigPath)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
