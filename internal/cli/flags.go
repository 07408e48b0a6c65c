package cli

import (
	"flag"
	"io"
)

// AllocateFlags are the flags of the allocate command
type AllocateFlags struct {
	Input      string
	ConfigPath string
	Compact    bool
	Record     bool
	JSON       bool
	Verbose    bool
}

// ParseAllocateFlags parses allocate flags from args (without the program name).
// Usage and parse errors are written to output.
func ParseAllocateFlags(args []string, output io.Writer) (AllocateFlags, error) {
	var flags AllocateFlags
	fs := flag.NewFlagSet("allocate", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.Input, "input", "-", "Request file (YAML or JSON), - for stdin")
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.BoolVar(&flags.Compact, "compact", false, "Omit warehouses that ship nothing")
	fs.BoolVar(&flags.Record, "record", false, "Save the allocation to the history database")
	fs.BoolVar(&flags.JSON, "json", false, "Print the result as JSON")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return flags, err
	}
	return flags, nil
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port       int
	ConfigPath string
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
// A zero port means the configured one.
func ParseServeFlags(args []string, output io.Writer) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (default from config)")
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}
