package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/correction"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/config"
)

// errUsage reports a command line that cannot be run; the usage text has
// already been printed.
var errUsage = errors.New("invalid command line")

// cliFlags holds the command-line options. Only flags that were set on the
// command line override the configuration.
type cliFlags struct {
	configPath  string
	format      string
	addr        string
	fixes       string
	trace       string
	output      string
	haKnx       bool
	fullName    bool
	sortByName  bool
	showVersion bool

	// set names the flags given on the command line.
	set map[string]bool

	// project is the .knxproj to convert.
	project string
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("ets2hass", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.configPath, "config", "", "Path to configuration file (env: ETS2HASS_CONFIG)")
	fs.StringVar(&f.format, "format", config.FormatHomeAssistant,
		"Output format: "+config.FormatHomeAssistant+" or "+config.FormatLinknx)
	fs.StringVar(&f.addr, "addr", "", "Override the group address style: Free, TwoLevel or ThreeLevel")
	fs.StringVar(&f.fixes, "fixes", "",
		"Correction to apply: built-in ("+strings.Join(correction.Builtins(), ", ")+") or YAML file")
	fs.StringVar(&f.trace, "trace", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.output, "output", "", "Write the result to this file instead of standard output")
	fs.BoolVar(&f.haKnx, "ha-knx", false, "Nest the Home Assistant output under a top-level knx key")
	fs.BoolVar(&f.fullName, "full-name", false, "Suffix device names with their room")
	fs.BoolVar(&f.sortByName, "sort", false, "Sort devices by name")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ets2hass [flags] project.knxproj\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errUsage
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if f.showVersion {
		return f, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errUsage
	}
	f.project = fs.Arg(0)
	return f, nil
}

// apply overrides the configuration with the flags given on the command line.
func (f *cliFlags) apply(cfg *config.Config) {
	if f.set["format"] {
		cfg.Conversion.Format = f.format
	}
	if f.set["addr"] {
		cfg.Conversion.AddressStyle = f.addr
	}
	if f.set["fixes"] {
		cfg.Conversion.Fixes = f.fixes
	}
	if f.set["trace"] {
		cfg.Logging.Level = f.trace
	}
	if f.set["output"] {
		cfg.Conversion.Output = f.output
	}
	if f.set["ha-knx"] {
		cfg.Conversion.Wrap = f.haKnx
	}
	if f.set["full-name"] {
		cfg.Conversion.FullName = f.fullName
	}
	if f.set["sort"] {
		cfg.Conversion.SortByName = f.sortByName
	}
}
