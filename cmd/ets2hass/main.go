// ets2hass converts an ETS project export into configuration for the
// Home Assistant KNX integration or for linknx.
//
// Usage:
//
//	ets2hass [flags] project.knxproj
//
// The generated file goes to standard output (or -output); log messages go
// to standard error. Optional sinks configured in the YAML configuration
// keep a snapshot of each run in SQLite, publish the result over MQTT and
// record run statistics in InfluxDB.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/pipeline"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// outputPermissions is the permission mode of a generated file.
const outputPermissions = 0o644

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation of the optional sinks
//   - args: Command-line arguments without the program name
//   - stdout: Destination of the generated file when no output path is set
//   - stderr: Destination of log messages and usage
//
// Returns:
//   - error: nil on success, or error describing failure
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if flags.showVersion {
		fmt.Fprintf(stdout, "ets2hass %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = os.Getenv("ETS2HASS_CONFIG")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logOut := stderr
	if strings.EqualFold(cfg.Logging.Output, "stdout") {
		logOut = stdout
	}
	log := logging.NewWriter(cfg.Logging, version, logOut)
	log.Debug("configuration loaded", "path", configPath, "format", cfg.Conversion.Format)

	res, err := pipeline.Run(flags.project, pipeline.OptionsFromConfig(cfg.Conversion), log)
	if err != nil {
		return err
	}

	if err := writeOutput(res.Output, cfg.Conversion.Output, stdout); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := runSinks(ctx, cfg, flags.project, res, log); err != nil {
		return err
	}

	log.Info("done",
		"project", res.ProjectName,
		"warnings", log.Warnings(),
		"errors", log.Errors(),
	)
	return nil
}

// writeOutput writes the artifact to path, or to stdout when path is empty.
func writeOutput(data []byte, path string, stdout io.Writer) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, outputPermissions); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
