package pipeline

import (
	"bytes"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/correction"
	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/etsimport"
	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/homeass"
	"github.com/nerrad567/gray-logic-ets2hass/internal/commissioning/linknx"
	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// Logger is the logging surface every stage shares.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options select what a run generates.
type Options struct {
	// Format is config.FormatHomeAssistant or config.FormatLinknx.
	Format string

	// AddressStyle overrides the style declared by the project.
	AddressStyle string

	// Fixes is a built-in correction name or a correction file; empty
	// means no correction.
	Fixes string

	FullName   bool
	Wrap       bool
	SortByName bool
}

// OptionsFromConfig copies the conversion section of a configuration.
func OptionsFromConfig(cfg config.ConversionConfig) Options {
	return Options{
		Format:       cfg.Format,
		AddressStyle: cfg.AddressStyle,
		Fixes:        cfg.Fixes,
		FullName:     cfg.FullName,
		Wrap:         cfg.Wrap,
		SortByName:   cfg.SortByName,
	}
}

// Stats counts what a run kept, dropped and produced.
type Stats struct {
	GroupAddresses        int
	SkippedGroupAddresses int
	Objects               int

	// Home Assistant only.
	Devices          int
	SkippedObjects   int
	SkippedAddresses int
	Conflicts        int
	Orphans          int

	// linknx only.
	LinknxObjects int

	Bytes    int
	Duration time.Duration
}

// Result is the outcome of a run.
type Result struct {
	ProjectName  string
	AddressStyle string
	Format       string

	// Model is the corrected project model.
	Model *project.Model

	// Config is the Home Assistant configuration; nil for linknx.
	Config *homeass.Config

	// Output is the rendered artifact.
	Output []byte

	Stats Stats
}

// Categories returns the generated device categories, or nil for linknx.
func (r *Result) Categories() []homeass.Category {
	if r.Config == nil {
		return nil
	}
	return r.Config.Categories
}

// Entries returns the number of generated devices, or of linknx objects.
func (r *Result) Entries() int {
	if r.Config == nil {
		return r.Stats.LinknxObjects
	}
	return r.Stats.Devices
}

// Run converts the project archive at path.
//
// Parameters:
//   - path: A .knxproj file
//   - opts: What to generate
//   - log: Destination for per-record warnings and progress
//
// Returns:
//   - *Result: The model and the rendered artifact
//   - error: ErrUnsupportedFormat, or a wrapped import, correction or
//     rendering error
func Run(path string, opts Options, log Logger) (*Result, error) {
	if opts.Format != config.FormatHomeAssistant && opts.Format != config.FormatLinknx {
		return nil, fmt.Errorf("%w: %q (want %s or %s)",
			ErrUnsupportedFormat, opts.Format, config.FormatHomeAssistant, config.FormatLinknx)
	}

	start := time.Now()

	// Resolve the correction before touching the archive so a bad
	// reference fails fast.
	var fixer correction.Fixer
	if opts.Fixes != "" {
		f, err := correction.Load(opts.Fixes, log)
		if err != nil {
			return nil, fmt.Errorf("loading correction: %w", err)
		}
		fixer = f
	}

	archive, err := etsimport.ReadFile(path)
	if err != nil {
		return nil, err
	}

	model, importStats, err := etsimport.Import(archive, etsimport.Options{AddressStyle: opts.AddressStyle}, log)
	if err != nil {
		return nil, fmt.Errorf("importing project: %w", err)
	}

	if fixer != nil {
		log.Info("applying correction", "fixes", opts.Fixes)
		if err := fixer.Fix(model); err != nil {
			return nil, fmt.Errorf("applying correction %s: %w", opts.Fixes, err)
		}
	}

	res := &Result{
		ProjectName:  model.Info.Name,
		AddressStyle: string(model.Info.AddressStyle),
		Format:       opts.Format,
		Model:        model,
		Stats: Stats{
			GroupAddresses:        importStats.GroupAddresses,
			SkippedGroupAddresses: importStats.SkippedGroupAddresses,
			Objects:               model.NumObjects(),
		},
	}

	switch opts.Format {
	case config.FormatHomeAssistant:
		err = res.renderHomeAssistant(opts, log)
	case config.FormatLinknx:
		err = res.renderLinknx(log)
	}
	if err != nil {
		return nil, err
	}

	res.Stats.Bytes = len(res.Output)
	res.Stats.Duration = time.Since(start)
	log.Info("conversion complete",
		"project", res.ProjectName,
		"format", res.Format,
		"bytes", res.Stats.Bytes,
		"duration", res.Stats.Duration)
	return res, nil
}

func (r *Result) renderHomeAssistant(opts Options, log Logger) error {
	mapper := homeass.NewMapper(homeass.Options{
		FullName:   opts.FullName,
		Wrap:       opts.Wrap,
		SortByName: opts.SortByName,
	}, log)

	cfg, report := mapper.Map(r.Model)
	out, err := cfg.Render()
	if err != nil {
		return fmt.Errorf("rendering home assistant configuration: %w", err)
	}

	r.Config = cfg
	r.Output = out
	r.Stats.Devices = report.Devices
	r.Stats.SkippedObjects = report.SkippedObjects
	r.Stats.SkippedAddresses = report.SkippedAddresses
	r.Stats.Conflicts = report.Conflicts
	r.Stats.Orphans = report.Orphans
	return nil
}

func (r *Result) renderLinknx(log Logger) error {
	out, err := linknx.Generate(r.Model, log)
	if err != nil {
		return fmt.Errorf("rendering linknx objects: %w", err)
	}
	r.Output = out
	r.Stats.LinknxObjects = bytes.Count(out, []byte("<object "))
	return nil
}
