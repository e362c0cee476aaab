package etsimport

import (
	"fmt"

	"github.com/nerrad567/gray-logic-ets2hass/internal/knx"
	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// Logger is the logging surface the importer needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options tune an import.
type Options struct {
	// AddressStyle overrides the style declared in project.xml when set.
	AddressStyle string
}

// Stats summarises what an import kept and dropped.
type Stats struct {
	GroupAddresses        int
	SkippedGroupAddresses int
	Objects               int
}

// Import builds a project model from a decoded archive.
//
// It resolves the address style, builds the group address table, then
// walks whichever building trees the installation carries.
//
// Parameters:
//   - archive: Decoded project archive
//   - opts: Import options
//   - log: Destination for progress and skip messages
//
// Returns:
//   - *project.Model: Populated model
//   - Stats: Counts for reporting
//   - error: ErrMissingNode, knx.ErrUnknownAddressStyle or
//     project.ErrUnknownFunctionType
func Import(archive *Archive, opts Options, log Logger) (*project.Model, Stats, error) {
	var stats Stats

	info, err := archive.Info.ProjectInformation()
	if err != nil {
		return nil, stats, err
	}

	style, err := knx.ResolveAddressStyle(opts.AddressStyle, info.GroupAddressStyle)
	if err != nil {
		return nil, stats, err
	}
	log.Info("using project", "name", info.Name, "address_style", string(style))

	installation, err := archive.Data.Installation()
	if err != nil {
		return nil, stats, err
	}
	ranges, err := installation.GroupRanges()
	if err != nil {
		return nil, stats, err
	}

	model := project.NewModel(project.Info{Name: info.Name, AddressStyle: style})

	stats.SkippedGroupAddresses, err = BuildGroupAddresses(ranges, style, model, log)
	if err != nil {
		return nil, stats, fmt.Errorf("building group address table: %w", err)
	}
	stats.GroupAddresses = model.NumGroupAddresses()

	trees := []struct {
		root *Space
		kind SpaceKind
	}{
		{installation.Locations, KindSpace},
		{installation.Buildings, KindBuildingPart},
	}
	for _, tree := range trees {
		if tree.root == nil {
			continue
		}
		if _, err := WalkLocations(tree.root, tree.kind, model, log); err != nil {
			return nil, stats, fmt.Errorf("walking %s: %w", tree.kind, err)
		}
	}
	stats.Objects = model.NumObjects()

	if stats.Objects == 0 {
		log.Warn("no building information found")
	}

	return model, stats, nil
}
