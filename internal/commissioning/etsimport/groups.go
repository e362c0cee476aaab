package etsimport

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-ets2hass/internal/knx"
	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// BuildGroupAddresses walks the group range tree and registers every
// usable group address in the model.
//
// Sub-ranges are visited before the addresses of a range. An address is
// skipped with a warning when it has no datapoint, an unparsable
// datapoint, or an unparsable address value.
//
// Parameters:
//   - root: The GroupRanges node
//   - style: Address rendering style, already resolved
//   - model: Model to fill
//   - log: Destination for skip warnings
//
// Returns:
//   - int: Number of addresses skipped
//   - error: Only for an unusable style
func BuildGroupAddresses(root *GroupRange, style knx.AddressStyle, model *project.Model, log Logger) (int, error) {
	skipped := 0

	var visit func(r *GroupRange) error
	visit = func(r *GroupRange) error {
		for i := range r.Ranges {
			if err := visit(&r.Ranges[i]); err != nil {
				return err
			}
		}
		for _, entry := range r.Addresses {
			ok, err := addGroupAddress(entry, style, model, log)
			if err != nil {
				return err
			}
			if !ok {
				skipped++
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return skipped, err
	}
	return skipped, nil
}

// addGroupAddress registers one entry. It reports false when the entry
// was skipped.
func addGroupAddress(entry GroupAddressEntry, style knx.AddressStyle, model *project.Model, log Logger) (bool, error) {
	if entry.DatapointType == "" {
		log.Warn("no datapoint type for group address, to be defined in ETS, skipping",
			"address", entry.Address, "name", entry.Name)
		return false, nil
	}

	dpt, ok := knx.ParseDatapointType(entry.DatapointType)
	if !ok {
		log.Warn("cannot parse datapoint type (expected DPST-x-y), skipping",
			"address", entry.Address, "name", entry.Name, "datapoint", entry.DatapointType)
		return false, nil
	}

	raw, err := knx.ParseRawAddress(entry.Address)
	if err != nil {
		log.Warn("cannot parse group address value, skipping",
			"address", entry.Address, "name", entry.Name, "error", err)
		return false, nil
	}

	addr, err := knx.FormatGroupAddress(raw, style)
	if err != nil {
		return false, fmt.Errorf("formatting group address %s: %w", entry.ID, err)
	}

	ga := project.GroupAddress{
		ID:          entry.ID,
		Name:        entry.Name,
		Description: entry.Description,
		Address:     addr,
		Raw:         raw,
		Datapoint:   dpt,
	}
	if err := model.AddGroupAddress(ga); err != nil {
		if errors.Is(err, project.ErrDuplicateGroupAddress) || errors.Is(err, project.ErrInvalidID) {
			log.Warn("unusable group address identifier, skipping",
				"address", addr, "name", entry.Name, "error", err)
			return false, nil
		}
		return false, err
	}

	log.Debug("group address", "id", ga.ID, "address", ga.Address, "datapoint", ga.Datapoint, "name", ga.Name)
	return true, nil
}
