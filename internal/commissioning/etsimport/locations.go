package etsimport

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// spaceTypeFloor is the Space Type that starts a new floor.
const spaceTypeFloor = "Floor"

// placement is the location inherited down the building tree.
type placement struct {
	floor string
	room  string
}

// WalkLocations descends the building tree and turns every function that
// references at least one group address into a project object.
//
// A Floor node sets the floor of everything below it. The node directly
// holding a function is taken as its room. References to unknown group
// addresses are dropped; the object is still created.
//
// Returns:
//   - int: Number of objects created
//   - error: project.ErrUnknownFunctionType for a Type that is not FT-<digit>
func WalkLocations(root *Space, kind SpaceKind, model *project.Model, log Logger) (int, error) {
	return walkSpace(root, kind, placement{}, model, log)
}

func walkSpace(space *Space, kind SpaceKind, at placement, model *project.Model, log Logger) (int, error) {
	log.Debug("space", "type", space.Type, "name", space.Name)

	if space.Type == spaceTypeFloor {
		at.floor = space.Name
	}

	created := 0
	children := space.Children(kind)
	for i := range children {
		n, err := walkSpace(&children[i], kind, at, model, log)
		created += n
		if err != nil {
			return created, err
		}
	}

	if len(space.Functions) == 0 {
		return created, nil
	}

	at.room = space.Name
	for _, fn := range space.Functions {
		ok, err := addFunction(fn, at, model, log)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// addFunction registers one function as an object. It reports false when
// the function was skipped.
func addFunction(fn Function, at placement, model *project.Model, log Logger) (bool, error) {
	if len(fn.Refs) == 0 {
		log.Debug("function without group address, skipping", "name", fn.Name, "room", at.room)
		return false, nil
	}

	ft, err := project.ParseFunctionType(fn.Type)
	if err != nil {
		return false, fmt.Errorf("function %q in %q: %w", fn.Name, at.room, err)
	}

	obj := project.Object{
		ID:    fn.ID,
		Name:  fn.Name,
		Type:  ft,
		Floor: at.floor,
		Room:  at.room,
	}
	if err := model.AddObject(obj); err != nil {
		if errors.Is(err, project.ErrDuplicateObject) || errors.Is(err, project.ErrInvalidID) {
			log.Warn("unusable function identifier, skipping", "name", fn.Name, "room", at.room, "error", err)
			return false, nil
		}
		return false, err
	}

	for _, ref := range fn.Refs {
		if err := model.Associate(ref.RefID, obj.ID); err != nil {
			if errors.Is(err, project.ErrGroupAddressNotFound) {
				log.Debug("reference to unknown group address ignored", "function", fn.Name, "ref", ref.RefID)
				continue
			}
			return false, err
		}
	}

	log.Debug("function", "id", obj.ID, "name", obj.Name, "type", obj.Type, "floor", obj.Floor, "room", obj.Room)
	return true, nil
}
