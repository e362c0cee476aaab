package correction

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// Logger is the logging surface corrections need.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Fixer rewrites a project model before generation.
//
// A fixer is applied exactly once, after import and before mapping. It
// has the whole project.Model API at its disposal: it may reclassify or
// relocate objects, create and delete objects, relink addresses, and fill
// the correction bags of addresses and objects.
type Fixer interface {
	Fix(model *project.Model) error
}

// FixerFunc adapts a function to the Fixer interface.
type FixerFunc func(model *project.Model) error

// Fix calls f(model).
func (f FixerFunc) Fix(model *project.Model) error {
	return f(model)
}

// Chain applies fixers in order and stops at the first error.
func Chain(fixers ...Fixer) Fixer {
	return FixerFunc(func(model *project.Model) error {
		for _, f := range fixers {
			if err := f.Fix(model); err != nil {
				return err
			}
		}
		return nil
	})
}

// Built-in fixer names.
const (
	BuiltinGeneric     = "generic"
	BuiltinPrefix      = "prefix"
	BuiltinPulseBlinds = "pulse-blinds"
)

var builtins = map[string]func(Logger) Fixer{
	BuiltinGeneric: func(log Logger) Fixer {
		return OrphansPerAddress(DefaultPlacement(), log)
	},
	BuiltinPrefix: func(log Logger) Fixer {
		return OrphansByPrefix(DefaultPrefixes(), DefaultPlacement(), log)
	},
	BuiltinPulseBlinds: PulseBlinds,
}

// Builtins returns the names of the built-in fixers, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a built-in fixer by name.
func Builtin(name string, log Logger) (Fixer, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (built-in: %s)", ErrUnknownFixer, name, strings.Join(Builtins(), ", "))
	}
	return build(log), nil
}

// Load resolves a correction reference: a built-in name, or the path of
// a YAML correction file.
//
// Parameters:
//   - ref: Built-in name ("generic", "prefix", "pulse-blinds") or file path
//   - log: Destination for correction messages
//
// Returns:
//   - Fixer: Ready to apply
//   - error: ErrUnknownFixer, ErrNoEntryPoint or ErrInvalidRules
func Load(ref string, log Logger) (Fixer, error) {
	if _, ok := builtins[ref]; ok {
		return Builtin(ref, log)
	}

	ext := strings.ToLower(filepath.Ext(ref))
	if ext == ".yaml" || ext == ".yml" {
		return LoadFile(ref, log)
	}
	if _, err := os.Stat(ref); err == nil {
		return LoadFile(ref, log)
	}

	return nil, fmt.Errorf("%w: %q is neither a built-in (%s) nor a correction file",
		ErrUnknownFixer, ref, strings.Join(Builtins(), ", "))
}
