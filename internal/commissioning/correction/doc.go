// Package correction rewrites a project model between import and
// generation.
//
// Real ETS projects are rarely tidy: addresses live outside any function,
// blinds are wired as pulse push-buttons, names follow site conventions.
// A Fixer adjusts the model so the generators produce what the site
// actually needs. Fixers come from three built-ins (generic, prefix,
// pulse-blinds) or from a YAML file whose fix_objects key lists steps.
package correction
