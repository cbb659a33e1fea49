// Package recipe is the configuration descriptor of a build: which settings
// axes the build varies over, which external packages it requires, and
// which generators turn the resolved packages into build-tool input.
//
// A Recipe is pure data. It never resolves its requirements; it only
// validates them so that malformed or duplicate declarations are caught
// before anything is handed to a package manager.
package recipe

import (
	"fmt"
	"slices"

	"github.com/goplus/recipe/mod/module"
	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/settings"
)

// FileName is the conventional recipe file name inside a project.
const FileName = "recipe.hcl"

// -----------------------------------------------------------------------------

// Recipe represents a build-configuration descriptor.
type Recipe struct {
	Name string

	// Settings lists the axes the recipe declares, as written.
	Settings []string

	// Requires lists requirements in declaration order.
	Requires []module.Version

	// Generators lists generator invocations in the order they must run.
	Generators []Invocation

	// Matrix optionally lists several values per axis; see Matrix.Expand.
	Matrix Matrix
}

// Invocation names a generator kind and the raw options given to it.
// Options are checked against the generator's declared option set when
// the generator runs.
type Invocation struct {
	Kind    string
	Options map[string]string
}

// SettingsAxes returns the fixed ordered set of settings axes. It fails if
// the recipe does not declare all of them, declares one twice, or declares
// an axis that does not exist.
func (r *Recipe) SettingsAxes() ([]settings.Axis, error) {
	seen := make(map[string]bool, len(r.Settings))
	for _, name := range r.Settings {
		if !settings.IsAxis(name) {
			return nil, errs.Config("recipe", fmt.Errorf("%w: unknown axis %q", errs.ErrInvalidSetting, name))
		}
		if seen[name] {
			return nil, errs.Config("recipe", fmt.Errorf("%w: axis %q declared twice", errs.ErrInvalidSetting, name))
		}
		seen[name] = true
	}
	for _, a := range settings.Axes() {
		if !seen[string(a)] {
			return nil, errs.Config("recipe", fmt.Errorf("%w: recipe does not declare axis %q", errs.ErrMissingSetting, a))
		}
	}
	return settings.Axes(), nil
}

// Requirements returns the declared requirements in order. A package named
// more than once fails with errs.ErrDuplicateRequirement, whether or not the
// version specs agree.
func (r *Recipe) Requirements() ([]module.Version, error) {
	seen := make(map[string]string, len(r.Requires))
	for _, req := range r.Requires {
		if err := req.Check(); err != nil {
			return nil, errs.Config("recipe", err)
		}
		if prev, ok := seen[req.Path]; ok {
			return nil, errs.Config("recipe", fmt.Errorf("%w: %s declared as %q and %q", errs.ErrDuplicateRequirement, req.Path, prev, req.Version))
		}
		seen[req.Path] = req.Version
	}
	return slices.Clone(r.Requires), nil
}

// Require appends a requirement.
func (r *Recipe) Require(path, ver string) {
	r.Requires = append(r.Requires, module.Version{Path: path, Version: ver})
}

// Generate appends a generator invocation.
func (r *Recipe) Generate(kind string, options map[string]string) {
	r.Generators = append(r.Generators, Invocation{Kind: kind, Options: options})
}

// Validate checks the whole descriptor: settings axes, requirements,
// generator invocations and the optional matrix.
func (r *Recipe) Validate() error {
	if _, err := r.SettingsAxes(); err != nil {
		return err
	}
	if _, err := r.Requirements(); err != nil {
		return err
	}
	for i, inv := range r.Generators {
		if inv.Kind == "" {
			return errs.Config("recipe", fmt.Errorf("generator #%d has no kind", i+1))
		}
	}
	for axis := range r.Matrix.Require {
		if !slices.Contains(r.Settings, axis) && axis != settings.CompilerLibcxx && axis != settings.CompilerCppstd {
			return errs.Config("recipe", fmt.Errorf("%w: matrix axis %q is not a declared setting", errs.ErrInvalidSetting, axis))
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
