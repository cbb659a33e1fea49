// Package resolve defines the resolved context handed to generators and the
// resolver boundary behind which an external package manager does the
// actual dependency resolution.
package resolve

import (
	"context"
	"fmt"
	"slices"

	"github.com/qiniu/x/log"

	"github.com/goplus/recipe/mod/module"
	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/settings"
)

// Dependency is what a generator needs to know about one resolved package.
// Directories are absolute.
type Dependency struct {
	Name        string
	Version     string
	Root        string
	IncludeDirs []string
	LibDirs     []string
	BinDirs     []string
	Libs        []string
	Defines     []string
	LinkFlags   []string
}

// Context is a resolved dependency graph together with the settings matrix
// it was resolved for.
type Context interface {
	Settings() settings.Settings
	// Dependencies returns the resolved packages in requirement order.
	Dependencies() []Dependency
	Lookup(name string) (Dependency, bool)
}

// Resolver resolves requirements for a settings matrix. Implementations
// wrap an external package manager; errors they return are surfaced to
// the user unchanged.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, s settings.Settings, reqs []module.Version) (Context, error)
}

// -----------------------------------------------------------------------------

type staticContext struct {
	settings settings.Settings
	deps     []Dependency
}

// NewContext returns a Context holding deps in the given order.
func NewContext(s settings.Settings, deps ...Dependency) Context {
	return &staticContext{settings: s, deps: slices.Clone(deps)}
}

func (c *staticContext) Settings() settings.Settings { return c.settings }

func (c *staticContext) Dependencies() []Dependency { return slices.Clone(c.deps) }

func (c *staticContext) Lookup(name string) (Dependency, bool) {
	for _, d := range c.deps {
		if d.Name == name {
			return d, true
		}
	}
	return Dependency{}, false
}

// -----------------------------------------------------------------------------

// Run resolves reqs with r. Whatever r fails with is returned wrapped in an
// errs.ResolutionError naming r, so errors.Is and errors.As still reach the
// original error. Run also checks that r answered every requirement with a
// version matching its spec and that every package name, transitive ones
// included, is a valid package name, since generators name files after
// them. The dependencies are returned in requirement order.
func Run(ctx context.Context, r Resolver, s settings.Settings, reqs []module.Version) (Context, error) {
	log.Debugf("resolve: %s resolving %d requirements for %s", r.Name(), len(reqs), s.Key())
	rc, err := r.Resolve(ctx, s, reqs)
	if err != nil {
		return nil, errs.Resolution(r.Name(), err)
	}
	for _, dep := range rc.Dependencies() {
		if err := module.CheckPath(dep.Name); err != nil {
			return nil, errs.Resolution(r.Name(), err)
		}
	}

	deps := make([]Dependency, 0, len(reqs))
	for _, req := range reqs {
		dep, ok := rc.Lookup(req.Path)
		if !ok {
			return nil, errs.Resolution(r.Name(), fmt.Errorf("requirement %s not resolved", req))
		}
		spec, err := module.ParseSpec(req.Version)
		if err != nil {
			return nil, errs.Config("recipe", err)
		}
		if !spec.Match(dep.Version) {
			return nil, errs.Resolution(r.Name(), fmt.Errorf("requirement %s resolved to version %s", req, dep.Version))
		}
		deps = append(deps, dep)
	}
	for _, dep := range rc.Dependencies() {
		if !slices.ContainsFunc(deps, func(d Dependency) bool { return d.Name == dep.Name }) {
			// transitive packages keep the resolver's order after the direct ones
			deps = append(deps, dep)
		}
	}
	log.Infof("resolve: %s resolved %d packages", r.Name(), len(deps))
	return NewContext(s, deps...), nil
}
