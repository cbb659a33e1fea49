// Package generate runs file generators over a resolved context.
//
// Generators run one at a time in the order the caller gives. A later
// generator may read what an earlier one wrote in the same run, never a
// file left over from a previous run. Every invocation is all-or-nothing:
// its files are staged next to their targets and renamed into place only
// after the generator and the conflict checks succeed.
package generate

import (
	"fmt"
	"slices"
	"sort"

	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/resolve"
)

// Generator writes build-tool input from a resolved context.
type Generator interface {
	// Kind is the name recipes use to invoke the generator, e.g.
	// "cmake_toolchain".
	Kind() string

	// Options declares the options the generator accepts. Anything else is
	// rejected before Generate runs.
	Options() OptionSet

	Generate(req *Request) error
}

// Registry maps generator kinds to generators.
type Registry struct {
	gens map[string]Generator
}

// NewRegistry returns a registry holding gens.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{gens: make(map[string]Generator)}
	for _, g := range gens {
		if err := r.Register(g); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds g. Registering the same kind twice is an error.
func (r *Registry) Register(g Generator) error {
	if _, ok := r.gens[g.Kind()]; ok {
		return fmt.Errorf("generator %q already registered", g.Kind())
	}
	r.gens[g.Kind()] = g
	return nil
}

// Lookup returns the generator for kind, or an error wrapping
// errs.ErrGeneratorUnavailable.
func (r *Registry) Lookup(kind string) (Generator, error) {
	g, ok := r.gens[kind]
	if !ok {
		return nil, errs.Generation(kind, fmt.Errorf("%w: %q (have %v)", errs.ErrGeneratorUnavailable, kind, r.Kinds()))
	}
	return g, nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.gens))
	for k := range r.gens {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Request is what a generator gets for one invocation.
type Request struct {
	Context   resolve.Context
	Options   Options
	BuildDir  string
	SourceDir string

	run   *run
	stage *stage
}

// Write stages data for path. A relative path is relative to BuildDir.
// Writing the same path twice in one invocation keeps the last data.
func (r *Request) Write(path string, data []byte) {
	r.stage.put(r.abs(path), data)
}

// ReadFile returns a file written earlier in the same run, either by a
// previous invocation or staged by this one. Files that were only on disk
// before the run started are not visible; asking for one fails with
// errs.ErrMissingInput.
func (r *Request) ReadFile(path string) ([]byte, error) {
	abs := r.abs(path)
	if data, ok := r.stage.get(abs); ok {
		return slices.Clone(data), nil
	}
	if data, ok := r.run.written[abs]; ok {
		return slices.Clone(data), nil
	}
	return nil, fmt.Errorf("%w: %s was not generated earlier in this run", errs.ErrMissingInput, path)
}

func (r *Request) abs(path string) string {
	return absUnder(r.BuildDir, path)
}

// Result reports one successful invocation.
type Result struct {
	Kind string
	// Files lists the absolute paths written, in the order the generator
	// wrote them.
	Files []string
}
