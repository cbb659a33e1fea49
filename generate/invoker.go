package generate

import (
	"fmt"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/recipe"
	"github.com/goplus/recipe/resolve"
)

// Invoker runs generators into a build directory. All invocations made
// through one Invoker form a single run: later invocations see what
// earlier ones wrote, and two invocations writing different content to the
// same path conflict. Use a new Invoker for every run.
type Invoker struct {
	Registry *Registry
	BuildDir string
	// SourceDir receives files meant for the user's source tree, such as
	// CMake user presets. Generators fall back to BuildDir when it is empty.
	SourceDir string

	run *run
}

// NewInvoker returns an Invoker writing into buildDir.
func NewInvoker(reg *Registry, buildDir, sourceDir string) *Invoker {
	return &Invoker{Registry: reg, BuildDir: buildDir, SourceDir: sourceDir}
}

func (inv *Invoker) state() (*run, error) {
	if inv.run != nil {
		return inv.run, nil
	}
	man, err := loadManifest(inv.BuildDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ManifestFile, err)
	}
	inv.run = &run{
		written: make(map[string][]byte),
		owner:   make(map[string]string),
		man:     man,
	}
	return inv.run, nil
}

// Check validates invocations against the registry without running them:
// every kind must be registered and every option recognized.
func (inv *Invoker) Check(invocations []recipe.Invocation) error {
	for _, in := range invocations {
		g, err := inv.Registry.Lookup(in.Kind)
		if err != nil {
			return err
		}
		if _, err := g.Options().Parse(in.Options); err != nil {
			return errs.Config(in.Kind, err)
		}
	}
	return nil
}

// Invoke runs the generator of the given kind over rctx. Errors are
// errs.GenerationError, or errs.ConfigurationError for bad options. When
// Invoke fails nothing of the invocation is left on disk.
func (inv *Invoker) Invoke(kind string, rctx resolve.Context, options map[string]string) (*Result, error) {
	g, err := inv.Registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	opts, err := g.Options().Parse(options)
	if err != nil {
		return nil, errs.Config(kind, err)
	}
	r, err := inv.state()
	if err != nil {
		return nil, errs.Generation(kind, err)
	}

	st := newStage()
	req := &Request{
		Context:   rctx,
		Options:   opts,
		BuildDir:  inv.BuildDir,
		SourceDir: inv.SourceDir,
		run:       r,
		stage:     st,
	}
	log.Debugf("generate: %s %v", kind, opts)
	if err := g.Generate(req); err != nil {
		return nil, errs.Generation(kind, err)
	}
	if err := r.check(inv.BuildDir, st); err != nil {
		return nil, errs.Generation(kind, err)
	}
	man := r.man.clone()
	for _, path := range st.paths {
		man.set(manifestPath(inv.BuildDir, path), &manifestEntry{Kind: kind, SHA256: digest(st.data[path])})
	}
	data, err := man.encode()
	if err != nil {
		return nil, errs.Generation(kind, fmt.Errorf("write %s: %w", ManifestFile, err))
	}
	// the manifest commits together with the files it records
	if err := commit(st, filepath.Join(inv.BuildDir, ManifestFile), data); err != nil {
		return nil, errs.Generation(kind, err)
	}
	r.man = man

	res := &Result{Kind: kind, Files: make([]string, 0, len(st.paths))}
	for _, path := range st.paths {
		r.written[path] = st.data[path]
		r.owner[path] = kind
		res.Files = append(res.Files, path)
		log.Debugf("generate: %s wrote %s", kind, path)
	}
	log.Infof("generate: %s wrote %d file(s)", kind, len(res.Files))
	return res, nil
}

// Run invokes each generator in order and stops at the first failure. The
// results of the invocations that succeeded are returned either way.
func (inv *Invoker) Run(rctx resolve.Context, invocations []recipe.Invocation) ([]*Result, error) {
	results := make([]*Result, 0, len(invocations))
	for _, in := range invocations {
		res, err := inv.Invoke(in.Kind, rctx, in.Options)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
