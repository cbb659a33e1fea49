package resolve

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/goplus/recipe/mod/module"
	"github.com/goplus/recipe/settings"
)

// PrefixResolver finds packages already installed by a package manager in
// a local cache laid out as
//
//	Root/
//	  <escaped>@<version>-<settings key>/   # install prefix
//	    include/
//	    lib/
//	    bin/
//
// An exact spec must be installed as is. For a range spec the highest
// installed version inside the range is used; nothing is fetched or built.
type PrefixResolver struct {
	Root string
}

func (r *PrefixResolver) Name() string { return "prefix" }

func (r *PrefixResolver) Resolve(ctx context.Context, s settings.Settings, reqs []module.Version) (Context, error) {
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return nil, err
	}
	deps := make([]Dependency, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dep, err := r.find(entries, s.Key(), req)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return NewContext(s, deps...), nil
}

func (r *PrefixResolver) find(entries []fs.DirEntry, key string, req module.Version) (Dependency, error) {
	escaped, err := module.EscapePath(req.Path)
	if err != nil {
		return Dependency{}, err
	}
	spec, err := module.ParseSpec(req.Version)
	if err != nil {
		return Dependency{}, err
	}

	var best string
	prefix, suffix := escaped+"@", "-"+key
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		ver := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if ver == "" || !spec.Match(ver) {
			continue
		}
		if best == "" || module.CompareVersions(ver, best) > 0 {
			best = ver
		}
	}
	if best == "" {
		return Dependency{}, fmt.Errorf("package %s for %s not installed in %s: %w", req, key, r.Root, fs.ErrNotExist)
	}

	root := filepath.Join(r.Root, prefix+best+suffix)
	log.Debugf("resolve: %s -> %s", req, root)
	dep := Dependency{Name: req.Path, Version: best, Root: root}
	if dir := filepath.Join(root, "include"); isDir(dir) {
		dep.IncludeDirs = []string{dir}
	}
	if dir := filepath.Join(root, "lib"); isDir(dir) {
		dep.LibDirs = []string{dir}
		dep.Libs, err = libNames(dir)
		if err != nil {
			return Dependency{}, err
		}
	}
	if dir := filepath.Join(root, "bin"); isDir(dir) {
		dep.BinDirs = []string{dir}
	}
	return dep, nil
}

// libNames lists the link names of the libraries in dir: libfoo.a,
// libfoo.so.1 and foo.lib all yield "foo".
func libNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := libName(e.Name()); name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func libName(file string) string {
	if base, ok := strings.CutSuffix(file, ".lib"); ok {
		return base
	}
	base, ok := strings.CutPrefix(file, "lib")
	if !ok {
		return ""
	}
	for _, ext := range []string{".a", ".dylib", ".so"} {
		if i := strings.Index(base, ext); i > 0 && (i+len(ext) == len(base) || base[i+len(ext)] == '.') {
			return base[:i]
		}
	}
	return ""
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
