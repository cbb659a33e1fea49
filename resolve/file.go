package resolve

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goplus/recipe/mod/module"
	"github.com/goplus/recipe/mod/resolution"
	"github.com/goplus/recipe/settings"
)

// FileResolver reads the answer of an external package manager from a
// resolution file. Relative package roots are relative to the file's
// directory.
type FileResolver struct {
	Path string
}

func (r *FileResolver) Name() string { return "resolution-file" }

func (r *FileResolver) Resolve(ctx context.Context, s settings.Settings, reqs []module.Version) (Context, error) {
	f, err := resolution.Parse(r.Path, nil)
	if err != nil {
		return nil, err
	}
	profile, ok := f.Profile(s.Key())
	if !ok {
		return nil, fmt.Errorf("%s has no profile for settings %s", r.Path, s.Key())
	}

	var pkgErrs []error
	for _, req := range reqs {
		if pkg, ok := profile.Packages[req.Path]; ok && pkg != nil {
			for _, msg := range pkg.Errors {
				pkgErrs = append(pkgErrs, fmt.Errorf("%s: %s", req, msg))
			}
		}
	}
	if len(pkgErrs) > 0 {
		return nil, errors.Join(pkgErrs...)
	}

	base := filepath.Dir(r.Path)
	names := make([]string, 0, len(profile.Packages))
	for name := range profile.Packages {
		names = append(names, name)
	}
	slices.Sort(names)

	deps := make([]Dependency, 0, len(names))
	for _, name := range names {
		pkg := profile.Packages[name]
		if pkg == nil {
			continue
		}
		root := pkg.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		deps = append(deps, Dependency{
			Name:        name,
			Version:     pkg.Version,
			Root:        root,
			IncludeDirs: under(root, pkg.IncludeDirs),
			LibDirs:     under(root, pkg.LibDirs),
			BinDirs:     under(root, pkg.BinDirs),
			Libs:        slices.Clone(pkg.Libs),
			Defines:     slices.Clone(pkg.Defines),
			LinkFlags:   slices.Clone(pkg.LinkFlags),
		})
	}
	return NewContext(s, deps...), nil
}

// under makes each relative dir absolute under root.
func under(root string, dirs []string) []string {
	if len(dirs) == 0 {
		return nil
	}
	out := make([]string, len(dirs))
	for i, d := range dirs {
		d = filepath.FromSlash(d)
		if filepath.IsAbs(d) {
			out[i] = d
			continue
		}
		out[i] = filepath.Join(root, strings.TrimPrefix(d, "./"))
	}
	return out
}
