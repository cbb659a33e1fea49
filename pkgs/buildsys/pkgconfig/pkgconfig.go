// Package pkgconfig provides the pkg_config generator, which writes one
// <name>.pc file per resolved dependency into the build directory.
package pkgconfig

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/pkgs/buildsys"
	"github.com/goplus/recipe/resolve"
)

// Generator is the pkg_config generator.
type Generator struct{}

func (Generator) Kind() string { return "pkg_config" }

func (Generator) Options() generate.OptionSet { return nil }

func (g Generator) Generate(req *generate.Request) error {
	for _, dep := range req.Context.Dependencies() {
		req.Write(dep.Name+".pc", PCFile(g.Kind(), dep))
	}
	return nil
}

// Register adds the pkg_config generator to reg.
func Register(reg *generate.Registry) error {
	return reg.Register(Generator{})
}

// PCFile renders the .pc file of dep. Directories under dep.Root are
// written relative to ${prefix}.
func PCFile(kind string, dep resolve.Dependency) []byte {
	var b strings.Builder
	b.WriteString(buildsys.Header("#", kind))
	fmt.Fprintf(&b, "prefix=%s\n", escape(filepath.ToSlash(dep.Root)))
	if len(dep.IncludeDirs) > 0 {
		fmt.Fprintf(&b, "includedir=%s\n", dir(dep.Root, dep.IncludeDirs[0]))
	}
	if len(dep.LibDirs) > 0 {
		fmt.Fprintf(&b, "libdir=%s\n", dir(dep.Root, dep.LibDirs[0]))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", dep.Name)
	fmt.Fprintf(&b, "Description: %s resolved by recipe\n", dep.Name)
	fmt.Fprintf(&b, "Version: %s\n", dep.Version)

	var cflags []string
	for i, d := range dep.IncludeDirs {
		if i == 0 {
			cflags = append(cflags, "-I${includedir}")
			continue
		}
		cflags = append(cflags, "-I"+dir(dep.Root, d))
	}
	for _, d := range dep.Defines {
		cflags = append(cflags, "-D"+d)
	}
	fmt.Fprintf(&b, "Cflags: %s\n", strings.Join(cflags, " "))

	var libs []string
	for i, d := range dep.LibDirs {
		if i == 0 {
			libs = append(libs, "-L${libdir}")
			continue
		}
		libs = append(libs, "-L"+dir(dep.Root, d))
	}
	for _, l := range dep.Libs {
		libs = append(libs, "-l"+l)
	}
	libs = append(libs, dep.LinkFlags...)
	fmt.Fprintf(&b, "Libs: %s\n", strings.Join(libs, " "))
	return []byte(b.String())
}

// dir returns d relative to ${prefix} when it lies under root.
func dir(root, d string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, d); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			if rel == "." {
				return "${prefix}"
			}
			return "${prefix}/" + escape(filepath.ToSlash(rel))
		}
	}
	return escape(filepath.ToSlash(d))
}

// escape protects spaces, which pkg-config treats as separators.
func escape(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}
