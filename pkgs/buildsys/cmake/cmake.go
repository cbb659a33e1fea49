// Package cmake provides the CMake generators: cmake_toolchain writes the
// toolchain file (and optionally user presets), cmake_deps writes the
// dependency metadata a CMakeLists.txt includes.
package cmake

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/pkgs/buildsys"
)

// File names written into the build directory.
const (
	ToolchainFile    = "toolchain.cmake"
	DependenciesFile = "dependencies.cmake"
	UserPresetsFile  = "CMakeUserPresets.json"
)

// Register adds the CMake generators to reg.
func Register(reg *generate.Registry) error {
	if err := reg.Register(Toolchain{}); err != nil {
		return err
	}
	return reg.Register(Deps{})
}

type defineValue struct {
	value    string
	typeName string
}

// defines is a table of CMake variables rendered as set() calls sorted by
// name, so the same table always renders the same bytes.
type defines map[string]defineValue

func (d defines) set(key, value string) {
	d[key] = defineValue{value: value}
}

func (d defines) cache(key, value, typeName string) {
	d[key] = defineValue{value: value, typeName: typeName}
}

func (d defines) setBool(key string, value bool) {
	if value {
		d[key] = defineValue{value: "ON"}
		return
	}
	d[key] = defineValue{value: "OFF"}
}

func (d defines) render(b *strings.Builder) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		def := d[k]
		if def.typeName != "" {
			b.WriteString("set(" + k + " " + buildsys.Quote(def.value) + " CACHE " + def.typeName + " \"\" FORCE)\n")
			continue
		}
		b.WriteString("set(" + k + " " + buildsys.Quote(def.value) + ")\n")
	}
}

// list joins values into a CMake list, converting paths to forward slashes.
func list(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = filepath.ToSlash(v)
	}
	return strings.Join(out, ";")
}
