// Package buildsys holds what the build-system generators share.
package buildsys

import (
	"fmt"
	"strings"

	"github.com/goplus/recipe/settings"
)

// compilerIDs maps compiler setting names to the ids CMake reports in
// CMAKE_<LANG>_COMPILER_ID.
var compilerIDs = map[string]string{
	"gcc":         "GNU",
	"clang":       "Clang",
	"apple-clang": "AppleClang",
	"msvc":        "MSVC",
	"intel-cc":    "IntelLLVM",
}

// CompilerID returns the CMake compiler id of c.
func CompilerID(c settings.CompilerInfo) (string, error) {
	id, ok := compilerIDs[c.Name]
	if !ok {
		return "", fmt.Errorf("compiler %q has no known id", c.Name)
	}
	return id, nil
}

// Header returns the banner put at the top of every generated file,
// using comment as the line comment marker.
func Header(comment, kind string) string {
	return fmt.Sprintf("%s Generated by recipe (%s). Do not edit.\n", comment, kind)
}

// Quote returns s as a double-quoted CMake or pkg-config string.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
