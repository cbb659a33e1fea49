package settings

import (
	"fmt"
	"strings"

	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/pkgs/gnu"
)

// Value domains of the matrix axes.
var (
	OSes       = []string{"linux", "macos", "windows", "freebsd", "android", "ios"}
	Arches     = []string{"x86", "x86_64", "armv7", "armv8", "riscv64", "ppc64le", "s390x", "wasm"}
	BuildTypes = []string{"debug", "release", "relwithdebinfo", "minsizerel"}
	Libcxxs    = []string{"libstdc++", "libstdc++11", "libc++", "static", "dynamic"}
	Cppstds    = []string{"11", "14", "17", "20", "23", "gnu11", "gnu14", "gnu17", "gnu20", "gnu23"}
)

// versionRange bounds the versions known for a compiler. Max bounds the
// major version only, so "11.4" is accepted when Max is "14".
type versionRange struct {
	Min, Max string
}

// Compilers maps each known compiler to its supported versions.
var Compilers = map[string]versionRange{
	"gcc":         {Min: "4.8", Max: "14"},
	"clang":       {Min: "3.3", Max: "19"},
	"apple-clang": {Min: "10", Max: "16"},
	"msvc":        {Min: "190", Max: "194"},
	"intel-cc":    {Min: "2021", Max: "2024"},
}

func checkCompiler(name, version string) error {
	r, ok := Compilers[name]
	if !ok {
		return fmt.Errorf("%w: unknown compiler %q", errs.ErrInvalidSetting, name)
	}
	if !isNumericVersion(version) {
		return fmt.Errorf("%w: compiler version %q of %s", errs.ErrInvalidSetting, version, name)
	}
	major, _, _ := strings.Cut(version, ".")
	if gnu.Compare(version, r.Min) < 0 || gnu.Compare(major, r.Max) > 0 {
		return fmt.Errorf("%w: %s version %s outside %s..%s", errs.ErrInvalidSetting, name, version, r.Min, r.Max)
	}
	return nil
}

func isNumericVersion(v string) bool {
	if v == "" || v[0] == '.' || v[len(v)-1] == '.' {
		return false
	}
	for i := 0; i < len(v); i++ {
		if (v[i] < '0' || v[i] > '9') && v[i] != '.' {
			return false
		}
	}
	return !strings.Contains(v, "..")
}
