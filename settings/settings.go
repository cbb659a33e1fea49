// Package settings models the settings matrix of a build: the operating
// system, compiler, build type and architecture a set of binaries is built
// for.
//
// Every axis must be given explicitly. There are no defaults: binaries are
// keyed by the full matrix, so an axis silently filled in by the tool would
// select the wrong artifacts.
package settings

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/goplus/recipe/pkgs/errs"
)

// Axis names one dimension of the settings matrix.
type Axis string

const (
	OS        Axis = "os"
	Compiler  Axis = "compiler"
	BuildType Axis = "build_type"
	Arch      Axis = "arch"
)

// Compiler ABI sub-settings. They are optional.
const (
	CompilerLibcxx = "compiler.libcxx"
	CompilerCppstd = "compiler.cppstd"
)

// Axes returns the fixed ordered set of axes every matrix carries.
func Axes() []Axis {
	return []Axis{OS, Compiler, BuildType, Arch}
}

// IsAxis reports whether name is one of the four matrix axes.
func IsAxis(name string) bool {
	return slices.Contains(Axes(), Axis(name))
}

// CompilerInfo identifies a compiler and its ABI.
type CompilerInfo struct {
	Name    string // "gcc", "clang", "apple-clang", "msvc", "intel-cc"
	Version string // "11", "17.0", "193"
	Libcxx  string // optional: "libstdc++11", "libc++", ...
	Cppstd  string // optional: "17", "gnu20", ...
}

// String returns the "name-version" form used as the compiler axis value.
func (c CompilerInfo) String() string {
	return c.Name + "-" + c.Version
}

// ParseCompiler parses a compiler axis value such as "gcc-11" or
// "apple-clang-15".
func ParseCompiler(s string) (CompilerInfo, error) {
	i := strings.LastIndexByte(s, '-')
	if i <= 0 || i == len(s)-1 {
		return CompilerInfo{}, fmt.Errorf("compiler %q: want name-version: %w", s, errs.ErrInvalidSetting)
	}
	c := CompilerInfo{Name: s[:i], Version: s[i+1:]}
	if err := checkCompiler(c.Name, c.Version); err != nil {
		return CompilerInfo{}, err
	}
	return c, nil
}

// Settings is one point of the settings matrix. Treat it as immutable:
// components receive it by value and never read host state themselves.
type Settings struct {
	OS        string
	Compiler  CompilerInfo
	BuildType string
	Arch      string
}

// Parse builds Settings from axis values. All four axes must be present;
// compiler.libcxx and compiler.cppstd are optional.
func Parse(values map[string]string) (Settings, error) {
	for k := range values {
		if !IsAxis(k) && k != CompilerLibcxx && k != CompilerCppstd {
			return Settings{}, errs.Config("settings", fmt.Errorf("%w: %q", errs.ErrUnknownSetting, k))
		}
	}
	var missing []string
	for _, a := range Axes() {
		if values[string(a)] == "" {
			missing = append(missing, string(a))
		}
	}
	if len(missing) > 0 {
		return Settings{}, errs.Config("settings", fmt.Errorf("%w: %s", errs.ErrMissingSetting, strings.Join(missing, ", ")))
	}

	c, err := ParseCompiler(values[string(Compiler)])
	if err != nil {
		return Settings{}, errs.Config("settings", err)
	}
	c.Libcxx = values[CompilerLibcxx]
	c.Cppstd = values[CompilerCppstd]

	s := Settings{
		OS:        values[string(OS)],
		Compiler:  c,
		BuildType: values[string(BuildType)],
		Arch:      values[string(Arch)],
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every axis is set and within its domain.
func (s Settings) Validate() error {
	check := func(axis Axis, v string, domain []string) error {
		if v == "" {
			return fmt.Errorf("%w: %s", errs.ErrMissingSetting, axis)
		}
		if !slices.Contains(domain, v) {
			return fmt.Errorf("%w: %s=%q not in %v", errs.ErrInvalidSetting, axis, v, domain)
		}
		return nil
	}
	if err := check(OS, s.OS, OSes); err != nil {
		return errs.Config("settings", err)
	}
	if s.Compiler.Name == "" || s.Compiler.Version == "" {
		return errs.Config("settings", fmt.Errorf("%w: %s", errs.ErrMissingSetting, Compiler))
	}
	if err := checkCompiler(s.Compiler.Name, s.Compiler.Version); err != nil {
		return errs.Config("settings", err)
	}
	if err := check(BuildType, s.BuildType, BuildTypes); err != nil {
		return errs.Config("settings", err)
	}
	if err := check(Arch, s.Arch, Arches); err != nil {
		return errs.Config("settings", err)
	}
	if s.Compiler.Libcxx != "" && !slices.Contains(Libcxxs, s.Compiler.Libcxx) {
		return errs.Config("settings", fmt.Errorf("%w: %s=%q not in %v", errs.ErrInvalidSetting, CompilerLibcxx, s.Compiler.Libcxx, Libcxxs))
	}
	if s.Compiler.Cppstd != "" && !slices.Contains(Cppstds, s.Compiler.Cppstd) {
		return errs.Config("settings", fmt.Errorf("%w: %s=%q not in %v", errs.ErrInvalidSetting, CompilerCppstd, s.Compiler.Cppstd, Cppstds))
	}
	return nil
}

// Map returns the settings as axis → value pairs, including the ABI
// sub-settings that are set.
func (s Settings) Map() map[string]string {
	m := map[string]string{
		string(OS):        s.OS,
		string(Compiler):  s.Compiler.String(),
		string(BuildType): s.BuildType,
		string(Arch):      s.Arch,
	}
	if s.Compiler.Libcxx != "" {
		m[CompilerLibcxx] = s.Compiler.Libcxx
	}
	if s.Compiler.Cppstd != "" {
		m[CompilerCppstd] = s.Compiler.Cppstd
	}
	return m
}

// Key returns the matrix key of s: the values joined with "-" in
// alphabetical key order, e.g. "x86_64-release-gcc-11-linux".
func (s Settings) Key() string {
	m := s.Map()
	keys := slices.Sorted(maps.Keys(m))
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}
	return strings.Join(vals, "-")
}

func (s Settings) String() string {
	m := s.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// axes first in their fixed order, sub-settings after
	sort.SliceStable(keys, func(i, j int) bool {
		return rank(keys[i]) < rank(keys[j]) || rank(keys[i]) == rank(keys[j]) && keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, " ")
}

func rank(key string) int {
	if i := slices.Index(Axes(), Axis(key)); i >= 0 {
		return i
	}
	return len(Axes())
}

// Overlay applies "key=value" overrides on top of base and returns the
// merged values. base is not modified.
func Overlay(base map[string]string, overrides []string) (map[string]string, error) {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string)
	}
	for _, o := range overrides {
		k, v, ok := strings.Cut(o, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, errs.Config("settings", fmt.Errorf("%w: malformed override %q, want key=value", errs.ErrInvalidSetting, o))
		}
		out[k] = v
	}
	return out, nil
}
