// Package module defines the module.Version type along with support code.
//
// A module.Version in a recipe is a requirement: the name of an external
// package plus the version spec the recipe asks for. Specs are either an
// exact version ("3.5.3") or a bracketed range ("[>=1.0 <2.0]"). This package
// only checks and matches specs; choosing a version is left to the package
// manager that resolves the recipe.
package module

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/recipe/pkgs/errs"
)

// A Version (for clients, a module.Version) represents a requirement on a
// package identified by its path.
type Version struct {
	Path    string // Package name (e.g., "catch2")
	Version string // Version spec (e.g., "3.5.3" or "[>=3.0 <4.0]")
}

// String returns the reference form "path/version".
func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "/" + v.Version
}

// Check validates both the path and the version spec of v.
func (v Version) Check() error {
	if err := CheckPath(v.Path); err != nil {
		return err
	}
	if _, err := ParseSpec(v.Version); err != nil {
		return fmt.Errorf("%s: %w", v.Path, err)
	}
	return nil
}

// ParseRef parses a reference in the form "name/spec", such as
// "catch2/3.5.3" or "zlib/[>=1.2 <2]".
func ParseRef(ref string) (Version, error) {
	path, spec, ok := strings.Cut(ref, "/")
	if !ok {
		return Version{}, fmt.Errorf("malformed reference %q: want name/version: %w", ref, errs.ErrInvalidRequirement)
	}
	v := Version{Path: path, Version: spec}
	if err := v.Check(); err != nil {
		return Version{}, err
	}
	return v, nil
}

// CheckPath reports whether path is a valid package name: 2 to 101
// characters of lowercase letters, digits and "_+.-", not starting with
// punctuation other than '_'.
func CheckPath(path string) error {
	if len(path) < 2 || len(path) > 101 {
		return fmt.Errorf("invalid package name %q: length must be 2..101: %w", path, errs.ErrInvalidRequirement)
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
		case i > 0 && (c == '+' || c == '.' || c == '-'):
		default:
			return fmt.Errorf("invalid package name %q: bad character %q: %w", path, c, errs.ErrInvalidRequirement)
		}
	}
	return nil
}

// EscapePath returns the escaped form of the given module path as a valid
// file system path. It fails if the module path is invalid.
func EscapePath(path string) (escaped string, err error) {
	if err := CheckPath(path); err != nil {
		return "", err
	}
	return filepath.Localize(path)
}
