package module

import (
	"fmt"
	"strings"

	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/pkgs/gnu"
	"golang.org/x/mod/semver"
)

// Op is a comparison operator of a range constraint.
type Op string

const (
	OpEQ Op = "="
	OpGT Op = ">"
	OpGE Op = ">="
	OpLT Op = "<"
	OpLE Op = "<="
)

// Constraint is a single "op version" term of a range.
type Constraint struct {
	Op      Op
	Version string
}

// Spec is a parsed version spec. An exact spec has a single OpEQ constraint
// and Range == false.
type Spec struct {
	Range       bool
	Constraints []Constraint
}

// ParseSpec parses an exact version or a bracketed range such as
// "[>=1.0 <2.0]". All constraints of a range must hold.
func ParseSpec(spec string) (Spec, error) {
	if spec == "" {
		return Spec{}, fmt.Errorf("empty version: %w", errs.ErrInvalidRequirement)
	}
	if !strings.HasPrefix(spec, "[") {
		if err := checkVersion(spec); err != nil {
			return Spec{}, err
		}
		return Spec{Constraints: []Constraint{{Op: OpEQ, Version: spec}}}, nil
	}
	if !strings.HasSuffix(spec, "]") {
		return Spec{}, fmt.Errorf("unterminated version range %q: %w", spec, errs.ErrInvalidRequirement)
	}
	fields := strings.Fields(spec[1 : len(spec)-1])
	if len(fields) == 0 {
		return Spec{}, fmt.Errorf("empty version range %q: %w", spec, errs.ErrInvalidRequirement)
	}
	s := Spec{Range: true}
	for _, f := range fields {
		c := parseConstraint(f)
		if err := checkVersion(c.Version); err != nil {
			return Spec{}, fmt.Errorf("version range %q: %w", spec, err)
		}
		s.Constraints = append(s.Constraints, c)
	}
	return s, nil
}

func parseConstraint(term string) Constraint {
	// two-character operators first
	for _, op := range []Op{OpGE, OpLE, OpGT, OpLT, OpEQ} {
		if rest, ok := strings.CutPrefix(term, string(op)); ok {
			return Constraint{Op: op, Version: rest}
		}
	}
	return Constraint{Op: OpEQ, Version: term}
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("empty version: %w", errs.ErrInvalidRequirement)
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '-', c == '+', c == '_', c == '~':
		default:
			return fmt.Errorf("invalid version %q: bad character %q: %w", v, c, errs.ErrInvalidRequirement)
		}
	}
	return nil
}

// Match reports whether version satisfies s.
func (s Spec) Match(version string) bool {
	for _, c := range s.Constraints {
		d := CompareVersions(version, c.Version)
		var ok bool
		switch c.Op {
		case OpEQ:
			ok = d == 0
		case OpGT:
			ok = d > 0
		case OpGE:
			ok = d >= 0
		case OpLT:
			ok = d < 0
		case OpLE:
			ok = d <= 0
		}
		if !ok {
			return false
		}
	}
	return true
}

func (s Spec) String() string {
	if !s.Range && len(s.Constraints) == 1 {
		return s.Constraints[0].Version
	}
	terms := make([]string, len(s.Constraints))
	for i, c := range s.Constraints {
		terms[i] = string(c.Op) + c.Version
	}
	return "[" + strings.Join(terms, " ") + "]"
}

// CompareVersions compares two concrete versions. Versions that are valid
// semantic versions (with or without the leading "v") use semver ordering;
// anything else falls back to GNU version ordering.
func CompareVersions(v1, v2 string) int {
	s1, s2 := canonicalSemver(v1), canonicalSemver(v2)
	if semver.IsValid(s1) && semver.IsValid(s2) {
		return semver.Compare(s1, s2)
	}
	return gnu.Compare(v1, v2)
}

func canonicalSemver(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
