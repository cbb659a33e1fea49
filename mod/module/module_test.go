package module

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goplus/recipe/pkgs/errs"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    Version
		wantErr bool
	}{
		{"catch2/3.5.3", Version{Path: "catch2", Version: "3.5.3"}, false},
		{"nlohmann_json/3.11.3", Version{Path: "nlohmann_json", Version: "3.11.3"}, false},
		{"zlib/[>=1.2 <2]", Version{Path: "zlib", Version: "[>=1.2 <2]"}, false},
		{"catch2", Version{}, true},
		{"Catch2/3.5.3", Version{}, true},
		{"-bad/1.0", Version{}, true},
		{"x/1.0", Version{}, true},
		{"catch2/", Version{}, true},
		{"catch2/3.5 3", Version{}, true},
		{"catch2/[>=1.0", Version{}, true},
		{"catch2/[]", Version{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRef(%q) = %v, want error", tt.ref, got)
				}
				if !errors.Is(err, errs.ErrInvalidRequirement) {
					t.Errorf("ParseRef(%q) error = %v, want ErrInvalidRequirement", tt.ref, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q) error = %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %v, want %v", tt.ref, got, tt.want)
			}
			if got.String() != tt.ref {
				t.Errorf("String() = %q, want %q", got.String(), tt.ref)
			}
		})
	}
}

func TestParseSpec(t *testing.T) {
	s, err := ParseSpec("[>=1.0 <2.0]")
	if err != nil {
		t.Fatalf("ParseSpec error = %v", err)
	}
	want := Spec{Range: true, Constraints: []Constraint{{OpGE, "1.0"}, {OpLT, "2.0"}}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("ParseSpec mismatch (-want +got):\n%s", diff)
	}
	if s.String() != "[>=1.0 <2.0]" {
		t.Errorf("String() = %q", s.String())
	}

	exact, err := ParseSpec("3.5.3")
	if err != nil {
		t.Fatalf("ParseSpec error = %v", err)
	}
	if exact.Range || exact.String() != "3.5.3" {
		t.Errorf("exact spec = %+v", exact)
	}
}

func TestSpecMatch(t *testing.T) {
	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		{"3.5.3", "3.5.3", true},
		{"3.5.3", "3.5.4", false},
		{"3.5", "3.5.0", true},
		{"[>=1.0 <2.0]", "1.9.9", true},
		{"[>=1.0 <2.0]", "2.0.0", false},
		{"[>=1.0 <2.0]", "0.9", false},
		{"[>1.2.11]", "1.2.13", true},
		{"[<=1.1.1w]", "1.1.1v", true},
		{"[<=1.1.1w]", "1.1.1x", false},
		{"[3.11.3]", "3.11.3", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec+"@"+tt.version, func(t *testing.T) {
			s, err := ParseSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParseSpec(%q) error = %v", tt.spec, err)
			}
			if got := s.Match(tt.version); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"3.11.3", "3.5.3", 1},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0-rc1", "1.0.0", -1},
		{"1.1.1w", "1.1.1v", 1},
		{"1.2.3.4", "1.2.3.10", -1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.v1, tt.v2); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
		}
	}
}

func TestEscapePath(t *testing.T) {
	got, err := EscapePath("nlohmann_json")
	if err != nil || got != "nlohmann_json" {
		t.Errorf("EscapePath = %q, %v", got, err)
	}
	if _, err := EscapePath("../x"); err == nil {
		t.Errorf("EscapePath(../x) succeeded, want error")
	}
}
