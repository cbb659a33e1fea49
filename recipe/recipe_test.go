package recipe

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goplus/recipe/mod/module"
	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/settings"
)

func newRecipe() *Recipe {
	r := &Recipe{
		Name:     "prosoft-core-tests",
		Settings: []string{"os", "compiler", "build_type", "arch"},
	}
	r.Require("catch2", "3.5.3")
	r.Require("nlohmann_json", "3.11.3")
	r.Generate("cmake_toolchain", map[string]string{"emit_user_presets": "false"})
	r.Generate("cmake_deps", nil)
	return r
}

func TestRecipe_SettingsAxes(t *testing.T) {
	r := newRecipe()
	r.Settings = []string{"arch", "build_type", "compiler", "os"}
	got, err := r.SettingsAxes()
	if err != nil {
		t.Fatalf("SettingsAxes() error = %v", err)
	}
	want := []settings.Axis{settings.OS, settings.Compiler, settings.BuildType, settings.Arch}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SettingsAxes() = %v, want %v", got, want)
	}
}

func TestRecipe_SettingsAxesErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings []string
		want     error
	}{
		{"missing arch", []string{"os", "compiler", "build_type"}, errs.ErrMissingSetting},
		{"missing os", []string{"compiler", "build_type", "arch"}, errs.ErrMissingSetting},
		{"none", nil, errs.ErrMissingSetting},
		{"unknown", []string{"os", "compiler", "build_type", "arch", "libc"}, errs.ErrInvalidSetting},
		{"twice", []string{"os", "os", "compiler", "build_type", "arch"}, errs.ErrInvalidSetting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecipe()
			r.Settings = tt.settings
			axes, err := r.SettingsAxes()
			if !errors.Is(err, tt.want) {
				t.Fatalf("SettingsAxes() = %v, %v; want error %v", axes, err, tt.want)
			}
			var ce *errs.ConfigurationError
			if !errors.As(err, &ce) {
				t.Errorf("SettingsAxes() error %T is not a ConfigurationError", err)
			}
		})
	}
}

func TestRecipe_Requirements(t *testing.T) {
	r := newRecipe()
	got, err := r.Requirements()
	if err != nil {
		t.Fatalf("Requirements() error = %v", err)
	}
	want := []module.Version{
		{Path: "catch2", Version: "3.5.3"},
		{Path: "nlohmann_json", Version: "3.11.3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Requirements() = %v, want %v", got, want)
	}

	got[0].Version = "0.0.1"
	if r.Requires[0].Version != "3.5.3" {
		t.Errorf("Requirements() returned a shared slice")
	}
}

func TestRecipe_DuplicateRequirement(t *testing.T) {
	tests := []struct {
		name string
		reqs [][2]string
	}{
		{"different specs", [][2]string{{"catch2", "3.5.3"}, {"catch2", "3.4.0"}}},
		{"same spec", [][2]string{{"catch2", "3.5.3"}, {"catch2", "3.5.3"}}},
		{"range and exact", [][2]string{{"zlib", "[>=1.2 <2]"}, {"nlohmann_json", "3.11.3"}, {"zlib", "1.3.1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecipe()
			r.Requires = nil
			for _, req := range tt.reqs {
				r.Require(req[0], req[1])
			}
			if _, err := r.Requirements(); !errors.Is(err, errs.ErrDuplicateRequirement) {
				t.Errorf("Requirements() error = %v, want ErrDuplicateRequirement", err)
			}
			if err := r.Validate(); !errors.Is(err, errs.ErrDuplicateRequirement) {
				t.Errorf("Validate() error = %v, want ErrDuplicateRequirement", err)
			}
		})
	}
}

func TestRecipe_InvalidRequirement(t *testing.T) {
	r := newRecipe()
	r.Require("fmt", "")
	if _, err := r.Requirements(); !errors.Is(err, errs.ErrInvalidRequirement) {
		t.Errorf("Requirements() error = %v, want ErrInvalidRequirement", err)
	}
}

func TestRecipe_Validate(t *testing.T) {
	if err := newRecipe().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	r := newRecipe()
	r.Generate("", nil)
	if err := r.Validate(); err == nil {
		t.Errorf("Validate() with empty generator kind succeeded")
	}

	r = newRecipe()
	r.Matrix.Require = map[string][]string{"libc": {"glibc"}}
	if err := r.Validate(); !errors.Is(err, errs.ErrInvalidSetting) {
		t.Errorf("Validate() with undeclared matrix axis error = %v, want ErrInvalidSetting", err)
	}
}
