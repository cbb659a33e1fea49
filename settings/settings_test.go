package settings

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goplus/recipe/pkgs/errs"
)

func scenario() map[string]string {
	return map[string]string{
		"os":         "linux",
		"compiler":   "gcc-11",
		"build_type": "release",
		"arch":       "x86_64",
	}
}

func TestAxes(t *testing.T) {
	want := []Axis{"os", "compiler", "build_type", "arch"}
	if diff := cmp.Diff(want, Axes()); diff != "" {
		t.Errorf("Axes() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	s, err := Parse(scenario())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Settings{
		OS:        "linux",
		Compiler:  CompilerInfo{Name: "gcc", Version: "11"},
		BuildType: "release",
		Arch:      "x86_64",
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if got, want := s.Key(), "x86_64-release-gcc-11-linux"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if got, want := s.String(), "os=linux compiler=gcc-11 build_type=release arch=x86_64"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParse_MissingAxis(t *testing.T) {
	for _, axis := range Axes() {
		t.Run(string(axis), func(t *testing.T) {
			vals := scenario()
			delete(vals, string(axis))
			_, err := Parse(vals)
			if !errors.Is(err, errs.ErrMissingSetting) {
				t.Fatalf("Parse() without %s error = %v, want ErrMissingSetting", axis, err)
			}
			var ce *errs.ConfigurationError
			if !errors.As(err, &ce) || ce.Component != "settings" {
				t.Errorf("Parse() error = %v, want ConfigurationError from settings", err)
			}
		})
	}
	if _, err := Parse(map[string]string{"os": "linux", "compiler": "gcc-11", "build_type": "", "arch": "x86_64"}); !errors.Is(err, errs.ErrMissingSetting) {
		t.Errorf("empty build_type error = %v, want ErrMissingSetting", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{"os", "os", "plan9", errs.ErrInvalidSetting},
		{"arch", "arch", "amd64", errs.ErrInvalidSetting},
		{"build type case", "build_type", "Release", errs.ErrInvalidSetting},
		{"compiler name", "compiler", "tcc-0.9", errs.ErrInvalidSetting},
		{"compiler no version", "compiler", "gcc", errs.ErrInvalidSetting},
		{"compiler too new", "compiler", "gcc-99", errs.ErrInvalidSetting},
		{"compiler too old", "compiler", "gcc-4.7", errs.ErrInvalidSetting},
		{"compiler bad version", "compiler", "gcc-1x", errs.ErrInvalidSetting},
		{"libcxx", "compiler.libcxx", "libfoo", errs.ErrInvalidSetting},
		{"cppstd", "compiler.cppstd", "98x", errs.ErrInvalidSetting},
		{"unknown key", "os.version", "13", errs.ErrUnknownSetting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := scenario()
			vals[tt.key] = tt.val
			if _, err := Parse(vals); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_SubSettings(t *testing.T) {
	vals := scenario()
	vals["compiler"] = "apple-clang-15"
	vals["compiler.libcxx"] = "libc++"
	vals["compiler.cppstd"] = "17"
	vals["os"] = "macos"
	vals["arch"] = "armv8"
	s, err := Parse(vals)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Compiler.Name != "apple-clang" || s.Compiler.Version != "15" {
		t.Errorf("Compiler = %+v", s.Compiler)
	}
	if got, want := s.Key(), "armv8-release-apple-clang-15-17-libc++-macos"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if got, want := s.String(), "os=macos compiler=apple-clang-15 build_type=release arch=armv8 compiler.cppstd=17 compiler.libcxx=libc++"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCompilerVersions(t *testing.T) {
	for _, c := range []string{"gcc-4.8", "gcc-11.4", "gcc-14", "clang-17", "msvc-193", "intel-cc-2024"} {
		if _, err := ParseCompiler(c); err != nil {
			t.Errorf("ParseCompiler(%q) error = %v", c, err)
		}
	}
}

func TestOverlay(t *testing.T) {
	base := map[string]string{"os": "linux", "arch": "x86_64"}
	got, err := Overlay(base, []string{"compiler=gcc-11", "build_type = release", "arch=armv8"})
	if err != nil {
		t.Fatalf("Overlay() error = %v", err)
	}
	want := map[string]string{"os": "linux", "arch": "armv8", "compiler": "gcc-11", "build_type": "release"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overlay() mismatch (-want +got):\n%s", diff)
	}
	if base["arch"] != "x86_64" {
		t.Errorf("Overlay modified base: %v", base)
	}
	for _, bad := range []string{"compiler", "=gcc-11", "arch="} {
		if _, err := Overlay(nil, []string{bad}); !errors.Is(err, errs.ErrInvalidSetting) {
			t.Errorf("Overlay(%q) error = %v, want ErrInvalidSetting", bad, err)
		}
	}
}

func TestHostDetect(t *testing.T) {
	vals, err := Host{Compiler: "gcc-11"}.Detect()
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if vals["compiler"] != "gcc-11" {
		t.Errorf("compiler = %q, want gcc-11", vals["compiler"])
	}
	if _, ok := vals["build_type"]; ok {
		t.Errorf("build_type detected as %q, want unset", vals["build_type"])
	}
	if _, err := Parse(vals); !errors.Is(err, errs.ErrMissingSetting) {
		t.Errorf("Parse(host) error = %v, want ErrMissingSetting for build_type", err)
	}
}

func TestNormalizeArch(t *testing.T) {
	for in, want := range map[string]string{
		"x86_64":  "x86_64",
		"amd64":   "x86_64",
		"aarch64": "armv8",
		"arm64":   "armv8",
		"i686":    "x86",
		"armv7l":  "armv7",
		"sparc":   "",
	} {
		if got := normalizeArch(in); got != want {
			t.Errorf("normalizeArch(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatic(t *testing.T) {
	p := Static(scenario())
	vals, err := p.Detect()
	if err != nil {
		t.Fatal(err)
	}
	vals["os"] = "windows"
	if p["os"] != "linux" {
		t.Errorf("Static.Detect returned shared map")
	}
}
