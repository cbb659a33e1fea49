package resolution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `version: 1
profiles:
  x86_64-release-gcc-11-linux:
    packages:
      catch2:
        version: 3.5.3
        root: /opt/pkgs/catch2
        include_dirs: [include]
        lib_dirs: [lib]
        libs: [Catch2Main, Catch2]
      nlohmann_json:
        version: 3.11.3
        root: /opt/pkgs/nlohmann_json
        include_dirs: [include]
`

func TestParse_WithData(t *testing.T) {
	f, err := Parse("resolution.yaml", []byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p, ok := f.Profile("x86_64-release-gcc-11-linux")
	if !ok {
		t.Fatalf("Profile not found")
	}
	want := map[string]*Package{
		"catch2": {
			Version:     "3.5.3",
			Root:        "/opt/pkgs/catch2",
			IncludeDirs: []string{"include"},
			LibDirs:     []string{"lib"},
			Libs:        []string{"Catch2Main", "Catch2"},
		},
		"nlohmann_json": {
			Version:     "3.11.3",
			Root:        "/opt/pkgs/nlohmann_json",
			IncludeDirs: []string{"include"},
		},
	}
	if diff := cmp.Diff(want, p.Packages); diff != "" {
		t.Errorf("Packages mismatch (-want +got):\n%s", diff)
	}
	if _, ok := f.Profile("armv8-debug-clang-17-macos"); ok {
		t.Errorf("Profile(armv8-debug-clang-17-macos) found, want missing")
	}
}

func TestParse_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolution.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Parse(path, nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Profiles) != 1 {
		t.Errorf("len(Profiles) = %d, want 1", len(f.Profiles))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad version", "version: 2\nprofiles: {}\n"},
		{"unknown field", "version: 1\nprofile: {}\n"},
		{"not yaml", "version: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse("resolution.yaml", []byte(tt.data)); err == nil {
				t.Errorf("Parse() succeeded, want error")
			}
		})
	}
	if _, err := Parse(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Errorf("Parse(missing) succeeded, want error")
	}
}
