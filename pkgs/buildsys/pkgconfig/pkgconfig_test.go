package pkgconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/pkgs/errs"
	"github.com/goplus/recipe/resolve"
	"github.com/goplus/recipe/settings"
)

func TestPCFile(t *testing.T) {
	dep := resolve.Dependency{
		Name:        "catch2",
		Version:     "3.5.3",
		Root:        "/opt/deps/catch 2",
		IncludeDirs: []string{"/opt/deps/catch 2/include", "/usr/include/extra"},
		LibDirs:     []string{"/opt/deps/catch 2/lib"},
		Libs:        []string{"Catch2Main", "Catch2"},
		Defines:     []string{"CATCH_CONFIG_FAST_COMPILE"},
		LinkFlags:   []string{"-pthread"},
	}
	want := `# Generated by recipe (pkg_config). Do not edit.
prefix=/opt/deps/catch\ 2
includedir=${prefix}/include
libdir=${prefix}/lib

Name: catch2
Description: catch2 resolved by recipe
Version: 3.5.3
Cflags: -I${includedir} -I/usr/include/extra -DCATCH_CONFIG_FAST_COMPILE
Libs: -L${libdir} -lCatch2Main -lCatch2 -pthread
`
	if diff := cmp.Diff(want, string(PCFile("pkg_config", dep))); diff != "" {
		t.Errorf("PCFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate(t *testing.T) {
	s, err := settings.Parse(map[string]string{
		"os": "linux", "compiler": "gcc-11", "build_type": "release", "arch": "x86_64",
	})
	if err != nil {
		t.Fatal(err)
	}
	rctx := resolve.NewContext(s,
		resolve.Dependency{Name: "catch2", Version: "3.5.3", Root: "/opt/catch2"},
		resolve.Dependency{Name: "nlohmann_json", Version: "3.11.3", Root: "/opt/nlohmann_json"},
	)
	reg := generate.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatal(err)
	}
	build := t.TempDir()
	inv := generate.NewInvoker(reg, build, "")
	res, err := inv.Invoke("pkg_config", rctx, nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	want := []string{filepath.Join(build, "catch2.pc"), filepath.Join(build, "nlohmann_json.pc")}
	if diff := cmp.Diff(want, res.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(want[1]); err != nil {
		t.Errorf("stat %s: %v", want[1], err)
	}

	_, err = generate.NewInvoker(reg, t.TempDir(), "").Invoke("pkg_config", rctx, map[string]string{"prefix": "/usr"})
	if !errors.Is(err, errs.ErrUnknownOption) {
		t.Errorf("Invoke() with option error = %v, want ErrUnknownOption", err)
	}
}
