package cmake

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/pkgs/buildsys"
	"github.com/goplus/recipe/settings"
)

// Toolchain is the cmake_toolchain generator.
type Toolchain struct{}

func (Toolchain) Kind() string { return "cmake_toolchain" }

func (Toolchain) Options() generate.OptionSet {
	return generate.OptionSet{
		generate.Bool("emit_user_presets", true, "also write "+UserPresetsFile),
		generate.String("generator", "Unix Makefiles", "CMake generator named in the presets"),
	}
}

// ToolchainOptions are the typed options of cmake_toolchain.
type ToolchainOptions struct {
	EmitUserPresets bool
	Generator       string
}

func toolchainOptions(opts generate.Options) ToolchainOptions {
	return ToolchainOptions{
		EmitUserPresets: opts.Bool("emit_user_presets"),
		Generator:       opts.String("generator"),
	}
}

var buildTypes = map[string]string{
	"debug":          "Debug",
	"release":        "Release",
	"relwithdebinfo": "RelWithDebInfo",
	"minsizerel":     "MinSizeRel",
}

func (t Toolchain) Generate(req *generate.Request) error {
	opts := toolchainOptions(req.Options)
	s := req.Context.Settings()
	data, err := toolchainFile(t.Kind(), s)
	if err != nil {
		return err
	}
	req.Write(ToolchainFile, data)

	if !opts.EmitUserPresets {
		return nil
	}
	dir := req.SourceDir
	if dir == "" {
		dir = req.BuildDir
	}
	presets, err := userPresets(s, opts.Generator, dir, req.BuildDir)
	if err != nil {
		return err
	}
	req.Write(filepath.Join(dir, UserPresetsFile), presets)
	return nil
}

func toolchainFile(kind string, s settings.Settings) ([]byte, error) {
	id, err := buildsys.CompilerID(s.Compiler)
	if err != nil {
		return nil, err
	}
	buildType, ok := buildTypes[s.BuildType]
	if !ok {
		return nil, fmt.Errorf("build type %q has no CMake name", s.BuildType)
	}

	d := defines{}
	d.set("RECIPE_SETTINGS_KEY", s.Key())
	d.set("RECIPE_COMPILER_ID", id)
	d.set("RECIPE_COMPILER_VERSION", s.Compiler.Version)
	d.set("RECIPE_OS", s.OS)
	d.set("RECIPE_ARCH", s.Arch)
	d.cache("CMAKE_BUILD_TYPE", buildType, "STRING")

	if std := s.Compiler.Cppstd; std != "" {
		ext := strings.HasPrefix(std, "gnu")
		d.set("CMAKE_CXX_STANDARD", strings.TrimPrefix(std, "gnu"))
		d.setBool("CMAKE_CXX_STANDARD_REQUIRED", true)
		d.setBool("CMAKE_CXX_EXTENSIONS", ext)
	}

	var cflags, cxxflags []string
	if f := archFlag(s); f != "" {
		cflags = append(cflags, f)
		cxxflags = append(cxxflags, f)
	}
	if id == "AppleClang" {
		d.set("CMAKE_OSX_ARCHITECTURES", appleArch(s.Arch))
	}
	switch s.Compiler.Libcxx {
	case "libc++":
		if id == "Clang" || id == "AppleClang" {
			cxxflags = append(cxxflags, "-stdlib=libc++")
		}
	case "libstdc++":
		cxxflags = append(cxxflags, "-D_GLIBCXX_USE_CXX11_ABI=0")
	case "libstdc++11":
		cxxflags = append(cxxflags, "-D_GLIBCXX_USE_CXX11_ABI=1")
	case "static":
		d.set("CMAKE_MSVC_RUNTIME_LIBRARY", msvcRuntime(s, false))
	case "dynamic":
		d.set("CMAKE_MSVC_RUNTIME_LIBRARY", msvcRuntime(s, true))
	}
	if len(cflags) > 0 {
		d.cache("CMAKE_C_FLAGS_INIT", strings.Join(cflags, " "), "STRING")
	}
	if len(cxxflags) > 0 {
		d.cache("CMAKE_CXX_FLAGS_INIT", strings.Join(cxxflags, " "), "STRING")
	}

	var b strings.Builder
	b.WriteString(buildsys.Header("#", kind))
	b.WriteString("# Settings: " + s.String() + "\n\n")
	b.WriteString("include_guard()\n\n")
	d.render(&b)
	b.WriteString("\nlist(PREPEND CMAKE_PREFIX_PATH \"${CMAKE_CURRENT_LIST_DIR}\")\n")
	b.WriteString("list(PREPEND CMAKE_MODULE_PATH \"${CMAKE_CURRENT_LIST_DIR}\")\n")
	return []byte(b.String()), nil
}

// archFlag returns the -m flag selecting the word size on gcc-like
// compilers.
func archFlag(s settings.Settings) string {
	if s.Compiler.Name == "msvc" || s.Compiler.Name == "apple-clang" {
		return ""
	}
	switch s.Arch {
	case "x86":
		return "-m32"
	case "x86_64", "ppc64le", "s390x":
		return "-m64"
	}
	return ""
}

func appleArch(arch string) string {
	if arch == "armv8" {
		return "arm64"
	}
	return arch
}

func msvcRuntime(s settings.Settings, dll bool) string {
	rt := "MultiThreaded"
	if s.BuildType == "debug" {
		rt += "Debug"
	}
	if dll {
		rt += "DLL"
	}
	return rt
}

// presets is the subset of the CMakeUserPresets.json schema written here.
type presets struct {
	Version          int               `json:"version"`
	ConfigurePresets []configurePreset `json:"configurePresets"`
	BuildPresets     []buildPreset     `json:"buildPresets"`
}

type configurePreset struct {
	Name           string            `json:"name"`
	DisplayName    string            `json:"displayName"`
	Generator      string            `json:"generator"`
	BinaryDir      string            `json:"binaryDir"`
	ToolchainFile  string            `json:"toolchainFile"`
	CacheVariables map[string]string `json:"cacheVariables"`
}

type buildPreset struct {
	Name            string `json:"name"`
	ConfigurePreset string `json:"configurePreset"`
}

// userPresets renders the presets file written into dir. Paths are
// relative to dir through ${sourceDir} where possible.
func userPresets(s settings.Settings, generator, dir, buildDir string) ([]byte, error) {
	binaryDir := filepath.ToSlash(buildDir)
	if rel, err := filepath.Rel(dir, buildDir); err == nil {
		binaryDir = "${sourceDir}/" + filepath.ToSlash(rel)
		binaryDir = strings.TrimSuffix(binaryDir, "/.")
	}
	name := "recipe-" + s.Key()
	p := presets{
		Version: 3,
		ConfigurePresets: []configurePreset{{
			Name:          name,
			DisplayName:   s.String(),
			Generator:     generator,
			BinaryDir:     binaryDir,
			ToolchainFile: binaryDir + "/" + ToolchainFile,
			CacheVariables: map[string]string{
				"CMAKE_BUILD_TYPE": buildTypes[s.BuildType],
			},
		}},
		BuildPresets: []buildPreset{{Name: name, ConfigurePreset: name}},
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
