package cmake

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/pkgs/buildsys"
	"github.com/goplus/recipe/resolve"
)

// Deps is the cmake_deps generator. It runs after cmake_toolchain and
// takes the compiler identification from the toolchain file.
type Deps struct{}

func (Deps) Kind() string { return "cmake_deps" }

func (Deps) Options() generate.OptionSet {
	return generate.OptionSet{
		generate.Bool("config_files", false, "also write a <name>-config.cmake per dependency"),
	}
}

func (d Deps) Generate(req *generate.Request) error {
	data, err := req.ReadFile(ToolchainFile)
	if err != nil {
		return err
	}
	tc, err := readToolchain(data)
	if err != nil {
		return err
	}

	deps := req.Context.Dependencies()
	var b strings.Builder
	b.WriteString(buildsys.Header("#", d.Kind()))
	fmt.Fprintf(&b, "# Compiler: %s %s\n", tc.compilerID, tc.compilerVersion)
	b.WriteString("\ninclude_guard()\n")
	for _, dep := range deps {
		b.WriteString("\n")
		writeDependency(&b, dep, tc)
	}
	req.Write(DependenciesFile, []byte(b.String()))

	if !req.Options.Bool("config_files") {
		return nil
	}
	for _, dep := range deps {
		var cb strings.Builder
		cb.WriteString(buildsys.Header("#", d.Kind()))
		cb.WriteString("\n")
		writeDependency(&cb, dep, tc)
		fmt.Fprintf(&cb, "set(%s_FOUND TRUE)\n", dep.Name)
		req.Write(dep.Name+"-config.cmake", []byte(cb.String()))
	}
	return nil
}

// toolchainInfo is what cmake_deps needs from toolchain.cmake.
type toolchainInfo struct {
	compilerID      string
	compilerVersion string
}

// readToolchain extracts the compiler identification from a toolchain file
// written by cmake_toolchain.
func readToolchain(data []byte) (toolchainInfo, error) {
	var tc toolchainInfo
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "set(")
		if !ok {
			continue
		}
		name, value, ok := strings.Cut(strings.TrimSuffix(rest, ")"), " ")
		if !ok {
			continue
		}
		switch name {
		case "RECIPE_COMPILER_ID":
			tc.compilerID, _ = strconv.Unquote(value)
		case "RECIPE_COMPILER_VERSION":
			tc.compilerVersion, _ = strconv.Unquote(value)
		}
	}
	if err := sc.Err(); err != nil {
		return tc, err
	}
	if tc.compilerID == "" || tc.compilerVersion == "" {
		return tc, fmt.Errorf("%s does not identify the compiler", ToolchainFile)
	}
	return tc, nil
}

// libraries returns the link items of dep. MSVC links import libraries by
// file name.
func (tc toolchainInfo) libraries(dep resolve.Dependency) []string {
	libs := make([]string, len(dep.Libs))
	for i, l := range dep.Libs {
		if tc.compilerID == "MSVC" && !strings.HasSuffix(l, ".lib") {
			l += ".lib"
		}
		libs[i] = l
	}
	return libs
}

func writeDependency(b *strings.Builder, dep resolve.Dependency, tc toolchainInfo) {
	n := dep.Name
	target := n + "::" + n

	d := defines{}
	d.set(n+"_VERSION", dep.Version)
	d.set(n+"_ROOT", list([]string{dep.Root}))
	d.set(n+"_INCLUDE_DIRS", list(dep.IncludeDirs))
	d.set(n+"_LIB_DIRS", list(dep.LibDirs))
	d.set(n+"_BIN_DIRS", list(dep.BinDirs))
	d.set(n+"_LIBRARIES", strings.Join(tc.libraries(dep), ";"))
	d.set(n+"_DEFINITIONS", strings.Join(dep.Defines, ";"))
	d.set(n+"_LINK_OPTIONS", strings.Join(dep.LinkFlags, ";"))

	fmt.Fprintf(b, "# %s/%s\n", n, dep.Version)
	d.render(b)
	fmt.Fprintf(b, "if(NOT TARGET %s)\n", target)
	fmt.Fprintf(b, "  add_library(%s INTERFACE IMPORTED)\n", target)
	fmt.Fprintf(b, "  set_target_properties(%s PROPERTIES\n", target)
	fmt.Fprintf(b, "    INTERFACE_INCLUDE_DIRECTORIES \"${%s_INCLUDE_DIRS}\"\n", n)
	fmt.Fprintf(b, "    INTERFACE_LINK_DIRECTORIES \"${%s_LIB_DIRS}\"\n", n)
	fmt.Fprintf(b, "    INTERFACE_LINK_LIBRARIES \"${%s_LIBRARIES}\"\n", n)
	fmt.Fprintf(b, "    INTERFACE_COMPILE_DEFINITIONS \"${%s_DEFINITIONS}\"\n", n)
	fmt.Fprintf(b, "    INTERFACE_LINK_OPTIONS \"${%s_LINK_OPTIONS}\")\n", n)
	b.WriteString("endif()\n")
	fmt.Fprintf(b, "list(PREPEND CMAKE_PREFIX_PATH \"${%s_ROOT}\")\n", n)
}
