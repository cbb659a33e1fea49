// Package autotools provides the autotools_deps generator. It writes an
// environment script that points ./configure, make and pkg-config at the
// resolved dependencies.
package autotools

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/pkgs/buildsys"
	"github.com/goplus/recipe/resolve"
	"github.com/goplus/recipe/settings"
)

// ScriptName is the base name of the script written into the build
// directory: recipe-deps.sh, or recipe-deps.bat for windows.
const ScriptName = "recipe-deps"

// Generator is the autotools_deps generator.
type Generator struct{}

func (Generator) Kind() string { return "autotools_deps" }

func (Generator) Options() generate.OptionSet {
	return generate.OptionSet{
		generate.Bool("pkg_config_path", true, "prepend the build directory to PKG_CONFIG_PATH"),
	}
}

// Register adds the autotools_deps generator to reg.
func Register(reg *generate.Registry) error {
	return reg.Register(Generator{})
}

func (g Generator) Generate(req *generate.Request) error {
	rctx := req.Context
	e := newEnv(rctx.Settings())
	for _, dep := range rctx.Dependencies() {
		e.use(dep)
	}
	if req.Options.Bool("pkg_config_path") {
		e.prepend("PKG_CONFIG_PATH", req.BuildDir)
	}
	if e.windows {
		req.Write(ScriptName+".bat", e.renderBat(g.Kind()))
		return nil
	}
	req.Write(ScriptName+".sh", e.renderSh(g.Kind()))
	return nil
}

// env collects environment changes: path lists are prepended to, flag
// lists appended to.
type env struct {
	windows bool
	paths   map[string][]string
	flags   map[string][]string
}

func newEnv(s settings.Settings) *env {
	return &env{
		windows: s.OS == "windows",
		paths:   map[string][]string{},
		flags:   map[string][]string{},
	}
}

func (e *env) prepend(key, value string) {
	e.paths[key] = append([]string{filepath.ToSlash(value)}, e.paths[key]...)
}

func (e *env) appendFlag(key, flag string) {
	e.flags[key] = append(e.flags[key], flag)
}

// use adds dep to the environment.
func (e *env) use(dep resolve.Dependency) {
	if dep.Root != "" {
		e.prepend("CMAKE_PREFIX_PATH", dep.Root)
	}
	for _, dir := range dep.LibDirs {
		e.prepend("PKG_CONFIG_PATH", filepath.Join(dir, "pkgconfig"))
	}
	if e.windows {
		for _, dir := range dep.IncludeDirs {
			e.prepend("INCLUDE", dir)
		}
		for _, dir := range dep.LibDirs {
			e.prepend("LIB", dir)
		}
		for _, d := range dep.Defines {
			e.appendFlag("CL", "/D"+d)
		}
		return
	}
	for _, dir := range dep.IncludeDirs {
		e.appendFlag("CPPFLAGS", "-I"+filepath.ToSlash(dir))
	}
	for _, d := range dep.Defines {
		e.appendFlag("CPPFLAGS", "-D"+d)
	}
	for _, dir := range dep.LibDirs {
		e.appendFlag("LDFLAGS", "-L"+filepath.ToSlash(dir))
	}
	for _, f := range dep.LinkFlags {
		e.appendFlag("LDFLAGS", f)
	}
	for _, l := range dep.Libs {
		e.appendFlag("LIBS", "-l"+l)
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (e *env) renderSh(kind string) []byte {
	var b strings.Builder
	b.WriteString(buildsys.Header("#", kind))
	for _, k := range sortedKeys(e.paths) {
		v := shQuote(strings.Join(e.paths[k], ":"))
		b.WriteString("export " + k + "=" + v + "\"${" + k + ":+:$" + k + "}\"\n")
	}
	for _, k := range sortedKeys(e.flags) {
		v := shQuote(strings.Join(e.flags[k], " "))
		b.WriteString("export " + k + "=\"${" + k + ":+$" + k + " }\"" + v + "\n")
	}
	return []byte(b.String())
}

func (e *env) renderBat(kind string) []byte {
	var b strings.Builder
	b.WriteString("@echo off\r\n")
	b.WriteString(strings.TrimSuffix(buildsys.Header("rem", kind), "\n") + "\r\n")
	for _, k := range sortedKeys(e.paths) {
		v := strings.ReplaceAll(strings.Join(e.paths[k], ";"), "/", `\`)
		b.WriteString("set \"" + k + "=" + v + ";%" + k + "%\"\r\n")
	}
	for _, k := range sortedKeys(e.flags) {
		b.WriteString("set \"" + k + "=%" + k + "% " + strings.Join(e.flags[k], " ") + "\"\r\n")
	}
	return []byte(b.String())
}
