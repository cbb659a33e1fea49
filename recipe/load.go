package recipe

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/qiniu/x/log"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/goplus/recipe/pkgs/errs"
)

// recipeFile is the HCL schema of recipe.hcl:
//
//	name     = "prosoft-core-tests"
//	settings = ["os", "compiler", "build_type", "arch"]
//
//	requires {
//	  catch2        = "3.5.3"
//	  nlohmann_json = "3.11.3"
//	}
//
//	require "fmt" {
//	  version = "[>=10 <11]"
//	}
//
//	generator "cmake_toolchain" {
//	  emit_user_presets = false
//	}
//	generator "cmake_deps" {}
//
//	matrix {
//	  build_type = ["debug", "release"]
//	}
//
// Each attribute of a requires block names a package and its version spec.
// Packages whose names are not HCL identifiers use a require block.
type recipeFile struct {
	Name       string           `hcl:"name,optional"`
	Settings   []string         `hcl:"settings,optional"`
	Requires   []requiresBlock  `hcl:"requires,block"`
	Require    []requireBlock   `hcl:"require,block"`
	Generators []generatorBlock `hcl:"generator,block"`
	Matrix     *matrixBlock     `hcl:"matrix,block"`
}

type requiresBlock struct {
	Refs hcl.Body `hcl:",remain"`
}

type requireBlock struct {
	Name    string `hcl:"name,label"`
	Version string `hcl:"version"`
}

type generatorBlock struct {
	Kind    string   `hcl:"kind,label"`
	Options hcl.Body `hcl:",remain"`
}

type matrixBlock struct {
	Axes hcl.Body `hcl:",remain"`
}

// Load parses the recipe file at path.
func Load(path string) (*Recipe, error) {
	return OpenProject(filepath.Dir(path)).Recipe(filepath.Base(path))
}

// Parse decodes an HCL recipe. Decoding only checks the file's shape; call
// Validate for the descriptor's invariants.
func Parse(filename string, src []byte) (*Recipe, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var rf recipeFile
	if diags := gohcl.DecodeBody(file.Body, nil, &rf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}

	r := &Recipe{
		Name:     rf.Name,
		Settings: rf.Settings,
	}
	for _, b := range rf.Requires {
		list, err := attrs(b.Refs)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: requires: %w", filename, err)
		}
		for _, a := range list {
			spec, err := stringValue(a)
			if err != nil {
				return nil, errs.Config("recipe", fmt.Errorf("%s: requires: package %q: %w", filename, a.Name, err))
			}
			r.Require(a.Name, spec)
		}
	}
	for _, b := range rf.Require {
		r.Require(b.Name, b.Version)
	}
	for _, g := range rf.Generators {
		opts, err := stringAttrs(g.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: generator %q: %w", filename, g.Kind, err)
		}
		r.Generate(g.Kind, opts)
	}
	if rf.Matrix != nil {
		axes, err := listAttrs(rf.Matrix.Axes)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: matrix: %w", filename, err)
		}
		r.Matrix.Require = axes
	}
	log.Debugf("recipe: decoded %s: %d requirements, %d generators", filename, len(r.Requires), len(r.Generators))
	return r, nil
}

// attrs returns the attributes of body in source order.
func attrs(body hcl.Body) ([]*hcl.Attribute, error) {
	m, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	list := make([]*hcl.Attribute, 0, len(m))
	for _, a := range m {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Range.Start.Byte < list[j].Range.Start.Byte
	})
	return list, nil
}

// stringAttrs evaluates every attribute of body as a constant and converts
// it to its string form: true → "true", 3 → "3".
func stringAttrs(body hcl.Body) (map[string]string, error) {
	list, err := attrs(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, a := range list {
		s, err := stringValue(a)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", a.Name, err)
		}
		out[a.Name] = s
	}
	return out, nil
}

func stringValue(a *hcl.Attribute) (string, error) {
	v, diags := a.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil || s.IsNull() || !s.IsKnown() {
		return "", errors.New("want a string, number or bool")
	}
	return s.AsString(), nil
}

// listAttrs evaluates every attribute of body as a list of strings.
func listAttrs(body hcl.Body) (map[string][]string, error) {
	list, err := attrs(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(list))
	for _, a := range list {
		v, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		lv, err := convert.Convert(v, cty.List(cty.String))
		if err != nil || lv.IsNull() || !lv.IsWhollyKnown() {
			return nil, fmt.Errorf("axis %q: want a list of strings", a.Name)
		}
		var vals []string
		for _, e := range lv.AsValueSlice() {
			if e.IsNull() {
				return nil, fmt.Errorf("axis %q: null value", a.Name)
			}
			vals = append(vals, e.AsString())
		}
		out[a.Name] = vals
	}
	return out, nil
}
