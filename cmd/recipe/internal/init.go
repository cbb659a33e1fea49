package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/spf13/cobra"

	"github.com/goplus/recipe/mod/module"
	"github.com/goplus/recipe/recipe"
)

var initRequires []string

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Initialize a new recipe",
	Long: `Initialize creates a new recipe.hcl in the current directory.

Each --require name/spec, such as catch2/3.5.3, adds a requirement.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringArrayVar(&initRequires, "require", nil, "Requirement as name/spec (repeatable)")
	rootCmd.AddCommand(initCmd)
}

const recipeTemplate = `name     = %q
settings = ["os", "compiler", "build_type", "arch"]

%sgenerator "cmake_toolchain" {
  emit_user_presets = true
}
generator "cmake_deps" {}
`

func runInit(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		name = filepath.Base(wd)
	}
	if err := module.CheckPath(name); err != nil {
		return fmt.Errorf("invalid recipe name: %w", err)
	}

	reqs, err := renderRequires(initRequires)
	if err != nil {
		return err
	}

	recipePath := filepath.Join(".", recipe.FileName)
	if _, err := os.Stat(recipePath); err == nil {
		return fmt.Errorf("%s already exists", recipe.FileName)
	}
	if err := os.WriteFile(recipePath, fmt.Appendf(nil, recipeTemplate, name, reqs), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", recipe.FileName, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized recipe %s\n", name)
	return nil
}

// renderRequires writes refs as a requires block. Names that are not HCL
// identifiers get a require block of their own.
func renderRequires(refs []string) (string, error) {
	var block, extra strings.Builder
	block.WriteString("requires {\n")
	for _, ref := range refs {
		v, err := module.ParseRef(ref)
		if err != nil {
			return "", err
		}
		if hclsyntax.ValidIdentifier(v.Path) {
			fmt.Fprintf(&block, "  %s = %q\n", v.Path, v.Version)
		} else {
			fmt.Fprintf(&extra, "require %q {\n  version = %q\n}\n\n", v.Path, v.Version)
		}
	}
	block.WriteString("}\n\n")
	return block.String() + extra.String(), nil
}
