package internal

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/recipe"
)

var checkFile string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a recipe",
	Long:  `Check validates the recipe's settings, requirements and generator invocations without resolving anything.`,
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", recipe.FileName, "Recipe file")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, err := loadRecipe(checkFile)
	if err != nil {
		return err
	}
	reqs, err := r.Requirements()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d requirement(s), %d generator(s), %d matrix point(s)\n",
		checkFile, len(reqs), len(r.Generators), max(r.Matrix.CombinationCount(), 1))
	return nil
}

// loadRecipe loads and validates the recipe at path, including its
// generator invocations against the built-in generators.
func loadRecipe(path string) (*recipe.Recipe, error) {
	proj := recipe.OpenProject(filepath.Dir(path))
	r, err := proj.Recipe(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}
	if err := generate.NewInvoker(reg, "", "").Check(r.Generators); err != nil {
		return nil, err
	}
	return r, nil
}
