package internal

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/recipe"
	"github.com/goplus/recipe/resolve"
)

var (
	generateFile       string
	generateSettings   settingsFlags
	generateResolution string
	generatePrefix     string
	generateBuildDir   string
	generateSourceDir  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve requirements and run the recipe's generators",
	Long: `Generate validates the recipe, resolves its requirements for the settings matrix
and runs the recipe's generators in order, printing every file written.

Requirements are resolved from a resolution file written by the package manager
(--resolution) or from installed packages under a prefix cache (--prefix, default
$RECIPE_CACHE_DIR). When the recipe declares a matrix, every combination is
generated into its own subdirectory of the build directory, named by its key.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", recipe.FileName, "Recipe file")
	generateSettings.register(generateCmd)
	generateCmd.Flags().StringVar(&generateResolution, "resolution", "", "Resolution file written by the package manager")
	generateCmd.Flags().StringVar(&generatePrefix, "prefix", "", "Directory of installed packages")
	generateCmd.Flags().StringVar(&generateBuildDir, "build-dir", "build", "Directory generated files are written to")
	generateCmd.Flags().StringVar(&generateSourceDir, "source-dir", "", "Directory for files meant for the source tree, such as CMake user presets")
	generateCmd.MarkFlagsMutuallyExclusive("resolution", "prefix")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	r, err := loadRecipe(generateFile)
	if err != nil {
		return err
	}
	reqs, err := r.Requirements()
	if err != nil {
		return err
	}
	vals, err := generateSettings.detect()
	if err != nil {
		return err
	}
	points, err := r.Matrix.Expand(vals)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var resolver resolve.Resolver
	switch {
	case generateResolution != "":
		resolver = &resolve.FileResolver{Path: generateResolution}
	default:
		prefix := generatePrefix
		if prefix == "" {
			prefix = config.CacheDir
		}
		resolver = &resolve.PrefixResolver{Root: prefix}
	}

	sourceDir := generateSourceDir
	if len(points) > 1 && sourceDir != "" {
		log.Warnf("generate: %d matrix points share one source dir; writing source files into each build dir", len(points))
		sourceDir = ""
	}

	ctx := context.Background()
	out := cmd.OutOrStdout()
	for _, s := range points {
		buildDir := generateBuildDir
		if len(points) > 1 {
			buildDir = filepath.Join(buildDir, s.Key())
		}
		log.Infof("generate: %s into %s", s, buildDir)

		rctx, err := resolve.Run(ctx, resolver, s, reqs)
		if err != nil {
			return err
		}
		inv := generate.NewInvoker(reg, buildDir, sourceDir)
		results, err := inv.Run(rctx, r.Generators)
		for _, res := range results {
			for _, f := range res.Files {
				fmt.Fprintln(out, f)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
