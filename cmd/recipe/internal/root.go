package internal

import (
	"fmt"
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/goplus/recipe/generate"
	"github.com/goplus/recipe/internal/env"
	"github.com/goplus/recipe/pkgs/buildsys/autotools"
	"github.com/goplus/recipe/pkgs/buildsys/cmake"
	"github.com/goplus/recipe/pkgs/buildsys/pkgconfig"
	"github.com/goplus/recipe/settings"
)

var (
	verbose bool
	config  *env.Config
)

var rootCmd = &cobra.Command{
	Use:   "recipe",
	Short: "recipe configures C/C++ builds from a declarative recipe",
	Long: `recipe reads a recipe.hcl, resolves its requirements for one settings matrix
through an external package manager and generates build-system input files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := env.Load()
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = log.Ldebug
		}
		log.SetOutputLevel(cfg.LogLevel)
		config = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "recipe:", err)
		os.Exit(1)
	}
}

// newRegistry returns a registry holding every built-in generator.
func newRegistry() (*generate.Registry, error) {
	reg := generate.NewRegistry()
	for _, register := range []func(*generate.Registry) error{
		cmake.Register,
		pkgconfig.Register,
		autotools.Register,
	} {
		if err := register(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// settingsFlags are the flags selecting the settings matrix.
type settingsFlags struct {
	values    []string
	compiler  string
	buildType string
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.values, "setting", "s", nil, "Set a setting, e.g. -s compiler.cppstd=17 (repeatable)")
	cmd.Flags().StringVar(&f.compiler, "compiler", "", "Compiler as name-version (default $"+env.CompilerEnv+")")
	cmd.Flags().StringVar(&f.buildType, "build-type", "", "Build type: debug, release, relwithdebinfo or minsizerel")
}

// detect reads os and arch from the host and applies the flags on top.
// Nothing else is defaulted: a missing axis is reported by settings.Parse.
func (f *settingsFlags) detect() (map[string]string, error) {
	compiler := f.compiler
	if compiler == "" && config != nil {
		compiler = config.Compiler
	}
	host, err := settings.Host{Compiler: compiler, BuildType: f.buildType}.Detect()
	if err != nil {
		return nil, err
	}
	return settings.Overlay(host, f.values)
}
