package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/recipe/settings"
)

var settingsArgs settingsFlags

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the settings matrix",
	Long:  `Settings detects the host settings, applies -s overrides and prints the resulting matrix and its key.`,
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

func init() {
	settingsArgs.register(settingsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	vals, err := settingsArgs.detect()
	if err != nil {
		return err
	}
	s, err := settings.Parse(vals)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, s)
	fmt.Fprintf(out, "key: %s\n", s.Key())
	return nil
}
