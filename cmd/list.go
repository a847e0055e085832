package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"smite.dev/pkg/smite/internal/controller"
)

var listJSONFlag bool

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List the mutants that would be generated",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			mutants, err := orchestrator.ListMutants(parsePaths(args))
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd, viper.GetBool(jsonConfigKey))

			return ui.DisplayMutants(mutants)
		},
	}

	cmd.Flags().BoolVar(&listJSONFlag, jsonFlagName, viper.GetBool(jsonConfigKey), "emit the mutant list as JSON")
	bindFlagToConfig(cmd.Flags().Lookup(jsonFlagName), jsonConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
