package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"smite.dev/pkg/smite/internal/controller"
	"smite.dev/pkg/smite/internal/domain"
)

var runMutateFlag string
var runJobsFlag uint
var runTimeoutFlag = defaultMutationTimeout
var runShowProgressFlag bool
var runJSONFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			showProgress := viper.GetBool(showProgressConfigKey)
			jsonOutput := viper.GetBool(jsonConfigKey)

			ui := newRunUI(cmd, showProgress, jsonOutput)

			if err := ui.Start(cmd.Context()); err != nil {
				return err
			}

			runArgs := domain.RunArgs{
				Paths:         parsePaths(args),
				Mutate:        viper.GetString(mutateConfigKey),
				Jobs:          viper.GetUint(mutationJobsConfigKey),
				MutantTimeout: viper.GetDuration(mutationTimeoutConfigKey),
			}

			if showProgress && !jsonOutput {
				runArgs.Progress = ui.Progress
			}

			report, survived, err := orchestrator.Run(cmd.Context(), runArgs)

			ui.Close(cmd.Context())

			if err != nil {
				return err
			}

			return ui.DisplayRunReport(report, survived)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

// newRunUI picks the progress display: a Bubble Tea bar on terminals when
// progress was requested, plain text everywhere else.
func newRunUI(cmd *cobra.Command, showProgress, jsonOutput bool) controller.UI {
	if showProgress && !jsonOutput && controller.IsTTY(os.Stdout) {
		return controller.NewTUI(cmd)
	}

	return controller.NewSimpleUI(cmd, jsonOutput)
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runMutateFlag, mutateFlagName, viper.GetString(mutateConfigKey), "glob restricting which sources get mutated")
	bindFlagToConfig(cmd.Flags().Lookup(mutateFlagName), mutateConfigKey)

	cmd.Flags().UintVarP(&runJobsFlag, mutationJobsFlagName, "j", viper.GetUint(mutationJobsConfigKey), "number of parallel workers for mutant evaluation")
	bindFlagToConfig(cmd.Flags().Lookup(mutationJobsFlagName), mutationJobsConfigKey)

	cmd.Flags().DurationVar(&runTimeoutFlag, mutationTimeoutFlagName, viper.GetDuration(mutationTimeoutConfigKey), "per-mutant compile+test timeout")
	bindFlagToConfig(cmd.Flags().Lookup(mutationTimeoutFlagName), mutationTimeoutConfigKey)

	cmd.Flags().BoolVar(&runShowProgressFlag, showProgressFlagName, viper.GetBool(showProgressConfigKey), "show incremental progress while mutants are evaluated")
	bindFlagToConfig(cmd.Flags().Lookup(showProgressFlagName), showProgressConfigKey)

	cmd.Flags().BoolVar(&runJSONFlag, jsonFlagName, viper.GetBool(jsonConfigKey), "emit the report as a single JSON document")
	bindFlagToConfig(cmd.Flags().Lookup(jsonFlagName), jsonConfigKey)
}
