// Package cmd provides the root command and CLI setup for smite.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"smite.dev/pkg/smite/internal/adapter"
	"smite.dev/pkg/smite/internal/domain"
	m "smite.dev/pkg/smite/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var solAdapter adapter.SolFileAdapter
var compilerAdapter adapter.CompilerAdapter
var testAdapter adapter.TestRunnerAdapter
var orchestrator domain.Orchestrator

// logFileFlag overrides the log file path for this invocation.
var logFileFlag string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	solAdapter = adapter.NewScannerSolFileAdapter()
	compilerAdapter = adapter.NewForgeCompilerAdapter()
	testAdapter = adapter.NewForgeTestRunnerAdapter()
	orchestrator = domain.NewOrchestrator(fsAdapter, solAdapter, compilerAdapter, testAdapter)
}

const pathsHelp = `Paths may be Solidity files or directories:
  - src/Token.sol  mutate a single contract
  - src            recursively scan a directory
  - . (default)    scan the whole project`

const rootLongDescription = `Smite is a mutation testing tool for Solidity that helps you assess the
quality of your test suite by introducing small changes (mutants) to your
contracts and verifying that your tests catch them.

` + pathsHelp

const runLongDescription = `Run mutation testing for the given paths (default: current project).

` + pathsHelp

const listLongDescription = `List the mutants that would be generated, without compiling or testing them.

` + pathsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smite",
		Short: "Solidity mutation testing tool",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("log-file"), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
