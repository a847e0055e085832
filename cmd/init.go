package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

// defaultConfig mirrors the viper keys so the generated file documents every
// tunable with its current default.
type defaultConfig struct {
	Version int `yaml:"version"`
	Run     struct {
		Mutate          string `yaml:"mutate"`
		MutationJobs    uint   `yaml:"mutation_jobs"`
		MutationTimeout string `yaml:"mutation_timeout"`
		ShowProgress    bool   `yaml:"show_progress"`
	} `yaml:"run"`
	Output struct {
		JSON bool `yaml:"json"`
	} `yaml:"output"`
	Log struct {
		Filename   string `yaml:"filename"`
		Level      int    `yaml:"level"`
		Verbose    bool   `yaml:"verbose"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
}

func currentDefaults() defaultConfig {
	var cfg defaultConfig

	cfg.Version = currentConfigVersion
	cfg.Run.Mutate = viper.GetString(mutateConfigKey)
	cfg.Run.MutationJobs = viper.GetUint(mutationJobsConfigKey)
	cfg.Run.MutationTimeout = viper.GetDuration(mutationTimeoutConfigKey).String()
	cfg.Run.ShowProgress = viper.GetBool(showProgressConfigKey)
	cfg.Output.JSON = viper.GetBool(jsonConfigKey)
	cfg.Log.Filename = viper.GetString(logFilenameKey)
	cfg.Log.Level = viper.GetInt(logLevelKey)
	cfg.Log.Verbose = viper.GetBool(logVerboseKey)
	cfg.Log.MaxSize = viper.GetInt(logMaxSizeKey)
	cfg.Log.MaxBackups = viper.GetInt(logMaxBackupsKey)
	cfg.Log.MaxAge = viper.GetInt(logMaxAgeKey)
	cfg.Log.Compress = viper.GetBool(logCompressKey)

	return cfg
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default smite.yaml configuration file",
		Long: `Create a smite.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if _, err := os.Stat(targetPath); err == nil {
				return fmt.Errorf("config file %s already exists", targetPath)
			}

			encoded, err := yaml.Marshal(currentDefaults())
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			if err := os.WriteFile(targetPath, encoded, 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
