package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{" info ", slog.LevelInfo},
		{"-4", slog.LevelDebug},
		{"8", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			require.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	require.Equal(t, uint(defaultMutationJobs), viper.GetUint(mutationJobsConfigKey))
	require.Equal(t, defaultMutationTimeout, viper.GetDuration(mutationTimeoutConfigKey))
	require.False(t, viper.GetBool(showProgressConfigKey))
	require.False(t, viper.GetBool(jsonConfigKey))
	require.Equal(t, currentConfigVersion, viper.GetInt(configVersionKey))
}
