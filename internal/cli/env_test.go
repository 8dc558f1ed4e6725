package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/hookify/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantLogFormat string
		wantUserDir   string
		args          []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"HOOKIFY_LOG_LEVEL":  "debug",
				"HOOKIFY_LOG_FORMAT": "json",
				"HOOKIFY_USER_DIR":   "/rules",
			},
			args:          []string{},
			wantLogLevel:  "debug",
			wantLogFormat: "json",
			wantUserDir:   "/rules",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"HOOKIFY_LOG_LEVEL":  "debug",
				"HOOKIFY_LOG_FORMAT": "json",
				"HOOKIFY_USER_DIR":   "/rules",
			},
			args:          []string{"--log-level", "error", "--log-format", "text", "--user-dir", "/other"},
			wantLogLevel:  "error",
			wantLogFormat: "text",
			wantUserDir:   "/other",
		},
		"partial environment variable override": {
			envVars: map[string]string{
				"HOOKIFY_LOG_LEVEL": "warn",
			},
			args:          []string{"--log-format", "json"},
			wantLogLevel:  "warn",
			wantLogFormat: "json",
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "info",
			wantLogFormat: "text",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()

			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)

			userDir, err := cmd.Flags().GetString("user-dir")
			require.NoError(t, err)
			assert.Equal(t, tc.wantUserDir, userDir)
		})
	}
}

func TestBindEnvVarsSubcommandFlags(t *testing.T) {
	t.Setenv("HOOKIFY_OUTPUT", "json")
	t.Setenv("HOOKIFY_MATCH", `event == "bash"`)

	cmd := cli.NewRootCmd()

	list, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	output, err := list.Flags().GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "json", output)

	match, err := list.Flags().GetString("match")
	require.NoError(t, err)
	assert.Equal(t, `event == "bash"`, match)
}

func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$HOOKIFY_LOG_LEVEL")

	projectDirFlag := cmd.PersistentFlags().Lookup("project-dir")
	require.NotNil(t, projectDirFlag)
	assert.Contains(t, projectDirFlag.Usage, "$HOOKIFY_PROJECT_DIR")

	load, _, err := cmd.Find([]string{"load"})
	require.NoError(t, err)

	watchFlag := load.Flags().Lookup("watch")
	require.NotNil(t, watchFlag)
	assert.Contains(t, watchFlag.Usage, "$HOOKIFY_WATCH")
}
