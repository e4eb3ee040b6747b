package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCmd_VersionFlag verifies version output format with
// both long and short flags.
func TestRootCmd_VersionFlag(t *testing.T) {
	version := rootCmd.Version
	t.Cleanup(func() {
		rootCmd.Version = version
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
	rootCmd.Version = "version: v1.2.3\nbuild:   abc123"

	for _, flag := range []string{"--version", "-V"} {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetArgs([]string{flag})

		err := rootCmd.Execute()
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "v1.2.3", flag)
		assert.Contains(t, output, "abc123", flag)
	}
}

// TestRootCmd_Subcommands verifies all pipeline commands are registered.
func TestRootCmd_Subcommands(t *testing.T) {
	var names []string
	for _, v := range rootCmd.Commands() {
		names = append(names, v.Name())
	}
	for _, v := range []string{"extract", "validate", "create", "load", "run", "schedule"} {
		assert.Contains(t, names, v)
	}
}

// TestCommands_Descriptions verifies every command is documented and
// runnable.
func TestCommands_Descriptions(t *testing.T) {
	for _, v := range rootCmd.Commands() {
		if v.Name() == "help" || v.Name() == "completion" {
			continue
		}
		t.Run(v.Name(), func(t *testing.T) {
			assert.NotEmpty(t, v.Short)
			assert.Contains(t, v.Long, "Examples:")
			assert.NotNil(t, v.RunE)
		})
	}
}

func TestValidateCmd_Alias(t *testing.T) {
	cmd := getValidateCmd()
	assert.Equal(t, []string{"transform"}, cmd.Aliases)
}

func TestScheduleCmd_Flags(t *testing.T) {
	cmd := getScheduleCmd()

	cronFlag := cmd.Flags().Lookup("cron")
	require.NotNil(t, cronFlag)
	assert.Equal(t, "c", cronFlag.Shorthand)

	nowFlag := cmd.Flags().Lookup("now")
	require.NotNil(t, nowFlag)
	assert.Equal(t, "false", nowFlag.DefValue)
}
