package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCmd(t *testing.T) {
	versionCmd := newVersionCmd()

	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotEmpty(t, versionCmd.Long)
	assert.NotNil(t, versionCmd.Run)
}

func TestVersionCommandExecution(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"release", "1.2.3-test", "agentplug version 1.2.3-test\n"},
		{"empty", "", "agentplug version \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.Version = tt.version

			versionCmd := newVersionCmd()
			var buf bytes.Buffer
			versionCmd.SetOut(&buf)
			versionCmd.Run(versionCmd, []string{})

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestVersionCommandHelp(t *testing.T) {
	versionCmd := newVersionCmd()
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.SetErr(&buf)
	versionCmd.SetArgs([]string{"--help"})

	require.NoError(t, versionCmd.Execute())
	assert.Contains(t, buf.String(), "All software has versions")
}
