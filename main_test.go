package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agentplug/cmd"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "dev", version)
}

func TestSetVersionFromMain(t *testing.T) {
	original := cmd.GetVersion()
	defer cmd.SetVersion(original)

	cmd.SetVersion(version)
	assert.Equal(t, version, cmd.GetVersion())
}
