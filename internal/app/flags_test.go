package app

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := pflag.NewFlagSet("fire", pflag.ContinueOnError)
	cfg.Bind(fs)

	require.NoError(t, fs.Parse([]string{"--scale=3", "--seed", "9", "--scenario", "valley.hcl", "--hud=0"}))

	assert.Equal(t, "fire", cfg.Sim)
	assert.Equal(t, 3, cfg.Scale)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, "valley.hcl", cfg.Scenario)
	assert.Equal(t, 0, cfg.HUDWidth)
	assert.Equal(t, 30, cfg.TPS)
}
