package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FGDES/pdsynth/bisim"
)

func TestRegisterFlagsDefaultsToStrongDirect(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c := RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, c.Resolve())
	assert.Equal(t, Strong, c.Variant)
	assert.Equal(t, Direct, c.Method)
	assert.Equal(t, bisim.Strong, c.BisimVariant())
}

func TestRegisterFlagsParsesVariantAndMethod(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--variant=weak", "--method=saturation", "-v", "2"}))
	require.NoError(t, c.Resolve())
	assert.Equal(t, Weak, c.Variant)
	assert.Equal(t, Saturation, c.Method)
	assert.Equal(t, 2, c.Verbosity)
	assert.Equal(t, bisim.Weak, c.BisimVariant())
}

func TestRegisterFlagsRejectsUnknownVariant(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--variant=bogus"}))
	assert.Error(t, c.Resolve())
}
