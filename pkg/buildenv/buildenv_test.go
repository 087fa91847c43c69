package buildenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBuildRoot(t *testing.T) {
	tests := []struct {
		name   string
		marker string
	}{
		{name: "yaml_config", marker: "anvil.yaml"},
		{name: "hcl_config", marker: "anvil.hcl"},
		{name: "rc_file", marker: ".anvilrc"},
		{name: "sentinel", marker: "BUILDROOT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, tt.marker), nil, 0o644))

			nested := filepath.Join(root, "src", "lib")
			require.NoError(t, os.MkdirAll(nested, 0o755))

			assert.Equal(t, root, findBuildRoot(nested))
		})
	}
}

func TestFindBuildRootPrefersNearestAncestor(t *testing.T) {
	outer := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outer, "BUILDROOT"), nil, 0o644))

	inner := filepath.Join(outer, "subrepo")
	require.NoError(t, os.MkdirAll(inner, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inner, "anvil.yaml"), nil, 0o644))

	assert.Equal(t, inner, findBuildRoot(filepath.Join(inner)))
}

func TestFindBuildRootFallsBackToStart(t *testing.T) {
	start := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, os.MkdirAll(start, 0o755))

	assert.Equal(t, start, findBuildRoot(start))
}

func TestDefaultConfigFile(t *testing.T) {
	e := Env{BuildRoot: "/repo"}
	assert.Equal(t, filepath.Join("/repo", "anvil.yaml"), e.DefaultConfigFile())
}

func TestCapture(t *testing.T) {
	env, err := Capture()
	require.NoError(t, err)

	assert.NotEmpty(t, env.BuildRoot)
	assert.NotEmpty(t, env.CacheDir)
	assert.NotEmpty(t, env.ConfigDir)
	assert.NotEmpty(t, env.TempDir)
	assert.Positive(t, env.NumCPUs)
	assert.Equal(t, Version, env.Version)
	assert.Equal(t, filepath.Base(env.CacheDir), "anvil")
	assert.Equal(t, filepath.Base(env.ConfigDir), "anvil")
}
