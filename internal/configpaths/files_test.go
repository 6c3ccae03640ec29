package configpaths_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romyengine/romy/internal/configpaths"
)

func TestDefaultConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG layout only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "romy"), dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/player")
	dir, err = configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/player", ".config", "romy"), dir)

	p, err := configpaths.DefaultNamedConfigPath("server", "yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/player", ".config", "romy", "server.yaml"), p)
}

func TestConfigCandidatePaths(t *testing.T) {
	tests := []struct {
		user      string
		wantFirst func(j, y, tm []string) string
	}{
		{user: "my.toml", wantFirst: func(_, _, tm []string) string { return tm[0] }},
		{user: "my.yml", wantFirst: func(_, y, _ []string) string { return y[0] }},
		{user: "my.json", wantFirst: func(j, _, _ []string) string { return j[0] }},
		{user: "my.conf", wantFirst: func(j, _, _ []string) string { return j[0] }},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			j, y, tm := configpaths.ConfigCandidatePaths(tt.user)
			assert.Equal(t, tt.user, tt.wantFirst(j, y, tm))
		})
	}

	j, y, tm := configpaths.ConfigCandidatePaths("")
	require.NotEmpty(t, j)
	assert.Equal(t, "romy.json", filepath.Base(j[0]))
	assert.Len(t, y, 2*len(j))
	assert.Len(t, tm, len(j))
}

func TestExt(t *testing.T) {
	assert.Equal(t, "yaml", configpaths.Ext("yml"))
	assert.Equal(t, "toml", configpaths.Ext("toml"))
	assert.Equal(t, "json", configpaths.Ext("anything"))
}
