package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestBuildMapFromStruct(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want map[string]any
	}{
		{
			name: "server",
			typ:  reflect.TypeOf(Server{}),
			want: map[string]any{
				"game": map[string]any{"name": "romy", "stepsPerSecond": int64(60), "players": []any{"nes"}},
				"api": map[string]any{
					"addr":              ":3242",
					"password":          "",
					"noAuth":            false,
					"connectionTimeout": "30s",
					"maxRequestSize":    int64(1048576),
				},
				"metrics": map[string]any{"addr": ""},
			},
		},
		{
			name: "assign skips the pool argument",
			typ:  reflect.TypeOf(Assign{}),
			want: map[string]any{
				"game":   map[string]any{"name": "romy", "stepsPerSecond": int64(60), "players": []any{"nes"}},
				"format": "json",
			},
		},
		{
			name: "proxy",
			typ:  reflect.TypeOf(Proxy{}),
			want: map[string]any{
				"listenAddr":        ":3243",
				"upstreamAddr":      "",
				"connectionTimeout": "30s",
			},
		},
		{
			name: "watch",
			typ:  reflect.TypeOf(Watch{}),
			want: map[string]any{
				"game":  map[string]any{"name": "romy", "stepsPerSecond": int64(60), "players": []any{"nes"}},
				"hold":  int64(8),
				"steps": int64(0),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildMapFromStruct(tt.typ))
		})
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			dest := filepath.Join(dir, "nested", "server."+format)
			c := &ConfigInit{Command: "server", Format: format, Output: dest}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)

			var game map[string]any
			switch format {
			case "json":
				var m map[string]any
				require.NoError(t, json.Unmarshal(data, &m))
				game = m["game"].(map[string]any)
				assert.Equal(t, float64(60), game["stepsPerSecond"])
			case "yaml":
				var m map[string]any
				require.NoError(t, yaml.Unmarshal(data, &m))
				game = m["game"].(map[string]any)
				assert.Equal(t, 60, game["stepsPerSecond"])
			case "toml":
				tree, err := toml.LoadBytes(data)
				require.NoError(t, err)
				game = tree.ToMap()["game"].(map[string]any)
				assert.Equal(t, int64(60), game["stepsPerSecond"])
			}
			assert.Equal(t, "romy", game["name"])
			assert.Equal(t, []any{"nes"}, game["players"])

			err = (&ConfigInit{Command: "server", Format: format, Output: dest}).Run()
			assert.ErrorContains(t, err, "destination exists")
			assert.NoError(t, (&ConfigInit{Command: "server", Format: format, Output: dest, Force: true}).Run())
		})
	}
}

func TestConfigInitErrors(t *testing.T) {
	dir := t.TempDir()
	err := (&ConfigInit{Command: "codegen", Format: "json", Output: filepath.Join(dir, "x.json")}).Run()
	assert.ErrorContains(t, err, "unknown command")

	err = (&ConfigInit{Command: "server", Format: "ini", Output: filepath.Join(dir, "x.ini")}).Run()
	assert.ErrorContains(t, err, "unsupported format")
}

func TestConfigInitDefaultDestination(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, (&ConfigInit{Command: "watch", Format: "yaml"}).Run())
	_, err := os.Stat("watch.yaml")
	assert.NoError(t, err)
}
