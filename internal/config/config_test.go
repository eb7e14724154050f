package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PixelBoard/internal/state"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"z", Key{Name: "z"}},
		{"Ctrl+z", Key{Name: "z", Ctrl: true}},
		{"Alt+Ctrl+Left", Key{Name: "Left", Ctrl: true, Alt: true}},
		{" ", Key{Name: " "}},
		{"BackTab", Key{Name: "BackTab"}},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "Ctrl+", "Shift+a", "F13", "é", "ab"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestKeyString(t *testing.T) {
	k, err := ParseKey("Alt+Ctrl+x")
	require.NoError(t, err)
	assert.Equal(t, "Ctrl+Alt+x", k.String())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint16(8888), cfg.Port)
	assert.Equal(t, 64, cfg.SnapshotInterval)
	assert.Empty(t, cfg.Init)

	in, ok := cfg.Keys.Lookup(Key{Name: "z", Ctrl: true})
	require.True(t, ok)
	assert.Equal(t, state.Undo{}, in)

	in, ok = cfg.Keys.Lookup(Key{Name: "Left"})
	require.True(t, ok)
	assert.Equal(t, state.Move{Delta: state.Pos(-1, 0)}, in)

	in, ok = cfg.Keys.Lookup(Key{Name: "3"})
	require.True(t, ok)
	assert.Equal(t, state.SelectColor{Index: 2}, in)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
keys:
  Ctrl+d: draw
  w: {move: {y: -1}}
init:
  - {dip: "#336699"}
  - {mark: rectangle}
  - {move: {x: 2, y: 2}}
  - draw
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(9000), cfg.Port)
	assert.Equal(t, ":8889", cfg.WebSocket)
	assert.Len(t, cfg.Keys, 2)
	assert.Equal(t, Intents{
		state.Dip{Color: state.RGB(0x33, 0x66, 0x99)},
		state.Mark{Kind: state.MarkRectangle},
		state.Move{Delta: state.Pos(2, 2)},
		state.Draw{},
	}, cfg.Init)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelboard.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "record": "",
  "keys": {"Esc": "quit", "Tab": {"tick": 2}},
  "init": [{"background_color": "#000000"}]
}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Record)

	in, ok := cfg.Keys.Lookup(Key{Name: "Tab"})
	require.True(t, ok)
	assert.Equal(t, state.Tick{Delta: 2}, in)
	assert.Equal(t, Intents{state.BackgroundColor{Color: state.Black}}, cfg.Init)
}

func TestLoadRejectsBadIntent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keys:\n  a: {teleport: 1}\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, state.ErrInvalidIntent)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
