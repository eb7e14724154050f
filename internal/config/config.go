// Package config loads PixelBoard settings: network ports, the session
// record path, key bindings and the init intent list.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"PixelBoard/internal/state"
)

//go:embed default.yaml
var defaultConfig []byte

// Viewport is the size of the rendered window in canvas pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	Port             uint16   `yaml:"port"`
	WebSocket        string   `yaml:"websocket"`
	Record           string   `yaml:"record"`
	Advertise        bool     `yaml:"advertise"`
	SnapshotInterval int      `yaml:"snapshot_interval"`
	Viewport         Viewport `yaml:"viewport"`
	Keys             KeyMap   `yaml:"keys"`
	Init             Intents  `yaml:"init"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		panic(fmt.Sprintf("config: invalid default.yaml: %v", err))
	}
	return &cfg
}

// DefaultPath is ~/.config/pixelboard.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pixelboard.yaml")
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be missing. Keys present in the file replace the
// default key map entirely. JSON files are accepted as well.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	log.Printf("[CONFIG] Loaded %s (%d key bindings, %d init intents)", path, len(cfg.Keys), len(cfg.Init))
	return cfg, nil
}

// KeyMap binds keys to intents.
type KeyMap map[Key]state.Intent

// Lookup returns the intent bound to k.
func (m KeyMap) Lookup(k Key) (state.Intent, bool) {
	in, ok := m[k]
	return in, ok
}

func (m *KeyMap) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(KeyMap, len(raw))
	for name, v := range raw {
		k, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("key %q: %w", name, err)
		}
		in, err := intentFromYAML(v)
		if err != nil {
			return fmt.Errorf("key %q: %w", name, err)
		}
		out[k] = in
	}
	*m = out
	return nil
}

// Intents is the list of intents applied once at startup.
type Intents []state.Intent

func (l *Intents) UnmarshalYAML(node *yaml.Node) error {
	var raw []any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(Intents, 0, len(raw))
	for i, v := range raw {
		in, err := intentFromYAML(v)
		if err != nil {
			return fmt.Errorf("init[%d]: %w", i, err)
		}
		out = append(out, in)
	}
	*l = out
	return nil
}

// intentFromYAML re-encodes a decoded YAML value as JSON so that intents
// share one parser regardless of the config format.
func intentFromYAML(v any) (state.Intent, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return state.ParseIntent(data)
}
