package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Output     OutputConfig     `json:"output" toml:"output"`
	Filter     FilterConfig     `json:"filter" toml:"filter"`
	Annotation AnnotationConfig `json:"annotation" toml:"annotation"`
	Refs       RefsConfig       `json:"refs" toml:"refs"`
	Passes     PassesConfig     `json:"passes" toml:"passes"`
	Backend    string           `json:"backend" toml:"backend"`   // "gogit" or "cli"
	Renderer   string           `json:"renderer" toml:"renderer"` // "auto", "dot" or "embedded"

	// Source names where the values came from, for diagnostics.
	Source string `json:"-" toml:"-"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Format           string  `json:"format" toml:"format"`
	Graphviz         bool    `json:"graphviz" toml:"graphviz"`
	Processed        bool    `json:"processed" toml:"processed"`
	Viewer           string  `json:"viewer" toml:"viewer"`
	OutFile          string  `json:"outfile" toml:"outfile"`
	Wait             float64 `json:"wait" toml:"wait"` // Seconds
	HistoryDirection string  `json:"historyDirection" toml:"history_direction"`
}

// FilterConfig selects the commits kept in the reduced graph.
type FilterConfig struct {
	Branches     bool `json:"branches" toml:"branches"`
	Tags         bool `json:"tags" toml:"tags"`
	Roots        bool `json:"roots" toml:"roots"`
	Merges       bool `json:"merges" toml:"merges"`
	Bifurcations bool `json:"bifurcations" toml:"bifurcations"`
}

// AnnotationConfig controls node labels.
type AnnotationConfig struct {
	Messages bool `json:"messages" toml:"messages"`
}

// RefsConfig holds ref name globs.
type RefsConfig struct {
	Include []string `json:"include" toml:"include"`
	Exclude []string `json:"exclude" toml:"exclude"`
}

// PassesConfig enables the optional reduction passes run after filtering.
type PassesConfig struct {
	Collapse    bool `json:"collapse" toml:"collapse"`
	ReduceEdges bool `json:"reduceEdges" toml:"reduce_edges"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "svg",
			Wait:   2.0,
		},
		Filter: FilterConfig{
			Branches: true,
			Tags:     true,
			Roots:    true,
		},
		Refs: RefsConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Backend:  "gogit",
		Renderer: "auto",
		Source:   "defaults",
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Refs.Include = append([]string{}, c.Refs.Include...)
	out.Refs.Exclude = append([]string{}, c.Refs.Exclude...)
	return &out
}

var configNames = []string{".git-big-picture.json", ".git-big-picture.toml"}

// LoadConfig loads configuration from a file, merging with defaults.
// Files ending in .toml are decoded as TOML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		var dirs []string
		dirs = append(dirs, ".")
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			dirs = append(dirs, home)
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			dirs = append(dirs, envHome)
		}
	search:
		for _, dir := range dirs {
			for _, name := range configNames {
				p := filepath.Join(dir, name)
				if _, err := os.Stat(p); err == nil {
					path = p
					break search
				}
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Source = "config file " + path
	return cfg, nil
}

// SaveConfig saves configuration to a file in the format given by its suffix.
func SaveConfig(cfg *Config, path string) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
