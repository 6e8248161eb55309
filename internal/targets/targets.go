// Package targets holds the named watch targets: which feeds, channel and
// social handles belong to a competitor.
package targets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset lists the per-source identifiers of one target. Empty fields mean
// the target has no preset for that source.
type Preset struct {
	RSS       []string `yaml:"rss" json:"rss"`
	YouTube   string   `yaml:"youtube" json:"youtube"`
	Instagram string   `yaml:"instagram" json:"instagram"`
	TikTok    string   `yaml:"tiktok" json:"tiktok"`
}

// Registry resolves target names to presets. Lookups are case-insensitive.
type Registry struct {
	presets map[string]Preset
}

// Builtin returns the presets shipped with the binary.
func Builtin() *Registry {
	return &Registry{presets: map[string]Preset{
		"devfirst": {
			RSS:       []string{"https://dev.to/feed/tag/nestjs", "https://hnrss.org/frontpage"},
			YouTube:   "@googledevelopers",
			Instagram: "devfirst",
		},
		"rivalytics": {
			RSS: []string{"https://dev.to/feed/tag/webdev"},
		},
		"accenture": {
			YouTube:   "UCvDOfCgmS7q4OYMKVpy5Xjw",
			Instagram: "accenture",
			TikTok:    "accenture",
		},
	}}
}

// New builds a registry from explicit presets.
func New(presets map[string]Preset) *Registry {
	r := &Registry{presets: make(map[string]Preset, len(presets))}
	for name, p := range presets {
		r.presets[key(name)] = p
	}
	return r
}

// Load returns the built-in presets overlaid with those of the YAML file at
// path. An empty path yields the built-ins alone.
func Load(path string) (*Registry, error) {
	r := Builtin()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var file struct {
		Targets map[string]Preset `yaml:"targets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}
	if len(file.Targets) == 0 {
		return nil, errors.New("targets file defines no targets")
	}
	for name, p := range file.Targets {
		r.presets[key(name)] = p
	}
	return r, nil
}

// Lookup returns the preset for name, or an empty preset when unknown.
func (r *Registry) Lookup(name string) Preset {
	if r == nil {
		return Preset{}
	}
	return r.presets[key(name)]
}

// Names lists the known target names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	return names
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
