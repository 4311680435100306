// Package config handles loading and parsing wheel configuration files.
package config

import (
	"errors"
	"fmt"
	"luckywheel/internal/anim"
	"luckywheel/internal/notify"
	"luckywheel/internal/pathutil"
	"luckywheel/internal/pick"
	"luckywheel/internal/render"
	"luckywheel/internal/spin"
	"luckywheel/internal/wheel"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks when --config is not given.
const DefaultPath = "./wheel.yaml"

// Config is the top-level wheel configuration.
type Config struct {
	Version    string        `yaml:"version"`
	BaseOffset *float64      `yaml:"base_offset,omitempty"`
	Items      []Item        `yaml:"items"`
	Spin       Spin          `yaml:"spin,omitempty"`
	Target     string        `yaml:"target,omitempty"`
	Seed       *uint64       `yaml:"seed,omitempty"`
	Theme      render.Theme  `yaml:"theme,omitempty"`
	MQTT       notify.Config `yaml:"mqtt,omitempty"`
}

// Item is one slice of the wheel.
type Item struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon,omitempty"`
	Color string `yaml:"color,omitempty"`
}

// UnmarshalYAML accepts a bare scalar as shorthand for a label.
// Allows: - "100" OR - {label: "100", color: "#FF0000"}
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		it.Label = node.Value
		return nil
	}

	type plain Item
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*it = Item(p)
	return nil
}

// Spin holds the animation settings.
type Spin struct {
	Rounds   *int     `yaml:"rounds,omitempty"`
	Duration Duration `yaml:"duration,omitempty"`
	Easing   string   `yaml:"easing,omitempty"`
}

// Duration handles YAML that can be a Go duration string or milliseconds.
// Allows: duration: 5s OR duration: 5000
type Duration time.Duration

// UnmarshalYAML implements custom unmarshaling for flexible YAML input.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}

	if ms, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", node.Line, node.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads and parses a config file from the given path. Relative icon
// paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	expanded := pathutil.Expand(path)

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(expanded)
	for i := range cfg.Items {
		cfg.Items[i].Icon = pathutil.Resolve(dir, cfg.Items[i].Icon)
	}
	cfg.MQTT.CACert = pathutil.Resolve(dir, cfg.MQTT.CACert)
	cfg.MQTT.ClientCert = pathutil.Resolve(dir, cfg.MQTT.ClientCert)
	cfg.MQTT.ClientKey = pathutil.Resolve(dir, cfg.MQTT.ClientKey)

	return cfg, nil
}

// Parse decodes and validates config data. Paths are left as written.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	if c.Version == "" {
		return errors.New("config missing version field")
	}

	if c.Version != "1" {
		return fmt.Errorf("unsupported config version: %s", c.Version)
	}

	if len(c.Items) == 0 {
		return errors.New("config has no items")
	}

	for i, it := range c.Items {
		if strings.TrimSpace(it.Label) == "" {
			return fmt.Errorf("item %d: label cannot be empty", i+1)
		}
		if it.Color != "" {
			if _, err := render.ParseColor(it.Color); err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
		}
	}

	if c.Spin.Rounds != nil && *c.Spin.Rounds < 0 {
		return fmt.Errorf("spin: %w", spin.ErrInvalidRounds)
	}

	if c.Spin.Duration < 0 {
		return errors.New("spin: duration must not be negative")
	}

	if _, err := anim.ParseEasing(c.Spin.Easing); err != nil {
		return fmt.Errorf("spin: %w", err)
	}

	if err := c.Theme.Validate(); err != nil {
		return err
	}

	if _, err := pick.Compile(c.Target); err != nil {
		if unbalanced(c.Target) {
			return fmt.Errorf("target: %w (quote the expression: an unquoted # starts a YAML comment)", err)
		}
		return fmt.Errorf("target: %w", err)
	}

	return nil
}

// unbalanced reports whether src opens more brackets than it closes, the
// usual sign of an expression cut short by a YAML comment.
func unbalanced(src string) bool {
	return strings.Count(src, "(") > strings.Count(src, ")") ||
		strings.Count(src, "[") > strings.Count(src, "]")
}

// WheelItems converts the configured items to model items.
func (c *Config) WheelItems() []wheel.Item {
	items := make([]wheel.Item, len(c.Items))
	for i, it := range c.Items {
		items[i] = wheel.Item{Label: it.Label, Icon: it.Icon, Color: it.Color}
	}
	return items
}

// Model builds a wheel model from the items and base offset.
func (c *Config) Model() *wheel.Model {
	m := wheel.New(c.WheelItems()...)
	if c.BaseOffset != nil {
		m.SetBaseOffset(*c.BaseOffset)
	}
	return m
}

// Rounds returns the configured rounds, or spin.DefaultRounds.
func (c *Config) Rounds() int {
	if c.Spin.Rounds == nil {
		return spin.DefaultRounds
	}
	return *c.Spin.Rounds
}

// Duration returns the configured spin duration, or spin.DefaultDuration.
func (c *Config) Duration() time.Duration {
	if c.Spin.Duration == 0 {
		return spin.DefaultDuration
	}
	return time.Duration(c.Spin.Duration)
}

// Easing returns the configured easing. Validate has already checked it.
func (c *Config) Easing() anim.Easing {
	e, err := anim.ParseEasing(c.Spin.Easing)
	if err != nil {
		return anim.Decelerate
	}
	return e
}

// Picker compiles the target expression, seeded when a seed is configured.
func (c *Config) Picker() (*pick.Picker, error) {
	var opts []pick.Option
	if c.Seed != nil {
		opts = append(opts, pick.WithSeed(*c.Seed))
	}
	return pick.Compile(c.Target, opts...)
}

// Controller builds a model and a controller configured from the file.
func (c *Config) Controller(driver spin.Driver) (*wheel.Model, *spin.Controller, error) {
	m := c.Model()
	ctl := spin.New(m, driver)
	if err := ctl.SetRounds(c.Rounds()); err != nil {
		return nil, nil, err
	}
	ctl.SetDuration(c.Duration())
	ctl.SetEasing(c.Easing())
	return m, ctl, nil
}
