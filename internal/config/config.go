/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Config is the user-editable configuration persisted to a YAML file in the
// user scope. Environment variables are read-only overrides applied at load.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type SnapConfig struct {
	Enabled            bool    `yaml:"enabled"`
	ThresholdPx        float64 `yaml:"threshold_px"`
	AngleIncrement     float64 `yaml:"angle_increment"`
	FineAngleIncrement float64 `yaml:"fine_angle_increment"`
	GridSpacing        float64 `yaml:"grid_spacing"`
	DistanceIncrement  float64 `yaml:"distance_increment"`
	AlignThresholdPx   float64 `yaml:"align_threshold_px"`
}

type TopologyConfig struct {
	JoinTolerance  float64 `yaml:"join_tolerance"`
	JointTolerance float64 `yaml:"joint_tolerance"`
}

type HistoryConfig struct {
	UndoLimit int `yaml:"undo_limit"`
}

type SelectionConfig struct {
	LineHitPx   float64 `yaml:"line_hit_px"`
	VertexHitPx float64 `yaml:"vertex_hit_px"`
}

type ViewConfig struct {
	Zoom          float64 `yaml:"zoom"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type Config struct {
	ConfigVersion int             `yaml:"config_version"`
	Snap          SnapConfig      `yaml:"snap"`
	Topology      TopologyConfig  `yaml:"topology"`
	History       HistoryConfig   `yaml:"history"`
	Selection     SelectionConfig `yaml:"selection"`
	View          ViewConfig      `yaml:"view"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() Config {
	return Config{
		ConfigVersion: 1,
		Snap: SnapConfig{
			Enabled:           true,
			ThresholdPx:       10,
			AngleIncrement:    45,
			GridSpacing:       12,
			DistanceIncrement: 12,
			AlignThresholdPx:  10,
		},
		Topology:  TopologyConfig{JoinTolerance: 1, JointTolerance: 1},
		History:   HistoryConfig{UndoLimit: 50},
		Selection: SelectionConfig{LineHitPx: 10, VertexHitPx: 15},
		View:      ViewConfig{Zoom: 1, PixelsPerUnit: 1},
		Logging:   LoggingConfig{Level: "info", Format: "console"},
	}
}

// ErrInvalid is returned when a config file does not match the schema.
var ErrInvalid = errors.New("invalid config")

//go:embed schema.json
var schemaJSON []byte

// Env var names used as overrides.
const (
	EnvSnapEnabled    = "FLOORPLAN_SNAP_ENABLED"
	EnvSnapThreshold  = "FLOORPLAN_SNAP_THRESHOLD_PX"
	EnvAngleIncrement = "FLOORPLAN_SNAP_ANGLE_INCREMENT"
	EnvGridSpacing    = "FLOORPLAN_GRID_SPACING"
	EnvJoinTolerance  = "FLOORPLAN_JOIN_TOLERANCE"
	EnvJointTolerance = "FLOORPLAN_JOINT_TOLERANCE"
	EnvUndoLimit      = "FLOORPLAN_UNDO_LIMIT"
	EnvPixelsPerUnit  = "FLOORPLAN_PIXELS_PER_UNIT"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "FLOORPLAN_LOG_LEVEL"
	EnvLogFormat = "FLOORPLAN_LOG_FORMAT"
	EnvLogSource = "FLOORPLAN_LOG_SOURCE"
	EnvLogFile   = "FLOORPLAN_LOG_FILE"
)

// override binds a config key to its env var. apply returns false when the
// value cannot be parsed, in which case the field is left alone.
type override struct {
	key   string
	env   string
	apply func(cfg *Config, v string) bool
}

var overrides = []override{
	{"snap.enabled", EnvSnapEnabled, func(c *Config, v string) bool { c.Snap.Enabled = truthy(v); return true }},
	{"snap.threshold_px", EnvSnapThreshold, floatField(func(c *Config) *float64 { return &c.Snap.ThresholdPx })},
	{"snap.angle_increment", EnvAngleIncrement, floatField(func(c *Config) *float64 { return &c.Snap.AngleIncrement })},
	{"snap.grid_spacing", EnvGridSpacing, floatField(func(c *Config) *float64 { return &c.Snap.GridSpacing })},
	{"topology.join_tolerance", EnvJoinTolerance, floatField(func(c *Config) *float64 { return &c.Topology.JoinTolerance })},
	{"topology.joint_tolerance", EnvJointTolerance, floatField(func(c *Config) *float64 { return &c.Topology.JointTolerance })},
	{"history.undo_limit", EnvUndoLimit, func(c *Config, v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return false
		}
		c.History.UndoLimit = n
		return true
	}},
	{"view.pixels_per_unit", EnvPixelsPerUnit, floatField(func(c *Config) *float64 { return &c.View.PixelsPerUnit })},
	{"logging.level", EnvLogLevel, func(c *Config, v string) bool { c.Logging.Level = strings.ToLower(v); return true }},
	{"logging.format", EnvLogFormat, func(c *Config, v string) bool { c.Logging.Format = strings.ToLower(v); return true }},
	{"logging.source", EnvLogSource, func(c *Config, v string) bool { c.Logging.Source = truthy(v); return true }},
	{"logging.file", EnvLogFile, func(c *Config, v string) bool { c.Logging.File = v; return true }},
}

func floatField(field func(*Config) *float64) func(*Config, string) bool {
	return func(c *Config, v string) bool {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return false
		}
		*field(c) = f
		return true
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoFloorplan")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoFloorplan")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "gofloorplan")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "gofloorplan")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults and merges
// environment overrides.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults;
// a file that fails to parse or validate is an error and the returned value
// is the defaults with env overrides.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		fileCfg, err := Parse(data)
		if err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = fileCfg
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Parse validates YAML config bytes against the schema and decodes them over
// the defaults, so omitted keys keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := Validate(data); err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("decode: %w", err)
	}
	normalize(&cfg)
	return cfg, nil
}

// Validate checks YAML config bytes against the embedded JSON schema. Each
// violation is listed in the returned error, which wraps ErrInvalid.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	return validateAgainst(schemaJSON, doc)
}

func validateAgainst(schema []byte, doc any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
}

// Save writes cfg as YAML to path, or to ConfigPath when path is empty.
func Save(cfg Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func applyEnvOverrides(cfg *Config) {
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			o.apply(cfg, v)
		}
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by
// environment variables.
func EnvOverrideFor(key string) (string, bool) {
	for _, o := range overrides {
		if o.key == key && os.Getenv(o.env) != "" {
			return o.env, true
		}
	}
	return "", false
}

// OverrideKeys lists the config keys that can be set from the environment.
func OverrideKeys() []string {
	keys := make([]string, len(overrides))
	for i, o := range overrides {
		keys[i] = o.key
	}
	return keys
}
