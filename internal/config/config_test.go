/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeFile(t, `
snap:
  enabled: false
  grid_spacing: 6
history:
  undo_limit: 20
logging:
  level: DEBUG
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.Snap.Enabled)
	assert.Equal(t, 6.0, cfg.Snap.GridSpacing)
	assert.Equal(t, 10.0, cfg.Snap.ThresholdPx, "omitted keys keep defaults")
	assert.Equal(t, 20, cfg.History.UndoLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 15.0, cfg.Selection.VertexHitPx)
}

func TestLoadFileRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown section", "colors:\n  wall: red\n", "colors"},
		{"negative tolerance", "topology:\n  join_tolerance: -1\n", "join_tolerance"},
		{"zero undo limit", "history:\n  undo_limit: 0\n", "undo_limit"},
		{"bad log format", "logging:\n  format: xml\n", "format"},
		{"wrong type", "snap:\n  enabled: sometimes\n", "enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFile(writeFile(t, tt.body))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, Defaults(), cfg)
		})
	}
}

func TestLoadFileMalformedYAML(t *testing.T) {
	_, err := LoadFile(writeFile(t, "snap: [unterminated\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestEmptyFileIsValid(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSnapEnabled, "off")
	t.Setenv(EnvGridSpacing, "24")
	t.Setenv(EnvUndoLimit, "7")
	t.Setenv(EnvJoinTolerance, "not-a-number")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvLogSource, "yes")

	cfg, err := LoadFile(writeFile(t, "snap:\n  grid_spacing: 6\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Snap.Enabled)
	assert.Equal(t, 24.0, cfg.Snap.GridSpacing, "env wins over file")
	assert.Equal(t, 7, cfg.History.UndoLimit)
	assert.Equal(t, 1.0, cfg.Topology.JoinTolerance, "unparsable value is ignored")
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Source)
}

func TestEnvOverrideFor(t *testing.T) {
	t.Setenv(EnvPixelsPerUnit, "2")
	name, ok := EnvOverrideFor("view.pixels_per_unit")
	assert.True(t, ok)
	assert.Equal(t, EnvPixelsPerUnit, name)

	_, ok = EnvOverrideFor("snap.grid_spacing")
	assert.False(t, ok)
	_, ok = EnvOverrideFor("no.such.key")
	assert.False(t, ok)
}

func TestOverrideKeys(t *testing.T) {
	keys := OverrideKeys()
	assert.Contains(t, keys, "history.undo_limit")
	assert.Contains(t, keys, "logging.level")

	t.Setenv(EnvLogFile, "/tmp/x.log")
	for _, k := range keys {
		_, ok := EnvOverrideFor(k)
		assert.Equal(t, k == "logging.file", ok, k)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.Snap.FineAngleIncrement = 15
	cfg.View.PixelsPerUnit = 4
	require.NoError(t, Save(cfg, path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigPathEndsWithFileName(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}
