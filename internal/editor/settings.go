/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"gofloorplan/internal/config"
	"gofloorplan/internal/geom"
	"gofloorplan/internal/selection"
	"gofloorplan/internal/snap"
)

// Settings are the tunables a Session needs, usually derived from the
// user configuration.
type Settings struct {
	Snap           snap.Options
	Selection      selection.Options
	JoinTolerance  float64
	JointTolerance float64
	UndoLimit      int
	View           geom.View
}

// SettingsFromConfig maps a loaded configuration onto session settings.
func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		Snap: snap.Options{
			Enabled:            cfg.Snap.Enabled,
			Threshold:          cfg.Snap.ThresholdPx,
			Zoom:               cfg.View.Zoom,
			AngleIncrement:     cfg.Snap.AngleIncrement,
			FineAngleIncrement: cfg.Snap.FineAngleIncrement,
			GridSpacing:        cfg.Snap.GridSpacing,
			DistanceIncrement:  cfg.Snap.DistanceIncrement,
			AlignThreshold:     cfg.Snap.AlignThresholdPx,
		},
		Selection:      selection.Options{LinePx: cfg.Selection.LineHitPx, VertexPx: cfg.Selection.VertexHitPx},
		JoinTolerance:  cfg.Topology.JoinTolerance,
		JointTolerance: cfg.Topology.JointTolerance,
		UndoLimit:      cfg.History.UndoLimit,
		View:           geom.View{Zoom: cfg.View.Zoom, PixelsPerUnit: cfg.View.PixelsPerUnit},
	}
}

func DefaultSettings() Settings { return SettingsFromConfig(config.Defaults()) }
