/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package replay

import (
	"fmt"

	"gofloorplan/internal/geom"
)

// Script is a named list of editing steps replayed against a session.
type Script struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Point is a model coordinate written as [x, y].
type Point [2]float64

func (p Point) Geom() geom.Point { return geom.P(p[0], p[1]) }

func (p *Point) geomPtr() *geom.Point {
	if p == nil {
		return nil
	}
	g := p.Geom()
	return &g
}

// Step is one command. Op selects the command; the other fields are its
// arguments and only the ones the command reads are required.
// Ref names the entity a step creates so later steps can refer to it;
// split names both halves through Refs.
type Step struct {
	Op       string   `yaml:"op"`
	Ref      string   `yaml:"ref,omitempty"`
	Refs     []string `yaml:"refs,omitempty"`
	From     *Point   `yaml:"from,omitempty"`
	To       *Point   `yaml:"to,omitempty"`
	At       *Point   `yaml:"at,omitempty"`
	Base     *Point   `yaml:"base,omitempty"`
	Points   []Point  `yaml:"points,omitempty"`
	Name     string   `yaml:"name,omitempty"`
	Kind     string   `yaml:"kind,omitempty"`
	Wall     string   `yaml:"wall,omitempty"`
	Room     string   `yaml:"room,omitempty"`
	Opening  string   `yaml:"opening,omitempty"`
	Walls    []string `yaml:"walls,omitempty"`
	Handle   string   `yaml:"handle,omitempty"`
	Index    int      `yaml:"index,omitempty"`
	Ratio    *float64 `yaml:"ratio,omitempty"`
	Width    float64  `yaml:"width,omitempty"`
	Height   float64  `yaml:"height,omitempty"`
	Size     float64  `yaml:"size,omitempty"`
	Offset   float64  `yaml:"offset,omitempty"`
	Text     string   `yaml:"text,omitempty"`
	Additive bool     `yaml:"additive,omitempty"`
	Zoom     float64  `yaml:"zoom,omitempty"`
	Expect   *Counts  `yaml:"expect,omitempty"`
}

// Counts is the expected document state of an expect step. Nil fields are
// not checked.
type Counts struct {
	Chains     *int `yaml:"chains,omitempty"`
	Walls      *int `yaml:"walls,omitempty"`
	Rooms      *int `yaml:"rooms,omitempty"`
	Openings   *int `yaml:"openings,omitempty"`
	Polylines  *int `yaml:"polylines,omitempty"`
	Texts      *int `yaml:"texts,omitempty"`
	Dimensions *int `yaml:"dimensions,omitempty"`
	Selected   *int `yaml:"selected,omitempty"`
}

// Error reports the step (1-based) that failed.
type Error struct {
	Step int
	Op   string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("step %d (%s): %v", e.Step, e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }
