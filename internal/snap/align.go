/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"

	"gofloorplan/internal/geom"
)

// Orientation of a guide line.
const (
	Vertical   = "vertical"
	Horizontal = "horizontal"
)

// GuideLine is an alignment guide for display: a vertical line at the
// matched X or a horizontal line at the matched Y, spanning from the
// corrected point to the candidate it aligned with.
type GuideLine struct {
	Orientation string
	Position    float64
	From        geom.Point
	To          geom.Point
	Candidate   geom.Point
}

type axisMatch struct {
	found     bool
	dist      float64
	value     float64
	candidate geom.Point
}

func (m *axisMatch) consider(delta, value float64, c geom.Point, tol float64) {
	d := math.Abs(delta)
	if d > tol {
		return
	}
	if !m.found || d < m.dist {
		*m = axisMatch{found: true, dist: d, value: value, candidate: c}
	}
}

func matchAxes(raw geom.Point, candidates []geom.Point, tol float64) (axisMatch, axisMatch) {
	var mx, my axisMatch
	for _, c := range candidates {
		mx.consider(raw.X-c.X, c.X, c, tol)
		my.consider(raw.Y-c.Y, c.Y, c, tol)
	}
	return mx, my
}

// Align snaps raw.X to the closest candidate X and raw.Y to the closest
// candidate Y, each within tol and independently, so the result may combine
// two candidates. The returned candidate is the one to draw a guide to: the
// X match when there is one, otherwise the Y match, or nil.
func Align(raw geom.Point, candidates []geom.Point, tol float64) (geom.Point, *geom.Point) {
	mx, my := matchAxes(raw, candidates, tol)
	p := raw
	var guide *geom.Point
	if my.found {
		p.Y = my.value
		c := my.candidate
		guide = &c
	}
	if mx.found {
		p.X = mx.value
		c := mx.candidate
		guide = &c
	}
	return p, guide
}

// Guides is Align with the full set of guide lines, vertical first.
func Guides(raw geom.Point, candidates []geom.Point, tol float64) (geom.Point, []GuideLine) {
	mx, my := matchAxes(raw, candidates, tol)
	p := raw
	if mx.found {
		p.X = mx.value
	}
	if my.found {
		p.Y = my.value
	}
	var guides []GuideLine
	if mx.found {
		guides = append(guides, GuideLine{
			Orientation: Vertical,
			Position:    mx.value,
			From:        geom.Point{X: mx.value, Y: p.Y},
			To:          mx.candidate,
			Candidate:   mx.candidate,
		})
	}
	if my.found {
		guides = append(guides, GuideLine{
			Orientation: Horizontal,
			Position:    my.value,
			From:        geom.Point{X: p.X, Y: my.value},
			To:          my.candidate,
			Candidate:   my.candidate,
		})
	}
	return p, guides
}

// Correction is the outcome of a full cursor correction.
type Correction struct {
	Result
	// Raw is the cursor before correction.
	Raw geom.Point
	// Guide is the candidate the alignment pass matched, if any.
	Guide *geom.Point
}

// Correct runs Snap and then Align on its output. The order matters: an
// alignment match overrides the snapped coordinate on that axis. With
// snapping disabled the raw cursor passes through untouched.
func Correct(cursor geom.Point, base *geom.Point, geo Geometry, opts Options) Correction {
	res := Snap(cursor, base, geo, opts)
	out := Correction{Result: res, Raw: cursor}
	if !opts.Enabled || opts.AlignThreshold <= 0 {
		return out
	}
	p, guide := Align(res.Point, geo.Candidates(), opts.AlignTolerance())
	out.Point = p
	out.Guide = guide
	return out
}
