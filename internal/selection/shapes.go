/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package selection

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
)

// TextBounds estimates the model-space box of a text label using the
// fixed-metric basicfont face, scaled so that one line is Size units tall.
// Multi-line content stacks lines downward from Position.
func TextBounds(t domain.Text) geom.Rect {
	face := basicfont.Face7x13
	lineH := float64(face.Height)
	scale := 1.0
	if t.Size > 0 {
		scale = t.Size / lineH
	}
	lines := strings.Split(t.Content, "\n")
	var maxW float64
	for _, ln := range lines {
		adv := font.MeasureString(face, ln)
		if w := float64(adv) / 64; w > maxW {
			maxW = w
		}
	}
	w := maxW * scale
	h := lineH * scale * float64(len(lines))
	return geom.Rect{Min: t.Position, Max: geom.Point{X: t.Position.X + w, Y: t.Position.Y + h}}
}

// OpeningPolygon returns the footprint of an opening on its host wall: a
// rectangle centered at the opening's ratio, Width long along the wall and
// as thick as the wall. A zero-length host falls back to the X axis.
func OpeningPolygon(o domain.Opening, host domain.Wall) []geom.Point {
	c := host.PointAt(o.Ratio)
	dir := host.Direction().Unit()
	if dir == (geom.Point{}) {
		dir = geom.Point{X: 1}
	}
	n := dir.Perp()
	along := dir.Scale(o.Width / 2)
	across := n.Scale(host.Width / 2)
	return []geom.Point{
		c.Sub(along).Sub(across),
		c.Add(along).Sub(across),
		c.Add(along).Add(across),
		c.Sub(along).Add(across),
	}
}
