/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Angle helpers. Angles are radians unless a name says Deg.

// AngleOf returns the direction of the vector from a to b in radians, (-π, π].
func AngleOf(a, b Point) float64 { return math.Atan2(b.Y-a.Y, b.X-a.X) }

// Polar returns the point at distance dist from origin in direction rad.
func Polar(origin Point, rad, dist float64) Point {
	return Point{origin.X + dist*math.Cos(rad), origin.Y + dist*math.Sin(rad)}
}

func Deg(rad float64) float64 { return rad * 180 / math.Pi }
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// NormalizeDeg normalizes an angle in degrees to the range [0, 360).
func NormalizeDeg(degrees float64) float64 {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	return degrees
}

// RoundToIncrement rounds v to the nearest multiple of inc.
// A non-positive increment returns v unchanged.
func RoundToIncrement(v, inc float64) float64 {
	if inc <= 0 {
		return v
	}
	return math.Round(v/inc) * inc
}

// ProjectOntoLine returns the orthogonal projection of p onto the infinite
// line through a with direction dir. A zero direction returns a.
func ProjectOntoLine(p, a, dir Point) Point {
	l2 := dir.Dot(dir)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(dir) / l2
	return a.Add(dir.Scale(t))
}

// ProjectOntoSegment clamps the projection of p to the segment ab and returns
// the projected point together with its parameter t in [0,1].
func ProjectOntoSegment(p, a, b Point) (Point, float64) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Lerp(b, t), t
}
