/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Basic 2D geometry in model units (inches). Values are float64 so that
// joints stay exact across repeated topology edits.

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a 2D position in model space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func P(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Dot(q Point) float64   { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64  { return math.Hypot(q.X-p.X, q.Y-p.Y) }
func (p Point) Orb() orb.Point        { return orb.Point{p.X, p.Y} }

// FromOrb converts an orb point back into model space.
func FromOrb(o orb.Point) Point { return Point{X: o[0], Y: o[1]} }

// Lerp interpolates from p (t=0) to q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// DistSq is the squared distance; connectivity checks compare against tol*tol.
func (p Point) DistSq(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return dx*dx + dy*dy
}

// Near reports whether q lies within tol of p, without a square root.
func (p Point) Near(q Point, tol float64) bool {
	return p.DistSq(q) <= tol*tol
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }

// Unit returns the normalized vector, or the zero vector for zero length.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Perp returns p rotated 90° counter-clockwise.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Rect is an axis-aligned rectangle stored as normalized min/max corners.
type Rect struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// RectFromCorners builds a normalized rectangle from two opposite corners,
// as produced by a drag from a to b in any direction.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Point   { return Midpoint(r.Min, r.Max) }

// Bound converts to an orb.Bound for use with the planar helpers.
func (r Rect) Bound() orb.Bound {
	return orb.Bound{Min: r.Min.Orb(), Max: r.Max.Orb()}
}

// RectFromBound is the inverse of Rect.Bound.
func RectFromBound(b orb.Bound) Rect {
	return Rect{Min: FromOrb(b.Min), Max: FromOrb(b.Max)}
}

// Contains is inclusive on all edges.
func (r Rect) Contains(p Point) bool { return r.Bound().Contains(p.Orb()) }

// Intersects reports whether two rectangles overlap or touch.
func (r Rect) Intersects(o Rect) bool { return r.Bound().Intersects(o.Bound()) }

// Corners returns the four corners counter-clockwise starting at Min.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

// Pad grows the rectangle by d on every side.
func (r Rect) Pad(d float64) Rect {
	return RectFromBound(r.Bound().Pad(d))
}

// BoundsOf returns the bounding rectangle of the given points.
// An empty slice yields the zero Rect.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	b := pts[0].Orb().Bound()
	for _, p := range pts[1:] {
		b = b.Extend(p.Orb())
	}
	return RectFromBound(b)
}

// Affine represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
type Affine struct{ A, B, C, D, E, F float64 }

var Identity = Affine{A: 1, D: 1}

// Mul returns m·n, i.e. n is applied first.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Invert returns the inverse transform. A singular matrix yields Identity.
func (m Affine) Invert() Affine {
	det := m.A*m.D - m.B*m.C
	if math.Abs(det) < 1e-12 {
		return Identity
	}
	inv := 1 / det
	return Affine{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}
}

func Translate(tx, ty float64) Affine { return Affine{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine     { return Affine{A: sx, D: sy} }
func Rotate(rad float64) Affine {
	c, s := math.Cos(rad), math.Sin(rad)
	return Affine{A: c, B: s, C: -s, D: c}
}
