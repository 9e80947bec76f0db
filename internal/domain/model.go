/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Floor-plan entities. All geometry is stored in model units (inches).
// Entities are plain values: copying a struct never shares mutable state
// except through the slices handled by the Clone methods.

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"gofloorplan/internal/geom"
)

const (
	DefaultWallWidth  = 4.5
	DefaultWallHeight = 96.0
)

// Endpoint names one end of a wall.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

func (e Endpoint) String() string {
	if e == End {
		return "end"
	}
	return "start"
}

// Other returns the opposite endpoint.
func (e Endpoint) Other() Endpoint {
	if e == End {
		return Start
	}
	return End
}

// WallAttributes carries the non-geometric properties of a wall. They are
// preserved verbatim on both halves of a split.
type WallAttributes struct {
	Material       string `json:"material,omitempty"`
	Finish         string `json:"finish,omitempty"`
	ExteriorFinish string `json:"exteriorFinish,omitempty"`
	Footer         string `json:"footer,omitempty"`
	Insulated      bool   `json:"insulated,omitempty"`
}

// Wall is a straight wall segment. Direction (Start→End) matters for chain order.
type Wall struct {
	ID      ID             `json:"id"`
	Start   geom.Point     `json:"start"`
	End     geom.Point     `json:"end"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	LayerID string         `json:"layerId,omitempty"`
	Attrs   WallAttributes `json:"attrs"`
}

func (w Wall) Length() float64       { return w.Start.Dist(w.End) }
func (w Wall) Midpoint() geom.Point  { return geom.Midpoint(w.Start, w.End) }
func (w Wall) IsZeroLength() bool    { return w.Start == w.End }
func (w Wall) Direction() geom.Point { return w.End.Sub(w.Start) }

// Point returns the coordinate of the given endpoint.
func (w Wall) Point(e Endpoint) geom.Point {
	if e == End {
		return w.End
	}
	return w.Start
}

// WithPoint returns a copy of w with endpoint e moved to p.
func (w Wall) WithPoint(e Endpoint, p geom.Point) Wall {
	if e == End {
		w.End = p
	} else {
		w.Start = p
	}
	return w
}

// Reversed swaps Start and End.
func (w Wall) Reversed() Wall {
	w.Start, w.End = w.End, w.Start
	return w
}

// PointAt returns the point at ratio t along the wall, t clamped to [0,1].
func (w Wall) PointAt(t float64) geom.Point {
	return w.Start.Lerp(w.End, ClampRatio(t))
}

// WallChain is an ordered run of connected walls ("wall set").
type WallChain struct {
	Walls []Wall `json:"walls"`
}

func (c WallChain) Len() int { return len(c.Walls) }

// Head is the start point of the first wall.
func (c WallChain) Head() geom.Point { return c.Walls[0].Start }

// Tail is the end point of the last wall.
func (c WallChain) Tail() geom.Point { return c.Walls[len(c.Walls)-1].End }

// Closed reports whether the chain forms a loop within tol.
func (c WallChain) Closed(tol float64) bool {
	return len(c.Walls) >= 3 && c.Tail().Near(c.Head(), tol)
}

func (c WallChain) Clone() WallChain {
	return WallChain{Walls: cloneSlice(c.Walls)}
}

// Index returns the position of the wall with the given id, or -1.
func (c WallChain) Index(id ID) int {
	for i := range c.Walls {
		if c.Walls[i].ID == id {
			return i
		}
	}
	return -1
}

// Room is a closed polygon of unique vertices. The first point is never
// repeated at the end.
type Room struct {
	ID     ID           `json:"id"`
	Name   string       `json:"name,omitempty"`
	Points []geom.Point `json:"points"`
}

// MinRoomVertices is the smallest vertex count for which a room exists.
const MinRoomVertices = 3

func (r Room) Clone() Room {
	r.Points = cloneSlice(r.Points)
	return r
}

// Valid reports whether the room has enough vertices to exist.
func (r Room) Valid() bool { return len(r.Points) >= MinRoomVertices }

// Edge returns the i-th edge, wrapping the last vertex back to the first.
func (r Room) Edge(i int) (geom.Point, geom.Point) {
	return r.Points[i], r.Points[(i+1)%len(r.Points)]
}

func (r Room) ring() orb.Ring {
	ring := make(orb.Ring, 0, len(r.Points)+1)
	for _, p := range r.Points {
		ring = append(ring, p.Orb())
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area returns the enclosed area in square model units.
func (r Room) Area() float64 {
	if !r.Valid() {
		return 0
	}
	return math.Abs(planar.Area(r.ring()))
}

// Centroid returns the area centroid, used to place the room label.
func (r Room) Centroid() geom.Point {
	if !r.Valid() {
		return geom.BoundsOf(r.Points).Center()
	}
	c, _ := planar.CentroidArea(r.ring())
	return geom.FromOrb(c)
}

// OpeningKind distinguishes doors from windows.
type OpeningKind string

const (
	Door   OpeningKind = "door"
	Window OpeningKind = "window"
)

// Opening is a door or window hosted by a wall at a fractional position.
// An empty WallID means the opening is floating and is skipped by wall-based
// hit-testing.
type Opening struct {
	ID         ID          `json:"id"`
	Kind       OpeningKind `json:"kind"`
	WallID     ID          `json:"wallId,omitempty"`
	Ratio      float64     `json:"ratio"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	SillHeight float64     `json:"sillHeight,omitempty"`
	SwingFlip  bool        `json:"swingFlip,omitempty"`
}

// Floating reports whether the opening has no host wall.
func (o Opening) Floating() bool { return o.WallID == "" }

// SetRatio stores r clamped to [0,1].
func (o *Opening) SetRatio(r float64) { o.Ratio = ClampRatio(r) }

// ClampRatio clamps a position along a wall to [0,1]. NaN maps to 0.
func ClampRatio(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Polyline is a free-standing open line annotation.
type Polyline struct {
	ID     ID           `json:"id"`
	Points []geom.Point `json:"points"`
}

func (p Polyline) Clone() Polyline {
	p.Points = cloneSlice(p.Points)
	return p
}

// Text is a label anchored at its top-left corner; newlines stack lines.
// Size is the cap height in model units.
type Text struct {
	ID       ID         `json:"id"`
	Position geom.Point `json:"position"`
	Content  string     `json:"content"`
	Size     float64    `json:"size"`
}

// Dimension is a linear measurement between two points, drawn parallel to
// the measured segment at a signed perpendicular Offset.
type Dimension struct {
	ID     ID         `json:"id"`
	Start  geom.Point `json:"start"`
	End    geom.Point `json:"end"`
	Offset float64    `json:"offset"`
}

// Line returns the drawn dimension line, shifted by Offset along the left
// normal of Start→End.
func (d Dimension) Line() (geom.Point, geom.Point) {
	n := d.End.Sub(d.Start).Unit().Perp().Scale(d.Offset)
	return d.Start.Add(n), d.End.Add(n)
}

// Measured returns the measured length.
func (d Dimension) Measured() float64 { return d.Start.Dist(d.End) }

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
