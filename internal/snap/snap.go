/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap corrects raw cursor positions against existing geometry.
// Snap applies a fixed priority of rules and tags the result with the rule
// that fired; Align is a separate axis-only pass that runs after it.
// Everything here is pure and deterministic so it can be unit tested without
// a canvas.
package snap

import (
	"math"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
)

// Kind classifies which rule produced a snapped point.
type Kind int

const (
	None Kind = iota
	Endpoint
	Midpoint
	Axis
	Angle
	Perpendicular
	Grid
	Distance
	Tangent
)

var kindNames = [...]string{"none", "endpoint", "midpoint", "axis", "angle", "perpendicular", "grid", "distance", "tangent"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Options configures the snap rules.
type Options struct {
	Enabled bool
	// Threshold is the snap radius in device pixels; the model tolerance is
	// Threshold/Zoom.
	Threshold float64
	Zoom      float64
	// AngleIncrement in degrees (default 45). FineAngleIncrement, when set,
	// replaces it for finer angle locking.
	AngleIncrement     float64
	FineAngleIncrement float64
	GridSpacing        float64
	DistanceIncrement  float64
	// AlignThreshold is the alignment-guide radius in device pixels.
	AlignThreshold float64
}

func DefaultOptions() Options {
	return Options{
		Enabled:           true,
		Threshold:         10,
		Zoom:              1,
		AngleIncrement:    45,
		GridSpacing:       12,
		DistanceIncrement: 12,
		AlignThreshold:    10,
	}
}

// Tolerance is the snap radius in model units at the configured zoom.
func (o Options) Tolerance() float64 { return zoomScaled(o.Threshold, o.Zoom) }

// AlignTolerance is the alignment radius in model units.
func (o Options) AlignTolerance() float64 { return zoomScaled(o.AlignThreshold, o.Zoom) }

func (o Options) angleIncrement() float64 {
	if o.FineAngleIncrement > 0 {
		return o.FineAngleIncrement
	}
	if o.AngleIncrement > 0 {
		return o.AngleIncrement
	}
	return 45
}

func zoomScaled(threshold, zoom float64) float64 {
	return geom.View{Zoom: zoom}.ZoomScaled(threshold)
}

// Geometry is the set of existing entities a cursor can snap to.
type Geometry struct {
	Walls      []domain.Wall
	Rooms      []domain.Room
	InProgress []geom.Point
	// LastWall enables the perpendicular rule relative to its direction.
	LastWall *domain.Wall
	// Anchor is the previously snapped point used by the tangent and
	// distance rules; Radius is the tangent circle radius around it.
	Anchor *geom.Point
	Radius float64
}

// FromDocument collects the walls and rooms of doc.
func FromDocument(doc domain.Document) Geometry {
	return Geometry{Walls: doc.Walls(), Rooms: doc.Rooms}
}

// Candidates returns every vertex a point can align or snap to: wall
// endpoints, room vertices and in-progress points, in that order.
func (g Geometry) Candidates() []geom.Point {
	n := 2*len(g.Walls) + len(g.InProgress)
	for _, r := range g.Rooms {
		n += len(r.Points)
	}
	pts := make([]geom.Point, 0, n)
	for _, w := range g.Walls {
		pts = append(pts, w.Start, w.End)
	}
	for _, r := range g.Rooms {
		pts = append(pts, r.Points...)
	}
	return append(pts, g.InProgress...)
}

// Result is a corrected point and the rule that produced it.
type Result struct {
	Point geom.Point
	Kind  Kind
}

type rule struct {
	kind  Kind
	apply func(cursor geom.Point, base *geom.Point, geo Geometry, opts Options, tol float64) (geom.Point, bool)
}

var rules = []rule{
	{Endpoint, snapEndpoint},
	{Midpoint, snapMidpoint},
	{Axis, snapAxis},
	{Angle, snapAngle},
	{Perpendicular, snapPerpendicular},
	{Grid, snapGrid},
	{Tangent, snapTangent},
	{Distance, snapDistance},
}

// Snap corrects cursor against geo. base is the reference point of the
// segment being drawn (nil when nothing is in progress). Rules are tried in
// priority order and the first qualifying one wins; if none qualifies or
// snapping is disabled the raw cursor is returned with None.
func Snap(cursor geom.Point, base *geom.Point, geo Geometry, opts Options) Result {
	if !opts.Enabled {
		return Result{Point: cursor, Kind: None}
	}
	tol := opts.Tolerance()
	for _, r := range rules {
		if p, ok := r.apply(cursor, base, geo, opts, tol); ok {
			return Result{Point: p, Kind: r.kind}
		}
	}
	return Result{Point: cursor, Kind: None}
}

// nearest returns the closest of pts to p within tol. Ties keep the first.
func nearest(p geom.Point, pts []geom.Point, tol float64) (geom.Point, bool) {
	best, bestD := geom.Point{}, math.Inf(1)
	for _, q := range pts {
		if d := p.Dist(q); d <= tol && d < bestD {
			best, bestD = q, d
		}
	}
	return best, !math.IsInf(bestD, 1)
}

func snapEndpoint(cursor geom.Point, _ *geom.Point, geo Geometry, _ Options, tol float64) (geom.Point, bool) {
	return nearest(cursor, geo.Candidates(), tol)
}

func snapMidpoint(cursor geom.Point, _ *geom.Point, geo Geometry, _ Options, tol float64) (geom.Point, bool) {
	mids := make([]geom.Point, len(geo.Walls))
	for i, w := range geo.Walls {
		mids[i] = w.Midpoint()
	}
	return nearest(cursor, mids, tol)
}

func snapAxis(cursor geom.Point, base *geom.Point, _ Geometry, _ Options, tol float64) (geom.Point, bool) {
	if base == nil {
		return cursor, false
	}
	p, locked := cursor, false
	if math.Abs(cursor.X-base.X) < tol {
		p.X, locked = base.X, true
	}
	if math.Abs(cursor.Y-base.Y) < tol {
		p.Y, locked = base.Y, true
	}
	return p, locked
}

func snapAngle(cursor geom.Point, base *geom.Point, _ Geometry, opts Options, tol float64) (geom.Point, bool) {
	if base == nil {
		return cursor, false
	}
	dist := base.Dist(cursor)
	if dist == 0 {
		return cursor, false
	}
	deg := geom.RoundToIncrement(geom.Deg(geom.AngleOf(*base, cursor)), opts.angleIncrement())
	p := geom.Polar(*base, geom.Rad(deg), dist)
	return p, p.Dist(cursor) <= tol
}

// AngleAround applies only the angle rule to p around pivot. Endpoint drags
// use it to keep a dragged wall on an angle increment.
func AngleAround(p, pivot geom.Point, opts Options) (geom.Point, bool) {
	if !opts.Enabled {
		return p, false
	}
	return snapAngle(p, &pivot, Geometry{}, opts, opts.Tolerance())
}

func snapPerpendicular(cursor geom.Point, base *geom.Point, geo Geometry, _ Options, tol float64) (geom.Point, bool) {
	if base == nil || geo.LastWall == nil {
		return cursor, false
	}
	dir := geo.LastWall.Direction()
	if dir == (geom.Point{}) {
		return cursor, false
	}
	p := geom.ProjectOntoLine(cursor, *base, dir.Perp())
	return p, p.Dist(cursor) <= tol
}

func snapGrid(cursor geom.Point, _ *geom.Point, _ Geometry, opts Options, tol float64) (geom.Point, bool) {
	if opts.GridSpacing <= 0 {
		return cursor, false
	}
	p := geom.Point{
		X: geom.RoundToIncrement(cursor.X, opts.GridSpacing),
		Y: geom.RoundToIncrement(cursor.Y, opts.GridSpacing),
	}
	return p, p.Dist(cursor) <= tol
}

// snapTangent keeps the cursor on the circle of Radius around Anchor.
func snapTangent(cursor geom.Point, _ *geom.Point, geo Geometry, _ Options, tol float64) (geom.Point, bool) {
	if geo.Anchor == nil || geo.Radius <= 0 {
		return cursor, false
	}
	dir := cursor.Sub(*geo.Anchor).Unit()
	if dir == (geom.Point{}) {
		return cursor, false
	}
	p := geo.Anchor.Add(dir.Scale(geo.Radius))
	return p, p.Dist(cursor) <= tol
}

// snapDistance rounds the distance from Anchor to a multiple of
// DistanceIncrement, keeping the direction.
func snapDistance(cursor geom.Point, _ *geom.Point, geo Geometry, opts Options, tol float64) (geom.Point, bool) {
	if geo.Anchor == nil || opts.DistanceIncrement <= 0 {
		return cursor, false
	}
	d := cursor.Sub(*geo.Anchor)
	r := geom.RoundToIncrement(d.Len(), opts.DistanceIncrement)
	if r == 0 {
		return cursor, false
	}
	p := geo.Anchor.Add(d.Unit().Scale(r))
	return p, p.Dist(cursor) <= tol
}
