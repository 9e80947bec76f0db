/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection implements hit-testing geometry and the click and box
// selection passes built on it. Everything here is stateless and pure.
package selection

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"gofloorplan/internal/geom"
)

// colinearEps treats tiny orientation values as zero.
const colinearEps = 1e-6

// DistancePointToSegment returns the distance from p to the closed segment ab.
// A degenerate segment (a == b) yields the distance to a.
func DistancePointToSegment(p, a, b geom.Point) float64 {
	if a == b {
		return p.Dist(a)
	}
	return planar.DistanceFromSegment(a.Orb(), b.Orb(), p.Orb())
}

// orientation classifies the turn a→b→c: 0 colinear, 1 clockwise, 2 counter-clockwise.
func orientation(a, b, c geom.Point) int {
	v := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	if math.Abs(v) < colinearEps {
		return 0
	}
	if v > 0 {
		return 1
	}
	return 2
}

// onSegment reports whether q lies within the bounding box of pr, given
// that p, q, r are colinear.
func onSegment(p, q, r geom.Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// SegmentsIntersect reports whether segments p1q1 and p2q2 touch or cross.
func SegmentsIntersect(p1, q1, p2, q2 geom.Point) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}
	switch {
	case o1 == 0 && onSegment(p1, p2, q1):
		return true
	case o2 == 0 && onSegment(p1, q2, q1):
		return true
	case o3 == 0 && onSegment(p2, p1, q2):
		return true
	case o4 == 0 && onSegment(p2, q1, q2):
		return true
	}
	return false
}

// SegmentIntersectsRect is true if either endpoint is inside rect or the
// segment crosses one of its four edges.
func SegmentIntersectsRect(a, b geom.Point, rect geom.Rect) bool {
	if rect.Contains(a) || rect.Contains(b) {
		return true
	}
	c := rect.Corners()
	for i := range c {
		if SegmentsIntersect(a, b, c[i], c[(i+1)%4]) {
			return true
		}
	}
	return false
}

// PointInPolygon is an even-odd ray-casting test. The polygon is a list of
// unique vertices; the closing edge back to the first vertex is implied.
// Fewer than three vertices never contain anything.
func PointInPolygon(p geom.Point, polygon []geom.Point) bool {
	if len(polygon) < 3 {
		return false
	}
	ring := make(orb.Ring, len(polygon))
	for i, v := range polygon {
		ring[i] = v.Orb()
	}
	return planar.RingContains(ring, p.Orb())
}

// PolylineIntersectsRect reports whether any segment of an open polyline
// touches rect. A single point counts when it lies inside.
func PolylineIntersectsRect(pts []geom.Point, rect geom.Rect) bool {
	if len(pts) == 1 {
		return rect.Contains(pts[0])
	}
	for i := 0; i+1 < len(pts); i++ {
		if SegmentIntersectsRect(pts[i], pts[i+1], rect) {
			return true
		}
	}
	return false
}

// PolygonIntersectsRect reports whether a closed polygon overlaps rect:
// an edge touches it, or the rectangle lies entirely inside the polygon.
func PolygonIntersectsRect(polygon []geom.Point, rect geom.Rect) bool {
	n := len(polygon)
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if SegmentIntersectsRect(polygon[i], polygon[(i+1)%n], rect) {
			return true
		}
	}
	return PointInPolygon(rect.Center(), polygon)
}

// DistanceToPolyline returns the smallest distance from p to any segment.
func DistanceToPolyline(p geom.Point, pts []geom.Point) float64 {
	best := math.Inf(1)
	if len(pts) == 1 {
		return p.Dist(pts[0])
	}
	for i := 0; i+1 < len(pts); i++ {
		if d := DistancePointToSegment(p, pts[i], pts[i+1]); d < best {
			best = d
		}
	}
	return best
}
