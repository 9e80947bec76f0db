/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package selection

import (
	"math"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
)

// Options holds the fixed visual tolerances for click selection, in device pixels.
type Options struct {
	LinePx   float64
	VertexPx float64
}

func DefaultOptions() Options { return Options{LinePx: 10, VertexPx: 15} }

// candidate tracks the closest hit within one priority tier.
type candidate struct {
	sel  domain.Selection
	dist float64
}

func (c *candidate) consider(sel domain.Selection, d, tol float64) {
	if d > tol {
		return
	}
	if c.sel == nil || d < c.dist {
		c.sel = sel
		c.dist = d
	}
}

// Pick resolves a click at model point p into the single entity it hits.
// Tiers are tried in order: handles of already selected walls, wall
// segments, room vertices, openings, polylines, text boxes, dimension lines.
// Within a tier the closest entity wins; the first tier with a hit decides.
func Pick(doc domain.Document, p geom.Point, view geom.View, selected []domain.Selection, opts Options) (domain.Selection, bool) {
	if opts.LinePx <= 0 || opts.VertexPx <= 0 {
		opts = DefaultOptions()
	}
	lineTol := view.PixelsToModel(opts.LinePx)
	vertexTol := view.PixelsToModel(opts.VertexPx)

	tiers := []func() candidate{
		func() candidate { return pickHandles(doc, p, selected, vertexTol) },
		func() candidate { return pickWalls(doc, p, lineTol) },
		func() candidate { return pickVertices(doc, p, vertexTol) },
		func() candidate { return pickOpenings(doc, p) },
		func() candidate { return pickPolylines(doc, p, lineTol) },
		func() candidate { return pickTexts(doc, p) },
		func() candidate { return pickDimensions(doc, p, lineTol) },
	}
	for _, tier := range tiers {
		if c := tier(); c.sel != nil {
			return c.sel, true
		}
	}
	return nil, false
}

func pickHandles(doc domain.Document, p geom.Point, selected []domain.Selection, tol float64) candidate {
	var c candidate
	for _, id := range domain.SelectedWalls(selected) {
		w, ok := doc.Wall(id)
		if !ok {
			continue
		}
		c.consider(domain.HandleSelection{WallID: id, Endpoint: domain.Start}, p.Dist(w.Start), tol)
		c.consider(domain.HandleSelection{WallID: id, Endpoint: domain.End}, p.Dist(w.End), tol)
	}
	return c
}

func pickWalls(doc domain.Document, p geom.Point, tol float64) candidate {
	var c candidate
	for _, ch := range doc.Chains {
		for _, w := range ch.Walls {
			c.consider(domain.WallSelection{WallID: w.ID}, DistancePointToSegment(p, w.Start, w.End), tol)
		}
	}
	return c
}

func pickVertices(doc domain.Document, p geom.Point, tol float64) candidate {
	var c candidate
	for _, r := range doc.Rooms {
		for i, v := range r.Points {
			c.consider(domain.VertexSelection{RoomID: r.ID, Index: i}, p.Dist(v), tol)
		}
	}
	return c
}

func pickOpenings(doc domain.Document, p geom.Point) candidate {
	var c candidate
	for _, o := range doc.Openings {
		if o.Floating() {
			continue
		}
		host, ok := doc.Wall(o.WallID)
		if !ok {
			continue
		}
		poly := OpeningPolygon(o, host)
		if !PointInPolygon(p, poly) {
			continue
		}
		sel := domain.OpeningSelection{OpeningID: o.ID, WallID: o.WallID, Ratio: o.Ratio}
		c.consider(sel, p.Dist(host.PointAt(o.Ratio)), math.Inf(1))
	}
	return c
}

func pickPolylines(doc domain.Document, p geom.Point, tol float64) candidate {
	var c candidate
	for _, pl := range doc.Polylines {
		if len(pl.Points) == 0 {
			continue
		}
		c.consider(domain.PolylineSelection{ID: pl.ID}, DistanceToPolyline(p, pl.Points), tol)
	}
	return c
}

func pickTexts(doc domain.Document, p geom.Point) candidate {
	var c candidate
	for _, t := range doc.Texts {
		box := TextBounds(t)
		if !box.Contains(p) {
			continue
		}
		c.consider(domain.TextSelection{ID: t.ID}, p.Dist(box.Center()), math.Inf(1))
	}
	return c
}

func pickDimensions(doc domain.Document, p geom.Point, tol float64) candidate {
	var c candidate
	for _, d := range doc.Dimensions {
		a, b := d.Line()
		c.consider(domain.DimensionSelection{ID: d.ID}, DistancePointToSegment(p, a, b), tol)
	}
	return c
}

// BoxSelect returns every entity whose geometry intersects or lies inside
// rect (model space). Walls come first, then rooms, openings, polylines,
// texts and dimensions, each in document order.
func BoxSelect(doc domain.Document, rect geom.Rect) []domain.Selection {
	var out []domain.Selection
	for _, ch := range doc.Chains {
		for _, w := range ch.Walls {
			if SegmentIntersectsRect(w.Start, w.End, rect) {
				out = append(out, domain.WallSelection{WallID: w.ID})
			}
		}
	}
	for _, r := range doc.Rooms {
		if PolygonIntersectsRect(r.Points, rect) {
			out = append(out, domain.RoomSelection{RoomID: r.ID})
		}
	}
	for _, o := range doc.Openings {
		if o.Floating() {
			continue
		}
		host, ok := doc.Wall(o.WallID)
		if !ok {
			continue
		}
		if PolygonIntersectsRect(OpeningPolygon(o, host), rect) {
			out = append(out, domain.OpeningSelection{OpeningID: o.ID, WallID: o.WallID, Ratio: o.Ratio})
		}
	}
	for _, pl := range doc.Polylines {
		if PolylineIntersectsRect(pl.Points, rect) {
			out = append(out, domain.PolylineSelection{ID: pl.ID})
		}
	}
	for _, t := range doc.Texts {
		if TextBounds(t).Intersects(rect) {
			out = append(out, domain.TextSelection{ID: t.ID})
		}
	}
	for _, d := range doc.Dimensions {
		a, b := d.Line()
		if SegmentIntersectsRect(a, b, rect) {
			out = append(out, domain.DimensionSelection{ID: d.ID})
		}
	}
	return out
}

// VerticesInRect returns vertex selections for every room vertex inside rect.
// The vertex-edit tool uses this instead of whole-room box selection.
func VerticesInRect(doc domain.Document, rect geom.Rect) []domain.Selection {
	var out []domain.Selection
	for _, r := range doc.Rooms {
		for i, v := range r.Points {
			if rect.Contains(v) {
				out = append(out, domain.VertexSelection{RoomID: r.ID, Index: i})
			}
		}
	}
	return out
}
