/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
)

func TestDistancePointToSegment(t *testing.T) {
	a, b := geom.P(0, 0), geom.P(10, 0)
	tests := []struct {
		name string
		p    geom.Point
		want float64
	}{
		{"on segment", geom.P(5, 0), 0},
		{"above middle", geom.P(5, 3), 3},
		{"beyond end", geom.P(13, 4), 5},
		{"before start", geom.P(-3, 4), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistancePointToSegment(tt.p, a, b), 1e-9)
			assert.InDelta(t, tt.want, DistancePointToSegment(tt.p, b, a), 1e-9, "symmetric in A and B")
		})
	}
}

func TestDistancePointToSegmentDegenerate(t *testing.T) {
	a := geom.P(2, 2)
	assert.InDelta(t, 5.0, DistancePointToSegment(geom.P(5, 6), a, a), 1e-9)
}

func TestSegmentIntersectsRect(t *testing.T) {
	rect := geom.RectFromCorners(geom.P(0, 0), geom.P(50, 50))
	tests := []struct {
		name string
		a, b geom.Point
		want bool
	}{
		{"inside", geom.P(10, 10), geom.P(40, 40), true},
		{"crossing both sides", geom.P(-10, -10), geom.P(60, 60), true},
		{"outside", geom.P(100, 100), geom.P(200, 200), false},
		{"one end inside", geom.P(25, 25), geom.P(80, 25), true},
		{"passes beside", geom.P(-5, -5), geom.P(-5, 80), false},
		{"touches edge", geom.P(50, -10), geom.P(50, 60), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentIntersectsRect(tt.a, tt.b, rect))
		})
	}
}

func TestPointInPolygonRotatedGeometry(t *testing.T) {
	square := []geom.Point{geom.P(-10, -10), geom.P(10, -10), geom.P(10, 10), geom.P(-10, 10)}
	inside, outside := geom.P(3, 4), geom.P(30, 1)
	for _, deg := range []float64{0, 17, 45, 90, 133, 270} {
		m := geom.Rotate(geom.Rad(deg))
		poly := make([]geom.Point, len(square))
		for i, v := range square {
			poly[i] = m.Apply(v)
		}
		assert.True(t, PointInPolygon(m.Apply(inside), poly), "inside at %v°", deg)
		assert.False(t, PointInPolygon(m.Apply(outside), poly), "outside at %v°", deg)
	}
}

func TestPointInPolygonVertexOrder(t *testing.T) {
	ell := []geom.Point{
		geom.P(0, 0), geom.P(20, 0), geom.P(20, 10),
		geom.P(10, 10), geom.P(10, 20), geom.P(0, 20),
	}
	tests := []struct {
		name string
		p    geom.Point
		want bool
	}{
		{"inside foot", geom.P(15, 5), true},
		{"inside upright", geom.P(5, 15), true},
		{"in the notch", geom.P(15, 15), false},
		{"far away", geom.P(-7, 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k := range ell {
				rotated := append(append([]geom.Point(nil), ell[k:]...), ell[:k]...)
				assert.Equal(t, tt.want, PointInPolygon(tt.p, rotated), "start at vertex %d", k)
			}
		})
	}
}

func TestPointInPolygonTooFewVertices(t *testing.T) {
	assert.False(t, PointInPolygon(geom.P(0, 0), []geom.Point{geom.P(-1, -1), geom.P(1, 1)}))
}

func TestTextBoundsScalesWithSize(t *testing.T) {
	small := TextBounds(domain.Text{Position: geom.P(0, 0), Content: "AB", Size: 13})
	big := TextBounds(domain.Text{Position: geom.P(0, 0), Content: "AB", Size: 26})
	assert.InDelta(t, 14.0, small.Width(), 1e-9)
	assert.InDelta(t, 13.0, small.Height(), 1e-9)
	assert.InDelta(t, 2*small.Width(), big.Width(), 1e-9)

	two := TextBounds(domain.Text{Position: geom.P(0, 0), Content: "AB\nC", Size: 13})
	assert.InDelta(t, 26.0, two.Height(), 1e-9)
}

func TestOpeningPolygonFollowsWall(t *testing.T) {
	host := domain.Wall{ID: "w", Start: geom.P(0, 0), End: geom.P(0, 100), Width: 4}
	poly := OpeningPolygon(domain.Opening{WallID: "w", Ratio: 0.25, Width: 30}, host)
	require.Len(t, poly, 4)
	box := geom.BoundsOf(poly)
	assert.InDelta(t, 4.0, box.Width(), 1e-9)
	assert.InDelta(t, 30.0, box.Height(), 1e-9)
	assert.InDelta(t, 25.0, box.Center().Y, 1e-9)
}

func fixture() domain.Document {
	return domain.Document{
		Chains: []domain.WallChain{{Walls: []domain.Wall{
			{ID: "w1", Start: geom.P(0, 0), End: geom.P(100, 0), Width: 4.5},
		}}},
		Rooms: []domain.Room{
			{ID: "r1", Points: []geom.Point{geom.P(200, 200), geom.P(260, 200), geom.P(260, 260)}},
		},
		Openings: []domain.Opening{
			{ID: "o1", Kind: domain.Door, WallID: "w1", Ratio: 0.5, Width: 30},
			{ID: "o2", Kind: domain.Window, Ratio: 0.5, Width: 30},
			{ID: "o3", Kind: domain.Window, WallID: "gone", Ratio: 0.5, Width: 30},
		},
		Polylines: []domain.Polyline{{ID: "p1", Points: []geom.Point{geom.P(0, 400), geom.P(100, 400)}}},
		Texts:     []domain.Text{{ID: "t1", Position: geom.P(300, 300), Content: "Hi", Size: 13}},
		Dimensions: []domain.Dimension{
			{ID: "d1", Start: geom.P(0, 500), End: geom.P(100, 500)},
		},
	}
}

func TestPickPriority(t *testing.T) {
	doc := fixture()
	view := geom.DefaultView()
	opts := DefaultOptions()

	tests := []struct {
		name     string
		p        geom.Point
		selected []domain.Selection
		want     domain.Selection
	}{
		{"wall segment", geom.P(40, 3), nil, domain.WallSelection{WallID: "w1"}},
		{"handle of selected wall", geom.P(1, 2), []domain.Selection{domain.WallSelection{WallID: "w1"}},
			domain.HandleSelection{WallID: "w1", Endpoint: domain.Start}},
		{"end handle", geom.P(99, 0), []domain.Selection{domain.HandleSelection{WallID: "w1", Endpoint: domain.Start}},
			domain.HandleSelection{WallID: "w1", Endpoint: domain.End}},
		{"room vertex", geom.P(258, 203), nil, domain.VertexSelection{RoomID: "r1", Index: 1}},
		{"polyline", geom.P(50, 405), nil, domain.PolylineSelection{ID: "p1"}},
		{"text", geom.P(305, 305), nil, domain.TextSelection{ID: "t1"}},
		{"dimension", geom.P(50, 497), nil, domain.DimensionSelection{ID: "d1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pick(doc, tt.p, view, tt.selected, opts)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPickMiss(t *testing.T) {
	_, ok := Pick(fixture(), geom.P(-500, -500), geom.DefaultView(), nil, DefaultOptions())
	assert.False(t, ok)
}

func TestPickOpeningWhenZoomedIn(t *testing.T) {
	// At 10 px per unit the wall line tolerance shrinks to one unit, so a click
	// inside the door footprint but off the centerline lands on the door.
	view := geom.View{Zoom: 1, PixelsPerUnit: 10}
	got, ok := Pick(fixture(), geom.P(50, 2), view, nil, DefaultOptions())
	require.True(t, ok)
	assert.Equal(t, domain.OpeningSelection{OpeningID: "o1", WallID: "w1", Ratio: 0.5}, got)
}

func TestPickSkipsUnhostedOpenings(t *testing.T) {
	doc := fixture()
	doc.Chains = nil
	view := geom.View{Zoom: 1, PixelsPerUnit: 10}
	_, ok := Pick(doc, geom.P(50, 0), view, nil, DefaultOptions())
	assert.False(t, ok)
}

func TestPickThresholdShrinksWithZoom(t *testing.T) {
	doc := fixture()
	p := geom.P(40, 8)
	_, ok := Pick(doc, p, geom.View{Zoom: 1, PixelsPerUnit: 1}, nil, DefaultOptions())
	assert.True(t, ok)
	_, ok = Pick(doc, p, geom.View{Zoom: 2, PixelsPerUnit: 1}, nil, DefaultOptions())
	assert.False(t, ok)
}

func TestBoxSelect(t *testing.T) {
	doc := domain.Document{Chains: []domain.WallChain{
		{Walls: []domain.Wall{{ID: "in", Start: geom.P(10, 10), End: geom.P(40, 40)}}},
		{Walls: []domain.Wall{{ID: "across", Start: geom.P(-10, -10), End: geom.P(60, 60)}}},
		{Walls: []domain.Wall{{ID: "out", Start: geom.P(100, 100), End: geom.P(200, 200)}}},
	}}
	got := BoxSelect(doc, geom.RectFromCorners(geom.P(0, 0), geom.P(50, 50)))
	assert.Equal(t, []domain.Selection{
		domain.WallSelection{WallID: "in"},
		domain.WallSelection{WallID: "across"},
	}, got)
}

func TestBoxSelectAllKinds(t *testing.T) {
	doc := fixture()
	got := BoxSelect(doc, geom.RectFromCorners(geom.P(-20, -20), geom.P(400, 600)))
	kinds := make(map[domain.SelectionKind]int)
	for _, s := range got {
		kinds[s.Kind()]++
	}
	assert.Equal(t, 1, kinds[domain.KindWall])
	assert.Equal(t, 1, kinds[domain.KindRoom])
	assert.Equal(t, 1, kinds[domain.KindOpening], "floating and orphaned openings are skipped")
	assert.Equal(t, 1, kinds[domain.KindPolyline])
	assert.Equal(t, 1, kinds[domain.KindText])
	assert.Equal(t, 1, kinds[domain.KindDimension])
}

func TestBoxSelectRoomContainingRect(t *testing.T) {
	doc := domain.Document{Rooms: []domain.Room{{ID: "big", Points: []geom.Point{
		geom.P(0, 0), geom.P(1000, 0), geom.P(1000, 1000), geom.P(0, 1000),
	}}}}
	got := BoxSelect(doc, geom.RectFromCorners(geom.P(400, 400), geom.P(410, 410)))
	assert.Equal(t, []domain.Selection{domain.RoomSelection{RoomID: "big"}}, got)
}

func TestVerticesInRect(t *testing.T) {
	got := VerticesInRect(fixture(), geom.RectFromCorners(geom.P(250, 190), geom.P(270, 270)))
	assert.Equal(t, []domain.Selection{
		domain.VertexSelection{RoomID: "r1", Index: 1},
		domain.VertexSelection{RoomID: "r1", Index: 2},
	}, got)
}
