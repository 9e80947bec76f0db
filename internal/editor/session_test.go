/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofloorplan/internal/config"
	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
	"gofloorplan/internal/snap"
)

func newSession() *Session {
	return NewSession(DefaultSettings(), &domain.SequenceSource{Prefix: "e"})
}

func mustWall(t *testing.T, s *Session, x1, y1, x2, y2 float64) domain.Wall {
	t.Helper()
	w, err := s.AddWall(geom.P(x1, y1), geom.P(x2, y2))
	require.NoError(t, err)
	return w
}

func TestAddWallAttachesToChain(t *testing.T) {
	s := newSession()
	a := mustWall(t, s, 0, 0, 100, 0)
	b := mustWall(t, s, 100, 100, 100, 0.4)
	mustWall(t, s, 500, 500, 600, 500)

	doc := s.Document()
	require.Len(t, doc.Chains, 2)
	assert.Equal(t, []domain.ID{a.ID, b.ID}, []domain.ID{doc.Chains[0].Walls[0].ID, doc.Chains[0].Walls[1].ID})
	assert.Equal(t, geom.P(100, 0), b.Start, "joined end snapped onto the joint")
	assert.Equal(t, domain.DefaultWallWidth, b.Width)
	assert.Equal(t, "add wall", s.UndoLabel())
}

func TestUndoRedoSequence(t *testing.T) {
	s := newSession()
	mustWall(t, s, 0, 0, 100, 0)
	_, err := s.AddText(geom.P(10, 10), "Bath", 12)
	require.NoError(t, err)
	_, err = s.AddDimension(geom.P(0, 0), geom.P(100, 0), 24)
	require.NoError(t, err)

	full := s.Document()
	for i := 0; i < 3; i++ {
		require.True(t, s.Undo())
	}
	assert.False(t, s.Undo())
	assert.Equal(t, domain.Stats{}, s.Document().Stats())

	for i := 0; i < 3; i++ {
		require.True(t, s.Redo())
	}
	assert.False(t, s.Redo())
	assert.Equal(t, full, s.Document())
}

func TestDocumentIsACopy(t *testing.T) {
	s := newSession()
	mustWall(t, s, 0, 0, 100, 0)
	doc := s.Document()
	doc.Chains[0].Walls[0].End = geom.P(-1, -1)
	assert.Equal(t, geom.P(100, 0), s.Document().Chains[0].Walls[0].End)
}

func TestAddRoom(t *testing.T) {
	s := newSession()
	r, err := s.AddRoom("Kitchen", []geom.Point{
		geom.P(0, 0), geom.P(120, 0), geom.P(120, 0), geom.P(120, 60), geom.P(0, 60), geom.P(0, 0),
	})
	require.NoError(t, err)
	assert.Len(t, r.Points, 4)
	assert.InDelta(t, 7200.0, r.Area(), 1e-9)

	before := s.CanUndo()
	_, err = s.AddRoom("Sliver", []geom.Point{geom.P(0, 0), geom.P(10, 0), geom.P(0, 0)})
	require.ErrorIs(t, err, ErrTooFewVertices)
	assert.Equal(t, before, s.CanUndo())
	assert.Len(t, s.Document().Rooms, 1, "failed edit leaves the document alone")
}

func TestAddOpening(t *testing.T) {
	s := newSession()
	w := mustWall(t, s, 0, 0, 100, 0)

	o, err := s.AddOpening(domain.Door, w.ID, 1.7, 36, 80)
	require.NoError(t, err)
	assert.Equal(t, 1.0, o.Ratio)

	_, err = s.AddOpening(domain.Window, "ghost", 0.5, 30, 40)
	require.ErrorIs(t, err, ErrUnknownWall)

	f, err := s.AddOpening(domain.Window, "", 0.5, 30, 40)
	require.NoError(t, err)
	assert.True(t, f.Floating())

	require.NoError(t, s.SetOpeningRatio(o.ID, -3))
	doc := s.Document()
	assert.Equal(t, 0.0, doc.Openings[doc.OpeningIndex(o.ID)].Ratio)
	require.ErrorIs(t, s.SetOpeningRatio("ghost", 0.5), ErrUnknownOpening)
}

func TestAddPolylineNeedsTwoPoints(t *testing.T) {
	s := newSession()
	_, err := s.AddPolyline([]geom.Point{geom.P(1, 1)})
	require.ErrorIs(t, err, ErrTooFewPoints)
	p, err := s.AddPolyline([]geom.Point{geom.P(1, 1), geom.P(5, 5)})
	require.NoError(t, err)
	assert.Len(t, p.Points, 2)
}

func TestSplitWallRehomesOpenings(t *testing.T) {
	s := newSession()
	w := mustWall(t, s, 0, 0, 100, 0)
	near, err := s.AddOpening(domain.Door, w.ID, 0.25, 30, 80)
	require.NoError(t, err)
	far, err := s.AddOpening(domain.Window, w.ID, 0.8, 30, 40)
	require.NoError(t, err)

	at := geom.P(40, 6)
	a, b, err := s.SplitWall(w.ID, &at)
	require.NoError(t, err)
	assert.InDelta(t, w.Length(), a.Length()+b.Length(), 1e-9)

	doc := s.Document()
	_, ok := doc.Wall(w.ID)
	assert.False(t, ok)

	on := func(id domain.ID) (domain.Opening, domain.Wall) {
		o := doc.Openings[doc.OpeningIndex(id)]
		host, ok := doc.Wall(o.WallID)
		require.True(t, ok)
		return o, host
	}
	o, host := on(near.ID)
	assert.Equal(t, a.ID, o.WallID)
	assert.InDelta(t, 25.0, host.PointAt(o.Ratio).X, 1e-9)
	o, host = on(far.ID)
	assert.Equal(t, b.ID, o.WallID)
	assert.InDelta(t, 80.0, host.PointAt(o.Ratio).X, 1e-9)

	_, _, err = s.SplitWall("ghost", nil)
	require.ErrorIs(t, err, ErrUnknownWall)
}

func TestJoinWallsKeepsOpeningInPlace(t *testing.T) {
	s := newSession()
	s.Load(domain.Document{Chains: []domain.WallChain{
		{Walls: []domain.Wall{{ID: "A", Start: geom.P(0, 0), End: geom.P(100, 0)}}},
		{Walls: []domain.Wall{{ID: "B", Start: geom.P(200, 0), End: geom.P(100, 0)}}},
	}})
	o, err := s.AddOpening(domain.Window, "B", 0.2, 30, 40)
	require.NoError(t, err)

	warns, err := s.JoinWalls([]domain.ID{"A", "B"})
	require.NoError(t, err)
	assert.Empty(t, warns)

	doc := s.Document()
	require.Len(t, doc.Chains, 1)
	b, _ := doc.Wall("B")
	assert.Equal(t, geom.P(100, 0), b.Start)
	moved := doc.Openings[doc.OpeningIndex(o.ID)]
	assert.InDelta(t, 0.8, moved.Ratio, 1e-9)
	assert.InDelta(t, 180.0, b.PointAt(moved.Ratio).X, 1e-9)

	_, err = s.JoinWalls(nil)
	require.ErrorIs(t, err, ErrNothingSelected)
}

func TestJoinWallsReportsLeftovers(t *testing.T) {
	s := newSession()
	a := mustWall(t, s, 0, 0, 100, 0)
	c := mustWall(t, s, 500, 500, 600, 500)
	warns, err := s.JoinWalls([]domain.ID{a.ID, c.ID})
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, c.ID, warns[0].WallID)
	assert.Len(t, s.Document().Chains, 1)
}

func TestSeparateAndJoinAll(t *testing.T) {
	s := newSession()
	a := mustWall(t, s, 0, 0, 100, 0)
	b := mustWall(t, s, 100, 0, 100, 100)
	mustWall(t, s, 100, 100, 0, 100)

	require.NoError(t, s.SeparateWalls([]domain.ID{b.ID}))
	assert.Len(t, s.Document().Chains, 3)

	require.NoError(t, s.JoinAllConnected())
	assert.Len(t, s.Document().Chains, 1)

	require.ErrorIs(t, s.SeparateWalls([]domain.ID{a.ID, "ghost"}), ErrUnknownWall)
}

func TestMoveHandlePropagatesAndSnaps(t *testing.T) {
	s := newSession()
	a := mustWall(t, s, 0, 0, 100, 0)
	b := mustWall(t, s, 100, 0, 100, 100)

	landed, err := s.MoveHandle(a.ID, domain.End, geom.P(103, 2))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, landed.Y, 1e-9, "angle snapped to horizontal around the far end of A")

	doc := s.Document()
	gotA, _ := doc.Wall(a.ID)
	gotB, _ := doc.Wall(b.ID)
	assert.Equal(t, landed, gotA.End)
	assert.Equal(t, landed, gotB.Start)

	_, err = s.MoveHandle("ghost", domain.Start, geom.P(0, 0))
	require.ErrorIs(t, err, ErrUnknownWall)
}

func TestMoveHandleWithoutSnapping(t *testing.T) {
	settings := DefaultSettings()
	settings.Snap.Enabled = false
	s := NewSession(settings, &domain.SequenceSource{})
	a := mustWall(t, s, 0, 0, 100, 0)
	landed, err := s.MoveHandle(a.ID, domain.End, geom.P(103, 2))
	require.NoError(t, err)
	assert.Equal(t, geom.P(103, 2), landed)
}

func TestMoveRoomVertex(t *testing.T) {
	s := newSession()
	r, err := s.AddRoom("", []geom.Point{geom.P(0, 0), geom.P(10, 0), geom.P(0, 10)})
	require.NoError(t, err)
	require.NoError(t, s.MoveRoomVertex(r.ID, 1, geom.P(20, 0)))
	assert.Equal(t, geom.P(20, 0), s.Document().Rooms[0].Points[1])

	require.ErrorIs(t, s.MoveRoomVertex(r.ID, 3, geom.P(0, 0)), ErrVertexIndex)
	require.ErrorIs(t, s.MoveRoomVertex("ghost", 0, geom.P(0, 0)), ErrUnknownRoom)
}

func TestDeleteWallFloatsOpenings(t *testing.T) {
	s := newSession()
	w := mustWall(t, s, 0, 0, 100, 0)
	o, err := s.AddOpening(domain.Door, w.ID, 0.5, 36, 80)
	require.NoError(t, err)

	n, err := s.Delete([]domain.Selection{domain.WallSelection{WallID: w.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	doc := s.Document()
	assert.Empty(t, doc.Walls())
	assert.True(t, doc.Openings[doc.OpeningIndex(o.ID)].Floating())
}

func TestDeleteWallKeepsOpeningsOnReversedWalls(t *testing.T) {
	s := newSession()
	a := mustWall(t, s, 0, 0, 10, 0)
	b := mustWall(t, s, 10, 0, 20, 0)
	x := mustWall(t, s, 10, 50, 10, 0)
	_, err := s.JoinWalls([]domain.ID{a.ID, b.ID, x.ID})
	require.NoError(t, err)
	door, err := s.AddOpening(domain.Door, x.ID, 0.2, 3, 8)
	require.NoError(t, err)

	_, err = s.Delete([]domain.Selection{domain.WallSelection{WallID: b.ID}})
	require.NoError(t, err)

	doc := s.Document()
	host, ok := doc.Wall(x.ID)
	require.True(t, ok)
	assert.Equal(t, geom.P(10, 0), host.Start, "regrouping reversed the wall")
	o := doc.Openings[doc.OpeningIndex(door.ID)]
	assert.InDelta(t, 0.8, o.Ratio, 1e-9)
	at := host.PointAt(o.Ratio)
	assert.InDelta(t, 10.0, at.X, 1e-9)
	assert.InDelta(t, 40.0, at.Y, 1e-9, "door stays where it was")
}

func TestAddWallBridgingChainsKeepsOpeningsInPlace(t *testing.T) {
	s := newSession()
	mustWall(t, s, 0, 0, 10, 0)
	far := mustWall(t, s, 30, 0, 20, 0)
	require.Len(t, s.Document().Chains, 2)
	win, err := s.AddOpening(domain.Window, far.ID, 0.25, 3, 4)
	require.NoError(t, err)

	mustWall(t, s, 10, 0, 20, 0)

	doc := s.Document()
	require.Len(t, doc.Chains, 1)
	host, _ := doc.Wall(far.ID)
	assert.Equal(t, geom.P(20, 0), host.Start)
	o := doc.Openings[doc.OpeningIndex(win.ID)]
	assert.InDelta(t, 27.5, host.PointAt(o.Ratio).X, 1e-9)
}

func TestDeleteVertices(t *testing.T) {
	s := newSession()
	r, err := s.AddRoom("", []geom.Point{geom.P(0, 0), geom.P(10, 0), geom.P(10, 10), geom.P(0, 10)})
	require.NoError(t, err)

	_, err = s.Delete([]domain.Selection{domain.VertexSelection{RoomID: r.ID, Index: 2}})
	require.NoError(t, err)
	require.Len(t, s.Document().Rooms, 1)
	assert.Equal(t, []geom.Point{geom.P(0, 0), geom.P(10, 0), geom.P(0, 10)}, s.Document().Rooms[0].Points)

	_, err = s.Delete([]domain.Selection{domain.VertexSelection{RoomID: r.ID, Index: 0}})
	require.NoError(t, err)
	assert.Empty(t, s.Document().Rooms, "room below three vertices disappears")
}

func TestDeleteErrors(t *testing.T) {
	s := newSession()
	_, err := s.Delete(nil)
	require.ErrorIs(t, err, ErrNothingSelected)
	_, err = s.Delete([]domain.Selection{domain.TextSelection{ID: "ghost"}})
	require.ErrorIs(t, err, ErrUnknownEntity)
	assert.False(t, s.CanUndo())
}

func TestDeleteAnnotations(t *testing.T) {
	s := newSession()
	p, _ := s.AddPolyline([]geom.Point{geom.P(0, 0), geom.P(5, 5)})
	txt, _ := s.AddText(geom.P(0, 0), "x", 10)
	d, _ := s.AddDimension(geom.P(0, 0), geom.P(10, 0), 5)
	n, err := s.Delete([]domain.Selection{
		domain.PolylineSelection{ID: p.ID},
		domain.TextSelection{ID: txt.ID},
		domain.DimensionSelection{ID: d.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, domain.Stats{}, s.Document().Stats())
}

func TestSelectionPrunedAfterEdits(t *testing.T) {
	s := newSession()
	w := mustWall(t, s, 0, 0, 100, 0)

	hit, ok := s.Click(geom.P(50, 2), false)
	require.True(t, ok)
	assert.Equal(t, domain.WallSelection{WallID: w.ID}, hit)
	assert.Equal(t, []domain.Selection{hit}, s.Selection())

	n, err := s.DeleteSelection()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, s.Selection())

	require.True(t, s.Undo())
	s.SetSelection([]domain.Selection{domain.WallSelection{WallID: w.ID}, domain.RoomSelection{RoomID: "ghost"}})
	assert.Equal(t, []domain.Selection{domain.WallSelection{WallID: w.ID}}, s.Selection())

	require.True(t, s.Redo())
	assert.Empty(t, s.Selection(), "redo removed the wall again")
}

func TestClickToggleAndMiss(t *testing.T) {
	s := newSession()
	w := mustWall(t, s, 0, 0, 100, 0)
	txt, err := s.AddText(geom.P(300, 300), "Hall", 13)
	require.NoError(t, err)

	_, ok := s.Click(geom.P(50, 1), false)
	require.True(t, ok)
	_, ok = s.Click(geom.P(305, 305), true)
	require.True(t, ok)
	assert.Equal(t, []domain.Selection{domain.WallSelection{WallID: w.ID}, domain.TextSelection{ID: txt.ID}}, s.Selection())

	_, ok = s.Click(geom.P(305, 305), true)
	require.True(t, ok)
	assert.Equal(t, []domain.Selection{domain.WallSelection{WallID: w.ID}}, s.Selection())

	_, ok = s.Click(geom.P(-900, -900), false)
	assert.False(t, ok)
	assert.Empty(t, s.Selection())
}

func TestBoxSelect(t *testing.T) {
	s := newSession()
	mustWall(t, s, 10, 10, 40, 40)
	mustWall(t, s, 100, 100, 200, 200)
	got := s.BoxSelect(geom.RectFromCorners(geom.P(0, 0), geom.P(50, 50)))
	require.Len(t, got, 1)
	assert.Equal(t, got, s.Selection())

	r, err := s.AddRoom("", []geom.Point{geom.P(0, 0), geom.P(10, 0), geom.P(0, 10)})
	require.NoError(t, err)
	verts := s.BoxSelectVertices(geom.RectFromCorners(geom.P(5, -1), geom.P(11, 1)))
	assert.Equal(t, []domain.Selection{domain.VertexSelection{RoomID: r.ID, Index: 1}}, verts)
}

func TestCorrectUsesDocumentAndDraft(t *testing.T) {
	s := newSession()
	mustWall(t, s, 0, 0, 100, 0)

	c := s.Correct(geom.P(98, 3), nil)
	assert.Equal(t, geom.P(100, 0), c.Point)

	s.SetDraft([]geom.Point{geom.P(300, 300)})
	c = s.Correct(geom.P(302, 297), nil)
	assert.Equal(t, geom.P(300, 300), c.Point)

	s.SetView(geom.View{Zoom: 4, PixelsPerUnit: 1})
	c = s.Correct(geom.P(304.5, 310.5), nil)
	assert.NotEqual(t, geom.P(300, 300), c.Point, "tolerance shrinks at higher zoom")
}

func TestCorrectTangentUsesLastWallLength(t *testing.T) {
	settings := DefaultSettings()
	settings.Snap.GridSpacing = 0
	s := NewSession(settings, &domain.SequenceSource{})
	mustWall(t, s, 0, 0, 100, 0)

	base := geom.P(200, 200)
	dir := geom.Polar(geom.P(0, 0), geom.Rad(20), 1)
	c := s.Correct(base.Add(dir.Scale(101)), &base)
	assert.Equal(t, snap.Tangent, c.Kind)
	assert.InDelta(t, 100.0, c.Point.Dist(base), 1e-9)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Snap.GridSpacing = 6
	cfg.History.UndoLimit = 5
	cfg.View.PixelsPerUnit = 3
	st := SettingsFromConfig(cfg)
	assert.Equal(t, 6.0, st.Snap.GridSpacing)
	assert.Equal(t, 5, st.UndoLimit)
	assert.Equal(t, 3.0, st.View.PixelsPerUnit)
	assert.Equal(t, 15.0, st.Selection.VertexPx)

	s := NewSession(st, nil)
	for i := 0; i < 8; i++ {
		_, err := s.AddText(geom.P(0, 0), "t", 10)
		require.NoError(t, err)
	}
	n := 0
	for s.Undo() {
		n++
	}
	assert.Equal(t, 5, n)
}
