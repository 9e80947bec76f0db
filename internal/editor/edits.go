/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"
	"log/slog"
	"slices"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
	"gofloorplan/internal/snap"
	"gofloorplan/internal/topology"
)

// AddWall creates a wall from start to end with default dimensions and links
// it to a chain end it touches; chains it bridges become one. Zero-length
// walls are accepted.
func (s *Session) AddWall(start, end geom.Point) (domain.Wall, error) {
	w := domain.Wall{
		ID:     s.ids.NewID(),
		Start:  start,
		End:    end,
		Width:  domain.DefaultWallWidth,
		Height: domain.DefaultWallHeight,
	}
	err := s.edit("add wall", func(doc *domain.Document) error {
		before := wallIndex(doc)
		t := s.topology(doc)
		t.Add(w)
		doc.Chains = t.Chains
		followReversals(doc, before)
		return nil
	})
	if err != nil {
		return domain.Wall{}, err
	}
	s.lastWall = w.ID
	got, _ := s.doc.Wall(w.ID)
	return got, nil
}

// AddRoom creates a room. Repeated consecutive vertices and a closing
// duplicate of the first vertex are dropped before the size check.
func (s *Session) AddRoom(name string, pts []geom.Point) (domain.Room, error) {
	r := domain.Room{ID: s.ids.NewID(), Name: name, Points: uniqueVertices(pts)}
	err := s.edit("add room", func(doc *domain.Document) error {
		if !r.Valid() {
			return fmt.Errorf("%w: got %d", ErrTooFewVertices, len(r.Points))
		}
		doc.Rooms = append(doc.Rooms, r.Clone())
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	return r, nil
}

func uniqueVertices(pts []geom.Point) []geom.Point {
	const eps = 1e-9
	var out []geom.Point
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].Near(p, eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Near(out[0], eps) {
		out = out[:len(out)-1]
	}
	return out
}

// AddOpening places a door or window on wall at ratio (clamped to [0,1]).
// An empty wallID creates a floating opening.
func (s *Session) AddOpening(kind domain.OpeningKind, wallID domain.ID, ratio, width, height float64) (domain.Opening, error) {
	o := domain.Opening{ID: s.ids.NewID(), Kind: kind, WallID: wallID, Width: width, Height: height}
	o.SetRatio(ratio)
	err := s.edit("add "+string(kind), func(doc *domain.Document) error {
		if wallID != "" {
			if _, ok := doc.Wall(wallID); !ok {
				return fmt.Errorf("%w %q", ErrUnknownWall, wallID)
			}
		}
		doc.Openings = append(doc.Openings, o)
		return nil
	})
	if err != nil {
		return domain.Opening{}, err
	}
	return o, nil
}

func (s *Session) AddPolyline(pts []geom.Point) (domain.Polyline, error) {
	p := domain.Polyline{ID: s.ids.NewID(), Points: append([]geom.Point(nil), pts...)}
	err := s.edit("add polyline", func(doc *domain.Document) error {
		if len(p.Points) < 2 {
			return ErrTooFewPoints
		}
		doc.Polylines = append(doc.Polylines, p.Clone())
		return nil
	})
	if err != nil {
		return domain.Polyline{}, err
	}
	return p, nil
}

func (s *Session) AddText(pos geom.Point, content string, size float64) (domain.Text, error) {
	t := domain.Text{ID: s.ids.NewID(), Position: pos, Content: content, Size: size}
	err := s.edit("add text", func(doc *domain.Document) error {
		doc.Texts = append(doc.Texts, t)
		return nil
	})
	return t, err
}

func (s *Session) AddDimension(start, end geom.Point, offset float64) (domain.Dimension, error) {
	d := domain.Dimension{ID: s.ids.NewID(), Start: start, End: end, Offset: offset}
	err := s.edit("add dimension", func(doc *domain.Document) error {
		doc.Dimensions = append(doc.Dimensions, d)
		return nil
	})
	return d, err
}

// MoveHandle drags one endpoint of a wall. Every endpoint sharing the joint
// follows. When snapping is enabled the new point is angle-snapped against
// the far end of the first connected wall that accepts it. The returned
// point is where the joint landed.
func (s *Session) MoveHandle(wallID domain.ID, handle domain.Endpoint, p geom.Point) (geom.Point, error) {
	opts := s.snapOptions()
	var snapFn topology.SnapFunc
	if opts.Enabled {
		snapFn = func(p, pivot geom.Point) (geom.Point, bool) { return snap.AngleAround(p, pivot, opts) }
	}
	var landed geom.Point
	err := s.edit("move wall endpoint", func(doc *domain.Document) error {
		t := s.topology(doc)
		if _, ok := t.Wall(wallID); !ok {
			return fmt.Errorf("%w %q", ErrUnknownWall, wallID)
		}
		landed = t.MoveEndpoint(wallID, handle, p, snapFn)
		doc.Chains = t.Chains
		return nil
	})
	return landed, err
}

func (s *Session) MoveRoomVertex(roomID domain.ID, index int, p geom.Point) error {
	return s.edit("move room vertex", func(doc *domain.Document) error {
		i := doc.RoomIndex(roomID)
		if i < 0 {
			return fmt.Errorf("%w %q", ErrUnknownRoom, roomID)
		}
		if index < 0 || index >= len(doc.Rooms[i].Points) {
			return fmt.Errorf("%w: %d", ErrVertexIndex, index)
		}
		doc.Rooms[i].Points[index] = p
		return nil
	})
}

// SplitWall splits a wall at the projection of at (midpoint when nil).
// Openings on the wall move to the half that contains them, with their
// ratio rescaled to that half.
func (s *Session) SplitWall(wallID domain.ID, at *geom.Point) (domain.Wall, domain.Wall, error) {
	var a, b domain.Wall
	err := s.edit("split wall", func(doc *domain.Document) error {
		orig, ok := doc.Wall(wallID)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownWall, wallID)
		}
		t := s.topology(doc)
		a, b, _ = t.Split(wallID, at, s.ids)
		doc.Chains = t.Chains
		rehomeOpenings(doc, orig, a, b)
		return nil
	})
	return a, b, err
}

func rehomeOpenings(doc *domain.Document, orig, a, b domain.Wall) {
	split := 0.5
	if l := orig.Length(); l > 0 {
		split = a.Length() / l
	}
	for i := range doc.Openings {
		o := &doc.Openings[i]
		if o.WallID != orig.ID {
			continue
		}
		switch {
		case o.Ratio <= split && split > 0:
			o.WallID = a.ID
			o.SetRatio(o.Ratio / split)
		case o.Ratio <= split:
			o.WallID = a.ID
			o.SetRatio(0)
		case split < 1:
			o.WallID = b.ID
			o.SetRatio((o.Ratio - split) / (1 - split))
		default:
			o.WallID = b.ID
			o.SetRatio(1)
		}
	}
}

// JoinWalls merges the chains containing the given walls into one chain.
// Walls that cannot be linked stay in it, appended at the end, and are
// reported as warnings.
func (s *Session) JoinWalls(ids []domain.ID) ([]topology.Warning, error) {
	var warns []topology.Warning
	err := s.edit("join walls", func(doc *domain.Document) error {
		if len(ids) == 0 {
			return ErrNothingSelected
		}
		if err := requireWalls(doc, ids); err != nil {
			return err
		}
		before := wallIndex(doc)
		t := s.topology(doc)
		warns = t.Join(ids)
		doc.Chains = t.Chains
		followReversals(doc, before)
		return nil
	})
	return warns, err
}

// JoinAllConnected rebuilds every chain by connectivity.
func (s *Session) JoinAllConnected() error {
	return s.edit("join all connected", func(doc *domain.Document) error {
		before := wallIndex(doc)
		t := s.topology(doc)
		t.JoinAll()
		doc.Chains = t.Chains
		followReversals(doc, before)
		return nil
	})
}

// SeparateWalls pulls the given walls out of their chains.
func (s *Session) SeparateWalls(ids []domain.ID) error {
	return s.edit("separate walls", func(doc *domain.Document) error {
		if len(ids) == 0 {
			return ErrNothingSelected
		}
		if err := requireWalls(doc, ids); err != nil {
			return err
		}
		before := wallIndex(doc)
		t := s.topology(doc)
		t.Separate(ids)
		doc.Chains = t.Chains
		followReversals(doc, before)
		return nil
	})
}

func requireWalls(doc *domain.Document, ids []domain.ID) error {
	for _, id := range ids {
		if _, ok := doc.Wall(id); !ok {
			return fmt.Errorf("%w %q", ErrUnknownWall, id)
		}
	}
	return nil
}

func wallIndex(doc *domain.Document) map[domain.ID]domain.Wall {
	m := make(map[domain.ID]domain.Wall)
	for _, w := range doc.Walls() {
		m[w.ID] = w
	}
	return m
}

// followReversals flips the ratio of openings whose host wall was reversed
// by regrouping, so they stay at the same place on the plan.
func followReversals(doc *domain.Document, before map[domain.ID]domain.Wall) {
	for i := range doc.Openings {
		o := &doc.Openings[i]
		old, ok := before[o.WallID]
		if !ok {
			continue
		}
		now, ok := doc.Wall(o.WallID)
		if ok && old.Direction().Dot(now.Direction()) < 0 {
			o.SetRatio(1 - o.Ratio)
		}
	}
}

// SetOpeningRatio moves an opening along its wall; r is clamped to [0,1].
func (s *Session) SetOpeningRatio(id domain.ID, r float64) error {
	return s.edit("move opening", func(doc *domain.Document) error {
		i := doc.OpeningIndex(id)
		if i < 0 {
			return fmt.Errorf("%w %q", ErrUnknownOpening, id)
		}
		doc.Openings[i].SetRatio(r)
		return nil
	})
}

// Delete removes the selected entities. Deleted walls leave their openings
// floating. Vertex selections remove single room vertices; a room left with
// fewer than three vertices is removed. It returns the number of
// descriptors that resolved.
func (s *Session) Delete(sels []domain.Selection) (int, error) {
	n := 0
	err := s.edit("delete", func(doc *domain.Document) error {
		if len(sels) == 0 {
			return ErrNothingSelected
		}
		var walls []domain.ID
		vertices := make(map[domain.ID][]int)
		drop := make(map[domain.SelectionKind]map[domain.ID]bool)
		mark := func(k domain.SelectionKind, id domain.ID) {
			if drop[k] == nil {
				drop[k] = make(map[domain.ID]bool)
			}
			drop[k][id] = true
		}
		for _, sel := range sels {
			if !doc.Resolves(sel) {
				continue
			}
			n++
			switch v := sel.(type) {
			case domain.WallSelection:
				walls = append(walls, v.WallID)
			case domain.HandleSelection:
				walls = append(walls, v.WallID)
			case domain.VertexSelection:
				vertices[v.RoomID] = append(vertices[v.RoomID], v.Index)
			case domain.RoomSelection:
				mark(domain.KindRoom, v.RoomID)
			case domain.OpeningSelection:
				mark(domain.KindOpening, v.OpeningID)
			case domain.PolylineSelection:
				mark(domain.KindPolyline, v.ID)
			case domain.TextSelection:
				mark(domain.KindText, v.ID)
			case domain.DimensionSelection:
				mark(domain.KindDimension, v.ID)
			}
		}
		if n == 0 {
			return ErrUnknownEntity
		}

		if len(walls) > 0 {
			before := wallIndex(doc)
			t := s.topology(doc)
			t.Remove(walls)
			doc.Chains = t.Chains
			followReversals(doc, before)
			gone := make(map[domain.ID]bool, len(walls))
			for _, id := range walls {
				gone[id] = true
			}
			for i := range doc.Openings {
				if gone[doc.Openings[i].WallID] {
					doc.Openings[i].WallID = ""
				}
			}
		}

		for i := range doc.Rooms {
			idx := vertices[doc.Rooms[i].ID]
			if len(idx) == 0 {
				continue
			}
			slices.Sort(idx)
			idx = slices.Compact(idx)
			pts := doc.Rooms[i].Points
			for j := len(idx) - 1; j >= 0; j-- {
				pts = slices.Delete(pts, idx[j], idx[j]+1)
			}
			doc.Rooms[i].Points = pts
			if !doc.Rooms[i].Valid() {
				s.log.Info("room removed after vertex delete", slog.String("room", string(doc.Rooms[i].ID)))
				mark(domain.KindRoom, doc.Rooms[i].ID)
			}
		}

		doc.Rooms = slices.DeleteFunc(doc.Rooms, func(r domain.Room) bool { return drop[domain.KindRoom][r.ID] })
		doc.Openings = slices.DeleteFunc(doc.Openings, func(o domain.Opening) bool { return drop[domain.KindOpening][o.ID] })
		doc.Polylines = slices.DeleteFunc(doc.Polylines, func(p domain.Polyline) bool { return drop[domain.KindPolyline][p.ID] })
		doc.Texts = slices.DeleteFunc(doc.Texts, func(t domain.Text) bool { return drop[domain.KindText][t.ID] })
		doc.Dimensions = slices.DeleteFunc(doc.Dimensions, func(d domain.Dimension) bool { return drop[domain.KindDimension][d.ID] })
		return nil
	})
	return n, err
}

// DeleteSelection deletes the current selection.
func (s *Session) DeleteSelection() (int, error) {
	n, err := s.Delete(s.selected)
	if err == nil {
		s.selected = nil
	}
	return n, err
}
