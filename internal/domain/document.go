/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Document holds every mutable collection of one drafting session. It is
// owned by the caller and passed explicitly into the engine; nothing in the
// engine keeps a hidden reference to it.
type Document struct {
	Chains     []WallChain `json:"chains"`
	Rooms      []Room      `json:"rooms"`
	Openings   []Opening   `json:"openings"`
	Polylines  []Polyline  `json:"polylines"`
	Texts      []Text      `json:"texts"`
	Dimensions []Dimension `json:"dimensions"`
}

// Clone returns a deep value copy. Mutating the clone never affects d and
// vice versa; history snapshots rely on this.
func (d Document) Clone() Document {
	out := Document{
		Openings:   cloneSlice(d.Openings),
		Texts:      cloneSlice(d.Texts),
		Dimensions: cloneSlice(d.Dimensions),
	}
	if d.Chains != nil {
		out.Chains = make([]WallChain, len(d.Chains))
		for i, c := range d.Chains {
			out.Chains[i] = c.Clone()
		}
	}
	if d.Rooms != nil {
		out.Rooms = make([]Room, len(d.Rooms))
		for i, r := range d.Rooms {
			out.Rooms[i] = r.Clone()
		}
	}
	if d.Polylines != nil {
		out.Polylines = make([]Polyline, len(d.Polylines))
		for i, p := range d.Polylines {
			out.Polylines[i] = p.Clone()
		}
	}
	return out
}

// Walls returns all walls across chains in chain order.
func (d Document) Walls() []Wall {
	var out []Wall
	for _, c := range d.Chains {
		out = append(out, c.Walls...)
	}
	return out
}

// Wall looks up a wall by id.
func (d Document) Wall(id ID) (Wall, bool) {
	for _, c := range d.Chains {
		if i := c.Index(id); i >= 0 {
			return c.Walls[i], true
		}
	}
	return Wall{}, false
}

// RoomIndex returns the index of the room with the given id, or -1.
func (d Document) RoomIndex(id ID) int {
	for i := range d.Rooms {
		if d.Rooms[i].ID == id {
			return i
		}
	}
	return -1
}

// OpeningIndex returns the index of the opening with the given id, or -1.
func (d Document) OpeningIndex(id ID) int {
	for i := range d.Openings {
		if d.Openings[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Document) PolylineIndex(id ID) int {
	for i := range d.Polylines {
		if d.Polylines[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Document) TextIndex(id ID) int {
	for i := range d.Texts {
		if d.Texts[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Document) DimensionIndex(id ID) int {
	for i := range d.Dimensions {
		if d.Dimensions[i].ID == id {
			return i
		}
	}
	return -1
}

// Resolves reports whether the selection still points at a live entity.
// Stale selections (deleted walls, out-of-range vertices) return false.
func (d Document) Resolves(sel Selection) bool {
	switch s := sel.(type) {
	case WallSelection:
		_, ok := d.Wall(s.WallID)
		return ok
	case HandleSelection:
		_, ok := d.Wall(s.WallID)
		return ok
	case VertexSelection:
		i := d.RoomIndex(s.RoomID)
		return i >= 0 && s.Index >= 0 && s.Index < len(d.Rooms[i].Points)
	case RoomSelection:
		return d.RoomIndex(s.RoomID) >= 0
	case OpeningSelection:
		return d.OpeningIndex(s.OpeningID) >= 0
	case PolylineSelection:
		return d.PolylineIndex(s.ID) >= 0
	case TextSelection:
		return d.TextIndex(s.ID) >= 0
	case DimensionSelection:
		return d.DimensionIndex(s.ID) >= 0
	}
	return false
}

// Stats summarizes entity counts for logs and crash reports.
type Stats struct {
	Chains, Walls, Rooms, Openings, Polylines, Texts, Dimensions int
}

func (d Document) Stats() Stats {
	s := Stats{
		Chains:     len(d.Chains),
		Rooms:      len(d.Rooms),
		Openings:   len(d.Openings),
		Polylines:  len(d.Polylines),
		Texts:      len(d.Texts),
		Dimensions: len(d.Dimensions),
	}
	for _, c := range d.Chains {
		s.Walls += len(c.Walls)
	}
	return s
}
