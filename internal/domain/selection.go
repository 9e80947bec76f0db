/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Selection identifies one selectable entity by stable ID. The set of
// variants is closed: only types in this package implement it.
type Selection interface {
	Kind() SelectionKind
	isSelection()
}

// SelectionKind is a short tag used for logging and ordering.
type SelectionKind string

const (
	KindWall      SelectionKind = "wall"
	KindHandle    SelectionKind = "wall_handle"
	KindVertex    SelectionKind = "vertex"
	KindRoom      SelectionKind = "room"
	KindOpening   SelectionKind = "opening"
	KindPolyline  SelectionKind = "polyline"
	KindText      SelectionKind = "text"
	KindDimension SelectionKind = "dimension"
)

// WallSelection selects a whole wall.
type WallSelection struct{ WallID ID }

// HandleSelection selects one endpoint handle of a wall for dragging.
type HandleSelection struct {
	WallID   ID
	Endpoint Endpoint
}

// VertexSelection selects a single room vertex by index.
type VertexSelection struct {
	RoomID ID
	Index  int
}

// RoomSelection selects a whole room (box selection).
type RoomSelection struct{ RoomID ID }

// OpeningSelection selects a door or window. WallID and Ratio record where
// the opening sat when it was picked.
type OpeningSelection struct {
	OpeningID ID
	WallID    ID
	Ratio     float64
}

type PolylineSelection struct{ ID ID }
type TextSelection struct{ ID ID }
type DimensionSelection struct{ ID ID }

func (WallSelection) Kind() SelectionKind      { return KindWall }
func (HandleSelection) Kind() SelectionKind    { return KindHandle }
func (VertexSelection) Kind() SelectionKind    { return KindVertex }
func (RoomSelection) Kind() SelectionKind      { return KindRoom }
func (OpeningSelection) Kind() SelectionKind   { return KindOpening }
func (PolylineSelection) Kind() SelectionKind  { return KindPolyline }
func (TextSelection) Kind() SelectionKind      { return KindText }
func (DimensionSelection) Kind() SelectionKind { return KindDimension }

func (WallSelection) isSelection()      {}
func (HandleSelection) isSelection()    {}
func (VertexSelection) isSelection()    {}
func (RoomSelection) isSelection()      {}
func (OpeningSelection) isSelection()   {}
func (PolylineSelection) isSelection()  {}
func (TextSelection) isSelection()      {}
func (DimensionSelection) isSelection() {}

// SelectedWalls returns the wall IDs referenced by wall and handle selections,
// without duplicates and in first-seen order.
func SelectedWalls(sels []Selection) []ID {
	seen := make(map[ID]bool)
	var ids []ID
	for _, s := range sels {
		var id ID
		switch v := s.(type) {
		case WallSelection:
			id = v.WallID
		case HandleSelection:
			id = v.WallID
		default:
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
