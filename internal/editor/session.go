/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor provides Session, the explicit document/session object an
// input layer drives. It owns the live document, the selection and the undo
// history, and applies every structural edit as: copy the document, change
// the copy, push the previous state to history, swap. A failed edit leaves
// both the document and the history untouched.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
	"gofloorplan/internal/history"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/selection"
	"gofloorplan/internal/snap"
	"gofloorplan/internal/topology"
)

var (
	ErrUnknownWall     = errors.New("unknown wall")
	ErrUnknownRoom     = errors.New("unknown room")
	ErrUnknownOpening  = errors.New("unknown opening")
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrTooFewVertices  = errors.New("room needs at least 3 distinct vertices")
	ErrTooFewPoints    = errors.New("polyline needs at least 2 points")
	ErrVertexIndex     = errors.New("vertex index out of range")
	ErrNothingSelected = errors.New("nothing selected")
)

// Session is one open drawing. It is not safe for concurrent use.
type Session struct {
	settings Settings
	doc      domain.Document
	history  *history.Store
	ids      domain.IDSource
	selected []domain.Selection
	draft    []geom.Point
	lastWall domain.ID
	log      *slog.Logger
}

// NewSession starts an empty session. A nil ids falls back to UUIDs.
func NewSession(settings Settings, ids domain.IDSource) *Session {
	if ids == nil {
		ids = domain.UUIDSource{}
	}
	if settings.View.Zoom <= 0 {
		settings.View = geom.DefaultView()
	}
	return &Session{
		settings: settings,
		history:  history.NewStore(history.Config{Limit: settings.UndoLimit}),
		ids:      ids,
		log:      applog.WithComponent("editor"),
	}
}

// Document returns a copy of the live document.
func (s *Session) Document() domain.Document { return s.doc.Clone() }

// Load replaces the document wholesale and clears history and selection.
func (s *Session) Load(doc domain.Document) {
	s.doc = doc.Clone()
	s.history.Clear()
	s.selected = nil
	s.lastWall = ""
}

func (s *Session) Settings() Settings { return s.settings }

func (s *Session) View() geom.View { return s.settings.View }

// SetView updates zoom and pan; snap tolerances follow the new zoom.
func (s *Session) SetView(v geom.View) {
	if v.Zoom > 0 {
		s.settings.View = v
	}
}

func (s *Session) snapOptions() snap.Options {
	o := s.settings.Snap
	o.Zoom = s.settings.View.Zoom
	return o
}

// Selection returns the current selection descriptors.
func (s *Session) Selection() []domain.Selection {
	return append([]domain.Selection(nil), s.selected...)
}

// SetSelection replaces the selection, dropping descriptors that do not
// resolve against the document.
func (s *Session) SetSelection(sels []domain.Selection) {
	s.selected = append([]domain.Selection(nil), sels...)
	s.prune()
}

func (s *Session) prune() {
	kept := s.selected[:0]
	for _, sel := range s.selected {
		if s.doc.Resolves(sel) {
			kept = append(kept, sel)
		}
	}
	s.selected = kept
}

// SetDraft records the points of a drawing in progress; they take part in
// endpoint snapping and alignment.
func (s *Session) SetDraft(pts []geom.Point) { s.draft = append([]geom.Point(nil), pts...) }

// Correct snaps and aligns a cursor position against the document. base is
// the previous point of the segment being drawn, if any; it also anchors the
// tangent and distance rules. The last added wall drives the perpendicular
// rule and its length is the tangent radius.
func (s *Session) Correct(cursor geom.Point, base *geom.Point) snap.Correction {
	geo := snap.FromDocument(s.doc)
	geo.InProgress = s.draft
	geo.Anchor = base
	if w, ok := s.doc.Wall(s.lastWall); ok {
		geo.LastWall = &w
		geo.Radius = w.Length()
	}
	return snap.Correct(cursor, base, geo, s.snapOptions())
}

// Pick resolves a click at model point p without changing the selection.
func (s *Session) Pick(p geom.Point) (domain.Selection, bool) {
	return selection.Pick(s.doc, p, s.settings.View, s.selected, s.settings.Selection)
}

// Click picks at p and updates the selection. With additive the hit is
// added to the selection (or removed if already present); otherwise it
// replaces the selection. A miss without additive clears it.
func (s *Session) Click(p geom.Point, additive bool) (domain.Selection, bool) {
	hit, ok := s.Pick(p)
	switch {
	case !ok && !additive:
		s.selected = nil
	case ok && additive:
		s.toggle(hit)
	case ok:
		s.selected = []domain.Selection{hit}
	}
	return hit, ok
}

func (s *Session) toggle(sel domain.Selection) {
	for i, cur := range s.selected {
		if cur == sel {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
	s.selected = append(s.selected, sel)
}

// BoxSelect selects everything that touches rect and returns it.
func (s *Session) BoxSelect(rect geom.Rect) []domain.Selection {
	s.selected = selection.BoxSelect(s.doc, rect)
	return s.Selection()
}

// BoxSelectVertices selects the room vertices inside rect.
func (s *Session) BoxSelectVertices(rect geom.Rect) []domain.Selection {
	s.selected = selection.VerticesInRect(s.doc, rect)
	return s.Selection()
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// UndoLabel names the edit Undo would revert.
func (s *Session) UndoLabel() string { return s.history.UndoLabel() }

func (s *Session) Undo() bool {
	doc, ok := s.history.Undo(s.doc)
	if !ok {
		return false
	}
	s.doc = doc
	s.prune()
	s.log.Debug("undo", slog.Int("remaining", s.history.Len()))
	return true
}

func (s *Session) Redo() bool {
	doc, ok := s.history.Redo(s.doc)
	if !ok {
		return false
	}
	s.doc = doc
	s.prune()
	s.log.Debug("redo", slog.Int("remaining", s.history.RedoLen()))
	return true
}

// edit applies fn to a copy of the document. On success the previous
// document goes to history under label and the copy becomes live.
func (s *Session) edit(label string, fn func(doc *domain.Document) error) error {
	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		s.log.Debug("edit rejected", slog.String("op", label), slog.Any("err", err))
		return fmt.Errorf("%s: %w", label, err)
	}
	s.history.Push(s.doc, label)
	s.doc = next
	s.prune()
	st := s.doc.Stats()
	s.log.Debug("edit applied", slog.String("op", label), slog.Int("walls", st.Walls), slog.Int("rooms", st.Rooms))
	return nil
}

func (s *Session) topology(doc *domain.Document) *topology.Topology {
	return topology.New(doc.Chains, s.settings.JoinTolerance, s.settings.JointTolerance)
}
