/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history keeps bounded undo/redo stacks of whole-document
// snapshots. Snapshots are deep copies going in and coming out, so editing
// the live document never changes what history will restore.
package history

import (
	"log/slog"
	"time"

	"gofloorplan/internal/domain"
	applog "gofloorplan/internal/log"
)

// DefaultLimit is the undo depth used when Config.Limit is not positive.
const DefaultLimit = 50

// Snapshot is one restorable document state. Label names the edit that
// followed it, e.g. "split wall".
type Snapshot struct {
	Doc   domain.Document
	Label string
	TS    time.Time
}

// Config controls the stack depth.
type Config struct {
	// Limit caps the undo stack; the oldest snapshot is evicted first.
	Limit int
}

// Store provides undo/redo over document snapshots. It is not safe for
// concurrent use.
type Store struct {
	cfg  Config
	undo []Snapshot
	redo []Snapshot
	now  func() time.Time
}

func NewStore(cfg Config) *Store {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Store{cfg: cfg, now: time.Now}
}

func (s *Store) Limit() int { return s.cfg.Limit }

// Push records doc as the state before an edit. Any new change invalidates
// redo.
func (s *Store) Push(doc domain.Document, label string) {
	s.undo = append(s.undo, Snapshot{Doc: doc.Clone(), Label: label, TS: s.now()})
	s.redo = nil
	s.enforceLimit()
}

// Undo pops the newest snapshot and returns a copy for the caller to apply.
// current, the live state being replaced, moves onto the redo stack. With
// nothing to undo it returns false and changes nothing.
func (s *Store) Undo(current domain.Document) (domain.Document, bool) {
	if len(s.undo) == 0 {
		return domain.Document{}, false
	}
	snap := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, Snapshot{Doc: current.Clone(), Label: snap.Label, TS: s.now()})
	return snap.Doc.Clone(), true
}

// Redo is the mirror of Undo.
func (s *Store) Redo(current domain.Document) (domain.Document, bool) {
	if len(s.redo) == 0 {
		return domain.Document{}, false
	}
	snap := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, Snapshot{Doc: current.Clone(), Label: snap.Label, TS: s.now()})
	s.enforceLimit()
	return snap.Doc.Clone(), true
}

func (s *Store) Len() int      { return len(s.undo) }
func (s *Store) RedoLen() int  { return len(s.redo) }
func (s *Store) CanUndo() bool { return len(s.undo) > 0 }
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }

// UndoLabel names the edit Undo would revert, or "".
func (s *Store) UndoLabel() string {
	if len(s.undo) == 0 {
		return ""
	}
	return s.undo[len(s.undo)-1].Label
}

// RedoLabel names the edit Redo would reapply, or "".
func (s *Store) RedoLabel() string {
	if len(s.redo) == 0 {
		return ""
	}
	return s.redo[len(s.redo)-1].Label
}

// Clear drops both stacks.
func (s *Store) Clear() {
	s.undo = nil
	s.redo = nil
}

func (s *Store) enforceLimit() {
	drop := len(s.undo) - s.cfg.Limit
	if drop <= 0 {
		return
	}
	s.undo = append([]Snapshot{}, s.undo[drop:]...)
	applog.WithOperation(applog.WithComponent("history"), "evict").Debug("dropped oldest snapshots",
		slog.Int("count", drop), slog.Int("limit", s.cfg.Limit))
}
