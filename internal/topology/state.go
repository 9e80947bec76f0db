/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package topology

import (
	"log/slog"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
	applog "gofloorplan/internal/log"
)

// Topology owns the wall chains of one document. It is not safe for
// concurrent use.
type Topology struct {
	Chains []domain.WallChain
	// JoinTolerance links walls into chains; JointTolerance decides which
	// endpoints move together during a drag.
	JoinTolerance  float64
	JointTolerance float64
}

func New(chains []domain.WallChain, joinTol, jointTol float64) *Topology {
	return &Topology{Chains: chains, JoinTolerance: joinTol, JointTolerance: jointTol}
}

func (t *Topology) logger(op string) *slog.Logger {
	return applog.WithOperation(applog.WithComponent("topology"), op)
}

// Add attaches w to a chain end it touches or starts a new chain.
func (t *Topology) Add(w domain.Wall) {
	var idx int
	t.Chains, idx = AttachWall(t.Chains, w, t.JoinTolerance)
	t.logger("add").Debug("wall added", slog.String("wall", string(w.ID)), slog.Int("chain", idx))
}

// Join merges every chain that contains one of ids into a single chain at
// the position of the first such chain. Leftover walls are logged.
func (t *Topology) Join(ids []domain.ID) []Warning {
	set := idSet(ids)
	var picked []domain.WallChain
	var rest []domain.WallChain
	at := -1
	for _, c := range t.Chains {
		touched := false
		for _, w := range c.Walls {
			if set[w.ID] {
				touched = true
				break
			}
		}
		if touched {
			if at < 0 {
				at = len(rest)
			}
			picked = append(picked, c)
			continue
		}
		rest = append(rest, c)
	}
	if len(picked) == 0 {
		return nil
	}
	joined, warns := Join(picked, t.JoinTolerance)
	out := make([]domain.WallChain, 0, len(rest)+1)
	out = append(out, rest[:at]...)
	out = append(out, joined)
	t.Chains = append(out, rest[at:]...)
	t.report("join", warns)
	return warns
}

// JoinAll regroups every wall by connectivity.
func (t *Topology) JoinAll() {
	before := len(t.Chains)
	t.Chains = JoinAllConnected(t.Chains, t.JoinTolerance)
	t.logger("join_all").Debug("chains rebuilt", slog.Int("before", before), slog.Int("after", len(t.Chains)))
}

func (t *Topology) Separate(ids []domain.ID) {
	t.Chains = Separate(ids, t.Chains, t.JoinTolerance)
}

func (t *Topology) Remove(ids []domain.ID) {
	t.Chains = RemoveWalls(ids, t.Chains, t.JoinTolerance)
}

// Split splits wall id at the projection of at (midpoint when nil).
func (t *Topology) Split(id domain.ID, at *geom.Point, ids domain.IDSource) (domain.Wall, domain.Wall, bool) {
	chains, a, b, ok := Split(t.Chains, id, at, ids)
	if !ok {
		t.logger("split").Warn("wall not found", slog.String("wall", string(id)))
		return a, b, false
	}
	t.Chains = chains
	return a, b, true
}

// MoveEndpoint drags an endpoint and everything sharing its joint.
func (t *Topology) MoveEndpoint(id domain.ID, handle domain.Endpoint, p geom.Point, snapFn SnapFunc) geom.Point {
	var got geom.Point
	t.Chains, got = PropagateEndpointMove(t.Chains, id, handle, p, t.JointTolerance, snapFn)
	return got
}

func (t *Topology) Wall(id domain.ID) (domain.Wall, bool) { return FindWall(t.Chains, id) }

func (t *Topology) report(op string, warns []Warning) {
	if len(warns) == 0 {
		return
	}
	l := t.logger(op)
	for _, w := range warns {
		l.Warn("wall left unlinked", slog.String("wall", string(w.WallID)), slog.String("reason", w.Message))
	}
}
