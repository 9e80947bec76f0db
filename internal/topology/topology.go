/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package topology maintains wall chains: ordered, endpoint-continuous runs
// of walls. The free functions are pure and return new chains built from
// copied wall values; Topology wraps them with state and logging for an
// editing session.
package topology

import (
	"fmt"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/geom"
)

// Warning reports a wall that could not be linked while joining. The wall
// is kept, appended at the end of the result.
type Warning struct {
	WallID  domain.ID
	Message string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.WallID, w.Message) }

// SnapFunc optionally corrects a dragged endpoint p relative to pivot, the
// opposite endpoint of a connected wall.
type SnapFunc func(p, pivot geom.Point) (geom.Point, bool)

// GroupByConnectivity partitions walls into chains. Each chain starts from
// the first remaining wall and greedily absorbs any wall whose start or end
// lies within tol of the chain's head or tail, reversing it when needed and
// snapping the matching endpoint onto the exact joint. Passes repeat until
// nothing is absorbed. A chain that closes into a loop stops growing.
// Walls that connect to nothing become singleton chains.
func GroupByConnectivity(walls []domain.Wall, tol float64) []domain.WallChain {
	pool := append([]domain.Wall(nil), walls...)
	var chains []domain.WallChain
	for len(pool) > 0 {
		var chain []domain.Wall
		chain, pool = grow([]domain.Wall{pool[0]}, pool[1:], tol)
		chains = append(chains, domain.WallChain{Walls: chain})
	}
	return chains
}

// IsClosed reports whether the chain loops back: three or more walls with
// the tail within tol of the head.
func IsClosed(c domain.WallChain, tol float64) bool { return c.Closed(tol) }

func closed(chain []domain.Wall, tol float64) bool {
	return IsClosed(domain.WallChain{Walls: chain}, tol)
}

// grow absorbs walls from pool into chain and returns the chain together
// with the walls left over, in their original order.
func grow(chain, pool []domain.Wall, tol float64) ([]domain.Wall, []domain.Wall) {
	for len(pool) > 0 && !closed(chain, tol) {
		absorbed := false
		rest := make([]domain.Wall, 0, len(pool))
		for _, w := range pool {
			if closed(chain, tol) {
				rest = append(rest, w)
				continue
			}
			var ok bool
			chain, ok = absorb(chain, w, tol)
			if !ok {
				rest = append(rest, w)
				continue
			}
			absorbed = true
		}
		pool = rest
		if !absorbed {
			break
		}
	}
	if closed(chain, tol) {
		last := len(chain) - 1
		chain[last] = chain[last].WithPoint(domain.End, chain[0].Start)
	}
	return chain, pool
}

// absorb links w to the tail or head of chain if one of its endpoints is
// within tol, orienting it to run with the chain.
func absorb(chain []domain.Wall, w domain.Wall, tol float64) ([]domain.Wall, bool) {
	head, tail := chain[0].Start, chain[len(chain)-1].End
	switch {
	case w.Start.Near(tail, tol):
		return append(chain, w.WithPoint(domain.Start, tail)), true
	case w.End.Near(tail, tol):
		return append(chain, w.Reversed().WithPoint(domain.Start, tail)), true
	case w.End.Near(head, tol):
		return prepend(chain, w.WithPoint(domain.End, head)), true
	case w.Start.Near(head, tol):
		return prepend(chain, w.Reversed().WithPoint(domain.End, head)), true
	}
	return chain, false
}

func prepend(chain []domain.Wall, w domain.Wall) []domain.Wall {
	out := make([]domain.Wall, 0, len(chain)+1)
	out = append(out, w)
	return append(out, chain...)
}

// Join flattens chains into a single chain grown from the first wall. Walls
// that cannot be linked are appended at the end and reported as warnings.
func Join(chains []domain.WallChain, tol float64) (domain.WallChain, []Warning) {
	walls := Walls(chains)
	if len(walls) == 0 {
		return domain.WallChain{}, nil
	}
	chain, left := grow([]domain.Wall{walls[0]}, walls[1:], tol)
	var warns []Warning
	for _, w := range left {
		chain = append(chain, w)
		warns = append(warns, Warning{WallID: w.ID, Message: "not connected to the joined chain"})
	}
	return domain.WallChain{Walls: chain}, warns
}

// Separate removes the walls named by ids from their chains. The remainder
// of each affected chain is regrouped in place and the extracted walls are
// regrouped into chains appended at the end. Unaffected chains are returned
// unchanged.
func Separate(ids []domain.ID, chains []domain.WallChain, tol float64) []domain.WallChain {
	set := idSet(ids)
	var out []domain.WallChain
	var extracted []domain.Wall
	for _, c := range chains {
		keep, taken := partition(c.Walls, set)
		if len(taken) == 0 {
			out = append(out, c.Clone())
			continue
		}
		extracted = append(extracted, taken...)
		out = append(out, GroupByConnectivity(keep, tol)...)
	}
	return append(out, GroupByConnectivity(extracted, tol)...)
}

// RemoveWalls deletes the walls named by ids. Affected chains are regrouped
// so the result stays endpoint-continuous; chains left empty disappear.
func RemoveWalls(ids []domain.ID, chains []domain.WallChain, tol float64) []domain.WallChain {
	set := idSet(ids)
	var out []domain.WallChain
	for _, c := range chains {
		keep, taken := partition(c.Walls, set)
		if len(taken) == 0 {
			out = append(out, c.Clone())
			continue
		}
		out = append(out, GroupByConnectivity(keep, tol)...)
	}
	return out
}

func idSet(ids []domain.ID) map[domain.ID]bool {
	set := make(map[domain.ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func partition(walls []domain.Wall, set map[domain.ID]bool) (keep, taken []domain.Wall) {
	for _, w := range walls {
		if set[w.ID] {
			taken = append(taken, w)
		} else {
			keep = append(keep, w)
		}
	}
	return keep, taken
}

// Split replaces wall id with two walls joined at the split point. at is
// projected onto the wall; nil splits at the midpoint. Both halves receive
// new IDs from ids and keep every other attribute. The halves take the
// wall's place in its chain. ok is false if no wall has that id.
func Split(chains []domain.WallChain, id domain.ID, at *geom.Point, ids domain.IDSource) (out []domain.WallChain, first, second domain.Wall, ok bool) {
	ci, wi, ok := Locate(chains, id)
	if !ok {
		return Clone(chains), domain.Wall{}, domain.Wall{}, false
	}
	w := chains[ci].Walls[wi]
	p := w.Midpoint()
	if at != nil {
		p, _ = geom.ProjectOntoSegment(*at, w.Start, w.End)
	}
	first = w.WithPoint(domain.End, p)
	first.ID = ids.NewID()
	second = w.WithPoint(domain.Start, p)
	second.ID = ids.NewID()

	out = Clone(chains)
	old := out[ci].Walls
	walls := make([]domain.Wall, 0, len(old)+1)
	walls = append(walls, old[:wi]...)
	walls = append(walls, first, second)
	walls = append(walls, old[wi+1:]...)
	out[ci].Walls = walls
	return out, first, second, true
}

// PropagateEndpointMove drags one endpoint of wall id to p. Every endpoint
// of every wall within tol of the original joint moves with it, so walls
// sharing the joint stay connected. When snapFn is set it is tried for each
// connected wall against that wall's opposite endpoint; the first success
// replaces p. The returned point is where the joint ended up.
func PropagateEndpointMove(chains []domain.WallChain, id domain.ID, handle domain.Endpoint, p geom.Point, tol float64, snapFn SnapFunc) ([]domain.WallChain, geom.Point) {
	out := Clone(chains)
	w, ok := FindWall(chains, id)
	if !ok {
		return out, p
	}
	joint := w.Point(handle)

	if snapFn != nil {
	search:
		for _, c := range out {
			for _, x := range c.Walls {
				for _, e := range []domain.Endpoint{domain.Start, domain.End} {
					if !x.Point(e).Near(joint, tol) {
						continue
					}
					pivot := x.Point(e.Other())
					if pivot.Near(joint, tol) {
						continue
					}
					if q, ok := snapFn(p, pivot); ok {
						p = q
						break search
					}
				}
			}
		}
	}

	for ci := range out {
		for wi, x := range out[ci].Walls {
			for _, e := range []domain.Endpoint{domain.Start, domain.End} {
				if x.Point(e).Near(joint, tol) {
					x = x.WithPoint(e, p)
				}
			}
			out[ci].Walls[wi] = x
		}
	}
	return out, p
}

// AttachWall adds w to the first open chain whose head or tail it touches
// within tol, or as a new singleton chain otherwise. When the grown chain
// now meets other open chains they are linked into it, so a wall bridging
// two chains leaves one. It returns the chains and the index of the chain
// that received the wall.
func AttachWall(chains []domain.WallChain, w domain.Wall, tol float64) ([]domain.WallChain, int) {
	out := Clone(chains)
	for i, c := range out {
		if c.Len() == 0 || IsClosed(c, tol) {
			continue
		}
		if walls, ok := absorb(c.Walls, w, tol); ok {
			out[i].Walls = walls
			return bridge(out, i, tol)
		}
	}
	return append(out, domain.WallChain{Walls: []domain.Wall{w}}), len(out)
}

// bridge links every open chain touching the head or tail of chains[i] into
// it and returns the chains with the new index of the grown chain.
func bridge(chains []domain.WallChain, i int, tol float64) ([]domain.WallChain, int) {
	for merged := true; merged; {
		merged = false
		for j := range chains {
			if j == i || chains[j].Len() == 0 || IsClosed(chains[i], tol) || IsClosed(chains[j], tol) {
				continue
			}
			walls, ok := link(chains[i].Walls, chains[j].Walls, tol)
			if !ok {
				continue
			}
			chains[i].Walls = walls
			chains = append(chains[:j], chains[j+1:]...)
			if j < i {
				i--
			}
			merged = true
			break
		}
	}
	chains[i].Walls, _ = grow(chains[i].Walls, nil, tol)
	return chains, i
}

// link joins other onto whichever end of chain it meets, reversing other
// when needed and snapping its end onto the joint.
func link(chain, other []domain.Wall, tol float64) ([]domain.Wall, bool) {
	head, tail := chain[0].Start, chain[len(chain)-1].End
	first, last := other[0].Start, other[len(other)-1].End
	switch {
	case first.Near(tail, tol):
		other = append([]domain.Wall(nil), other...)
	case last.Near(tail, tol):
		other = reverseWalls(other)
	case last.Near(head, tol):
		other = append([]domain.Wall(nil), other...)
		n := len(other) - 1
		other[n] = other[n].WithPoint(domain.End, head)
		return append(other, chain...), true
	case first.Near(head, tol):
		other = reverseWalls(other)
		n := len(other) - 1
		other[n] = other[n].WithPoint(domain.End, head)
		return append(other, chain...), true
	default:
		return chain, false
	}
	other[0] = other[0].WithPoint(domain.Start, tail)
	return append(chain, other...), true
}

func reverseWalls(walls []domain.Wall) []domain.Wall {
	out := make([]domain.Wall, len(walls))
	for i, w := range walls {
		out[len(walls)-1-i] = w.Reversed()
	}
	return out
}

// JoinAllConnected rebuilds every chain from scratch by connectivity.
func JoinAllConnected(chains []domain.WallChain, tol float64) []domain.WallChain {
	return GroupByConnectivity(Walls(chains), tol)
}

// Walls flattens chains into a single slice in chain order.
func Walls(chains []domain.WallChain) []domain.Wall {
	var out []domain.Wall
	for _, c := range chains {
		out = append(out, c.Walls...)
	}
	return out
}

// Locate returns the chain and position of wall id.
func Locate(chains []domain.WallChain, id domain.ID) (ci, wi int, ok bool) {
	for ci, c := range chains {
		if wi := c.Index(id); wi >= 0 {
			return ci, wi, true
		}
	}
	return -1, -1, false
}

func FindWall(chains []domain.WallChain, id domain.ID) (domain.Wall, bool) {
	ci, wi, ok := Locate(chains, id)
	if !ok {
		return domain.Wall{}, false
	}
	return chains[ci].Walls[wi], true
}

// Clone deep-copies a chain list.
func Clone(chains []domain.WallChain) []domain.WallChain {
	if chains == nil {
		return nil
	}
	out := make([]domain.WallChain, len(chains))
	for i, c := range chains {
		out[i] = c.Clone()
	}
	return out
}
