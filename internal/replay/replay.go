/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package replay drives an editor session from a YAML command script. The
// CLI uses it to exercise the engine without a user interface.
package replay

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"gofloorplan/internal/domain"
	"gofloorplan/internal/editor"
	"gofloorplan/internal/geom"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/topology"
)

var (
	ErrInvalid     = errors.New("invalid replay script")
	ErrUnknownOp   = errors.New("unknown op")
	ErrUnknownRef  = errors.New("unknown ref")
	ErrExpectation = errors.New("expectation failed")
)

//go:embed schema.json
var schemaJSON []byte

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("load script %s: %w", path, err)
	}
	return sc, nil
}

// Parse validates a YAML script against the embedded schema and decodes it.
func Parse(data []byte) (Script, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Script{}, fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return Script{}, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Script{}, fmt.Errorf("schema validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Script{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	var sc Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Script{}, fmt.Errorf("decode: %w", err)
	}
	return sc, nil
}

// Summary is the session state after a run.
type Summary struct {
	Name     string
	Steps    int
	Stats    domain.Stats
	Selected int
	Warnings []topology.Warning
	CanUndo  bool
	CanRedo  bool
}

// Print writes a short human-readable report.
func (s Summary) Print(w io.Writer) {
	name := s.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "script:     %s\n", name)
	fmt.Fprintf(w, "steps:      %d\n", s.Steps)
	fmt.Fprintf(w, "chains:     %d\n", s.Stats.Chains)
	fmt.Fprintf(w, "walls:      %d\n", s.Stats.Walls)
	fmt.Fprintf(w, "rooms:      %d\n", s.Stats.Rooms)
	fmt.Fprintf(w, "openings:   %d\n", s.Stats.Openings)
	fmt.Fprintf(w, "annotations: %d polylines, %d texts, %d dimensions\n", s.Stats.Polylines, s.Stats.Texts, s.Stats.Dimensions)
	fmt.Fprintf(w, "selected:   %d\n", s.Selected)
	fmt.Fprintf(w, "undo/redo:  %t/%t\n", s.CanUndo, s.CanRedo)
	for _, wr := range s.Warnings {
		fmt.Fprintf(w, "warning:    %s\n", wr)
	}
}

type target struct {
	kind domain.SelectionKind
	id   domain.ID
}

// Runner replays scripts against one session. Refs persist across Run
// calls. It is not safe for concurrent use.
type Runner struct {
	session *editor.Session
	out     io.Writer
	refs    map[string]target
	warns   []topology.Warning
}

// NewRunner returns a runner that echoes one line per step to out
// (nil discards it).
func NewRunner(s *editor.Session, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{session: s, out: out, refs: make(map[string]target)}
}

func (r *Runner) Session() *editor.Session { return r.session }

// Ref returns the entity ID a script named ref.
func (r *Runner) Ref(name string) (domain.ID, bool) {
	t, ok := r.refs[name]
	return t.id, ok
}

// Run executes the steps in order and stops at the first failing step,
// which is returned as an *Error.
func (r *Runner) Run(sc Script) (Summary, error) {
	l := applog.WithOperation(applog.WithComponent("replay"), "run")
	l.Info("replay start", slog.String("script", sc.Name), slog.Int("steps", len(sc.Steps)))

	done := 0
	for i, st := range sc.Steps {
		detail, err := r.step(st)
		if err != nil {
			l.Error("replay step failed", slog.Int("step", i+1), slog.String("cmd", st.Op), slog.Any("err", err))
			return r.summary(sc.Name, done), &Error{Step: i + 1, Op: st.Op, Err: err}
		}
		done++
		fmt.Fprintf(r.out, "%3d  %-16s %s\n", i+1, st.Op, detail)
	}
	sum := r.summary(sc.Name, done)
	l.Info("replay done", slog.Int("steps", done), slog.Int("walls", sum.Stats.Walls), slog.Int("warnings", len(sum.Warnings)))
	return sum, nil
}

func (r *Runner) summary(name string, steps int) Summary {
	s := r.session
	return Summary{
		Name:     name,
		Steps:    steps,
		Stats:    s.Document().Stats(),
		Selected: len(s.Selection()),
		Warnings: append([]topology.Warning(nil), r.warns...),
		CanUndo:  s.CanUndo(),
		CanRedo:  s.CanRedo(),
	}
}

func (r *Runner) bind(name string, kind domain.SelectionKind, id domain.ID) {
	if name != "" {
		r.refs[name] = target{kind: kind, id: id}
	}
}

// id resolves a ref; names that were never bound are taken as literal IDs.
func (r *Runner) id(name string) domain.ID {
	if t, ok := r.refs[name]; ok {
		return t.id
	}
	return domain.ID(name)
}

func (r *Runner) ids(names []string) []domain.ID {
	out := make([]domain.ID, len(names))
	for i, n := range names {
		out[i] = r.id(n)
	}
	return out
}

func (r *Runner) selectionFor(name string) (domain.Selection, error) {
	t, ok := r.refs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRef, name)
	}
	switch t.kind {
	case domain.KindWall:
		return domain.WallSelection{WallID: t.id}, nil
	case domain.KindRoom:
		return domain.RoomSelection{RoomID: t.id}, nil
	case domain.KindOpening:
		return domain.OpeningSelection{OpeningID: t.id}, nil
	case domain.KindPolyline:
		return domain.PolylineSelection{ID: t.id}, nil
	case domain.KindText:
		return domain.TextSelection{ID: t.id}, nil
	default:
		return domain.DimensionSelection{ID: t.id}, nil
	}
}

func points(in []Point) []geom.Point {
	out := make([]geom.Point, len(in))
	for i, p := range in {
		out[i] = p.Geom()
	}
	return out
}

func fmtPoint(p geom.Point) string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

func openingSize(kind domain.OpeningKind, w, h float64) (float64, float64) {
	if w <= 0 {
		w = 36
	}
	if h <= 0 {
		h = 80
		if kind == domain.Window {
			h = 48
		}
	}
	return w, h
}

func (r *Runner) step(st Step) (string, error) {
	s := r.session
	switch st.Op {
	case "add_wall":
		if st.From == nil || st.To == nil {
			return "", errors.New("from and to are required")
		}
		w, err := s.AddWall(st.From.Geom(), st.To.Geom())
		if err != nil {
			return "", err
		}
		r.bind(st.Ref, domain.KindWall, w.ID)
		return fmt.Sprintf("%s %s -> %s", w.ID, fmtPoint(w.Start), fmtPoint(w.End)), nil

	case "add_room":
		rm, err := s.AddRoom(st.Name, points(st.Points))
		if err != nil {
			return "", err
		}
		r.bind(st.Ref, domain.KindRoom, rm.ID)
		return fmt.Sprintf("%s %d vertices, area %g", rm.ID, len(rm.Points), rm.Area()), nil

	case "add_opening":
		kind := domain.OpeningKind(st.Kind)
		ratio := 0.5
		if st.Ratio != nil {
			ratio = *st.Ratio
		}
		var wall domain.ID
		if st.Wall != "" {
			wall = r.id(st.Wall)
		}
		w, h := openingSize(kind, st.Width, st.Height)
		o, err := s.AddOpening(kind, wall, ratio, w, h)
		if err != nil {
			return "", err
		}
		r.bind(st.Ref, domain.KindOpening, o.ID)
		return fmt.Sprintf("%s on %q at %g", o.ID, o.WallID, o.Ratio), nil

	case "add_polyline":
		p, err := s.AddPolyline(points(st.Points))
		if err != nil {
			return "", err
		}
		r.bind(st.Ref, domain.KindPolyline, p.ID)
		return fmt.Sprintf("%s %d points", p.ID, len(p.Points)), nil

	case "add_text":
		if st.At == nil {
			return "", errors.New("at is required")
		}
		size := st.Size
		if size <= 0 {
			size = 12
		}
		t, err := s.AddText(st.At.Geom(), st.Text, size)
		if err != nil {
			return "", err
		}
		r.bind(st.Ref, domain.KindText, t.ID)
		return fmt.Sprintf("%s %q", t.ID, t.Content), nil

	case "add_dimension":
		if st.From == nil || st.To == nil {
			return "", errors.New("from and to are required")
		}
		d, err := s.AddDimension(st.From.Geom(), st.To.Geom(), st.Offset)
		if err != nil {
			return "", err
		}
		r.bind(st.Ref, domain.KindDimension, d.ID)
		return fmt.Sprintf("%s measures %g", d.ID, d.Measured()), nil

	case "move_handle":
		if st.To == nil {
			return "", errors.New("to is required")
		}
		handle := domain.Start
		if st.Handle == "end" {
			handle = domain.End
		}
		p, err := s.MoveHandle(r.id(st.Wall), handle, st.To.Geom())
		if err != nil {
			return "", err
		}
		return "landed at " + fmtPoint(p), nil

	case "move_vertex":
		if st.To == nil {
			return "", errors.New("to is required")
		}
		if err := s.MoveRoomVertex(r.id(st.Room), st.Index, st.To.Geom()); err != nil {
			return "", err
		}
		return fmt.Sprintf("vertex %d -> %s", st.Index, fmtPoint(st.To.Geom())), nil

	case "split":
		a, b, err := s.SplitWall(r.id(st.Wall), st.At.geomPtr())
		if err != nil {
			return "", err
		}
		if len(st.Refs) > 0 {
			r.bind(st.Refs[0], domain.KindWall, a.ID)
		}
		if len(st.Refs) > 1 {
			r.bind(st.Refs[1], domain.KindWall, b.ID)
		}
		return fmt.Sprintf("%s + %s at %s", a.ID, b.ID, fmtPoint(a.End)), nil

	case "join":
		warns, err := s.JoinWalls(r.ids(st.Walls))
		if err != nil {
			return "", err
		}
		r.warns = append(r.warns, warns...)
		return fmt.Sprintf("%d walls, %d warnings", len(st.Walls), len(warns)), nil

	case "join_all":
		if err := s.JoinAllConnected(); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d chains", len(s.Document().Chains)), nil

	case "separate":
		if err := s.SeparateWalls(r.ids(st.Walls)); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d chains", len(s.Document().Chains)), nil

	case "set_ratio":
		if st.Ratio == nil {
			return "", errors.New("ratio is required")
		}
		if err := s.SetOpeningRatio(r.id(st.Opening), *st.Ratio); err != nil {
			return "", err
		}
		return fmt.Sprintf("ratio %g", *st.Ratio), nil

	case "delete":
		sels := make([]domain.Selection, 0, len(st.Refs))
		for _, name := range st.Refs {
			sel, err := r.selectionFor(name)
			if err != nil {
				return "", err
			}
			sels = append(sels, sel)
		}
		n, err := s.Delete(sels)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d deleted", n), nil

	case "delete_vertex":
		n, err := s.Delete([]domain.Selection{domain.VertexSelection{RoomID: r.id(st.Room), Index: st.Index}})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d deleted", n), nil

	case "delete_selection":
		n, err := s.DeleteSelection()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d deleted", n), nil

	case "click":
		if st.At == nil {
			return "", errors.New("at is required")
		}
		hit, ok := s.Click(st.At.Geom(), st.Additive)
		if !ok {
			return "miss", nil
		}
		return fmt.Sprintf("%s %+v, %d selected", hit.Kind(), hit, len(s.Selection())), nil

	case "box_select":
		if st.From == nil || st.To == nil {
			return "", errors.New("from and to are required")
		}
		got := s.BoxSelect(geom.RectFromCorners(st.From.Geom(), st.To.Geom()))
		return fmt.Sprintf("%d selected", len(got)), nil

	case "correct":
		if st.At == nil {
			return "", errors.New("at is required")
		}
		c := s.Correct(st.At.Geom(), st.Base.geomPtr())
		detail := fmt.Sprintf("%s -> %s (%s)", fmtPoint(c.Raw), fmtPoint(c.Point), c.Kind)
		if c.Guide != nil {
			detail += " aligned with " + fmtPoint(*c.Guide)
		}
		return detail, nil

	case "set_zoom":
		v := s.View()
		v.Zoom = st.Zoom
		s.SetView(v)
		return fmt.Sprintf("zoom %g", s.View().Zoom), nil

	case "undo":
		label := s.UndoLabel()
		if !s.Undo() {
			return "nothing to undo", nil
		}
		return "reverted " + label, nil

	case "redo":
		if !s.Redo() {
			return "nothing to redo", nil
		}
		return "reapplied", nil

	case "expect":
		return "ok", r.expect(st.Expect)
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
}

func (r *Runner) expect(c *Counts) error {
	if c == nil {
		return nil
	}
	st := r.session.Document().Stats()
	var bad []string
	check := func(name string, want *int, got int) {
		if want != nil && *want != got {
			bad = append(bad, fmt.Sprintf("%s: want %d, got %d", name, *want, got))
		}
	}
	check("chains", c.Chains, st.Chains)
	check("walls", c.Walls, st.Walls)
	check("rooms", c.Rooms, st.Rooms)
	check("openings", c.Openings, st.Openings)
	check("polylines", c.Polylines, st.Polylines)
	check("texts", c.Texts, st.Texts)
	check("dimensions", c.Dimensions, st.Dimensions)
	check("selected", c.Selected, len(r.session.Selection()))
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(bad, ", "))
	}
	return nil
}
