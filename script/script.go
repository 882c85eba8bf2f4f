// Package script replays a YAML list of editing steps against a session.
//
//	steps:
//	  - {op: filter, id: filter.basic.neon}
//	  - {op: add, id: sticker.free.star, as: star}
//	  - {op: move, target: star, dx: 40, dy: -20}
//	  - {op: scale, target: star, factor: 1.5}
//	  - {op: rotate, target: star, degrees: 30}
//	  - {op: undo, repeat: 2}
//
// Stickers added with an alias ("as") can be referenced by later steps.
package script

import (
	"io"
	"math"
	"os"

	"github.com/esimov/stickr/editor"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownOp is returned for steps naming an unknown operation.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrUnknownAlias is returned for steps referencing a sticker alias never defined.
	ErrUnknownAlias = errors.New("unknown sticker alias")
)

// Op names an editing step.
type Op string

const (
	OpFilter Op = "filter"
	OpAdd    Op = "add"
	OpSelect Op = "select"
	OpMove   Op = "move"
	OpScale  Op = "scale"
	OpRotate Op = "rotate"
	OpFront  Op = "front"
	OpDelete Op = "delete"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
	OpShare  Op = "share"
)

var knownOps = map[Op]bool{
	OpFilter: true, OpAdd: true, OpSelect: true, OpMove: true, OpScale: true, OpRotate: true,
	OpFront: true, OpDelete: true, OpUndo: true, OpRedo: true, OpShare: true,
}

// Step is a single editing operation.
type Step struct {
	Op      Op      `yaml:"op"`
	ID      string  `yaml:"id,omitempty"`     // catalog id, for filter and add
	As      string  `yaml:"as,omitempty"`     // alias given to an added sticker
	Target  string  `yaml:"target,omitempty"` // sticker alias
	DX      float64 `yaml:"dx,omitempty"`
	DY      float64 `yaml:"dy,omitempty"`
	Factor  float64 `yaml:"factor,omitempty"`
	Angle   float64 `yaml:"angle,omitempty"` // radians
	Degrees float64 `yaml:"degrees,omitempty"`
	Repeat  int     `yaml:"repeat,omitempty"`
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Parse decodes and validates a YAML script.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "cannot decode the script")
	}
	for i, st := range s.Steps {
		if !knownOps[st.Op] {
			return nil, errors.Wrapf(ErrUnknownOp, "step %d: %q", i+1, st.Op)
		}
		if st.Op == OpAdd && st.ID == "" {
			return nil, errors.Errorf("step %d: %s needs a catalog id", i+1, st.Op)
		}
		if st.Repeat < 0 {
			return nil, errors.Errorf("step %d: negative repeat", i+1)
		}
	}
	return &s, nil
}

// ParseFile reads a YAML script from path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open the script")
	}
	defer f.Close()
	return Parse(f)
}

// Target is the editing surface a script is replayed against.
type Target interface {
	SelectFilter(id string) (editor.EditState, error)
	AddSticker(id string) (uuid.UUID, editor.EditState, error)
	SelectSticker(id uuid.UUID) editor.EditState
	Move(id uuid.UUID, dx, dy float64) editor.EditState
	Scale(id uuid.UUID, factor float64) editor.EditState
	Rotate(id uuid.UUID, delta float64) editor.EditState
	BringToFront(id uuid.UUID) editor.EditState
	DeleteSelectedSticker() editor.EditState
	Undo() editor.EditState
	Redo() editor.EditState
	Share() []string
}

// Result summarizes a replayed script.
type Result struct {
	Aliases  map[string]uuid.UUID
	Unlocked []string
	Steps    int
}

// Run replays the script against t. It stops at the first failing step.
func (s *Script) Run(t Target) (*Result, error) {
	res := &Result{Aliases: make(map[string]uuid.UUID)}

	for i, st := range s.Steps {
		n := st.Repeat
		if n == 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			if err := res.apply(t, st); err != nil {
				return res, errors.Wrapf(err, "step %d (%s)", i+1, st.Op)
			}
			res.Steps++
		}
	}
	return res, nil
}

func (r *Result) apply(t Target, st Step) error {
	switch st.Op {
	case OpFilter:
		_, err := t.SelectFilter(st.ID)
		return err
	case OpAdd:
		id, _, err := t.AddSticker(st.ID)
		if err != nil {
			return err
		}
		if st.As != "" {
			r.Aliases[st.As] = id
		}
	case OpSelect:
		id := uuid.Nil
		if st.Target != "" {
			var err error
			if id, err = r.lookup(st.Target); err != nil {
				return err
			}
		}
		t.SelectSticker(id)
	case OpDelete:
		if st.Target != "" {
			id, err := r.lookup(st.Target)
			if err != nil {
				return err
			}
			t.SelectSticker(id)
		}
		t.DeleteSelectedSticker()
	case OpMove, OpScale, OpRotate, OpFront:
		id, err := r.lookup(st.Target)
		if err != nil {
			return err
		}
		switch st.Op {
		case OpMove:
			t.Move(id, st.DX, st.DY)
		case OpScale:
			t.Scale(id, st.Factor)
		case OpRotate:
			t.Rotate(id, st.Angle+st.Degrees*math.Pi/180)
		case OpFront:
			t.BringToFront(id)
		}
	case OpUndo:
		t.Undo()
	case OpRedo:
		t.Redo()
	case OpShare:
		r.Unlocked = append(r.Unlocked, t.Share()...)
	default:
		return errors.Wrapf(ErrUnknownOp, "%q", st.Op)
	}
	return nil
}

func (r *Result) lookup(alias string) (uuid.UUID, error) {
	id, ok := r.Aliases[alias]
	if !ok {
		return uuid.Nil, errors.Wrapf(ErrUnknownAlias, "%q", alias)
	}
	return id, nil
}
