// Package state implements the runtime carrier for a single top-level match
// attempt: the variable store, the current file list, the pending effect
// queue, diagnostic logs, and the per-file parse cache.
//
// State is snapshottable: Snapshot records (frame-push count, undo-log
// length, effect-queue length, log-buffer length); Restore truncates back
// to those lengths, replaying the undo log to put every mutated variable
// slot back exactly as it was. This makes Or/Any/Not/If cheap to implement
// correctly without structural sharing.
package state

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/variable"
)

// Slot is one variable's runtime storage: its current value (nil if never
// assigned), the flag tracking whether it has been assigned, and every
// byte range where this variable has been matched, for rewrite-location
// tracking.
type Slot struct {
	Value *model.ResolvedPattern
	Assigned bool
	Ranges [][2]uint32
}

// Frame is one activation of a lexical scope: a fixed-size array of Slots,
// sized from the compiler's variable.Registry.
type Frame struct {
	Slots []Slot
}

func newFrame(size int) *Frame {
	return &Frame{Slots: make([]Slot, size)}
}

type undoEntry struct {
	frame *Frame
	slot int
	prevValue *model.ResolvedPattern
	prevAssigned bool
	prevRangesLen int
}

// State is the runtime carrier threaded through one top-level evaluation
// attempt against a single file.
type State struct {
	registry *variable.Registry

	// frameStacks[scopeID] is the stack of active activations for that
	// lexical scope; the top is "current". Global scope (0) always has
	// exactly one, persistent, frame.
	frameStacks map[int][]*Frame
	framePushes []int // scope ids, in push order, for snapshot/restore

	files map[string]*model.File
	fileOrder []string

	effects []model.Effect
	effectSeq int

	logs []model.LogRecord

	undo []undoEntry
}

// New creates a State bound to the given compiled variable registry, with
// the global frame already allocated.
func New(registry *variable.Registry) *State {
	s := &State{
		registry: registry,
		frameStacks: make(map[int][]*Frame),
		files: make(map[string]*model.File),
	}
	s.frameStacks[variable.GlobalScope] = []*Frame{newFrame(registry.ScopeSize(variable.GlobalScope))}
	return s
}

// PushScope activates a fresh Frame for scopeID (entering a pattern/function
// definition's body) and returns it.
func (s *State) PushScope(scopeID int) *Frame {
	f := newFrame(s.registry.ScopeSize(scopeID))
	s.frameStacks[scopeID] = append(s.frameStacks[scopeID], f)
	s.framePushes = append(s.framePushes, scopeID)
	return f
}

// PopScope deactivates the innermost Frame for scopeID (leaving a
// pattern/function definition's body normally, not via rollback).
func (s *State) PopScope(scopeID int) {
	stack := s.frameStacks[scopeID]
	if len(stack) == 0 {
		return
	}
	s.frameStacks[scopeID] = stack[:len(stack)-1]
	// Drop the matching entry from framePushes (it will always be the
	// last occurrence of scopeID, since scopes nest properly).
	for i := len(s.framePushes) - 1; i >= 0; i-- {
		if s.framePushes[i] == scopeID {
			s.framePushes = append(s.framePushes[:i], s.framePushes[i+1:]...)
			break
		}
	}
}

// CurrentFrame returns the active Frame for a scope id, or false if none is
// active (a compiler/internal error if it happens for a scope the IR
// actually references).
func (s *State) CurrentFrame(scopeID int) (*Frame, bool) {
	stack := s.frameStacks[scopeID]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Get reads a variable's current value. ok is false if the slot has never
// been assigned, in which case the IR should treat it as model.Undefined.
func (s *State) Get(idx variable.Index) (model.ResolvedPattern, bool) {
	frame, ok := s.CurrentFrame(idx.Scope)
	if !ok || idx.Slot >= len(frame.Slots) {
		return model.ResolvedPattern{}, false
	}
	slot := frame.Slots[idx.Slot]
	if !slot.Assigned || slot.Value == nil {
		return model.ResolvedPattern{}, false
	}
	return *slot.Value, true
}

// Set assigns a variable's value, recording an undo entry so Restore can
// put the slot back exactly as it was.
func (s *State) Set(idx variable.Index, v model.ResolvedPattern, matchedRange [2]uint32) {
	frame, ok := s.CurrentFrame(idx.Scope)
	if !ok || idx.Slot >= len(frame.Slots) {
		return
	}
	slot := &frame.Slots[idx.Slot]
	s.undo = append(s.undo, undoEntry{
		frame: frame,
		slot: idx.Slot,
		prevValue: slot.Value,
		prevAssigned: slot.Assigned,
		prevRangesLen: len(slot.Ranges),
	})
	vCopy := v
	slot.Value = &vCopy
	slot.Assigned = true
	slot.Ranges = append(slot.Ranges, matchedRange)
}

// FileBodies returns the currently-live file bodies keyed by path, for
// model.ResolvedPattern.Text / Binding.Text.
func (s *State) FileBodies() map[string][]byte {
	out := make(map[string][]byte, len(s.files))
	for path, f := range s.files {
		out[path] = []byte(f.Body)
	}
	return out
}

// AddFile registers a parsed file, creating it on first use. Calling AddFile
// again for a path already present is a no-op returning the existing File.
func (s *State) AddFile(f *model.File) *model.File {
	if existing, ok := s.files[f.Path]; ok {
		return existing
	}
	s.files[f.Path] = f
	s.fileOrder = append(s.fileOrder, f.Path)
	return f
}

// File returns the live File value for path, if any.
func (s *State) File(path string) (*model.File, bool) {
	f, ok := s.files[path]
	return f, ok
}

// ReleaseFile drops a file from the live set once its effects have
// committed or its top-level match has failed.
func (s *State) ReleaseFile(path string) {
	delete(s.files, path)
	for i, p := range s.fileOrder {
		if p == path {
			s.fileOrder = append(s.fileOrder[:i], s.fileOrder[i+1:]...)
			break
		}
	}
}

// Files lists every currently-live file, in registration order.
func (s *State) Files() []*model.File {
	out := make([]*model.File, 0, len(s.fileOrder))
	for _, p := range s.fileOrder {
		out = append(out, s.files[p])
	}
	return out
}

// Enqueue records a pending Effect, stamping it with the next sequence
// number so equal-position inserts apply in registration order.
func (s *State) Enqueue(e model.Effect) {
	e.Seq = s.effectSeq
	s.effectSeq++
	s.effects = append(s.effects, e)
}

// Effects returns every effect enqueued so far.
func (s *State) Effects() []model.Effect { return s.effects }

// Log appends a diagnostic record to the per-State buffer.
func (s *State) Log(r model.LogRecord) { s.logs = append(s.logs, r) }

// Logs returns every diagnostic recorded so far.
func (s *State) Logs() []model.LogRecord { return s.logs }

// Checkpoint is a cheap snapshot: four lengths plus the effect sequence
// counter, taken before a disjunctive
// or speculative branch.
type Checkpoint struct {
	framePushLen int
	undoLen int
	effectLen int
	effectSeq int
	logLen int
}

// Snapshot captures the current lengths of every append-only structure
// State owns.
func (s *State) Snapshot() Checkpoint {
	return Checkpoint{
		framePushLen: len(s.framePushes),
		undoLen: len(s.undo),
		effectLen: len(s.effects),
		effectSeq: s.effectSeq,
		logLen: len(s.logs),
	}
}

// Restore rolls State back to a prior Checkpoint: replays the undo log in
// reverse to put every mutated slot back, pops every frame pushed since the
// checkpoint, and truncates the effect queue and log buffer. Restore is
// total: the resulting State is byte-equivalent to the one Snapshot saw.
func (s *State) Restore(cp Checkpoint) {
	for i := len(s.undo) - 1; i >= cp.undoLen; i-- {
		e := s.undo[i]
		e.frame.Slots[e.slot].Value = e.prevValue
		e.frame.Slots[e.slot].Assigned = e.prevAssigned
		ranges := e.frame.Slots[e.slot].Ranges
		if len(ranges) > e.prevRangesLen {
			e.frame.Slots[e.slot].Ranges = ranges[:e.prevRangesLen]
		}
	}
	s.undo = s.undo[:cp.undoLen]

	for i := len(s.framePushes) - 1; i >= cp.framePushLen; i-- {
		scopeID := s.framePushes[i]
		stack := s.frameStacks[scopeID]
		if len(stack) > 0 {
			s.frameStacks[scopeID] = stack[:len(stack)-1]
		}
	}
	s.framePushes = s.framePushes[:cp.framePushLen]

	s.effects = s.effects[:cp.effectLen]
	s.effectSeq = cp.effectSeq
	s.logs = s.logs[:cp.logLen]
}
