// Package variable implements the two-level (global, per-scope) variable
// index. Names are resolved to stable indices at compile time; those
// indices are what the IR and the runtime State actually carry.
package variable

import (
	"regexp"
	"sort"
)

// Index is a stable reference to a variable slot: a scope plus a slot
// number within that scope. Scope 0 is always global.
type Index struct {
	Scope int
	Slot  int
}

// GlobalScope is the reserved scope index for file-level variables
// (files, program, filename, absolute_filename, new_files).
const GlobalScope = 0

// nameRegexp is the identifier grammar for variable names.
var nameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name is a legal variable identifier. "..." is
// accepted only in list-rest positions and is validated by the compiler,
// not here.
func ValidName(name string) bool {
	return nameRegexp.MatchString(name)
}

// IsGlobalName reports whether name is one of the fixed reserved
// global-variable names and should resolve to GlobalScope regardless of
// the current scope stack. No prefix marks a name as global: every other
// name resolves through the scope stack.
func IsGlobalName(name string) bool {
	switch name {
	case "files", "program", "filename", "absolute_filename", "new_files":
		return true
	}
	return false
}

// binding records where a name was registered: its index plus every byte
// range (within whichever file is currently being compiled/matched) where
// the name has appeared, for rewrite-location tracking.
type binding struct {
	index  Index
	ranges [][2]uint32
}

// Scope is a contiguous slice of variable slots, along with the names
// registered in it.
type Scope struct {
	names map[string]*binding
	next  int
}

func newScope() *Scope {
	return &Scope{names: make(map[string]*binding)}
}

// Registry is the compile-time variable table. Storage (all) holds every
// scope ever allocated, indexed by its stable id; active is the stack of
// scope ids currently visible to Register/Lookup, innermost last. The two
// are separate so a definition's scope — allocated once, up front, so
// recursive calls have a stable id to reference — can be reactivated for
// compiling its body without disturbing the ids of scopes allocated after
// it (see EnterExistingScope). The global scope (id 0) is always present
// and always at the bottom of active.
type Registry struct {
	all    []*Scope
	active []int
}

// NewRegistry creates a Registry with only the global scope open.
func NewRegistry() *Registry {
	r := &Registry{all: []*Scope{newScope()}}
	r.active = []int{0}
	return r
}

// PushScope allocates a fresh scope (a pattern/function-definition
// invocation) and activates it, returning its stable id for later
// reference (e.g. by State when allocating runtime slots, or by
// EnterExistingScope to recompile the same definition's body).
func (r *Registry) PushScope() int {
	r.all = append(r.all, newScope())
	id := len(r.all) - 1
	r.active = append(r.active, id)
	return id
}

// EnterExistingScope reactivates a scope allocated by a prior PushScope
// (typically in the compiler's first definition-registration pass) so its
// body can be compiled with that scope visible, without allocating a new
// one. Pair with PopScope.
func (r *Registry) EnterExistingScope(scopeID int) {
	r.active = append(r.active, scopeID)
}

// PopScope deactivates the innermost scope. It is a compiler error to pop
// the global scope.
func (r *Registry) PopScope() {
	if len(r.active) <= 1 {
		return
	}
	r.active = r.active[:len(r.active)-1]
}

// CurrentScope returns the id of the innermost active scope.
func (r *Registry) CurrentScope() int {
	return r.active[len(r.active)-1]
}

// ScopeSize returns the number of slots allocated in a scope, so State can
// size its variable store.
func (r *Registry) ScopeSize(scope int) int {
	if scope < 0 || scope >= len(r.all) {
		return 0
	}
	return r.all[scope].next
}

// ScopeCount returns the number of scopes allocated so far (global
// included).
func (r *Registry) ScopeCount() int { return len(r.all) }

// Register resolves name to a stable Index. If name is already registered
// in the innermost open scope (or the global scope, for global names), the
// existing index is returned and byteRange is appended to its tracked
// ranges. Otherwise a new slot is allocated.
func (r *Registry) Register(name string, byteRange [2]uint32) Index {
	scopeIdx := r.CurrentScope()
	if IsGlobalName(name) {
		scopeIdx = GlobalScope
	}
	scope := r.all[scopeIdx]
	if b, ok := scope.names[name]; ok {
		b.ranges = append(b.ranges, byteRange)
		return b.index
	}
	idx := Index{Scope: scopeIdx, Slot: scope.next}
	scope.next++
	scope.names[name] = &binding{index: idx, ranges: [][2]uint32{byteRange}}
	return idx
}

// Lookup resolves an already-registered name without allocating, searching
// from the innermost open scope outward to the global scope. It reports
// whether the name was found.
func (r *Registry) Lookup(name string) (Index, bool) {
	if IsGlobalName(name) {
		if b, ok := r.all[GlobalScope].names[name]; ok {
			return b.index, true
		}
		return Index{}, false
	}
	for i := len(r.active) - 1; i >= 0; i-- {
		if b, ok := r.all[r.active[i]].names[name]; ok {
			return b.index, true
		}
	}
	return Index{}, false
}

// Ranges returns every byte range recorded for name, if it has been
// registered.
func (r *Registry) Ranges(name string) ([][2]uint32, bool) {
	for i := len(r.active) - 1; i >= 0; i-- {
		if b, ok := r.all[r.active[i]].names[name]; ok {
			return b.ranges, true
		}
	}
	return nil, false
}

// Names returns every variable name registered directly in scope, sorted,
// for collaborators (the evaluator's Match reporting) that need to list
// every binding a top-level attempt produced without knowing names ahead
// of time.
func (r *Registry) Names(scope int) []string {
	if scope < 0 || scope >= len(r.all) {
		return nil
	}
	names := make([]string, 0, len(r.all[scope].names))
	for name := range r.all[scope].names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
