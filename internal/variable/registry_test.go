package variable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morphic/internal/variable"
)

func TestValidName(t *testing.T) {
	assert.True(t, variable.ValidName("name"))
	assert.True(t, variable.ValidName("_private"))
	assert.True(t, variable.ValidName("a1"))
	assert.False(t, variable.ValidName("1abc"))
	assert.False(t, variable.ValidName("has-dash"))
	assert.False(t, variable.ValidName(""))
}

func TestIsGlobalName(t *testing.T) {
	for _, n := range []string{"files", "program", "filename", "absolute_filename", "new_files"} {
		assert.True(t, variable.IsGlobalName(n), n)
	}
	assert.False(t, variable.IsGlobalName("name"))
}

func TestRegisterReusesSlotForSameName(t *testing.T) {
	r := variable.NewRegistry()
	idx1 := r.Register("x", [2]uint32{0, 1})
	idx2 := r.Register("x", [2]uint32{2, 3})
	assert.Equal(t, idx1, idx2)

	ranges, ok := r.Ranges("x")
	require.True(t, ok)
	assert.Equal(t, [][2]uint32{{0, 1}, {2, 3}}, ranges)
}

func TestRegisterDistinctNamesGetDistinctSlots(t *testing.T) {
	r := variable.NewRegistry()
	a := r.Register("a", [2]uint32{0, 0})
	b := r.Register("b", [2]uint32{0, 0})
	assert.NotEqual(t, a, b)
	assert.Equal(t, variable.GlobalScope, a.Scope)
	assert.Equal(t, variable.GlobalScope, b.Scope)
}

func TestLookupMissingName(t *testing.T) {
	r := variable.NewRegistry()
	_, ok := r.Lookup("nope")
	assert.False(t, ok)
}

func TestPushScopeIsolatesNamesUntilPopped(t *testing.T) {
	r := variable.NewRegistry()
	r.Register("x", [2]uint32{0, 0})

	scopeID := r.PushScope()
	assert.Equal(t, scopeID, r.CurrentScope())

	inner := r.Register("y", [2]uint32{0, 0})
	assert.Equal(t, scopeID, inner.Scope)

	// global name still visible from inside the nested scope
	_, ok := r.Lookup("x")
	assert.True(t, ok)

	r.PopScope()
	assert.Equal(t, variable.GlobalScope, r.CurrentScope())

	_, ok = r.Lookup("y")
	assert.False(t, ok, "y was only registered in the popped scope")
}

func TestPopScopeNeverPopsGlobal(t *testing.T) {
	r := variable.NewRegistry()
	r.PopScope()
	assert.Equal(t, variable.GlobalScope, r.CurrentScope())
}

func TestGlobalNameAlwaysResolvesToGlobalScope(t *testing.T) {
	r := variable.NewRegistry()
	r.PushScope()
	idx := r.Register("filename", [2]uint32{0, 0})
	assert.Equal(t, variable.GlobalScope, idx.Scope)

	found, ok := r.Lookup("filename")
	require.True(t, ok)
	assert.Equal(t, idx, found)
}

func TestEnterExistingScopeReactivatesWithoutAllocating(t *testing.T) {
	r := variable.NewRegistry()
	scopeID := r.PushScope()
	r.Register("param", [2]uint32{0, 0})
	r.PopScope()

	before := r.ScopeCount()
	r.EnterExistingScope(scopeID)
	assert.Equal(t, before, r.ScopeCount(), "reactivation must not allocate a new scope")
	assert.Equal(t, scopeID, r.CurrentScope())

	_, ok := r.Lookup("param")
	assert.True(t, ok)

	r.PopScope()
}

func TestNamesReturnsSortedRegisteredNames(t *testing.T) {
	r := variable.NewRegistry()
	r.Register("zeta", [2]uint32{0, 0})
	r.Register("alpha", [2]uint32{0, 0})
	r.Register("mid", [2]uint32{0, 0})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names(variable.GlobalScope))
}

func TestNamesOnUnknownScopeIsNil(t *testing.T) {
	r := variable.NewRegistry()
	assert.Nil(t, r.Names(99))
	assert.Nil(t, r.Names(-1))
}

func TestScopeSizeCountsAllocatedSlots(t *testing.T) {
	r := variable.NewRegistry()
	assert.Equal(t, 0, r.ScopeSize(variable.GlobalScope))
	r.Register("a", [2]uint32{0, 0})
	r.Register("b", [2]uint32{0, 0})
	assert.Equal(t, 2, r.ScopeSize(variable.GlobalScope))
}
