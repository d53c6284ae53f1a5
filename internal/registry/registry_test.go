package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morphic/providers/golang"
	"github.com/oxhq/morphic/providers/python"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(golang.New()))
	require.NoError(t, r.Register(python.New()))

	lang, ok := r.ByName("go")
	require.True(t, ok)
	assert.Equal(t, "go", lang.Name())

	lang, ok = r.ByExtension(".py")
	require.True(t, ok)
	assert.Equal(t, "python", lang.Name())

	lang, ok = r.ByExtension("go")
	require.True(t, ok)
	assert.Equal(t, "go", lang.Name())

	assert.ElementsMatch(t, []string{"go", "python"}, r.Names())
}

func TestRegisterDuplicateRejected(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(golang.New()))
	err := r.Register(golang.New())
	assert.Error(t, err)
}

func TestRegisterNilRejected(t *testing.T) {
	r := New()
	err := r.Register(nil)
	assert.Error(t, err)
}

func TestByExtensionUnknown(t *testing.T) {
	r := New()
	_, ok := r.ByExtension(".rs")
	assert.False(t, ok)
}
