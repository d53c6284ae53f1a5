package suppression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morphic/internal/suppression"
	"github.com/oxhq/morphic/internal/syntax"
	"github.com/oxhq/morphic/providers/golang"
)

func findFunc(tree *syntax.Tree, name string) syntax.Node {
	for _, c := range tree.Root().NamedChildren() {
		if c.Kind() != "function_declaration" {
			continue
		}
		if fn, ok := c.ChildByFieldName("name"); ok && fn.Text() == name {
			return c
		}
	}
	return syntax.Node{}
}

func TestScanSuppressesFollowingDeclaration(t *testing.T) {
	lang := golang.New()
	src := `package main

// morphic-ignore
func Old() {}

func New() {}
`
	tree, err := lang.Parse([]byte(src))
	require.NoError(t, err)
	defer tree.Close()

	set := suppression.Scan(lang, tree.Root())

	var old, newer bool
	for _, c := range tree.Root().NamedChildren() {
		if c.Kind() != "function_declaration" {
			continue
		}
		start, end := c.ByteRange()
		if c.Text() == "func Old() {}" {
			old = set.Suppressed("", start, end)
		}
		if c.Text() == "func New() {}" {
			newer = set.Suppressed("", start, end)
		}
	}
	assert.True(t, old, "function following the directive should be suppressed")
	assert.False(t, newer, "unrelated function should not be suppressed")
}

func TestScanNamedDirectiveOnlySuppressesThatPattern(t *testing.T) {
	lang := golang.New()
	src := `package main

// morphic-ignore: renameFunc
func Old() {}
`
	tree, err := lang.Parse([]byte(src))
	require.NoError(t, err)
	defer tree.Close()

	set := suppression.Scan(lang, tree.Root())

	target := findFunc(tree, "Old")
	start, end := target.ByteRange()

	assert.True(t, set.Suppressed("renameFunc", start, end))
	assert.False(t, set.Suppressed("otherPattern", start, end))
	assert.False(t, set.Suppressed("", start, end))
}

func TestScanTrailingCommentSuppressesNothing(t *testing.T) {
	lang := golang.New()
	src := `package main

func Keep() {}

// morphic-ignore
`
	tree, err := lang.Parse([]byte(src))
	require.NoError(t, err)
	defer tree.Close()

	set := suppression.Scan(lang, tree.Root())

	target := findFunc(tree, "Keep")
	start, end := target.ByteRange()
	assert.False(t, set.Suppressed("", start, end))
}

func TestSuppressedOnNilSetIsFalse(t *testing.T) {
	var set *suppression.Set
	assert.False(t, set.Suppressed("", 0, 10))
}
