package evaluator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/morphic/internal/evaluator"
	"github.com/oxhq/morphic/internal/patterncompiler"
	"github.com/oxhq/morphic/internal/unparser"
	"github.com/oxhq/morphic/providers/golang"
)

const src = `language go

function_declaration(name=$name) => $name
`

const goSource = `package main

func Foo() {
	return
}

func Bar() {
	return
}
`

func TestEvaluateBindsVariableAndRewrites(t *testing.T) {
	lang := golang.New()
	prog, err := patterncompiler.Compile(src, lang)
	require.NoError(t, err)
	require.NotNil(t, prog.Root)

	files := []evaluator.InputFile{{Path: "main.go", Body: []byte(goSource)}}
	result, err := evaluator.Evaluate(context.Background(), prog, lang, files)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)

	names := []string{result.Matches[0].Variables["name"].Text, result.Matches[1].Variables["name"].Text}
	require.ElementsMatch(t, []string{"Foo", "Bar"}, names)

	require.Len(t, result.Effects, 2)

	rewritten, err := unparser.ApplyEffects(map[string][]byte{"main.go": []byte(goSource)}, result.Effects)
	require.NoError(t, err)
	require.Len(t, rewritten, 1)
	require.Equal(t, "main.go", rewritten[0].Path)
	require.NotContains(t, rewritten[0].Body, "return")
	require.Contains(t, rewritten[0].Body, "Foo")
	require.Contains(t, rewritten[0].Body, "Bar")
}

func TestEvaluateNoRootIsEmpty(t *testing.T) {
	lang := golang.New()
	prog, err := patterncompiler.Compile("language go\n\npattern onlyDef() { `x` }\n", lang)
	require.NoError(t, err)
	require.Nil(t, prog.Root)

	result, err := evaluator.Evaluate(context.Background(), prog, lang, []evaluator.InputFile{{Path: "a.go", Body: []byte("package main\n")}})
	require.NoError(t, err)
	require.Empty(t, result.Matches)
	require.Empty(t, result.Effects)
}
