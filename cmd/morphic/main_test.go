package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPattern = "language go\n\nfunction_declaration(name=$name) => $name\n"

const testSource = `package main

func Foo() {
	return
}
`

func TestCheckCommandReportsMatches(t *testing.T) {
	dir := t.TempDir()
	patternPath := filepath.Join(dir, "rule.morphic")
	sourcePath := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(patternPath, []byte(testPattern), 0o644))
	require.NoError(t, os.WriteFile(sourcePath, []byte(testSource), 0o644))

	cmd := newCheckCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{
		patternPath,
		"--root", dir,
		"--include", "**/*.go",
		"--cache-enabled=false",
		"--gitignore=false",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1 match(es)")
	assert.Contains(t, out.String(), "Foo")
}

func TestListCommandPrintsDefinitions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rule.morphic"), []byte(testPattern), 0o644))

	cmd := newListCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--dir", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "rule.morphic")
}
