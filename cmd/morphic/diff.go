package main

import (
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"
)

// printUnifiedDiff writes a unified diff of before -> after for path. This
// lives in the driver since dry-run display is a cmd/morphic concern, not
// something the engine itself produces.
func printUnifiedDiff(w io.Writer, path, before, after string) {
	diff := difflib.UnifiedDiff{
		A: difflib.SplitLines(before),
		B: difflib.SplitLines(after),
		FromFile: path,
		ToFile: path,
		Context: 3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		fmt.Fprintf(w, "morphic: diff %q: %v\n", path, err)
		return
	}
	fmt.Fprint(w, text)
}
