// Command morphic is the driver binary: it wires internal/config,
// internal/registry, internal/iox, internal/cachedb, internal/patterncompiler,
// internal/evaluator, and internal/unparser together behind a
// github.com/spf13/cobra command tree of check/apply/list subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/morphic/internal/registry"
	"github.com/oxhq/morphic/providers/golang"
	"github.com/oxhq/morphic/providers/javascript"
	"github.com/oxhq/morphic/providers/php"
	"github.com/oxhq/morphic/providers/python"
	"github.com/oxhq/morphic/providers/typescript"
)

// newRegistry builds the fixed set of language collaborators this binary
// ships with.
func newRegistry() *registry.Registry {
	r := registry.New()
	must(r.Register(golang.New()))
	must(r.Register(python.New()))
	must(r.Register(javascript.New()))
	must(r.Register(typescript.New()))
	must(r.Register(php.New()))
	return r
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "morphic: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	root := &cobra.Command{
		Use:   "morphic",
		Short: "Structural pattern matching and rewriting",
		Long:  "morphic matches and rewrites source code against a tree-structured pattern program, across files and languages.",
	}

	root.AddCommand(newCheckCommand(), newApplyCommand(), newListCommand())

	// Exit codes per the driver contract: 0 clean, 1 warning-band logs
	// in check mode (check.go's own os.Exit(1)), 2 engine error.
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
