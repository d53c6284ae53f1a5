package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/oxhq/morphic/internal/patterncompiler"
)

// newListCommand lists the named pattern/function definitions declared in
// every *.morphic file under a pattern library directory.
func newListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List named pattern/function definitions in a pattern library",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("morphic: read library %q: %w", dir, err)
			}

			var names []string
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".morphic" {
					continue
				}
				names = append(names, e.Name())
			}
			sort.Strings(names)

			for _, name := range names {
				path := filepath.Join(dir, name)
				source, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "morphic: skip %q: %v\n", path, err)
					continue
				}
				defs, err := patterncompiler.ListDefinitions(string(source))
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "morphic: skip %q: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", name)
				for _, d := range defs {
					kind := "pattern"
					if d.IsFunc {
						kind = "function"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s(%v)\n", kind, d.Name, d.Params)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "pattern library directory")
	return cmd
}
