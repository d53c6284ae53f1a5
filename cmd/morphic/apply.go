package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/morphic/internal/config"
	"github.com/oxhq/morphic/internal/iox"
	"github.com/oxhq/morphic/internal/unparser"
)

func newApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "apply <pattern-file> [flags]",
		Short:              "Evaluate a pattern program and write its rewrites to disk",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rest, err := config.Load(args)
			if err != nil {
				return err
			}
			if len(rest) != 1 {
				return fmt.Errorf("morphic apply: expected exactly one pattern-file argument, got %d", len(rest))
			}
			patternFile := rest[0]

			source, err := os.ReadFile(patternFile)
			if err != nil {
				return fmt.Errorf("morphic: read pattern %q: %w", patternFile, err)
			}

			reg := newRegistry()
			lang, files, err := gatherFiles(cmd.Context(), reg, cfg)
			if err != nil {
				return err
			}

			result, err := evalRun(cmd.Context(), string(source), lang, files, cfg)
			if err != nil {
				return err
			}

			if len(result.Effects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no rewrites produced")
				return nil
			}

			bodies := make(map[string][]byte, len(files))
			for _, f := range files {
				bodies[f.Path] = f.Body
			}

			rewritten, err := unparser.ApplyEffects(bodies, result.Effects)
			if err != nil {
				return fmt.Errorf("morphic: apply effects: %w", err)
			}

			if cfg.DryRun {
				for _, r := range rewritten {
					if r.Rewrote {
						printUnifiedDiff(cmd.OutOrStdout(), r.Path, string(bodies[r.Path]), r.Body)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "dry run (pass --dry-run=false to write)")
				return nil
			}

			writer := iox.NewAtomicWriter(iox.DefaultWriteConfig())
			for _, r := range rewritten {
				if !r.Rewrote {
					continue
				}
				if err := writer.WriteFile(r.Path, []byte(r.Body)); err != nil {
					return fmt.Errorf("morphic: write %q: %w", r.Path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", r.Path)
			}

			return nil
		},
	}

	return cmd
}
