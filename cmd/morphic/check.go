package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/morphic/internal/config"
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/unparser"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "check <pattern-file> [flags]",
		Short:              "Report matches for a pattern program without writing files",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rest, err := config.Load(args)
			if err != nil {
				return err
			}
			if len(rest) != 1 {
				return fmt.Errorf("morphic check: expected exactly one pattern-file argument, got %d", len(rest))
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

			if !cfg.Quiet {
				for _, l := range result.Logs {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", levelLabel(l.Level), l.File, l.Message)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d match(es)\n", len(result.Matches))
			for _, m := range result.Matches {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s:%d-%d\n", m.File, m.Start, m.End)
				for name, v := range m.Variables {
					fmt.Fprintf(cmd.OutOrStdout(), "    $%s = %q\n", name, v.Text)
				}
			}

			if cfg.ShowDiff && len(result.Effects) > 0 {
				bodies := make(map[string][]byte, len(files))
				for _, f := range files {
					bodies[f.Path] = f.Body
				}
				rewritten, err := unparser.ApplyEffects(bodies, result.Effects)
				if err != nil {
					return err
				}
				for _, r := range rewritten {
					if !r.Rewrote {
						continue
					}
					printUnifiedDiff(cmd.OutOrStdout(), r.Path, string(bodies[r.Path]), r.Body)
				}
			}

			// Exit codes per the driver contract: 0 clean, 1 when any
			// warning-band log (300 <= level < 500) was recorded (matches
			// alone do not set it), 2 engine error (handled by main's
			// root.Execute() error path).
			for _, l := range result.Logs {
				if l.Level >= model.LevelWarning && l.Level < model.LevelDebug {
					os.Exit(1)
				}
			}

			return nil
		},
	}

	return cmd
}

func levelLabel(level model.LogLevel) string {
	switch {
	case level < model.LevelWarning:
		return "info"
	case level < model.LevelDebug:
		return "warn"
	default:
		return "debug"
	}
}
