// Package config builds the driver-facing Config a cmd/morphic invocation
// runs with: target language, traversal scope, write mode, cache
// location, and a cancellation timeout. Nothing under internal/pattern,
// internal/evaluator, or internal/unparser reads this package — only
// cmd/morphic does.
//
// Flags are bound with github.com/spf13/pflag; environment overrides load
// through github.com/joho/godotenv's .env support.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config is the resolved set of driver options for one morphic invocation.
type Config struct {
	// Pattern is the path to a pattern-program file, or "" to read from
	// the single positional argument.
	Pattern string

	// Language selects the syntax.LanguageSupport collaborator by name
	// (e.g. "go", "python"). Empty means infer per file from extension.
	Language string

	Root string
	Include []string
	Exclude []string

	MaxDepth int
	FollowSymlinks bool
	UseGitignore bool

	DryRun bool

	CachePath string
	UseCache bool
	Timeout time.Duration
	Workers int
	ShowDiff bool
	Quiet bool
}

// Default returns the baseline Config before flags or environment
// overrides are applied.
func Default() Config {
	return Config{
		Root: ".",
		UseGitignore: true,
		DryRun: true,
		CachePath: ".morphic-cache.db",
		UseCache: true,
		Timeout: 30 * time.Second,
	}
}

// Load reads .env overrides (if a file is present; a missing .env is not
// an error, matching godotenv.Load's own convention), then parses args
// against a fresh flag set seeded from Default. Positional arguments
// remaining after flag parsing are returned for the caller's subcommand
// dispatch.
func Load(args []string) (Config, []string, error) {
	_ = godotenv.Load() // optional; absence is not fatal

	cfg := Default()
	ApplyEnv(&cfg)

	fs := pflag.NewFlagSet("morphic", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Language, "lang", "l", cfg.Language, "target language (inferred per-file if omitted)")
	fs.StringVarP(&cfg.Root, "root", "C", cfg.Root, "directory to walk")
	fs.StringSliceVarP(&cfg.Include, "include", "i", cfg.Include, "glob patterns to include")
	fs.StringSliceVarP(&cfg.Exclude, "exclude", "x", cfg.Exclude, "glob patterns to exclude")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum directory depth, 0 means unlimited")
	fs.BoolVar(&cfg.FollowSymlinks, "follow-symlinks", cfg.FollowSymlinks, "follow symlinked directories")
	fs.BoolVar(&cfg.UseGitignore, "gitignore", cfg.UseGitignore, "honor a .gitignore at the walk root")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", cfg.DryRun, "report matches without writing files")
	fs.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "path to the result cache database")
	fs.BoolVar(&cfg.UseCache, "cache-enabled", cfg.UseCache, "consult and update the result cache")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "cancellation timeout for the run")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "worker count (currently unused: the walker always runs runtime.NumCPU*2 workers)")
	fs.BoolVarP(&cfg.ShowDiff, "diff", "D", cfg.ShowDiff, "print a unified diff of proposed rewrites")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "suppress non-error log output")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, fmt.Errorf("config: parse flags: %w", err)
	}

	return cfg, fs.Args(), nil
}

// ApplyEnv applies MORPHIC_* environment overrides, read after godotenv.Load
// so .env entries are visible here too.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("MORPHIC_LANG"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("MORPHIC_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("MORPHIC_CACHE"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("MORPHIC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
}
