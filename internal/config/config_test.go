package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, rest, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Root)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.UseGitignore)
	assert.Empty(t, rest)
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	cfg, rest, err := Load([]string{
		"--lang", "python",
		"--root", "./src",
		"--include", "**/*.py",
		"--dry-run=false",
		"--timeout", "5s",
		"pattern.morphic",
	})
	require.NoError(t, err)
	assert.Equal(t, "python", cfg.Language)
	assert.Equal(t, "./src", cfg.Root)
	assert.Equal(t, []string{"**/*.py"}, cfg.Include)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"pattern.morphic"}, rest)
}

func TestApplyEnvOverridesTimeout(t *testing.T) {
	t.Setenv("MORPHIC_TIMEOUT", "2s")
	t.Setenv("MORPHIC_ROOT", "/tmp/scope")

	cfg := Default()
	ApplyEnv(&cfg)

	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/scope", cfg.Root)
}
