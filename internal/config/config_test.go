package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ladders/internal/access"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "main", cfg.Entry)
	assert.True(t, cfg.ShareReads)
	assert.Equal(t, access.IgnoreCallArguments, cfg.CallArguments)
	assert.Equal(t, []string{"<omp.h>"}, cfg.Includes)
	assert.Empty(t, cfg.OutputDir)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, `entry: kernel
output_dir: build
share_reads: false
call_arguments: Read
includes:
  - <omp.h>
  - "\"timing.h\""
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kernel", cfg.Entry)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.False(t, cfg.ShareReads)
	assert.Equal(t, access.ReadCallArguments, cfg.CallArguments)
	assert.Equal(t, []string{"<omp.h>", `"timing.h"`}, cfg.Includes)

	assert.Equal(t, access.ReadCallArguments, cfg.AccessOptions().CallArguments)
	assert.False(t, cfg.ScheduleOptions().ShareReads)
	assert.Len(t, cfg.EmitOptions().Includes, 2)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "output_dir: out\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.Entry)
	assert.True(t, cfg.ShareReads)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown key", "entry: main\nshare_read: true\n", "share_read"},
		{"bad call arguments", "call_arguments: always\n", "call_arguments"},
		{"bad include", "includes: [omp.h]\n", "includes[0]"},
		{"malformed yaml", "entry: [main\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), FileName, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.lad")

	cfg, used, err := Discover("", input)
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Default(), cfg)

	writeFile(t, dir, FileName, "entry: run\n")
	cfg, used, err = Discover("", input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), used)
	assert.Equal(t, "run", cfg.Entry)

	explicit := writeFile(t, t.TempDir(), "other.yaml", "entry: other\n")
	cfg, used, err = Discover(explicit, input)
	require.NoError(t, err)
	assert.Equal(t, explicit, used)
	assert.Equal(t, "other", cfg.Entry)

	_, _, err = Discover(filepath.Join(dir, "missing.yaml"), input)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvEntry, "kernel")
	t.Setenv(EnvOutputDir, "/tmp/out")
	t.Setenv(EnvShareReads, "false")
	t.Setenv(EnvCallArguments, "read")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "kernel", cfg.Entry)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.False(t, cfg.ShareReads)
	assert.Equal(t, access.ReadCallArguments, cfg.CallArguments)
}

func TestApplyEnvLeavesUnsetFields(t *testing.T) {
	cfg := Default()
	cfg.Entry = "run"
	cfg.ApplyEnv()
	assert.Equal(t, "run", cfg.Entry)
	assert.True(t, cfg.ShareReads)
}
