package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "cmdbufgen.toml"))
	require.NoError(t, err)

	want := Default()
	want.Input.FunctionInfo = filepath.Join("testdata", "api", "function_info.yaml")
	want.Input.Enums = filepath.Join("testdata", "api", "extra_enums.yaml")
	want.Input.GLES2 = []string{
		filepath.Join("testdata", "api", "gles2_functions.txt"),
		filepath.Join("testdata", "api", "gles2_ext_functions.txt"),
	}
	want.Input.EGL = []string{"/usr/share/cmdbuf/egl_functions.txt"}
	want.Input.SourceDir = filepath.Join("testdata", "src")
	want.Output.Dir = filepath.Join("testdata", "gen")
	want.Logging.Verbose = true

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load("missing.toml")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(DefaultFile, []byte("kind = [\n"), 0o644))
	_, err = Load("")
	assert.ErrorContains(t, err, DefaultFile)
}

func TestApplyEnv(t *testing.T) {
	cases := map[string]struct {
		value  string
		expect bool
	}{
		"empty":   {"", false},
		"true":    {"true", true},
		"false":   {"false", false},
		"1":       {"1", true},
		"0":       {"0", false},
		"quoted":  {"'1'", true},
		"garbage": {"yes please", true},
	}
	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CMDBUFGEN_VERBOSE", tt.value)
			cfg := Default()
			cfg.ApplyEnv()
			assert.Equal(t, tt.expect, cfg.Logging.Verbose)
		})
	}

	t.Run("paths", func(t *testing.T) {
		t.Setenv("CMDBUFGEN_OUTPUT_DIR", " /tmp/out ")
		t.Setenv("CMDBUFGEN_SOURCE_DIR", `"/src"`)
		t.Setenv("CMDBUFGEN_FUNCTION_INFO", "info.yaml")
		cfg := Default()
		cfg.ApplyEnv()
		assert.Equal(t, "/tmp/out", cfg.Output.Dir)
		assert.Equal(t, "/src", cfg.Input.SourceDir)
		assert.Equal(t, "info.yaml", cfg.Input.FunctionInfo)
	})
}

func TestAsMap(t *testing.T) {
	cfg := Default()
	vars := cfg.AsMap()
	assert.Len(t, vars, 4)
	assert.Equal(t, ".", vars["CMDBUFGEN_OUTPUT_DIR"].Value)
	for key, v := range vars {
		assert.Equal(t, key, v.Name)
		assert.NotEmpty(t, v.Description)
	}
}
