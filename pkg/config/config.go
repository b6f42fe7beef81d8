package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read from the working directory when no --config is given
const DefaultFile = "cmdbufgen.toml"

// Config represents the TOML configuration structure
type Config struct {
	Kind string `toml:"kind"` // suffix of the command header guard

	Input struct {
		FunctionInfo string   `toml:"function_info"`
		Enums        string   `toml:"enums"`
		GLES2        []string `toml:"gles2"`
		EGL          []string `toml:"egl"`
		SourceDir    string   `toml:"source_dir"`
	} `toml:"input"`

	Output struct {
		Dir string `toml:"dir"`
	} `toml:"output"`

	Logging struct {
		Verbose bool `toml:"verbose"`
		Trace   bool `toml:"trace"`
	} `toml:"logging"`
}

// Default returns the configuration used when nothing else is given. The
// file names follow the layout of a checkout of the runtime.
func Default() *Config {
	cfg := &Config{Kind: "GLES"}
	cfg.Input.FunctionInfo = "function_info.json"
	cfg.Input.GLES2 = []string{"gles2_functions.txt"}
	cfg.Input.EGL = []string{"egl_functions.txt"}
	cfg.Input.SourceDir = ".."
	cfg.Output.Dir = "."
	return cfg
}

// Load reads path over the defaults, resolving relative input paths against
// the directory of the file. An empty path loads DefaultFile when present.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Input.FunctionInfo = abs(c.Input.FunctionInfo)
	c.Input.Enums = abs(c.Input.Enums)
	c.Input.SourceDir = abs(c.Input.SourceDir)
	c.Output.Dir = abs(c.Output.Dir)
	for i := range c.Input.GLES2 {
		c.Input.GLES2[i] = abs(c.Input.GLES2[i])
	}
	for i := range c.Input.EGL {
		c.Input.EGL[i] = abs(c.Input.EGL[i])
	}
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

// ApplyEnv overrides values from CMDBUFGEN_* environment variables
func (c *Config) ApplyEnv() {
	if dir := clean("CMDBUFGEN_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if dir := clean("CMDBUFGEN_SOURCE_DIR"); dir != "" {
		c.Input.SourceDir = dir
	}
	if info := clean("CMDBUFGEN_FUNCTION_INFO"); info != "" {
		c.Input.FunctionInfo = info
	}
	if verbose := clean("CMDBUFGEN_VERBOSE"); verbose != "" {
		v, err := strconv.ParseBool(verbose)
		if err == nil {
			c.Logging.Verbose = v
		} else {
			c.Logging.Verbose = true
		}
	}
}

// EnvVar documents one environment override
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap lists the environment overrides with their current values
func (c *Config) AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"CMDBUFGEN_OUTPUT_DIR":    {"CMDBUFGEN_OUTPUT_DIR", c.Output.Dir, "Base directory for generated files"},
		"CMDBUFGEN_SOURCE_DIR":    {"CMDBUFGEN_SOURCE_DIR", c.Input.SourceDir, "Directory holding the hand-written sources"},
		"CMDBUFGEN_FUNCTION_INFO": {"CMDBUFGEN_FUNCTION_INFO", c.Input.FunctionInfo, "Function metadata table (.json or .yaml)"},
		"CMDBUFGEN_VERBOSE":       {"CMDBUFGEN_VERBOSE", c.Logging.Verbose, "Print progress and statistics (e.g. CMDBUFGEN_VERBOSE=1)"},
	}
}
