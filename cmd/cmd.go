package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cmdbufgen/pkg/config"
	"cmdbufgen/pkg/generator"
	"cmdbufgen/pkg/logutil"
)

// Options are the command line overrides of the configuration
type Options struct {
	Config       string
	Verbose      bool
	Trace        bool
	OutputDir    string
	FunctionInfo string
	Enums        string
	GLES2        []string
	EGL          []string
	SourceDir    string
}

// Apply copies the set options over cfg
func (o *Options) Apply(cfg *config.Config) {
	if o.Verbose {
		cfg.Logging.Verbose = true
	}
	if o.Trace {
		cfg.Logging.Trace = true
	}
	if o.OutputDir != "" {
		cfg.Output.Dir = o.OutputDir
	}
	if o.FunctionInfo != "" {
		cfg.Input.FunctionInfo = o.FunctionInfo
	}
	if o.Enums != "" {
		cfg.Input.Enums = o.Enums
	}
	if len(o.GLES2) > 0 {
		cfg.Input.GLES2 = o.GLES2
	}
	if len(o.EGL) > 0 {
		cfg.Input.EGL = o.EGL
	}
	if o.SourceDir != "" {
		cfg.Input.SourceDir = o.SourceDir
	}
}

// LoadConfig reads the config file, then the environment, then the flags
func LoadConfig(o *Options) (*config.Config, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	o.Apply(cfg)
	return cfg, nil
}

// Generate runs one generation pass. Per-function failures are printed to
// stdout as they happen and reported as a count.
func Generate(cfg *config.Config, stdout, stderr io.Writer) error {
	logger := logutil.NewLogger(stderr, logutil.Level(cfg.Logging.Verbose, cfg.Logging.Trace))

	g, err := generator.New(cfg, stdout, logger)
	if err != nil {
		return err
	}
	if err := g.Run(); err != nil {
		return err
	}

	stats := g.Stats()
	logger.Info(stats.Summary())
	if cfg.Logging.Verbose {
		fmt.Fprint(stderr, stats.String())
		if stats.NonAutoGenerated > 0 {
			fmt.Fprintln(stderr, "\nFunctions needing hand-written code:")
			stats.WriteNonAutoGenerated(stderr)
		}
	}

	if n := g.Errors(); n > 0 {
		return fmt.Errorf("%d errors", n)
	}
	return nil
}

func appendEnvDocs(cmd *cobra.Command, cfg *config.Config) {
	vars := cfg.AsMap()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("\nEnvironment Variables:\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("      %-25s %s\n", vars[k].Name, vars[k].Description))
	}
	cmd.SetUsageTemplate(cmd.UsageTemplate() + sb.String())
}

func NewCLI() *cobra.Command {
	var opts Options

	rootCmd := &cobra.Command{
		Use:   "cmdbufgen",
		Short: "Generate GL/EGL command buffer marshaling code",
		Long: "Reads GLES2 and EGL declarations plus a per-function metadata table and\n" +
			"writes the command structs, client stubs, server handlers, dispatch\n" +
			"tables and boundary tests of the command buffer runtime.",
		Args: cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(&opts)
			if err != nil {
				return err
			}
			return Generate(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.Config, "config", "", "TOML config file (default ./"+config.DefaultFile+" if present)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Print progress and statistics")
	flags.BoolVar(&opts.Trace, "trace", false, "Log every built command")
	flags.StringVar(&opts.OutputDir, "output-dir", "", "Base directory for generated files")
	flags.StringVar(&opts.FunctionInfo, "function-info", "", "Function metadata table (.json or .yaml)")
	flags.StringVar(&opts.Enums, "enums", "", "Extra enum domains (.yaml)")
	flags.StringSliceVar(&opts.GLES2, "gles2", nil, "GLES2 declaration file")
	flags.StringSliceVar(&opts.EGL, "egl", nil, "EGL declaration file")
	flags.StringVar(&opts.SourceDir, "source-dir", "", "Directory holding the hand-written sources")

	appendEnvDocs(rootCmd, config.Default())
	return rootCmd
}
