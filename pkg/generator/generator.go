// Package generator drives one generation pass: it parses the declaration
// files, builds a command description per function and writes every output
// file.
package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"cmdbufgen/pkg/analysis"
	"cmdbufgen/pkg/api"
	"cmdbufgen/pkg/codegen"
	"cmdbufgen/pkg/config"
	"cmdbufgen/pkg/logutil"
	"cmdbufgen/pkg/parser"
	"cmdbufgen/pkg/writer"
)

var errorColor = color.New(color.FgRed)

// Generator holds the state of one run.
type Generator struct {
	cfg     *config.Config
	out     io.Writer
	logger  *slog.Logger
	domains *api.Domains
	sources *codegen.CustomSources
	builder *analysis.Builder

	// API functions in declaration order, and every command including
	// immediate variants
	declared  []*api.Function
	functions []*api.Function

	errs  *multierror.Error
	stats *codegen.GenerationStats
}

// New loads the metadata, enum domains and hand-written sources named by
// cfg. Error lines are written to out.
func New(cfg *config.Config, out io.Writer, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	infos, err := api.LoadFunctionInfo(cfg.Input.FunctionInfo)
	if err != nil {
		return nil, fmt.Errorf("loading function info: %w", err)
	}

	domains, err := api.DefaultDomains()
	if err != nil {
		return nil, err
	}
	if cfg.Input.Enums != "" {
		if err := domains.MergeFile(cfg.Input.Enums); err != nil {
			return nil, fmt.Errorf("loading enum domains: %w", err)
		}
	}

	sources, err := codegen.LoadCustomSources(cfg.Input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("loading hand-written sources: %w", err)
	}

	logger.Debug("inputs loaded", "functions", len(infos), "domains", domains.Len(), "source_dir", cfg.Input.SourceDir)

	return &Generator{
		cfg:     cfg,
		out:     out,
		logger:  logger,
		domains: domains,
		sources: sources,
		builder: analysis.NewBuilder(analysis.NewClassifier(domains), infos),
		stats:   codegen.NewGenerationStats(),
	}, nil
}

// Log prints progress in verbose mode
func (g *Generator) Log(msg string, args ...any) {
	g.logger.Debug(msg, args...)
}

// Error records a failure and reports it on one line
func (g *Generator) Error(err error) {
	g.errs = multierror.Append(g.errs, err)
	g.stats.Errors++
	errorColor.Fprintf(g.out, "Error: %s\n", err)
}

// Errors returns the number of failures so far
func (g *Generator) Errors() int {
	if g.errs == nil {
		return 0
	}
	return len(g.errs.Errors)
}

// Err returns every failure so far, or nil
func (g *Generator) Err() error {
	return g.errs.ErrorOrNil()
}

// Functions returns every generated command, immediate variants included
func (g *Generator) Functions() []*api.Function {
	return g.functions
}

// Stats returns the statistics of the run
func (g *Generator) Stats() *codegen.GenerationStats {
	return g.stats
}

// Domains returns the enum domains in use
func (g *Generator) Domains() *api.Domains {
	return g.domains
}

// ParseAPI parses declarations and adds the resulting commands
func (g *Generator) ParseAPI(input string, dialect parser.Dialect) {
	p := parser.New(input, dialect)
	for {
		decl, ok := p.Next()
		if !ok {
			return
		}
		g.AddDeclaration(decl)
	}
}

// ParseAPIFile parses one declaration file
func (g *Generator) ParseAPIFile(path string, dialect parser.Dialect) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g.Log("parsing declarations", "file", path, "dialect", dialect)
	g.ParseAPI(string(data), dialect)
	return nil
}

// AddDeclaration builds the command of decl. Failures are recorded and the
// function is left out of every output.
func (g *Generator) AddDeclaration(decl parser.Declaration) {
	fn, err := g.builder.Build(decl)
	if err != nil {
		g.Error(fmt.Errorf("%s: %w", decl.Name, err))
		return
	}
	if fn == nil {
		g.Log("skipping noop function", "name", decl.Name)
		return
	}
	if !fn.Info.GeneratesCommand() {
		g.Log("skipping function without command", "name", decl.Name)
		return
	}

	var imm *api.Function
	if analysis.WantsImmediate(fn) {
		if imm, err = analysis.NewImmediateFunction(fn); err != nil {
			g.Error(fmt.Errorf("%s: %w", decl.Name, err))
			return
		}
	}

	g.logger.Log(context.Background(), logutil.LevelTrace, "built command",
		"name", fn.Name, "category", fn.Category, "fields", len(fn.CmdArgs), "pointers", fn.NumPointerArgs)
	g.declared = append(g.declared, fn)
	g.functions = append(g.functions, fn)
	g.stats.Record(fn, g.sources)

	if imm != nil {
		g.functions = append(g.functions, imm)
		g.stats.Record(imm, g.sources)
	}
}

type output struct {
	name   string
	header bool
	write  func(w io.Writer)
}

func (g *Generator) outputs() []output {
	kind := g.cfg.Kind
	return []output{
		{"dispatch_table_autogen.h", true, func(w io.Writer) {
			codegen.NewDispatchGenerator(w, g.sources).GenerateTable(g.declared)
		}},
		{"dispatch_table_autogen.c", false, func(w io.Writer) {
			codegen.NewDispatchGenerator(w, g.sources).GeneratePassthrough(g.declared)
		}},
		{"command_autogen.h", false, func(w io.Writer) {
			codegen.NewCommandGenerator(w, g.sources, kind).GenerateHeader(g.functions)
		}},
		{"command_types_autogen.h", false, func(w io.Writer) {
			codegen.NewCommandGenerator(w, g.sources, kind).GenerateEnum(g.functions)
		}},
		{"enum_validation.h", true, func(w io.Writer) {
			codegen.NewValidationGenerator(w).GenerateValidation(g.domains)
		}},
		{"command_autogen.c", false, func(w io.Writer) {
			codegen.NewCommandGenerator(w, g.sources, kind).GenerateImplementation(g.functions)
		}},
		{"client_entry_points.c", false, func(w io.Writer) {
			codegen.NewClientGenerator(w, g.sources).GenerateEntryPoints(g.declared)
		}},
		{"client_autogen.c", false, func(w io.Writer) {
			codegen.NewClientGenerator(w, g.sources).GenerateClient(g.declared)
		}},
		{"caching_client_dispatch_autogen.c", false, func(w io.Writer) {
			codegen.NewClientGenerator(w, g.sources).GenerateCachingClient(g.declared)
		}},
		{"server_autogen.c", false, func(w io.Writer) {
			codegen.NewServerGenerator(w, g.sources).GenerateServer(g.functions)
		}},
		{"boundary_tests_autogen.c", false, func(w io.Writer) {
			g.stats.BoundaryTests = codegen.NewBoundaryTestGenerator(w, g.sources).GenerateTests(g.functions)
		}},
	}
}

// OutputNames lists the generated files in writing order
func (g *Generator) OutputNames() []string {
	var names []string
	for _, o := range g.outputs() {
		names = append(names, o.name)
	}
	return names
}

// WriteAll writes every output file below the output directory. Files whose
// content did not change are left untouched.
func (g *Generator) WriteAll() error {
	for _, o := range g.outputs() {
		path := filepath.Join(g.cfg.Output.Dir, o.name)
		var w *writer.CWriter
		if o.header {
			w = writer.NewHeader(path)
		} else {
			w = writer.New(path)
		}
		o.write(w)

		changed, err := w.Close()
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if changed {
			g.stats.FilesWritten++
			g.Log("wrote file", "path", path)
		} else {
			g.stats.FilesKept++
			g.Log("file unchanged", "path", path)
		}
	}
	return nil
}

// Run parses every configured declaration file and writes the outputs
func (g *Generator) Run() error {
	for _, path := range g.cfg.Input.GLES2 {
		if err := g.ParseAPIFile(path, parser.DialectGL); err != nil {
			return err
		}
	}
	for _, path := range g.cfg.Input.EGL {
		if err := g.ParseAPIFile(path, parser.DialectEGL); err != nil {
			return err
		}
	}
	return g.WriteAll()
}
