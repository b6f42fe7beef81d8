package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"cmdbufgen/pkg/api"
)

// GenerationStats tracks what one generation pass produced
type GenerationStats struct {
	// Functions
	Functions         int // Commands generated, immediate variants included
	AutoGenerated     int // No pointer handling and void return, or a typed category
	NonAutoGenerated  int // Default, Custom or Todo with pointers or a return value
	ImmediateVariants int // Variants whose pointer payload follows the header
	Synchronous       int
	Asynchronous      int

	// Hand-written overrides
	CustomStructs        int
	CustomInits          int
	CustomServerHandlers int
	CustomEntryPoints    int

	// Outputs
	BoundaryTests int
	FilesWritten  int // Files whose content changed
	FilesKept     int // Files left untouched

	// Failures
	Errors int

	nonAuto []*api.Function
}

// NewGenerationStats creates a new statistics tracker
func NewGenerationStats() *GenerationStats {
	return &GenerationStats{}
}

// IsNonAutoGenerated reports whether fn needs hand-written attention
func IsNonAutoGenerated(fn *api.Function) bool {
	if fn.CanAutoGenerate() {
		return false
	}
	return fn.IsCategory(api.CategoryDefault) || fn.IsCategory(api.CategoryCustom) || fn.IsCategory(api.CategoryTodo)
}

// Record counts one generated function
func (s *GenerationStats) Record(fn *api.Function, sources *CustomSources) {
	s.Functions++
	if fn.IsImmediate {
		s.ImmediateVariants++
	} else if IsNonAutoGenerated(fn) {
		s.NonAutoGenerated++
		s.nonAuto = append(s.nonAuto, fn)
	} else {
		s.AutoGenerated++
	}
	if fn.IsSynchronous() {
		s.Synchronous++
	} else {
		s.Asynchronous++
	}
	if sources == nil {
		return
	}
	if sources.HasCustomStruct(fn) {
		s.CustomStructs++
	}
	if sources.HasCustomInit(fn) {
		s.CustomInits++
	}
	if sources.HasCustomServerHandler(fn) {
		s.CustomServerHandlers++
	}
	if !fn.IsImmediate && sources.HasCustomClientEntryPoint(fn) {
		s.CustomEntryPoints++
	}
}

// String returns a formatted statistics report
func (s *GenerationStats) String() string {
	var sb strings.Builder

	sb.WriteString("=== Generation Statistics ===\n\n")

	sb.WriteString("Functions:\n")
	sb.WriteString(fmt.Sprintf("  Commands:            %d\n", s.Functions))
	sb.WriteString(fmt.Sprintf("  Auto generated:      %d\n", s.AutoGenerated))
	sb.WriteString(fmt.Sprintf("  Non auto generated:  %d\n", s.NonAutoGenerated))
	sb.WriteString(fmt.Sprintf("  Immediate variants:  %d\n", s.ImmediateVariants))
	sb.WriteString(fmt.Sprintf("  Synchronous:         %d\n", s.Synchronous))
	sb.WriteString(fmt.Sprintf("  Asynchronous:        %d\n", s.Asynchronous))

	sb.WriteString("\nHand-Written Overrides:\n")
	sb.WriteString(fmt.Sprintf("  Structs:             %d\n", s.CustomStructs))
	sb.WriteString(fmt.Sprintf("  Init functions:      %d\n", s.CustomInits))
	sb.WriteString(fmt.Sprintf("  Server handlers:     %d\n", s.CustomServerHandlers))
	sb.WriteString(fmt.Sprintf("  Entry points:        %d\n", s.CustomEntryPoints))

	sb.WriteString("\nOutputs:\n")
	sb.WriteString(fmt.Sprintf("  Boundary tests:      %d\n", s.BoundaryTests))
	sb.WriteString(fmt.Sprintf("  Files written:       %d\n", s.FilesWritten))
	sb.WriteString(fmt.Sprintf("  Files unchanged:     %d\n", s.FilesKept))

	sb.WriteString(fmt.Sprintf("\n=== Errors: %d ===\n", s.Errors))

	return sb.String()
}

// Summary returns a one-line summary
func (s *GenerationStats) Summary() string {
	if s.Functions == 0 {
		return "No commands generated"
	}
	return fmt.Sprintf("Generated %d commands (%d immediate, %d sync, %d async), %d files written, %d unchanged, %d errors",
		s.Functions, s.ImmediateVariants, s.Synchronous, s.Asynchronous, s.FilesWritten, s.FilesKept, s.Errors)
}

// WriteNonAutoGenerated renders the functions that need hand-written code
func (s *GenerationStats) WriteNonAutoGenerated(w io.Writer) {
	data := make([][]string, 0, len(s.nonAuto))
	for _, fn := range s.nonAuto {
		data = append(data, []string{fn.Category.String(), fn.ReturnType, fn.Name})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"TYPE", "RETURN", "FUNCTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

// Merge combines stats from another GenerationStats
func (s *GenerationStats) Merge(other *GenerationStats) {
	if other == nil {
		return
	}

	s.Functions += other.Functions
	s.AutoGenerated += other.AutoGenerated
	s.NonAutoGenerated += other.NonAutoGenerated
	s.ImmediateVariants += other.ImmediateVariants
	s.Synchronous += other.Synchronous
	s.Asynchronous += other.Asynchronous
	s.CustomStructs += other.CustomStructs
	s.CustomInits += other.CustomInits
	s.CustomServerHandlers += other.CustomServerHandlers
	s.CustomEntryPoints += other.CustomEntryPoints
	s.BoundaryTests += other.BoundaryTests
	s.FilesWritten += other.FilesWritten
	s.FilesKept += other.FilesKept
	s.Errors += other.Errors
	s.nonAuto = append(s.nonAuto, other.nonAuto...)
}
