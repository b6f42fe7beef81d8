package codegen

import (
	"fmt"
	"io"
	"strings"

	"cmdbufgen/pkg/analysis"
	"cmdbufgen/pkg/api"
)

// BoundaryCase is one generated boundary test
type BoundaryCase struct {
	Function *api.Function
	Arg      *api.Argument
	Index    int
	Invalid  analysis.InvalidCase
}

// TestName is the C function name of the test
func (c BoundaryCase) TestName() string {
	return fmt.Sprintf("test_%s_invalid_%s_%d", api.LowerName(c.Function.Name), c.Arg.Name, c.Index)
}

// BoundaryCases lists every invalid value of every command argument of fn.
// Pointer cases only exist for arguments passed through shared memory.
func BoundaryCases(fn *api.Function) []BoundaryCase {
	var cases []BoundaryCase
	for _, a := range fn.CmdArgs {
		n := analysis.NumInvalidValues(fn, a)
		if a.Kind == api.KindPointer && StorageOf(fn, a) != StoreShm {
			n = 0
		}
		for i := 0; i < n; i++ {
			inv, ok := analysis.InvalidArg(a, i)
			if !ok {
				continue
			}
			cases = append(cases, BoundaryCase{Function: fn, Arg: a, Index: i, Invalid: inv})
		}
	}
	return cases
}

// GenFunction is the call that creates a resource of the argument's type
func GenFunction(fn *api.Function, a *api.Argument) string {
	if fn.Info.GenFunc != "" {
		return fn.Info.GenFunc
	}
	return fmt.Sprintf("glGen%ss", api.TitleName(a.ResourceType))
}

// BoundaryTestGenerator writes boundary tests driving each command with one
// invalid argument at a time
type BoundaryTestGenerator struct {
	base
}

// NewBoundaryTestGenerator creates a new boundary test generator
func NewBoundaryTestGenerator(w io.Writer, sources *CustomSources) *BoundaryTestGenerator {
	return &BoundaryTestGenerator{base: base{w: w, sources: sources}}
}

func (g *BoundaryTestGenerator) assign(fn *api.Function, a *api.Argument, value string) {
	switch StorageOf(fn, a) {
	case StoreShm:
		parts := strings.SplitN(value, ",", 2)
		if len(parts) != 2 {
			parts = []string{"kValidSharedMemoryId", "kValidSharedMemoryOffset"}
		}
		g.emit("    command->%s_shm_id = %s;\n", a.Name, strings.TrimSpace(parts[0]))
		g.emit("    command->%s_shm_offset = %s;\n", a.Name, strings.TrimSpace(parts[1]))
	case StoreInline:
	case StoreRaw, StoreString, StoreCopy:
		g.emit("    command->%s = NULL;\n", a.Name)
	case StoreValue, StoreComputed:
		g.emit("    command->%s = %s;\n", a.Name, value)
	}
}

// GenerateCase writes one boundary test
func (g *BoundaryTestGenerator) GenerateCase(c BoundaryCase) {
	fn := c.Function
	g.emit("static void\n%s (void)\n{\n", c.TestName())

	seen := map[string]bool{}
	for _, a := range fn.CmdArgs {
		switch a.Kind {
		case api.KindResourceID, api.KindResourceIDBind, api.KindResourceIDZero:
			v := analysis.ResourceVariable(a.ResourceType)
			if seen[v] {
				continue
			}
			seen[v] = true
			g.emit("    GLuint %s = 0;\n", v)
			g.emit("    %s (1, &%s);\n", GenFunction(fn, a), v)
		}
	}
	if len(seen) > 0 {
		g.emit("\n")
	}

	g.emit("    command_t *abstract_command = test_get_space_for_command (%s);\n", commandID(fn))
	g.emit("    %s *command = (%s *) abstract_command;\n", commandType(fn), commandType(fn))
	for i, a := range fn.CmdArgs {
		if a == c.Arg {
			g.assign(fn, a, c.Invalid.Value)
			continue
		}
		g.assign(fn, a, analysis.ValidArg(fn, a, i))
	}
	g.emit("    EXPECT_PARSE_RESULT (%s, test_execute_command (abstract_command));\n", c.Invalid.ParseResult)
	if c.Invalid.GLError != "" {
		g.emit("    EXPECT_GL_ERROR (%s);\n", c.Invalid.GLError)
	}
	g.emit("}\n\n")
}

// GenerateTests writes boundary_tests_autogen.c and returns the number of
// tests written
func (g *BoundaryTestGenerator) GenerateTests(fns []*api.Function) int {
	g.emit("#include \"test_utils.h\"\n")
	g.emit("#include \"command.h\"\n\n")
	g.emitAPIHeaders()

	var all []BoundaryCase
	for _, fn := range fns {
		if g.sources.HasCustomStruct(fn) {
			continue
		}
		cases := BoundaryCases(fn)
		for _, c := range cases {
			g.GenerateCase(c)
		}
		all = append(all, cases...)
	}

	g.emit("void\n")
	g.emit("boundary_tests_register (test_suite_t *suite)\n")
	g.emit("{\n")
	for _, c := range all {
		g.emit("    test_suite_add (suite, \"%s %s invalid %d\", %s);\n",
			c.Function.Name, c.Arg.Name, c.Index, c.TestName())
	}
	g.emit("}\n")
	return len(all)
}
