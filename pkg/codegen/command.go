package codegen

import (
	"fmt"
	"io"
	"strings"

	"cmdbufgen/pkg/api"
)

// CommandGenerator writes command structs, their init and destroy functions,
// the size table and the command id list
type CommandGenerator struct {
	base
	kind string
}

// NewCommandGenerator creates a new command generator
func NewCommandGenerator(w io.Writer, sources *CustomSources, kind string) *CommandGenerator {
	return &CommandGenerator{base: base{w: w, sources: sources}, kind: kind}
}

// GenerateStruct writes the command struct of fn
func (g *CommandGenerator) GenerateStruct(fn *api.Function) {
	if fn.Info.CmdComment != nil {
		g.emit("%s", *fn.Info.CmdComment)
	}
	lname := api.LowerName(fn.Name)
	g.emit("typedef struct _command_%s {\n", lname)
	g.emit("    command_t header;\n")
	for _, a := range fn.CmdArgs {
		switch StorageOf(fn, a) {
		case StoreShm:
			g.emit("    uint32_t %s_shm_id;\n", a.Name)
			g.emit("    uint32_t %s_shm_offset;\n", a.Name)
		case StoreInline:
		case StoreValue, StoreRaw, StoreString, StoreCopy, StoreComputed:
			g.emit("    %s %s;\n", a.WireType(), a.Name)
		}
	}
	if fn.HasReturnValue() {
		g.emit("    %s result;\n", fn.ReturnType)
	}
	g.emit("} command_%s_t;\n\n", lname)
}

func (g *CommandGenerator) initSignature(fn *api.Function) string {
	call := fmt.Sprintf("command_%s_init (", api.LowerName(fn.Name))
	sep := ",\n" + strings.Repeat(" ", len(call))
	return "void\n" + call + "command_t *abstract_command" + withLeading(sep, typedArgs(fn.InitArgs, sep)) + ")"
}

// GenerateHeader writes command_autogen.h
func (g *CommandGenerator) GenerateHeader(fns []*api.Function) {
	g.emit("#ifndef COMMAND_AUTOGEN_%s_H\n", g.kind)
	g.emit("#define COMMAND_AUTOGEN_%s_H\n\n", g.kind)
	g.emit("#include \"command.h\"\n\n")
	g.emitAPIHeaders()

	for _, fn := range fns {
		if g.sources.HasCustomStruct(fn) {
			continue
		}
		g.GenerateStruct(fn)
	}
	g.emit("\n")

	for _, fn := range fns {
		g.emit("private %s;\n\n", g.initSignature(fn))
		if g.sources.NeedsDestructorCall(fn) {
			lname := api.LowerName(fn.Name)
			g.emit("private void\n")
			g.emit("command_%s_destroy_arguments (command_%s_t *command);\n\n", lname, lname)
		}
	}
	g.emit("#endif /*COMMAND_AUTOGEN_%s_H*/\n", g.kind)
}

// GenerateInit writes the init function of fn
func (g *CommandGenerator) GenerateInit(fn *api.Function) {
	g.emit("inline %s\n{\n", g.initSignature(fn))

	var computed []*api.Argument
	for _, a := range fn.CmdArgs {
		if StorageOf(fn, a) == StoreComputed {
			computed = append(computed, a)
		}
	}
	if len(fn.InitArgs) == 0 && len(computed) == 0 && !fn.HasReturnValue() {
		g.emit("}\n\n")
		return
	}

	ctype := commandType(fn)
	g.emit("    %s *command = (%s *) abstract_command;\n", ctype, ctype)
	for _, a := range fn.InitArgs {
		g.generateArgumentCopy(fn, a)
	}
	for _, a := range computed {
		g.emit("    command->%s = %s;\n", a.Name, fn.DataSizeExpression())
	}
	if fn.HasReturnValue() {
		g.emit("    command->result = 0;\n")
	}
	g.emit("}\n\n")
}

func (g *CommandGenerator) generateArgumentCopy(fn *api.Function, a *api.Argument) {
	switch StorageOf(fn, a) {
	case StoreString:
		g.emit("    command->%s = %s ? strdup (%s) : NULL;\n", a.Name, a.Name, a.Name)
	case StoreCopy:
		size := fn.SizeExpression(a)
		g.emit("    if (%s) {\n", a.Name)
		g.emit("        command->%s = malloc (%s);\n", a.Name, size)
		g.emit("        memcpy (command->%s, %s, %s);\n", a.Name, a.Name, size)
		g.emit("    } else\n")
		g.emit("        command->%s = 0;\n", a.Name)
	case StoreShm:
		g.emit("    command_reference_shared_memory (abstract_command, %s,\n", a.Name)
		g.emit("                                     &command->%s_shm_id,\n", a.Name)
		g.emit("                                     &command->%s_shm_offset);\n", a.Name)
	case StoreInline:
		size := fn.SizeExpression(a)
		if size == "" {
			size = "data_size"
		}
		g.emit("    if (%s)\n", a.Name)
		g.emit("        memcpy (command_get_immediate_data (abstract_command), %s, %s);\n", a.Name, size)
	case StoreComputed:
		g.emit("    command->%s = %s;\n", a.Name, fn.DataSizeExpression())
	case StoreValue, StoreRaw:
		g.emit("    command->%s = (%s) %s;\n", a.Name, api.StripConst(a.Type), a.Name)
	}
}

// GenerateDestroy writes the destructor of fn, releasing every field the
// init function allocated
func (g *CommandGenerator) GenerateDestroy(fn *api.Function) {
	lname := api.LowerName(fn.Name)
	g.emit("void\n")
	g.emit("command_%s_destroy_arguments (command_%s_t *command)\n", lname, lname)
	g.emit("{\n")
	for _, a := range fn.CmdArgs {
		if !StorageOf(fn, a).Owned() {
			continue
		}
		g.emit("    if (command->%s)\n", a.Name)
		g.emit("        free (command->%s);\n", a.Name)
	}
	g.emit("}\n\n")
}

// GenerateImplementation writes command_autogen.c
func (g *CommandGenerator) GenerateImplementation(fns []*api.Function) {
	g.emit("#include \"command.h\"\n")
	g.emit("#include <string.h>\n\n")
	g.emit("#include \"gles2_utils.h\"\n\n")

	for _, fn := range fns {
		if !g.sources.HasCustomInit(fn) {
			g.GenerateInit(fn)
		}
		if fn.NeedsDestructor() && !g.sources.HasCustomDestroyArguments(fn) {
			g.GenerateDestroy(fn)
		}
	}

	g.emit("void\n")
	g.emit("command_initialize_sizes (size_t *sizes)\n")
	g.emit("{\n")
	for _, fn := range fns {
		g.emit("    sizes[%s] = sizeof (%s);\n", commandID(fn), commandType(fn))
	}
	g.emit("}\n")
}

// GenerateEnum writes command_types_autogen.h
func (g *CommandGenerator) GenerateEnum(fns []*api.Function) {
	for _, fn := range fns {
		g.emit("%s,\n", commandID(fn))
	}
	g.emit("\n")
}
