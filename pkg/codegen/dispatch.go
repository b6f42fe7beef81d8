package codegen

import (
	"fmt"
	"io"
	"strings"

	"cmdbufgen/pkg/api"
)

// DispatchGenerator writes the dispatch table and its pass-through filling
type DispatchGenerator struct {
	base
}

// NewDispatchGenerator creates a new dispatch generator
func NewDispatchGenerator(w io.Writer, sources *CustomSources) *DispatchGenerator {
	return &DispatchGenerator{base: base{w: w, sources: sources}}
}

// GenerateTable writes dispatch_table_autogen.h
func (g *DispatchGenerator) GenerateTable(fns []*api.Function) {
	g.emit("#include \"config.h\"\n")
	g.emit("#include \"compiler_private.h\"\n")
	g.emitAPIHeaders()

	g.emit("typedef void (*FunctionPointerType)(void);\n")
	g.emit("typedef struct _dispatch_table {\n")
	for _, fn := range fns {
		g.emit("    %s (*%s) (void *object%s);\n", fn.ReturnType, fn.Name, withLeading(", ", typedArgs(fn.OriginalArgs, ", ")))
	}
	g.emit("} dispatch_table_t;\n")
}

// GeneratePassthrough writes dispatch_table_autogen.c
func (g *DispatchGenerator) GeneratePassthrough(fns []*api.Function) {
	g.emitAPIHeaders()
	g.emit("\n")

	hasGetProcAddress := false
	for _, fn := range fns {
		if fn.Name == "eglGetProcAddress" {
			hasGetProcAddress = true
		}
		g.emit("static %s (*real_%s) (%s);\n", fn.ReturnType, fn.Name, typedArgs(fn.OriginalArgs, ", "))
	}
	if !hasGetProcAddress {
		g.emit("static __eglMustCastToProperFunctionPointerType (*real_eglGetProcAddress) (const char *procname);\n")
	}
	g.emit("\n")

	for _, fn := range fns {
		call := fmt.Sprintf("passthrough_%s (", fn.Name)
		sep := ",\n" + strings.Repeat(" ", len(call))
		ret := ""
		if fn.HasReturnValue() {
			ret = "return "
		}
		g.emit("static %s\n", fn.ReturnType)
		g.emit("%svoid* object%s)\n", call, withLeading(sep, typedArgs(fn.OriginalArgs, sep)))
		g.emit("{\n")
		g.emit("    %sreal_%s (%s);\n", ret, fn.Name, argNames(fn.OriginalArgs, ", "))
		g.emit("}\n\n")
	}

	g.emit("void\n")
	g.emit("dispatch_table_fill_base (dispatch_table_t *dispatch)\n")
	g.emit("{\n")
	g.emit("    FunctionPointerType *temp = NULL;\n")
	for _, fn := range fns {
		g.emit("    dispatch->%s = passthrough_%s;\n", fn.Name, fn.Name)
	}
	g.emit("\n")
	g.emit("    temp = (FunctionPointerType *) &real_eglGetProcAddress;\n")
	g.emit("    *temp = dlsym (libegl_handle (), \"eglGetProcAddress\");\n")
	for _, fn := range fns {
		if fn.Name == "eglGetProcAddress" {
			continue
		}
		lib := "gl"
		if strings.HasPrefix(fn.Name, "egl") {
			lib = "egl"
		}
		g.emit("    temp = (FunctionPointerType *) &real_%s;\n", fn.Name)
		g.emit("    *temp = find_gl_symbol (lib%s_handle (),\n", lib)
		g.emit("                            real_eglGetProcAddress, \"%s\");\n", fn.Name)
	}
	g.emit("}\n")
}
