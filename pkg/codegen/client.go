package codegen

import (
	"fmt"
	"io"
	"strings"

	"cmdbufgen/pkg/api"
)

// functionsGeneratingErrors mark the client state so the next glGetError
// goes to the server
var functionsGeneratingErrors = map[string]bool{
	"glAttachShader":                        true,
	"glBindAttribLocation":                  true,
	"glBindBuffer":                          true,
	"glBufferData":                          true,
	"glBufferSubData":                       true,
	"glCompileShader":                       true,
	"glCompressedTexImage2D":                true,
	"glCompressedTexSubImage2D":             true,
	"glCopyTexImage2D":                      true,
	"glCopyTexSubImage2D":                   true,
	"glDetachShader":                        true,
	"glFramebufferRenderbuffer":             true,
	"glFramebufferTexture2D":                true,
	"glGenerateMipmap":                      true,
	"glGetBufferParameteriv":                true,
	"glGetIntegerv":                         true,
	"glGetProgramInfoLog":                   true,
	"glGetShaderInfoLog":                    true,
	"glGetShaderiv":                         true,
	"glGetShaderPrecisionFormat":            true,
	"glGetShaderSource":                     true,
	"glLinkProgram":                         true,
	"glReadPixels":                          true,
	"glReleaseShaderCompiler":               true,
	"glRenderbufferStorage":                 true,
	"glShaderBinary":                        true,
	"glValidateProgram":                     true,
	"glVertexAttribPointer":                 true,
	"glBindVertexArrayOES":                  true,
	"glEGLImageTargetTexture2DOES":          true,
	"glGetProgramBinaryOES":                 true,
	"glProgramBinaryOES":                    true,
	"glGetBufferPointervOES":                true,
	"glTexImage3DOES":                       true,
	"glTexSubImage3DOES":                    true,
	"glCopyTexSubImage3DOES":                true,
	"glCompressedTexImage3DOES":             true,
	"glCompressedTexSubImage3DOES":          true,
	"glFramebufferTexture2DMultisampleEXT":  true,
	"glFramebufferTexture2DMultisampleIMG":  true,
	"glFramebufferTexture3DOES":             true,
	"glBeginPerfMonitorAMD":                 true,
	"glGetPerfMonitorGroupsAMD":             true,
	"glGetPerfMonitorCountersAMD":           true,
	"glGetPerfMonitorGroupStringAMD":        true,
	"glGetPerfMonitorCounterStringAMD":      true,
	"glGetPerfMonitorCounterInfoAMD":        true,
	"glGenPerfMonitorsAMD":                  true,
	"glEndPerfMonitorAMD":                   true,
	"glDeletePerfMonitorsAMD":               true,
	"glSelectPerfMonitorCountersAMD":        true,
	"glGetPerfMonitorCounterDataAMD":        true,
	"glBlitFramebufferANGLE":                true,
	"glRenderbufferStorageMultisampleANGLE": true,
	"glRenderbufferStorageMultisampleAPPLE": true,
	"glResolveMultisampleFramebufferAPPLE":  true,
	"glRenderbufferStorageMultisampleEXT":   true,
	"glRenderbufferStorageMultisampleIMG":   true,
	"glSetFenceNV":                          true,
	"glFinishFenceNV":                       true,
	"glCoverageMaskNV":                      true,
	"glGetDriverControlsQCOM":               true,
	"glEnableDriverControlQCOM":             true,
	"glDisableDriverControlQCOM":            true,
	"glExtTexObjectStateOverrideiQCOM":      true,
	"glExtGetTexLevelParameterivQCOM":       true,
	"glExtGetTexSubImageQCOM":               true,
	"glExtGetBufferPointervQCOM":            true,
	"glExtIsProgramBinaryQCOM":              true,
	"glExtGetProgramBinarySourceQCOM":       true,
	"glStartTilingQCOM":                     true,
	"glEndTilingQCOM":                       true,
	"glGetDriverControlStringQCOM":          true,
}

// GeneratesErrors reports whether fn marks the context for an error poll
func GeneratesErrors(fn *api.Function) bool {
	return functionsGeneratingErrors[fn.Name]
}

// ClientGenerator writes the client stubs, entry points and caching table
type ClientGenerator struct {
	base
}

// NewClientGenerator creates a new client generator
func NewClientGenerator(w io.Writer, sources *CustomSources) *ClientGenerator {
	return &ClientGenerator{base: base{w: w, sources: sources}}
}

// EntryPointSignature returns the exported prototype of fn, or "" when the
// entry point is written by hand
func (g *ClientGenerator) EntryPointSignature(fn *api.Function) string {
	if g.sources.HasCustomClientEntryPoint(fn) {
		return ""
	}
	args := typedArgs(fn.OriginalArgs, ", ")
	if args == "" {
		args = "void"
	}
	name := fn.Name
	if fn.ShouldHideEntryPoint() {
		name = "__hidden_gpuproxy_" + name
	}
	return fmt.Sprintf("%s %s (%s)", fn.ReturnType, name, args)
}

// GenerateEntryPoints writes client_entry_points.c
func (g *ClientGenerator) GenerateEntryPoints(fns []*api.Function) {
	g.emit("#include \"caching_client.h\"\n")
	g.emitAPIHeaders()

	for _, fn := range fns {
		if strings.Contains(fn.Name, "eglGetProcAddress") {
			continue
		}
		header := g.EntryPointSignature(fn)
		if header == "" {
			continue
		}
		ret := ""
		if fn.HasReturnValue() {
			ret = "return "
		}
		names := argNames(fn.OriginalArgs, ", ")

		g.emit("%s\n{\n", header)
		g.emit("    INSTRUMENT();\n")
		g.emit("    if (should_use_base_dispatch ()) {\n")
		g.emit("        %sdispatch_table_get_base ()->%s (NULL%s);\n", ret, fn.Name, withLeading(", ", names))
		if !fn.HasReturnValue() {
			g.emit("        return;\n")
		}
		g.emit("    }\n")
		g.emit("    client_t *client = client_get_thread_local ();\n")
		g.emit("    %sclient->dispatch.%s (client%s);\n", ret, fn.Name, withLeading(", ", names))
		g.emit("}\n\n")
	}
}

// GenerateStub writes the client_dispatch function of fn
func (g *ClientGenerator) GenerateStub(fn *api.Function) {
	lname := api.LowerName(fn.Name)
	g.emit("static %s\n", fn.ReturnType)
	g.emit("client_dispatch_%s (void* object%s)\n", lname, withLeading(",\n    ", typedArgs(fn.OriginalArgs, ",\n    ")))
	g.emit("{\n")

	if GeneratesErrors(fn) {
		g.emit("    egl_state_t *state = client_get_current_state (CLIENT (object));\n")
		g.emit("    if (state)\n")
		g.emit("        state->need_get_error = true;\n\n")
	}

	g.emit("    INSTRUMENT();\n")
	g.emit("    command_t *command = client_get_space_for_command (%s);\n", commandID(fn))

	header := fmt.Sprintf("    command_%s_init (", lname)
	indent := ",\n" + strings.Repeat(" ", len(header))
	g.emit("%scommand%s);\n\n", header, withLeading(indent, argNames(fn.InitArgs, indent)))

	if fn.IsSynchronous() {
		g.emit("    client_run_command (command);\n")
		if fn.HasReturnValue() {
			g.emit("\n    return ((%s *)command)->result;\n", commandType(fn))
		}
	} else {
		g.emit("    client_run_command_async (command);\n")
		if fn.HasReturnValue() {
			g.emit("\n    %s;\n", fn.DefaultReturnStatement())
		}
	}
	g.emit("}\n\n")
}

// GenerateClient writes client_autogen.c
func (g *ClientGenerator) GenerateClient(fns []*api.Function) {
	g.emitAPIHeaders()
	for _, fn := range fns {
		g.GenerateStub(fn)
	}

	g.emit("void\n")
	g.emit("client_fill_dispatch_table (dispatch_table_t *dispatch)\n")
	g.emit("{\n")
	for _, fn := range fns {
		g.emit("    dispatch->%s = client_dispatch_%s;\n", fn.Name, api.LowerName(fn.Name))
	}
	g.emit("}\n")
}

// GenerateCachingClient writes caching_client_dispatch_autogen.c
func (g *ClientGenerator) GenerateCachingClient(fns []*api.Function) {
	for _, fn := range fns {
		if !g.sources.HasCachingClientOverride(fn) {
			continue
		}
		g.emit("    client->super.dispatch.%s = caching_client_%s;\n", fn.Name, fn.Name)
	}
}
