package codegen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cmdbufgen/pkg/api"
)

// CustomSources holds the hand-written sources that replace generated code.
// A function whose init, destructor, struct, server handler or caching
// client entry is found here is not generated for that artifact.
type CustomSources struct {
	CommandC      string // command_custom.c
	CommandH      string // command_custom.h
	Server        string // server/server.c
	CachingClient string // client/caching_client.c
}

// LoadCustomSources reads the hand-written sources below dir. Missing files
// are treated as empty.
func LoadCustomSources(dir string) (*CustomSources, error) {
	read := func(parts ...string) (string, error) {
		data, err := os.ReadFile(filepath.Join(append([]string{dir}, parts...)...))
		if os.IsNotExist(err) {
			return "", nil
		}
		return string(data), err
	}

	s := &CustomSources{}
	var err error
	if s.CommandC, err = read("command_custom.c"); err != nil {
		return nil, err
	}
	if s.CommandH, err = read("command_custom.h"); err != nil {
		return nil, err
	}
	if s.Server, err = read("server", "server.c"); err != nil {
		return nil, err
	}
	if s.CachingClient, err = read("client", "caching_client.c"); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CustomSources) HasCustomInit(fn *api.Function) bool {
	return strings.Contains(s.CommandC, fmt.Sprintf("command_%s_init ", api.LowerName(fn.Name)))
}

func (s *CustomSources) HasCustomDestroyArguments(fn *api.Function) bool {
	return strings.Contains(s.CommandC, fmt.Sprintf("command_%s_destroy_arguments ", api.LowerName(fn.Name)))
}

func (s *CustomSources) HasCustomStruct(fn *api.Function) bool {
	return strings.Contains(s.CommandH, fmt.Sprintf("typedef struct _command_%s ", api.LowerName(fn.Name)))
}

func (s *CustomSources) HasCustomServerHandler(fn *api.Function) bool {
	return strings.Contains(s.Server, fmt.Sprintf("server_handle_%s ", api.LowerName(fn.Name)))
}

func (s *CustomSources) HasCachingClientOverride(fn *api.Function) bool {
	return strings.Contains(s.CachingClient, fmt.Sprintf("caching_client_%s ", fn.Name))
}

// HasCustomClientEntryPoint reports whether the exported entry point of fn
// must be written by hand
func (s *CustomSources) HasCustomClientEntryPoint(fn *api.Function) bool {
	if fn.IsCategory(api.CategoryManual) {
		return true
	}
	// A hand-written init always knows how to marshal the arguments.
	if s.HasCustomInit(fn) {
		return false
	}
	if fn.IsSynchronous() {
		return false
	}
	if !fn.KnowHowToPassArguments() {
		return true
	}
	return !fn.KnowHowToAssignDefaultReturnValue()
}

// NeedsDestructorCall reports whether the server releases the command
func (s *CustomSources) NeedsDestructorCall(fn *api.Function) bool {
	return fn.NeedsDestructor() || s.HasCustomDestroyArguments(fn)
}

// base is shared by every file generator
type base struct {
	w       io.Writer
	sources *CustomSources
}

func (g *base) emit(format string, args ...interface{}) {
	fmt.Fprintf(g.w, format, args...)
}

func (g *base) emitAPIHeaders() {
	g.emit("#include <EGL/egl.h>\n")
	g.emit("#include <EGL/eglext.h>\n")
	g.emit("#include <GLES2/gl2.h>\n")
	g.emit("#include <GLES2/gl2ext.h>\n\n")
}

// typedArgs renders "type name" pairs joined by sep
func typedArgs(args []*api.Argument, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s %s", a.Type, a.Name)
	}
	return strings.Join(parts, sep)
}

// argNames renders argument names joined by sep
func argNames(args []*api.Argument, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Name
	}
	return strings.Join(parts, sep)
}

// withLeading prefixes sep when s is not empty
func withLeading(sep, s string) string {
	if s == "" {
		return ""
	}
	return sep + s
}

func commandType(fn *api.Function) string {
	return fmt.Sprintf("command_%s_t", api.LowerName(fn.Name))
}

func commandID(fn *api.Function) string {
	return "COMMAND_" + api.UpperName(fn.Name)
}
