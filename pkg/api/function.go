package api

import (
	"fmt"
	"strings"
)

// defaultReturnValues holds the value an asynchronous stub returns per type
var defaultReturnValues = map[string]string{
	"__eglMustCastToProperFunctionPointerType": "NULL",
	"const char*":    "NULL",
	"const GLubyte*": "NULL",
	"void*":          "NULL",
	"GLuint":         "0",
	"GLint":          "0",
	"GLenum":         "GL_INVALID_ENUM",
	"GLboolean":      "GL_FALSE",
	"EGLDisplay":     "EGL_NO_DISPLAY",
	"EGLBoolean":     "EGL_FALSE",
	"EGLSurface":     "EGL_NO_SURFACE",
	"EGLenum":        "EGL_NONE",
	"EGLContext":     "EGL_NO_CONTEXT",
	"EGLImageKHR":    "EGL_NO_IMAGE_KHR",
	"EGLSyncKHR":     "EGL_NO_SYNC_KHR",
	"EGLSyncNV":      "EGL_NO_SYNC_NV",
}

var extensionSuffixes = []string{
	"OES", "QCOM", "APPLE", "ANGLE", "NV", "IMG", "EXT",
	"ARB", "AMD", "MESA", "SEC", "KHR", "HI",
}

// Function is one generated command
type Function struct {
	OriginalName   string
	Name           string
	Info           *FunctionInfo
	Category       FunctionCategory
	ReturnType     string
	OriginalArgs   []*Argument // API signature
	ArgsForCmds    []*Argument // cmd_args override, or OriginalArgs
	CmdArgs        []*Argument // command-struct fields
	InitArgs       []*Argument
	NumPointerArgs int
	IsImmediate    bool
}

// CanAutoGenerate reports whether the command needs no pointer handling
func (f *Function) CanAutoGenerate() bool {
	return f.NumPointerArgs == 0 && f.ReturnType == "void"
}

func (f *Function) IsCategory(c FunctionCategory) bool {
	return f.Category == c
}

// IsCoreGLFunction reports whether the function belongs to the core API
func (f *Function) IsCoreGLFunction() bool {
	return !f.Info.Extension && f.Info.PepperInterface == ""
}

// IsSynchronous reports whether the client blocks on the server
func (f *Function) IsSynchronous() bool {
	if f.Category == CategoryAsynchronous {
		return false
	}
	return f.Category == CategorySynchronous || f.HasReturnValue() || len(f.Info.OutArguments) > 0
}

func (f *Function) HasReturnValue() bool {
	return f.ReturnType != "void"
}

func (f *Function) IsOutArgument(a *Argument) bool {
	for _, name := range f.Info.OutArguments {
		if name == a.Name {
			return true
		}
	}
	return false
}

// GLFunctionName is the implementation function the server calls
func (f *Function) GLFunctionName() string {
	if f.Info.DecoderFunc != "" {
		return f.Info.DecoderFunc
	}
	return "gl" + f.OriginalName
}

// GLTestFunctionName is the GL call expected by generated tests, without
// its gl prefix
func (f *Function) GLTestFunctionName() string {
	name := f.Info.GLTestFunc
	if name == "" {
		name = f.GLFunctionName()
	}
	if strings.HasPrefix(name, "gl") {
		return name[2:]
	}
	return f.OriginalName
}

// KnowHowToPassArguments reports whether every pointer argument has a known
// transfer rule
func (f *Function) KnowHowToPassArguments() bool {
	if f.IsSynchronous() || f.Category == CategoryPassthrough {
		return true
	}
	for _, a := range f.OriginalArgs {
		if f.IsOutArgument(a) || f.Info.HasSize(a.Name) || a.IsString() {
			continue
		}
		if a.HasPointerType() {
			return false
		}
	}
	return true
}

func (f *Function) KnowHowToAssignDefaultReturnValue() bool {
	if !f.HasReturnValue() || f.Info.DefaultReturn != "" {
		return true
	}
	_, ok := defaultReturnValues[f.ReturnType]
	return ok
}

// DefaultReturnValue is the value returned by an asynchronous stub
func (f *Function) DefaultReturnValue() string {
	if f.Info.DefaultReturn != "" {
		return f.Info.DefaultReturn
	}
	return defaultReturnValues[f.ReturnType]
}

// DefaultReturnStatement renders the return statement for the default value
func (f *Function) DefaultReturnStatement() string {
	if !f.HasReturnValue() {
		return "return"
	}
	return "return " + f.DefaultReturnValue()
}

// NeedsDestructor reports whether the command owns heap data
func (f *Function) NeedsDestructor() bool {
	return !f.IsSynchronous() && f.Category != CategoryPassthrough
}

func (f *Function) IsExtensionFunction() bool {
	for _, suffix := range extensionSuffixes {
		if strings.HasSuffix(f.Name, suffix) {
			return true
		}
	}
	return false
}

// ShouldHideEntryPoint reports whether the exported symbol gets a private prefix
func (f *Function) ShouldHideEntryPoint() bool {
	return f.IsExtensionFunction() && !strings.HasPrefix(f.Name, "egl")
}

// SizeExpression builds the byte-size expression of a sized pointer argument
func (f *Function) SizeExpression(a *Argument) string {
	var components []string
	if expr, ok := f.Info.ArgumentHasSize[a.Name]; ok {
		components = append(components, expr)
	}
	if n, ok := f.Info.ArgumentElementSize[a.Name]; ok {
		components = append(components, fmt.Sprintf("%d", n))
	}
	if fn, ok := f.Info.ArgumentSizeFromFunction[a.Name]; ok {
		components = append(components, fmt.Sprintf("%s (%s)", fn, a.Name))
	}
	if len(components) == 0 {
		return ""
	}
	if !strings.Contains(a.Type, "void*") {
		components = append(components, fmt.Sprintf("sizeof (%s)", strings.TrimSuffix(a.Type, "*")))
	}
	return strings.Join(components, " * ")
}

func (f *Function) MappedNameType() string {
	return f.Info.MappedNames.Type
}

func (f *Function) MappedNameAttributes() []string {
	return f.Info.MappedNames.AttribList
}

func (f *Function) NeedsCreateMappedName(name string) bool {
	for _, n := range f.Info.MappedNames.CreateAttribIfNeeded {
		if n == name {
			return true
		}
	}
	return false
}

// CmdArg returns the command argument matching an API argument's name
func (f *Function) CmdArg(name string) *Argument {
	for _, a := range f.CmdArgs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// ImmediateArg returns the argument whose payload is inlined, if any
func (f *Function) ImmediateArg() *Argument {
	for _, a := range f.ArgsForCmds {
		if a.Kind == KindImmediatePointer {
			return a
		}
	}
	return nil
}

// DataSizeExpression is the value stored in a data_size field set by init
func (f *Function) DataSizeExpression() string {
	for _, a := range f.ArgsForCmds {
		if a.HasPointerType() {
			if expr := f.SizeExpression(a); expr != "" {
				return expr
			}
		}
	}
	return "0"
}
