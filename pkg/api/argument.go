package api

import "strings"

// ArgumentKind is the classification of a declared parameter
type ArgumentKind int

const (
	KindValue               ArgumentKind = iota
	KindEnum                             // GLenum<Domain>, GL_INVALID_ENUM on violation
	KindValidatedBool                    // GLboolean<Domain>
	KindBool                             // bare GLboolean
	KindUniformLocation                  // GLintUniformLocation
	KindIntEnum                          // GLint<Domain>, GL_INVALID_VALUE on violation
	KindSizeNotNegative                  // rejected as out of bounds when negative
	KindSize                             // GLsize*
	KindPointer                          // shared memory region + offset
	KindNonImmediatePointer              // stays a pointer in immediate form
	KindImmediatePointer                 // payload follows the command header
	KindResourceID                       // GLid<Type>
	KindResourceIDBind                   // GLidBind<Type>, zero unbinds
	KindResourceIDZero                   // GLidZero<Type>, only zero is special
	KindDataSize                         // synthetic data_size field
)

var kindNames = [...]string{
	KindValue:               "VALUE",
	KindEnum:                "ENUM",
	KindValidatedBool:       "VALIDATED_BOOL",
	KindBool:                "BOOL",
	KindUniformLocation:     "UNIFORM_LOCATION",
	KindIntEnum:             "INT_ENUM",
	KindSizeNotNegative:     "SIZE_NOT_NEGATIVE",
	KindSize:                "SIZE",
	KindPointer:             "POINTER",
	KindNonImmediatePointer: "NON_IMMEDIATE_POINTER",
	KindImmediatePointer:    "IMMEDIATE_POINTER",
	KindResourceID:          "RESOURCE_ID",
	KindResourceIDBind:      "RESOURCE_ID_BIND",
	KindResourceIDZero:      "RESOURCE_ID_ZERO",
	KindDataSize:            "DATA_SIZE",
}

func (k ArgumentKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// wireTypes maps abstract GL/EGL scalars to fixed-width command fields
var wireTypes = map[string]string{
	"GLenum":        "uint32_t",
	"GLuint":        "uint32_t",
	"GLboolean":     "uint32_t",
	"GLbitfield":    "uint32_t",
	"GLint":         "int32_t",
	"GLintptr":      "int32_t",
	"GLsizei":       "int32_t",
	"GLsizeiptr":    "int32_t",
	"GLfixed":       "int32_t",
	"GLclampx":      "int32_t",
	"GLchar":        "int8_t",
	"GLbyte":        "int8_t",
	"GLubyte":       "uint8_t",
	"GLshort":       "int16_t",
	"GLushort":      "uint16_t",
	"GLfloat":       "float",
	"GLclampf":      "float",
	"GLint64":       "int64_t",
	"GLuint64":      "uint64_t",
	"GLvoid":        "void",
	"GLeglImageOES": "void*",
	"EGLint":        "int32_t",
	"EGLBoolean":    "uint32_t",
	"EGLenum":       "uint32_t",
}

// WireTypeOf maps a scalar C type to its command-struct type
func WireTypeOf(ctype string) string {
	if w, ok := wireTypes[ctype]; ok {
		return w
	}
	return ctype
}

// IsScalarType reports whether ctype is a known abstract scalar type
func IsScalarType(ctype string) bool {
	_, ok := wireTypes[ctype]
	return ok
}

// Argument is one classified parameter
type Argument struct {
	Name         string
	Type         string // C type with refinements resolved
	Token        string // type text as declared
	Kind         ArgumentKind
	Optional     bool
	Domain       *EnumDomain
	ResourceType string
}

// StripConst removes const qualifiers from a C type
func StripConst(ctype string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(ctype, "const", "")), " ")
}

// WireType is the storage type of the argument in a command struct
func (a *Argument) WireType() string {
	if a.HasPointerType() {
		return StripConst(a.Type)
	}
	return WireTypeOf(StripConst(a.Type))
}

// HasPointerType reports whether the C type is a pointer of any kind
func (a *Argument) HasPointerType() bool {
	switch a.Kind {
	case KindPointer, KindNonImmediatePointer, KindImmediatePointer:
		return true
	default:
		return false
	}
}

// CountsAsPointer reports whether the argument makes its function eligible
// for an immediate variant
func (a *Argument) CountsAsPointer() bool {
	return a.Kind == KindPointer
}

func (a *Argument) IsDoublePointer() bool {
	return strings.Contains(a.Type, "**")
}

// IsString reports whether the argument is a NUL-terminated string
func (a *Argument) IsString() bool {
	switch a.Type {
	case "const char*", "char*", "const GLchar*", "GLchar*":
		return true
	default:
		return false
	}
}

// AddsCmdField reports whether the argument occupies a command-struct field
func (a *Argument) AddsCmdField() bool {
	return a.Kind != KindImmediatePointer
}

// ImmediateVersion returns the argument as used by an immediate variant;
// ok is false when the argument is dropped.
func (a *Argument) ImmediateVersion() (*Argument, bool) {
	switch a.Kind {
	case KindPointer:
		imm := *a
		imm.Kind = KindImmediatePointer
		return &imm, true
	case KindImmediatePointer:
		return nil, false
	default:
		return a, true
	}
}

// NewDataSizeArgument creates the synthetic data_size argument
func NewDataSizeArgument(name string) *Argument {
	return &Argument{Name: name, Type: "uint32_t", Token: "uint32_t", Kind: KindDataSize}
}
