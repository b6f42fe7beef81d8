package analysis

import (
	"fmt"

	"cmdbufgen/pkg/api"
)

// InvalidCase is one boundary value with its expected outcome
type InvalidCase struct {
	Value       string // C expression; pointers use "id, offset"
	ParseResult string // command parse result
	GLError     string // GL error raised after execution
}

func clamp(index, n int) int {
	if index >= n {
		return n - 1
	}
	if index < 0 {
		return 0
	}
	return index
}

// ResourceVariable is the test-local variable holding a created resource id
func ResourceVariable(resource string) string {
	return fmt.Sprintf("client_%s_id_", api.LowerName(resource))
}

// ValidArg returns a representative valid value for an argument. offset
// selects among several valid values and keeps arguments distinct.
func ValidArg(fn *api.Function, a *api.Argument, offset int) string {
	if v, ok := fn.Info.ValidArgs[a.Name]; ok {
		return v
	}
	switch a.Kind {
	case api.KindEnum, api.KindIntEnum, api.KindValidatedBool:
		if len(a.Domain.Valid) == 0 {
			return fmt.Sprintf("%d", offset+1)
		}
		return a.Domain.Valid[clamp(offset, len(a.Domain.Valid))]
	case api.KindBool:
		return "true"
	case api.KindUniformLocation:
		return fmt.Sprintf("%d", offset+1)
	case api.KindResourceID, api.KindResourceIDBind, api.KindResourceIDZero:
		return ResourceVariable(a.ResourceType)
	case api.KindPointer, api.KindNonImmediatePointer:
		return "kValidSharedMemoryId, kValidSharedMemoryOffset"
	case api.KindImmediatePointer:
		return "NULL"
	case api.KindSize, api.KindSizeNotNegative, api.KindDataSize, api.KindValue:
		return fmt.Sprintf("%d", offset+1)
	default:
		return fmt.Sprintf("%d", offset+1)
	}
}

// NumInvalidValues returns how many boundary cases exist for an argument
func NumInvalidValues(fn *api.Function, a *api.Argument) int {
	switch a.Kind {
	case api.KindEnum, api.KindIntEnum, api.KindValidatedBool:
		return len(a.Domain.Invalid)
	case api.KindPointer:
		if fn.IsImmediate {
			return 0
		}
		return 2
	case api.KindResourceIDZero:
		return 1
	case api.KindSize, api.KindSizeNotNegative:
		if fn.IsImmediate {
			return 0
		}
		return 1
	case api.KindValue, api.KindBool, api.KindUniformLocation, api.KindNonImmediatePointer,
		api.KindImmediatePointer, api.KindResourceID, api.KindResourceIDBind, api.KindDataSize:
		return 0
	default:
		return 0
	}
}

// InvalidArg returns the boundary case at index. Domain kinds clamp the
// index to the last invalid entry.
func InvalidArg(a *api.Argument, index int) (InvalidCase, bool) {
	switch a.Kind {
	case api.KindEnum:
		return domainCase(a, index, "GL_INVALID_ENUM")
	case api.KindIntEnum, api.KindValidatedBool:
		return domainCase(a, index, "GL_INVALID_VALUE")
	case api.KindPointer:
		if index == 0 {
			return InvalidCase{"kInvalidSharedMemoryId, 0", "kOutOfBounds", ""}, true
		}
		return InvalidCase{"kValidSharedMemoryId, kInvalidSharedMemoryOffset", "kOutOfBounds", ""}, true
	case api.KindResourceIDZero:
		return InvalidCase{"kInvalidClientId", "kNoError", "GL_INVALID_VALUE"}, true
	case api.KindSizeNotNegative:
		return InvalidCase{"-1", "kOutOfBounds", "GL_NO_ERROR"}, true
	case api.KindSize:
		return InvalidCase{"-1", "kNoError", "GL_INVALID_VALUE"}, true
	case api.KindValue, api.KindBool, api.KindUniformLocation, api.KindNonImmediatePointer,
		api.KindImmediatePointer, api.KindResourceID, api.KindResourceIDBind, api.KindDataSize:
		return InvalidCase{}, false
	default:
		return InvalidCase{}, false
	}
}

func domainCase(a *api.Argument, index int, glError string) (InvalidCase, bool) {
	if len(a.Domain.Invalid) == 0 {
		return InvalidCase{}, false
	}
	return InvalidCase{
		Value:       a.Domain.Invalid[clamp(index, len(a.Domain.Invalid))],
		ParseResult: "kNoError",
		GLError:     glError,
	}, true
}
