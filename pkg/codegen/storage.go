package codegen

import "cmdbufgen/pkg/api"

// Storage is how an argument travels inside a command
type Storage int

const (
	StoreValue    Storage = iota // copied by value
	StoreRaw                     // raw pointer, valid for a blocking call
	StoreString                  // duplicated string owned by the command
	StoreCopy                    // heap copy of a sized buffer
	StoreShm                     // shared memory id and offset
	StoreInline                  // payload after the command header
	StoreComputed                // data_size filled in by init
)

func (s Storage) String() string {
	switch s {
	case StoreValue:
		return "value"
	case StoreRaw:
		return "raw"
	case StoreString:
		return "string"
	case StoreCopy:
		return "copy"
	case StoreShm:
		return "shm"
	case StoreInline:
		return "inline"
	case StoreComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// Owned reports whether the destructor must free the field
func (s Storage) Owned() bool {
	return s == StoreString || s == StoreCopy
}

// StorageOf selects the representation of a command argument
func StorageOf(fn *api.Function, a *api.Argument) Storage {
	switch a.Kind {
	case api.KindImmediatePointer:
		return StoreInline
	case api.KindDataSize:
		for _, init := range fn.InitArgs {
			if init == a {
				return StoreValue
			}
		}
		return StoreComputed
	case api.KindNonImmediatePointer:
		return StoreShm
	case api.KindPointer:
		switch {
		case fn.IsSynchronous() || fn.IsCategory(api.CategoryPassthrough):
			return StoreRaw
		case a.IsString():
			return StoreString
		case fn.Info.HasSize(a.Name):
			return StoreCopy
		default:
			return StoreShm
		}
	case api.KindValue, api.KindEnum, api.KindValidatedBool, api.KindBool, api.KindUniformLocation,
		api.KindIntEnum, api.KindSizeNotNegative, api.KindSize, api.KindResourceID,
		api.KindResourceIDBind, api.KindResourceIDZero:
		return StoreValue
	default:
		return StoreValue
	}
}

// cmdArgFor returns the command-side argument for an API argument
func cmdArgFor(fn *api.Function, a *api.Argument) *api.Argument {
	for _, c := range fn.ArgsForCmds {
		if c.Name == a.Name {
			return c
		}
	}
	return a
}
