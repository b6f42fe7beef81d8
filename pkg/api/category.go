package api

import (
	"fmt"
	"strings"
)

// FunctionCategory selects how a function's command is generated
type FunctionCategory int

const (
	CategoryDefault      FunctionCategory = iota
	CategoryCustom                        // Marshaling written by hand
	CategoryTodo                          // Not handled yet
	CategoryManual                        // Client entry point written by hand
	CategoryNoop                          // Dropped at parse time
	CategoryPassthrough                   // Forwarded without copying arguments
	CategorySynchronous                   // Client waits for the server
	CategoryAsynchronous                  // Queued, even with a return value
)

var categoryNames = map[FunctionCategory]string{
	CategoryDefault:      "",
	CategoryCustom:       "Custom",
	CategoryTodo:         "Todo",
	CategoryManual:       "Manual",
	CategoryNoop:         "Noop",
	CategoryPassthrough:  "Passthrough",
	CategorySynchronous:  "Synchronous",
	CategoryAsynchronous: "Asynchronous",
}

// ParseCategory converts a metadata type string into a FunctionCategory
func ParseCategory(s string) (FunctionCategory, error) {
	s = strings.TrimSpace(s)
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return CategoryDefault, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// String returns the metadata spelling of the category
func (c FunctionCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("FunctionCategory(%d)", int(c))
}
