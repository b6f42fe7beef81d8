package codegen

import (
	"fmt"
	"io"
	"strings"

	"cmdbufgen/pkg/api"
)

// ValidationGenerator writes the enum-domain predicates
type ValidationGenerator struct {
	base
}

// NewValidationGenerator creates a new validation generator
func NewValidationGenerator(w io.Writer) *ValidationGenerator {
	return &ValidationGenerator{base: base{w: w}}
}

// GenerateValidation writes enum_validation.h
func (g *ValidationGenerator) GenerateValidation(domains *api.Domains) {
	g.emit("#include \"config.h\"\n")
	g.emit("#include \"gl2ext.h\"\n")
	g.emit("#include <GLES2/gl2.h>\n\n")

	for _, dom := range domains.All() {
		g.emit("private bool\n")
		g.emit("is_valid_%s (%s value)\n", dom.Name, dom.Type)
		g.emit("{\n")
		if len(dom.Valid) == 0 {
			g.emit("    return false;\n")
		} else {
			checks := make([]string, len(dom.Valid))
			for i, v := range dom.Valid {
				checks[i] = fmt.Sprintf("value == %s", v)
			}
			g.emit("    return %s;\n", strings.Join(checks, " ||\n        "))
		}
		g.emit("}\n\n")
	}
}
