package parser

import (
	"regexp"
	"strings"
)

// Dialect selects the calling-convention markers of a declaration file
type Dialect int

const (
	DialectGL  Dialect = iota // GL_APICALL ... GL_APIENTRY
	DialectEGL                // EGLAPI ... EGLAPIENTRY
)

var dialectPatterns = map[Dialect]*regexp.Regexp{
	DialectGL:  regexp.MustCompile(`^GL_APICALL(.*?)GL_APIENTRY (.*?) \((.*?)\);`),
	DialectEGL: regexp.MustCompile(`^EGLAPI(.*?)EGLAPIENTRY (.*?) \((.*?)\);`),
}

func (d Dialect) String() string {
	switch d {
	case DialectGL:
		return "gl"
	case DialectEGL:
		return "egl"
	default:
		return "unknown"
	}
}

// ParseDialect maps a file kind name to a Dialect
func ParseDialect(s string) (Dialect, bool) {
	switch strings.ToLower(s) {
	case "gl", "gles2":
		return DialectGL, true
	case "egl":
		return DialectEGL, true
	default:
		return DialectGL, false
	}
}

// Declaration is one matched function prototype
type Declaration struct {
	Dialect    Dialect
	ReturnType string
	Name       string
	Args       string
	Line       int
}

// Parser extracts declarations from a prototype file
type Parser struct {
	input   string
	pos     int
	line    int
	dialect Dialect
}

// New creates a new parser for the given input
func New(input string, dialect Dialect) *Parser {
	return &Parser{input: input, pos: 0, dialect: dialect}
}

// Next returns the next matching declaration; ok is false at end of input.
// Lines that do not match the dialect's pattern are skipped.
func (p *Parser) Next() (Declaration, bool) {
	re := dialectPatterns[p.dialect]
	for p.pos < len(p.input) {
		end := strings.IndexByte(p.input[p.pos:], '\n')
		var line string
		if end < 0 {
			line = p.input[p.pos:]
			p.pos = len(p.input)
		} else {
			line = p.input[p.pos : p.pos+end]
			p.pos += end + 1
		}
		p.line++

		m := re.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		return Declaration{
			Dialect:    p.dialect,
			ReturnType: strings.TrimSpace(m[1]),
			Name:       m[2],
			Args:       m[3],
			Line:       p.line,
		}, true
	}
	return Declaration{}, false
}

// ParseAll returns every declaration in the input
func (p *Parser) ParseAll() []Declaration {
	var results []Declaration
	for {
		decl, ok := p.Next()
		if !ok {
			break
		}
		results = append(results, decl)
	}
	return results
}

// SplitArgs splits an argument list into individual "type name" parts
func SplitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
