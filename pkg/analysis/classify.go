package analysis

import (
	"fmt"
	"strings"

	"cmdbufgen/pkg/api"
	"cmdbufgen/pkg/parser"
)

// token is a declared parameter split into its type words and name
type token struct {
	parts []string // type words
	text  string   // type words joined by a single space
	first string
	name  string
}

func (t token) isPointer() bool {
	return strings.Contains(t.text, "*")
}

// rule is one entry of the classification table
type rule struct {
	name  string
	match func(t token) bool
	build func(c *Classifier, t token) (*api.Argument, error)
}

// rules is evaluated top to bottom and the first match wins. Several
// markers share prefixes (GLidBind/GLid, GLintptr/GLint, GLsizeiNotNegative/
// GLsize) so the order below is significant.
var rules = []rule{
	{
		name:  "non-immediate pointer",
		match: func(t token) bool { return t.isPointer() && t.first == "NonImmediate" },
		build: func(_ *Classifier, t token) (*api.Argument, error) {
			return pointerArg(t.name, strings.Join(t.parts[1:], " "), api.KindNonImmediatePointer), nil
		},
	},
	{
		name:  "pointer",
		match: token.isPointer,
		build: func(_ *Classifier, t token) (*api.Argument, error) {
			return pointerArg(t.name, t.text, api.KindPointer), nil
		},
	},
	{
		name:  "bindable resource id",
		match: prefix("GLidBind"),
		build: resourceArg("GLidBind", api.KindResourceIDBind),
	},
	{
		name:  "zeroable resource id",
		match: prefix("GLidZero"),
		build: resourceArg("GLidZero", api.KindResourceIDZero),
	},
	{
		name:  "resource id",
		match: prefix("GLid"),
		build: resourceArg("GLid", api.KindResourceID),
	},
	{
		name:  "enum",
		match: refined("GLenum"),
		build: domainArg("GLenum", api.KindEnum),
	},
	{
		name:  "validated bool",
		match: refined("GLboolean"),
		build: domainArg("GLboolean", api.KindValidatedBool),
	},
	{
		name:  "bool",
		match: prefix("GLboolean"),
		build: func(_ *Classifier, t token) (*api.Argument, error) {
			return &api.Argument{Name: t.name, Type: "GLboolean", Token: t.text, Kind: api.KindBool}, nil
		},
	},
	{
		name:  "uniform location",
		match: prefix("GLintUniformLocation"),
		build: func(_ *Classifier, t token) (*api.Argument, error) {
			return &api.Argument{Name: t.name, Type: "GLint", Token: t.text, Kind: api.KindUniformLocation}, nil
		},
	},
	{
		name: "int enum",
		match: func(t token) bool {
			return refined("GLint")(t) && !strings.HasPrefix(t.first, "GLintptr")
		},
		build: domainArg("GLint", api.KindIntEnum),
	},
	{
		name: "non-negative size",
		match: func(t token) bool {
			return strings.HasPrefix(t.first, "GLsizeiNotNegative") || strings.HasPrefix(t.first, "GLintptrNotNegative")
		},
		build: func(_ *Classifier, t token) (*api.Argument, error) {
			base := strings.TrimSuffix(t.first, "NotNegative")
			return &api.Argument{Name: t.name, Type: base, Token: t.text, Kind: api.KindSizeNotNegative}, nil
		},
	},
	{
		name:  "size",
		match: prefix("GLsize"),
		build: func(_ *Classifier, t token) (*api.Argument, error) {
			return &api.Argument{Name: t.name, Type: t.text, Token: t.text, Kind: api.KindSize}, nil
		},
	},
	{
		name:  "value",
		match: func(token) bool { return true },
		build: func(_ *Classifier, t token) (*api.Argument, error) {
			return &api.Argument{Name: t.name, Type: t.text, Token: t.text, Kind: api.KindValue}, nil
		},
	},
}

func prefix(marker string) func(token) bool {
	return func(t token) bool { return strings.HasPrefix(t.first, marker) }
}

// refined matches marker followed by a domain suffix. Known scalar types
// sharing the prefix (GLint64, GLintptr) are not refinements.
func refined(marker string) func(token) bool {
	return func(t token) bool {
		return strings.HasPrefix(t.first, marker) && len(t.first) > len(marker) && !api.IsScalarType(t.first)
	}
}

func pointerArg(name, ctype string, kind api.ArgumentKind) *api.Argument {
	a := &api.Argument{Name: name, Token: ctype, Kind: kind}
	if strings.HasSuffix(ctype, "Optional*") {
		ctype = strings.TrimSuffix(ctype, "Optional*") + "*"
		a.Optional = true
	}
	a.Type = ctype
	return a
}

func resourceArg(marker string, kind api.ArgumentKind) func(*Classifier, token) (*api.Argument, error) {
	return func(_ *Classifier, t token) (*api.Argument, error) {
		resource := strings.TrimPrefix(t.first, marker)
		if resource == "" {
			return nil, fmt.Errorf("%w: %q has no resource type", api.ErrMalformedArgument, t.text)
		}
		return &api.Argument{
			Name:         t.name,
			Type:         strings.Replace(t.text, t.first, "GLuint", 1),
			Token:        t.text,
			Kind:         kind,
			ResourceType: resource,
		}, nil
	}
}

func domainArg(marker string, kind api.ArgumentKind) func(*Classifier, token) (*api.Argument, error) {
	return func(c *Classifier, t token) (*api.Argument, error) {
		name := strings.TrimPrefix(t.first, marker)
		dom, ok := c.domains.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %q in argument %q", api.ErrUnknownEnumDomain, name, t.name)
		}
		return &api.Argument{Name: t.name, Type: marker, Token: t.text, Kind: kind, Domain: dom}, nil
	}
}

// Classifier resolves declared parameters to classified arguments
type Classifier struct {
	domains *api.Domains
}

// NewClassifier creates a classifier backed by an enum-domain registry
func NewClassifier(domains *api.Domains) *Classifier {
	return &Classifier{domains: domains}
}

// Classify resolves one "type name" parameter. A lone void yields no
// argument and no error.
func (c *Classifier) Classify(param string) (*api.Argument, error) {
	words := strings.Fields(param)
	if len(words) == 1 && words[0] == "void" {
		return nil, nil
	}
	if len(words) < 2 {
		return nil, fmt.Errorf("%w: %q", api.ErrMalformedArgument, param)
	}

	name := words[len(words)-1]
	typeWords := words[:len(words)-1]
	// "const GLchar *name" binds the star to the name
	if stars := len(name) - len(strings.TrimLeft(name, "*")); stars > 0 {
		typeWords = append(append([]string{}, typeWords...), strings.Repeat("*", stars))
		name = name[stars:]
		if name == "" {
			return nil, fmt.Errorf("%w: %q", api.ErrMalformedArgument, param)
		}
	}
	text := strings.Join(typeWords, " ")
	text = strings.ReplaceAll(text, " *", "*")

	t := token{parts: strings.Fields(text), text: text, name: name}
	t.first = t.parts[0]

	for _, r := range rules {
		if r.match(t) {
			return r.build(c, t)
		}
	}
	return nil, fmt.Errorf("%w: %q", api.ErrMalformedArgument, param)
}

// ParseArgs classifies a comma-separated parameter list and counts the
// arguments that make the function eligible for an immediate variant.
func (c *Classifier) ParseArgs(list string) ([]*api.Argument, int, error) {
	var args []*api.Argument
	numPointers := 0
	for _, part := range parser.SplitArgs(list) {
		if part == "" {
			return nil, 0, fmt.Errorf("%w: empty parameter in %q", api.ErrMalformedArgument, list)
		}
		arg, err := c.Classify(part)
		if err != nil {
			return nil, 0, err
		}
		if arg == nil {
			continue
		}
		args = append(args, arg)
		if arg.CountsAsPointer() {
			numPointers++
		}
	}
	return args, numPointers, nil
}
