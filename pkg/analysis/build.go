package analysis

import (
	"fmt"

	"cmdbufgen/pkg/api"
	"cmdbufgen/pkg/parser"
)

// DataSizeName is the field carrying a payload length
const DataSizeName = "data_size"

// Builder turns parsed declarations into Functions
type Builder struct {
	classifier *Classifier
	infos      api.InfoTable
}

// NewBuilder creates a builder using the given metadata table
func NewBuilder(classifier *Classifier, infos api.InfoTable) *Builder {
	if infos == nil {
		infos = api.InfoTable{}
	}
	return &Builder{classifier: classifier, infos: infos}
}

// Build classifies a declaration. A Noop function yields nil without error.
func (b *Builder) Build(decl parser.Declaration) (*api.Function, error) {
	info := b.infos.Lookup(decl.Name)
	category, err := info.Category()
	if err != nil {
		return nil, err
	}
	if category == api.CategoryNoop {
		return nil, nil
	}

	args, numPointers, err := b.classifier.ParseArgs(decl.Args)
	if err != nil {
		return nil, err
	}

	argsForCmds := args
	if info.CmdArgs != nil {
		argsForCmds, numPointers, err = b.classifier.ParseArgs(*info.CmdArgs)
		if err != nil {
			return nil, fmt.Errorf("cmd_args: %w", err)
		}
		if err := matchNames(args, argsForCmds); err != nil {
			return nil, err
		}
	}

	fn := &api.Function{
		OriginalName:   decl.Name,
		Name:           decl.Name,
		Info:           info,
		Category:       category,
		ReturnType:     decl.ReturnType,
		OriginalArgs:   args,
		ArgsForCmds:    argsForCmds,
		InitArgs:       argsForCmds,
		NumPointerArgs: numPointers,
	}
	for _, a := range argsForCmds {
		if a.AddsCmdField() {
			fn.CmdArgs = append(fn.CmdArgs, a)
		}
	}
	if info.NeedsSize {
		fn.CmdArgs = append(fn.CmdArgs, api.NewDataSizeArgument(DataSizeName))
	}
	return fn, nil
}

func matchNames(original, override []*api.Argument) error {
	if len(original) != len(override) {
		return fmt.Errorf("%w: %d arguments declared, %d in override", api.ErrCmdArgMismatch, len(original), len(override))
	}
	for i := range original {
		if original[i].Name != override[i].Name {
			return fmt.Errorf("%w: argument %d is %q, override names %q",
				api.ErrCmdArgMismatch, i, original[i].Name, override[i].Name)
		}
	}
	return nil
}

// WantsImmediate reports whether an immediate variant is generated for fn
func WantsImmediate(fn *api.Function) bool {
	imm := fn.Info.Immediate
	if imm != nil && !*imm {
		return false
	}
	return fn.NumPointerArgs == 1 || (imm != nil && *imm)
}

// NewImmediateFunction derives the variant of fn whose pointer payload
// follows the command header. Only one payload fits after the header.
func NewImmediateFunction(fn *api.Function) (*api.Function, error) {
	imm := &api.Function{
		OriginalName: fn.OriginalName,
		Name:         fn.Name + "Immediate",
		Info:         fn.Info,
		Category:     fn.Category,
		ReturnType:   fn.ReturnType,
		IsImmediate:  true,
	}
	imm.OriginalArgs = immediateArgs(fn.OriginalArgs)
	imm.ArgsForCmds = immediateArgs(fn.ArgsForCmds)
	imm.InitArgs = imm.ArgsForCmds

	payloads := 0
	for _, a := range imm.ArgsForCmds {
		if a.AddsCmdField() {
			imm.CmdArgs = append(imm.CmdArgs, a)
		}
		if a.Kind == api.KindImmediatePointer {
			payloads++
		}
	}
	if payloads > 1 {
		return nil, fmt.Errorf("%w: %s has %d", api.ErrImmediatePayloads, imm.Name, payloads)
	}

	payload := imm.ImmediateArg()
	switch {
	case payload != nil && imm.SizeExpression(payload) == "":
		// the caller passes the payload length
		size := api.NewDataSizeArgument(DataSizeName)
		imm.CmdArgs = append(imm.CmdArgs, size)
		imm.InitArgs = append(append([]*api.Argument{}, imm.ArgsForCmds...), size)
	case fn.Info.NeedsSize:
		imm.CmdArgs = append(imm.CmdArgs, api.NewDataSizeArgument(DataSizeName))
	}
	return imm, nil
}

func immediateArgs(args []*api.Argument) []*api.Argument {
	var out []*api.Argument
	for _, a := range args {
		if v, ok := a.ImmediateVersion(); ok {
			out = append(out, v)
		}
	}
	return out
}
