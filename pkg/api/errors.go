package api

import "errors"

var (
	ErrUnknownEnumDomain = errors.New("unknown enum domain")
	ErrMalformedArgument = errors.New("malformed argument")
	ErrUnknownCategory   = errors.New("unknown function type")
	ErrCmdArgMismatch    = errors.New("cmd_args does not match the declaration")
	ErrImmediatePayloads = errors.New("immediate variant with more than one inline payload")
)
