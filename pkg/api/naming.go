package api

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LowerName is the spelling used in C identifiers such as command_<name>_t
func LowerName(name string) string {
	return cases.Lower(language.Und).String(name)
}

// UpperName is the spelling used in COMMAND_<NAME> enumerators
func UpperName(name string) string {
	return cases.Upper(language.Und).String(name)
}

// TitleName capitalizes the first letter and keeps the rest, for building
// names such as glGen<Resource>s from a resource type.
func TitleName(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(name)
}
