package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MappedNames describes arguments holding client object names that the
// server translates through a name-mapping table before dispatch.
type MappedNames struct {
	Type            string  `json:"type" yaml:"type"`
	AttribList           []string `json:"attrib_list" yaml:"attrib_list"`
	CreateAttribIfNeeded []string `json:"create_attrib_if_needed" yaml:"create_attrib_if_needed"`
}

// FunctionInfo is the per-function metadata record
type FunctionInfo struct {
	Type            string  `json:"type" yaml:"type"`
	DecoderFunc     string  `json:"decoder_func" yaml:"decoder_func"`
	GLTestFunc      string  `json:"gl_test_func" yaml:"gl_test_func"`
	CmdArgs         *string `json:"cmd_args" yaml:"cmd_args"`
	CmdComment      *string `json:"cmd_comment" yaml:"cmd_comment"`
	DefaultReturn   string  `json:"default_return" yaml:"default_return"`
	Extension       bool    `json:"extension" yaml:"extension"`
	PepperInterface string  `json:"pepper_interface" yaml:"pepper_interface"`
	Immediate       *bool   `json:"immediate" yaml:"immediate"`
	NeedsSize       bool    `json:"needs_size" yaml:"needs_size"`
	GenCmd          *bool   `json:"gen_cmd" yaml:"gen_cmd"`
	GenFunc         string  `json:"gen_func" yaml:"gen_func"`

	ArgumentHasSize          map[string]string `json:"argument_has_size" yaml:"argument_has_size"`
	ArgumentElementSize      map[string]int    `json:"argument_element_size" yaml:"argument_element_size"`
	ArgumentSizeFromFunction map[string]string `json:"argument_size_from_function" yaml:"argument_size_from_function"`
	OutArguments             []string          `json:"out_arguments" yaml:"out_arguments"`
	MappedNames              MappedNames       `json:"mapped_names" yaml:"mapped_names"`
	ValidArgs                map[string]string `json:"valid_args" yaml:"valid_args"`
}

// ApplyDefaults fills every optional collection so callers can index freely
func (fi *FunctionInfo) ApplyDefaults() {
	if fi.ArgumentHasSize == nil {
		fi.ArgumentHasSize = map[string]string{}
	}
	if fi.ArgumentElementSize == nil {
		fi.ArgumentElementSize = map[string]int{}
	}
	if fi.ArgumentSizeFromFunction == nil {
		fi.ArgumentSizeFromFunction = map[string]string{}
	}
	if fi.OutArguments == nil {
		fi.OutArguments = []string{}
	}
	if fi.ValidArgs == nil {
		fi.ValidArgs = map[string]string{}
	}
}

// Category parses the type field
func (fi *FunctionInfo) Category() (FunctionCategory, error) {
	return ParseCategory(fi.Type)
}

// GeneratesCommand reports whether gen_cmd leaves the function in the output
func (fi *FunctionInfo) GeneratesCommand() bool {
	return fi.GenCmd == nil || *fi.GenCmd
}

// HasSize reports whether any size rule is known for the named argument
func (fi *FunctionInfo) HasSize(name string) bool {
	if _, ok := fi.ArgumentHasSize[name]; ok {
		return true
	}
	if _, ok := fi.ArgumentElementSize[name]; ok {
		return true
	}
	_, ok := fi.ArgumentSizeFromFunction[name]
	return ok
}

// InfoTable maps function names to their metadata
type InfoTable map[string]*FunctionInfo

// Lookup returns the metadata for name, or an empty record with defaults
func (t InfoTable) Lookup(name string) *FunctionInfo {
	if fi, ok := t[name]; ok && fi != nil {
		return fi
	}
	fi := &FunctionInfo{}
	fi.ApplyDefaults()
	return fi
}

// LoadFunctionInfo reads a metadata table; the format follows the extension
func LoadFunctionInfo(path string) (InfoTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	table := InfoTable{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &table)
	default:
		err = json.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, fi := range table {
		if fi != nil {
			fi.ApplyDefaults()
		}
	}
	return table, nil
}
