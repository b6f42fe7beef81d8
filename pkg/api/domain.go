package api

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/emirpasic/gods/maps/treemap"
	"gopkg.in/yaml.v3"
)

//go:embed enums.yaml
var defaultDomains []byte

// EnumDomain is a named set of accepted symbols for a refined argument type
type EnumDomain struct {
	Name    string   `yaml:"-"`
	Type    string   `yaml:"type"`
	Valid   []string `yaml:"valid"`
	Invalid []string `yaml:"invalid"`
}

// Domains is the enum-domain registry, iterated in name order
type Domains struct {
	m *treemap.Map
}

// NewDomains creates an empty registry
func NewDomains() *Domains {
	return &Domains{m: treemap.NewWithStringComparator()}
}

// DefaultDomains returns a registry holding the built-in GLES2 domains
func DefaultDomains() (*Domains, error) {
	d := NewDomains()
	if err := d.Merge(defaultDomains); err != nil {
		return nil, fmt.Errorf("built-in enum domains: %w", err)
	}
	return d, nil
}

// Merge decodes a YAML domain table, replacing domains with the same name
func (d *Domains) Merge(data []byte) error {
	var raw map[string]*EnumDomain
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, dom := range raw {
		if dom == nil {
			continue
		}
		dom.Name = name
		if dom.Type == "" {
			dom.Type = "GLenum"
		}
		d.Add(dom)
	}
	return nil
}

// MergeFile reads a YAML domain table from disk
func (d *Domains) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := d.Merge(data); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Add registers a domain
func (d *Domains) Add(dom *EnumDomain) {
	d.m.Put(dom.Name, dom)
}

// Lookup finds a domain by name
func (d *Domains) Lookup(name string) (*EnumDomain, bool) {
	v, ok := d.m.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*EnumDomain), true
}

// Len returns the number of registered domains
func (d *Domains) Len() int {
	return d.m.Size()
}

// All returns every domain sorted by name
func (d *Domains) All() []*EnumDomain {
	out := make([]*EnumDomain, 0, d.m.Size())
	it := d.m.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*EnumDomain))
	}
	return out
}
