// Package abi models entrypoint signatures and the argument bag wire
// format. A signature declared once is the single source of truth both
// the entrypoint wrapper and the matching call-site are derived from;
// the two can never drift because neither side negotiates at runtime.
package abi

import (
	"fmt"
)

// Type names a wire type carried in an argument bag or return value.
type Type string

const (
	TypeUnit     Type = "unit"
	TypeBool     Type = "bool"
	TypeU64      Type = "u64"
	TypeI64      Type = "i64"
	TypeString   Type = "string"
	TypeBytes    Type = "bytes"
	TypeAddress  Type = "address"
	TypeContract Type = "contract_id"
)

var knownTypes = map[Type]bool{
	TypeUnit:     true,
	TypeBool:     true,
	TypeU64:      true,
	TypeI64:      true,
	TypeString:   true,
	TypeBytes:    true,
	TypeAddress:  true,
	TypeContract: true,
}

// Known reports whether t is a supported wire type.
func Known(t Type) bool { return knownTypes[t] }

// Param is one named, typed parameter of an entrypoint.
type Param struct {
	Name string `yaml:"name" json:"name"`
	Type Type   `yaml:"type" json:"type"`
}

// Signature declares one entrypoint: name, ordered parameter list,
// return type and fallibility.
type Signature struct {
	Name     string  `yaml:"name" json:"name"`
	Params   []Param `yaml:"params" json:"params,omitempty"`
	Returns  Type    `yaml:"returns" json:"returns,omitempty"`
	Fallible bool    `yaml:"fallible" json:"fallible,omitempty"`
}

// Validate checks the declaration is internally consistent.
func (s Signature) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("signature has no name")
	}
	ret := s.Returns
	if ret == "" {
		ret = TypeUnit
	}
	if !Known(ret) {
		return fmt.Errorf("signature %q: unknown return type %q", s.Name, s.Returns)
	}
	seen := make(map[string]bool, len(s.Params))
	for i, p := range s.Params {
		if p.Name == "" {
			return fmt.Errorf("signature %q: parameter %d has no name", s.Name, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("signature %q: duplicate parameter %q", s.Name, p.Name)
		}
		seen[p.Name] = true
		if !Known(p.Type) {
			return fmt.Errorf("signature %q: parameter %q has unknown type %q", s.Name, p.Name, p.Type)
		}
	}
	return nil
}

// ReturnType normalizes an empty return declaration to unit.
func (s Signature) ReturnType() Type {
	if s.Returns == "" {
		return TypeUnit
	}
	return s.Returns
}
