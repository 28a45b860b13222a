// Package analyzer implements the two-pass type checker: pass one
// collects top-level signatures (functions, externs, structs), pass two
// walks every function body in a nested scope and resolves every
// expression's type, reporting diagnostics.Diagnostic for every
// violation rather than aborting.
package analyzer

import "github.com/azula-lang/azc/internal/types"

// FunctionSig is a top-level callable signature, shared by both
// FunctionStatement and ExternFunctionStatement declarations.
type FunctionSig struct {
	Name       string
	ArgTypes   []types.Type
	Returns    types.Type
	Varargs    bool
	IsExtern   bool
}

// StructDef is a resolved struct layout: field order and types.
type StructDef struct {
	Name   string
	Fields []StructFieldDef
}

type StructFieldDef struct {
	Name string
	Type types.Type
}

func (s *StructDef) FieldType(name string) (types.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return types.Type{}, false
}

// Scope is a lexical binding environment: function locals nest inside
// the global scope, and if/while bodies nest inside their enclosing
// function (the language has no block-local shadowing construct beyond
// that, per the grammar).
type Scope struct {
	parent *Scope
	vars   map[string]binding
}

type binding struct {
	typ     types.Type
	mutable bool
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]binding)}
}

func (s *Scope) Define(name string, typ types.Type, mutable bool) {
	s.vars[name] = binding{typ: typ, mutable: mutable}
}

func (s *Scope) Lookup(name string) (types.Type, bool, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.vars[name]; ok {
			return b.typ, b.mutable, true
		}
	}
	return types.Type{}, false, false
}
