// Package ast defines the abstract syntax tree produced by internal/parser
// and rewritten in place by internal/analyzer: every node carries a byte
// Span, and every Expression node carries a resolved types.Type once the
// analyzer has run.
package ast

import "github.com/azula-lang/azc/internal/types"

// Span is a half-open byte interval [Start, End) into the source buffer.
type Span struct {
	Start int
	End   int
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Accept(v Visitor)
	SpanOf() Span
}

// Statement is a Node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that appears in expression position. Typed is the
// analyzer's output: Infer before type checking, a concrete type after.
type Expression interface {
	Node
	expressionNode()
	Type() types.Type
	SetType(types.Type)
}

// exprBase is embedded by every Expression implementation.
type exprBase struct {
	Span Span
	Typed types.Type
}

func (e *exprBase) SpanOf() Span          { return e.Span }
func (e *exprBase) expressionNode()       {}
func (e *exprBase) Type() types.Type      { return e.Typed }
func (e *exprBase) SetType(t types.Type)  { e.Typed = t }

// stmtBase is embedded by every Statement implementation.
type stmtBase struct {
	Span Span
}

func (s *stmtBase) SpanOf() Span   { return s.Span }
func (s *stmtBase) statementNode() {}

// Operator enumerates the Azula infix operators.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
	Mod
	Power
	Or
	And
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte
)

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Power:
		return "**"
	case Or:
		return "||"
	case And:
		return "&&"
	case Eq:
		return "=="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	default:
		return "?"
	}
}

// TypeExpr is the syntax-level type written in source: a plain name, a
// pointer, or an array — distinct from types.Type, which is the
// analyzer's resolved representation. The parser produces TypeExpr nodes;
// the analyzer resolves them to types.Type via analyzer.ResolveTypeExpr.
type TypeExpr struct {
	Span Span

	Name string // plain name form: "int", "i8", "MyStruct", ...

	Pointee *TypeExpr // non-nil for &T

	ArrayElem *TypeExpr // non-nil for [T] / [T; N]
	ArraySize *int      // non-nil when sized
}
