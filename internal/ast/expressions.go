package ast

// IntegerLiteral is a literal integer, e.g. 42.
type IntegerLiteral struct {
	exprBase
	Value int64
}

func (e *IntegerLiteral) Accept(v Visitor) { v.VisitIntegerLiteral(e) }

// FloatLiteral is a literal floating point number, e.g. 3.14.
type FloatLiteral struct {
	exprBase
	Value float64
}

func (e *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(e) }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	exprBase
	Value bool
}

func (e *BooleanLiteral) Accept(v Visitor) { v.VisitBooleanLiteral(e) }

// StringLiteral is a double-quoted string with escapes already decoded.
type StringLiteral struct {
	exprBase
	Value string
}

func (e *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(e) }

// Identifier is a name reference — a variable, a function callee, or the
// `nil` pointer sentinel.
type Identifier struct {
	exprBase
	Name string
}

func (e *Identifier) Accept(v Visitor) { v.VisitIdentifier(e) }

// InfixExpression is a binary operator application.
type InfixExpression struct {
	exprBase
	Left     Expression
	Operator Operator
	Right    Expression
}

func (e *InfixExpression) Accept(v Visitor) { v.VisitInfixExpression(e) }

// NotExpression is the unary boolean negation `!e`.
type NotExpression struct {
	exprBase
	Inner Expression
}

func (e *NotExpression) Accept(v Visitor) { v.VisitNotExpression(e) }

// PointerExpression is the unary address-of `&e`.
type PointerExpression struct {
	exprBase
	Inner Expression
}

func (e *PointerExpression) Accept(v Visitor) { v.VisitPointerExpression(e) }

// FunctionCallExpression applies Callee (always an Identifier, per grammar) to Args.
type FunctionCallExpression struct {
	exprBase
	Callee *Identifier
	Args   []Expression
}

func (e *FunctionCallExpression) Accept(v Visitor) { v.VisitFunctionCallExpression(e) }

// ArrayExpression is an array literal: `[]`, `[e, e, ...]`, or `[e; N]`
// (Repeat true, RepeatCount the literal N).
type ArrayExpression struct {
	exprBase
	Items       []Expression
	Repeat      bool
	RepeatCount Expression // set when Repeat is true
}

func (e *ArrayExpression) Accept(v Visitor) { v.VisitArrayExpression(e) }

// ArrayAccessExpression indexes into an array or string.
type ArrayAccessExpression struct {
	exprBase
	Array Expression
	Index Expression
}

func (e *ArrayAccessExpression) Accept(v Visitor) { v.VisitArrayAccessExpression(e) }

// StructFieldInit is one `name: value` pair inside a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expression
}

// StructInitExpression constructs a named struct value.
type StructInitExpression struct {
	exprBase
	Name   *Identifier
	Fields []StructFieldInit
}

func (e *StructInitExpression) Accept(v Visitor) { v.VisitStructInitExpression(e) }

// StructAccessExpression reads a named field off a struct (or pointer-to-struct) value.
type StructAccessExpression struct {
	exprBase
	Struct Expression
	Field  *Identifier
}

func (e *StructAccessExpression) Accept(v Visitor) { v.VisitStructAccessExpression(e) }
