package ast

// Visitor is implemented by generic tree walkers. No phase in this tree
// walks through it: the analyzer and the lowering pass both return a
// value per node and use direct recursive methods instead, since
// Visitor methods are void by design.
type Visitor interface {
	VisitProgram(p *Program)
	VisitBlockStatement(b *BlockStatement)
	VisitFunctionStatement(f *FunctionStatement)
	VisitExternFunctionStatement(e *ExternFunctionStatement)
	VisitStructStatement(s *StructStatement)
	VisitReturnStatement(r *ReturnStatement)
	VisitAssignStatement(a *AssignStatement)
	VisitReassignStatement(r *ReassignStatement)
	VisitIfStatement(i *IfStatement)
	VisitWhileStatement(w *WhileStatement)
	VisitExpressionStatement(e *ExpressionStatement)

	VisitIntegerLiteral(e *IntegerLiteral)
	VisitFloatLiteral(e *FloatLiteral)
	VisitBooleanLiteral(e *BooleanLiteral)
	VisitStringLiteral(e *StringLiteral)
	VisitIdentifier(e *Identifier)
	VisitInfixExpression(e *InfixExpression)
	VisitNotExpression(e *NotExpression)
	VisitPointerExpression(e *PointerExpression)
	VisitFunctionCallExpression(e *FunctionCallExpression)
	VisitArrayExpression(e *ArrayExpression)
	VisitArrayAccessExpression(e *ArrayAccessExpression)
	VisitStructInitExpression(e *StructInitExpression)
	VisitStructAccessExpression(e *StructAccessExpression)
}

// BaseVisitor implements Visitor with a plain recursive walk over
// children and no other effect — embed it and override only the methods
// a given walker cares about, the way the teacher's own visitor
// implementations leave most methods as pure traversal.
type BaseVisitor struct {
	Self Visitor // set to the outer visitor so overridden methods are still reached recursively
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) VisitProgram(p *Program) {
	for _, s := range p.Statements {
		s.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitBlockStatement(bl *BlockStatement) {
	for _, s := range bl.Statements {
		s.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitFunctionStatement(f *FunctionStatement) {
	if f.Body != nil {
		f.Body.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitExternFunctionStatement(e *ExternFunctionStatement) {}

func (b *BaseVisitor) VisitStructStatement(s *StructStatement) {}

func (b *BaseVisitor) VisitReturnStatement(r *ReturnStatement) {
	if r.Value != nil {
		r.Value.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitAssignStatement(a *AssignStatement) {
	if a.Value != nil {
		a.Value.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitReassignStatement(r *ReassignStatement) {
	if r.Target != nil {
		r.Target.Accept(b.self())
	}
	if r.Value != nil {
		r.Value.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitIfStatement(i *IfStatement) {
	if i.Condition != nil {
		i.Condition.Accept(b.self())
	}
	if i.Body != nil {
		i.Body.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitWhileStatement(w *WhileStatement) {
	if w.Condition != nil {
		w.Condition.Accept(b.self())
	}
	if w.Body != nil {
		w.Body.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitExpressionStatement(e *ExpressionStatement) {
	if e.Expr != nil {
		e.Expr.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitIntegerLiteral(e *IntegerLiteral) {}
func (b *BaseVisitor) VisitFloatLiteral(e *FloatLiteral)     {}
func (b *BaseVisitor) VisitBooleanLiteral(e *BooleanLiteral) {}
func (b *BaseVisitor) VisitStringLiteral(e *StringLiteral)   {}
func (b *BaseVisitor) VisitIdentifier(e *Identifier)         {}

func (b *BaseVisitor) VisitInfixExpression(e *InfixExpression) {
	e.Left.Accept(b.self())
	e.Right.Accept(b.self())
}

func (b *BaseVisitor) VisitNotExpression(e *NotExpression) {
	e.Inner.Accept(b.self())
}

func (b *BaseVisitor) VisitPointerExpression(e *PointerExpression) {
	e.Inner.Accept(b.self())
}

func (b *BaseVisitor) VisitFunctionCallExpression(e *FunctionCallExpression) {
	for _, a := range e.Args {
		a.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitArrayExpression(e *ArrayExpression) {
	for _, item := range e.Items {
		item.Accept(b.self())
	}
	if e.Repeat && e.RepeatCount != nil {
		e.RepeatCount.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitArrayAccessExpression(e *ArrayAccessExpression) {
	e.Array.Accept(b.self())
	e.Index.Accept(b.self())
}

func (b *BaseVisitor) VisitStructInitExpression(e *StructInitExpression) {
	for _, f := range e.Fields {
		f.Value.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitStructAccessExpression(e *StructAccessExpression) {
	e.Struct.Accept(b.self())
}
