// Package lower turns a type-checked ast.Program into an ir.Module: one
// ir.Function per ast.FunctionStatement, with implicit returns inserted
// at the end of void functions and if/while bodies split into their own
// blocks.
package lower

import (
	"fmt"
	"strconv"

	"github.com/azula-lang/azc/internal/ast"
	"github.com/azula-lang/azc/internal/ir"
	"github.com/azula-lang/azc/internal/pipeline"
	"github.com/azula-lang/azc/internal/types"
)

// Lowerer walks a checked program once, emitting an ir.Module. It never
// fails: by the time lowering runs, the analyzer has already reported
// every diagnostic the source could produce.
type Lowerer struct {
	module *ir.Module
	fn     *ir.Function

	// scope maps a source name to its ir-local type, used to know which
	// types.Type to pass to Store/Load.
	scope map[string]types.Type
}

func New(moduleName, sessionID string) *Lowerer {
	return &Lowerer{module: ir.NewModule(moduleName, sessionID)}
}

// Run lowers every top-level statement in prog.
func (l *Lowerer) Run(prog *ast.Program) *ir.Module {
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.StructStatement:
			l.lowerStruct(s)
		}
	}
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.ExternFunctionStatement:
			l.lowerExtern(s)
		case *ast.AssignStatement:
			l.lowerGlobal(s)
		}
	}
	for _, stmt := range prog.Statements {
		if s, ok := stmt.(*ast.FunctionStatement); ok {
			l.lowerFunction(s)
		}
	}
	return l.module
}

func (l *Lowerer) lowerStruct(s *ast.StructStatement) {
	def := &ir.StructDef{Name: s.Name}
	for _, f := range s.Fields {
		def.Fields = append(def.Fields, ir.StructFieldDef{Name: f.Name, Type: resolveFieldType(f.Type)})
	}
	l.module.Structs = append(l.module.Structs, def)
}

// resolveFieldType re-derives a types.Type from a TypeExpr purely
// syntactically (the analyzer already validated it; lowering only needs
// the shape, not re-validation, so this avoids threading the analyzer's
// struct table through the lowering pass).
func resolveFieldType(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.VoidT()
	}
	if te.Pointee != nil {
		return types.PointerTo(resolveFieldType(te.Pointee))
	}
	if te.ArrayElem != nil {
		return types.ArrayOf(resolveFieldType(te.ArrayElem), te.ArraySize)
	}
	switch te.Name {
	case "int":
		return types.IntT()
	case "float":
		return types.FloatT()
	case "bool":
		return types.BoolT()
	case "str":
		return types.StrT()
	case "void":
		return types.VoidT()
	default:
		if len(te.Name) > 1 {
			if bits, err := strconv.Atoi(te.Name[1:]); err == nil && bits > 0 {
				switch te.Name[0] {
				case 'i':
					return types.SizedSigned(bits)
				case 'u':
					return types.SizedUnsigned(bits)
				case 'f':
					return types.SizedFl(bits)
				}
			}
		}
		return types.NamedT(te.Name)
	}
}

func (l *Lowerer) lowerExtern(s *ast.ExternFunctionStatement) {
	ext := &ir.ExternFunction{Name: s.Name, Returns: resolveFieldType(s.Returns), Varargs: s.Varargs}
	for _, t := range s.ArgTypes {
		ext.Args = append(ext.Args, resolveFieldType(t))
	}
	l.module.ExternFunctions = append(l.module.ExternFunctions, ext)
}

func (l *Lowerer) lowerGlobal(s *ast.AssignStatement) {
	g := ir.Global{Name: s.Name, Type: s.Value.Type()}
	switch v := s.Value.(type) {
	case *ast.IntegerLiteral:
		g.IntConst = v.Value
	case *ast.FloatLiteral:
		g.IsFloat = true
		g.FloatConst = v.Value
	case *ast.BooleanLiteral:
		g.IsBool = true
		g.BoolConst = v.Value
	case *ast.StringLiteral:
		g.IsString = true
		g.StrConst = l.module.AddString(v.Value)
	}
	l.module.Globals = append(l.module.Globals, g)
}

func (l *Lowerer) lowerFunction(s *ast.FunctionStatement) {
	var args []ir.Arg
	l.scope = make(map[string]types.Type)
	for _, a := range s.Args {
		t := resolveFieldType(a.Type)
		args = append(args, ir.Arg{Name: a.Name, Type: t})
		l.scope[a.Name] = t
	}
	returns := resolveFieldType(s.Returns)
	fn := ir.NewFunction(s.Name, args, returns)
	l.fn = fn

	l.lowerBlock(s.Body)

	// A function body that falls off the end without an explicit return
	// gets an implicit bare `return` — the void-function case the
	// language permits (the analyzer only validates statements spelled
	// `return ...;` explicitly; it never requires one).
	if isZeroTerm(fn.CurrentBlock().Term) {
		fn.Return(nil)
	}

	l.module.Functions = append(l.module.Functions, fn)
}

func isZeroTerm(t ir.Terminator) bool {
	return t.Kind == ir.TermReturn && t.Value == nil && t.Target == "" && t.TrueTarget == "" && t.FalseTarget == ""
}

func (l *Lowerer) lowerBlock(block *ast.BlockStatement) {
	for _, stmt := range block.Statements {
		l.lowerStatement(stmt)
	}
}

func (l *Lowerer) lowerStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		l.lowerAssign(s)
	case *ast.ReassignStatement:
		l.lowerReassign(s)
	case *ast.ReturnStatement:
		l.lowerReturn(s)
	case *ast.IfStatement:
		l.lowerIf(s)
	case *ast.WhileStatement:
		l.lowerWhile(s)
	case *ast.ExpressionStatement:
		l.lowerExpr(s.Expr)
	}
}

func (l *Lowerer) lowerAssign(s *ast.AssignStatement) {
	val := l.lowerExpr(s.Value)
	t := s.Value.Type()
	l.scope[s.Name] = t
	l.fn.Store(s.Name, val, t)
}

func (l *Lowerer) lowerReassign(s *ast.ReassignStatement) {
	val := l.lowerExpr(s.Value)
	switch target := s.Target.(type) {
	case *ast.Identifier:
		t := l.scope[target.Name]
		l.fn.Store(target.Name, val, t)
	case *ast.ArrayAccessExpression:
		arr := l.lowerExpr(target.Array)
		idx := l.lowerExpr(target.Index)
		l.fn.ArraySet(arr, idx, val)
	case *ast.StructAccessExpression:
		structVal := l.lowerExpr(target.Struct)
		l.fn.StructSetField(structVal, target.Field.Name, val)
	}
}

func (l *Lowerer) lowerReturn(s *ast.ReturnStatement) {
	if s.Value == nil {
		l.fn.Return(nil)
		return
	}
	v := l.lowerExpr(s.Value)
	l.fn.Return(&v)
}

// lowerIf follows the true-N / end-N block naming: the condition is
// evaluated in the current block, which ends with a Jcond into the new
// true-N block (if body) and end-N (fallthrough). true-N only gets an
// explicit Jump to end-N when its body didn't already terminate itself
// (e.g. via an early return).
func (l *Lowerer) lowerIf(s *ast.IfStatement) {
	n := l.fn.NextIfIndex()
	trueName := fmt.Sprintf("true-%d", n)
	endName := fmt.Sprintf("end-%d", n)

	cond := l.lowerExpr(s.Condition)
	l.fn.Jcond(cond, trueName, endName)

	trueBlock := l.fn.NewNamedBlock(trueName)
	l.fn.SetCurrentBlock(trueBlock)
	l.lowerBlock(s.Body)
	if isZeroTerm(l.fn.CurrentBlock().Term) {
		l.fn.Jump(endName)
	}

	endBlock := l.fn.NewNamedBlock(endName)
	l.fn.SetCurrentBlock(endBlock)
}

// lowerWhile follows the eval-N / loop-N / end-N block naming: the
// entry block jumps straight to eval-N, which re-checks the condition
// on every iteration.
func (l *Lowerer) lowerWhile(s *ast.WhileStatement) {
	n := l.fn.NextIfIndex()
	evalName := fmt.Sprintf("eval-%d", n)
	loopName := fmt.Sprintf("loop-%d", n)
	endName := fmt.Sprintf("end-%d", n)

	l.fn.Jump(evalName)

	evalBlock := l.fn.NewNamedBlock(evalName)
	l.fn.SetCurrentBlock(evalBlock)
	cond := l.lowerExpr(s.Condition)
	l.fn.Jcond(cond, loopName, endName)

	loopBlock := l.fn.NewNamedBlock(loopName)
	l.fn.SetCurrentBlock(loopBlock)
	l.lowerBlock(s.Body)
	if isZeroTerm(l.fn.CurrentBlock().Term) {
		l.fn.Jump(evalName)
	}

	endBlock := l.fn.NewNamedBlock(endName)
	l.fn.SetCurrentBlock(endBlock)
}

func (l *Lowerer) lowerExpr(e ast.Expression) ir.Value {
	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		return l.fn.ConstInt(ex.Value)
	case *ast.FloatLiteral:
		return l.fn.ConstFloat(ex.Value)
	case *ast.BooleanLiteral:
		return l.fn.ConstBool(ex.Value)
	case *ast.StringLiteral:
		return l.fn.ConstString(l.module.AddString(ex.Value))
	case *ast.Identifier:
		if ex.Name == "nil" {
			return l.fn.ConstNull()
		}
		t, ok := l.scope[ex.Name]
		if !ok {
			t = ex.Type() // globals are not in the function scope
		}
		return l.fn.Load(ex.Name, t)
	case *ast.InfixExpression:
		return l.lowerInfix(ex)
	case *ast.NotExpression:
		return l.fn.Not(l.lowerExpr(ex.Inner))
	case *ast.PointerExpression:
		inner := l.lowerExpr(ex.Inner)
		return l.fn.AddrOf(inner, ex.Type())
	case *ast.FunctionCallExpression:
		var args []ir.Value
		for _, a := range ex.Args {
			args = append(args, l.lowerExpr(a))
		}
		return l.fn.Call(ex.Callee.Name, args, ex.Type())
	case *ast.ArrayExpression:
		return l.lowerArray(ex)
	case *ast.ArrayAccessExpression:
		arr := l.lowerExpr(ex.Array)
		idx := l.lowerExpr(ex.Index)
		return l.fn.ArrayGet(arr, idx, ex.Type())
	case *ast.StructInitExpression:
		var vals []ir.Value
		for _, f := range ex.Fields {
			vals = append(vals, l.lowerExpr(f.Value))
		}
		return l.fn.StructNew(ex.Name.Name, vals, ex.Type())
	case *ast.StructAccessExpression:
		structVal := l.lowerExpr(ex.Struct)
		return l.fn.StructGetField(structVal, ex.Field.Name, ex.Type())
	default:
		return l.fn.ConstInt(0)
	}
}

func (l *Lowerer) lowerInfix(ex *ast.InfixExpression) ir.Value {
	left := l.lowerExpr(ex.Left)
	right := l.lowerExpr(ex.Right)
	t := ex.Type()
	switch ex.Operator {
	case ast.Add:
		return l.fn.Add(left, right, t)
	case ast.Sub:
		return l.fn.Sub(left, right, t)
	case ast.Mul:
		return l.fn.Mul(left, right, t)
	case ast.Div:
		return l.fn.Div(left, right, t)
	case ast.Mod:
		return l.fn.Mod(left, right, t)
	case ast.Power:
		return l.fn.Power(left, right, t)
	case ast.Or:
		return l.fn.Or(left, right)
	case ast.And:
		return l.fn.And(left, right)
	case ast.Eq:
		return l.fn.Eq(left, right)
	case ast.Neq:
		return l.fn.Neq(left, right)
	case ast.Lt:
		return l.fn.Lt(left, right)
	case ast.Lte:
		return l.fn.Lte(left, right)
	case ast.Gt:
		return l.fn.Gt(left, right)
	case ast.Gte:
		return l.fn.Gte(left, right)
	default:
		return left
	}
}

func (l *Lowerer) lowerArray(ex *ast.ArrayExpression) ir.Value {
	if ex.Repeat {
		var elems []ir.Value
		item := l.lowerExpr(ex.Items[0])
		count := 1
		if ic, ok := ex.RepeatCount.(*ast.IntegerLiteral); ok {
			count = int(ic.Value)
		}
		for i := 0; i < count; i++ {
			elems = append(elems, item)
		}
		return l.fn.ArrayNew(elems, ex.Type())
	}
	var elems []ir.Value
	for _, item := range ex.Items {
		elems = append(elems, l.lowerExpr(item))
	}
	return l.fn.ArrayNew(elems, ex.Type())
}

// Processor is the lower phase of the compilation pipeline.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	lw := New(ctx.Filename, ctx.SessionID)
	ctx.Module = lw.Run(ctx.Program)
	return ctx
}
