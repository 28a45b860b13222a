package analyzer

import (
	"github.com/azula-lang/azc/internal/ast"
	"github.com/azula-lang/azc/internal/diagnostics"
	"github.com/azula-lang/azc/internal/pipeline"
	"github.com/azula-lang/azc/internal/types"
)

// Analyzer runs the two-pass type check over a parsed ast.Program,
// rewriting every Expression's Typed field in place and appending
// diagnostics to ctx for every violation found along the way.
type Analyzer struct {
	ctx *pipeline.PipelineContext

	funcs   map[string]*FunctionSig
	structs map[string]*StructDef

	global *Scope

	// currentReturn is the declared return type of the function body
	// currently being checked; used to validate return statements.
	currentReturn types.Type
}

func New(ctx *pipeline.PipelineContext) *Analyzer {
	return &Analyzer{
		ctx:     ctx,
		funcs:   make(map[string]*FunctionSig),
		structs: make(map[string]*StructDef),
		global:  NewScope(nil),
	}
}

// builtinVarargsExterns are the C varargs functions azula programs may
// call without an explicit `extern` declaration; they type-check to
// Void with no argument checking regardless of how many args are passed.
var builtinVarargsExterns = map[string]bool{
	"printf":  true,
	"sprintf": true,
	"puts":    true,
}

func (a *Analyzer) errorAt(span ast.Span, kind diagnostics.Kind, x, y string) {
	a.ctx.AddDiagnostic(diagnostics.New(kind, span.Start, span.End).WithPayload(x, y))
}

// Run executes both passes over prog.
func (a *Analyzer) Run(prog *ast.Program) {
	a.collectSignatures(prog)
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			a.checkFunctionBody(s)
		case *ast.AssignStatement:
			a.checkTopLevelAssign(s)
		}
	}
}

// ---- pass 1: signature collection ----

func (a *Analyzer) collectSignatures(prog *ast.Program) {
	// Structs first so function signatures referencing them resolve.
	for _, stmt := range prog.Statements {
		if s, ok := stmt.(*ast.StructStatement); ok {
			a.structs[s.Name] = &StructDef{Name: s.Name}
		}
	}
	for _, stmt := range prog.Statements {
		if s, ok := stmt.(*ast.StructStatement); ok {
			def := a.structs[s.Name]
			for _, f := range s.Fields {
				def.Fields = append(def.Fields, StructFieldDef{Name: f.Name, Type: a.ResolveTypeExpr(f.Type)})
			}
		}
	}
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			sig := &FunctionSig{Name: s.Name, Returns: a.ResolveTypeExpr(s.Returns)}
			for _, arg := range s.Args {
				sig.ArgTypes = append(sig.ArgTypes, a.ResolveTypeExpr(arg.Type))
			}
			a.funcs[s.Name] = sig
		case *ast.ExternFunctionStatement:
			sig := &FunctionSig{Name: s.Name, Returns: a.ResolveTypeExpr(s.Returns), Varargs: s.Varargs, IsExtern: true}
			for _, t := range s.ArgTypes {
				sig.ArgTypes = append(sig.ArgTypes, a.ResolveTypeExpr(t))
			}
			a.funcs[s.Name] = sig
		}
	}
	// Top-level constants are visible to every function body regardless
	// of source order (global scope is not a sequential scope).
	for _, stmt := range prog.Statements {
		if s, ok := stmt.(*ast.AssignStatement); ok {
			var typ types.Type
			if s.Annotation != nil {
				typ = a.ResolveTypeExpr(s.Annotation)
			} else if s.Value != nil {
				typ = a.inferLiteralType(s.Value)
			}
			a.global.Define(s.Name, typ, s.Mutable)
		}
	}
}

// inferLiteralType types a literal expression without a surrounding
// scope, used only while seeding global constant bindings in pass 1
// (a constant's own body is re-checked properly during checkTopLevelAssign).
func (a *Analyzer) inferLiteralType(e ast.Expression) types.Type {
	switch v := e.(type) {
	case *ast.IntegerLiteral:
		return types.IntT()
	case *ast.FloatLiteral:
		return types.FloatT()
	case *ast.BooleanLiteral:
		return types.BoolT()
	case *ast.StringLiteral:
		return types.PointerTo(types.StrT())
	case *ast.ArrayExpression:
		if len(v.Items) == 0 {
			return types.ArrayOf(types.InferT(), nil)
		}
		elem := a.inferLiteralType(v.Items[0])
		n := len(v.Items)
		if v.Repeat {
			if ic, ok := v.RepeatCount.(*ast.IntegerLiteral); ok {
				n = int(ic.Value)
			}
		}
		return types.ArrayOf(elem, &n)
	default:
		return types.InferT()
	}
}

// ---- pass 2: top-level constant checking ----

func (a *Analyzer) checkTopLevelAssign(s *ast.AssignStatement) {
	if s.Value == nil {
		return
	}
	valType := a.checkExpr(s.Value, a.global)
	want := valType
	if s.Annotation != nil {
		want = a.ResolveTypeExpr(s.Annotation)
		if !want.Equal(valType) {
			a.errorAt(s.Span, diagnostics.MismatchedAssignTypes, want.String(), valType.String())
		}
	}
	a.global.Define(s.Name, want, s.Mutable)
}

// ---- pass 2: function bodies ----

func (a *Analyzer) checkFunctionBody(fn *ast.FunctionStatement) {
	sig := a.funcs[fn.Name]
	scope := NewScope(a.global)
	for i, arg := range fn.Args {
		var t types.Type
		if sig != nil && i < len(sig.ArgTypes) {
			t = sig.ArgTypes[i]
		}
		scope.Define(arg.Name, t, true)
	}
	prevReturn := a.currentReturn
	if sig != nil {
		a.currentReturn = sig.Returns
	} else {
		a.currentReturn = types.VoidT()
	}
	a.checkBlock(fn.Body, scope)
	a.currentReturn = prevReturn
}

func (a *Analyzer) checkBlock(block *ast.BlockStatement, scope *Scope) {
	for _, stmt := range block.Statements {
		a.checkStatement(stmt, scope)
	}
}

func (a *Analyzer) checkStatement(stmt ast.Statement, scope *Scope) {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		a.checkLocalAssign(s, scope)
	case *ast.ReassignStatement:
		a.checkReassign(s, scope)
	case *ast.ReturnStatement:
		a.checkReturn(s, scope)
	case *ast.IfStatement:
		cond := a.checkExpr(s.Condition, scope)
		if !types.IsLogical(cond) && !cond.IsInfer() {
			a.errorAt(s.Condition.SpanOf(), diagnostics.NonBoolCondition, cond.String(), "")
		}
		a.checkBlock(s.Body, NewScope(scope))
	case *ast.WhileStatement:
		cond := a.checkExpr(s.Condition, scope)
		if !types.IsLogical(cond) && !cond.IsInfer() {
			a.errorAt(s.Condition.SpanOf(), diagnostics.NonBoolCondition, cond.String(), "")
		}
		a.checkBlock(s.Body, NewScope(scope))
	case *ast.ExpressionStatement:
		a.checkExpr(s.Expr, scope)
	}
}

func (a *Analyzer) checkLocalAssign(s *ast.AssignStatement, scope *Scope) {
	var valType types.Type
	if s.Value != nil {
		valType = a.checkExpr(s.Value, scope)
	}
	want := valType
	if s.Annotation != nil {
		want = a.ResolveTypeExpr(s.Annotation)
		// An empty `[]` takes its type from an unsized or zero-sized
		// array annotation; any other annotation is a mismatch.
		if arr, ok := s.Value.(*ast.ArrayExpression); ok && !arr.Repeat && len(arr.Items) == 0 &&
			want.Kind == types.Array && (want.Size == nil || *want.Size == 0) {
			s.Value.SetType(want)
			valType = want
		}
		if s.Value != nil && !want.Equal(valType) {
			a.errorAt(s.Span, diagnostics.MismatchedAssignTypes, want.String(), valType.String())
		}
	}
	scope.Define(s.Name, want, s.Mutable)
}

func (a *Analyzer) checkReassign(s *ast.ReassignStatement, scope *Scope) {
	targetType := a.checkExpr(s.Target, scope)
	valType := a.checkExpr(s.Value, scope)

	if id, ok := s.Target.(*ast.Identifier); ok {
		_, mutable, found := scope.Lookup(id.Name)
		if found && !mutable {
			a.errorAt(s.Span, diagnostics.ConstantAssign, id.Name, "")
		}
	}
	if !targetType.IsInfer() && !valType.IsInfer() && !targetType.Equal(valType) {
		a.errorAt(s.Span, diagnostics.MismatchedAssignTypes, targetType.String(), valType.String())
	}
}

func (a *Analyzer) checkReturn(s *ast.ReturnStatement, scope *Scope) {
	var got types.Type
	if s.Value != nil {
		got = a.checkExpr(s.Value, scope)
	} else {
		got = types.VoidT()
	}
	// Falling off the end of a function without a return is a distinct,
	// unflagged case (checked nowhere): this only validates statements
	// that are spelled `return ...;` explicitly.
	if !got.Equal(a.currentReturn) && !got.IsInfer() {
		a.errorAt(s.Span, diagnostics.IncorrectFunctionReturn, a.currentReturn.String(), got.String())
	}
}

// ---- expressions ----

func (a *Analyzer) checkExpr(e ast.Expression, scope *Scope) types.Type {
	var t types.Type
	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		t = types.IntT()
	case *ast.FloatLiteral:
		t = types.FloatT()
	case *ast.BooleanLiteral:
		t = types.BoolT()
	case *ast.StringLiteral:
		t = types.PointerTo(types.StrT())
	case *ast.Identifier:
		t = a.checkIdentifier(ex, scope)
	case *ast.InfixExpression:
		t = a.checkInfix(ex, scope)
	case *ast.NotExpression:
		inner := a.checkExpr(ex.Inner, scope)
		if !types.IsLogical(inner) && !inner.IsInfer() {
			a.errorAt(ex.Span, diagnostics.NonOperatorType, inner.String(), "!")
		}
		t = types.BoolT()
	case *ast.PointerExpression:
		inner := a.checkExpr(ex.Inner, scope)
		t = types.PointerTo(inner)
	case *ast.FunctionCallExpression:
		t = a.checkCall(ex, scope)
	case *ast.ArrayExpression:
		t = a.checkArray(ex, scope)
	case *ast.ArrayAccessExpression:
		t = a.checkArrayAccess(ex, scope)
	case *ast.StructInitExpression:
		t = a.checkStructInit(ex, scope)
	case *ast.StructAccessExpression:
		t = a.checkStructAccess(ex, scope)
	default:
		t = types.InferT()
	}
	e.SetType(t)
	return t
}

func (a *Analyzer) checkIdentifier(id *ast.Identifier, scope *Scope) types.Type {
	if id.Name == "nil" {
		return types.VoidT()
	}
	t, _, found := scope.Lookup(id.Name)
	if !found {
		a.errorAt(id.Span, diagnostics.UnknownVariable, id.Name, "")
		return types.InferT()
	}
	return t
}

func (a *Analyzer) checkInfix(ex *ast.InfixExpression, scope *Scope) types.Type {
	left := a.checkExpr(ex.Left, scope)
	right := a.checkExpr(ex.Right, scope)

	if left.IsInfer() || right.IsInfer() {
		return types.InferT()
	}
	if !left.Equal(right) {
		a.errorAt(ex.Span, diagnostics.MismatchedTypes, left.String(), right.String())
		return types.InferT()
	}

	switch ex.Operator {
	case ast.Or, ast.And:
		if !types.IsLogical(left) {
			a.errorAt(ex.Span, diagnostics.NonOperatorType, left.String(), ex.Operator.String())
		}
		return types.BoolT()
	case ast.Eq, ast.Neq:
		if !types.IsEquatable(left) {
			a.errorAt(ex.Span, diagnostics.NonOperatorType, left.String(), ex.Operator.String())
		}
		return types.BoolT()
	case ast.Lt, ast.Lte, ast.Gt, ast.Gte:
		if !types.IsOrderable(left) {
			a.errorAt(ex.Span, diagnostics.NonOperatorType, left.String(), ex.Operator.String())
		}
		return types.BoolT()
	default: // Add, Sub, Mul, Div, Mod, Power
		if !types.IsNumeric(left) {
			a.errorAt(ex.Span, diagnostics.NonOperatorType, left.String(), ex.Operator.String())
		}
		return left
	}
}

func (a *Analyzer) checkCall(ex *ast.FunctionCallExpression, scope *Scope) types.Type {
	var argTypes []types.Type
	for _, arg := range ex.Args {
		argTypes = append(argTypes, a.checkExpr(arg, scope))
	}
	if ex.Callee == nil {
		return types.InferT()
	}
	sig, found := a.funcs[ex.Callee.Name]
	if !found {
		if builtinVarargsExterns[ex.Callee.Name] {
			return types.VoidT()
		}
		a.errorAt(ex.Span, diagnostics.FunctionNotFound, ex.Callee.Name, "")
		return types.InferT()
	}
	for i, want := range sig.ArgTypes {
		if i >= len(argTypes) {
			break
		}
		if !want.Equal(argTypes[i]) && !argTypes[i].IsInfer() {
			a.errorAt(ex.Args[i].SpanOf(), diagnostics.MismatchedTypes, want.String(), argTypes[i].String())
		}
	}
	return sig.Returns
}

func (a *Analyzer) checkArray(ex *ast.ArrayExpression, scope *Scope) types.Type {
	if ex.Repeat {
		elem := a.checkExpr(ex.Items[0], scope)
		if ex.RepeatCount != nil {
			countType := a.checkExpr(ex.RepeatCount, scope)
			if _, ok := ex.RepeatCount.(*ast.IntegerLiteral); !ok {
				a.errorAt(ex.RepeatCount.SpanOf(), diagnostics.ArrayInitialiserSizeNonConstant, "", "")
			} else if !countType.Equal(types.IntT()) {
				a.errorAt(ex.RepeatCount.SpanOf(), diagnostics.NonIntIndex, countType.String(), "")
			}
			if ic, ok := ex.RepeatCount.(*ast.IntegerLiteral); ok {
				n := int(ic.Value)
				return types.ArrayOf(elem, &n)
			}
		}
		return types.ArrayOf(elem, nil)
	}
	if len(ex.Items) == 0 {
		// No elements and no annotation in sight here: the analyzer
		// leaves this Infer and relies on the enclosing assignment's
		// annotation to resolve it (checked in checkLocalAssign via the
		// declared Annotation, which this array can't see directly).
		return types.ArrayOf(types.InferT(), nil)
	}
	elem := a.checkExpr(ex.Items[0], scope)
	for _, item := range ex.Items[1:] {
		t := a.checkExpr(item, scope)
		if !t.Equal(elem) && !t.IsInfer() {
			a.errorAt(item.SpanOf(), diagnostics.MismatchedTypes, elem.String(), t.String())
		}
	}
	n := len(ex.Items)
	return types.ArrayOf(elem, &n)
}

func (a *Analyzer) checkArrayAccess(ex *ast.ArrayAccessExpression, scope *Scope) types.Type {
	arrType := a.checkExpr(ex.Array, scope)
	idxType := a.checkExpr(ex.Index, scope)

	if !idxType.Equal(types.IntT()) && !idxType.IsInfer() {
		a.errorAt(ex.Index.SpanOf(), diagnostics.NonIntIndex, idxType.String(), "")
	}
	if arrType.Kind == types.Pointer && arrType.Elem != nil && arrType.Elem.Kind == types.Str {
		return types.SizedSigned(8)
	}
	if arrType.Kind != types.Array && !arrType.IsInfer() {
		a.errorAt(ex.Array.SpanOf(), diagnostics.NonArrayInIndex, arrType.String(), "")
		return types.InferT()
	}
	if arrType.Elem != nil {
		return *arrType.Elem
	}
	return types.InferT()
}

func (a *Analyzer) checkStructInit(ex *ast.StructInitExpression, scope *Scope) types.Type {
	def, found := a.structs[ex.Name.Name]
	if !found {
		a.errorAt(ex.Name.Span, diagnostics.UnknownStruct, ex.Name.Name, "")
		for _, f := range ex.Fields {
			a.checkExpr(f.Value, scope)
		}
		return types.NamedT(ex.Name.Name)
	}

	seen := make(map[string]bool)
	for _, f := range ex.Fields {
		valType := a.checkExpr(f.Value, scope)
		fieldType, ok := def.FieldType(f.Name)
		if !ok {
			a.errorAt(ex.Span, diagnostics.UnknownStructMember, f.Name, def.Name)
			continue
		}
		if seen[f.Name] {
			a.errorAt(ex.Span, diagnostics.UnknownStructMember, f.Name, def.Name)
		}
		seen[f.Name] = true
		if !fieldType.Equal(valType) && !valType.IsInfer() {
			a.errorAt(f.Value.SpanOf(), diagnostics.MismatchedAssignTypes, fieldType.String(), valType.String())
		}
	}
	for _, field := range def.Fields {
		if !seen[field.Name] {
			a.errorAt(ex.Span, diagnostics.UnknownStructMember, field.Name, def.Name)
		}
	}
	return types.NamedT(def.Name)
}

func (a *Analyzer) checkStructAccess(ex *ast.StructAccessExpression, scope *Scope) types.Type {
	structType := a.checkExpr(ex.Struct, scope)
	base := structType
	if base.Kind == types.Pointer {
		base = *base.Elem
	}
	if base.Kind != types.Named {
		if !base.IsInfer() {
			a.errorAt(ex.Struct.SpanOf(), diagnostics.AccessNonStruct, base.String(), "")
		}
		return types.InferT()
	}
	def, found := a.structs[base.Name]
	if !found {
		a.errorAt(ex.Struct.SpanOf(), diagnostics.UnknownStruct, base.Name, "")
		return types.InferT()
	}
	if ex.Field == nil {
		return types.InferT()
	}
	fieldType, ok := def.FieldType(ex.Field.Name)
	if !ok {
		a.errorAt(ex.Span, diagnostics.UnknownStructMember, ex.Field.Name, def.Name)
		return types.InferT()
	}
	return fieldType
}

// Processor is the analyze phase of the compilation pipeline.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	New(ctx).Run(ctx.Program)
	return ctx
}
