package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azula-lang/azc/internal/ast"
	"github.com/azula-lang/azc/internal/lexer"
	"github.com/azula-lang/azc/internal/pipeline"
)

func parse(t *testing.T, src string) (*ast.Program, *pipeline.PipelineContext) {
	t.Helper()
	ctx := &pipeline.PipelineContext{Source: src}
	toks := lexer.All(src)
	p := New(toks, ctx)
	prog := p.ParseProgram()
	return prog, ctx
}

func TestParseFunctionStatement(t *testing.T) {
	prog, ctx := parse(t, `func add(a: int, b: int): int { return a + b; }`)
	require.Empty(t, ctx.Diagnostics)
	require.Len(t, prog.Statements, 1)
	fn, ok := prog.Statements[0].(*ast.FunctionStatement)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Args, 2)
	assert.Equal(t, "a", fn.Args[0].Name)
	require.NotNil(t, fn.Returns)
	assert.Equal(t, "int", fn.Returns.Name)
	require.Len(t, fn.Body.Statements, 1)
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	require.True(t, ok)
	infix, ok := ret.Value.(*ast.InfixExpression)
	require.True(t, ok)
	assert.Equal(t, ast.Add, infix.Operator)
}

func TestParseFunctionStatement_NoReturnType(t *testing.T) {
	prog, ctx := parse(t, `func noop() { return; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	assert.Nil(t, fn.Returns)
}

func TestParseExternFunctionStatement(t *testing.T) {
	prog, ctx := parse(t, `extern func puts(str): int;`)
	require.Empty(t, ctx.Diagnostics)
	ext, ok := prog.Statements[0].(*ast.ExternFunctionStatement)
	require.True(t, ok)
	assert.Equal(t, "puts", ext.Name)
	assert.False(t, ext.Varargs)
	require.Len(t, ext.ArgTypes, 1)
}

func TestParseExternFunctionStatement_Varargs(t *testing.T) {
	prog, ctx := parse(t, `varargs extern func printf(str): int;`)
	require.Empty(t, ctx.Diagnostics)
	ext := prog.Statements[0].(*ast.ExternFunctionStatement)
	assert.True(t, ext.Varargs)
	assert.Equal(t, "printf", ext.Name)
}

func TestParseStructStatement(t *testing.T) {
	prog, ctx := parse(t, `struct Point { x: int, y: int }`)
	require.Empty(t, ctx.Diagnostics)
	st := prog.Statements[0].(*ast.StructStatement)
	assert.Equal(t, "Point", st.Name)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "x", st.Fields[0].Name)
	assert.Equal(t, "y", st.Fields[1].Name)
}

func TestParseTopLevelConst(t *testing.T) {
	prog, ctx := parse(t, `const MAX = 10;`)
	require.Empty(t, ctx.Diagnostics)
	a := prog.Statements[0].(*ast.AssignStatement)
	assert.False(t, a.Mutable)
	lit, ok := a.Value.(*ast.IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(10), lit.Value)
}

func TestParseTopLevelVar_RejectedAsNonConstant(t *testing.T) {
	_, ctx := parse(t, `var x = 10;`)
	require.NotEmpty(t, ctx.Diagnostics)
}

func TestParseTopLevelConst_NonLiteralRHSRejected(t *testing.T) {
	_, ctx := parse(t, `func f(): int { return 1; } const X = f();`)
	require.NotEmpty(t, ctx.Diagnostics)
}

func TestParseIfStatement(t *testing.T) {
	prog, ctx := parse(t, `func f() { if true { return; } }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	ifs, ok := fn.Body.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	_, ok = ifs.Condition.(*ast.BooleanLiteral)
	require.True(t, ok)
}

func TestParseWhileStatement(t *testing.T) {
	prog, ctx := parse(t, `func f() { while true { return; } }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	_, ok := fn.Body.Statements[0].(*ast.WhileStatement)
	require.True(t, ok)
}

func TestParseLocalVarAndReassign(t *testing.T) {
	prog, ctx := parse(t, `func f() { var x = 1; x = 2; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	require.Len(t, fn.Body.Statements, 2)
	a, ok := fn.Body.Statements[0].(*ast.AssignStatement)
	require.True(t, ok)
	assert.True(t, a.Mutable)
	r, ok := fn.Body.Statements[1].(*ast.ReassignStatement)
	require.True(t, ok)
	id, ok := r.Target.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", id.Name)
}

func TestParseStructInitAndAccess(t *testing.T) {
	prog, ctx := parse(t, `func f() { var p = Point{x: 1, y: 2}; var n = p.x; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	a := fn.Body.Statements[0].(*ast.AssignStatement)
	si, ok := a.Value.(*ast.StructInitExpression)
	require.True(t, ok)
	assert.Equal(t, "Point", si.Name.Name)
	require.Len(t, si.Fields, 2)

	a2 := fn.Body.Statements[1].(*ast.AssignStatement)
	sa, ok := a2.Value.(*ast.StructAccessExpression)
	require.True(t, ok)
	assert.Equal(t, "x", sa.Field.Name)
}

func TestParseArrayLiterals(t *testing.T) {
	prog, ctx := parse(t, `func f() { var a = [1, 2, 3]; var b = [0; 5]; var c = []; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)

	aLit := fn.Body.Statements[0].(*ast.AssignStatement).Value.(*ast.ArrayExpression)
	assert.False(t, aLit.Repeat)
	assert.Len(t, aLit.Items, 3)

	bLit := fn.Body.Statements[1].(*ast.AssignStatement).Value.(*ast.ArrayExpression)
	assert.True(t, bLit.Repeat)
	require.NotNil(t, bLit.RepeatCount)

	cLit := fn.Body.Statements[2].(*ast.AssignStatement).Value.(*ast.ArrayExpression)
	assert.Empty(t, cLit.Items)
}

func TestParseArrayIndexAndCall(t *testing.T) {
	prog, ctx := parse(t, `func f() { var a = [1,2][0]; var b = g(1, 2); }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	aa, ok := fn.Body.Statements[0].(*ast.AssignStatement).Value.(*ast.ArrayAccessExpression)
	require.True(t, ok)
	_, ok = aa.Array.(*ast.ArrayExpression)
	require.True(t, ok)

	call, ok := fn.Body.Statements[1].(*ast.AssignStatement).Value.(*ast.FunctionCallExpression)
	require.True(t, ok)
	assert.Equal(t, "g", call.Callee.Name)
	assert.Len(t, call.Args, 2)
}

func TestParseNotAndPointer(t *testing.T) {
	prog, ctx := parse(t, `func f() { var a = !true; var b = &a; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	_, ok := fn.Body.Statements[0].(*ast.AssignStatement).Value.(*ast.NotExpression)
	require.True(t, ok)
	_, ok = fn.Body.Statements[1].(*ast.AssignStatement).Value.(*ast.PointerExpression)
	require.True(t, ok)
}

func TestParsePrecedence(t *testing.T) {
	prog, ctx := parse(t, `func f() { var a = 1 + 2 * 3; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	top := fn.Body.Statements[0].(*ast.AssignStatement).Value.(*ast.InfixExpression)
	assert.Equal(t, ast.Add, top.Operator)
	_, ok := top.Left.(*ast.IntegerLiteral)
	require.True(t, ok)
	right, ok := top.Right.(*ast.InfixExpression)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, right.Operator)
}

func TestParseFloatLiteral(t *testing.T) {
	prog, ctx := parse(t, `func f() { var a = 3.14; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	lit := fn.Body.Statements[0].(*ast.AssignStatement).Value.(*ast.FloatLiteral)
	assert.InDelta(t, 3.14, lit.Value, 1e-9)
}

func TestParseStringEscapes(t *testing.T) {
	prog, ctx := parse(t, `func f() { var a = "hi\n"; }`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	lit := fn.Body.Statements[0].(*ast.AssignStatement).Value.(*ast.StringLiteral)
	assert.Equal(t, "hi\n", lit.Value)
}

func TestParseInvalidEscapeReportsDiagnostic(t *testing.T) {
	_, ctx := parse(t, `func f() { var a = "\q"; }`)
	require.NotEmpty(t, ctx.Diagnostics)
}

func TestParseTypeExprPointerAndArray(t *testing.T) {
	prog, ctx := parse(t, `func f(a: &int, b: [int;3], c: [int]) {}`)
	require.Empty(t, ctx.Diagnostics)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	require.NotNil(t, fn.Args[0].Type.Pointee)
	assert.Equal(t, "int", fn.Args[0].Type.Pointee.Name)

	require.NotNil(t, fn.Args[1].Type.ArrayElem)
	require.NotNil(t, fn.Args[1].Type.ArraySize)
	assert.Equal(t, 3, *fn.Args[1].Type.ArraySize)

	require.NotNil(t, fn.Args[2].Type.ArrayElem)
	assert.Nil(t, fn.Args[2].Type.ArraySize)
}

func TestParseProgram_RecoversAfterError(t *testing.T) {
	prog, ctx := parse(t, `const X = ; func ok() { return; }`)
	require.NotEmpty(t, ctx.Diagnostics)
	found := false
	for _, s := range prog.Statements {
		if fn, ok := s.(*ast.FunctionStatement); ok && fn.Name == "ok" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and still parse the trailing function")
}
