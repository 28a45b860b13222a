package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azula-lang/azc/internal/analyzer"
	"github.com/azula-lang/azc/internal/ir"
	"github.com/azula-lang/azc/internal/lexer"
	"github.com/azula-lang/azc/internal/parser"
	"github.com/azula-lang/azc/internal/pipeline"
)

func lowerSource(t *testing.T, src string) *ir.Module {
	t.Helper()
	ctx := &pipeline.PipelineContext{SessionID: "test-session", Filename: "test.azl", Source: src}
	ctx.Tokens = lexer.All(src)
	ctx.Program = parser.New(ctx.Tokens, ctx).ParseProgram()
	require.Empty(t, ctx.Diagnostics, "must parse cleanly")
	analyzer.New(ctx).Run(ctx.Program)
	require.Empty(t, ctx.Diagnostics, "must typecheck cleanly")
	return New(ctx.Filename, ctx.SessionID).Run(ctx.Program)
}

func blockNames(fn *ir.Function) []string {
	names := make([]string, len(fn.Blocks))
	for i, b := range fn.Blocks {
		names[i] = b.Name
	}
	return names
}

func findBlock(fn *ir.Function, name string) *ir.Block {
	for _, b := range fn.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func TestLower_EmptyMainGetsImplicitReturn(t *testing.T) {
	mod := lowerSource(t, `func main() {}`)
	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	require.Len(t, fn.Blocks, 1)
	assert.Equal(t, "entry", fn.Blocks[0].Name)
	assert.Equal(t, ir.TermReturn, fn.Blocks[0].Term.Kind)
	assert.Nil(t, fn.Blocks[0].Term.Value)
}

func TestLower_ConstantReturn(t *testing.T) {
	mod := lowerSource(t, `func main(): int { return 1 + 2; }`)
	fn := mod.Functions[0]
	require.Len(t, fn.Blocks, 1)
	entry := fn.Blocks[0]
	require.Len(t, entry.Instructions, 3)
	assert.Equal(t, ir.OpConstInt, entry.Instructions[0].Op)
	assert.Equal(t, int64(1), entry.Instructions[0].IntConst)
	assert.Equal(t, ir.OpConstInt, entry.Instructions[1].Op)
	assert.Equal(t, int64(2), entry.Instructions[1].IntConst)
	assert.Equal(t, ir.OpAdd, entry.Instructions[2].Op)
	require.Equal(t, ir.TermReturn, entry.Term.Kind)
	require.NotNil(t, entry.Term.Value)
	assert.Equal(t, 2, entry.Term.Value.Reg)
}

// TestLower_IfBlockNaming pins the exact block-naming contract for
// if-statements: true-N for the body, end-N for the join point.
func TestLower_IfBlockNaming(t *testing.T) {
	mod := lowerSource(t, `func f(a: int): int { if a == 1 { return 1; } return 0; }`)
	fn := mod.Functions[0]
	assert.Equal(t, []string{"entry", "true-0", "end-0"}, blockNames(fn))

	entry := findBlock(fn, "entry")
	require.Equal(t, ir.TermJcond, entry.Term.Kind)
	assert.Equal(t, "true-0", entry.Term.TrueTarget)
	assert.Equal(t, "end-0", entry.Term.FalseTarget)

	trueBlock := findBlock(fn, "true-0")
	require.Equal(t, ir.TermReturn, trueBlock.Term.Kind)

	endBlock := findBlock(fn, "end-0")
	require.Equal(t, ir.TermReturn, endBlock.Term.Kind)
}

// TestLower_WhileBlockNaming pins the exact block-naming contract for
// while-statements: eval-N re-checks the condition, loop-N is the body,
// end-N follows the loop.
func TestLower_WhileBlockNaming(t *testing.T) {
	mod := lowerSource(t, `func countdown(n: int) {
		while n > 0 {
			n = n - 1;
		}
	}`)
	fn := mod.Functions[0]
	assert.Equal(t, []string{"entry", "eval-0", "loop-0", "end-0"}, blockNames(fn))

	entry := findBlock(fn, "entry")
	require.Equal(t, ir.TermJump, entry.Term.Kind)
	assert.Equal(t, "eval-0", entry.Term.Target)

	eval := findBlock(fn, "eval-0")
	require.Equal(t, ir.TermJcond, eval.Term.Kind)
	assert.Equal(t, "loop-0", eval.Term.TrueTarget)
	assert.Equal(t, "end-0", eval.Term.FalseTarget)

	loop := findBlock(fn, "loop-0")
	require.Equal(t, ir.TermJump, loop.Term.Kind)
	assert.Equal(t, "eval-0", loop.Term.Target)

	end := findBlock(fn, "end-0")
	require.Equal(t, ir.TermReturn, end.Term.Kind)
}

func TestLower_NestedIfGetsDistinctIndices(t *testing.T) {
	mod := lowerSource(t, `func f(a: int, b: int): int {
		if a == 1 {
			if b == 1 {
				return 1;
			}
		}
		return 0;
	}`)
	fn := mod.Functions[0]
	assert.Equal(t, []string{"entry", "true-0", "true-1", "end-1", "end-0"}, blockNames(fn))
}

func TestLower_VarargsExternCallLowersAllArgs(t *testing.T) {
	mod := lowerSource(t, `varargs extern func printf(&str): int; func f() { printf("x: %d", 1, 2); }`)
	require.Len(t, mod.ExternFunctions, 1)
	assert.True(t, mod.ExternFunctions[0].Varargs)
	fn := mod.Functions[0]
	entry := fn.Blocks[0]
	var call *ir.Instruction
	for i := range entry.Instructions {
		if entry.Instructions[i].Op == ir.OpCall {
			call = &entry.Instructions[i]
		}
	}
	require.NotNil(t, call)
	assert.Equal(t, "printf", call.Name)
	assert.Len(t, call.Args, 3)
}

func TestLower_StructLoweredWithFieldOrder(t *testing.T) {
	mod := lowerSource(t, `struct Point { x: int, y: int } func f() { var p = Point{x: 1, y: 2}; }`)
	require.Len(t, mod.Structs, 1)
	assert.Equal(t, "Point", mod.Structs[0].Name)
	require.Len(t, mod.Structs[0].Fields, 2)
	assert.Equal(t, "x", mod.Structs[0].Fields[0].Name)
	assert.Equal(t, "y", mod.Structs[0].Fields[1].Name)
}

func TestLower_GlobalConstantLowered(t *testing.T) {
	mod := lowerSource(t, `const MAX = 10; func f(): int { return MAX; }`)
	require.Len(t, mod.Globals, 1)
	assert.Equal(t, "MAX", mod.Globals[0].Name)
	assert.Equal(t, int64(10), mod.Globals[0].IntConst)
}

func TestLower_StringLiteralInterned(t *testing.T) {
	mod := lowerSource(t, `varargs extern func puts(&str): int; func f() { puts("hi"); puts("hi"); }`)
	assert.Equal(t, []string{"hi"}, mod.Strings)
}

func TestLower_NilLowersToConstNull(t *testing.T) {
	mod := lowerSource(t, `func f() { nil; }`)
	fn := mod.Functions[0]
	entry := fn.Blocks[0]
	require.Len(t, entry.Instructions, 1)
	assert.Equal(t, ir.OpConstNull, entry.Instructions[0].Op)
}

func TestLower_ReturnNilLowersToConstNull(t *testing.T) {
	mod := lowerSource(t, `func f() { return nil; }`)
	fn := mod.Functions[0]
	entry := fn.Blocks[0]
	require.Len(t, entry.Instructions, 1)
	assert.Equal(t, ir.OpConstNull, entry.Instructions[0].Op)
	require.Equal(t, ir.TermReturn, entry.Term.Kind)
	require.NotNil(t, entry.Term.Value)
	assert.Equal(t, 0, entry.Term.Value.Reg)
}
