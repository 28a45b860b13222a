package nullbackend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azula-lang/azc/internal/backend"
	"github.com/azula-lang/azc/internal/ir"
	"github.com/azula-lang/azc/internal/types"
)

func validModule() *ir.Module {
	m := ir.NewModule("m", "s")
	fn := ir.NewFunction("main", nil, types.VoidT())
	fn.Return(nil)
	m.Functions = append(m.Functions, fn)
	return m
}

func TestCodegen_ValidModulePasses(t *testing.T) {
	b := New()
	err := b.Codegen(context.Background(), backend.Options{}, validModule())
	require.NoError(t, err)
}

func TestCodegen_JumpToUnknownBlockFails(t *testing.T) {
	m := ir.NewModule("m", "s")
	fn := ir.NewFunction("f", nil, types.VoidT())
	fn.Jump("nowhere")
	m.Functions = append(m.Functions, fn)

	b := New()
	err := b.Codegen(context.Background(), backend.Options{}, m)
	assert.Error(t, err)
}

func TestCodegen_JcondToUnknownBlockFails(t *testing.T) {
	m := ir.NewModule("m", "s")
	fn := ir.NewFunction("f", nil, types.VoidT())
	cond := fn.ConstBool(true)
	fn.Jcond(cond, "nowhere", "entry")
	m.Functions = append(m.Functions, fn)

	b := New()
	err := b.Codegen(context.Background(), backend.Options{}, m)
	assert.Error(t, err)
}

func TestCodegen_JumpToEmptyBlockNameFails(t *testing.T) {
	m := ir.NewModule("m", "s")
	fn := ir.NewFunction("f", nil, types.VoidT())
	// A block with no terminator set keeps the zero-value Terminator,
	// whose Kind (TermReturn == 0) reads as a bare return and passes; a
	// jump whose target names no block is what this case exercises.
	fn.Jump("")
	m.Functions = append(m.Functions, fn)

	b := New()
	err := b.Codegen(context.Background(), backend.Options{}, m)
	assert.Error(t, err)
}

func TestCodegen_CallToUnknownFunctionFails(t *testing.T) {
	m := ir.NewModule("m", "s")
	fn := ir.NewFunction("f", nil, types.IntT())
	v := fn.Call("missing", nil, types.IntT())
	fn.Return(&v)
	m.Functions = append(m.Functions, fn)

	b := New()
	err := b.Codegen(context.Background(), backend.Options{}, m)
	assert.Error(t, err)
}

func TestCodegen_StringConstantOutOfRangeFails(t *testing.T) {
	m := ir.NewModule("m", "s")
	fn := ir.NewFunction("f", nil, types.StrT())
	v := fn.ConstString(5) // no strings interned
	fn.Return(&v)
	m.Functions = append(m.Functions, fn)

	b := New()
	err := b.Codegen(context.Background(), backend.Options{}, m)
	assert.Error(t, err)
}

func TestCodegen_CallToKnownExternPasses(t *testing.T) {
	m := ir.NewModule("m", "s")
	m.ExternFunctions = append(m.ExternFunctions, &ir.ExternFunction{Name: "puts", Returns: types.IntT()})
	fn := ir.NewFunction("f", nil, types.IntT())
	v := fn.Call("puts", nil, types.IntT())
	fn.Return(&v)
	m.Functions = append(m.Functions, fn)

	b := New()
	err := b.Codegen(context.Background(), backend.Options{}, m)
	require.NoError(t, err)
}

func TestName(t *testing.T) {
	assert.Equal(t, "null", New().Name())
}
