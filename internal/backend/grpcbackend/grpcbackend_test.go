package grpcbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azula-lang/azc/internal/backend"
	"github.com/azula-lang/azc/internal/ir"
	"github.com/azula-lang/azc/internal/types"
)

func TestBuildRequest_SummarizesModuleAndOptions(t *testing.T) {
	m := ir.NewModule("demo", "sess-1")
	m.ExternFunctions = append(m.ExternFunctions, &ir.ExternFunction{Name: "puts", Returns: types.IntT()})
	m.Structs = append(m.Structs, &ir.StructDef{Name: "Point"})
	m.AddString("hi")
	fn := ir.NewFunction("main", nil, types.VoidT())
	fn.Return(nil)
	m.Functions = append(m.Functions, fn)

	opts := backend.Options{
		SessionID:        "sess-1",
		DestinationDir:   "out",
		TargetTriple:     "x86_64",
		Opt:              backend.OptSpeed,
		EmitIntermediate: true,
	}

	req, err := buildRequest(opts, m)
	require.NoError(t, err)
	fields := req.GetFields()

	assert.Equal(t, "sess-1", fields["session_id"].GetStringValue())
	assert.Equal(t, "demo", fields["module_name"].GetStringValue())
	assert.Equal(t, "out", fields["destination_dir"].GetStringValue())
	assert.Equal(t, "x86_64", fields["target_triple"].GetStringValue())
	assert.Equal(t, float64(backend.OptSpeed), fields["opt_level"].GetNumberValue())
	assert.True(t, fields["emit_intermediate"].GetBoolValue())
	assert.Equal(t, float64(1), fields["extern_count"].GetNumberValue())
	assert.Equal(t, float64(1), fields["struct_count"].GetNumberValue())
	assert.Equal(t, float64(1), fields["string_count"].GetNumberValue())

	functions := fields["functions"].GetListValue().GetValues()
	require.Len(t, functions, 1)
	assert.Equal(t, "main", functions[0].GetStringValue())
}

func TestBuildRequest_EmptyModule(t *testing.T) {
	m := ir.NewModule("empty", "sess-2")
	req, err := buildRequest(backend.Options{}, m)
	require.NoError(t, err)
	fields := req.GetFields()
	assert.Equal(t, float64(0), fields["extern_count"].GetNumberValue())
	assert.Empty(t, fields["functions"].GetListValue().GetValues())
}

func TestName(t *testing.T) {
	assert.Equal(t, "grpc", New("127.0.0.1:9000").Name())
}
