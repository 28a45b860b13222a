package parser

import "github.com/azula-lang/azc/internal/pipeline"

// Processor is the parse phase of the compilation pipeline.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	p := New(ctx.Tokens, ctx)
	ctx.Program = p.ParseProgram()
	return ctx
}
