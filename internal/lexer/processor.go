package lexer

import (
	"github.com/azula-lang/azc/internal/pipeline"
)

// Processor is the lex phase of the compilation pipeline. The lexer never
// reports diagnostics itself (spec: "lexer never fails"); it just
// materializes the token stream for the parser to consume.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Tokens = All(ctx.Source)
	return ctx
}
