// Package pipeline threads a single compilation through its phases —
// lex, parse, analyze, lower — each a Processor that reads and extends a
// shared PipelineContext. Diagnostics accumulate on the context; the
// driver (pkg/cli), not the Pipeline itself, decides whether a non-empty
// diagnostic list halts the run before the next phase (see
// internal/diagnostics and the driver's halt-and-render rule).
package pipeline

import (
	"github.com/azula-lang/azc/internal/ast"
	"github.com/azula-lang/azc/internal/diagnostics"
	"github.com/azula-lang/azc/internal/ir"
	"github.com/azula-lang/azc/internal/token"
)

// PipelineContext carries everything phases read and produce.
type PipelineContext struct {
	SessionID string
	Filename  string
	Source    string

	Tokens  []token.Token
	Program *ast.Program
	Module  *ir.Module

	Diagnostics []*diagnostics.Diagnostic
}

// AddDiagnostic appends a diagnostic produced by the currently running phase.
func (c *PipelineContext) AddDiagnostic(d *diagnostics.Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline runs a fixed sequence of Processors.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order. It never stops early on its own —
// callers that want the halt-between-phases behavior check
// ctx.Diagnostics between Pipeline.Run calls, one call per phase.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
	}
	return ctx
}
