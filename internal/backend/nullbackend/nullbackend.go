// Package nullbackend implements backend.Backend by checking a set of
// structural properties of the IR (listed on Codegen) and writing no
// output. It exists so a bare `azc build` without a
// configured backend still exercises the full pipeline and catches a
// lowering bug before it ever reaches a real backend.
package nullbackend

import (
	"context"
	"fmt"

	"github.com/azula-lang/azc/internal/backend"
	"github.com/azula-lang/azc/internal/ir"
)

type Backend struct{}

func New() *Backend { return &Backend{} }

func (*Backend) Name() string { return "null" }

// Codegen walks module and returns the first invariant violation found:
// every jump/jcond target names a block of the same function, every
// referenced string index is in range, and every call target resolves
// to a known function. A block whose terminator was never set carries
// the zero value, a bare return, and is not reported.
func (*Backend) Codegen(ctx context.Context, opts backend.Options, module *ir.Module) error {
	known := make(map[string]bool)
	for _, fn := range module.Functions {
		known[fn.Name] = true
	}
	for _, ext := range module.ExternFunctions {
		known[ext.Name] = true
	}

	for _, fn := range module.Functions {
		if err := ctx.Err(); err != nil {
			return err
		}
		blockNames := make(map[string]bool)
		for _, b := range fn.Blocks {
			blockNames[b.Name] = true
		}
		for _, b := range fn.Blocks {
			if err := checkTerminator(fn.Name, b, blockNames); err != nil {
				return err
			}
			for _, instr := range b.Instructions {
				if instr.Op == ir.OpConstString && instr.StrConst >= len(module.Strings) {
					return fmt.Errorf("nullbackend: function %s: string constant %d out of range", fn.Name, instr.StrConst)
				}
				if instr.Op == ir.OpCall && !known[instr.Name] {
					return fmt.Errorf("nullbackend: function %s: call to unknown function %q", fn.Name, instr.Name)
				}
			}
		}
	}
	return nil
}

func checkTerminator(fnName string, b *ir.Block, blockNames map[string]bool) error {
	switch b.Term.Kind {
	case ir.TermJump:
		if !blockNames[b.Term.Target] {
			return fmt.Errorf("nullbackend: function %s: block %s jumps to unknown block %q", fnName, b.Name, b.Term.Target)
		}
	case ir.TermJcond:
		if !blockNames[b.Term.TrueTarget] || !blockNames[b.Term.FalseTarget] {
			return fmt.Errorf("nullbackend: function %s: block %s has a conditional jump to an unknown block", fnName, b.Name)
		}
	case ir.TermReturn:
		// always valid
	default:
		return fmt.Errorf("nullbackend: function %s: block %s has no terminator", fnName, b.Name)
	}
	return nil
}
