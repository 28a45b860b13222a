package ir

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders the canonical textual IR dump consumed by --print-ir:
// module header, interned strings, then one section per function listing
// its arguments, locals, and blocks in order.
func (m *Module) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Module: %s\n", m.Name)

	if len(m.Strings) > 0 {
		fmt.Fprintln(w, "Strings:")
		for i, s := range m.Strings {
			fmt.Fprintf(w, "  %d: %q\n", i, s)
		}
	}

	if len(m.Structs) > 0 {
		fmt.Fprintln(w, "Structs:")
		for _, s := range m.Structs {
			fmt.Fprintf(w, "  %s:\n", s.Name)
			for _, f := range s.Fields {
				fmt.Fprintf(w, "    %s: %s\n", f.Name, f.Type.String())
			}
		}
	}

	if len(m.Globals) > 0 {
		fmt.Fprintln(w, "Globals:")
		for _, g := range m.Globals {
			fmt.Fprintf(w, "  %s: %s = %s\n", g.Name, g.Type.String(), formatGlobalConst(g))
		}
	}

	for _, ext := range m.ExternFunctions {
		fmt.Fprintf(w, "Extern: %s(", ext.Name)
		for i, t := range ext.Args {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, t.String())
		}
		if ext.Varargs {
			fmt.Fprint(w, ", ...")
		}
		fmt.Fprintf(w, "): %s\n", ext.Returns.String())
	}

	for _, fn := range m.Functions {
		writeFunction(w, fn)
	}
}

func formatGlobalConst(g Global) string {
	switch {
	case g.IsString:
		return fmt.Sprintf("%d", g.StrConst)
	case g.IsFloat:
		return fmt.Sprintf("%v", g.FloatConst)
	case g.IsBool:
		return fmt.Sprintf("%v", g.BoolConst)
	default:
		return fmt.Sprintf("%d", g.IntConst)
	}
}

func writeFunction(w io.Writer, f *Function) {
	fmt.Fprintf(w, "Function: %s\n", f.Name)
	fmt.Fprint(w, "  Arguments:\n")
	for _, a := range f.Args {
		fmt.Fprintf(w, "    %s: %s\n", a.Name, a.Type.String())
	}
	fmt.Fprintf(w, "  Returns: %s\n", f.Returns.String())
	if len(f.Locals) > 0 {
		fmt.Fprint(w, "  Variables:\n")
		for name, t := range f.Locals {
			fmt.Fprintf(w, "    %s: %s\n", name, t.String())
		}
	}
	for _, b := range f.Blocks {
		writeBlock(w, b)
	}
}

func writeBlock(w io.Writer, b *Block) {
	fmt.Fprintf(w, "  %s:\n", b.Name)
	for _, instr := range b.Instructions {
		fmt.Fprintf(w, "    %s\n", formatInstruction(instr))
	}
	fmt.Fprintf(w, "    %s\n", formatTerminator(b.Term))
}

func formatValue(v Value) string {
	if v.IsArg {
		return "%" + v.Arg
	}
	return fmt.Sprintf("$%d", v.Reg)
}

func formatArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatValue(a)
	}
	return strings.Join(parts, ", ")
}

var opNames = map[Op]string{
	OpConstInt: "const.int", OpConstFloat: "const.float", OpConstBool: "const.bool",
	OpConstString: "const.str", OpConstNull: "const.null", OpLoad: "load", OpStore: "store",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod", OpPower: "pow",
	OpAnd: "and", OpOr: "or", OpEq: "eq", OpNeq: "neq",
	OpLt: "lt", OpLte: "lte", OpGt: "gt", OpGte: "gte",
	OpNot: "not", OpAddrOf: "addrof", OpCall: "call",
	OpArrayNew: "array.new", OpArrayGet: "array.get", OpArraySet: "array.set",
	OpStructNew: "struct.new", OpStructGetField: "struct.get", OpStructSetField: "struct.set",
}

func formatInstruction(i Instruction) string {
	name := opNames[i.Op]
	dest := ""
	if i.HasDest {
		dest = fmt.Sprintf("$%d = ", i.Dest)
	}
	switch i.Op {
	case OpConstInt:
		return fmt.Sprintf("%s%s %d", dest, name, i.IntConst)
	case OpConstFloat:
		return fmt.Sprintf("%s%s %v", dest, name, i.FloatConst)
	case OpConstBool:
		return fmt.Sprintf("%s%s %v", dest, name, i.BoolConst)
	case OpConstString:
		return fmt.Sprintf("%s%s %d", dest, name, i.StrConst)
	case OpConstNull:
		return fmt.Sprintf("%s%s", dest, name)
	case OpLoad:
		return fmt.Sprintf("%s%s %s", dest, name, i.Name)
	case OpStore:
		return fmt.Sprintf("%s %s = %s", name, i.Name, formatArgs(i.Args))
	case OpCall:
		return fmt.Sprintf("%s%s %s(%s)", dest, name, i.Name, formatArgs(i.Args))
	case OpStructNew:
		return fmt.Sprintf("%s%s %s(%s)", dest, name, i.Name, formatArgs(i.Args))
	case OpStructGetField, OpStructSetField:
		return fmt.Sprintf("%s%s %s.%s", dest, name, formatArgs(i.Args[:1]), i.Name)
	default:
		return fmt.Sprintf("%s%s %s", dest, name, formatArgs(i.Args))
	}
}

func formatTerminator(t Terminator) string {
	switch t.Kind {
	case TermReturn:
		if t.Value == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", formatValue(*t.Value))
	case TermJump:
		return fmt.Sprintf("jump %s", t.Target)
	case TermJcond:
		return fmt.Sprintf("jcond %s, %s, %s", formatValue(t.Cond), t.TrueTarget, t.FalseTarget)
	default:
		return "?"
	}
}
