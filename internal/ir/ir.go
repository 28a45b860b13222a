// Package ir defines the basic-block structured intermediate
// representation produced by internal/lower: a flat register machine
// with monotonically increasing virtual registers and exactly one
// terminator per block.
package ir

import (
	"strconv"

	"github.com/azula-lang/azc/internal/types"
)

// Op identifies an IR instruction's operation.
type Op int

const (
	OpConstInt Op = iota
	OpConstFloat
	OpConstBool
	OpConstString
	OpConstNull
	OpLoad     // load a local/arg by name
	OpStore    // store into a local by name
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPower
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpNot
	OpAddrOf
	OpCall
	OpArrayNew
	OpArrayGet
	OpArraySet
	OpStructNew
	OpStructGetField
	OpStructSetField
)

// Value is an operand: either a virtual register produced by some
// instruction, or a function argument read by name.
type Value struct {
	IsArg bool
	Reg   int
	Arg   string
}

func Reg(n int) Value    { return Value{Reg: n} }
func ArgVal(n string) Value { return Value{IsArg: true, Arg: n} }

// Instruction is one non-terminating operation in a Block, producing a
// value in Dest (when it has one — Store/ArraySet/StructSetField don't).
type Instruction struct {
	Op       Op
	Dest     int // virtual register written, valid when HasDest
	HasDest  bool
	Type     types.Type
	Args     []Value
	IntConst int64
	FloatConst float64
	BoolConst  bool
	StrConst   int // index into Module.Strings
	Name       string // local name for Load/Store; field name for struct ops; callee for Call
}

// TermKind discriminates a Block's terminator.
type TermKind int

const (
	TermReturn TermKind = iota
	TermJump
	TermJcond
)

// Terminator ends every Block exactly once.
type Terminator struct {
	Kind      TermKind
	Value     *Value // TermReturn: nil for void
	Target    string // TermJump
	Cond      Value  // TermJcond
	TrueTarget  string
	FalseTarget string
}

// Block is a single-entry, single-exit sequence of instructions followed
// by exactly one Terminator.
type Block struct {
	Name         string
	Instructions []Instruction
	Term         Terminator
}

// Function is one lowered function body.
type Function struct {
	Name      string
	Args      []Arg
	Returns   types.Type
	Locals    map[string]types.Type
	Blocks    []*Block

	tmpCounter   int
	blockCounter int
	current      *Block
}

type Arg struct {
	Name string
	Type types.Type
}

// ExternFunction is a declared-only external symbol with no body.
type ExternFunction struct {
	Name    string
	Args    []types.Type
	Returns types.Type
	Varargs bool
}

// StructDef mirrors analyzer.StructDef at the IR layer, field order
// preserved for layout purposes.
type StructDef struct {
	Name   string
	Fields []StructFieldDef
}

type StructFieldDef struct {
	Name string
	Type types.Type
}

// Module is the top-level lowering artifact for one compiled source
// file: the textual form a --print-ir run emits, and the payload handed
// to a Backend.
type Module struct {
	Name string

	// SessionID correlates this compilation with the compile-history
	// record and any remote backend request; it carries no semantic
	// weight in the IR itself.
	SessionID string

	Functions       []*Function
	ExternFunctions []*ExternFunction
	Structs         []*StructDef
	Strings         []string
	Globals         []Global
}

// Global is a top-level constant binding lowered out of an
// ast.AssignStatement.
type Global struct {
	Name string
	Type types.Type
	// Only literal forms reach here (enforced by the parser/analyzer),
	// so a single constant payload slot covers every global.
	IntConst    int64
	FloatConst  float64
	BoolConst   bool
	StrConst    int
	IsString    bool
	IsFloat     bool
	IsBool      bool
}

func NewModule(name, sessionID string) *Module {
	return &Module{Name: name, SessionID: sessionID}
}

// AddString interns s and returns its index into Module.Strings.
func (m *Module) AddString(s string) int {
	for i, existing := range m.Strings {
		if existing == s {
			return i
		}
	}
	m.Strings = append(m.Strings, s)
	return len(m.Strings) - 1
}

func NewFunction(name string, args []Arg, returns types.Type) *Function {
	f := &Function{Name: name, Args: args, Returns: returns, Locals: make(map[string]types.Type)}
	entry := &Block{Name: "entry"}
	f.Blocks = append(f.Blocks, entry)
	f.current = entry
	return f
}

// CurrentBlock returns the block new instructions append to.
func (f *Function) CurrentBlock() *Block { return f.current }

// SetCurrentBlock switches the append target (used when lowering control
// flow that opens a new block mid-function, e.g. if/while bodies).
func (f *Function) SetCurrentBlock(b *Block) { f.current = b }

// NewBlock allocates and appends a fresh block with an auto-generated
// name, without making it current.
func (f *Function) NewBlock(prefix string) *Block {
	name := prefix + strconv.Itoa(f.blockCounter)
	f.blockCounter++
	b := &Block{Name: name}
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewNamedBlock appends a block with an exact name (no counter suffix),
// used for if/while lowering where the counter is shared across the
// whole construct (true-N / end-N, eval-N / loop-N / end-N).
func (f *Function) NewNamedBlock(name string) *Block {
	b := &Block{Name: name}
	f.Blocks = append(f.Blocks, b)
	return b
}

// NextIfIndex returns the next index in the shared if/while block-naming
// counter and advances it.
func (f *Function) NextIfIndex() int {
	n := f.blockCounter
	f.blockCounter++
	return n
}

func (f *Function) nextReg() int {
	r := f.tmpCounter
	f.tmpCounter++
	return r
}

func (f *Function) emit(instr Instruction) Value {
	instr.Dest = f.nextReg()
	instr.HasDest = true
	f.current.Instructions = append(f.current.Instructions, instr)
	return Reg(instr.Dest)
}

func (f *Function) emitVoid(instr Instruction) {
	f.current.Instructions = append(f.current.Instructions, instr)
}

// ---- builder methods, one per opcode family, mirroring the
// load/store/const/binop builder pattern of the lowering pass. ----

func (f *Function) ConstInt(v int64) Value {
	return f.emit(Instruction{Op: OpConstInt, IntConst: v, Type: types.IntT()})
}

func (f *Function) ConstFloat(v float64) Value {
	return f.emit(Instruction{Op: OpConstFloat, FloatConst: v, Type: types.FloatT()})
}

func (f *Function) ConstBool(v bool) Value {
	return f.emit(Instruction{Op: OpConstBool, BoolConst: v, Type: types.BoolT()})
}

func (f *Function) ConstString(idx int) Value {
	return f.emit(Instruction{Op: OpConstString, StrConst: idx, Type: types.StrT()})
}

// ConstNull lowers the nil literal, typed Void per the checker.
func (f *Function) ConstNull() Value {
	return f.emit(Instruction{Op: OpConstNull, Type: types.VoidT()})
}

func (f *Function) Load(name string, t types.Type) Value {
	return f.emit(Instruction{Op: OpLoad, Name: name, Type: t})
}

func (f *Function) Store(name string, v Value, t types.Type) {
	f.Locals[name] = t
	f.emitVoid(Instruction{Op: OpStore, Name: name, Args: []Value{v}, Type: t})
}

func (f *Function) binop(op Op, l, r Value, t types.Type) Value {
	return f.emit(Instruction{Op: op, Args: []Value{l, r}, Type: t})
}

func (f *Function) Add(l, r Value, t types.Type) Value   { return f.binop(OpAdd, l, r, t) }
func (f *Function) Sub(l, r Value, t types.Type) Value   { return f.binop(OpSub, l, r, t) }
func (f *Function) Mul(l, r Value, t types.Type) Value   { return f.binop(OpMul, l, r, t) }
func (f *Function) Div(l, r Value, t types.Type) Value   { return f.binop(OpDiv, l, r, t) }
func (f *Function) Mod(l, r Value, t types.Type) Value   { return f.binop(OpMod, l, r, t) }
func (f *Function) Power(l, r Value, t types.Type) Value { return f.binop(OpPower, l, r, t) }
func (f *Function) And(l, r Value) Value                 { return f.binop(OpAnd, l, r, types.BoolT()) }
func (f *Function) Or(l, r Value) Value                  { return f.binop(OpOr, l, r, types.BoolT()) }
func (f *Function) Eq(l, r Value) Value                  { return f.binop(OpEq, l, r, types.BoolT()) }
func (f *Function) Neq(l, r Value) Value                 { return f.binop(OpNeq, l, r, types.BoolT()) }
func (f *Function) Lt(l, r Value) Value                  { return f.binop(OpLt, l, r, types.BoolT()) }
func (f *Function) Lte(l, r Value) Value                 { return f.binop(OpLte, l, r, types.BoolT()) }
func (f *Function) Gt(l, r Value) Value                  { return f.binop(OpGt, l, r, types.BoolT()) }
func (f *Function) Gte(l, r Value) Value                 { return f.binop(OpGte, l, r, types.BoolT()) }

func (f *Function) Not(v Value) Value {
	return f.emit(Instruction{Op: OpNot, Args: []Value{v}, Type: types.BoolT()})
}

func (f *Function) AddrOf(v Value, t types.Type) Value {
	return f.emit(Instruction{Op: OpAddrOf, Args: []Value{v}, Type: t})
}

func (f *Function) Call(callee string, args []Value, t types.Type) Value {
	return f.emit(Instruction{Op: OpCall, Name: callee, Args: args, Type: t})
}

func (f *Function) ArrayNew(elems []Value, t types.Type) Value {
	return f.emit(Instruction{Op: OpArrayNew, Args: elems, Type: t})
}

func (f *Function) ArrayGet(arr, idx Value, t types.Type) Value {
	return f.emit(Instruction{Op: OpArrayGet, Args: []Value{arr, idx}, Type: t})
}

func (f *Function) ArraySet(arr, idx, val Value) {
	f.emitVoid(Instruction{Op: OpArraySet, Args: []Value{arr, idx, val}})
}

func (f *Function) StructNew(name string, fieldVals []Value, t types.Type) Value {
	return f.emit(Instruction{Op: OpStructNew, Name: name, Args: fieldVals, Type: t})
}

func (f *Function) StructGetField(structVal Value, field string, t types.Type) Value {
	return f.emit(Instruction{Op: OpStructGetField, Name: field, Args: []Value{structVal}, Type: t})
}

func (f *Function) StructSetField(structVal Value, field string, val Value) {
	f.emitVoid(Instruction{Op: OpStructSetField, Name: field, Args: []Value{structVal, val}})
}

// ---- terminators ----

func (f *Function) Return(v *Value) {
	f.current.Term = Terminator{Kind: TermReturn, Value: v}
}

func (f *Function) Jump(target string) {
	f.current.Term = Terminator{Kind: TermJump, Target: target}
}

func (f *Function) Jcond(cond Value, trueTarget, falseTarget string) {
	f.current.Term = Terminator{Kind: TermJcond, Cond: cond, TrueTarget: trueTarget, FalseTarget: falseTarget}
}
