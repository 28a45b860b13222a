package analyzer

import (
	"strconv"
	"strings"

	"github.com/azula-lang/azc/internal/ast"
	"github.com/azula-lang/azc/internal/diagnostics"
	"github.com/azula-lang/azc/internal/types"
)

// sizedIntRe-free parse: sized integer/float names follow a fixed
// "i<bits>" / "u<bits>" / "f<bits>" convention with no other digits
// allowed in a plain name, so a manual prefix check is enough here.
func parsePrimitiveName(name string) (types.Type, bool) {
	switch name {
	case "int":
		return types.IntT(), true
	case "float":
		return types.FloatT(), true
	case "bool":
		return types.BoolT(), true
	case "str":
		return types.StrT(), true
	case "void":
		return types.VoidT(), true
	}
	if bits, ok := sizedSuffix(name, "i"); ok {
		return types.SizedSigned(bits), true
	}
	if bits, ok := sizedSuffix(name, "u"); ok {
		return types.SizedUnsigned(bits), true
	}
	if bits, ok := sizedSuffix(name, "f"); ok {
		return types.SizedFl(bits), true
	}
	return types.Type{}, false
}

func sizedSuffix(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) <= len(prefix) {
		return 0, false
	}
	digits := name[len(prefix):]
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ResolveTypeExpr converts the syntax-level TypeExpr into the analyzer's
// resolved types.Type, looking up named non-primitive types against the
// collected struct table. Unknown names yield UnknownStruct.
func (a *Analyzer) ResolveTypeExpr(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.VoidT()
	}
	if te.Pointee != nil {
		return types.PointerTo(a.ResolveTypeExpr(te.Pointee))
	}
	if te.ArrayElem != nil {
		elem := a.ResolveTypeExpr(te.ArrayElem)
		return types.ArrayOf(elem, te.ArraySize)
	}
	if prim, ok := parsePrimitiveName(te.Name); ok {
		return prim
	}
	if _, ok := a.structs[te.Name]; ok {
		return types.NamedT(te.Name)
	}
	a.errorAt(te.Span, diagnostics.UnknownStruct, te.Name, "")
	return types.NamedT(te.Name)
}
