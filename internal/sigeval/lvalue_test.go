package sigeval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func TestEvaluateLHSNamedValueIgnoresSubs(t *testing.T) {
	ctx := newCtx(t)
	w := &netlist.Wire{ID: "\\a", Width: 2}
	ctx.Module.AddWire("\\a", w)
	sym := &svast.VariableSymbol{}
	ctx.Wires[sym] = w
	// A live substitution for bit 0 must not leak into the lvalue lowering;
	// EvaluateLHS is documented to never apply ctx.Subs.
	ctx.Subs[w.Bit(0)] = netlist.ConstBit(netlist.Bit1)

	e := &svast.NamedValueExpr{Kind: svast.SymbolVariable, Symbol: sym}
	e.Typ = svast.Type{Width: 2}

	got := sigeval.EvaluateLHS(ctx, e)
	require.True(t, got[0].IsWire)
	require.Equal(t, w, got[0].Wire)
}

func TestEvaluateLHSConcatOrdersOperands(t *testing.T) {
	ctx := newCtx(t)
	wa := &netlist.Wire{ID: "\\a", Width: 1}
	wb := &netlist.Wire{ID: "\\b", Width: 1}
	ctx.Module.AddWire("\\a", wa)
	ctx.Module.AddWire("\\b", wb)
	symA := &svast.NetSymbol{}
	symB := &svast.NetSymbol{}
	ctx.Wires[symA] = wa
	ctx.Wires[symB] = wb

	left := &svast.NamedValueExpr{Kind: svast.SymbolNet, Symbol: symA}
	left.Typ = svast.Type{Width: 1}
	right := &svast.NamedValueExpr{Kind: svast.SymbolNet, Symbol: symB}
	right.Typ = svast.Type{Width: 1}

	e := &svast.ConcatExpr{Operands: []svast.Expr{left, right}}
	e.Typ = svast.Type{Width: 2}

	got := sigeval.EvaluateLHS(ctx, e)
	require.Equal(t, 2, got.Width())
	require.Equal(t, wb, got[0].Wire)
	require.Equal(t, wa, got[1].Wire)
}
