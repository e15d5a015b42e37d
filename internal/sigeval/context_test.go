package sigeval_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
)

func TestApplySubsRewritesOnlyMappedBits(t *testing.T) {
	ctx := newCtx(t)
	w := &netlist.Wire{ID: "\\a", Width: 2}
	ctx.Module.AddWire("\\a", w)
	repl := netlist.ConstBit(netlist.Bit1)
	ctx.Subs[w.Bit(0)] = repl

	sig := w.AsSignal()
	got := ctx.ApplySubs(sig)
	require.True(t, got[0].Equal(repl))
	require.True(t, got[1].Equal(w.Bit(1)))
}

func TestForkCopiesStateIndependently(t *testing.T) {
	ctx := newCtx(t)
	w := &netlist.Wire{ID: "\\a", Width: 1}
	ctx.Module.AddWire("\\a", w)
	ctx.Subs[w.Bit(0)] = netlist.ConstBit(netlist.Bit0)
	ctx.Args["x"] = netlist.Signal{netlist.ConstBit(netlist.Bit1)}

	child := ctx.Fork()
	child.Subs[w.Bit(0)] = netlist.ConstBit(netlist.Bit1)
	child.Args["y"] = netlist.Signal{netlist.ConstBit(netlist.Bit0)}

	require.True(t, ctx.Subs[w.Bit(0)].Equal(netlist.ConstBit(netlist.Bit0)))
	require.True(t, child.Subs[w.Bit(0)].Equal(netlist.ConstBit(netlist.Bit1)))
	_, parentHasY := ctx.Args["y"]
	require.False(t, parentHasY)
	require.Same(t, ctx.Module, child.Module)
	require.Equal(t, reflect.ValueOf(ctx.Wires).Pointer(), reflect.ValueOf(child.Wires).Pointer())
}
