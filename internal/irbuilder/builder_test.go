package irbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	m := netlist.NewModule("test", srcloc.None)
	return New(m, netlist.NewIDAllocator())
}

func bits(vals ...netlist.Bit) netlist.Signal {
	return netlist.FromConstant(svast.Constant{Bits: vals})
}

func TestAddFoldsConstants(t *testing.T) {
	b := newTestBuilder(t)
	// 2'b01 + 2'b01 = 2'b10, LSB first.
	a := bits(netlist.Bit1, netlist.Bit0)
	c := bits(netlist.Bit1, netlist.Bit0)

	sum := b.Add(a, c, false, false, 2, srcloc.None)
	require.True(t, sum.IsFullyDefinedConst())

	got := sum.AsConstant()
	want := []netlist.Bit{netlist.Bit0, netlist.Bit1}
	require.Equal(t, want, got.Bits)
}

func TestAndPropagatesX(t *testing.T) {
	b := newTestBuilder(t)
	a := bits(netlist.Bit1, netlist.BitX)
	c := bits(netlist.Bit1, netlist.Bit1)

	out := b.And(a, c, 2, srcloc.None)
	require.True(t, out.IsFullyConst())
	require.False(t, out.IsFullyDefinedConst())

	got := out.AsConstant()
	require.Equal(t, netlist.Bit1, got.Bits[0])
	require.Equal(t, netlist.BitX, got.Bits[1])
}

func TestEqOnEqualConstantsIsTrue(t *testing.T) {
	b := newTestBuilder(t)
	a := bits(netlist.Bit1, netlist.Bit0)
	c := bits(netlist.Bit1, netlist.Bit0)

	out := b.Eq(a, c, srcloc.None)
	require.Equal(t, 1, out.Width())
	require.Equal(t, netlist.Bit1, out.AsConstant().Bits[0])
}

func TestNonConstantOperandProducesCell(t *testing.T) {
	b := newTestBuilder(t)
	w := &netlist.Wire{Width: 2}
	b.Module.AddWire("w", w)

	out := b.And(w.AsSignal(), bits(netlist.Bit1, netlist.Bit1), 2, srcloc.None)
	if out.IsFullyConst() {
		t.Fatalf("expected a wire operand to prevent constant folding")
	}
	if len(b.Module.Cells) != 1 {
		t.Fatalf("expected one and cell to be emitted, got %d", len(b.Module.Cells))
	}
}
