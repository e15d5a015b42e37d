package netlist

import (
	"testing"

	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func constSignal(bits ...Bit) Signal {
	return FromConstant(svast.Constant{Bits: bits})
}

func TestSignalExtract(t *testing.T) {
	s := constSignal(Bit0, Bit1, BitX, Bit1)
	got := s.Extract(1, 3)
	want := constSignal(Bit1, BitX)
	if len(got) != len(want) {
		t.Fatalf("got width %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Fatalf("bit %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSignalZeroExtend(t *testing.T) {
	s := constSignal(Bit1, Bit0)
	got := s.ZeroExtend(4)
	if got.Width() != 4 {
		t.Fatalf("expected width 4, got %d", got.Width())
	}
	if got[2].Const != Bit0 || got[3].Const != Bit0 {
		t.Fatalf("expected zero-filled high bits, got %v", got)
	}
	// truncation
	trunc := s.ZeroExtend(1)
	if trunc.Width() != 1 || trunc[0].Const != Bit1 {
		t.Fatalf("expected truncation to keep only bit 0, got %v", trunc)
	}
}

func TestSignalSignExtend(t *testing.T) {
	s := constSignal(Bit0, Bit1)
	got := s.SignExtend(4)
	if got.Width() != 4 {
		t.Fatalf("expected width 4, got %d", got.Width())
	}
	for i := 2; i < 4; i++ {
		if got[i].Const != Bit1 {
			t.Fatalf("expected sign-filled bit %d to be 1, got %v", i, got[i].Const)
		}
	}
}

func TestConcatOrdersLeftmostOperandMostSignificant(t *testing.T) {
	// {2'b01, 1'b1} should read: leftmost operand (2'b01) most significant.
	left := constSignal(Bit1, Bit0)
	right := constSignal(Bit1)
	got := Concat(left, right)
	want := constSignal(Bit1, Bit1, Bit0)
	if got.Width() != want.Width() {
		t.Fatalf("got width %d, want %d", got.Width(), want.Width())
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Fatalf("bit %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIsFullyConstVsIsFullyDefinedConst(t *testing.T) {
	allX := constSignal(BitX, Bit1)
	if !allX.IsFullyConst() {
		t.Fatalf("expected signal of literals to be fully const")
	}
	if allX.IsFullyDefinedConst() {
		t.Fatalf("expected X bit to fail IsFullyDefinedConst")
	}

	w := &Wire{Width: 1}
	withWire := Signal{w.Bit(0), ConstBit(Bit1)}
	if withWire.IsFullyConst() {
		t.Fatalf("expected a wire-referencing signal to not be fully const")
	}
}

func TestAsConstantPanicsOnWireBits(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected AsConstant to panic on a wire-referencing signal")
		}
	}()
	w := &Wire{Width: 1}
	_ = Signal{w.Bit(0)}.AsConstant()
}

func TestWireAsSignalCoversFullWidth(t *testing.T) {
	w := &Wire{ID: "w", Width: 3}
	sig := w.AsSignal()
	if sig.Width() != 3 {
		t.Fatalf("expected width 3, got %d", sig.Width())
	}
	for i, b := range sig {
		if !b.IsWire || b.Wire != w || b.WireBit != i {
			t.Fatalf("bit %d: expected wire ref (w, %d), got %+v", i, i, b)
		}
	}
}

func TestSigBitEqualByIdentityNotValue(t *testing.T) {
	w1 := &Wire{Width: 1}
	w2 := &Wire{Width: 1}
	b1 := w1.Bit(0)
	b1Again := w1.Bit(0)
	b2 := w2.Bit(0)
	if !b1.Equal(b1Again) {
		t.Fatalf("expected same wire bit to be Equal")
	}
	if b1.Equal(b2) {
		t.Fatalf("expected different wires' bit 0 to not be Equal")
	}
	if !ConstBit(Bit1).Equal(ConstBit(Bit1)) {
		t.Fatalf("expected equal constants to be Equal")
	}
}
