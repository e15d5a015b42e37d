package irbuilder

import (
	"github.com/holiman/uint256"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// maxWordWidth is the ceiling below which constant folding uses
// github.com/holiman/uint256's fixed 256-bit word directly, the same word
// size go-probeum's EVM interpreter folds arithmetic opcodes with. Operands
// or results wider than this are not folded by constBiop/constUnop; the
// caller emits a cell for them instead.
const maxWordWidth = 256

// bitsToWord packs width (<=256) LSB-first defined bits into a uint256.Int.
func bitsToWord(bits []svast.Bit) *uint256.Int {
	var buf [32]byte
	for i, b := range bits {
		if b != svast.Bit1 {
			continue
		}
		byteIdx := 31 - i/8
		buf[byteIdx] |= 1 << uint(i%8)
	}
	z := new(uint256.Int)
	z.SetBytes(buf[:])
	return z
}

// wordToBits unpacks the low `width` bits of z, LSB-first.
func wordToBits(z *uint256.Int, width int) []svast.Bit {
	b32 := z.Bytes32()
	out := make([]svast.Bit, width)
	for i := 0; i < width; i++ {
		byteIdx := 31 - i/8
		if b32[byteIdx]&(1<<uint(i%8)) != 0 {
			out[i] = svast.Bit1
		} else {
			out[i] = svast.Bit0
		}
	}
	return out
}

// signExtendBits sign- or zero-extends bits to n, used before handing
// values to uint256's signed (SDiv/SMod/SLt/SGt) operations which assume a
// full 256-bit two's complement word.
func signExtendBits(bits []svast.Bit, n int, signed bool) []svast.Bit {
	if len(bits) >= n {
		return bits[:n]
	}
	out := make([]svast.Bit, n)
	copy(out, bits)
	fill := svast.Bit0
	if signed && len(bits) > 0 && bits[len(bits)-1] == svast.Bit1 {
		fill = svast.Bit1
	}
	for i := len(bits); i < n; i++ {
		out[i] = fill
	}
	return out
}

// constBiop folds a binary arithmetic/bitwise operator over two fully
// defined constants of width <= maxWordWidth, returning the low yWidth
// bits of the mathematically correct result.
func constBiop(op BinOp, a, b []svast.Bit, aSigned, bSigned bool, yWidth int) ([]svast.Bit, bool) {
	if len(a) > maxWordWidth || len(b) > maxWordWidth || yWidth > maxWordWidth {
		return nil, false
	}
	width := yWidth
	if len(a) > width {
		width = len(a)
	}
	if len(b) > width {
		width = len(b)
	}
	az := bitsToWord(signExtendBits(a, width, aSigned))
	bz := bitsToWord(signExtendBits(b, width, bSigned))
	if (op == OpDivFloor || op == OpMod) && (aSigned || bSigned) {
		// SDiv/SMod read bit 255 as the sign, so signed operands are
		// extended across the whole word for these two.
		az = bitsToWord(signExtendBits(a, maxWordWidth, aSigned))
		bz = bitsToWord(signExtendBits(b, maxWordWidth, bSigned))
	}
	z := new(uint256.Int)
	switch op {
	case OpAdd:
		z.Add(az, bz)
	case OpSub:
		z.Sub(az, bz)
	case OpMul:
		z.Mul(az, bz)
	case OpDivFloor:
		if bz.IsZero() {
			return nil, false
		}
		if aSigned || bSigned {
			z.SDiv(az, bz)
			// SDiv truncates toward zero, but the cell this fold stands in
			// for is $divfloor: round toward negative infinity instead by
			// decrementing the quotient whenever the operands have opposite
			// signs and the division wasn't exact.
			rem := new(uint256.Int).SMod(az, bz)
			if !rem.IsZero() && (az.Sign() < 0) != (bz.Sign() < 0) {
				z.Sub(z, uint256.NewInt(1))
			}
		} else {
			z.Div(az, bz)
		}
	case OpMod:
		if bz.IsZero() {
			return nil, false
		}
		if aSigned || bSigned {
			z.SMod(az, bz)
		} else {
			z.Mod(az, bz)
		}
	case OpAnd:
		z.And(az, bz)
	case OpOr:
		z.Or(az, bz)
	case OpXor:
		z.Xor(az, bz)
	case OpXnor:
		z.Xor(az, bz)
		z.Not(z)
	case OpPow:
		z.Exp(az, bz)
	default:
		return nil, false
	}
	return wordToBits(z, yWidth), true
}

// constUnop folds a unary arithmetic operator.
func constUnop(op UnOp, a []svast.Bit, aSigned bool, yWidth int) ([]svast.Bit, bool) {
	if len(a) > maxWordWidth || yWidth > maxWordWidth {
		return nil, false
	}
	width := yWidth
	if len(a) > width {
		width = len(a)
	}
	az := bitsToWord(signExtendBits(a, width, aSigned))
	z := new(uint256.Int)
	switch op {
	case UnNeg:
		z.Sub(new(uint256.Int), az)
	case UnNot:
		z.Not(az)
	default:
		return nil, false
	}
	return wordToBits(z, yWidth), true
}

// constBitwiseX folds a bitwise and/or/xor/xnor over two constants that may
// carry X/Z bits (but no wire bits), using the three-valued lit algebra so
// e.g. 1&X folds to X and 0&X folds to the defined constant 0, instead of
// falling through to an emitted cell whenever either operand isn't fully
// defined.
func constBitwiseX(op BinOp, a, b []svast.Bit, yWidth int) ([]svast.Bit, bool) {
	width := yWidth
	if len(a) > width {
		width = len(a)
	}
	if len(b) > width {
		width = len(b)
	}
	al := signExtendBits(a, width, false)
	bl := signExtendBits(b, width, false)
	out := make([]svast.Bit, yWidth)
	for i := 0; i < yWidth; i++ {
		var l lit
		switch op {
		case OpAnd:
			l = litAnd(litOf(al[i]), litOf(bl[i]))
		case OpOr:
			l = litOr(litOf(al[i]), litOf(bl[i]))
		case OpXor:
			l = litXor(litOf(al[i]), litOf(bl[i]))
		case OpXnor:
			l = litXnor(litOf(al[i]), litOf(bl[i]))
		default:
			return nil, false
		}
		out[i] = litToBit(l)
	}
	return out, true
}

func litToBit(l lit) svast.Bit {
	switch l {
	case litTrue:
		return svast.Bit1
	case litFalse:
		return svast.Bit0
	default:
		return svast.BitX
	}
}

// bitsFromSignal reads the literal value of every bit of a wire-free Signal
// into a plain []svast.Bit.
func bitsFromSignal(s netlist.Signal) []svast.Bit {
	out := make([]svast.Bit, len(s))
	for i, b := range s {
		out[i] = b.Const
	}
	return out
}
