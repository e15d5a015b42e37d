package proclower

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// LowerAssignment implements this six-step assignment handling for
// one AssignmentExpr used as a statement.
func (l *Lowerer) LowerAssignment(a *svast.AssignmentExpr) {
	loc := a.Location()

	// Step 1.
	rvalue := sigeval.EvaluateRHS(l.Ctx, a.Right)

	// Step 2: etch the lvalue.
	mask, padded, base := l.etch(a.Left, rvalue)

	// Step 3: evaluate the remaining base as lvalue, then crop bits where
	// mask is a provable constant zero.
	lvalue := sigeval.EvaluateLHS(l.Ctx, base)
	if len(lvalue) != len(mask) {
		diag.Internal("etched mask width %d does not match base lvalue width %d", len(mask), len(lvalue))
	}
	lvalue, mask, padded = cropToMask(lvalue, mask, padded)
	if len(lvalue) == 0 {
		diag.Semantic(loc, "assignment writes no bits")
	}

	// Step 4.
	var masked netlist.Signal
	if isAllOnesMask(mask) {
		masked = padded
	} else {
		sampled := l.Ctx.ApplySubs(lvalue)
		masked = l.Ctx.Builder.Bwmux(sampled, padded, mask, loc)
	}

	// Step 5.
	for i, bit := range lvalue {
		if a.NonBlocking {
			if l.AssignedBlocking[bit] {
				diag.Semantic(loc, "bit already has a blocking assignment in this process")
			}
			l.AssignedNonblocking[bit] = true
		} else {
			if l.AssignedNonblocking[bit] {
				diag.Semantic(loc, "bit already has a nonblocking assignment in this process")
			}
			l.AssignedBlocking[bit] = true
			l.Ctx.Subs[bit] = masked[i]
		}
	}

	// Step 6.
	staged := l.stagingSignal(lvalue)
	l.Cur.AddAction(staged, masked)
}

// etch peels outer RangeSelect/ElementSelect/MemberAccess layers from expr,
// accumulating a mask (bits-to-write) and a padded rvalue (X elsewhere),
// each grown to the width of the sub-lvalue currently being peeled. It
// stops at the first node kind evaluate_lhs itself understands and returns
// that as base.
func (l *Lowerer) etch(expr svast.Expr, rvalue netlist.Signal) (mask, padded netlist.Signal, base svast.Expr) {
	mask = onesMask(len(rvalue))
	padded = rvalue
	cur := expr

	for {
		switch e := cur.(type) {
		case *svast.RangeSelectExpr:
			left, ok1 := sigeval.ConstantInt(e.Left)
			right, ok2 := sigeval.ConstantInt(e.Right)
			if !ok1 || !ok2 {
				diag.Semantic(e.Location(), "non-constant range bounds on an assignment target")
			}
			total := e.Value.ExprType().BitstreamWidth()
			rawLeft := e.ValueRange.RawIndex(left)
			rawRight := e.ValueRange.RawIndex(right)
			lo, hi := rawRight, rawLeft
			if lo > hi {
				lo, hi = hi, lo
			}
			if lo < 0 || hi+1 > total {
				diag.Semantic(e.Location(), "range select target out of bounds")
			}
			mask = padSignal(mask, lo, hi+1, total)
			padded = padXSignal(padded, lo, hi+1, total)
			cur = e.Value

		case *svast.ElementSelectExpr:
			total := e.Value.ExprType().BitstreamWidth()
			if idx, ok := sigeval.ConstantInt(e.Index); ok {
				raw := e.ValueRange.RawIndex(idx)
				if raw < 0 || raw >= total {
					diag.Semantic(e.Location(), "constant element index out of bounds")
				}
				mask = padSignal(mask, raw, raw+1, total)
				padded = padXSignal(padded, raw, raw+1, total)
				cur = e.Value
				continue
			}

			// Dynamic index: demux the current mask by the index signal,
			// repeat rvalue over the array.
			loc := e.Location()
			stride := len(mask)
			if stride == 0 || total%stride != 0 {
				diag.Unsupported(loc, internalLoc(), "", "dynamic lvalue element index has a depth the etcher cannot size")
			}
			elems := total / stride
			raw, valid := sigeval.TranslateIndex(l.Ctx, e.Index, e.ValueRange, loc)
			demuxed := l.Ctx.Builder.Demux(mask, raw, loc)
			demuxed = resizeSignal(demuxed, total)
			demuxed = l.Ctx.Builder.And(demuxed, broadcast(valid[0], total), total, loc)

			operands := make([]netlist.Signal, elems)
			for i := range operands {
				operands[i] = padded
			}
			mask, padded = demuxed, netlist.Concat(operands...)
			cur = e.Value

		case *svast.MemberAccessExpr:
			total := e.Value.ExprType().BitstreamWidth()
			if e.BitOffset < 0 || e.BitOffset+e.Width > total {
				diag.Semantic(e.Location(), "member access target out of bounds")
			}
			mask = padSignal(mask, e.BitOffset, e.BitOffset+e.Width, total)
			padded = padXSignal(padded, e.BitOffset, e.BitOffset+e.Width, total)
			cur = e.Value

		default:
			return mask, padded, cur
		}
	}
}

func onesMask(width int) netlist.Signal {
	out := make(netlist.Signal, width)
	for i := range out {
		out[i] = netlist.ConstBit(netlist.Bit1)
	}
	return out
}

func padSignal(s netlist.Signal, lo, hi, total int) netlist.Signal {
	out := make(netlist.Signal, total)
	for i := range out {
		out[i] = netlist.ConstBit(netlist.Bit0)
	}
	copy(out[lo:hi], s)
	return out
}

func padXSignal(s netlist.Signal, lo, hi, total int) netlist.Signal {
	out := make(netlist.Signal, total)
	for i := range out {
		out[i] = netlist.ConstBit(netlist.BitX)
	}
	copy(out[lo:hi], s)
	return out
}

func resizeSignal(s netlist.Signal, width int) netlist.Signal {
	if len(s) == width {
		return s
	}
	if len(s) > width {
		return s.Extract(0, width)
	}
	return s.ZeroExtend(width)
}

func broadcast(bit netlist.SigBit, width int) netlist.Signal {
	out := make(netlist.Signal, width)
	for i := range out {
		out[i] = bit
	}
	return out
}

func isAllOnesMask(mask netlist.Signal) bool {
	for _, b := range mask {
		if b.IsWire || b.Const != netlist.Bit1 {
			return false
		}
	}
	return true
}

// cropToMask drops every bit position whose mask value is a provable
// constant zero, from all three parallel signals.
// Bits with a wire-valued (dynamic) or constant-one mask survive to the
// runtime Bwmux in step 4.
func cropToMask(lvalue, mask, padded netlist.Signal) (netlist.Signal, netlist.Signal, netlist.Signal) {
	var newL, newM, newP netlist.Signal
	for i := range mask {
		if !mask[i].IsWire && mask[i].Const == netlist.Bit0 {
			continue
		}
		newL = append(newL, lvalue[i])
		newM = append(newM, mask[i])
		newP = append(newP, padded[i])
	}
	return newL, newM, newP
}
