// Package proclower is the Procedural Lowerer: it walks a procedural
// block's statement tree and etches each assignment onto
// a process's case-rule tree, driving the SwitchBuilder merge semantics that
// let later statements see the right value regardless of which branch of an
// earlier if/case actually ran.
package proclower

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
)

// Lowerer holds the per-process lowering state: the active case-rule
// insertion point, the staging map, and the blocking/nonblocking bit-sets
// that catch a mixed assignment. One Lowerer is created per
// always/always_comb/always_ff/always_latch block (initial and final blocks
// get none) and per function-inlining call site (calls.go's InlineFunction).
type Lowerer struct {
	Ctx     *sigeval.Context
	Process *netlist.Process

	// Cur is ctx.current_case: new actions and nested switches are appended
	// here. Mutated as lowering descends into fresh switches and forked
	// branch bodies.
	Cur *netlist.CaseRule

	// Staging maps each assigned lvalue bit to the fresh wire-bit allocated
	// for it on first write.
	Staging map[netlist.SigBit]netlist.SigBit

	AssignedBlocking    map[netlist.SigBit]bool
	AssignedNonblocking map[netlist.SigBit]bool

	// Warnings receives non-fatal ignorable diagnostics (unique/priority
	// case checks). Defaults to diag.DefaultCollector.
	Warnings *diag.Collector

	// enableStack is the path-to-current-case condition stack: the top
	// entry is the conjunction of every switch-branch condition entered to
	// reach Cur, used as a print cell's Enable.
	enableStack []netlist.Signal

	printPriority int
}

// NewLowerer creates a process rooted at a single-default-case anchor
// switch, which subsequent nested switches attach under.
func NewLowerer(ctx *sigeval.Context, id, name string, src srcloc.Range) *Lowerer {
	proc := &netlist.Process{ID: id, Name: name, RootCase: netlist.NewCaseRule(), Src: src}
	l := &Lowerer{
		Ctx:                 ctx,
		Process:             proc,
		Cur:                 proc.RootCase,
		Staging:             map[netlist.SigBit]netlist.SigBit{},
		AssignedBlocking:    map[netlist.SigBit]bool{},
		AssignedNonblocking: map[netlist.SigBit]bool{},
		Warnings:            diag.DefaultCollector(),
		enableStack:         []netlist.Signal{{netlist.ConstBit(netlist.Bit1)}},
	}
	l.descend()
	return l
}

// descend opens a fresh empty default-only switch nested under l.Cur and
// makes its single case rule the new l.Cur, so statements lowered after this
// point structurally execute after everything already recorded in the old
// l.Cur. Used at process creation and after every if/case statement.
func (l *Lowerer) descend() {
	next := netlist.NewCaseRule()
	l.Cur.AddSwitch(&netlist.SwitchRule{
		Cases: []*netlist.SwitchCase{{Body: next}},
	})
	l.Cur = next
}

// freshWire allocates a synthetic wire of the given width, named from the
// module's shared deterministic counter so two elaborations of the same
// input produce identical names and byte-stable output.
func (l *Lowerer) freshWire(width int, kind string) *netlist.Wire {
	name := l.Ctx.Module.NextCellName(kind)
	w := &netlist.Wire{Name: name, Width: width}
	l.Ctx.Module.AddWire(name, w)
	return w
}

// stagingBit returns bit's fresh staging wire-bit, allocating a new one-bit
// wire on first write.
func (l *Lowerer) stagingBit(bit netlist.SigBit) netlist.SigBit {
	if sb, ok := l.Staging[bit]; ok {
		return sb
	}
	w := l.freshWire(1, "stage")
	sb := w.Bit(0)
	l.Staging[bit] = sb
	return sb
}

// stagingSignal maps every bit of an lvalue signal through stagingBit.
func (l *Lowerer) stagingSignal(lvalue netlist.Signal) netlist.Signal {
	out := make(netlist.Signal, len(lvalue))
	for i, b := range lvalue {
		out[i] = l.stagingBit(b)
	}
	return out
}

// StagingDone implements this staging commit, run once after a
// procedure's entire body has been lowered: publish each staged write back
// onto its original wire in the process root case, and make every sync rule
// sample the staged value on its triggering edge. The Module Populator
// populates l.Process.Syncs for module-level blocks before calling this so
// the sync-rule loop below sees the full set; calls.go's inlined functions
// call it with no sync rules.
func (l *Lowerer) StagingDone() {
	for original, staged := range l.Staging {
		l.Process.RootCase.AddAction(netlist.Signal{original}, netlist.Signal{staged})
		for i := range l.Process.Syncs {
			l.Process.Syncs[i].Actions = append(l.Process.Syncs[i].Actions,
				netlist.Action{LHS: netlist.Signal{original}, RHS: netlist.Signal{staged}})
		}
	}
}

func (l *Lowerer) currentEnable() netlist.Signal {
	return l.enableStack[len(l.enableStack)-1]
}

func (l *Lowerer) pushEnable(cond netlist.Signal) {
	l.enableStack = append(l.enableStack, cond)
}

func (l *Lowerer) popEnable() {
	l.enableStack = l.enableStack[:len(l.enableStack)-1]
}

func (l *Lowerer) nextPrintPriority() int {
	p := l.printPriority
	l.printPriority--
	return p
}

func (l *Lowerer) warn(loc srcloc.Range, format string, args ...interface{}) {
	l.Warnings.Warn(loc, format, args...)
}

func internalLoc() string { return "internal/proclower" }

func cloneSubs(m map[netlist.SigBit]netlist.SigBit) map[netlist.SigBit]netlist.SigBit {
	out := make(map[netlist.SigBit]netlist.SigBit, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
