package populate

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/proclower"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// populateInstance builds a submodule-instance cell naming the submodule's
// hierarchical definition as its type, with one port
// binding per connection, lvalue-evaluated for an output-direction port and
// rvalue-evaluated otherwise.
func populateInstance(ctx *sigeval.Context, s *svast.InstanceSymbol) {
	if s.Body.IsAnonymous {
		return
	}
	ports := make(map[string]netlist.Signal, len(s.Connections))
	dirs := make(map[string]svast.PortDirection, len(s.Connections))
	for _, conn := range s.Connections {
		dirs[conn.PortName] = conn.Direction
		if conn.Direction == svast.PortOutput {
			ports[conn.PortName] = sigeval.EvaluateLHS(ctx, conn.Expr)
		} else {
			ports[conn.PortName] = sigeval.EvaluateRHS(ctx, conn.Expr)
		}
	}
	cell := &netlist.Cell{
		ID:            ctx.Builder.Alloc.NewCellID(),
		Kind:          netlist.CellSubmoduleInstance,
		Name:          ctx.Module.NextCellName("inst"),
		SubmoduleType: s.Body.HierarchicalPath,
		Ports:         ports,
		PortDirs:      dirs,
		Attributes:    s.Attributes,
		Src:           s.Location(),
	}
	ctx.Module.AddCell(cell)
}

// populateProceduralBlock dispatches on block kind to select the sync rule
// set, then hands off to internal/proclower for the full statement
// traversal and the staging commit.
func populateProceduralBlock(ctx *sigeval.Context, s *svast.ProceduralBlockSymbol) {
	switch s.Kind {
	case svast.ProcFinal:
		return
	case svast.ProcInitial:
		if !isEffectivelyEmpty(s.Body) {
			diag.Unsupported(s.Location(), "internal/populate", "", "initial blocks are not supported")
		}
		return
	}

	id := ctx.Builder.Alloc.NewProcessID()
	l := proclower.NewLowerer(ctx, id, s.SymbolName(), s.Location())

	if s.Kind == svast.ProcAlwaysComb {
		l.Process.Syncs = []netlist.SyncRule{{Kind: netlist.SyncAlways}}
	} else {
		syncs := make([]netlist.SyncRule, 0, len(s.Events))
		nonEdge := len(s.Events) == 0
		for _, ev := range s.Events {
			if ev.Kind != svast.EdgePos && ev.Kind != svast.EdgeNeg {
				nonEdge = true
			}
			sr := netlist.SyncRule{Kind: edgeKind(ev.Kind)}
			if ev.Signal != nil {
				sr.Signal = sigeval.EvaluateRHS(ctx, ev.Signal)
			}
			syncs = append(syncs, sr)
		}
		if len(syncs) == 0 {
			syncs = []netlist.SyncRule{{Kind: netlist.SyncAlways}}
		}
		if nonEdge {
			if s.Kind != svast.ProcAlwaysLatch {
				l.Warnings.Warn(s.Location(), "%s has no edge-sensitive event list; converted to an implicit always block", blockKindName(s.Kind))
			}
			syncs = []netlist.SyncRule{{Kind: netlist.SyncAlways}}
		}
		l.Process.Syncs = syncs
	}

	l.LowerStmt(s.Body)
	l.StagingDone()
	ctx.Module.AddProcess(l.Process)
}

func blockKindName(k svast.ProceduralBlockKind) string {
	switch k {
	case svast.ProcAlwaysFF:
		return "always_ff"
	case svast.ProcAlways:
		return "always"
	default:
		return "procedural block"
	}
}

func edgeKind(k svast.EdgeKind) netlist.SyncKind {
	switch k {
	case svast.EdgePos:
		return netlist.SyncPosedge
	case svast.EdgeNeg:
		return netlist.SyncNegedge
	case svast.EdgeAny:
		return netlist.SyncAnyedge
	default:
		return netlist.SyncAlways
	}
}

// isEffectivelyEmpty reports whether an initial-block body contains no real
// statement: an empty initial block is harmless, a non-empty one is
// unsupported.
func isEffectivelyEmpty(s svast.Stmt) bool {
	switch st := s.(type) {
	case nil:
		return true
	case *svast.EmptyStmt:
		return true
	case *svast.BlockStmt:
		for _, sub := range st.Body {
			if !isEffectivelyEmpty(sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
