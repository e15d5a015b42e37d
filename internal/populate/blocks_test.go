package populate

import (
	"testing"

	"github.com/robert-at-pretension-io/sv-elab/internal/irbuilder"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func TestPopulateInstanceOutputPortUsesLvalue(t *testing.T) {
	m := netlist.NewModule("top", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())

	outWire := &netlist.Wire{ID: "\\y", Width: 1}
	m.AddWire("\\y", outWire)
	outSym := &svast.NetSymbol{}
	outSym.Name, outSym.Typ = "y", svast.Type{Width: 1}
	wires := map[svast.Symbol]*netlist.Wire{outSym: outWire}
	ctx := sigeval.NewContext(b, m, wires)

	outExpr := &svast.NamedValueExpr{Kind: svast.SymbolNet, Symbol: outSym}
	outExpr.Typ = svast.Type{Width: 1}

	body := &svast.InstanceBody{Name: "sub", HierarchicalPath: "top.u_sub"}
	inst := &svast.InstanceSymbol{
		Body: body,
		Connections: []svast.PortConnection{
			{PortName: "q", Direction: svast.PortOutput, Expr: outExpr},
		},
	}

	populateInstance(ctx, inst)

	if len(m.Cells) != 1 {
		t.Fatalf("expected exactly one cell, got %d", len(m.Cells))
	}
	cell := m.Cells[0]
	if cell.Kind != netlist.CellSubmoduleInstance {
		t.Fatalf("expected a submodule-instance cell, got %v", cell.Kind)
	}
	if cell.SubmoduleType != "top.u_sub" {
		t.Fatalf("expected submodule type %q, got %q", "top.u_sub", cell.SubmoduleType)
	}
	sig := cell.Ports["q"]
	if len(sig) != 1 || !sig[0].IsWire || sig[0].Wire != outWire {
		t.Fatalf("expected the output port to bind the target wire by lvalue, got %+v", sig)
	}
}

func TestPopulateInstanceAnonymousBodySkipped(t *testing.T) {
	m := netlist.NewModule("top", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())
	ctx := sigeval.NewContext(b, m, map[svast.Symbol]*netlist.Wire{})

	inst := &svast.InstanceSymbol{Body: &svast.InstanceBody{IsAnonymous: true}}
	populateInstance(ctx, inst)

	if len(m.Cells) != 0 {
		t.Fatalf("expected no cells for an anonymous instance body, got %d", len(m.Cells))
	}
}

func TestPopulateProceduralBlockAlwaysCombGetsSyncAlways(t *testing.T) {
	m := netlist.NewModule("top", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())
	ctx := sigeval.NewContext(b, m, map[svast.Symbol]*netlist.Wire{})
	ctx.Inliner = nil

	blk := &svast.ProceduralBlockSymbol{Kind: svast.ProcAlwaysComb, Body: &svast.EmptyStmt{}}
	populateProceduralBlock(ctx, blk)

	if len(m.Processes) != 1 {
		t.Fatalf("expected one process, got %d", len(m.Processes))
	}
	p := m.Processes[0]
	if len(p.Syncs) != 1 || p.Syncs[0].Kind != netlist.SyncAlways {
		t.Fatalf("expected a single SyncAlways rule, got %+v", p.Syncs)
	}
}

func TestPopulateProceduralBlockAlwaysFFEdgeSyncs(t *testing.T) {
	m := netlist.NewModule("top", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())

	clkWire := &netlist.Wire{ID: "\\clk", Width: 1}
	m.AddWire("\\clk", clkWire)
	clkSym := &svast.NetSymbol{}
	clkSym.Name, clkSym.Typ = "clk", svast.Type{Width: 1}
	ctx := sigeval.NewContext(b, m, map[svast.Symbol]*netlist.Wire{clkSym: clkWire})

	clkExpr := &svast.NamedValueExpr{Kind: svast.SymbolNet, Symbol: clkSym}
	clkExpr.Typ = svast.Type{Width: 1}

	blk := &svast.ProceduralBlockSymbol{
		Kind:   svast.ProcAlwaysFF,
		Events: []svast.TimingControlEvent{{Kind: svast.EdgePos, Signal: clkExpr}},
		Body:   &svast.EmptyStmt{},
	}
	populateProceduralBlock(ctx, blk)

	p := m.Processes[0]
	if len(p.Syncs) != 1 || p.Syncs[0].Kind != netlist.SyncPosedge {
		t.Fatalf("expected a single posedge sync rule, got %+v", p.Syncs)
	}
	if !p.Syncs[0].Signal[0].Equal(clkWire.Bit(0)) {
		t.Fatalf("expected the sync rule's signal to be the clock wire")
	}
}

func TestPopulateProceduralBlockInitialWithStatementsIsUnsupported(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a non-empty initial block to be fatal")
		}
	}()
	m := netlist.NewModule("top", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())
	ctx := sigeval.NewContext(b, m, map[svast.Symbol]*netlist.Wire{})

	blk := &svast.ProceduralBlockSymbol{Kind: svast.ProcInitial, Body: &svast.BlockStmt{Body: []svast.Stmt{&svast.ExpressionStmt{}}}}
	populateProceduralBlock(ctx, blk)
}

func TestIsEffectivelyEmptyNestedBlocks(t *testing.T) {
	empty := &svast.BlockStmt{Body: []svast.Stmt{&svast.EmptyStmt{}, &svast.BlockStmt{}}}
	if !isEffectivelyEmpty(empty) {
		t.Fatalf("expected nested empty blocks to be effectively empty")
	}
	nonEmpty := &svast.BlockStmt{Body: []svast.Stmt{&svast.ExpressionStmt{}}}
	if isEffectivelyEmpty(nonEmpty) {
		t.Fatalf("expected a block containing a real statement to not be effectively empty")
	}
}
