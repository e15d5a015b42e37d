package populate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/irbuilder"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/populate"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func namedNet(sym svast.Symbol, width int) *svast.NamedValueExpr {
	e := &svast.NamedValueExpr{Kind: svast.SymbolNet, Symbol: sym}
	e.Typ = svast.Type{Width: width}
	return e
}

func TestPopulateWiresContinuousAssign(t *testing.T) {
	m := netlist.NewModule("m", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())

	a := &svast.NetSymbol{IsPort: true, Direction: svast.PortInput}
	a.Name, a.Typ = "a", svast.Type{Width: 1}
	c := &svast.NetSymbol{IsPort: true, Direction: svast.PortOutput}
	c.Name, c.Typ = "c", svast.Type{Width: 1}

	assign := &svast.ContinuousAssignSymbol{Left: namedNet(c, 1), Right: namedNet(a, 1)}
	assign.Name = "assign_0"

	body := &svast.InstanceBody{
		Name: "top", HierarchicalPath: "top",
		Members: []svast.Symbol{a, c, assign},
	}

	ctx := populate.Populate(b, m, body)

	wa := ctx.WireFor(a)
	wc := ctx.WireFor(c)
	require.True(t, wa.IsPort)
	require.Equal(t, svast.PortInput, wa.Direction)
	require.True(t, wc.IsPort)

	require.Len(t, m.Connections, 1)
	require.True(t, m.Connections[0].LHS[0].Equal(wc.Bit(0)))
	require.True(t, m.Connections[0].RHS[0].Equal(wa.Bit(0)))
}

func TestPopulateVariableInitializerAttribute(t *testing.T) {
	m := netlist.NewModule("m", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())

	v := &svast.VariableSymbol{}
	v.Name, v.Typ = "v", svast.Type{Width: 2}
	init := &svast.NamedValueExpr{Kind: svast.SymbolNet}
	init.Typ = svast.Type{Width: 2}
	c := svast.Constant{Bits: []svast.Bit{svast.Bit1, svast.Bit0}}
	init.Folded = &c
	v.Initializer = init

	body := &svast.InstanceBody{Name: "top", HierarchicalPath: "top", Members: []svast.Symbol{v}}
	ctx := populate.Populate(b, m, body)

	w := ctx.WireFor(v)
	require.NotNil(t, w.Init)
	require.Equal(t, []svast.Bit{svast.Bit1, svast.Bit0}, w.Init.Bits)
}

func TestPopulateVariableDefaultFourStateSkipsInit(t *testing.T) {
	m := netlist.NewModule("m", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())

	v := &svast.VariableSymbol{}
	v.Name, v.Typ = "v", svast.Type{Width: 1, IsFourState: true}

	body := &svast.InstanceBody{Name: "top", HierarchicalPath: "top", Members: []svast.Symbol{v}}
	ctx := populate.Populate(b, m, body)

	w := ctx.WireFor(v)
	require.Nil(t, w.Init, "an all-X four-state default carries no information and should be skipped")
}

func TestPopulateVariableDefaultTwoStateZeroInit(t *testing.T) {
	m := netlist.NewModule("m", srcloc.None)
	b := irbuilder.New(m, netlist.NewIDAllocator())

	v := &svast.VariableSymbol{}
	v.Name, v.Typ = "v", svast.Type{Width: 2, IsFourState: false}

	body := &svast.InstanceBody{Name: "top", HierarchicalPath: "top", Members: []svast.Symbol{v}}
	ctx := populate.Populate(b, m, body)

	w := ctx.WireFor(v)
	require.NotNil(t, w.Init)
	require.Equal(t, []svast.Bit{svast.Bit0, svast.Bit0}, w.Init.Bits)
}
