package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/hierarchy"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func TestElaborateVisitsTopAndChildInstance(t *testing.T) {
	port := &svast.NetSymbol{IsPort: true, Direction: svast.PortInput}
	port.Name, port.Typ = "p", svast.Type{Width: 1}

	leafBody := &svast.InstanceBody{
		Name: "leaf", HierarchicalPath: "top.u_leaf",
		Members: []svast.Symbol{port},
	}
	inst := &svast.InstanceSymbol{Body: leafBody}
	inst.Name = "u_leaf"
	topBody := &svast.InstanceBody{
		Name: "top", HierarchicalPath: "top",
		Members: []svast.Symbol{inst},
	}

	driver := hierarchy.New(4, nil)
	design := driver.Elaborate(topBody)

	require.Len(t, design.ModuleOrder, 2)
	require.Equal(t, "top", design.ModuleOrder[0])
	require.Equal(t, "top.u_leaf", design.ModuleOrder[1])

	leaf := design.Modules["top.u_leaf"]
	require.NotNil(t, leaf)
	w := leaf.Wire(netlist.NetID("p"))
	require.Equal(t, 1, w.PortIndex)
}

func TestElaborateSkipsAnonymousInstanceBodies(t *testing.T) {
	inst := &svast.InstanceSymbol{Body: &svast.InstanceBody{IsAnonymous: true}}
	topBody := &svast.InstanceBody{Name: "top", HierarchicalPath: "top", Members: []svast.Symbol{inst}}

	driver := hierarchy.New(4, nil)
	design := driver.Elaborate(topBody)

	require.Len(t, design.ModuleOrder, 1)
	require.Equal(t, "top", design.ModuleOrder[0])
}

func TestElaborateRunsStructuralCheck(t *testing.T) {
	topBody := &svast.InstanceBody{Name: "top", HierarchicalPath: "top"}
	var checked []string
	check := func(m *netlist.Module) error {
		checked = append(checked, m.Name)
		return nil
	}

	driver := hierarchy.New(4, check)
	driver.Elaborate(topBody)

	require.Equal(t, []string{"top"}, checked)
}

func TestElaborateRecursesThroughInstantiatedGenerateBlocks(t *testing.T) {
	leafBody := &svast.InstanceBody{Name: "leaf", HierarchicalPath: "top.gen[0].u_leaf"}
	inst := &svast.InstanceSymbol{Body: leafBody}
	gen := &svast.GenerateBlockSymbol{Instantiated: true, Members: []svast.Symbol{inst}}
	skippedGen := &svast.GenerateBlockSymbol{Instantiated: false, Members: []svast.Symbol{inst}}
	topBody := &svast.InstanceBody{
		Name: "top", HierarchicalPath: "top",
		Members: []svast.Symbol{gen, skippedGen},
	}

	driver := hierarchy.New(4, nil)
	design := driver.Elaborate(topBody)

	require.Len(t, design.ModuleOrder, 2)
	require.Contains(t, design.Modules, "top.gen[0].u_leaf")
}
