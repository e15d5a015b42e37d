package schema_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/schema"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// TestBuildModuleSummaryStableAcrossIdenticalWireOrder guards against a
// nondeterministic WireOrder regression: two modules populated with the
// same wires in the same order must summarize identically. go-cmp gives a
// field-by-field diff and go-spew dumps both summaries so a future failure
// here doesn't need re-instrumenting to see what actually differed.
func TestBuildModuleSummaryStableAcrossIdenticalWireOrder(t *testing.T) {
	build := func() schema.ModuleSummary {
		m := netlist.NewModule("top", srcloc.None)
		m.AddWire("\\a", &netlist.Wire{Width: 4, IsPort: true, Direction: svast.PortInput})
		m.AddWire("\\y", &netlist.Wire{Width: 1, IsPort: true, Direction: svast.PortOutput})
		return schema.BuildModuleSummary(m)
	}

	a, b := build(), build()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("expected identical summaries, got diff (-want +got):\n%s\na: %s\nb: %s",
			diff, spew.Sdump(a), spew.Sdump(b))
	}
}

func TestBuildModuleSummaryCountsAndPorts(t *testing.T) {
	m := netlist.NewModule("top", srcloc.None)
	in := &netlist.Wire{Width: 4, IsPort: true, Direction: svast.PortInput}
	out := &netlist.Wire{Width: 1, IsPort: true, Direction: svast.PortOutput}
	internal := &netlist.Wire{Width: 8}
	m.AddWire("\\a", in)
	m.AddWire("\\y", out)
	m.AddWire("\\tmp", internal)

	s := schema.BuildModuleSummary(m)
	require.Equal(t, "top", s.Name)
	require.Equal(t, 3, s.Wires)
	require.Len(t, s.Ports, 2, "only IsPort wires should appear in the summary")
	require.Equal(t, "\\a", s.Ports[0].Name)
	require.Equal(t, "input", s.Ports[0].Direction)
	require.Equal(t, "\\y", s.Ports[1].Name)
	require.Equal(t, "output", s.Ports[1].Direction)
}

func TestBuildModuleSummaryReportsInout(t *testing.T) {
	m := netlist.NewModule("top", srcloc.None)
	m.AddWire("\\io", &netlist.Wire{Width: 1, IsPort: true, Direction: svast.PortInOut})

	s := schema.BuildModuleSummary(m)
	require.Len(t, s.Ports, 1)
	require.Equal(t, "inout", s.Ports[0].Direction)
}

func TestValidateModuleSummaryAcceptsInoutPort(t *testing.T) {
	v, err := schema.New()
	require.NoError(t, err)

	m := netlist.NewModule("top", srcloc.None)
	m.AddWire("\\io", &netlist.Wire{ID: "\\io", Width: 1, IsPort: true, Direction: svast.PortInOut})

	err = v.ValidateModuleSummary(m)
	require.NoError(t, err)
}

func TestValidateConfigAcceptsMinimalConfig(t *testing.T) {
	v, err := schema.New()
	require.NoError(t, err)
	err = v.ValidateConfig([]byte(`{"top_module": "top"}`))
	require.NoError(t, err)
}

func TestValidateConfigRejectsEmptyTopModule(t *testing.T) {
	v, err := schema.New()
	require.NoError(t, err)
	err = v.ValidateConfig([]byte(`{"top_module": ""}`))
	require.Error(t, err)
}

func TestValidateModuleSummaryRejectsZeroWidthPort(t *testing.T) {
	v, err := schema.New()
	require.NoError(t, err)
	err = v.ValidateConfig([]byte(`{"top_module": "top"}`))
	require.NoError(t, err)

	m := netlist.NewModule("top", srcloc.None)
	bad := &netlist.Wire{ID: "\\a", Width: 0, IsPort: true, Direction: svast.PortInput}
	m.AddWire("\\a", bad)

	err = v.ValidateModuleSummary(m)
	require.Error(t, err)
}

func TestValidateModuleSummaryAcceptsWellFormedModule(t *testing.T) {
	v, err := schema.New()
	require.NoError(t, err)

	m := netlist.NewModule("top", srcloc.None)
	ok := &netlist.Wire{ID: "\\a", Width: 4, IsPort: true, Direction: svast.PortInput}
	m.AddWire("\\a", ok)

	err = v.ValidateModuleSummary(m)
	require.NoError(t, err)
}
