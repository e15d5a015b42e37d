package lintpolicy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/lintpolicy"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
)

func TestBuildInputMarksImplicitEventOnlyForAllAlwaysSyncs(t *testing.T) {
	m := netlist.NewModule("top", srcloc.None)
	m.AddProcess(&netlist.Process{
		Name:     "comb",
		Syncs:    []netlist.SyncRule{{Kind: netlist.SyncAlways}},
		RootCase: &netlist.CaseRule{Switches: []*netlist.SwitchRule{{}}},
	})
	m.AddProcess(&netlist.Process{
		Name:     "ff",
		Syncs:    []netlist.SyncRule{{Kind: netlist.SyncPosedge}},
		RootCase: &netlist.CaseRule{},
	})

	in := lintpolicy.BuildInput(m)
	require.Equal(t, "top", in.Module)
	require.Len(t, in.Processes, 2)

	comb := in.Processes[0]
	require.True(t, comb.ImplicitEvent)
	require.Equal(t, 0, comb.ActionCount)
	require.Equal(t, 1, comb.SwitchCount)

	ff := in.Processes[1]
	require.False(t, ff.ImplicitEvent)
	require.Equal(t, []string{"posedge"}, ff.SyncKinds)
}

func TestEvaluateFlagsPossibleLatch(t *testing.T) {
	eng, err := lintpolicy.New()
	require.NoError(t, err)

	input := lintpolicy.Input{
		Module: "top",
		Processes: []lintpolicy.ProcessFact{
			{Name: "comb", SyncKinds: []string{"always"}, ImplicitEvent: true, ActionCount: 0, SwitchCount: 1},
		},
	}

	result, err := eng.Evaluate(input)
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	require.Equal(t, "possible_latch", result.Violations[0].Rule)
	require.Equal(t, "warning", result.Violations[0].Severity)
	require.Equal(t, 1, result.Summary.Warnings)
	require.Equal(t, 0, result.Summary.Errors)
	require.Equal(t, 1, result.Summary.TotalViolations)
}

func TestEvaluateFlagsUnbalancedSyncKinds(t *testing.T) {
	eng, err := lintpolicy.New()
	require.NoError(t, err)

	input := lintpolicy.Input{
		Module: "top",
		Processes: []lintpolicy.ProcessFact{
			{Name: "weird", SyncKinds: nil, ImplicitEvent: false},
		},
	}

	result, err := eng.Evaluate(input)
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	require.Equal(t, "unbalanced_sync_kinds", result.Violations[0].Rule)
	require.Equal(t, 1, result.Summary.Errors)
}

func TestEvaluateCleanProcessHasNoViolations(t *testing.T) {
	eng, err := lintpolicy.New()
	require.NoError(t, err)

	input := lintpolicy.Input{
		Module: "top",
		Processes: []lintpolicy.ProcessFact{
			{Name: "ff", SyncKinds: []string{"posedge"}, ImplicitEvent: false, ActionCount: 2, SwitchCount: 0},
		},
	}

	result, err := eng.Evaluate(input)
	require.NoError(t, err)
	require.Empty(t, result.Violations)
	require.Equal(t, 0, result.Summary.TotalViolations)
}
