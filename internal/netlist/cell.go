package netlist

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// CellKind enumerates every primitive operator plus the submodule-instance
// kind created during hierarchy walking.
type CellKind int

const (
	CellAdd CellKind = iota
	CellSub
	CellMul
	CellDivFloor
	CellMod
	CellPow
	CellAnd
	CellOr
	CellXor
	CellXnor
	CellNot
	CellNeg
	CellEq
	CellNe
	CellEqWildcard
	CellNeWildcard
	CellGe
	CellGt
	CellLe
	CellLt
	CellLogicAnd
	CellLogicOr
	CellLogicNot
	CellReduceOr
	CellReduceAnd
	CellReduceBool
	CellShl
	CellShr
	CellSshl
	CellSshr
	CellMux
	CellBwmux
	CellDemux
	CellBmux
	CellShiftx
	CellPrint // $display
	CellSubmoduleInstance
)

// Cell is a primitive operator instance or a submodule instance. Only the fields relevant to Kind are populated; irbuilder never
// reads fields outside a cell's own kind.
type Cell struct {
	ID     string
	Kind   CellKind
	Name   string // auto-generated, deterministic per Module.NextCellName

	A, B, S Signal // operand/selector inputs; S is the mux/demux/shift selector
	Y       Signal // output

	ASigned, BSigned bool
	YWidth           int

	// Submodule instance fields.
	SubmoduleType string
	Ports         map[string]Signal
	PortDirs      map[string]svast.PortDirection

	// $display fields.
	Format    string
	PrintArgs []PrintArg
	Trigger   []SyncRule
	Enable    Signal
	Priority  int

	Src        srcloc.Range
	Attributes []svast.Attribute
}

// PrintArg classifies one $display argument
type PrintArgKind int

const (
	PrintArgString PrintArgKind = iota
	PrintArgTime
	PrintArgRealtime
	PrintArgStime
	PrintArgSigned
)

type PrintArg struct {
	Kind   PrintArgKind
	Text   string // for PrintArgString
	Value  Signal // for numeric args
	Signed bool
}
