package netlist

import (
	"fmt"

	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
)

// Module owns its wires, cells, and processes.
type Module struct {
	Name  string
	Wires map[string]*Wire // keyed by net_id(symbol)
	WireOrder []*Wire
	Cells []*Cell
	Processes []*Process
	// Connections are direct wire-to-wire aliases with no intervening cell —
	// a net's continuous driver and a `ContinuousAssign` both lower to one of
	// these, matching the `connect` statement RTLIL-style netlists use
	// alongside cells and processes.
	Connections []Connection
	Src         srcloc.Range

	// cellSeq is the per-module monotonically increasing counter behind
	// deterministic auto-generated cell naming, seeded fresh at each
	// Hierarchy Driver module visit so output is byte-stable across runs
	// of the same input.
	cellSeq int
}

// Connection is one connect(lhs, rhs) statement.
type Connection struct {
	LHS, RHS Signal
	Src      srcloc.Range
}

// NewModule creates an empty module.
func NewModule(name string, src srcloc.Range) *Module {
	return &Module{
		Name:  name,
		Wires: make(map[string]*Wire),
		Src:   src,
	}
}

// AddWire registers a wire under its net_id, first pass of the Module
// Populator.
func (m *Module) AddWire(id string, w *Wire) {
	w.ID = id
	m.Wires[id] = w
	m.WireOrder = append(m.WireOrder, w)
}

// Wire looks up a wire by net_id; invariant, this never
// fails once the wire-adding pass has completed.
func (m *Module) Wire(id string) *Wire {
	w, ok := m.Wires[id]
	if !ok {
		panic(fmt.Sprintf("netlist: wire lookup miss for %q after wire-adding pass", id))
	}
	return w
}

// AddCell registers a fully-built cell.
func (m *Module) AddCell(c *Cell) {
	m.Cells = append(m.Cells, c)
}

// AddProcess registers a fully-built process.
func (m *Module) AddProcess(p *Process) {
	m.Processes = append(m.Processes, p)
}

// Connect records a direct lhs<-rhs wire alias.
func (m *Module) Connect(lhs, rhs Signal, src srcloc.Range) {
	m.Connections = append(m.Connections, Connection{LHS: lhs, RHS: rhs, Src: src})
}

// NextCellName returns the next deterministic auto-generated cell name for
// this module, e.g. "$auto$3". Traversal order is AST order,
// so two elaborations of the same input produce identical names.
func (m *Module) NextCellName(kind string) string {
	m.cellSeq++
	return fmt.Sprintf("$%s$%d", kind, m.cellSeq)
}
