// Package hierarchy implements the top-level visitor that, for each
// instantiated module body, creates a
// netlist module, runs the Module Populator's two passes, fixes up port
// positions, invokes the structural check, and recurses into child
// instances.
package hierarchy

import (
	"hash/fnv"

	bloomfilter "github.com/holiman/bloomfilter/v2"

	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/irbuilder"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/populate"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// StructuralCheck is invoked once per module after population, before the
// Hierarchy Driver recurses into that module's children (internal/schema
// wires a cuelang.org/go/cue validator into this hook; nil skips the check).
type StructuralCheck func(*netlist.Module) error

// Driver walks an elaborated instance tree into a netlist.Design. It is
// created fresh per elaboration run, with no long-lived caches between
// modules, so neither the design nor the fast-reject filter below
// outlives one call to Elaborate.
type Driver struct {
	Design   *netlist.Design
	Warnings *diag.Collector
	Check    StructuralCheck

	// seen is an O(1) fast-reject before the exact Design.Modules lookup
	// below: a hierarchical path the filter has never seen skips the exact
	// map probe. The path string is still hashed for the filter on every
	// visit, and a bloom hit (true or false) falls through to the exact map,
	// so correctness never depends on it.
	seen *bloomfilter.Filter
}

// SchemaChecker is the shape internal/schema.Validator.ValidateModuleSummary
// already has; accepting the narrow function type here instead of
// importing internal/schema keeps the Hierarchy Driver ignorant of which
// concrete structural check it's running.
type SchemaChecker interface {
	ValidateModuleSummary(*netlist.Module) error
}

// WithSchema adapts a SchemaChecker (internal/schema.Validator satisfies
// it) into the StructuralCheck hook.
func WithSchema(v SchemaChecker) StructuralCheck {
	return v.ValidateModuleSummary
}

// New creates a Driver targeting a fresh Design, sized for up to
// expectedInstances distinct hierarchical paths at a 1% false-positive
// rate (a false positive only costs one avoidable exact-map probe, never a
// correctness issue).
func New(expectedInstances uint64, check StructuralCheck) *Driver {
	if expectedInstances == 0 {
		expectedInstances = 1024
	}
	f, err := bloomfilter.NewOptimal(expectedInstances, 0.01)
	if err != nil {
		diag.Internal("hierarchy: failed to size bloom filter: %v", err)
	}
	return &Driver{
		Design:   netlist.NewDesign(),
		Warnings: diag.DefaultCollector(),
		Check:    check,
		seen:     f,
	}
}

// Elaborate drives the whole design from its top-level instance body,
// returning the populated Design. Elaboration is synchronous and
// single-threaded; a fatal diagnostic anywhere aborts the
// whole run via diag.Abort's panic/recover, which whoever calls Elaborate
// unwinds; cmd/svelab itself does not call it.
func (d *Driver) Elaborate(top *svast.InstanceBody) *netlist.Design {
	d.visit(top)
	return d.Design
}

func (d *Driver) visit(body *svast.InstanceBody) {
	if body.IsAnonymous {
		return
	}

	h := fnv.New64a()
	h.Write([]byte(body.HierarchicalPath))
	if d.seen.Contains(h) {
		if _, ok := d.Design.Modules[body.HierarchicalPath]; ok {
			return
		}
	}
	d.seen.Add(h)

	m := netlist.NewModule(body.HierarchicalPath, body.Loc)
	builder := irbuilder.New(m, d.Design.Alloc)
	ctx := populate.Populate(builder, m, body)
	_ = ctx // retained for callers that need the populator's wire table

	fixupPortPositions(m, body)

	if d.Check != nil {
		if err := d.Check(m); err != nil {
			diag.Internal("structural check failed for module %q: %v", m.Name, err)
		}
	}

	d.Design.AddModule(m)
	d.recurse(body.Members)
}

// fixupPortPositions numbers each port wire by its declaration order in
// the instance body's member list: the wire-adding pass populates Wires as an unordered map,
// so downstream port binding by position needs this pass to run after
// every wire exists.
func fixupPortPositions(m *netlist.Module, body *svast.InstanceBody) {
	idx := 0
	for _, sym := range body.Members {
		net, ok := sym.(*svast.NetSymbol)
		if !ok || !net.IsPort {
			continue
		}
		idx++
		m.Wire(netlist.NetID(net.SymbolName())).PortIndex = idx
	}
}

// recurse walks every member looking for submodule instances, descending
// through generate blocks (which carry no module of their own) exactly as
// the Module Populator does for wire adding and populating.
func (d *Driver) recurse(members []svast.Symbol) {
	for _, sym := range members {
		switch s := sym.(type) {
		case *svast.InstanceSymbol:
			d.visit(s.Body)
		case *svast.GenerateBlockSymbol:
			if s.Instantiated {
				d.recurse(s.Members)
			}
		}
	}
}
