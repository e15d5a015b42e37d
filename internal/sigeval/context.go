// Package sigeval is the Signal Evaluator: it lowers AST expressions into
// netlist signals, in rvalue mode (reads) and lvalue mode (assignment
// targets), consuming internal/irbuilder for every operator it needs and
// internal/netlist for the wires it reads from or resolves to.
package sigeval

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/irbuilder"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// Context carries the per-module wire table plus two pieces of
// process-scoped mutable state: the rvalue substitution map and the
// formal-argument map. Wires is built once by the Module Populator's
// wire-adding pass and never mutated afterward; Subs and Args are owned by
// internal/proclower, which snapshots/restores them around switch branches
// and passes this same Context by reference into every Evaluator call.
//
// Wires is keyed by symbol identity rather than by an escaped hierarchical
// path string: every concrete svast.Symbol is exchanged as a pointer, so
// Go's native map-key identity means a wire lookup never fails after the
// wire-adding pass, without re-deriving a path string at every lookup.
// escape_id/net_id (internal/netlist's EscapeID/NetID functions) are used
// instead for the wire's own ID, its key in Module.Wires, which is what the
// emitted IR observes.
type Context struct {
	Builder *irbuilder.Builder
	Module  *netlist.Module
	Wires   map[svast.Symbol]*netlist.Wire

	// Subs is ctx.rvalue_subs: the live mapping from an original wire-bit to
	// its latest blocking-assigned staging bit.
	Subs map[netlist.SigBit]netlist.SigBit

	// Args is ctx.args, bound fresh for each function-inlining call.
	Args map[string]netlist.Signal

	// Inliner is set by internal/populate (to proclower.InlineFunction)
	// before any evaluation begins.
	// evaluate_rhs's CallUserFunction case delegates here rather than
	// importing internal/proclower directly, since inlining allocates a new
	// process and runs the full procedural traversal — machinery that
	// belongs to the Procedural Lowerer, not the Signal Evaluator. This
	// callback is the seam that breaks the would-be import cycle.
	Inliner func(ctx *Context, call *svast.CallExpr) netlist.Signal
}

// NewContext creates a Context for one module elaboration. wires is shared
// for the module's whole lifetime; Subs/Args start empty and are populated
// by internal/proclower as it lowers each procedural block or inlined call.
func NewContext(b *irbuilder.Builder, m *netlist.Module, wires map[svast.Symbol]*netlist.Wire) *Context {
	return &Context{Builder: b, Module: m, Wires: wires, Subs: map[netlist.SigBit]netlist.SigBit{}, Args: map[string]netlist.Signal{}}
}

// WireFor resolves a NamedValue's Net/Variable symbol to its pre-created
// wire. Per this invariant this never fails once wire-adding has
// run; a miss here is an internal-assertion violation, not a user error.
func (c *Context) WireFor(sym svast.Symbol) *netlist.Wire {
	w, ok := c.Wires[sym]
	if !ok {
		diag.Internal("wire lookup miss for symbol %q after wire-adding pass", sym.SymbolName())
	}
	return w
}

// ApplySubs rewrites every bit of s through the live rvalue substitution
// map, leaving bits with no entry untouched. Constant bits are never
// substituted (only wire-bit identities are keys).
func (c *Context) ApplySubs(s netlist.Signal) netlist.Signal {
	out := make(netlist.Signal, len(s))
	for i, b := range s {
		if sub, ok := c.Subs[b]; ok {
			out[i] = sub
		} else {
			out[i] = b
		}
	}
	return out
}

// Fork returns a child Context sharing Builder/Module/Wires but with an
// independently mutable copy of Subs/Args. The SwitchBuilder does not use
// it; it snapshots Subs on branch entry with its own copy.
func (c *Context) Fork() *Context {
	subs := make(map[netlist.SigBit]netlist.SigBit, len(c.Subs))
	for k, v := range c.Subs {
		subs[k] = v
	}
	args := make(map[string]netlist.Signal, len(c.Args))
	for k, v := range c.Args {
		args[k] = v
	}
	return &Context{Builder: c.Builder, Module: c.Module, Wires: c.Wires, Subs: subs, Args: args, Inliner: c.Inliner}
}
