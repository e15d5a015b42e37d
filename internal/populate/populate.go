// Package populate implements the Module Populator: a wire-adding pass
// that creates one netlist wire per value symbol, then a
// populating pass that dispatches on symbol kind to wire up ports, net/
// variable initializers, continuous assigns, submodule instances, and
// procedural blocks.
package populate

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/irbuilder"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/proclower"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// Populate runs both Module Populator passes over body's members into m,
// returning the Context the Hierarchy Driver's caller can reuse (e.g. to
// resolve a port connection expression from the enclosing instance).
func Populate(builder *irbuilder.Builder, m *netlist.Module, body *svast.InstanceBody) *sigeval.Context {
	wires := map[svast.Symbol]*netlist.Wire{}
	addWires(m, body.Members, wires)

	ctx := sigeval.NewContext(builder, m, wires)
	ctx.Inliner = proclower.InlineFunction

	for _, sym := range body.Members {
		populateOne(ctx, sym)
	}
	return ctx
}

// addWires is the wire-adding pass: "visit every value symbol (fixed-size)
// and create a wire of matching width, carrying source-location and user
// attributes". It recurses into instantiated
// generate blocks so their members share the enclosing module's wire table,
// the same flattening the Hierarchy Driver already performs one level up
// for whole instances.
func addWires(m *netlist.Module, members []svast.Symbol, wires map[svast.Symbol]*netlist.Wire) {
	for _, sym := range members {
		switch s := sym.(type) {
		case *svast.NetSymbol:
			addWire(m, wires, s, s.Attributes)
		case *svast.VariableSymbol:
			addWire(m, wires, s, s.Attributes)
		case *svast.GenerateBlockSymbol:
			if s.Instantiated {
				addWires(m, s.Members, wires)
			}
		}
	}
}

func addWire(m *netlist.Module, wires map[svast.Symbol]*netlist.Wire, sym svast.Symbol, attrs []svast.Attribute) {
	t := sym.SymbolType()
	id := netlist.NetID(sym.SymbolName())
	w := &netlist.Wire{Width: t.BitstreamWidth(), Signed: t.IsSigned(), Src: sym.Location(), Attributes: attrs}
	m.AddWire(id, w)
	wires[sym] = w
}

func populateOne(ctx *sigeval.Context, sym svast.Symbol) {
	switch s := sym.(type) {
	case *svast.NetSymbol:
		w := ctx.WireFor(s)
		w.IsPort = s.IsPort
		w.Direction = s.Direction
		if s.Initializer != nil {
			rhs := sigeval.EvaluateRHS(ctx, s.Initializer)
			ctx.Module.Connect(w.AsSignal(), rhs, s.Location())
		}
	case *svast.VariableSymbol:
		populateVariable(ctx, s)
	case *svast.ParameterSymbol, *svast.FormalArgumentSymbol:
		// carry no netlist presence of their own; reads resolve directly
		// through evaluate_rhs's NamedValue cases.
	case *svast.ContinuousAssignSymbol:
		lhs := sigeval.EvaluateLHS(ctx, s.Left)
		rhs := sigeval.EvaluateRHS(ctx, s.Right)
		ctx.Module.Connect(lhs, rhs, s.Location())
	case *svast.InstanceSymbol:
		populateInstance(ctx, s)
	case *svast.ProceduralBlockSymbol:
		populateProceduralBlock(ctx, s)
	case *svast.GenerateBlockSymbol:
		if s.Instantiated {
			for _, member := range s.Members {
				populateOne(ctx, member)
			}
		}
	default:
		diag.Unsupported(sym.Location(), "internal/populate", "", "populate: unimplemented symbol kind %T", sym)
	}
}

// populateVariable attaches an "init" attribute point 2's
// Variable case: the constant-folded initializer, or the type's default
// value if none, skipped entirely when that default would itself be
// fully-undefined (an all-X value on a four-state type carries no
// information worth recording).
func populateVariable(ctx *sigeval.Context, s *svast.VariableSymbol) {
	w := ctx.WireFor(s)
	if s.Initializer != nil {
		if f, ok := s.Initializer.(svast.Folder); ok {
			if c := f.FoldedConstant(); c != nil {
				w.Init = c
				return
			}
		}
		diag.Semantic(s.Initializer.Location(), "variable initializer must be a compile-time constant")
		return
	}
	def := defaultValue(w.Width, s.SymbolType().IsFourState)
	if def == nil {
		return
	}
	w.Init = def
}

// defaultValue returns nil when the type's default is fully-undefined
// (four-state, no explicit initializer), skipping a meaningless all-X init
// attribute rather than attaching one. Two-state types default to
// all-zero, which is never skipped.
func defaultValue(width int, fourState bool) *svast.Constant {
	bits := make([]svast.Bit, width)
	fill := svast.Bit0
	if fourState {
		fill = svast.BitX
	}
	for i := range bits {
		bits[i] = fill
	}
	c := svast.Constant{Bits: bits}
	if fourState && !c.IsFullyDefined() {
		return nil
	}
	return &c
}
