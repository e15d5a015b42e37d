package proclower

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func (l *Lowerer) lowerCallStatement(call *svast.CallExpr) {
	switch call.Kind {
	case svast.CallSystemDisplay:
		l.lowerDisplay(call)
	case svast.CallSystemEmptyStatement:
		// this accommodated no-op system task: flagged, not rejected.
		l.warn(call.Location(), "%s ignored", call.Name)
	default:
		diag.Unsupported(call.Location(), internalLoc(), "", "unsupported system-task call kind %d (%s)", call.Kind, call.Name)
	}
}

// lowerDisplay implements this "System tasks" paragraph: a
// $display statement becomes a print cell whose arguments are classified as
// time/realtime specials or evaluated integer signals (no string-literal
// case: this AST layer folds any literal-string argument into
// CallExpr.FormatString before elaboration sees the call, having no
// dedicated string-literal expression kind), triggered by the owning
// process's sync rules, gated by the path-to-current_case enable signal, and
// stamped with a monotonically decreasing priority.
func (l *Lowerer) lowerDisplay(call *svast.CallExpr) {
	loc := call.Location()

	args := make([]netlist.PrintArg, 0, len(call.Args))
	for _, a := range call.Args {
		if ce, ok := a.(*svast.CallExpr); ok {
			switch ce.Kind {
			case svast.CallSystemTime:
				args = append(args, netlist.PrintArg{Kind: netlist.PrintArgTime})
				continue
			case svast.CallSystemRealtime:
				args = append(args, netlist.PrintArg{Kind: netlist.PrintArgRealtime})
				continue
			case svast.CallSystemStime:
				args = append(args, netlist.PrintArg{Kind: netlist.PrintArgStime})
				continue
			}
		}
		v := sigeval.EvaluateRHS(l.Ctx, a)
		args = append(args, netlist.PrintArg{Kind: netlist.PrintArgSigned, Value: v, Signed: a.ExprType().IsSigned()})
	}

	trigger := make([]netlist.SyncRule, len(l.Process.Syncs))
	for i, s := range l.Process.Syncs {
		trigger[i] = netlist.SyncRule{Kind: s.Kind, Signal: s.Signal}
	}

	cell := &netlist.Cell{
		ID:        l.Ctx.Builder.Alloc.NewCellID(),
		Kind:      netlist.CellPrint,
		Name:      l.Ctx.Module.NextCellName("print"),
		Format:    call.FormatString + "\n",
		PrintArgs: args,
		Trigger:   trigger,
		Enable:    l.currentEnable(),
		Priority:  l.nextPrintPriority(),
		Src:       loc,
	}
	l.Ctx.Module.AddCell(cell)
}

// InlineFunction implements this "Function inlining": it runs the
// full procedural traversal over the subroutine's body in a fresh process,
// with ctx.args bound to the evaluated call arguments, and returns the value
// read back from the function's return-value symbol through its staging
// map. It has the shape sigeval.Context.Inliner expects; the Module
// Populator binds it once per populated module.
//
// The return-value symbol and every local variable get a fresh wire scoped
// to this call, not a shared entry in ctx.Wires: two call sites (or two
// invocations of the same recursive-looking call, though recursion itself
// is out of scope) inlining the same subroutine must not alias each other's
// local storage.
func InlineFunction(ctx *sigeval.Context, call *svast.CallExpr) netlist.Signal {
	sub := call.Subroutine
	if sub == nil {
		diag.Internal("CallUserFunction reached with a nil Subroutine")
	}
	if len(call.Args) != len(sub.FormalArgs) {
		diag.Semantic(call.Location(), "function %q called with %d arguments, expected %d", sub.Name, len(call.Args), len(sub.FormalArgs))
	}

	args := make(map[string]netlist.Signal, len(sub.FormalArgs))
	for i, formal := range sub.FormalArgs {
		args[formal.SymbolName()] = sigeval.EvaluateRHS(ctx, call.Args[i])
	}

	wires := make(map[svast.Symbol]*netlist.Wire, len(ctx.Wires)+1+len(sub.LocalVariables))
	for k, v := range ctx.Wires {
		wires[k] = v
	}
	addLocal := func(sym svast.Symbol) {
		t := sym.SymbolType()
		w := &netlist.Wire{Name: ctx.Module.NextCellName("fnvar"), Width: t.BitstreamWidth(), Signed: t.IsSigned(), Src: sym.Location()}
		ctx.Module.AddWire(w.Name, w)
		wires[sym] = w
	}
	if sub.ReturnValue != nil {
		addLocal(sub.ReturnValue)
	}
	for _, lv := range sub.LocalVariables {
		addLocal(lv)
	}

	fnCtx := sigeval.NewContext(ctx.Builder, ctx.Module, wires)
	fnCtx.Args = args
	fnCtx.Inliner = ctx.Inliner

	id := ctx.Builder.Alloc.NewProcessID()
	fn := NewLowerer(fnCtx, id, sub.Name, call.Location())
	fn.LowerStmt(sub.Body)
	fn.StagingDone()
	ctx.Module.AddProcess(fn.Process)

	if sub.ReturnValue == nil {
		diag.Semantic(call.Location(), "function %q has no return value", sub.Name)
	}
	retWire := fnCtx.WireFor(sub.ReturnValue)
	retSig := retWire.AsSignal()
	out := make(netlist.Signal, len(retSig))
	for i, bit := range retSig {
		if sb, ok := fn.Staging[bit]; ok {
			out[i] = sb
		} else {
			out[i] = bit
		}
	}
	return out
}
