package proclower

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// branch is one arm of an if/case statement: compare is the set of
// discriminator values that select it (nil for a default arm), body is the
// statement to run when it's selected (nil for a missing else).
type branch struct {
	compare []netlist.Signal
	body    svast.Stmt
}

func (l *Lowerer) lowerIf(s *svast.IfStmt) {
	if s.IsPattern {
		diag.Semantic(s.Location(), "pattern conditions in if statements are not supported")
	}
	loc := s.Location()
	condBool := l.Ctx.Builder.ReduceBool(sigeval.EvaluateRHS(l.Ctx, s.Cond), loc)

	branches := []branch{{compare: []netlist.Signal{{netlist.ConstBit(netlist.Bit1)}}, body: s.IfTrue}}
	if s.IfFalse != nil {
		branches = append(branches, branch{body: s.IfFalse})
	}

	sw := l.runSwitch(condBool, branches, loc)
	l.Cur.AddSwitch(sw)
	l.descend()
}

func (l *Lowerer) lowerCase(s *svast.CaseStmt) {
	if s.Condition != svast.CaseNormal {
		diag.Semantic(s.Location(), "casex/casez wildcard case conditions are not supported")
	}
	if s.Check != svast.CaseCheckNone {
		l.warn(s.Location(), "unique/priority case check is ignored")
	}
	loc := s.Location()
	discriminator := sigeval.EvaluateRHS(l.Ctx, s.Expr)

	branches := make([]branch, 0, len(s.Items))
	for _, item := range s.Items {
		if len(item.Exprs) == 0 {
			branches = append(branches, branch{body: item.Stmt})
			continue
		}
		cmp := make([]netlist.Signal, len(item.Exprs))
		for i, e := range item.Exprs {
			cmp[i] = sigeval.EvaluateRHS(l.Ctx, e)
		}
		branches = append(branches, branch{compare: cmp, body: item.Stmt})
	}

	sw := l.runSwitch(discriminator, branches, loc)
	l.Cur.AddSwitch(sw)
	l.descend()
}

func (l *Lowerer) lowerBlock(s *svast.BlockStmt) {
	for _, stmt := range s.Body {
		l.LowerStmt(stmt)
	}
}

// runSwitch implements this SwitchBuilder semantics: fork an
// independent rvalue_subs snapshot per branch, lower each branch's body into
// its own CaseRule, then merge. The merge allocates one fresh wire per
// substitution key any branch touched, defaults it to the pre-branch value
// on the parent case, and drives it to each branch's actual final value (or
// the pre-branch value, if that branch never touched the key) inside that
// branch's own CaseRule.
func (l *Lowerer) runSwitch(discriminator netlist.Signal, branches []branch, loc srcloc.Range) *netlist.SwitchRule {
	sw := &netlist.SwitchRule{Discriminator: discriminator}

	var allCompares [][]netlist.Signal
	for _, br := range branches {
		if br.compare != nil {
			allCompares = append(allCompares, br.compare)
		}
	}

	entrySubs := cloneSubs(l.Ctx.Subs)
	bodies := make([]*netlist.CaseRule, len(branches))
	branchSubs := make([]map[netlist.SigBit]netlist.SigBit, len(branches))

	savedCur := l.Cur
	for i, br := range branches {
		l.Ctx.Subs = cloneSubs(entrySubs)
		cond := branchCondition(l.Ctx, discriminator, br.compare, allCompares, loc)
		l.pushEnable(l.Ctx.Builder.LogicAnd(l.currentEnable(), cond, loc))

		child := netlist.NewCaseRule()
		l.Cur = child
		if br.body != nil {
			l.LowerStmt(br.body)
		}

		l.popEnable()
		bodies[i] = child
		branchSubs[i] = l.Ctx.Subs
		sw.Cases = append(sw.Cases, &netlist.SwitchCase{Compare: br.compare, Body: child})
	}
	l.Cur = savedCur

	union := map[netlist.SigBit]bool{}
	for _, subs := range branchSubs {
		for k, v := range subs {
			old, existed := entrySubs[k]
			if !existed || !old.Equal(v) {
				union[k] = true
			}
		}
	}

	merged := cloneSubs(entrySubs)
	for k := range union {
		fresh := l.freshWire(1, "merge").Bit(0)
		preVal, ok := entrySubs[k]
		if !ok {
			preVal = k
		}
		l.Cur.AddAction(netlist.Signal{fresh}, netlist.Signal{preVal})
		for i, subs := range branchSubs {
			val, ok := subs[k]
			if !ok {
				val = preVal
			}
			bodies[i].AddAction(netlist.Signal{fresh}, netlist.Signal{val})
		}
		merged[k] = fresh
	}
	l.Ctx.Subs = merged

	return sw
}

// branchCondition computes the boolean signal that is true exactly when
// this branch is the one selected: the OR of discriminator==v for each
// compare value, or — for the default arm (compare == nil) — the NOR of
// every sibling branch's condition.
func branchCondition(ctx *sigeval.Context, discriminator netlist.Signal, compare []netlist.Signal, allCompares [][]netlist.Signal, loc srcloc.Range) netlist.Signal {
	if compare == nil {
		var any netlist.Signal
		for _, cmp := range allCompares {
			for _, v := range cmp {
				eq := ctx.Builder.Eq(discriminator, v, loc)
				any = orSignal(ctx, any, eq, loc)
			}
		}
		if any == nil {
			return netlist.Signal{netlist.ConstBit(netlist.Bit1)}
		}
		return ctx.Builder.LogicNot(any, loc)
	}
	var cond netlist.Signal
	for _, v := range compare {
		eq := ctx.Builder.Eq(discriminator, v, loc)
		cond = orSignal(ctx, cond, eq, loc)
	}
	return cond
}

func orSignal(ctx *sigeval.Context, acc, next netlist.Signal, loc srcloc.Range) netlist.Signal {
	if acc == nil {
		return next
	}
	return ctx.Builder.LogicOr(acc, next, loc)
}
