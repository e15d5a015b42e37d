package netlist

import "github.com/robert-at-pretension-io/sv-elab/internal/srcloc"

// SyncKind is the trigger kind of a SyncRule.
type SyncKind int

const (
	SyncPosedge SyncKind = iota
	SyncNegedge
	SyncAnyedge
	SyncAlways // implicit event, e.g. always_comb
)

func (k SyncKind) String() string {
	switch k {
	case SyncPosedge:
		return "posedge"
	case SyncNegedge:
		return "negedge"
	case SyncAnyedge:
		return "anyedge"
	case SyncAlways:
		return "always"
	default:
		return "unknown"
	}
}

// SyncRule is "(kind, signal)"; Signal is nil (empty) for
// SyncAlways.
type SyncRule struct {
	Kind    SyncKind
	Signal  Signal // single bit for edge kinds
	Actions []Action
}

// Action is one lvalue<-rvalue write, applied in declaration order within
// its owning CaseRule/SyncRule.
type Action struct {
	LHS Signal
	RHS Signal
}

// CaseRule is an ordered list of actions followed by nested switches, which
// "execute after that rule's actions"
type CaseRule struct {
	Actions  []Action
	Switches []*SwitchRule
}

// SwitchRule is a discriminator signal plus an ordered list of case
// alternatives.
type SwitchRule struct {
	Discriminator Signal
	Cases         []*SwitchCase
}

// SwitchCase pairs a set of compare values (empty for default) with the
// CaseRule to run when one matches.
type SwitchCase struct {
	Compare []Signal
	Body    *CaseRule
}

// Process is a root case tree plus an ordered list of sync rules, one per
// always/always_ff/always_comb block or inlined function.
type Process struct {
	ID       string
	Name     string
	RootCase *CaseRule
	Syncs    []SyncRule
	Src      srcloc.Range
}

// NewCaseRule returns an empty CaseRule ready to receive actions/switches.
func NewCaseRule() *CaseRule {
	return &CaseRule{}
}

// AddAction appends an action in declaration order.
func (c *CaseRule) AddAction(lhs, rhs Signal) {
	c.Actions = append(c.Actions, Action{LHS: lhs, RHS: rhs})
}

// AddSwitch appends a nested switch, which will execute after c's own
// actions per the ordering invariant.
func (c *CaseRule) AddSwitch(sw *SwitchRule) {
	c.Switches = append(c.Switches, sw)
}
