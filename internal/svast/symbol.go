package svast

import "github.com/robert-at-pretension-io/sv-elab/internal/srcloc"

type symBase struct {
	Name string
	Loc  srcloc.Range
	Typ  Type
}

func (s symBase) SymbolName() string    { return s.Name }
func (s symBase) SymbolType() Type      { return s.Typ }
func (s symBase) Location() srcloc.Range { return s.Loc }

// Symbol is any value symbol the Module Populator's wire-adding pass visits
// plus the structural symbols (instances, generate
// blocks, procedural blocks, continuous assigns) its populating pass
// dispatches on.
type Symbol interface {
	SymbolName() string
	SymbolType() Type
	Location() srcloc.Range
	isSymbol()
}

// Attribute is a user-defined `(* name = value *)` AST attribute. Value
// holds either an integer or a string; the front end folds both kinds
// before handing the AST off.
type Attribute struct {
	Name        string
	IntValue    *int64
	StringValue *string
}

type PortDirection int

const (
	PortInput PortDirection = iota
	PortOutput
	PortInOut
)

// NetSymbol is a `wire`/`logic` net, optionally a port.
type NetSymbol struct {
	symBase
	IsPort      bool
	Direction   PortDirection
	Initializer Expr // continuous driver, nil if undriven
	Attributes  []Attribute
}

func (*NetSymbol) isSymbol() {}

// VariableSymbol is a procedural `logic`/`reg`-class variable, or a
// function's return-value/local/formal-argument storage.
type VariableSymbol struct {
	symBase
	Initializer Expr // nil if none; the populator attaches any folded initializer
	                 // and drops only a fully-undef type default
	Attributes  []Attribute
}

func (*VariableSymbol) isSymbol() {}

// ParameterSymbol carries its front-end-folded value; the evaluator never
// re-derives it.
type ParameterSymbol struct {
	symBase
	Value Constant
}

func (*ParameterSymbol) isSymbol() {}

// FormalArgumentSymbol names a subroutine parameter; NamedValueExpr with
// Kind == SymbolFormalArgument resolves it through the evaluation context's
// args map rather than this struct directly.
type FormalArgumentSymbol struct {
	symBase
	Direction PortDirection
}

func (*FormalArgumentSymbol) isSymbol() {}

// PortConnection binds one submodule port name to the caller-side
// expression connected to it.
type PortConnection struct {
	PortName  string
	Direction PortDirection
	Expr      Expr
}

// InstanceSymbol is a submodule instantiation.
type InstanceSymbol struct {
	symBase
	Body        *InstanceBody
	Connections []PortConnection
	Attributes  []Attribute
}

func (*InstanceSymbol) isSymbol() {}

// ContinuousAssignSymbol is a top-level `assign` statement.
type ContinuousAssignSymbol struct {
	symBase
	Left, Right Expr
}

func (*ContinuousAssignSymbol) isSymbol() {}

// ProceduralBlockKind selects the sync-rule set the Module Populator wires
// up.
type ProceduralBlockKind int

const (
	ProcAlwaysFF ProceduralBlockKind = iota
	ProcAlways
	ProcAlwaysComb
	ProcAlwaysLatch
	ProcInitial
	ProcFinal
)

// EdgeKind mirrors netlist.SyncKind but lives in the AST layer so the
// Module Populator can read timing controls without importing netlist.
type EdgeKind int

const (
	EdgePos EdgeKind = iota
	EdgeNeg
	EdgeAny
	EdgeImplicit // always/always_comb with no explicit @(...)
)

// TimingControlEvent is one `posedge sig` / `negedge sig` / bare `sig` term
// of an event-control sensitivity list.
type TimingControlEvent struct {
	Kind   EdgeKind
	Signal Expr // nil when Kind == EdgeImplicit
}

// ProceduralBlockSymbol is an always/always_ff/always_comb/initial/final
// block.
type ProceduralBlockSymbol struct {
	symBase
	Kind   ProceduralBlockKind
	Events []TimingControlEvent
	Body   Stmt
}

func (*ProceduralBlockSymbol) isSymbol() {}

// GenerateBlockSymbol is a resolved (already-elaborated) generate block;
// generate-loop/parameter elaboration itself is out of scope,
// so by the time we see one it is either instantiated with concrete
// members or entirely absent.
type GenerateBlockSymbol struct {
	symBase
	Instantiated bool
	Members      []Symbol
}

func (*GenerateBlockSymbol) isSymbol() {}

// Subroutine is a SystemVerilog function, inlined at every call site.
type Subroutine struct {
	Name           string
	Loc            srcloc.Range
	ReturnType     Type
	ReturnValue    *VariableSymbol
	FormalArgs     []*FormalArgumentSymbol
	Body           Stmt
	LocalVariables []*VariableSymbol
}

// InstanceBody is one elaborated module/interface definition: the set of
// member symbols the Module Populator's two passes walk.
type InstanceBody struct {
	Name         string // simple definition name, e.g. "counter"
	HierarchicalPath string
	Loc          srcloc.Range
	Members      []Symbol
	Attributes   []Attribute
	IsAnonymous  bool // anonymous instances produce no module
}
