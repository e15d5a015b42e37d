package svast

import "github.com/robert-at-pretension-io/sv-elab/internal/srcloc"

type stmtBase struct {
	stmtNode
	Loc srcloc.Range
}

func (s stmtBase) Location() srcloc.Range { return s.Loc }

// BlockStmt is a sequential procedural block: the lowerer recurses straight
// into Body. A `fork`/`join` parallel block is unimplemented.
type BlockStmt struct {
	stmtBase
	Body []Stmt
}

// IfStmt. IsPattern being true (a pattern in the if/case condition) is
// fatal.
type IfStmt struct {
	stmtBase
	IsPattern bool
	Cond      Expr
	IfTrue    Stmt
	IfFalse   Stmt // nil if no else branch
}

// CaseCondition distinguishes plain `case` from `casex`/`casez`; only
// Normal is supported.
type CaseCondition int

const (
	CaseNormal CaseCondition = iota
	CaseWildcardX
	CaseWildcardZ
)

// CaseCheckKind records unique/priority so the diagnostic layer can emit
// an ignorable warning when the check can't be honored structurally.
type CaseCheckKind int

const (
	CaseCheckNone CaseCheckKind = iota
	CaseCheckUnique
	CaseCheckPriority
	CaseCheckUnique0
)

type CaseItem struct {
	Exprs []Expr // empty for the default item
	Stmt  Stmt
}

type CaseStmt struct {
	stmtBase
	Expr      Expr
	Condition CaseCondition
	Check     CaseCheckKind
	Items     []CaseItem
	HasDefault bool
}

// ExpressionStmt wraps an AssignmentExpr or a system-task CallExpr used as
// a statement.
type ExpressionStmt struct {
	stmtBase
	Expr Expr
}

// EmptyStmt is a bare `;` or a construct the front end folded away to
// nothing; distinct from the `$empty_statement`-shaped no-op system call,
// which is a CallExpr of Kind CallSystemEmptyStatement instead.
type EmptyStmt struct {
	stmtBase
}
