package proclower

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// LowerStmt dispatches on the statement's concrete kind; any kind not recognized here is fatal.
func (l *Lowerer) LowerStmt(s svast.Stmt) {
	switch st := s.(type) {
	case *svast.BlockStmt:
		l.lowerBlock(st)
	case *svast.IfStmt:
		l.lowerIf(st)
	case *svast.CaseStmt:
		l.lowerCase(st)
	case *svast.ExpressionStmt:
		l.lowerExpressionStmt(st)
	case *svast.EmptyStmt:
		// a bare `;`: no-op.
	default:
		diag.Unsupported(s.Location(), internalLoc(), "", "lower_stmt: unimplemented statement kind %T", s)
	}
}

func (l *Lowerer) lowerExpressionStmt(s *svast.ExpressionStmt) {
	switch e := s.Expr.(type) {
	case *svast.AssignmentExpr:
		l.LowerAssignment(e)
	case *svast.CallExpr:
		l.lowerCallStatement(e)
	default:
		diag.Unsupported(s.Location(), internalLoc(), "", "lower_stmt: unimplemented expression-statement kind %T", s.Expr)
	}
}
