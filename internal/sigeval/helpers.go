package sigeval

import "github.com/robert-at-pretension-io/sv-elab/internal/svast"

// ConstantInt reports whether e folds to a fully-defined integer constant,
// returning its two's-complement value. Unlike foldedInt this never raises a
// diagnostic on a non-constant expression: internal/proclower's lvalue
// etcher uses it to decide whether a RangeSelect/ElementSelect layer's index
// is static (foldable in place) or must fall through to the dynamic etching
// path.
func ConstantInt(e svast.Expr) (int, bool) {
	f, ok := e.(svast.Folder)
	if !ok {
		return 0, false
	}
	c := f.FoldedConstant()
	if c == nil || !c.IsFullyDefined() {
		return 0, false
	}
	return constIntFromBits(c.Bits, c.Signed), true
}
