package sigeval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/sv-elab/internal/sigeval"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

func TestTranslateIndexInRangeConstantIndex(t *testing.T) {
	ctx := newCtx(t)
	idx := constExpr(svast.Bit1, svast.Bit1) // 3
	rng := svast.FixedRange{Left: 7, Right: 0, LittleEndian: true}

	raw, valid := sigeval.TranslateIndex(ctx, idx, rng, srcloc.None)
	require.True(t, raw.IsFullyDefinedConst())
	require.True(t, valid.IsFullyDefinedConst())
	require.Equal(t, svast.Bit1, valid.AsConstant().Bits[0])
}

func TestTranslateIndexOutOfRangeConstantIndex(t *testing.T) {
	ctx := newCtx(t)
	// idx = 3'b101 = 5, range is only 4 wide [3:0] -> out of range.
	idx := constExpr(svast.Bit1, svast.Bit0, svast.Bit1)
	rng := svast.FixedRange{Left: 3, Right: 0, LittleEndian: true}

	_, valid := sigeval.TranslateIndex(ctx, idx, rng, srcloc.None)
	require.True(t, valid.IsFullyDefinedConst())
	require.Equal(t, svast.Bit0, valid.AsConstant().Bits[0])
}
