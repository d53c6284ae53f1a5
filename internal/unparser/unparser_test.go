package unparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/unparser"
)

func literalEffect(file string, start, end uint32, seq int, replacement string) model.Effect {
	return model.Effect{
		Binding:     model.RangeBinding(file, start, end),
		Replacement: model.ResolvedPattern{Kind: model.KindBinding, Binding: model.LiteralBinding(replacement)},
		Kind:        model.EffectRewrite,
		Seq:         seq,
	}
}

func TestApplyEffectsRewritesNonOverlappingSpans(t *testing.T) {
	files := map[string][]byte{"a.go": []byte("package main\n\nfunc Foo() {}\n")}
	effects := []model.Effect{
		literalEffect("a.go", 5, 9, 0, "PKG"),
	}

	out, err := unparser.ApplyEffects(files, effects)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a.go", out[0].Path)
	assert.True(t, out[0].Rewrote)
	assert.Equal(t, "packaPKGain\n\nfunc Foo() {}\n", out[0].Body)
}

func TestApplyEffectsSortsByStartThenSeq(t *testing.T) {
	files := map[string][]byte{"a.go": []byte("0123456789")}
	effects := []model.Effect{
		literalEffect("a.go", 5, 6, 1, "B"),
		literalEffect("a.go", 0, 1, 0, "A"),
	}

	out, err := unparser.ApplyEffects(files, effects)
	require.NoError(t, err)
	assert.Equal(t, "A1234B6789", out[0].Body)
}

func TestApplyEffectsZeroWidthInsertsAtSamePositionUseSeqOrder(t *testing.T) {
	files := map[string][]byte{"a.go": []byte("abc")}
	effects := []model.Effect{
		literalEffect("a.go", 1, 1, 1, "Y"),
		literalEffect("a.go", 1, 1, 0, "X"),
	}

	out, err := unparser.ApplyEffects(files, effects)
	require.NoError(t, err)
	assert.Equal(t, "aXYbc", out[0].Body)
}

func TestApplyEffectsOverlapIsConflict(t *testing.T) {
	files := map[string][]byte{"a.go": []byte("0123456789")}
	effects := []model.Effect{
		literalEffect("a.go", 0, 5, 0, "A"),
		literalEffect("a.go", 3, 8, 1, "B"),
	}

	_, err := unparser.ApplyEffects(files, effects)
	require.Error(t, err)
	engineErr, ok := err.(*model.EngineError)
	require.True(t, ok)
	assert.Equal(t, model.ErrEffectConflict, engineErr.Kind)
}

func TestApplyEffectsUnknownFileIsInternalError(t *testing.T) {
	effects := []model.Effect{literalEffect("missing.go", 0, 1, 0, "x")}
	_, err := unparser.ApplyEffects(map[string][]byte{}, effects)
	require.Error(t, err)
	engineErr, ok := err.(*model.EngineError)
	require.True(t, ok)
	assert.Equal(t, model.ErrInternal, engineErr.Kind)
}

func TestApplyEffectsNoEffectsProducesNoResults(t *testing.T) {
	out, err := unparser.ApplyEffects(map[string][]byte{"a.go": []byte("x")}, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
