package sentiment

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-sentiment/internal/types"
)

func TestAnalyzeFinancialPositive(t *testing.T) {
	a := NewTextAnalyzer()
	res := a.Analyze(context.Background(), "strong profit growth")

	assert.Equal(t, types.LabelPositive, res.Label)
	assert.Subset(t, res.Keywords, []string{"strong", "profit", "growth"})
	// three lexicon hits at +2 plus three term adjustments
	assert.InDelta(t, 10.5, res.Score, 1e-9)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.InDelta(t, 2.0, res.Comparative, 1e-9)
}

func TestAnalyzeFinancialNegative(t *testing.T) {
	a := NewTextAnalyzer()
	res := a.Analyze(context.Background(), "Company reports heavy loss amid debt crisis")

	assert.Equal(t, types.LabelNegative, res.Label)
	assert.Subset(t, res.Keywords, []string{"loss", "debt", "crisis"})
	assert.Less(t, res.Score, -1.0)
	assert.InDelta(t, res.Magnitude, -res.Score, 1e-9)
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := NewTextAnalyzer()
	res := a.Analyze(context.Background(), "")

	assert.Equal(t, types.LabelNeutral, res.Label)
	assert.Zero(t, res.Score)
	assert.Zero(t, res.Comparative)
	assert.InDelta(t, 0.3, res.Confidence, 1e-9)
	require.NotNil(t, res.Keywords)
	assert.Empty(t, res.Keywords)
}

func TestAnalyzeNeutralKeywordBoostsConfidence(t *testing.T) {
	a := NewTextAnalyzer()
	res := a.Analyze(context.Background(), "Markets hold flat")

	assert.Equal(t, types.LabelNeutral, res.Label)
	assert.Equal(t, []string{"hold", "flat"}, res.Keywords)
	assert.InDelta(t, 0.39, res.Confidence, 1e-9)
}

func TestAnalyzeUsesGeneralLexicon(t *testing.T) {
	a := NewTextAnalyzer()

	// shares +1, stable +2; "stable" is also a neutral keyword
	res := a.Analyze(context.Background(), "Shares remain stable")
	assert.Equal(t, types.LabelPositive, res.Label)
	assert.InDelta(t, 3.0, res.Score, 1e-9)
	assert.InDelta(t, 1.0, res.Comparative, 1e-9)
	assert.Equal(t, []string{"stable"}, res.Keywords)

	res = a.Analyze(context.Background(), "Regulator alleges fraudulent accounting")
	assert.Equal(t, types.LabelNegative, res.Label)
	assert.InDelta(t, -4.0, res.Score, 1e-9)
	assert.Empty(t, res.Keywords)
}

func TestLexicon(t *testing.T) {
	lex := afinn()
	assert.Greater(t, len(lex), 3000)
	assert.Equal(t, 3, lex["good"])
	assert.Equal(t, -3, lex["bankrupt"])
	assert.Equal(t, 5, lex["outstanding"])
	assert.Equal(t, -4, lex["fraud"])
	for word, v := range lex {
		assert.Equal(t, strings.ToLower(word), word)
		assert.NotContains(t, word, " ")
		assert.True(t, v >= -5 && v <= 5, word)
	}
}

func TestParseLexicon(t *testing.T) {
	lex, err := parseLexicon("good\t3\n\nbad\t-3\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"good": 3, "bad": -3}, lex)

	_, err = parseLexicon("good 3\n")
	assert.ErrorContains(t, err, "line 1")

	_, err = parseLexicon("good\tthree\n")
	assert.Error(t, err)
}

func TestAnalyzeNegationFlipsWeight(t *testing.T) {
	a := NewTextAnalyzer()

	res := a.Analyze(context.Background(), "not good")
	assert.Equal(t, types.LabelNegative, res.Label)
	assert.InDelta(t, -3.0, res.Score, 1e-9)
	assert.InDelta(t, 0.375, res.Confidence, 1e-9)

	res = a.Analyze(context.Background(), "It’s not good")
	assert.InDelta(t, -3.0, res.Score, 1e-9)
}

func TestAnalyzeComparative(t *testing.T) {
	a := NewTextAnalyzer()
	res := a.Analyze(context.Background(), "Good, good... bad!")

	assert.InDelta(t, 3.0, res.Score, 1e-9)
	assert.InDelta(t, 1.0, res.Comparative, 1e-9)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := NewTextAnalyzer()
	text := "Analysts upgrade outlook despite volatility concerns"
	first := a.Analyze(context.Background(), text)
	second := a.Analyze(context.Background(), text)
	assert.Equal(t, first, second)
}

func TestAnalyzeBounds(t *testing.T) {
	a := NewTextAnalyzer()
	texts := []string{
		"",
		"the",
		"crash crash crash bankruptcy default crisis layoffs closure fraud",
		"rally surge boom breakthrough success earnings revenue dividend",
		"Markets were flat and mixed with cautious review of analysis",
	}
	for _, text := range texts {
		res := a.Analyze(context.Background(), text)
		assert.Contains(t, []types.Label{types.LabelPositive, types.LabelNegative, types.LabelNeutral}, res.Label, text)
		assert.GreaterOrEqual(t, res.Confidence, 0.1, text)
		assert.LessOrEqual(t, res.Confidence, 1.0, text)
		assert.GreaterOrEqual(t, res.Magnitude, 0.0, text)
	}
}

func TestAnalyzeConcurrentUse(t *testing.T) {
	a := NewTextAnalyzer()
	want := a.Analyze(context.Background(), "record earnings beat estimates")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := a.Analyze(context.Background(), "record earnings beat estimates")
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
