package sentiment

import (
	"context"
	"math"
	"strings"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/types"
)

const (
	termAdjustment      = 1.5
	labelThreshold      = 1.0
	confidenceScale     = 8.0
	neutralBase         = 0.3
	neutralPerMagnitude = 0.2
	keywordBoost        = 1.3
	minConfidence       = 0.1
)

// TextAnalyzer scores free text against the AFINN-165 word list, then
// adjusts for financial vocabulary. It holds no mutable state.
type TextAnalyzer struct {
	lexicon map[string]int
}

var _ interfaces.TextAnalyzer = (*TextAnalyzer)(nil)

func NewTextAnalyzer() *TextAnalyzer {
	return &TextAnalyzer{lexicon: afinn()}
}

// Analyze never fails; empty text scores neutral.
func (a *TextAnalyzer) Analyze(_ context.Context, text string) types.SentimentResult {
	score, comparative := a.baseScore(text)

	lower := strings.ToLower(text)
	keywords := make([]string, 0)
	for _, w := range positiveTerms {
		if strings.Contains(lower, w) {
			score += termAdjustment
			keywords = append(keywords, w)
		}
	}
	for _, w := range negativeTerms {
		if strings.Contains(lower, w) {
			score -= termAdjustment
			keywords = append(keywords, w)
		}
	}
	for _, w := range neutralTerms {
		if strings.Contains(lower, w) {
			keywords = append(keywords, w)
		}
	}

	magnitude := math.Abs(score)
	var label types.Label
	var confidence float64
	switch {
	case score > labelThreshold:
		label = types.LabelPositive
		confidence = math.Min(score/confidenceScale, 1)
	case score < -labelThreshold:
		label = types.LabelNegative
		confidence = math.Min(magnitude/confidenceScale, 1)
	default:
		label = types.LabelNeutral
		confidence = neutralBase + neutralPerMagnitude*magnitude
	}

	if len(keywords) > 0 {
		confidence = math.Min(confidence*keywordBoost, 1)
	}

	return types.SentimentResult{
		Score:       score,
		Comparative: comparative,
		Label:       label,
		Confidence:  math.Max(confidence, minConfidence),
		Magnitude:   magnitude,
		Keywords:    keywords,
	}
}

// baseScore sums lexicon weights over tokens. A negator flips the sign of the
// word that immediately follows it.
func (a *TextAnalyzer) baseScore(text string) (score, comparative float64) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0, 0
	}
	total := 0
	for i, tok := range tokens {
		w, ok := a.lexicon[tok]
		if !ok {
			continue
		}
		if i > 0 && negators[tokens[i-1]] {
			w = -w
		}
		total += w
	}
	score = float64(total)
	return score, score / float64(len(tokens))
}
