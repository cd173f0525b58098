package sentiment

import (
	"bufio"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Financial vocabulary. Presence of any of these words in a text adjusts
// its score and is reported as a keyword.
var (
	positiveTerms = []string{
		"profit", "growth", "surge", "rally", "bullish", "outperform", "beat", "exceed",
		"strong", "robust", "solid", "gain", "rise", "boom", "expansion", "recovery",
		"upgrade", "optimistic", "positive", "buy", "momentum", "breakthrough", "success",
		"earnings", "revenue", "dividend", "buyback", "acquisition", "partnership",
	}
	negativeTerms = []string{
		"loss", "decline", "fall", "drop", "crash", "bearish", "underperform", "miss",
		"weak", "poor", "disappointing", "concern", "risk", "uncertainty", "volatility",
		"downgrade", "pessimistic", "negative", "sell", "pressure", "challenge", "crisis",
		"debt", "default", "bankruptcy", "restructuring", "layoff", "closure",
	}
	neutralTerms = []string{
		"stable", "steady", "maintain", "hold", "sideways", "consolidation", "mixed",
		"unchanged", "flat", "neutral", "cautious", "watchful", "review", "analysis",
	}
)

// afinnData is the single-word part of the AFINN-165 valence list
// (Finn Årup Nielsen), one "word<TAB>weight" pair per line, weights -5..5.
//
//go:embed afinn165.txt
var afinnData string

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "don't": true, "doesn't": true,
	"didn't": true, "isn't": true, "wasn't": true, "aren't": true, "won't": true,
	"can't": true, "cannot": true, "neither": true, "nor": true,
}

// parseLexicon reads tab separated word weights. Blank lines are skipped.
func parseLexicon(data string) (map[string]int, error) {
	lex := make(map[string]int, 3300)
	sc := bufio.NewScanner(strings.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		word, weight, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("lexicon line %d: missing weight", line)
		}
		v, err := strconv.Atoi(strings.TrimSpace(weight))
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		lex[strings.TrimSpace(word)] = v
	}
	return lex, sc.Err()
}

var (
	lexiconOnce sync.Once
	lexicon     map[string]int
)

// afinn returns the shared parsed lexicon. It is read-only after the first call.
func afinn() map[string]int {
	lexiconOnce.Do(func() {
		lex, err := parseLexicon(afinnData)
		if err != nil {
			panic(err)
		}
		lexicon = lex
	})
	return lexicon
}

// tokenize lowercases text and splits it on anything that is not a letter,
// digit, apostrophe or hyphen.
func tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\'' && r != '-'
	})
}
