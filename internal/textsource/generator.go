package textsource

import (
	"math/rand"
	"strings"
	"unicode"
)

// Generator produces randomized sample texts from a word list.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator drawing from rnd.
func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// GenerateOptions controls sample generation.
type GenerateOptions struct {
	Words    int
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generate selects words uniformly, applies caps/punctuation rules and joins
// them with single spaces.
func (g *Generator) Generate(words []string, opts GenerateOptions) string {
	if len(words) == 0 || opts.Words <= 0 {
		return ""
	}
	result := make([]string, 0, opts.Words)
	for i := 0; i < opts.Words; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, opts.CapsPct)
		word = applyPunct(g.rnd, word, opts.PunctPct, opts.PunctSet)
		result = append(result, word)
	}
	return strings.Join(result, " ")
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
