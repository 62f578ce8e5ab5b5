// Package normalize canonicalizes raw argument candidates: assigns stable
// per-analysis ids in discovery order and merges near-duplicate candidates
// raised in the same or adjacent motion sections.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ppiankov/motionscope/internal/model"
	"github.com/ppiankov/motionscope/internal/taxonomy"
)

// Normalizer merges duplicate candidates and assigns argument ids
type Normalizer struct {
	// threshold is the token-set Jaccard overlap above which two candidates
	// in the same or adjacent sections are considered the same argument
	threshold float64
}

// NewNormalizer creates a normalizer with the given similarity threshold
func NewNormalizer(threshold float64) *Normalizer {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	return &Normalizer{threshold: threshold}
}

// merged accumulates one argument across its duplicate candidates
type merged struct {
	text       string
	category   string
	section    string // first occurrence
	sectionOrd int    // first occurrence
	strength   model.StrengthLevel
	citations  []model.Citation
	citeSeen   map[string]bool
	sources    []int // original candidate indices
}

// NormalizeAndDedupe merges duplicates and returns arguments in discovery
// order with fresh ids (arg_001, arg_002, ...). The second return value maps
// each argument to the indices of other arguments the capability flagged as
// related, for the grouping engine.
func (n *Normalizer) NormalizeAndDedupe(candidates []model.RawArgumentCandidate) ([]model.Argument, [][]int) {
	ordinals := sectionOrdinals(candidates)

	var entries []*merged
	candidateToEntry := make([]int, len(candidates))

	for i, c := range candidates {
		ord := ordinals[sectionKey(c.Section)]
		tokens := tokenSet(c.Text)

		target := -1
		for j, e := range entries {
			if absInt(e.sectionOrd-ord) > 1 && absInt(lastSourceOrd(candidates, ordinals, e)-ord) > 1 {
				continue
			}
			if jaccard(tokens, tokenSet(e.text)) >= n.threshold {
				target = j
				break
			}
		}

		if target < 0 {
			e := &merged{
				text:       c.Text,
				category:   c.Category,
				section:    c.Section,
				sectionOrd: ord,
				strength:   c.Strength,
				citeSeen:   make(map[string]bool),
				sources:    []int{i},
			}
			for _, cite := range c.Citations {
				e.addCitation(cite)
			}
			entries = append(entries, e)
			candidateToEntry[i] = len(entries) - 1
			continue
		}

		e := entries[target]
		e.merge(c)
		e.sources = append(e.sources, i)
		candidateToEntry[i] = target
	}

	arguments := make([]model.Argument, len(entries))
	for i, e := range entries {
		citations := e.citations
		if citations == nil {
			citations = []model.Citation{}
		}
		arguments[i] = model.Argument{
			ID:        fmt.Sprintf("arg_%03d", i+1),
			Text:      e.text,
			Category:  e.category,
			Location:  e.section,
			Strength:  e.strength,
			Citations: citations,
		}
	}

	related := relatedSets(candidates, candidateToEntry, len(entries))
	return arguments, related
}

// merge folds a duplicate candidate into an existing entry. The longer span
// wins the text and the suggested category; on equal length a predefined
// category beats a custom one. Location keeps the first occurrence.
func (e *merged) merge(c model.RawArgumentCandidate) {
	switch {
	case len(c.Text) > len(e.text):
		e.text = c.Text
		e.category = c.Category
	case len(c.Text) == len(e.text) && !taxonomy.IsPredefined(e.category) && taxonomy.IsPredefined(c.Category):
		e.category = c.Category
	}

	if c.Strength.Rank() > e.strength.Rank() {
		e.strength = c.Strength
	}

	for _, cite := range c.Citations {
		e.addCitation(cite)
	}
}

func (e *merged) addCitation(c model.Citation) {
	key := strings.ToLower(c.CaseName)
	if key == "" || e.citeSeen[key] {
		return
	}
	e.citeSeen[key] = true
	e.citations = append(e.citations, c)
}

// relatedSets maps candidate-level cross-references onto merged arguments
func relatedSets(candidates []model.RawArgumentCandidate, candidateToEntry []int, n int) [][]int {
	related := make([][]int, n)
	seen := make([]map[int]bool, n)
	for i := range seen {
		seen[i] = make(map[int]bool)
	}

	for i, c := range candidates {
		from := candidateToEntry[i]
		for _, r := range c.Related {
			if r < 0 || r >= len(candidateToEntry) {
				continue
			}
			to := candidateToEntry[r]
			if to == from || seen[from][to] {
				continue
			}
			seen[from][to] = true
			related[from] = append(related[from], to)
		}
	}
	return related
}

// sectionOrdinals orders section labels by first appearance, so "adjacent
// sections" is well defined even for non-numeric labels
func sectionOrdinals(candidates []model.RawArgumentCandidate) map[string]int {
	ordinals := make(map[string]int)
	for _, c := range candidates {
		key := sectionKey(c.Section)
		if _, ok := ordinals[key]; !ok {
			ordinals[key] = len(ordinals)
		}
	}
	return ordinals
}

func sectionKey(section string) string {
	return strings.ToLower(strings.TrimSpace(section))
}

// lastSourceOrd returns the section ordinal of the entry's latest source,
// so a theory spanning three consecutive sections still chains together
func lastSourceOrd(candidates []model.RawArgumentCandidate, ordinals map[string]int, e *merged) int {
	last := e.sources[len(e.sources)-1]
	return ordinals[sectionKey(candidates[last].Section)]
}

// tokenSet lowercases, strips punctuation, and splits into a token set
func tokenSet(text string) map[string]bool {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	set := make(map[string]bool)
	for _, tok := range strings.Fields(b.String()) {
		set[tok] = true
	}
	return set
}

// jaccard computes |A∩B| / |A∪B| over token sets
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
