// Package score assigns argument strength defaults, priorities, the
// strongest-argument ranking, and the recommended response structure.
package score

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/motionscope/internal/model"
)

// Scorer prioritizes arguments
type Scorer struct {
	// maxStrongest caps the strongest_arguments list
	maxStrongest int
}

// NewScorer creates a scorer
func NewScorer(maxStrongest int) *Scorer {
	if maxStrongest <= 0 {
		maxStrongest = 5
	}
	return &Scorer{maxStrongest: maxStrongest}
}

// Score assigns priorities in place and derives the strongest-argument ids
// and the recommended response plan.
//
// Priority is a composite ordering: strength first, then membership in the
// largest group, then original discovery order as a stable tie-break.
// Arguments with equal strength and group size share a priority value, so
// several arguments can hold priority 1.
func (s *Scorer) Score(arguments []model.Argument, groups []model.ArgumentGroup) ([]model.Argument, []string, []string) {
	if len(arguments) == 0 {
		return arguments, []string{}, []string{}
	}

	// Strength defaults to moderate when the extraction left it unset
	for i := range arguments {
		if arguments[i].Strength == "" {
			arguments[i].Strength = model.StrengthModerate
		}
	}

	groupSize := largestGroupSizes(arguments, groups)

	order := make([]int, len(arguments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ai, bi := order[a], order[b]
		ra, rb := arguments[ai].Strength.Rank(), arguments[bi].Strength.Rank()
		if ra != rb {
			return ra > rb
		}
		if groupSize[ai] != groupSize[bi] {
			return groupSize[ai] > groupSize[bi]
		}
		return ai < bi
	})

	// Dense rank: the priority increments only when the composite key changes
	priority := 0
	prevRank, prevSize := -1, -1
	for _, idx := range order {
		if arguments[idx].Strength.Rank() != prevRank || groupSize[idx] != prevSize {
			priority++
			prevRank, prevSize = arguments[idx].Strength.Rank(), groupSize[idx]
		}
		arguments[idx].Priority = priority
	}

	strongest := s.strongestIDs(arguments)
	plan := s.responsePlan(arguments, groups, order)
	return arguments, strongest, plan
}

// strongestIDs collects priority-1 arguments in discovery order, capped
func (s *Scorer) strongestIDs(arguments []model.Argument) []string {
	ids := []string{}
	for _, a := range arguments {
		if a.Priority == 1 {
			ids = append(ids, a.ID)
			if len(ids) >= s.maxStrongest {
				break
			}
		}
	}
	return ids
}

// responsePlan emits one directive per top-priority group or argument, in
// priority order. A group is planned once, when its highest-priority member
// is reached.
func (s *Scorer) responsePlan(arguments []model.Argument, groups []model.ArgumentGroup, order []int) []string {
	memberGroups := make(map[string][]int)
	for gi, g := range groups {
		for _, id := range g.MemberArgumentIDs {
			memberGroups[id] = append(memberGroups[id], gi)
		}
	}

	plan := []string{}
	planned := make(map[int]bool)    // group index -> planned
	covered := make(map[string]bool) // argument id -> covered by a group directive

	for _, idx := range order {
		a := arguments[idx]
		gis := memberGroups[a.ID]

		if len(gis) == 0 {
			if !covered[a.ID] {
				plan = append(plan, fmt.Sprintf("Rebut %s (%s): %s", a.ID, a.Strength, snippet(a.Text)))
			}
			continue
		}

		for _, gi := range gis {
			if planned[gi] {
				continue
			}
			planned[gi] = true
			g := groups[gi]
			plan = append(plan, fmt.Sprintf("Address the %q cluster as a unit (%s): counter %s",
				g.GroupName, g.CombinedStrength, strings.Join(g.MemberArgumentIDs, ", ")))
			for _, id := range g.MemberArgumentIDs {
				covered[id] = true
			}
		}
	}

	return plan
}

// largestGroupSizes maps each argument to the size of the largest group
// containing it (0 when ungrouped)
func largestGroupSizes(arguments []model.Argument, groups []model.ArgumentGroup) []int {
	byID := make(map[string]int, len(arguments))
	for i, a := range arguments {
		byID[a.ID] = i
	}

	sizes := make([]int, len(arguments))
	for _, g := range groups {
		n := len(g.MemberArgumentIDs)
		for _, id := range g.MemberArgumentIDs {
			if idx, ok := byID[id]; ok && n > sizes[idx] {
				sizes[idx] = n
			}
		}
	}
	return sizes
}

func snippet(text string) string {
	const max = 80
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	cut := strings.LastIndexByte(text[:max], ' ')
	if cut <= 0 {
		cut = max
		// Back up to a rune boundary so the cut never splits a character
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return text[:cut] + "..."
}
