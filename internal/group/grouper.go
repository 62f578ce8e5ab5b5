// Package group clusters arguments into strategic argument-groups by legal
// theory overlap: shared citations, shared category family, and explicit
// cross-references reported by the extraction pass.
package group

import (
	"sort"
	"strings"

	"github.com/ppiankov/motionscope/internal/model"
	"github.com/ppiankov/motionscope/internal/taxonomy"
)

// Grouper builds argument groups
type Grouper struct {
	// displayName resolves a category key for group naming
	displayName func(key string) string
}

// NewGrouper creates a grouper. displayName may be nil; keys are then used
// verbatim in group names.
func NewGrouper(displayName func(key string) string) *Grouper {
	if displayName == nil {
		displayName = func(key string) string { return key }
	}
	return &Grouper{displayName: displayName}
}

// Group clusters arguments that share an underlying legal theory. Clusters
// are built per relation basis rather than as one partition, so an argument
// may appear in several groups. Single-argument clusters are not emitted.
func (g *Grouper) Group(arguments []model.Argument, related [][]int) []model.ArgumentGroup {
	// Non-nil so an analysis without clusters serializes as an empty array
	groups := []model.ArgumentGroup{}
	seen := make(map[string]bool) // member-set signature -> emitted

	emit := func(members []int, name string) {
		if len(members) < 2 {
			return
		}
		sort.Ints(members)
		sig := signature(members)
		if seen[sig] {
			return
		}
		seen[sig] = true

		ids := make([]string, len(members))
		strength := model.StrengthLevel("")
		for i, m := range members {
			ids[i] = arguments[m].ID
			if arguments[m].Strength.Rank() > strength.Rank() {
				strength = arguments[m].Strength
			}
		}
		if strength == "" {
			strength = model.StrengthModerate
		}
		groups = append(groups, model.ArgumentGroup{
			GroupName:         name,
			MemberArgumentIDs: ids,
			CombinedStrength:  strength,
		})
	}

	for name, members := range g.citationClusters(arguments) {
		emit(members, "Shared authority: "+name)
	}
	for _, fc := range g.familyClusters(arguments) {
		emit(fc.members, fc.name)
	}
	for _, members := range crossRefComponents(arguments, related) {
		emit(members, g.dominantDisplay(arguments, members)+" cross-reference cluster")
	}

	// Stable output order: by first member, then size
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].MemberArgumentIDs[0] != groups[j].MemberArgumentIDs[0] {
			return groups[i].MemberArgumentIDs[0] < groups[j].MemberArgumentIDs[0]
		}
		return len(groups[i].MemberArgumentIDs) > len(groups[j].MemberArgumentIDs)
	})
	return groups
}

// citationClusters groups arguments citing the same case
func (g *Grouper) citationClusters(arguments []model.Argument) map[string][]int {
	displayCase := make(map[string]string)
	byCase := make(map[string][]int)
	for i, a := range arguments {
		argSeen := make(map[string]bool)
		for _, c := range a.Citations {
			key := strings.ToLower(c.CaseName)
			if key == "" || argSeen[key] {
				continue
			}
			argSeen[key] = true
			if _, ok := displayCase[key]; !ok {
				displayCase[key] = c.CaseName
			}
			byCase[key] = append(byCase[key], i)
		}
	}

	clusters := make(map[string][]int, len(byCase))
	for key, members := range byCase {
		clusters[displayCase[key]] = members
	}
	return clusters
}

type familyCluster struct {
	name    string
	members []int
}

// familyClusters groups arguments whose category keys share a family,
// e.g. the negligence_* categories
func (g *Grouper) familyClusters(arguments []model.Argument) []familyCluster {
	byFamily := make(map[string][]int)
	var order []string
	for i, a := range arguments {
		family := taxonomy.Family(a.Category)
		if _, ok := byFamily[family]; !ok {
			order = append(order, family)
		}
		byFamily[family] = append(byFamily[family], i)
	}

	var clusters []familyCluster
	for _, family := range order {
		members := byFamily[family]
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, familyCluster{
			name:    g.dominantDisplay(arguments, members) + " strategy",
			members: members,
		})
	}
	return clusters
}

// crossRefComponents finds connected components over the explicit
// cross-reference edges
func crossRefComponents(arguments []model.Argument, related [][]int) [][]int {
	n := len(arguments)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	linked := make([]bool, n)
	for from, targets := range related {
		if from >= n {
			continue
		}
		for _, to := range targets {
			if to >= 0 && to < n {
				union(from, to)
				linked[from], linked[to] = true, true
			}
		}
	}

	components := make(map[int][]int)
	var roots []int
	for i := 0; i < n; i++ {
		if !linked[i] {
			continue
		}
		root := find(i)
		if _, ok := components[root]; !ok {
			roots = append(roots, root)
		}
		components[root] = append(components[root], i)
	}

	out := make([][]int, 0, len(roots))
	for _, root := range roots {
		out = append(out, components[root])
	}
	return out
}

// dominantDisplay names the most common category among members; ties go to
// the earliest member's category
func (g *Grouper) dominantDisplay(arguments []model.Argument, members []int) string {
	counts := make(map[string]int)
	best := ""
	for _, m := range members {
		key := arguments[m].Category
		counts[key]++
		if best == "" || counts[key] > counts[best] {
			best = key
		}
	}
	return g.displayName(best)
}

func signature(members []int) string {
	var sb strings.Builder
	for _, m := range members {
		sb.WriteByte(byte(m >> 8))
		sb.WriteByte(byte(m))
	}
	return sb.String()
}
