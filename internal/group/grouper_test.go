package group

import (
	"testing"

	"github.com/ppiankov/motionscope/internal/model"
)

func arg(id, category string, strength model.StrengthLevel, cites ...string) model.Argument {
	a := model.Argument{ID: id, Category: category, Strength: strength}
	for _, c := range cites {
		a.Citations = append(a.Citations, model.Citation{CaseName: c})
	}
	return a
}

func TestGroup_NoClustersReturnsEmptySlice(t *testing.T) {
	g := NewGrouper(nil)

	args := []model.Argument{
		arg("arg_001", "negligence_duty", model.StrengthStrong),
		arg("arg_002", "expert_witness_challenges", model.StrengthWeak),
	}

	groups := g.Group(args, make([][]int, 2))
	if groups == nil {
		t.Fatal("Group() = nil, want empty slice so the field serializes as []")
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %+v", groups)
	}
}

func TestGroup_SharedCitation(t *testing.T) {
	g := NewGrouper(nil)

	args := []model.Argument{
		arg("arg_001", "negligence_causation", model.StrengthModerate, "Smith v. Jones"),
		arg("arg_002", "expert_witness_challenges", model.StrengthStrong, "Smith v. Jones"),
		arg("arg_003", "procedural_defenses", model.StrengthWeak),
	}

	groups := g.Group(args, make([][]int, 3))
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d: %+v", len(groups), groups)
	}

	grp := groups[0]
	if grp.GroupName != "Shared authority: Smith v. Jones" {
		t.Errorf("group name = %q", grp.GroupName)
	}
	if len(grp.MemberArgumentIDs) != 2 {
		t.Errorf("members = %v", grp.MemberArgumentIDs)
	}
	if grp.CombinedStrength != model.StrengthStrong {
		t.Errorf("combined strength = %q, want strong (max member)", grp.CombinedStrength)
	}
}

func TestGroup_CategoryFamily(t *testing.T) {
	g := NewGrouper(func(key string) string {
		if key == "negligence_duty" {
			return "Negligence: Duty"
		}
		return key
	})

	args := []model.Argument{
		arg("arg_001", "negligence_duty", model.StrengthModerate),
		arg("arg_002", "negligence_causation", model.StrengthModerate),
		arg("arg_003", "evidence_admissibility", model.StrengthModerate),
	}

	groups := g.Group(args, make([][]int, 3))
	if len(groups) != 1 {
		t.Fatalf("expected 1 family group, got %d", len(groups))
	}
	if got := groups[0].GroupName; got != "Negligence: Duty strategy" {
		t.Errorf("group name = %q", got)
	}
}

func TestGroup_CrossReferences(t *testing.T) {
	g := NewGrouper(nil)

	args := []model.Argument{
		arg("arg_001", "procedural_defenses", model.StrengthWeak),
		arg("arg_002", "evidence_admissibility", model.StrengthModerate),
		arg("arg_003", "damages_arguments", model.StrengthModerate),
	}
	related := [][]int{{1}, nil, nil}

	groups := g.Group(args, related)
	if len(groups) != 1 {
		t.Fatalf("expected 1 cross-reference group, got %d", len(groups))
	}
	if got := groups[0].MemberArgumentIDs; len(got) != 2 || got[0] != "arg_001" || got[1] != "arg_002" {
		t.Errorf("members = %v", got)
	}
}

func TestGroup_NoSingletonGroups(t *testing.T) {
	g := NewGrouper(nil)

	args := []model.Argument{
		arg("arg_001", "negligence_duty", model.StrengthStrong, "Smith v. Jones"),
		arg("arg_002", "evidence_admissibility", model.StrengthWeak),
	}

	groups := g.Group(args, make([][]int, 2))
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %+v", groups)
	}
}

func TestGroup_OverlappingGroupsAllowed(t *testing.T) {
	g := NewGrouper(nil)

	// arg_001 shares a citation with arg_003 and a family with arg_002:
	// it must appear in both groups, no forced partition.
	args := []model.Argument{
		arg("arg_001", "negligence_causation", model.StrengthModerate, "Smith v. Jones"),
		arg("arg_002", "negligence_duty", model.StrengthModerate),
		arg("arg_003", "evidence_admissibility", model.StrengthModerate, "Smith v. Jones"),
	}

	groups := g.Group(args, make([][]int, 3))
	if len(groups) != 2 {
		t.Fatalf("expected 2 overlapping groups, got %d: %+v", len(groups), groups)
	}

	appearances := 0
	for _, grp := range groups {
		for _, id := range grp.MemberArgumentIDs {
			if id == "arg_001" {
				appearances++
			}
		}
	}
	if appearances != 2 {
		t.Errorf("arg_001 appears in %d groups, want 2", appearances)
	}
}

func TestGroup_DuplicateMemberSetsCollapse(t *testing.T) {
	g := NewGrouper(nil)

	// Same pair related by citation AND cross-reference: one group only.
	args := []model.Argument{
		arg("arg_001", "negligence_causation", model.StrengthModerate, "Smith v. Jones"),
		arg("arg_002", "evidence_admissibility", model.StrengthModerate, "Smith v. Jones"),
	}
	related := [][]int{{1}, nil}

	groups := g.Group(args, related)
	if len(groups) != 1 {
		t.Errorf("expected duplicate member sets to collapse, got %d groups", len(groups))
	}
}
