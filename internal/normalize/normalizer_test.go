package normalize

import (
	"testing"

	"github.com/ppiankov/motionscope/internal/model"
)

func TestNormalizeAndDedupe_FreshIDsInDiscoveryOrder(t *testing.T) {
	n := NewNormalizer(0.6)

	candidates := []model.RawArgumentCandidate{
		{Text: "The complaint fails to state a claim upon which relief can be granted.", Category: "procedural_defenses", Section: "I"},
		{Text: "Plaintiff cannot establish that the defendant owed any duty of care.", Category: "negligence_duty", Section: "II"},
	}

	args, _ := n.NormalizeAndDedupe(candidates)
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(args))
	}
	if args[0].ID != "arg_001" || args[1].ID != "arg_002" {
		t.Errorf("ids = %q, %q", args[0].ID, args[1].ID)
	}
	if args[0].Location != "I" {
		t.Errorf("location = %q", args[0].Location)
	}
}

func TestNormalizeAndDedupe_IndependentDefectsNotMerged(t *testing.T) {
	n := NewNormalizer(0.6)

	// Five independently labeled procedural defects in the same broad family
	// must remain five distinct arguments.
	candidates := []model.RawArgumentCandidate{
		{Text: "The claim is barred by the two year statute of limitations.", Category: "procedural_defenses", Section: "II.A"},
		{Text: "This court lacks personal jurisdiction over the defendant.", Category: "procedural_defenses", Section: "II.B"},
		{Text: "Venue is improper in this district under the governing venue statute.", Category: "procedural_defenses", Section: "II.C"},
		{Text: "Plaintiff failed to join indispensable parties to this action.", Category: "procedural_defenses", Section: "II.D"},
		{Text: "A prior pending action between the same parties requires dismissal.", Category: "procedural_defenses", Section: "II.E"},
	}

	args, _ := n.NormalizeAndDedupe(candidates)
	if len(args) != 5 {
		t.Fatalf("expected 5 distinct arguments, got %d", len(args))
	}
	for _, a := range args {
		if a.Category == "" {
			t.Errorf("argument %s has empty category", a.ID)
		}
	}
}

func TestNormalizeAndDedupe_SameTheoryAdjacentSectionsMerged(t *testing.T) {
	n := NewNormalizer(0.6)

	candidates := []model.RawArgumentCandidate{
		{
			Text:      "Plaintiff cannot establish proximate cause between the collision and the claimed injuries.",
			Category:  "negligence_causation",
			Section:   "III.A",
			Citations: []model.Citation{{CaseName: "Smith v. Jones", Year: 2020}},
		},
		{
			Text:      "Plaintiff cannot establish proximate cause between the collision and the claimed back injuries.",
			Category:  "causation_disputes",
			Section:   "III.B",
			Citations: []model.Citation{{CaseName: "Smith v. Jones", Year: 2020}, {CaseName: "Doe v. Roe", Year: 2018}},
		},
	}

	args, _ := n.NormalizeAndDedupe(candidates)
	if len(args) != 1 {
		t.Fatalf("expected merge into 1 argument, got %d", len(args))
	}

	a := args[0]
	if a.Location != "III.A" {
		t.Errorf("location = %q, want first occurrence III.A", a.Location)
	}
	if len(a.Citations) != 2 {
		t.Errorf("citations = %+v, want union of 2", a.Citations)
	}
	// Longer span wins the suggested category
	if a.Category != "causation_disputes" {
		t.Errorf("category = %q, want causation_disputes (longer span)", a.Category)
	}
}

func TestNormalizeAndDedupe_SimilarTextDistantSectionsNotMerged(t *testing.T) {
	n := NewNormalizer(0.6)

	// A theory legitimately repeated for different relief in far-apart
	// sections must not merge on text similarity alone.
	text := "Plaintiff cannot establish proximate cause between the collision and the claimed injuries."
	candidates := []model.RawArgumentCandidate{
		{Text: text, Category: "negligence_causation", Section: "I"},
		{Text: "Venue is improper in this district.", Category: "procedural_defenses", Section: "II"},
		{Text: "The expert opinions are inadmissible under Rule 702.", Category: "expert_witness_challenges", Section: "III"},
		{Text: text, Category: "negligence_causation", Section: "IV"},
	}

	args, _ := n.NormalizeAndDedupe(candidates)
	if len(args) != 4 {
		t.Errorf("expected 4 arguments (no merge across distant sections), got %d", len(args))
	}
}

func TestNormalizeAndDedupe_EqualLengthPrefersPredefinedCategory(t *testing.T) {
	n := NewNormalizer(0.6)

	text := "The expert testimony must be excluded as unreliable under the governing standard."
	candidates := []model.RawArgumentCandidate{
		{Text: text, Category: "daubert challenge", Section: "IV.A"},
		{Text: text, Category: "expert_witness_challenges", Section: "IV.B"},
	}

	args, _ := n.NormalizeAndDedupe(candidates)
	if len(args) != 1 {
		t.Fatalf("expected 1 merged argument, got %d", len(args))
	}
	if args[0].Category != "expert_witness_challenges" {
		t.Errorf("category = %q, want predefined expert_witness_challenges", args[0].Category)
	}
}

func TestNormalizeAndDedupe_MergedStrengthNeverWeakens(t *testing.T) {
	n := NewNormalizer(0.6)

	text := "The claim is barred by the applicable statute of limitations period."
	candidates := []model.RawArgumentCandidate{
		{Text: text, Category: "procedural_defenses", Section: "II.A", Strength: model.StrengthStrong},
		{Text: text, Category: "procedural_defenses", Section: "II.B", Strength: model.StrengthWeak},
	}

	args, _ := n.NormalizeAndDedupe(candidates)
	if len(args) != 1 {
		t.Fatalf("expected 1 merged argument, got %d", len(args))
	}
	if args[0].Strength != model.StrengthStrong {
		t.Errorf("strength = %q, want strong", args[0].Strength)
	}
}

func TestNormalizeAndDedupe_CrossRefsFollowMerges(t *testing.T) {
	n := NewNormalizer(0.6)

	text := "Plaintiff cannot establish proximate cause between the collision and the claimed injuries."
	candidates := []model.RawArgumentCandidate{
		{Text: text, Category: "negligence_causation", Section: "III.A"},
		{Text: text, Category: "negligence_causation", Section: "III.B", Related: []int{2}},
		{Text: "There is no evidence of any breach of duty by the defendant.", Category: "negligence_breach", Section: "III.C"},
	}

	args, related := n.NormalizeAndDedupe(candidates)
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments after merge, got %d", len(args))
	}
	// The merged argument (index 0) inherits the cross-reference to index 1
	if len(related[0]) != 1 || related[0][0] != 1 {
		t.Errorf("related[0] = %v, want [1]", related[0])
	}
}
