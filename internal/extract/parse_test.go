package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/motionscope/internal/model"
)

func TestParseCandidates_Envelope(t *testing.T) {
	raw := `{"arguments":[{"text":"Venue is improper.","category":"procedural_defenses","section":"II"}]}`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Section != "II" {
		t.Errorf("candidates = %+v", candidates)
	}
}

func TestParseCandidates_BareArray(t *testing.T) {
	raw := `[{"text":"Venue is improper.","category":"procedural_defenses"}]`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestParseCandidates_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"arguments\":[{\"text\":\"Venue is improper.\",\"category\":\"procedural_defenses\"}]}\n```"

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestParseCandidates_Malformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"Sure! Here are the arguments I found.",
		`{"arguments":[{"category":"procedural_defenses"}]}`,
		`{"arguments":[{"text":"Venue is improper."}]}`,
	} {
		if _, err := parseCandidates(raw); err == nil {
			t.Errorf("parseCandidates(%q) expected error", raw)
		}
	}
}

func TestParseCandidates_StrengthFolding(t *testing.T) {
	raw := `{"arguments":[
		{"text":"a1","category":"c","strength":"very_strong"},
		{"text":"a2","category":"c","strength":"very_weak"},
		{"text":"a3","category":"c","strength":"overwhelming"},
		{"text":"a4","category":"c"}
	]}`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	want := []model.StrengthLevel{model.StrengthStrong, model.StrengthWeak, "", ""}
	for i, w := range want {
		if candidates[i].Strength != w {
			t.Errorf("candidate %d strength = %q, want %q", i, candidates[i].Strength, w)
		}
	}
}

func TestParseCandidates_CitationHygiene(t *testing.T) {
	raw := `{"arguments":[{"text":"a","category":"c","citations":[
		{"case_name":"Smith v. Jones"},
		{"case_name":"smith V. jones"},
		{"case_name":""},
		{"case_name":"Doe v. Roe"}
	]}]}`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	cites := candidates[0].Citations
	if len(cites) != 2 {
		t.Fatalf("expected 2 citations after dedup, got %d: %+v", len(cites), cites)
	}
}

func TestParseCandidates_RelatedOutOfRange(t *testing.T) {
	raw := `{"arguments":[
		{"text":"a","category":"c","related":[1,5,-1]},
		{"text":"b","category":"c"}
	]}`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates[0].Related) != 1 || candidates[0].Related[0] != 1 {
		t.Errorf("related = %v, want [1]", candidates[0].Related)
	}
}

func TestSanitizeMotionText(t *testing.T) {
	htmlMotion := "<html><body><p>Defendant moves to dismiss.</p><script>alert(1)</script><p>Venue is improper.</p></body></html>"

	got := SanitizeMotionText(htmlMotion)
	if strings.Contains(got, "<p>") || strings.Contains(got, "alert") {
		t.Errorf("SanitizeMotionText left markup or script content: %q", got)
	}
	if !strings.Contains(got, "Defendant moves to dismiss.") || !strings.Contains(got, "Venue is improper.") {
		t.Errorf("SanitizeMotionText dropped visible text: %q", got)
	}

	plain := "Defendant moves to dismiss. Venue is improper."
	if got := SanitizeMotionText(plain); got != plain {
		t.Errorf("plain text must pass through, got %q", got)
	}
}
