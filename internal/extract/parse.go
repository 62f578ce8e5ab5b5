package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/motionscope/internal/model"
)

// candidateEnvelope is the expected response schema
type candidateEnvelope struct {
	Arguments []rawCandidate `json:"arguments"`
}

// rawCandidate mirrors model.RawArgumentCandidate but keeps strength as a
// free-form string so malformed labels degrade instead of failing the parse
type rawCandidate struct {
	Text      string           `json:"text"`
	Category  string           `json:"category"`
	Section   string           `json:"section"`
	Strength  string           `json:"strength"`
	Citations []model.Citation `json:"citations"`
	Related   []int            `json:"related"`
}

// parseCandidates validates a raw completion against the expected schema.
// Accepted shapes: {"arguments":[...]} or a bare JSON array, optionally
// wrapped in markdown fences. Candidates missing text or category fail the
// whole parse so the repair loop can ask for a corrected response.
func parseCandidates(raw string) ([]model.RawArgumentCandidate, error) {
	payload := stripFences(strings.TrimSpace(raw))
	if payload == "" {
		return nil, fmt.Errorf("empty response")
	}

	var envelope candidateEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		var bare []rawCandidate
		if arrErr := json.Unmarshal([]byte(payload), &bare); arrErr != nil {
			return nil, fmt.Errorf("response is not valid JSON: %w", err)
		}
		envelope.Arguments = bare
	}

	candidates := make([]model.RawArgumentCandidate, 0, len(envelope.Arguments))
	for i, rc := range envelope.Arguments {
		if strings.TrimSpace(rc.Text) == "" {
			return nil, fmt.Errorf("argument %d is missing required field \"text\"", i)
		}
		if strings.TrimSpace(rc.Category) == "" {
			return nil, fmt.Errorf("argument %d is missing required field \"category\"", i)
		}

		candidates = append(candidates, model.RawArgumentCandidate{
			Text:      strings.TrimSpace(rc.Text),
			Category:  strings.TrimSpace(rc.Category),
			Section:   strings.TrimSpace(rc.Section),
			Strength:  model.ParseStrength(strings.TrimSpace(strings.ToLower(rc.Strength))),
			Citations: dedupeCitations(rc.Citations),
			Related:   validRelated(rc.Related, len(envelope.Arguments)),
		})
	}

	return candidates, nil
}

// stripFences removes a surrounding markdown code fence if present
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// dedupeCitations drops citations without a case name and textual duplicates
// within one argument
func dedupeCitations(citations []model.Citation) []model.Citation {
	var out []model.Citation
	seen := make(map[string]bool)
	for _, c := range citations {
		name := strings.TrimSpace(c.CaseName)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		c.CaseName = name
		out = append(out, c)
	}
	return out
}

// validRelated keeps only in-range cross-reference indices
func validRelated(related []int, n int) []int {
	var out []int
	for _, idx := range related {
		if idx >= 0 && idx < n {
			out = append(out, idx)
		}
	}
	return out
}
