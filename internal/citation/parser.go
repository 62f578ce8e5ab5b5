// Package citation pre-extracts case-law citations from raw motion text.
// The resulting list is the only set of citations the text-understanding
// capability is allowed to attribute to arguments, which keeps fabricated
// authority out of the analysis.
package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/motionscope/internal/model"
)

// Party names are runs of capitalized tokens, so surrounding prose does
// not bleed into the case name.
const partyName = `[A-Z][\w.'&-]*(?:\s+[A-Z][\w.'&-]*)*`

// Reporter citation patterns. The first covers federal reporters
// (123 F.3d 456 (9th Cir. 2020)), the second state reporters. The court
// capture is lazy so the trailing year splits off inside the parenthetical.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(` + partyName + `)\s+v\.\s+(` + partyName + `),?\s+(\d+)\s+(F\.\s?(?:2d|3d|4th)|F\.\s?Supp\.?\s?(?:2d|3d)?|U\.S\.)\s+(\d+)(?:\s*\((?:([^)]+?)\s*)?(\d{4})\))?`),
	regexp.MustCompile(`(` + partyName + `)\s+v\.\s+(` + partyName + `),?\s+(\d+)\s+([A-Z][A-Za-z.]*(?:\s?(?:2d|3d))?)\s+(\d+)(?:\s*\((?:([^)]+?)\s*)?(\d{4})\))?`),
}

// Capitalized citation signals that the party-name capture cannot
// distinguish from the first party.
var signalWords = map[string]bool{
	"see":     true,
	"accord":  true,
	"contra":  true,
	"compare": true,
	"but":     true,
	"also":    true,
	"cf.":     true,
	"e.g.":    true,
}

func stripSignals(name string) string {
	fields := strings.Fields(name)
	for len(fields) > 1 && signalWords[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// Extract finds reporter citations in motion text, deduplicated by case
// name and capped at max to keep prompts bounded
func Extract(motionText string, max int) []model.Citation {
	if max <= 0 {
		max = 20
	}

	var citations []model.Citation
	seen := make(map[string]bool)

	for _, pattern := range citationPatterns {
		for _, match := range pattern.FindAllStringSubmatch(motionText, -1) {
			first := stripSignals(strings.TrimSpace(match[1]))
			caseName := first + " v. " + strings.TrimSpace(match[2])

			key := strings.ToLower(caseName)
			if seen[key] {
				continue
			}
			seen[key] = true

			year := 0
			if match[7] != "" {
				year, _ = strconv.Atoi(match[7])
			}

			reporter := strings.TrimSpace(match[0])
			if i := strings.Index(reporter, first); i > 0 {
				reporter = reporter[i:]
			}

			citations = append(citations, model.Citation{
				CaseName:         caseName,
				ReporterCitation: reporter,
				Court:            strings.TrimSpace(match[6]),
				Year:             year,
			})

			if len(citations) >= max {
				return citations
			}
		}
	}

	return citations
}

// Names returns the lowercased case names of a citation list
func Names(citations []model.Citation) map[string]bool {
	names := make(map[string]bool, len(citations))
	for _, c := range citations {
		names[strings.ToLower(c.CaseName)] = true
	}
	return names
}
