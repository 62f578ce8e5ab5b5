package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/motionscope/internal/model"
)

// PassKind selects which extraction prompt is built
type PassKind string

const (
	// PassExhaustive asks for every argument explicitly raised in the motion
	PassExhaustive PassKind = "exhaustive"

	// PassImplied asks for arguments implied but not expressly labeled,
	// catching what the first pass may have skipped
	PassImplied PassKind = "implied"
)

const systemPrompt = `You are an expert legal analyst specializing in motion practice.
You analyze opposing counsel motions with precision and produce structured output
for legal response strategy.

Analysis standards:
- COMPLETENESS: report every distinct legal argument; never omit one
- ACCURACY: only attribute citations that appear in the allowed list
- PRECISION: one entry per distinct argument; do not merge unrelated theories
- NEVER invent citations not present in the document

You must respond with a valid JSON object with exactly this structure:
{
  "arguments": [
    {
      "text": "the argument, verbatim or lightly normalized",
      "category": "suggested category label, e.g. procedural_defenses",
      "section": "section label where the argument appears, e.g. III.A",
      "strength": "weak|moderate|strong",
      "citations": [
        {"case_name": "Smith v. Jones", "reporter_citation": "123 F.3d 456", "court": "9th Cir.", "year": 2020}
      ],
      "related": [0, 2]
    }
  ]
}

"related" holds zero-based indices of other entries in YOUR OWN response that
share an underlying legal theory with this entry. Omit fields you cannot fill
except "text" and "category", which are required for every entry.`

// repairInstruction is appended to the prompt after a malformed response
const repairInstruction = `Your previous response could not be parsed: %s

Respond again with ONLY the JSON object described above. No prose, no markdown
fences, no commentary. Every entry must include non-empty "text" and "category".`

// BuildPrompt constructs the pass-specific user prompt
func BuildPrompt(pass PassKind, motionText, caseContext string, allowed []model.Citation) string {
	var sb strings.Builder

	switch pass {
	case PassImplied:
		sb.WriteString("Identify the legal arguments that are IMPLIED by the following motion but not expressly labeled as arguments: ")
		sb.WriteString("unstated premises, fallback positions, and theories the drafter relies on without briefing. ")
		sb.WriteString("Do not repeat arguments that are explicitly presented.\n\n")
	default:
		sb.WriteString("Extract EVERY distinct legal argument explicitly raised in the following motion. ")
		sb.WriteString("Be exhaustive: independent defects (e.g. limitations, jurisdiction, venue, joinder) are separate arguments even when they share a section.\n\n")
	}

	sb.WriteString("MOTION TEXT:\n")
	sb.WriteString(motionText)
	sb.WriteString("\n")

	if caseContext != "" {
		sb.WriteString("\nCASE CONTEXT: ")
		sb.WriteString(caseContext)
		sb.WriteString("\n")
	}

	sb.WriteString("\nALLOWED CITATIONS (attribute only these):\n")
	sb.WriteString(renderAllowedCitations(allowed))
	sb.WriteString("\n\nRespond with the JSON object only.")

	return sb.String()
}

// AppendRepair extends a prompt with a corrective instruction after a
// malformed response
func AppendRepair(prompt string, parseErr error) string {
	return prompt + "\n\n" + fmt.Sprintf(repairInstruction, parseErr)
}

func renderAllowedCitations(allowed []model.Citation) string {
	if len(allowed) == 0 {
		return "(none found in the motion; report arguments without citations)"
	}
	data, err := json.MarshalIndent(allowed, "", "  ")
	if err != nil {
		return "(unavailable)"
	}
	return string(data)
}
