package model

// RawArgumentCandidate is one argument as reported by the text-understanding
// capability, before normalization, deduplication, and taxonomy resolution
type RawArgumentCandidate struct {
	// Text is the argument span (verbatim or lightly normalized)
	Text string `json:"text"`

	// Category is the suggested category label (free-form, resolved later)
	Category string `json:"category"`

	// Section is the structural label of the motion section, e.g. "III.A"
	Section string `json:"section,omitempty"`

	// Strength is the suggested strength label; empty when absent or malformed
	Strength StrengthLevel `json:"strength,omitempty"`

	// Citations are the cases the capability attributed to this argument
	Citations []Citation `json:"citations,omitempty"`

	// Related holds zero-based indices of other candidates in the same
	// response that the capability flagged as sharing a legal theory
	Related []int `json:"related,omitempty"`
}
